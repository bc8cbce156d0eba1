// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		want    Args
		wantErr bool
	}{
		{"empty", nil, Args{}, false},
		{"tui flags", []string{"--plain", "--no-cache"}, Args{Plain: true, NoCache: true}, false},
		{"chat", []string{"chat"}, Args{Command: "chat"}, false},
		{"report with days", []string{"report", "--days", "30"}, Args{Command: "report", Days: 30}, false},
		{"backend equals", []string{"--backend=http://x:8000"}, Args{BackendURL: "http://x:8000"}, false},
		{"backend split", []string{"--backend", "http://x:8000"}, Args{BackendURL: "http://x:8000"}, false},
		{"unknown command", []string{"dance"}, Args{}, true},
		{"unknown flag", []string{"--what"}, Args{}, true},
		{"days missing value", []string{"--days"}, Args{}, true},
		{"days not a number", []string{"--days", "soon"}, Args{}, true},
		{"backend missing value", []string{"--backend"}, Args{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.argv)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%v) error = %v, wantErr %v", tc.argv, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("Parse(%v) = %+v, want %+v", tc.argv, got, tc.want)
			}
		})
	}
}
