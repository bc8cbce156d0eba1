// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

// Args holds the parsed command line.
type Args struct {
	// Command is the subcommand: "" (TUI), "chat", "report", "logout",
	// "version", "help".
	Command string

	// Plain forces the line-based REPL instead of the TUI.
	Plain bool

	// NoCache keeps the session in memory only.
	NoCache bool

	// BackendURL overrides the configured gateway URL.
	BackendURL string

	// Days overrides the report window for the report command.
	Days int
}

// Parse reads os.Args style arguments (without the program name).
func Parse(argv []string) (Args, error) {
	args := Args{Days: 0}

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "--plain":
			args.Plain = true
		case arg == "--no-cache":
			args.NoCache = true
		case arg == "--backend":
			i++
			if i >= len(argv) {
				return args, fmt.Errorf("--backend requires a URL")
			}
			args.BackendURL = argv[i]
		case strings.HasPrefix(arg, "--backend="):
			args.BackendURL = strings.TrimPrefix(arg, "--backend=")
		case arg == "--days":
			i++
			if i >= len(argv) {
				return args, fmt.Errorf("--days requires a number")
			}
			if _, err := fmt.Sscanf(argv[i], "%d", &args.Days); err != nil {
				return args, fmt.Errorf("--days: %q is not a number", argv[i])
			}
		case strings.HasPrefix(arg, "-"):
			return args, fmt.Errorf("unknown flag %q", arg)
		case args.Command == "":
			args.Command = arg
		default:
			return args, fmt.Errorf("unexpected argument %q", arg)
		}
		i++
	}

	switch args.Command {
	case "", "chat", "report", "logout", "version", "help":
	default:
		return args, fmt.Errorf("unknown command %q", args.Command)
	}
	return args, nil
}

// PrintUsage writes the help text.
func PrintUsage() {
	fmt.Fprint(os.Stderr, `haven - terminal companion for the Haven wellness service

Usage:
  haven              launch the TUI
  haven chat         line-based chat (for plain terminals)
  haven report       print the wellness report
  haven logout       clear the local session
  haven version      print version

Flags:
  --plain            use the line-based REPL instead of the TUI
  --no-cache         do not persist the conversation on disk
  --backend URL      override the API gateway URL
  --days N           report window in days (report command)
`)
}
