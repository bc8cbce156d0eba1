// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/report"
	"github.com/jeranaias/haven-tui/internal/session"
)

// RunReport prints the wellness report to stdout.
func RunReport(ctx context.Context, mgr *session.Manager, client *backend.Client, days int) error {
	if !mgr.LoggedIn() {
		if err := PromptLogin(ctx, mgr); err != nil {
			return err
		}
	}

	src, err := client.Sentiment(ctx, mgr.UserID(), days)
	if err != nil {
		return fmt.Errorf("fetching sentiment report: %w", err)
	}

	r := report.Build(src, days)
	fmt.Printf("Wellness report, last %d days\n\n", days)
	if len(r.Daily) == 0 {
		fmt.Println("No conversation data in this period.")
		return nil
	}

	for _, label := range r.Labels {
		if spark := r.LabelSparkline(label); spark != "" {
			fmt.Printf("%-12s %s\n", label, spark)
		}
	}
	fmt.Println()
	for _, d := range r.Daily {
		dominant := d.Dominant
		if dominant == "" {
			dominant = "-"
		}
		fmt.Printf("%-12s %-12s %.2f\n", d.Date, dominant, d.Score)
	}
	return nil
}
