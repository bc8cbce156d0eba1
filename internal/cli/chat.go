// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/haven-tui/internal/config"
	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the plain REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. Non-empty input is
// added to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatCLI) saveHistory() {
	dir := filepath.Dir(c.historyFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// LOGIN PROMPT
// =============================================================================

// PromptLogin asks for credentials on the terminal and logs in. The
// password is read without echo.
func PromptLogin(ctx context.Context, mgr *session.Manager) error {
	fmt.Print("email: ")
	var email string
	if _, err := fmt.Scanln(&email); err != nil {
		return fmt.Errorf("reading email: %w", err)
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	return mgr.Login(ctx, strings.TrimSpace(email), string(password))
}

// =============================================================================
// CHAT REPL
// =============================================================================

// RunChat runs the line-based chat loop until /quit or EOF.
func RunChat(ctx context.Context, mgr *session.Manager) error {
	if !mgr.LoggedIn() {
		if err := PromptLogin(ctx, mgr); err != nil {
			return err
		}
	}

	if err := mgr.EnsureInitialized(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: session setup failed: %v\n", err)
	}
	if err := mgr.LoadHistory(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history sync failed, using local cache\n")
	}

	printConversation(mgr.Conversation())
	fmt.Println("\nType your message, /help for commands.")

	cli := NewChatCLI()
	defer cli.Close()

	for {
		input, err := cli.ReadInput("you> ")
		if err != nil {
			// Ctrl+C or EOF ends the session cleanly.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			done, err := handleSlashCommand(ctx, input, mgr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		if err := mgr.SendText(ctx, input); err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		}
		// Print whatever settled, including the apology on failure.
		if last, ok := mgr.Conversation().Last(); ok && last.Sender == model.SenderBot {
			fmt.Printf("%s> %s\n", last.Sender.DisplayName(), last.Text)
		}
	}
}

func handleSlashCommand(ctx context.Context, input string, mgr *session.Manager) (bool, error) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		return true, nil
	case "/history":
		printConversation(mgr.Conversation())
		return false, nil
	case "/logout":
		if err := mgr.Logout(ctx); err != nil {
			return true, err
		}
		fmt.Println("Signed out. Local conversation cleared.")
		return true, nil
	case "/help":
		fmt.Println("/history  show the conversation")
		fmt.Println("/logout   sign out and clear local data")
		fmt.Println("/quit     exit")
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q (try /help)", input)
	}
}

func printConversation(conv *model.Conversation) {
	for _, msg := range conv.Messages {
		fmt.Printf("%s> %s\n", msg.Sender.DisplayName(), msg.Text)
	}
}
