// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// haven is a terminal client for the Haven mental-wellness service:
// conversations with Dr. Sarah, voice messages, mood check-ins, and
// wellness reports.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/cli"
	"github.com/jeranaias/haven-tui/internal/config"
	"github.com/jeranaias/haven-tui/internal/mood"
	"github.com/jeranaias/haven-tui/internal/resources"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/store"
	"github.com/jeranaias/haven-tui/internal/ui/auth"
	"github.com/jeranaias/haven-tui/internal/ui/chat"
	"github.com/jeranaias/haven-tui/internal/ui/dashboard"
	"github.com/jeranaias/haven-tui/internal/ui/resourcesview"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/voice"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		cli.PrintUsage()
		os.Exit(2)
	}

	switch args.Command {
	case "help":
		cli.PrintUsage()
	case "version":
		fmt.Printf("haven %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	default:
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(args cli.Args) error {
	cfg := config.Global()
	if args.BackendURL != "" {
		cfg.Backend.URL = args.BackendURL
	}

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:      cfg.Backend.URL,
		Timeout:      cfg.Backend.Timeout(),
		VoiceTimeout: cfg.Backend.VoiceTimeout(),
	})

	var st store.Store
	if args.NoCache {
		st = store.NewMemStore()
	} else {
		fileStore, err := store.NewFileStore(store.DefaultCacheDir())
		if err != nil {
			return fmt.Errorf("opening session cache: %w", err)
		}
		st = fileStore
	}

	mgr := session.NewManager(client, st, cfg.Chat.Language)
	mgr.Restore()

	switch args.Command {
	case "chat":
		return cli.RunChat(context.Background(), mgr)
	case "report":
		days := args.Days
		if days <= 0 {
			days = cfg.Chat.ReportDays
		}
		return cli.RunReport(context.Background(), mgr, client, days)
	case "logout":
		if err := mgr.Logout(context.Background()); err != nil {
			return err
		}
		fmt.Println("Signed out. Local conversation cleared.")
		return nil
	}

	if args.Plain {
		return cli.RunChat(context.Background(), mgr)
	}
	return runTUI(cfg, mgr, client)
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(cfg *config.Config, mgr *session.Manager, client *backend.Client) error {
	var theme *styles.Theme
	switch cfg.UI.Theme {
	case "dark":
		theme = styles.NewThemeDark()
	case "light":
		theme = styles.NewThemeLight()
	default:
		theme = styles.NewTheme()
	}

	tracker, err := mood.Open(filepath.Join(store.DefaultCacheDir(), "mood.db"))
	if err != nil {
		return fmt.Errorf("opening mood database: %w", err)
	}
	defer tracker.Close()

	var recorder *voice.Recorder
	if cfg.Voice.Enabled {
		if device, err := voice.NewSystemCapture(); err == nil {
			recorder = voice.NewRecorder(device)
			recorder.MaxDuration = time.Duration(cfg.Voice.MaxSeconds) * time.Second
		}
	}

	app := newApp(cfg, theme, mgr, client, tracker, recorder)

	// Live-reload language and theme preferences while running.
	watcher, werr := config.NewWatcher(func(fresh *config.Config) {
		mgr.SetLanguage(fresh.Chat.Language)
	})
	if werr == nil {
		defer watcher.Close()
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// =============================================================================
// ROOT MODEL
// =============================================================================

type view int

const (
	viewAuth view = iota
	viewChat
	viewDashboard
	viewResources
)

// appModel is the root Bubble Tea model. It owns the screen switcher;
// each view is its own model.
type appModel struct {
	cfg   *config.Config
	theme *styles.Theme
	mgr   *session.Manager

	active    view
	auth      *auth.Model
	chat      *chat.Model
	dashboard *dashboard.Model
	library   *resourcesview.Model

	width  int
	height int
}

func newApp(cfg *config.Config, theme *styles.Theme, mgr *session.Manager, client *backend.Client, tracker *mood.Tracker, recorder *voice.Recorder) *appModel {
	timeout := cfg.Backend.Timeout()

	app := &appModel{
		cfg:       cfg,
		theme:     theme,
		mgr:       mgr,
		auth:      auth.NewModel(theme, mgr, timeout),
		chat:      chat.NewModel(theme, mgr, client, recorder, timeout, cfg.Backend.VoiceTimeout()),
		dashboard: dashboard.NewModel(theme, mgr, client, tracker, cfg.Chat.ReportDays, timeout),
		library:   resourcesview.NewModel(theme, resources.NewLibrary()),
	}
	if mgr.LoggedIn() {
		app.active = viewChat
	}
	return app
}

func (m *appModel) Init() tea.Cmd {
	if m.active == viewChat {
		return m.chat.Init()
	}
	return m.auth.Init()
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.Resize(msg.Width, msg.Height)
		// Every view tracks its own size.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		cmds = append(cmds, cmd)
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
		m.dashboard, cmd = m.dashboard.Update(msg)
		cmds = append(cmds, cmd)
		m.library, cmd = m.library.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.active != viewAuth {
				return m.cycleView()
			}
		case "ctrl+l":
			if m.active != viewAuth {
				return m, m.logoutCmd()
			}
		}

	case auth.AuthenticatedMsg:
		m.active = viewChat
		return m, m.chat.Init()

	case logoutDoneMsg:
		m.active = viewAuth
		return m, nil
	}

	return m.routeToActive(msg)
}

func (m *appModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case viewAuth:
		m.auth, cmd = m.auth.Update(msg)
	case viewChat:
		m.chat, cmd = m.chat.Update(msg)
	case viewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case viewResources:
		m.library, cmd = m.library.Update(msg)
	}
	return m, cmd
}

func (m *appModel) cycleView() (tea.Model, tea.Cmd) {
	switch m.active {
	case viewChat:
		m.active = viewDashboard
		return m, m.dashboard.Init()
	case viewDashboard:
		m.active = viewResources
		return m, m.library.Init()
	default:
		m.active = viewChat
		m.chat.Reload()
		return m, nil
	}
}

type logoutDoneMsg struct{}

func (m *appModel) logoutCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mgr.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func (m *appModel) View() string {
	switch m.active {
	case viewChat:
		return m.chat.View()
	case viewDashboard:
		return m.dashboard.View()
	case viewResources:
		return m.library.View()
	default:
		return m.auth.View()
	}
}
