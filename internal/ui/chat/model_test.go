// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/store"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// stubBackend satisfies session.Backend; the chat view tests never let
// a command run, so every method can return zero values.
type stubBackend struct{}

func (stubBackend) Login(ctx context.Context, email, password string) (*backend.LoginResponse, error) {
	return &backend.LoginResponse{AccessToken: "t", UserID: "u"}, nil
}

func (stubBackend) Register(ctx context.Context, req backend.RegisterRequest) (*backend.RegisterResponse, error) {
	return &backend.RegisterResponse{}, nil
}

func (stubBackend) Logout(ctx context.Context, refreshToken string) error { return nil }

func (stubBackend) InitSession(ctx context.Context, userID string) error { return nil }

func (stubBackend) History(ctx context.Context, userID string) ([]backend.HistoryEntry, error) {
	return nil, nil
}

func (stubBackend) SendMessage(ctx context.Context, userID, message, language string) (*backend.ChatResponse, error) {
	return &backend.ChatResponse{}, nil
}

func (stubBackend) SendVoice(ctx context.Context, userID, filename string, audio io.Reader) (*backend.VoiceResponse, error) {
	return &backend.VoiceResponse{}, nil
}

func (stubBackend) SetAccessToken(token string) {}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	mgr := session.NewManager(stubBackend{}, store.NewMemStore(), "en")
	return NewModel(styles.NewThemeDark(), mgr, stubBackend{}, nil, 30*time.Second, 120*time.Second)
}

func TestVoiceTimeoutIsSeparate(t *testing.T) {
	m := newTestModel(t)

	if m.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", m.timeout)
	}
	if m.voiceTimeout != 120*time.Second {
		t.Errorf("voiceTimeout = %v, want 120s", m.voiceTimeout)
	}
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	m := newTestModel(t)

	for _, input := range []string{"", "   "} {
		m.input.SetValue(input)
		if cmd := m.submit(); cmd != nil {
			t.Errorf("submit(%q) returned a command", input)
		}
	}
	if !m.mgr.Conversation().IsEmpty() {
		t.Error("blank input must not append to the conversation")
	}
	if m.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0", m.inFlight)
	}
}

func TestErrorBannerScheduledAndDismissed(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.Update(InitDoneMsg{Err: errors.New("gateway down")})
	if m.errText == "" {
		t.Fatal("init failure should raise the error banner")
	}
	if cmd == nil {
		t.Error("banner should schedule its auto-dismiss")
	}

	m, _ = m.Update(ErrorDismissMsg{})
	if m.errText != "" {
		t.Errorf("banner survived dismissal: %q", m.errText)
	}
}
