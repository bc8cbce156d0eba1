// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/store"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	loginResp *backend.LoginResponse
	loginErr  error

	initCalls  int
	initErr    error
	history    []backend.HistoryEntry
	historyErr error

	chatCalls int
	chatResp  *backend.ChatResponse
	chatErr   error

	voiceResp *backend.VoiceResponse
	voiceErr  error

	logoutCalls int
	token       string
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*backend.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.loginResp != nil {
		return f.loginResp, nil
	}
	return &backend.LoginResponse{AccessToken: "tok", RefreshToken: "ref", UserID: "user-1"}, nil
}

func (f *fakeBackend) Register(ctx context.Context, req backend.RegisterRequest) (*backend.RegisterResponse, error) {
	return &backend.RegisterResponse{UserID: "user-1"}, nil
}

func (f *fakeBackend) Logout(ctx context.Context, refreshToken string) error {
	f.logoutCalls++
	return nil
}

func (f *fakeBackend) InitSession(ctx context.Context, userID string) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeBackend) History(ctx context.Context, userID string) ([]backend.HistoryEntry, error) {
	return f.history, f.historyErr
}

func (f *fakeBackend) SendMessage(ctx context.Context, userID, message, language string) (*backend.ChatResponse, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.chatResp != nil {
		return f.chatResp, nil
	}
	return &backend.ChatResponse{MessageID: "srv-1", BotMessage: "I hear you."}, nil
}

func (f *fakeBackend) SendVoice(ctx context.Context, userID, filename string, audio io.Reader) (*backend.VoiceResponse, error) {
	if f.voiceErr != nil {
		return nil, f.voiceErr
	}
	if f.voiceResp != nil {
		return f.voiceResp, nil
	}
	return &backend.VoiceResponse{MessageID: "srv-2", TranscribedText: "spoken words", BotMessage: "Thanks for sharing."}, nil
}

func (f *fakeBackend) SetAccessToken(token string) { f.token = token }

func newLoggedInManager(t *testing.T) (*Manager, *fakeBackend, *store.MemStore) {
	t.Helper()
	fb := &fakeBackend{}
	ms := store.NewMemStore()
	m := NewManager(fb, ms, "en")
	require.NoError(t, m.Login(context.Background(), "a@b.com", "pw"))
	return m, fb, ms
}

// =============================================================================
// AUTH
// =============================================================================

func TestLoginStoresCredentials(t *testing.T) {
	m, fb, ms := newLoggedInManager(t)

	assert.True(t, m.LoggedIn())
	assert.Equal(t, "user-1", m.UserID())
	assert.Equal(t, "a@b.com", m.Email())
	assert.Equal(t, "tok", fb.token)

	creds, ok := ms.LoadCredentials()
	require.True(t, ok)
	assert.Equal(t, "ref", creds.RefreshToken)
}

func TestRestore(t *testing.T) {
	fb := &fakeBackend{}
	ms := store.NewMemStore()
	require.NoError(t, ms.SaveCredentials(store.Credentials{AccessToken: "t", UserID: "u", Email: "e@x.com"}))
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("earlier"))
	require.NoError(t, ms.SaveConversation(conv))

	m := NewManager(fb, ms, "en")
	require.True(t, m.Restore())
	assert.True(t, m.LoggedIn())
	assert.Equal(t, "t", fb.token)
	assert.Equal(t, 1, m.Conversation().Len())
}

func TestRestoreWithoutCredentials(t *testing.T) {
	m := NewManager(&fakeBackend{}, store.NewMemStore(), "en")
	assert.False(t, m.Restore())
	assert.False(t, m.LoggedIn())
}

// =============================================================================
// OPTIMISTIC TEXT SEND
// =============================================================================

func TestBeginTextAppendsBeforeNetwork(t *testing.T) {
	m, _, ms := newLoggedInManager(t)
	savesBefore := ms.SaveCount

	msg, p, err := m.BeginText("I feel anxious")
	require.NoError(t, err)

	conv := m.Conversation()
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, "I feel anxious", conv.Messages[0].Text)
	assert.Equal(t, model.SenderUser, conv.Messages[0].Sender)
	assert.Equal(t, msg.ID, conv.Messages[0].ID)
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, savesBefore+1, ms.SaveCount, "dispatch writes the cache exactly once")
}

func TestCompleteTextSuccess(t *testing.T) {
	m, _, ms := newLoggedInManager(t)

	_, p, _ := m.BeginText("hello")
	savesBefore := ms.SaveCount
	applied := m.CompleteText(p, &backend.ChatResponse{MessageID: "42", BotMessage: "Hi!"}, nil)

	require.True(t, applied)
	conv := m.Conversation()
	require.Equal(t, 2, conv.Len())
	assert.Equal(t, "42", conv.Messages[1].ID)
	assert.Equal(t, "Hi!", conv.Messages[1].Text)
	assert.Equal(t, model.SenderBot, conv.Messages[1].Sender)
	assert.Equal(t, savesBefore+1, ms.SaveCount, "completion writes the cache exactly once")
}

func TestCompleteTextFailureKeepsUserMessage(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	_, p, _ := m.BeginText("hello")
	applied := m.CompleteText(p, nil, errors.New("boom"))

	require.True(t, applied)
	conv := m.Conversation()
	require.Equal(t, 2, conv.Len())
	assert.Equal(t, "hello", conv.Messages[0].Text, "optimistic message is never rolled back")
	assert.Equal(t, model.ApologyText, conv.Messages[1].Text)
	assert.Equal(t, model.SenderBot, conv.Messages[1].Sender)
}

func TestInterleavedSendsPreserveDispatchOrder(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	_, p1, _ := m.BeginText("first")
	_, p2, _ := m.BeginText("second")

	// Completions arrive out of order.
	m.CompleteText(p2, &backend.ChatResponse{MessageID: "b2", BotMessage: "reply two"}, nil)
	m.CompleteText(p1, &backend.ChatResponse{MessageID: "b1", BotMessage: "reply one"}, nil)

	conv := m.Conversation()
	require.Equal(t, 4, conv.Len())
	// User messages keep dispatch order; replies land in arrival order.
	assert.Equal(t, "first", conv.Messages[0].Text)
	assert.Equal(t, "second", conv.Messages[1].Text)
	assert.Equal(t, "reply two", conv.Messages[2].Text)
	assert.Equal(t, "reply one", conv.Messages[3].Text)
}

func TestSendTextSynchronous(t *testing.T) {
	m, fb, _ := newLoggedInManager(t)
	fb.chatErr = errors.New("down")

	err := m.SendText(context.Background(), "hi")
	require.Error(t, err)

	conv := m.Conversation()
	require.Equal(t, 2, conv.Len())
	assert.Equal(t, model.ApologyText, conv.Messages[1].Text)
}

func TestEmptyInputIsRejectedWithoutMutation(t *testing.T) {
	m, fb, ms := newLoggedInManager(t)

	for _, input := range []string{"", "   ", "\n\t  "} {
		_, _, err := m.BeginText(input)
		assert.ErrorIs(t, err, ErrEmptyMessage, "BeginText(%q)", input)
		assert.ErrorIs(t, m.SendText(context.Background(), input), ErrEmptyMessage, "SendText(%q)", input)
	}

	assert.True(t, m.Conversation().IsEmpty(), "rejected input must not be appended")
	assert.Equal(t, 0, ms.SaveCount, "rejected input must not write the cache")
	assert.Equal(t, 0, fb.chatCalls, "rejected input must not reach the backend")
}

func TestBeginTextTrimsSurroundingWhitespace(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	msg, p, err := m.BeginText("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "hello", p.Text)
}

// =============================================================================
// VOICE
// =============================================================================

func TestVoicePlaceholderResolvedInPlace(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	m.BeginText("typed first")
	ph, p := m.BeginVoice()

	conv := m.Conversation()
	require.Equal(t, 2, conv.Len())
	assert.True(t, conv.Messages[1].IsPlaceholder())

	applied := m.CompleteVoice(p, &backend.VoiceResponse{
		MessageID:       "srv-9",
		TranscribedText: "what I said",
		BotMessage:      "Noted.",
	}, nil)
	require.True(t, applied)

	conv = m.Conversation()
	require.Equal(t, 3, conv.Len())
	assert.Equal(t, ph.ID, conv.Messages[1].ID, "placeholder keeps its ID")
	assert.Equal(t, "what I said", conv.Messages[1].Text)
	assert.Equal(t, model.SenderUser, conv.Messages[1].Sender)
	assert.Equal(t, "Noted.", conv.Messages[2].Text)
	assert.False(t, conv.HasUnresolvedPlaceholder())
}

func TestVoiceFailureSettlesPlaceholder(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	ph, p := m.BeginVoice()
	applied := m.CompleteVoice(p, nil, errors.New("transcription failed"))
	require.True(t, applied)

	conv := m.Conversation()
	require.Equal(t, 2, conv.Len())
	got, ok := conv.MessageByID(ph.ID)
	require.True(t, ok, "placeholder entry must survive failure")
	assert.Equal(t, model.PlaceholderFailedText, got.Text)
	assert.Equal(t, model.ApologyText, conv.Messages[1].Text)
	assert.False(t, conv.HasUnresolvedPlaceholder())
}

// =============================================================================
// SESSION INIT
// =============================================================================

func TestEnsureInitializedRunsOnce(t *testing.T) {
	m, fb, _ := newLoggedInManager(t)

	require.NoError(t, m.EnsureInitialized(context.Background()))
	require.NoError(t, m.EnsureInitialized(context.Background()))
	assert.Equal(t, 1, fb.initCalls)
}

func TestEnsureInitializedSkipsOnWarmCache(t *testing.T) {
	// A non-empty cached conversation counts as warm even without the
	// flag, covering a crash between init and the flag write.
	fb := &fakeBackend{}
	ms := store.NewMemStore()
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("from last run"))
	require.NoError(t, ms.SaveConversation(conv))
	require.NoError(t, ms.SaveCredentials(store.Credentials{AccessToken: "t", UserID: "u"}))

	m := NewManager(fb, ms, "en")
	require.True(t, m.Restore())
	require.NoError(t, m.EnsureInitialized(context.Background()))
	assert.Equal(t, 0, fb.initCalls)
}

func TestEnsureInitializedFailureLeavesCold(t *testing.T) {
	m, fb, ms := newLoggedInManager(t)
	fb.initErr = errors.New("gateway down")

	require.Error(t, m.EnsureInitialized(context.Background()))
	assert.False(t, ms.SessionInitialized(), "flag must not be set on failure")

	// Next attempt retries.
	fb.initErr = nil
	require.NoError(t, m.EnsureInitialized(context.Background()))
	assert.Equal(t, 2, fb.initCalls)
	assert.True(t, ms.SessionInitialized())
}

func TestEnsureInitializedRequiresLogin(t *testing.T) {
	m := NewManager(&fakeBackend{}, store.NewMemStore(), "en")
	assert.ErrorIs(t, m.EnsureInitialized(context.Background()), ErrNotLoggedIn)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestCompleteHistoryReplacesConversation(t *testing.T) {
	m, _, _ := newLoggedInManager(t)
	m.BeginText("stale local")

	p := m.BeginHistory()
	applied := m.CompleteHistory(p, []backend.HistoryEntry{
		{ID: "1", Message: "hello", IsBot: false},
		{ID: "2", Message: "Hi, how are you feeling?", IsBot: true},
	}, nil)

	require.True(t, applied)
	conv := m.Conversation()
	require.Equal(t, 2, conv.Len())
	assert.Equal(t, model.SenderUser, conv.Messages[0].Sender)
	assert.Equal(t, model.SenderBot, conv.Messages[1].Sender)
}

func TestEmptyHistoryGetsWelcome(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	p := m.BeginHistory()
	require.True(t, m.CompleteHistory(p, nil, nil))

	conv := m.Conversation()
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, model.WelcomeText, conv.Messages[0].Text)
	assert.Equal(t, model.SenderBot, conv.Messages[0].Sender)
}

func TestHistoryFetchErrorKeepsCache(t *testing.T) {
	m, _, _ := newLoggedInManager(t)
	m.BeginText("cached")

	p := m.BeginHistory()
	applied := m.CompleteHistory(p, nil, errors.New("offline"))

	assert.False(t, applied)
	conv := m.Conversation()
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, "cached", conv.Messages[0].Text)
}

// =============================================================================
// LOGOUT BARRIER
// =============================================================================

func TestLogoutClearsEverything(t *testing.T) {
	m, fb, ms := newLoggedInManager(t)
	m.BeginText("secret")
	require.NoError(t, m.EnsureInitialized(context.Background()))

	require.NoError(t, m.Logout(context.Background()))

	assert.False(t, m.LoggedIn())
	assert.True(t, m.Conversation().IsEmpty())
	assert.True(t, ms.LoadConversation().IsEmpty())
	assert.False(t, ms.SessionInitialized())
	assert.Equal(t, "", fb.token)
	assert.Equal(t, 1, fb.logoutCalls)
}

func TestReportCacheGuardedByLogin(t *testing.T) {
	m, _, ms := newLoggedInManager(t)

	rpt := &backend.SentimentReport{UserID: "user-1"}
	m.SaveReport(rpt)
	require.NotNil(t, ms.LoadReport())
	assert.Equal(t, rpt, m.CachedReport())

	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, m.CachedReport())

	// A fetch that completes after logout must not repopulate the cache.
	m.SaveReport(rpt)
	assert.Nil(t, ms.LoadReport())
}

func TestLateCompletionAfterLogoutIsDropped(t *testing.T) {
	m, _, ms := newLoggedInManager(t)

	_, p, _ := m.BeginText("before logout")
	require.NoError(t, m.Logout(context.Background()))
	savesAfterLogout := ms.SaveCount

	applied := m.CompleteText(p, &backend.ChatResponse{MessageID: "9", BotMessage: "late"}, nil)

	assert.False(t, applied, "completion from a previous session must be dropped")
	assert.True(t, m.Conversation().IsEmpty())
	assert.True(t, ms.LoadConversation().IsEmpty(), "cleared cache must not be resurrected")
	assert.Equal(t, savesAfterLogout, ms.SaveCount, "dropped completion must not write the cache")
}

func TestLateVoiceCompletionAfterLogoutIsDropped(t *testing.T) {
	m, _, ms := newLoggedInManager(t)

	_, p := m.BeginVoice()
	require.NoError(t, m.Logout(context.Background()))

	applied := m.CompleteVoice(p, &backend.VoiceResponse{MessageID: "9", TranscribedText: "x", BotMessage: "y"}, nil)
	assert.False(t, applied)
	assert.True(t, ms.LoadConversation().IsEmpty())
}

func TestLateHistoryAfterLogoutIsDropped(t *testing.T) {
	m, _, _ := newLoggedInManager(t)

	p := m.BeginHistory()
	require.NoError(t, m.Logout(context.Background()))

	applied := m.CompleteHistory(p, []backend.HistoryEntry{{ID: "1", Message: "old", IsBot: true}}, nil)
	assert.False(t, applied)
	assert.True(t, m.Conversation().IsEmpty())
}

func TestLoginAfterLogoutStartsCleanSession(t *testing.T) {
	m, fb, _ := newLoggedInManager(t)

	_, stale, _ := m.BeginText("user A's message")
	require.NoError(t, m.Logout(context.Background()))

	fb.loginResp = &backend.LoginResponse{AccessToken: "tok2", RefreshToken: "ref2", UserID: "user-2"}
	require.NoError(t, m.Login(context.Background(), "b@c.com", "pw"))

	// User A's in-flight completion must not leak into user B's view.
	applied := m.CompleteText(stale, &backend.ChatResponse{MessageID: "1", BotMessage: "for A"}, nil)
	assert.False(t, applied)
	assert.True(t, m.Conversation().IsEmpty())
	assert.Equal(t, "user-2", m.UserID())
}
