// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/store"
)

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is the slice of the API client the session manager needs.
// *backend.Client satisfies it; tests substitute a fake.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.RegisterResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	InitSession(ctx context.Context, userID string) error
	History(ctx context.Context, userID string) ([]backend.HistoryEntry, error)
	SendMessage(ctx context.Context, userID, message, language string) (*backend.ChatResponse, error)
	SendVoice(ctx context.Context, userID, filename string, audio io.Reader) (*backend.VoiceResponse, error)
	SetAccessToken(token string)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the conversation and applies every mutation under one
// mutex, so concurrent completions from the UI's async commands always
// observe a consistent conversation and the cache is written exactly
// once per applied mutation.
//
// The epoch counter is the logout barrier: every in-flight operation
// captures the epoch at dispatch, and Logout increments it, so a
// completion from a previous login session is dropped instead of being
// written into the cleared (or next user's) cache.
type Manager struct {
	// mu guards conv, creds, epoch, and language. Network calls happen
	// outside the lock; only dispatch and apply hold it.
	mu      sync.Mutex
	backend Backend
	store   store.Store

	language string
	conv     *model.Conversation
	creds    store.Credentials
	epoch    uint64
}

// NewManager creates a session manager. Call Restore to pick up a
// previous login from the store.
func NewManager(b Backend, s store.Store, language string) *Manager {
	return &Manager{
		backend:  b,
		store:    s,
		language: language,
		conv:     model.NewConversation(),
	}
}

// Restore loads saved credentials and the cached conversation. Returns
// true if a logged-in session was restored.
func (m *Manager) Restore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds, ok := m.store.LoadCredentials()
	if !ok {
		return false
	}
	m.creds = creds
	m.backend.SetAccessToken(creds.AccessToken)
	m.conv = m.store.LoadConversation()
	return true
}

// LoggedIn reports whether the manager holds valid credentials.
func (m *Manager) LoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.Valid()
}

// UserID returns the logged-in user's ID, or "".
func (m *Manager) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.UserID
}

// Email returns the logged-in user's email, or "".
func (m *Manager) Email() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.Email
}

// Language returns the conversation language code.
func (m *Manager) Language() string {
	return m.language
}

// SetLanguage changes the language sent with outgoing messages.
func (m *Manager) SetLanguage(lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.language = lang
}

// Conversation returns a snapshot of the current conversation.
func (m *Manager) Conversation() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.Clone()
}

// =============================================================================
// AUTH
// =============================================================================

// Login authenticates and persists the credentials.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = store.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.UserID.String(),
		Email:        email,
	}
	m.backend.SetAccessToken(resp.AccessToken)
	if err := m.store.SaveCredentials(m.creds); err != nil {
		return err
	}
	return nil
}

// Register creates an account. The caller still logs in afterwards.
func (m *Manager) Register(ctx context.Context, req backend.RegisterRequest) error {
	_, err := m.backend.Register(ctx, req)
	return err
}

// Logout clears the session. The epoch is incremented and the cache is
// cleared under the lock FIRST, so any completion dispatched before
// logout finds a stale epoch and is dropped. The server-side token
// revocation happens after and is best-effort; its failure does not
// undo the local logout.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.epoch++
	refreshToken := m.creds.RefreshToken
	m.creds = store.Credentials{}
	m.conv = model.NewConversation()
	clearErr := m.store.Clear()
	m.backend.SetAccessToken("")
	m.mu.Unlock()

	if refreshToken != "" {
		// Best-effort revocation.
		_ = m.backend.Logout(ctx, refreshToken)
	}
	return clearErr
}

// =============================================================================
// SESSION INIT + HISTORY
// =============================================================================

// EnsureInitialized runs backend session setup at most once per login
// session. A set flag or a non-empty cached conversation both count as
// an already-warm session, so a crash between init and the flag write
// never causes a second init to clobber server state.
func (m *Manager) EnsureInitialized(ctx context.Context) error {
	m.mu.Lock()
	userID := m.creds.UserID
	warm := m.store.SessionInitialized() || !m.conv.IsEmpty()
	m.mu.Unlock()

	if userID == "" {
		return ErrNotLoggedIn
	}
	if warm {
		return nil
	}

	if err := m.backend.InitSession(ctx, userID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.MarkSessionInitialized()
}

// BeginHistory captures the state needed to apply a history fetch.
func (m *Manager) BeginHistory() PendingHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return PendingHistory{UserID: m.creds.UserID, Epoch: m.epoch}
}

// CompleteHistory applies a fetched history. The server's message list
// replaces the cached conversation; an empty history gets the standing
// welcome message so the screen is never blank. Returns false if the
// session changed while the fetch was in flight.
func (m *Manager) CompleteHistory(p PendingHistory, entries []backend.HistoryEntry, fetchErr error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Epoch != m.epoch {
		return false
	}
	if fetchErr != nil {
		// Keep whatever the cache had; the cache stays authoritative
		// for this session until a fetch succeeds.
		return false
	}

	conv := model.NewConversation()
	for _, e := range entries {
		if e.IsBot {
			conv.Append(model.NewBotMessage(e.ID.String(), e.Message))
		} else {
			conv.Append(model.Message{ID: e.ID.String(), Text: e.Message, Sender: model.SenderUser})
		}
	}
	if conv.IsEmpty() {
		conv.Append(model.NewBotMessage("welcome", model.WelcomeText))
	}

	m.conv = conv
	m.saveLocked()
	return true
}

// LoadHistory is the synchronous form of BeginHistory/CompleteHistory.
func (m *Manager) LoadHistory(ctx context.Context) error {
	p := m.BeginHistory()
	if p.UserID == "" {
		return ErrNotLoggedIn
	}
	entries, err := m.backend.History(ctx, p.UserID)
	m.CompleteHistory(p, entries, err)
	return err
}

// =============================================================================
// TEXT SEND
// =============================================================================

// BeginText appends the user's message optimistically and returns the
// pending handle for the completion. The message is visible and cached
// before any network traffic happens. Empty or whitespace-only text is
// rejected with ErrEmptyMessage before anything is appended or cached.
func (m *Manager) BeginText(text string) (model.Message, PendingSend, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, PendingSend{}, ErrEmptyMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	msg := model.NewUserMessage(text)
	m.conv.Append(msg)
	m.saveLocked()
	return msg, PendingSend{UserID: m.creds.UserID, Text: text, Language: m.language, Epoch: m.epoch}, nil
}

// CompleteText applies the backend's reply to an earlier BeginText. On
// success the bot reply is appended under its server ID; on failure a
// synthetic apology is appended instead. The user's optimistic message
// is never rolled back. Returns false if the send belonged to a
// previous login session.
func (m *Manager) CompleteText(p PendingSend, resp *backend.ChatResponse, sendErr error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Epoch != m.epoch {
		return false
	}

	if sendErr != nil || resp == nil {
		m.conv.Append(model.NewApology())
	} else {
		m.conv.Append(model.NewBotMessage(resp.MessageID.String(), resp.BotMessage))
	}
	m.saveLocked()
	return true
}

// SendText is the synchronous form of BeginText/CompleteText, used by
// the plain CLI. The send error is returned after the conversation has
// been settled either way.
func (m *Manager) SendText(ctx context.Context, text string) error {
	_, p, err := m.BeginText(text)
	if err != nil {
		return err
	}
	if p.UserID == "" {
		return ErrNotLoggedIn
	}
	resp, err := m.backend.SendMessage(ctx, p.UserID, p.Text, p.Language)
	m.CompleteText(p, resp, err)
	return err
}

// =============================================================================
// VOICE SEND
// =============================================================================

// BeginVoice appends the transcription placeholder and returns the
// pending handle. The placeholder occupies the message's final position
// in the conversation from the start.
func (m *Manager) BeginVoice() (model.Message, PendingVoice) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ph := model.NewPlaceholder()
	m.conv.Append(ph)
	m.saveLocked()
	return ph, PendingVoice{UserID: m.creds.UserID, PlaceholderID: ph.ID, Epoch: m.epoch}
}

// CompleteVoice settles a voice send. On success the placeholder text
// becomes the transcription and the bot reply is appended; on failure
// the placeholder is marked failed and an apology is appended. Either
// way the placeholder entry keeps its position and ID. Returns false if
// the send belonged to a previous login session.
func (m *Manager) CompleteVoice(p PendingVoice, resp *backend.VoiceResponse, sendErr error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Epoch != m.epoch {
		return false
	}

	if sendErr != nil || resp == nil {
		m.conv.FailPlaceholder(p.PlaceholderID)
		m.conv.Append(model.NewApology())
	} else {
		m.conv.ResolvePlaceholder(p.PlaceholderID, resp.TranscribedText)
		m.conv.Append(model.NewBotMessage(resp.MessageID.String(), resp.BotMessage))
	}
	m.saveLocked()
	return true
}

// SendVoice is the synchronous form of BeginVoice/CompleteVoice.
func (m *Manager) SendVoice(ctx context.Context, filename string, audio io.Reader) error {
	_, p := m.BeginVoice()
	if p.UserID == "" {
		return ErrNotLoggedIn
	}
	resp, err := m.backend.SendVoice(ctx, p.UserID, filename, audio)
	m.CompleteVoice(p, resp, err)
	return err
}

// =============================================================================
// REPORT CACHE
// =============================================================================

// CachedReport returns the sentiment report from the last successful
// fetch, or nil.
func (m *Manager) CachedReport() *backend.SentimentReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.LoadReport()
}

// SaveReport caches a fetched sentiment report. A report arriving after
// logout is dropped so it cannot resurrect the cleared cache.
func (m *Manager) SaveReport(r *backend.SentimentReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.creds.Valid() {
		return
	}
	_ = m.store.SaveReport(r)
}

// saveLocked writes the conversation to the cache. Callers hold the
// lock. A cache write failure is deliberately swallowed: the in-memory
// conversation is authoritative for the session and the next successful
// save catches the cache up.
func (m *Manager) saveLocked() {
	_ = m.store.SaveConversation(m.conv)
}
