// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

const (
	keyFile          = "cache.key"
	conversationFile = "conversation.json"
	credentialsFile  = "credentials.json"
	reportFile       = "report.json"
	sessionFlagFile  = "session_initialized"
)

// FileStore is a Store backed by encrypted files under a cache
// directory. The conversation and credentials are sealed with
// ChaCha20-Poly1305 using a per-install key created on first use.
type FileStore struct {
	mu  sync.Mutex
	dir string
	key []byte
}

// NewFileStore opens or creates the cache directory and its encryption
// key.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	key, err := loadOrCreateKey(filepath.Join(dir, keyFile))
	if err != nil {
		return nil, err
	}

	return &FileStore{dir: dir, key: key}, nil
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "haven")
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) == chacha20poly1305.KeySize {
		return key, nil
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating cache key: %w", err)
	}
	if err := util.AtomicWriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("writing cache key: %w", err)
	}
	return key, nil
}

// =============================================================================
// CONVERSATION
// =============================================================================

// LoadConversation returns the cached conversation. A missing,
// undecryptable, or malformed cache reads as empty.
func (s *FileStore) LoadConversation() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readSealed(conversationFile)
	if err != nil {
		return model.NewConversation()
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return model.NewConversation()
	}
	if conv.Messages == nil {
		conv.Messages = make([]model.Message, 0)
	}
	return &conv
}

// SaveConversation seals and writes the conversation atomically.
func (s *FileStore) SaveConversation(conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encoding conversation: %w", err)
	}
	return s.writeSealed(conversationFile, data)
}

// =============================================================================
// SESSION FLAG
// =============================================================================

// SessionInitialized reports whether the flag file exists.
func (s *FileStore) SessionInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(filepath.Join(s.dir, sessionFlagFile))
	return err == nil
}

// MarkSessionInitialized creates the flag file.
func (s *FileStore) MarkSessionInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return util.AtomicWriteFile(filepath.Join(s.dir, sessionFlagFile), []byte("1"), 0600)
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// LoadCredentials returns the saved credentials, if present and valid.
func (s *FileStore) LoadCredentials() (Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readSealed(credentialsFile)
	if err != nil {
		return Credentials{}, false
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, false
	}
	return creds, creds.Valid()
}

// SaveCredentials seals and writes the credentials atomically.
func (s *FileStore) SaveCredentials(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	return s.writeSealed(credentialsFile, data)
}

// =============================================================================
// SENTIMENT REPORT
// =============================================================================

// LoadReport returns the cached sentiment report, or nil when nothing
// usable is cached.
func (s *FileStore) LoadReport() *backend.SentimentReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readSealed(reportFile)
	if err != nil {
		return nil
	}

	var r backend.SentimentReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	return &r
}

// SaveReport seals and writes the report atomically.
func (s *FileStore) SaveReport(r *backend.SentimentReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return s.writeSealed(reportFile, data)
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear removes the conversation, session flag, cached report, and
// credentials. Each
// file is removed independently; the first error is returned after all
// removals are attempted.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, name := range []string{conversationFile, sessionFlagFile, reportFile, credentialsFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("clearing %s: %w", name, err)
			}
		}
	}
	return firstErr
}

// =============================================================================
// SEALED FILE I/O
// =============================================================================

func (s *FileStore) writeSealed(name string, plaintext []byte) error {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("initializing cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return util.AtomicWriteFile(filepath.Join(s.dir, name), sealed, 0600)
}

func (s *FileStore) readSealed(name string) ([]byte, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed file %s too short", name)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", name, err)
	}
	return plaintext, nil
}
