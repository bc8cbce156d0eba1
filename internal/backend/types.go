// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"encoding/json"
	"strconv"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// MessageID is a server-issued message identifier. The gateway has
// emitted both numeric and string IDs across versions, so it decodes
// either form.
type MessageID string

// UnmarshalJSON accepts a JSON string or number.
func (m *MessageID) UnmarshalJSON(data []byte) error {
	s, err := decodeFlexibleString(data)
	if err != nil {
		return err
	}
	*m = MessageID(s)
	return nil
}

// String returns the ID as a string.
func (m MessageID) String() string { return string(m) }

// FromInt builds a MessageID from a numeric server ID.
func FromInt(n int64) MessageID { return MessageID(strconv.FormatInt(n, 10)) }

// UserID is the server-issued account identifier. The auth service emits
// it as a JSON number (a database row ID); it is carried as a string on
// the client and in request bodies.
type UserID string

// UnmarshalJSON accepts a JSON string or number.
func (u *UserID) UnmarshalJSON(data []byte) error {
	s, err := decodeFlexibleString(data)
	if err != nil {
		return err
	}
	*u = UserID(s)
	return nil
}

// String returns the ID as a string.
func (u UserID) String() string { return string(u) }

func decodeFlexibleString(data []byte) (string, error) {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body from POST /auth/login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       UserID `json:"user_id"`
}

// RegisterRequest is the body for POST /auth/register. The gateway
// requires a care-contact email; the profile fields are optional.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DoctorEmail string `json:"doctor_email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Language    string `json:"language_preference,omitempty"`
}

// RegisterResponse is the success body from POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  UserID `json:"user_id"`
}

// LogoutRequest is the body for POST /auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// =============================================================================
// CHAT
// =============================================================================

// HistoryEntry is one element of the GET /chat/history response.
type HistoryEntry struct {
	ID      MessageID `json:"id"`
	Message string    `json:"message"`
	IsBot   bool      `json:"is_bot"`
}

// ChatRequest is the body for POST /chat/message.
type ChatRequest struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// ChatResponse is the success body from POST /chat/message.
type ChatResponse struct {
	MessageID  MessageID `json:"message_id"`
	BotMessage string    `json:"bot_message"`
}

// VoiceResponse is the success body from POST /voice/chat.
type VoiceResponse struct {
	MessageID       MessageID `json:"message_id"`
	TranscribedText string    `json:"transcribed_text"`
	BotMessage      string    `json:"bot_message"`
}

// =============================================================================
// SENTIMENT
// =============================================================================

// SentimentRequest is the body for POST /sentiment/report.
type SentimentRequest struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

// DailySentiment is one day's aggregate in a sentiment report. Labels
// maps each emotion label to its mean score for the day; labels with no
// classified messages that day arrive as null and decode to nil.
type DailySentiment struct {
	Date   string              `json:"date"`
	Labels map[string]*float64 `json:"labels"`
}

// SentimentReport is the success body from POST /sentiment/report.
type SentimentReport struct {
	UserID          UserID           `json:"user_id"`
	AvailableLabels []string         `json:"available_labels"`
	DailySentiments []DailySentiment `json:"daily_sentiments"`
}
