// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"sync"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrAlreadyRecording is returned by Start while a recording is active.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording is returned by Stop when nothing is being recorded.
	ErrNotRecording = errors.New("not recording")

	// ErrNoDevice is returned when no capture device is available.
	ErrNoDevice = errors.New("no audio capture device available")
)

// =============================================================================
// CAPTURE DEVICE
// =============================================================================

// CaptureDevice records audio between Begin and End. End returns the
// captured audio as a WAV payload.
type CaptureDevice interface {
	// Begin starts capturing. It returns once capture is running.
	Begin(ctx context.Context) error

	// End stops capturing and returns the recorded WAV bytes.
	End() ([]byte, error)

	// Abort stops capturing and discards the audio.
	Abort()
}

// =============================================================================
// RECORDER
// =============================================================================

// State is the recorder's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRecording
)

// Recorder wraps a CaptureDevice with idempotent start/stop semantics
// and elapsed-time tracking for the UI.
type Recorder struct {
	mu      sync.Mutex
	device  CaptureDevice
	state   State
	started time.Time

	// MaxDuration caps a single recording; Stop after the cap still
	// returns whatever was captured. Zero means no cap.
	MaxDuration time.Duration
}

// NewRecorder creates a recorder over the given device.
func NewRecorder(device CaptureDevice) *Recorder {
	return &Recorder{device: device, MaxDuration: 2 * time.Minute}
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns how long the active recording has been running, or
// zero when idle.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return 0
	}
	return time.Since(r.started)
}

// Start begins a recording.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return ErrAlreadyRecording
	}
	if r.device == nil {
		return ErrNoDevice
	}

	if err := r.device.Begin(ctx); err != nil {
		return err
	}
	r.state = StateRecording
	r.started = time.Now()
	return nil
}

// Stop ends the recording and returns the captured WAV bytes.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return nil, ErrNotRecording
	}
	r.state = StateIdle

	data, err := r.device.End()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("recording produced no audio")
	}
	return data, nil
}

// Cancel ends the recording and discards the audio. Safe to call when
// idle.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return
	}
	r.state = StateIdle
	r.device.Abort()
}

// OverCap reports whether the active recording has exceeded MaxDuration.
func (r *Recorder) OverCap() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording || r.MaxDuration == 0 {
		return false
	}
	return time.Since(r.started) > r.MaxDuration
}
