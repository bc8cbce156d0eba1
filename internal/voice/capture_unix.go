// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// =============================================================================
// SYSTEM CAPTURE (UNIX)
// =============================================================================

// findRecorderExecutable locates a command-line audio recorder. Prefers
// arecord (ALSA), falls back to sox's rec and to ffmpeg.
func findRecorderExecutable() (string, []string, error) {
	if path, err := exec.LookPath("arecord"); err == nil {
		// 16kHz mono 16-bit, what the transcription service expects.
		return path, []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav"}, nil
	}
	if path, err := exec.LookPath("rec"); err == nil {
		return path, []string{"-q", "-r", "16000", "-c", "1", "-b", "16", "-t", "wav"}, nil
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, []string{"-hide_banner", "-loglevel", "error", "-f", "alsa", "-i", "default",
			"-ar", "16000", "-ac", "1", "-y", "-f", "wav"}, nil
	}
	return "", nil, fmt.Errorf("no audio recorder found: install alsa-utils (arecord), sox, or ffmpeg")
}

// SystemCapture records via the system's command-line recorder into a
// temp file. End kills the recorder and reads the file back.
type SystemCapture struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	path string
}

// NewSystemCapture returns a capture device backed by the system
// recorder, or an error if none is installed.
func NewSystemCapture() (*SystemCapture, error) {
	if _, _, err := findRecorderExecutable(); err != nil {
		return nil, err
	}
	return &SystemCapture{}, nil
}

// Begin starts the recorder process writing to a temp WAV file.
func (s *SystemCapture) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return ErrAlreadyRecording
	}

	bin, args, err := findRecorderExecutable()
	if err != nil {
		return err
	}

	s.path = filepath.Join(os.TempDir(), fmt.Sprintf("haven-rec-%d.wav", time.Now().UnixNano()))
	cmd := exec.Command(bin, append(args, s.path)...)
	cmd.Env = os.Environ()
	// Own process group so the interrupt only reaches the recorder.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting recorder: %w", err)
	}
	s.cmd = cmd
	return nil
}

// End stops the recorder and returns the recorded WAV bytes.
func (s *SystemCapture) End() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return nil, ErrNotRecording
	}

	// SIGINT lets the recorder finalize the WAV header before exiting.
	_ = s.cmd.Process.Signal(syscall.SIGINT)

	done := make(chan struct{})
	go func() {
		s.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		_ = s.cmd.Process.Kill()
		<-done
	}
	s.cmd = nil

	data, err := os.ReadFile(s.path)
	os.Remove(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	return data, nil
}

// Abort stops the recorder and discards the temp file.
func (s *SystemCapture) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return
	}
	_ = s.cmd.Process.Kill()
	s.cmd.Wait()
	s.cmd = nil
	os.Remove(s.path)
}
