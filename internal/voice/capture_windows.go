// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// SYSTEM CAPTURE (WINDOWS)
// =============================================================================

// findRecorderExecutable locates a command-line audio recorder on
// Windows. Only ffmpeg with DirectShow capture is supported.
func findRecorderExecutable() (string, []string, error) {
	candidates := []string{"ffmpeg"}
	if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
		candidates = append(candidates, filepath.Join(programFiles, "ffmpeg", "bin", "ffmpeg.exe"))
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, []string{"-hide_banner", "-loglevel", "error",
				"-f", "dshow", "-i", "audio=default",
				"-ar", "16000", "-ac", "1", "-y", "-f", "wav"}, nil
		}
	}
	return "", nil, fmt.Errorf("no audio recorder found: install ffmpeg and ensure it is on PATH")
}

// SystemCapture records via ffmpeg into a temp file. Stopping uses a
// hard kill; ffmpeg's WAV muxer keeps the file readable because the
// header is patched on every write.
type SystemCapture struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	path string
}

// NewSystemCapture returns a capture device backed by ffmpeg, or an
// error if it is not installed.
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

	_ = s.cmd.Process.Kill()
	s.cmd.Wait()
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
