// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"testing"
)

// fakeDevice is an in-memory CaptureDevice for recorder tests.
type fakeDevice struct {
	beginErr  error
	endErr    error
	data      []byte
	beginHits int
	endHits   int
	abortHits int
}

func (f *fakeDevice) Begin(ctx context.Context) error {
	f.beginHits++
	return f.beginErr
}

func (f *fakeDevice) End() ([]byte, error) {
	f.endHits++
	return f.data, f.endErr
}

func (f *fakeDevice) Abort() {
	f.abortHits++
}

func TestRecorderLifecycle(t *testing.T) {
	dev := &fakeDevice{data: []byte("RIFFwav")}
	r := NewRecorder(dev)

	if r.State() != StateIdle {
		t.Fatal("new recorder should be idle")
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if r.State() != StateRecording {
		t.Error("should be recording after Start")
	}

	data, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if string(data) != "RIFFwav" {
		t.Errorf("data = %q", data)
	}
	if r.State() != StateIdle {
		t.Error("should be idle after Stop")
	}
}

func TestStartWhileRecording(t *testing.T) {
	dev := &fakeDevice{data: []byte("x")}
	r := NewRecorder(dev)

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start = %v, want ErrAlreadyRecording", err)
	}
	if dev.beginHits != 1 {
		t.Errorf("device Begin called %d times, want 1", dev.beginHits)
	}
}

func TestStopWhileIdle(t *testing.T) {
	r := NewRecorder(&fakeDevice{})
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop while idle = %v, want ErrNotRecording", err)
	}
}

func TestStartWithoutDevice(t *testing.T) {
	r := NewRecorder(nil)
	if err := r.Start(context.Background()); !errors.Is(err, ErrNoDevice) {
		t.Errorf("Start = %v, want ErrNoDevice", err)
	}
}

func TestDeviceBeginFailureStaysIdle(t *testing.T) {
	dev := &fakeDevice{beginErr: errors.New("mic busy")}
	r := NewRecorder(dev)

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start should propagate device error")
	}
	if r.State() != StateIdle {
		t.Error("failed Start must leave recorder idle")
	}
}

func TestEmptyRecordingIsAnError(t *testing.T) {
	dev := &fakeDevice{data: nil}
	r := NewRecorder(dev)

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Stop(); err == nil {
		t.Error("empty recording should be an error")
	}
}

func TestCancelDiscardsRecording(t *testing.T) {
	dev := &fakeDevice{data: []byte("x")}
	r := NewRecorder(dev)

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	r.Cancel()

	if r.State() != StateIdle {
		t.Error("Cancel should return to idle")
	}
	if dev.abortHits != 1 {
		t.Errorf("Abort called %d times, want 1", dev.abortHits)
	}
	if dev.endHits != 0 {
		t.Error("Cancel must not call End")
	}

	// Cancel while idle is a no-op.
	r.Cancel()
	if dev.abortHits != 1 {
		t.Error("Cancel while idle must not call Abort")
	}
}

func TestElapsedZeroWhenIdle(t *testing.T) {
	r := NewRecorder(&fakeDevice{data: []byte("x")})
	if r.Elapsed() != 0 {
		t.Error("Elapsed should be zero while idle")
	}
}
