package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

var (
	// ErrDeviceUnavailable means the capture device could not be acquired
	// (permission refusal, no hardware). The session stays Idle; the caller
	// may retry.
	ErrDeviceUnavailable = errors.New("capture device unavailable")

	// ErrAlreadyRecording rejects a start while a capture is in flight.
	ErrAlreadyRecording = errors.New("recording already in progress")

	// ErrCaptureRetained rejects a start while a finalized capture is still
	// held; it must be discarded before re-recording.
	ErrCaptureRetained = errors.New("finalized capture must be discarded before re-recording")

	// ErrNotCapturing rejects a stop with no capture in flight.
	ErrNotCapturing = errors.New("no capture in progress")

	// ErrNothingCaptured rejects a discard with nothing to discard.
	ErrNothingCaptured = errors.New("no capture to discard")
)

// RecordingState is the capture lifecycle state.
type RecordingState string

const (
	RecordingIdle      RecordingState = "idle"
	RecordingCapturing RecordingState = "capturing"
	RecordingCaptured  RecordingState = "captured"
)

// DefaultCaptureTimeout bounds how long a capture may run before it is
// auto-finalized, so device resources are never retained indefinitely.
const DefaultCaptureTimeout = 10 * time.Second

// CaptureDevice acquires a capture stream for a modality. Implementations
// report acquisition failures with an error; the session maps any failure to
// ErrDeviceUnavailable.
type CaptureDevice interface {
	Acquire(ctx context.Context, modality model.Modality) (CaptureHandle, error)
}

// CaptureHandle is one acquired capture stream.
type CaptureHandle interface {
	// Finalize stops the stream and returns the captured blob.
	Finalize() ([]byte, error)
	// Release frees the underlying device resources. Idempotent.
	Release()
}

// RecordingSession drives the capture lifecycle for a single attempt:
// idle -> capturing -> captured -> idle. At most one transition is in flight
// at a time, and the device is released on every exit from capturing:
// explicit stop, timeout, discard, or teardown.
type RecordingSession struct {
	device  CaptureDevice
	timeout time.Duration

	mu     sync.Mutex
	state  RecordingState
	handle CaptureHandle
	blob   []byte
	timer  *time.Timer
}

// NewRecordingSession creates an idle session. A non-positive timeout
// selects DefaultCaptureTimeout.
func NewRecordingSession(device CaptureDevice, timeout time.Duration) *RecordingSession {
	if timeout <= 0 {
		timeout = DefaultCaptureTimeout
	}
	return &RecordingSession{device: device, timeout: timeout, state: RecordingIdle}
}

// State returns the current lifecycle state.
func (s *RecordingSession) State() RecordingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Blob returns the finalized capture, or nil when none is held.
func (s *RecordingSession) Blob() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blob
}

// Start acquires the device and moves idle -> capturing. On acquisition
// failure the state stays idle and the error wraps ErrDeviceUnavailable.
func (s *RecordingSession) Start(ctx context.Context, modality model.Modality) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case RecordingCapturing:
		return ErrAlreadyRecording
	case RecordingCaptured:
		return ErrCaptureRetained
	}

	handle, err := s.device.Acquire(ctx, modality)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	s.handle = handle
	s.state = RecordingCapturing
	s.timer = time.AfterFunc(s.timeout, s.autoFinalize)
	return nil
}

// Stop finalizes the in-flight capture: capturing -> captured.
func (s *RecordingSession) Stop() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeLocked()
}

// autoFinalize fires when the user never stops manually. Losing the race to
// an explicit stop is fine; finalizeLocked then sees no capture in flight.
func (s *RecordingSession) autoFinalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizeLocked()
}

func (s *RecordingSession) finalizeLocked() ([]byte, error) {
	if s.state != RecordingCapturing {
		return nil, ErrNotCapturing
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	handle := s.handle
	s.handle = nil
	defer handle.Release()

	blob, err := handle.Finalize()
	if err != nil {
		s.state = RecordingIdle
		return nil, err
	}
	s.blob = blob
	s.state = RecordingCaptured
	return blob, nil
}

// Discard drops the held capture, or aborts an in-flight one, returning the
// session to idle so the user can re-record.
func (s *RecordingSession) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case RecordingCapturing:
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.handle.Release()
		s.handle = nil
		s.state = RecordingIdle
		return nil
	case RecordingCaptured:
		s.blob = nil
		s.state = RecordingIdle
		return nil
	default:
		return ErrNothingCaptured
	}
}

// Close releases everything regardless of state. Called on attempt teardown;
// safe to call in any state.
func (s *RecordingSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
	s.blob = nil
	s.state = RecordingIdle
}
