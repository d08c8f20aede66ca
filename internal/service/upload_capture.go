package service

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/hoyyChoi/yeonseubpun/internal/engine"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

var errEmptyCapture = errors.New("capture finished with no data")

// UploadCaptureDevice is a capture device fed by HTTP uploads. The browser
// records locally and streams chunks to the server; Acquire opens a buffer
// for them and Finalize seals it.
type UploadCaptureDevice struct {
	mu     sync.Mutex
	handle *uploadHandle
}

func NewUploadCaptureDevice() *UploadCaptureDevice {
	return &UploadCaptureDevice{}
}

// Acquire opens a fresh upload buffer. Text attempts have nothing to capture.
func (d *UploadCaptureDevice) Acquire(ctx context.Context, modality model.Modality) (engine.CaptureHandle, error) {
	if !modality.CapturesMedia() {
		return nil, errors.New("modality does not capture media")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handle = &uploadHandle{}
	return d.handle, nil
}

// Append forwards an uploaded chunk to the open capture.
func (d *UploadCaptureDevice) Append(p []byte) error {
	d.mu.Lock()
	handle := d.handle
	d.mu.Unlock()

	if handle == nil {
		return engine.ErrNotCapturing
	}
	return handle.append(p)
}

type uploadHandle struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (h *uploadHandle) append(p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return engine.ErrNotCapturing
	}
	_, err := h.buf.Write(p)
	return err
}

func (h *uploadHandle) Finalize() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.buf.Len() == 0 {
		return nil, errEmptyCapture
	}
	return h.buf.Bytes(), nil
}

func (h *uploadHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.buf.Reset()
}
