package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkanzari/bioconsole/internal/models"
)

type State int

const (
	StateInactive State = iota
	StateRequesting
	StateActive
	StateError
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

type ErrorKind int

const (
	PermissionDenied ErrorKind = iota
	DeviceUnavailable
	InvalidState
)

type CaptureError struct {
	Kind ErrorKind
	Err  error
}

func (e *CaptureError) Error() string {
	switch e.Kind {
	case PermissionDenied:
		return fmt.Sprintf("camera access denied: %v", e.Err)
	case DeviceUnavailable:
		return fmt.Sprintf("camera unavailable: %v", e.Err)
	case InvalidState:
		return "camera is not active"
	default:
		return fmt.Sprintf("capture error: %v", e.Err)
	}
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Stream is an open camera handle that can produce JPEG frames.
type Stream interface {
	Frame() ([]byte, error)
	Close() error
}

// Device grants access to camera hardware.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Pipeline owns the single process-wide camera session. Start and Stop are
// idempotent; Stop always lands in StateInactive and releases the stream,
// even when it races a Start that is still requesting the device.
type Pipeline struct {
	device Device
	logger *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	stream  Stream
	lastErr error
	gen     uint64
}

func NewPipeline(device Device, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		device: device,
		logger: logger,
		state:  StateInactive,
	}
}

// Start requests camera access. Calling it while the session is already
// active or still requesting is a no-op.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	switch p.state {
	case StateActive, StateRequesting:
		p.mu.Unlock()
		return nil
	}
	p.gen++
	gen := p.gen
	p.state = StateRequesting
	p.lastErr = nil
	p.mu.Unlock()

	stream, err := p.device.Open(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		// Stop won the race; the grant is stale and must not leak a handle.
		if stream != nil {
			if cerr := stream.Close(); cerr != nil {
				p.logger.Warnw("closing superseded camera stream", "error", cerr)
			}
		}
		return nil
	}

	if err != nil {
		p.state = StateError
		p.lastErr = err
		p.logger.Warnw("camera start failed", "error", err)
		return asCaptureError(err)
	}

	p.state = StateActive
	p.stream = stream
	p.logger.Infow("camera session active")
	return nil
}

// Snapshot grabs the current frame. Valid only while active; the session
// stays active afterwards regardless of outcome.
func (p *Pipeline) Snapshot() (models.CapturedImage, error) {
	p.mu.Lock()
	if p.state != StateActive {
		p.mu.Unlock()
		return models.CapturedImage{}, &CaptureError{Kind: InvalidState}
	}
	stream := p.stream
	p.mu.Unlock()

	frame, err := stream.Frame()
	if err != nil {
		return models.CapturedImage{}, asCaptureError(err)
	}

	return models.CapturedImage{
		Data:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame),
		TakenAt: time.Now(),
	}, nil
}

// Stop releases the camera from any state. Safe to call repeatedly.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	stream := p.stream
	p.stream = nil
	p.state = StateInactive
	p.lastErr = nil

	if stream == nil {
		return nil
	}
	if err := stream.Close(); err != nil {
		p.logger.Warnw("closing camera stream", "error", err)
		return fmt.Errorf("closing camera stream: %w", err)
	}
	p.logger.Infow("camera session released")
	return nil
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func asCaptureError(err error) error {
	if _, ok := err.(*CaptureError); ok {
		return err
	}
	return &CaptureError{Kind: DeviceUnavailable, Err: err}
}
