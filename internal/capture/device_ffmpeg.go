package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// FFmpegDevice grabs still frames from a V4L2 camera by shelling out to
// ffmpeg. The hardware is only touched for the duration of a grab, so the
// open stream is cheap to hold.
type FFmpegDevice struct {
	ffmpegPath string
	devicePath string
	tempDir    string
	frameSize  int
}

func NewFFmpegDevice(devicePath string, frameSize int) (*FFmpegDevice, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	tempDir := filepath.Join(os.TempDir(), "bioconsole-frames")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	if frameSize <= 0 {
		frameSize = 640
	}

	return &FFmpegDevice{
		ffmpegPath: ffmpegPath,
		devicePath: devicePath,
		tempDir:    tempDir,
		frameSize:  frameSize,
	}, nil
}

func (d *FFmpegDevice) Open(ctx context.Context) (Stream, error) {
	if _, err := os.Stat(d.devicePath); err != nil {
		if os.IsPermission(err) {
			return nil, &CaptureError{Kind: PermissionDenied, Err: err}
		}
		return nil, &CaptureError{Kind: DeviceUnavailable, Err: err}
	}

	// Probe with a throwaway grab so a busy or misconfigured device fails
	// at start time, not at the first snapshot.
	s := &ffmpegStream{device: d}
	if _, err := s.Frame(); err != nil {
		return nil, &CaptureError{Kind: DeviceUnavailable, Err: err}
	}
	return s, nil
}

type ffmpegStream struct {
	device *FFmpegDevice
	closed bool
}

func (s *ffmpegStream) Frame() ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("stream closed")
	}

	d := s.device
	tempFile := filepath.Join(d.tempDir, fmt.Sprintf("grab_%s.jpg", uuid.New().String()))
	defer os.Remove(tempFile)

	args := []string{
		"-f", "v4l2",
		"-i", d.devicePath,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale='min(%d,iw)':-2", d.frameSize),
		"-q:v", "2",
		"-f", "mjpeg",
		"-y",
		tempFile,
	}

	cmd := exec.Command(d.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg grab failed: %w (%s)", err, lastLine(stderr.String()))
	}

	file, err := os.Open(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open grabbed frame: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ffmpegStream) Close() error {
	s.closed = true
	return nil
}

func lastLine(out string) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
