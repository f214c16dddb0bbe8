package capture

import "context"

// UnavailableDevice stands in when no camera hardware could be configured.
// Every start attempt fails into the pipeline's error state instead of
// taking the console down.
type UnavailableDevice struct {
	Err error
}

func (d UnavailableDevice) Open(ctx context.Context) (Stream, error) {
	return nil, &CaptureError{Kind: DeviceUnavailable, Err: d.Err}
}
