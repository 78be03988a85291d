package sdk

import "fmt"

// FrameError reports a transport-level framing failure: unreadable input or
// bytes that are not valid UTF-8. Framing errors are fatal to the stream;
// the caller should reconnect rather than continue reading.
type FrameError struct {
	Message string
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	return fmt.Sprintf("sdk: frame error: %s", e.Message)
}

// RunFailure is the terminal error of a run that emitted a run error event.
type RunFailure struct {
	Message string
	Code    string
}

// Error implements the error interface.
func (e *RunFailure) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("sdk: run failed: %s", e.Message)
	}
	return fmt.Sprintf("sdk: run failed: %s: %s", e.Code, e.Message)
}

// HTTPStatusError carries an HTTP status for retry classification when the
// transport rejects a stream before any frame arrives.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sdk: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("sdk: http status %d: %s", e.StatusCode, e.Message)
}
