package printing

import "errors"

// Error codes for rendering failures
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeDegradedAsset = "DEGRADED_ASSET"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidView   = "RENDER_INVALID_VIEW"
)

// RenderError represents an error during document rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsFatal reports whether err aborts a render. Degraded assets never do.
func IsFatal(err error) bool {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Code == ErrCodeRenderFailed || re.Code == ErrCodeInvalidView
	}
	return err != nil
}

// IsNotFound reports whether err is a NOT_FOUND render error
func IsNotFound(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == ErrCodeNotFound
}
