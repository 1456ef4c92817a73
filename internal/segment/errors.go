package segment

import (
	"fmt"

	"github.com/ironsheep/charseg-mcp/internal/imaging"
)

// ErrorCode classifies segmentation failures.
type ErrorCode string

const (
	// CodeDecode: the raster bytes did not decode to an image.
	CodeDecode ErrorCode = "DECODE_ERROR"
	// CodeInvalidRegion: the crop is empty, before or after clamping.
	CodeInvalidRegion ErrorCode = "INVALID_REGION"
	// CodeInvalidConfig: Config.Validate rejected the settings.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// CodeInternal: an unexpected failure inside the algorithm. Carries the
	// region and span needed to reproduce it.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrDecode        = &Error{Code: CodeDecode}
	ErrInvalidRegion = &Error{Code: CodeInvalidRegion}
	ErrInvalidConfig = &Error{Code: CodeInvalidConfig}
	ErrInternal      = &Error{Code: CodeInternal}
)

// Error is the structured error returned by the segmentation pipeline.
type Error struct {
	Code    ErrorCode
	Message string
	Region  imaging.Region
	Span    *Run
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Region != (imaging.Region{}) {
		msg += fmt.Sprintf(" (region %s)", e.Region)
	}
	if e.Span != nil {
		msg += fmt.Sprintf(" (span %d-%d)", e.Span.Start, e.Span.End)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newDecodeError(cause error) *Error {
	return &Error{
		Code:    CodeDecode,
		Message: "raster could not be decoded",
		Cause:   cause,
	}
}

func newRegionError(region imaging.Region, cause error) *Error {
	return &Error{
		Code:    CodeInvalidRegion,
		Message: "crop has zero width or height",
		Region:  region,
		Cause:   cause,
	}
}

func newConfigError(msg string) *Error {
	return &Error{
		Code:    CodeInvalidConfig,
		Message: msg,
	}
}

func newInternalError(span Run, msg string, cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: msg,
		Span:    &span,
		Cause:   cause,
	}
}
