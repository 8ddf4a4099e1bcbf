package otf

import (
	"fmt"
)

// Reasons reported by FormatError
const (
	ReasonNotOTF          = "not an OMX OTF file"
	ReasonTruncated       = "truncated data"
	ReasonBadDimensions   = "invalid dimensions"
	ReasonBadHeaderLength = "invalid extended header size"
)

// FormatError reports a buffer that is not a decodable OMX OTF file
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "otf: " + e.Reason
}

// IoError wraps a failure of the underlying byte source or destination
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("otf: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// RangeError reports an index outside the valid bounds
type RangeError struct {
	What  string
	Index int
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("otf: %s index %d out of range [0,%d)", e.What, e.Index, e.Limit)
}
