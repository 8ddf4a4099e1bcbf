package models

import (
	"gonum.org/v1/gonum/mat"
)

// Header holds the fields of the fixed 1024-byte OMX OTF header that the
// decoder relies on
type Header struct {
	// Width is the number of axial samples
	Width int32

	// Height is the number of lateral samples
	Height int32

	// NumImages must be 3 (one image per band)
	NumImages int32

	// PixelType must be 4 (complex float)
	PixelType int32

	// ExtHeaderSize is the size of the extended header that follows the
	// standard header
	ExtHeaderSize int32

	// MicronPerPixelLateral and MicronPerPixelAxial are the calibration
	// values stored at offsets 44 and 40
	MicronPerPixelLateral float32
	MicronPerPixelAxial   float32

	// EndianMarker is the legacy stamp at offset 96, read big-endian.
	// It is informational only and never selects the decode byte order.
	EndianMarker int16
}

// Band identifies one of the three structured-illumination orders stored
// in an OTF file
type Band int

const (
	BandZero Band = iota
	BandPlusOne
	BandMinusOne
)

// NumBands is the number of bands in every OMX OTF file
const NumBands = 3

// Component selects the real or imaginary part of a complex sample
type Component int

const (
	Real Component = iota
	Imag
)

// String returns the short label used in frame names
func (c Component) String() string {
	if c == Imag {
		return "im"
	}
	return "re"
}

// FrameKind tells what a Frame contains
type FrameKind int

const (
	FrameMagnitude FrameKind = iota
	FramePhase
	FrameRaw
)

// Frame is a named 2D float plane produced for visualization or export.
// Rows run along the first output axis, columns along the second.
type Frame struct {
	// Label is a human readable name such as "band 0 (mag,log)"
	Label string

	// Band is the band the frame was computed from
	Band Band

	// Kind is the content of the frame
	Kind FrameKind

	// Data holds the plane values
	Data *mat.Dense
}

// Dims returns the number of rows and columns of the frame
func (f *Frame) Dims() (rows, cols int) {
	return f.Data.Dims()
}
