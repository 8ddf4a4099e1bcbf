// Package testutil builds synthetic OTF files for tests.
package testutil

import (
	"encoding/binary"
	"math"
)

// OTFBuilder describes a synthetic OTF file. Sample returns the complex
// value stored for (band, lateral, axial).
type OTFBuilder struct {
	Width, Height        int
	NumImages, PixelType int32
	ExtHeaderSize        int
	MicronLateral        float32
	MicronAxial          float32
	Sample               func(band, lateral, axial int) (re, im float32)
}

// NewOTFBuilder returns a valid builder of the given size with every sample
// set to zero
func NewOTFBuilder(width, height int) *OTFBuilder {
	return &OTFBuilder{
		Width:         width,
		Height:        height,
		NumImages:     3,
		PixelType:     4,
		MicronLateral: 0.0125,
		MicronAxial:   0.125,
		Sample: func(band, lateral, axial int) (float32, float32) {
			return 0, 0
		},
	}
}

// DataOffset is the position of the first sample in the built buffer
func (b *OTFBuilder) DataOffset() int {
	return 1024 + b.ExtHeaderSize
}

// Bytes encodes the file
func (b *OTFBuilder) Bytes() []byte {
	n := b.DataOffset() + 3*b.Width*b.Height*8
	buf := make([]byte, n)
	le := binary.LittleEndian

	le.PutUint32(buf[0:], uint32(b.Width))
	le.PutUint32(buf[4:], uint32(b.Height))
	le.PutUint32(buf[8:], uint32(b.NumImages))
	le.PutUint32(buf[12:], uint32(b.PixelType))
	le.PutUint32(buf[40:], math.Float32bits(b.MicronAxial))
	le.PutUint32(buf[44:], math.Float32bits(b.MicronLateral))
	le.PutUint32(buf[92:], uint32(b.ExtHeaderSize))
	binary.BigEndian.PutUint16(buf[96:], 0xc0a0)

	pos := b.DataOffset()
	for band := 0; band < 3; band++ {
		for axial := 0; axial < b.Width; axial++ {
			for lateral := 0; lateral < b.Height; lateral++ {
				re, im := b.Sample(band, lateral, axial)
				le.PutUint32(buf[pos:], math.Float32bits(re))
				le.PutUint32(buf[pos+4:], math.Float32bits(im))
				pos += 8
			}
		}
	}
	return buf
}

// Ramp is a sample function giving every sample a distinct value
func Ramp(band, lateral, axial int) (float32, float32) {
	v := float32(band*1000 + axial*100 + lateral)
	return v, -v - 0.5
}
