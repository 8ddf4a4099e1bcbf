package otf

import (
	"encoding/binary"
	"math"

	"omxotf/internal/models"
)

// Byte offsets of the legacy Deltavision/OMX header fields. These are part
// of the file format and must not change.
const (
	offsetWidth         = 0
	offsetHeight        = 4
	offsetNumImages     = 8
	offsetPixelType     = 12
	offsetMicronAxial   = 40
	offsetMicronLateral = 44
	offsetExtHeaderSize = 92
	offsetEndianMarker  = 96

	// minHeaderBytes is the shortest buffer holding every field above
	minHeaderBytes = offsetEndianMarker + 2
)

const (
	// StandardHeaderSize is the fixed header length preceding the extended header
	StandardHeaderSize = 1024

	// RequiredNumImages is the image count of an OMX OTF (one per band)
	RequiredNumImages = 3

	// PixelTypeComplexFloat marks interleaved float32 (re, im) samples
	PixelTypeComplexFloat = 4

	// bytesPerSample is one complex float32 pair
	bytesPerSample = 8

	// LegacyEndianStamp is the historical marker value for little-endian files
	LegacyEndianStamp int16 = -16224 // 0xc0a0
)

// DecodeHeader reads the header fields from buf. It checks only that buf is
// long enough to hold them; use Validate for the format check.
func DecodeHeader(buf []byte) (models.Header, error) {
	if len(buf) < minHeaderBytes {
		return models.Header{}, &FormatError{Reason: ReasonTruncated}
	}

	le := binary.LittleEndian
	return models.Header{
		Width:                 int32(le.Uint32(buf[offsetWidth:])),
		Height:                int32(le.Uint32(buf[offsetHeight:])),
		NumImages:             int32(le.Uint32(buf[offsetNumImages:])),
		PixelType:             int32(le.Uint32(buf[offsetPixelType:])),
		ExtHeaderSize:         int32(le.Uint32(buf[offsetExtHeaderSize:])),
		MicronPerPixelAxial:   math.Float32frombits(le.Uint32(buf[offsetMicronAxial:])),
		MicronPerPixelLateral: math.Float32frombits(le.Uint32(buf[offsetMicronLateral:])),
		EndianMarker:          int16(binary.BigEndian.Uint16(buf[offsetEndianMarker:])),
	}, nil
}

// Validate checks the magic fields and the dimensions of h
func Validate(h models.Header) error {
	if h.NumImages != RequiredNumImages || h.PixelType != PixelTypeComplexFloat {
		return &FormatError{Reason: ReasonNotOTF}
	}
	if h.Width < 0 || h.Height < 0 {
		return &FormatError{Reason: ReasonBadDimensions}
	}
	if h.ExtHeaderSize < 0 {
		return &FormatError{Reason: ReasonBadHeaderLength}
	}
	return nil
}

// DataOffset is the byte position of the first band sample
func DataOffset(h models.Header) int64 {
	return int64(h.ExtHeaderSize) + StandardHeaderSize
}

// RequiredSize is the minimum buffer length for a file described by h
func RequiredSize(h models.Header) int64 {
	samples := int64(h.Width) * int64(h.Height)
	if samples > (math.MaxInt64-DataOffset(h))/(models.NumBands*bytesPerSample) {
		return math.MaxInt64
	}
	return DataOffset(h) + models.NumBands*samples*bytesPerSample
}
