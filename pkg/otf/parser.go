// Package otf decodes OMX optical transfer function files.
//
// An OMX OTF file is a Deltavision-style image with a 1024-byte standard
// header, an extended header of variable size and three complex float
// images, one per structured-illumination band. All values are little-endian.
package otf

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"

	"omxotf/internal/logger"
	"omxotf/internal/models"
)

// Parse decodes an OTF file held entirely in buf. Either the whole file
// validates and a complete store is returned, or a *FormatError is returned
// and no store is built.
func Parse(buf []byte, log logger.Logger) (*BandStore, error) {
	log = logger.OrNull(log)

	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	log.Debugf("w,h,nrImg,type,lenHeader: %d %d %d %d %d",
		h.Width, h.Height, h.NumImages, h.PixelType, h.ExtHeaderSize)
	log.Debugf("pxl size, lateral: %6.4f  axial: %6.4f",
		h.MicronPerPixelLateral, h.MicronPerPixelAxial)
	log.Debugf("endian stamp: %d (legacy little-endian stamp %d)", h.EndianMarker, LegacyEndianStamp)

	if err := Validate(h); err != nil {
		return nil, err
	}
	if int64(len(buf)) < RequiredSize(h) {
		return nil, &FormatError{Reason: ReasonTruncated}
	}

	store := &BandStore{header: h}

	width, height := int(h.Width), int(h.Height)
	pos := int(DataOffset(h))
	le := binary.LittleEndian

	for band := 0; band < models.NumBands; band++ {
		data := make([]float32, 2*width*height)
		// the file stores a full lateral scan for each axial position
		for axial := 0; axial < width; axial++ {
			for lateral := 0; lateral < height; lateral++ {
				idx := 2 * (axial*height + lateral)
				data[idx] = math.Float32frombits(le.Uint32(buf[pos:]))
				data[idx+1] = math.Float32frombits(le.Uint32(buf[pos+4:]))
				pos += bytesPerSample
			}
		}
		store.bands[band] = data
	}

	return store, nil
}

// ReadFile reads the file at path into memory and parses it
func ReadFile(path string, log logger.Logger) (*BandStore, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &IoError{Op: "read", Path: path, Err: errors.Wrap(err, "reading OTF file")}
	}

	store, err := Parse(buf, log)
	if err != nil {
		return nil, errors.WithMessagef(err, "parsing %s", path)
	}
	return store, nil
}
