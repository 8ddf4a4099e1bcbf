package otf

import (
	"omxotf/internal/models"
)

// BandStore holds the three decoded bands of an OTF file. It is built once
// by Parse and never modified afterwards, so it can be shared freely between
// goroutines.
//
// Each band is a flat float32 slice of width*height (re, im) pairs laid out
// axial-major, lateral-minor, exactly as read from the file.
type BandStore struct {
	header models.Header
	bands  [models.NumBands][]float32
}

func (s *BandStore) index(lateral, axial int) int {
	return 2 * (lateral + axial*int(s.header.Height))
}

// Real returns the real part at (lateral, axial) of band. Like slice
// indexing it panics on coordinates outside the store.
func (s *BandStore) Real(band models.Band, lateral, axial int) float32 {
	return s.bands[band][s.index(lateral, axial)]
}

// Imag returns the imaginary part at (lateral, axial) of band
func (s *BandStore) Imag(band models.Band, lateral, axial int) float32 {
	return s.bands[band][s.index(lateral, axial)+1]
}

// Sample is the bounds-checked variant of Real and Imag
func (s *BandStore) Sample(band models.Band, lateral, axial int) (complex64, error) {
	if band < 0 || int(band) >= models.NumBands {
		return 0, &RangeError{What: "band", Index: int(band), Limit: models.NumBands}
	}
	if lateral < 0 || lateral >= s.SamplesLateral() {
		return 0, &RangeError{What: "lateral", Index: lateral, Limit: s.SamplesLateral()}
	}
	if axial < 0 || axial >= s.SamplesAxial() {
		return 0, &RangeError{What: "axial", Index: axial, Limit: s.SamplesAxial()}
	}
	return complex(s.Real(band, lateral, axial), s.Imag(band, lateral, axial)), nil
}

// BandData returns a copy of the flat (re, im) array of band
func (s *BandStore) BandData(band models.Band) []float32 {
	out := make([]float32, len(s.bands[band]))
	copy(out, s.bands[band])
	return out
}

// Header returns the decoded file header
func (s *BandStore) Header() models.Header {
	return s.header
}

// NumBands returns the number of bands held by the store
func (s *BandStore) NumBands() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, b := range s.bands {
		if b != nil {
			n++
		}
	}
	return n
}

// SamplesLateral is the file's height
func (s *BandStore) SamplesLateral() int {
	return int(s.header.Height)
}

// SamplesAxial is the file's width
func (s *BandStore) SamplesAxial() int {
	return int(s.header.Width)
}

func (s *BandStore) MicronPerPixelLateral() float64 {
	return float64(s.header.MicronPerPixelLateral)
}

func (s *BandStore) MicronPerPixelAxial() float64 {
	return float64(s.header.MicronPerPixelAxial)
}

// Empty reports whether the store holds no samples
func (s *BandStore) Empty() bool {
	return s == nil || s.SamplesLateral()*s.SamplesAxial() == 0
}
