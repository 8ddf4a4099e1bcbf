// Package projection reduces a decoded OTF to its axial projection and
// writes it, together with the optional full 3D data, as a structured
// configuration file.
package projection

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"omxotf/internal/models"
	"omxotf/pkg/otf"
)

// Fixed metadata of the exported OTF
const (
	DefaultNumericalAperture = 1.4
	DefaultEmission          = 515
	CyclesPerMicronLateral   = 0.048828
	CyclesPerMicronAxial     = 0.12307
)

// ExportError reports a store that cannot be exported
type ExportError struct {
	Reason string
}

func (e *ExportError) Error() string {
	return "projection: " + e.Reason
}

// Options controls what Project puts into the artifact
type Options struct {
	// Emission is the emission wavelength in nm
	Emission int

	// NumericalAperture is recorded as metadata only
	NumericalAperture float64

	// CyclesLateral and CyclesAxial are the cycles-per-micron of one sample
	CyclesLateral float64
	CyclesAxial   float64

	// Include3D also carries the full, un-summed band data
	Include3D bool
}

// DefaultOptions returns the metadata used for OMX OTFs
func DefaultOptions() Options {
	return Options{
		Emission:          DefaultEmission,
		NumericalAperture: DefaultNumericalAperture,
		CyclesLateral:     CyclesPerMicronLateral,
		CyclesAxial:       CyclesPerMicronAxial,
	}
}

// Artifact is the projected OTF. It is built once by Project and not
// modified afterwards.
type Artifact struct {
	NumericalAperture float64
	Emission          int
	CyclesLateral     float64
	CyclesAxial       float64
	SamplesLateral    int
	SamplesAxial      int

	// Projection holds, per band, one complex value per lateral sample:
	// the sum over all axial samples
	Projection [models.NumBands][]complex128

	// Full holds the un-summed (re, im) data of every band in store order,
	// or nil if 3D export was not requested
	Full [models.NumBands][]float32
}

// Has3D reports whether the artifact carries the full band data
func (a *Artifact) Has3D() bool {
	return a.Full[0] != nil
}

// Project sums the axial dimension of every band of store
func Project(store *otf.BandStore, opts Options) (*Artifact, error) {
	if store.Empty() {
		return nil, &ExportError{Reason: "store is empty"}
	}
	if n := store.NumBands(); n != models.NumBands {
		return nil, &ExportError{Reason: fmt.Sprintf("expected %d bands, got %d", models.NumBands, n)}
	}

	a := &Artifact{
		NumericalAperture: opts.NumericalAperture,
		Emission:          opts.Emission,
		CyclesLateral:     opts.CyclesLateral,
		CyclesAxial:       opts.CyclesAxial,
		SamplesLateral:    store.SamplesLateral(),
		SamplesAxial:      store.SamplesAxial(),
	}

	var wg sync.WaitGroup
	for b := 0; b < models.NumBands; b++ {
		wg.Add(1)
		go func(band models.Band) {
			defer wg.Done()
			a.Projection[band] = projectBand(store, band)
			if opts.Include3D {
				a.Full[band] = store.BandData(band)
			}
		}(models.Band(b))
	}
	wg.Wait()

	return a, nil
}

func projectBand(store *otf.BandStore, band models.Band) []complex128 {
	w, h := store.SamplesAxial(), store.SamplesLateral()
	out := make([]complex128, h)
	re := make([]float64, w)
	im := make([]float64, w)

	for lateral := 0; lateral < h; lateral++ {
		for axial := 0; axial < w; axial++ {
			re[axial] = float64(store.Real(band, lateral, axial))
			im[axial] = float64(store.Imag(band, lateral, axial))
		}
		out[lateral] = complex(floats.Sum(re), floats.Sum(im))
	}
	return out
}
