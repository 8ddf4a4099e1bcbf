// Package spectrum turns decoded OTF bands into magnitude and phase planes
// for visualization.
package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"omxotf/internal/models"
	"omxotf/pkg/otf"
)

// LogFloor is the smallest magnitude passed to log when LogMagnitude is set
const LogFloor = 1e-3

// ErrEmptyStore is returned when the store has no samples to render
var ErrEmptyStore = errors.New("spectrum: store holds no samples")

// Options selects what Render computes. The zero value renders linear,
// uncentered, unmirrored magnitudes only.
type Options struct {
	// MirrorNegativeAxis doubles the output width and mirrors every value
	// onto the negative lateral axis
	MirrorNegativeAxis bool

	// LogMagnitude replaces each magnitude m with log(max(m, LogFloor))
	LogMagnitude bool

	// CenterDcOnZAxis moves the axial DC term to the middle row
	CenterDcOnZAxis bool

	// IncludeRawBands adds the unmodified real and imaginary planes
	IncludeRawBands bool

	// IncludePhase adds a phase plane after each magnitude plane
	IncludePhase bool
}

// DefaultOptions mirrors, centers and log-compresses
func DefaultOptions() Options {
	return Options{
		MirrorNegativeAxis: true,
		LogMagnitude:       true,
		CenterDcOnZAxis:    true,
	}
}

// Result holds the frames produced by Render
type Result struct {
	// Spectra holds, per band in order, the magnitude frame followed by
	// the phase frame when requested
	Spectra []models.Frame

	// Raw holds the real and imaginary planes of each band when requested
	Raw []models.Frame
}

// OutputSize returns the width and height of the spectrum frames for a
// store with the given sample counts
func OutputSize(samplesLateral, samplesAxial int, opts Options) (width, height int) {
	width = samplesLateral
	if opts.MirrorNegativeAxis {
		width = 2 * samplesLateral
	}
	return width, samplesAxial
}

// Render computes the power spectra of all bands of store. Bands are
// processed concurrently; each goroutine writes only its own frames.
func Render(store *otf.BandStore, opts Options) (*Result, error) {
	if store.Empty() {
		return nil, ErrEmptyStore
	}

	perBand := 1
	if opts.IncludePhase {
		perBand = 2
	}

	res := &Result{
		Spectra: make([]models.Frame, models.NumBands*perBand),
	}

	var wg sync.WaitGroup
	for b := 0; b < models.NumBands; b++ {
		wg.Add(1)
		go func(band models.Band) {
			defer wg.Done()
			mag, pha := renderBand(store, band, opts)
			res.Spectra[int(band)*perBand] = mag
			if opts.IncludePhase {
				res.Spectra[int(band)*perBand+1] = pha
			}
		}(models.Band(b))
	}
	wg.Wait()

	if opts.IncludeRawBands {
		res.Raw = RawBands(store)
	}

	return res, nil
}

// Magnitude returns |re + i*im|, log-compressed if logScale is set
func Magnitude(re, im float64, logScale bool) float64 {
	m := math.Hypot(re, im)
	if logScale {
		return math.Log(math.Max(m, LogFloor))
	}
	return m
}

// Phase returns the argument of re + i*im
func Phase(re, im float64) float64 {
	return math.Atan2(im, re)
}

func renderBand(store *otf.BandStore, band models.Band, opts Options) (mag, pha models.Frame) {
	w, h := store.SamplesAxial(), store.SamplesLateral()
	outW, outH := OutputSize(h, w, opts)

	magData := mat.NewDense(outH, outW, nil)
	var phaData *mat.Dense
	if opts.IncludePhase {
		phaData = mat.NewDense(outH, outW, nil)
	}

	offset := 0
	if opts.MirrorNegativeAxis {
		offset = outW / 2
	}

	for lateral := 0; lateral < h; lateral++ {
		for axial := 0; axial < w; axial++ {
			re := float64(store.Real(band, lateral, axial))
			im := float64(store.Imag(band, lateral, axial))

			m := Magnitude(re, im, opts.LogMagnitude)

			oy := axial
			if opts.CenterDcOnZAxis {
				oy = (axial + w/2) % w
			}
			ox := lateral + offset

			magData.Set(oy, ox, m)
			if opts.MirrorNegativeAxis {
				magData.Set(oy, outW-ox, m)
			}

			if phaData != nil {
				p := Phase(re, im)
				phaData.Set(oy, ox, p)
				if opts.MirrorNegativeAxis {
					phaData.Set(oy, outW-ox, p)
				}
			}
		}
	}

	label := fmt.Sprintf("band %d (mag)", band)
	if opts.LogMagnitude {
		label = fmt.Sprintf("band %d (mag,log)", band)
	}
	mag = models.Frame{Label: label, Band: band, Kind: models.FrameMagnitude, Data: magData}

	if phaData != nil {
		pha = models.Frame{
			Label: fmt.Sprintf("band %d (phase)", band),
			Band:  band,
			Kind:  models.FramePhase,
			Data:  phaData,
		}
	}
	return mag, pha
}

// RawBands returns the unmodified real and imaginary planes of every band,
// band by band, real first. Each plane has one row per lateral sample and
// one column per axial sample.
func RawBands(store *otf.BandStore) []models.Frame {
	if store.Empty() {
		return nil
	}
	w, h := store.SamplesAxial(), store.SamplesLateral()
	frames := make([]models.Frame, 0, 2*models.NumBands)

	for b := 0; b < models.NumBands; b++ {
		band := models.Band(b)
		for _, c := range []models.Component{models.Real, models.Imag} {
			data := mat.NewDense(h, w, nil)
			for lateral := 0; lateral < h; lateral++ {
				for axial := 0; axial < w; axial++ {
					v := store.Real(band, lateral, axial)
					if c == models.Imag {
						v = store.Imag(band, lateral, axial)
					}
					data.Set(lateral, axial, float64(v))
				}
			}
			frames = append(frames, models.Frame{
				Label: fmt.Sprintf("band %d (%s)", b, c),
				Band:  band,
				Kind:  models.FrameRaw,
				Data:  data,
			})
		}
	}
	return frames
}
