package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"omxotf/internal/logger"
	"omxotf/internal/models"
)

// Sink accepts named stacks of frames
type Sink interface {
	Show(name string, frames []models.Frame) error
}

// FileSink writes every frame of a stack as a 16-bit grayscale PNG into
// Dir/<name>/
type FileSink struct {
	Dir string
	Log logger.Logger
}

// NewFileSink creates a sink writing below dir
func NewFileSink(dir string, log logger.Logger) *FileSink {
	return &FileSink{Dir: dir, Log: logger.OrNull(log)}
}

// ToImage scales frame values linearly from [min, max] to the full 16-bit
// range. A constant frame maps to zero.
func ToImage(f models.Frame) *image.Gray16 {
	rows, cols := f.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	lo, hi := mat.Min(f.Data), mat.Max(f.Data)
	span := hi - lo

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var value uint16
			if span > 0 {
				value = uint16(math.Round((f.Data.At(y, x) - lo) / span * 65535))
			}
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}

// sanitize keeps letters and digits and joins the rest with single
// underscores
func sanitize(label string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, label)
	for strings.Contains(clean, "__") {
		clean = strings.ReplaceAll(clean, "__", "_")
	}
	return strings.Trim(clean, "_")
}

// FileName turns a frame label into a file name, e.g.
// "band 0 (mag,log)" -> "00_band_0_mag_log.png"
func FileName(index int, label string) string {
	return fmt.Sprintf("%02d_%s.png", index, sanitize(label))
}

// SaveFrame writes a single frame to filename
func SaveFrame(f models.Frame, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating frame file")
	}
	defer file.Close()

	if err := png.Encode(file, ToImage(f)); err != nil {
		return errors.Wrapf(err, "encoding %s", f.Label)
	}
	return nil
}

// Show writes the stack to Dir/<name>
func (s *FileSink) Show(name string, frames []models.Frame) error {
	outputDir := filepath.Join(s.Dir, sanitize(name))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return errors.Wrap(err, "creating frame directory")
	}

	for i, f := range frames {
		filename := filepath.Join(outputDir, FileName(i, f.Label))
		if err := SaveFrame(f, filename); err != nil {
			return err
		}
	}

	logger.OrNull(s.Log).Infof("saved %d frames of %q to %s", len(frames), name, outputDir)
	return nil
}
