package visualization

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"omxotf/internal/logger"
	"omxotf/internal/models"
)

func testFrame(label string, rows, cols int) models.Frame {
	data := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data.Set(r, c, float64(r*cols+c)-3)
		}
	}
	return models.Frame{Label: label, Data: data}
}

// TestToImage verifies the linear scaling to 16 bit
func TestToImage(t *testing.T) {
	f := testFrame("ramp", 2, 3)
	img := ToImage(f)

	bounds := img.Bounds()
	if bounds.Dx() != 3 || bounds.Dy() != 2 {
		t.Fatalf("Expected 3x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	if v := img.Gray16At(0, 0).Y; v != 0 {
		t.Errorf("Expected minimum to map to 0, got %d", v)
	}
	if v := img.Gray16At(2, 1).Y; v != 65535 {
		t.Errorf("Expected maximum to map to 65535, got %d", v)
	}
	if v := img.Gray16At(1, 0).Y; v != 13107 {
		t.Errorf("Expected 1/5 of range (13107), got %d", v)
	}
}

func TestToImageConstant(t *testing.T) {
	data := mat.NewDense(2, 2, []float64{4, 4, 4, 4})
	img := ToImage(models.Frame{Label: "flat", Data: data})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if v := img.Gray16At(x, y).Y; v != 0 {
				t.Errorf("Expected 0 for a constant frame, got %d", v)
			}
		}
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"band 0 (mag,log)": "03_band_0_mag_log.png",
		"band 2 (phase)":   "03_band_2_phase.png",
		"band 1 (im)":      "03_band_1_im.png",
	}
	for label, want := range tests {
		if got := FileName(3, label); got != want {
			t.Errorf("FileName(%q): expected %q, got %q", label, want, got)
		}
	}
}

func TestFileSinkShow(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, &logger.NullLogger{})

	frames := []models.Frame{
		testFrame("band 0 (mag,log)", 4, 8),
		testFrame("band 0 (phase)", 4, 8),
	}
	if err := sink.Show("OTF power spec.", frames); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	path := filepath.Join(dir, "OTF_power_spec", "01_band_0_phase.png")
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected frame file %s: %v", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("Expected 8x4 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFileSinkShowFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}

	sink := NewFileSink(blocker, nil)
	if err := sink.Show("stack", []models.Frame{testFrame("x", 1, 1)}); err == nil {
		t.Error("Expected error when the output directory cannot be created")
	}
}
