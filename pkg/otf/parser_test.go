package otf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"omxotf/internal/logger"
	"omxotf/internal/models"
	"omxotf/internal/testutil"
)

// TestParseReproducesSamples verifies every sample is read back at the
// position it was written to
func TestParseReproducesSamples(t *testing.T) {
	for _, ext := range []int{0, 64, 3000} {
		b := testutil.NewOTFBuilder(5, 7)
		b.ExtHeaderSize = ext
		b.Sample = testutil.Ramp

		store, err := Parse(b.Bytes(), &logger.NullLogger{})
		if err != nil {
			t.Fatalf("ext=%d: unexpected error: %v", ext, err)
		}

		if store.SamplesAxial() != 5 || store.SamplesLateral() != 7 {
			t.Fatalf("Expected 5 axial x 7 lateral samples, got %d x %d",
				store.SamplesAxial(), store.SamplesLateral())
		}
		if store.NumBands() != 3 {
			t.Errorf("Expected 3 bands, got %d", store.NumBands())
		}

		for band := 0; band < 3; band++ {
			for axial := 0; axial < 5; axial++ {
				for lateral := 0; lateral < 7; lateral++ {
					re, im := testutil.Ramp(band, lateral, axial)
					gotRe := store.Real(models.Band(band), lateral, axial)
					gotIm := store.Imag(models.Band(band), lateral, axial)
					if gotRe != re || gotIm != im {
						t.Errorf("ext=%d band %d (l=%d,a=%d): expected (%v,%v), got (%v,%v)",
							ext, band, lateral, axial, re, im, gotRe, gotIm)
					}
				}
			}
		}
	}
}

func TestParseFlatLayout(t *testing.T) {
	b := testutil.NewOTFBuilder(3, 4)
	b.Sample = testutil.Ramp

	store, err := Parse(b.Bytes(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := store.BandData(models.BandPlusOne)
	lateral, axial := 2, 1
	idx := lateral + axial*4
	re, im := testutil.Ramp(1, lateral, axial)
	if data[2*idx] != re || data[2*idx+1] != im {
		t.Errorf("Expected (%v,%v) at flat index %d, got (%v,%v)", re, im, idx, data[2*idx], data[2*idx+1])
	}

	// BandData hands out a copy
	data[0] = 12345
	if store.Real(models.BandPlusOne, 0, 0) == 12345 {
		t.Error("Modifying BandData result changed the store")
	}
}

func TestParseHeaderFields(t *testing.T) {
	b := testutil.NewOTFBuilder(2, 2)
	b.ExtHeaderSize = 16
	store, err := Parse(b.Bytes(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := store.Header()
	if h.ExtHeaderSize != 16 {
		t.Errorf("Expected extended header size 16, got %d", h.ExtHeaderSize)
	}
	if store.MicronPerPixelLateral() != float64(float32(0.0125)) {
		t.Errorf("Expected lateral pixel size 0.0125, got %v", store.MicronPerPixelLateral())
	}
	if store.MicronPerPixelAxial() != float64(float32(0.125)) {
		t.Errorf("Expected axial pixel size 0.125, got %v", store.MicronPerPixelAxial())
	}
	if h.EndianMarker != LegacyEndianStamp {
		t.Errorf("Expected endian stamp %d, got %d", LegacyEndianStamp, h.EndianMarker)
	}
}

func TestParseRejectsNonOTF(t *testing.T) {
	tests := []struct {
		name      string
		numImages int32
		pixelType int32
	}{
		{"two images", 2, 4},
		{"four images", 4, 4},
		{"real float pixels", 3, 2},
		{"both wrong", 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := testutil.NewOTFBuilder(4, 4)
			b.NumImages = tc.numImages
			b.PixelType = tc.pixelType

			store, err := Parse(b.Bytes(), nil)
			if store != nil {
				t.Error("Expected no store on failure")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected FormatError, got %v", err)
			}
			if fe.Reason != ReasonNotOTF {
				t.Errorf("Expected reason %q, got %q", ReasonNotOTF, fe.Reason)
			}
		})
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	b := testutil.NewOTFBuilder(4, 4)
	b.ExtHeaderSize = 32
	full := b.Bytes()

	for _, n := range []int{0, 10, 97, 1024, 1024 + 32, len(full) - 1} {
		store, err := Parse(full[:n], nil)
		if store != nil {
			t.Errorf("len=%d: expected no store", n)
		}
		var fe *FormatError
		if !errors.As(err, &fe) || fe.Reason != ReasonTruncated {
			t.Errorf("len=%d: expected truncated FormatError, got %v", n, err)
		}
	}

	if _, err := Parse(full, nil); err != nil {
		t.Errorf("Full buffer should parse, got %v", err)
	}
}

func TestParseHugeDimensionsDoNotOverflow(t *testing.T) {
	b := testutil.NewOTFBuilder(0, 0)
	buf := b.Bytes()
	// claim a 2^30 x 2^30 grid in a 1 KiB file
	buf[3] = 0x40
	buf[7] = 0x40

	_, err := Parse(buf, nil)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Reason != ReasonTruncated {
		t.Errorf("Expected truncated FormatError, got %v", err)
	}
}

func TestSampleRangeChecks(t *testing.T) {
	b := testutil.NewOTFBuilder(2, 3)
	b.Sample = testutil.Ramp
	store, err := Parse(b.Bytes(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := store.Sample(models.BandMinusOne, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	re, im := testutil.Ramp(2, 2, 1)
	if v != complex(re, im) {
		t.Errorf("Expected %v, got %v", complex(re, im), v)
	}

	for _, c := range [][3]int{{3, 0, 0}, {-1, 0, 0}, {0, 3, 0}, {0, 0, 2}, {0, -1, 0}} {
		var rangeErr *RangeError
		if _, err := store.Sample(models.Band(c[0]), c[1], c[2]); !errors.As(err, &rangeErr) {
			t.Errorf("%v: expected RangeError, got %v", c, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.otf")

	b := testutil.NewOTFBuilder(4, 4)
	b.Sample = testutil.Ramp
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	store, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Real(models.BandZero, 1, 2) != 201 {
		t.Errorf("Expected 201, got %v", store.Real(models.BandZero, 1, 2))
	}

	_, err = ReadFile(filepath.Join(dir, "missing.otf"), nil)
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected IoError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected the cause to be os.ErrNotExist, got %v", err)
	}

	bad := testutil.NewOTFBuilder(4, 4)
	bad.PixelType = 2
	badPath := filepath.Join(dir, "bad.otf")
	if err := os.WriteFile(badPath, bad.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	_, err = ReadFile(badPath, nil)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("Expected FormatError from ReadFile, got %v", err)
	}
}
