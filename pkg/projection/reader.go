package projection

import (
	"encoding/base64"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"omxotf/internal/models"
)

func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func path(n *yaml.Node, keys ...string) *yaml.Node {
	for _, k := range keys {
		n = lookup(n, k)
	}
	return n
}

func readInt(n *yaml.Node, key string) (int, error) {
	v := lookup(n, key)
	if v == nil {
		return 0, errors.Errorf("missing key %q", key)
	}
	i, err := strconv.Atoi(v.Value)
	return i, errors.Wrapf(err, "key %q", key)
}

func readFloat(n *yaml.Node, key string) (float64, error) {
	v := lookup(n, key)
	if v == nil {
		return 0, errors.Errorf("missing key %q", key)
	}
	f, err := strconv.ParseFloat(v.Value, 64)
	return f, errors.Wrapf(err, "key %q", key)
}

func readFloats(n *yaml.Node, key string, count int) ([]float32, error) {
	v := lookup(n, key)
	if v == nil {
		return nil, errors.Errorf("missing key %q", key)
	}
	raw, err := base64.StdEncoding.DecodeString(v.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "key %q", key)
	}
	if len(raw) != 4*count {
		return nil, errors.Errorf("key %q: expected %d bytes, got %d", key, 4*count, len(raw))
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(blobOrder.Uint32(raw[4*i:]))
	}
	return out, nil
}

// Read decodes an artifact written by Write. Projection values come back
// with float32 precision.
func Read(r io.Reader) (*Artifact, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding OTF artifact")
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("empty OTF artifact")
	}
	cfg := lookup(doc.Content[0], keyRoot)

	otf2d := lookup(cfg, keyOTF2D)
	data := lookup(otf2d, keyData)
	if data == nil {
		return nil, errors.New("missing otf2d data section")
	}

	a := &Artifact{}
	var err error
	if a.NumericalAperture, err = readFloat(otf2d, keyNA); err != nil {
		return nil, err
	}
	if a.Emission, err = readInt(otf2d, keyEmission); err != nil {
		return nil, err
	}
	if a.CyclesLateral, err = readFloat(data, keyCycles); err != nil {
		return nil, err
	}
	if a.SamplesLateral, err = readInt(data, keySamples); err != nil {
		return nil, err
	}

	for b := 0; b < models.NumBands; b++ {
		vals, err := readFloats(data, bandKey(b), 2*a.SamplesLateral)
		if err != nil {
			return nil, err
		}
		p := make([]complex128, a.SamplesLateral)
		for i := range p {
			p[i] = complex(float64(vals[2*i]), float64(vals[2*i+1]))
		}
		a.Projection[b] = p
	}

	data3d := path(cfg, keyOTF3D, keyData)
	if data3d == nil {
		return a, nil
	}
	if a.SamplesAxial, err = readInt(data3d, keySamplesAxial); err != nil {
		return nil, err
	}
	if a.CyclesAxial, err = readFloat(data3d, keyCyclesAxial); err != nil {
		return nil, err
	}
	for b := 0; b < models.NumBands; b++ {
		if a.Full[b], err = readFloats(data3d, bandKey(b), 2*a.SamplesAxial*a.SamplesLateral); err != nil {
			return nil, err
		}
	}
	return a, nil
}
