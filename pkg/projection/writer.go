package projection

import (
	"encoding/base64"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"omxotf/internal/logger"
	"omxotf/internal/models"
	"omxotf/pkg/otf"
)

// Key names of the structured configuration file
const (
	keyRoot           = "fairsim"
	keyOTF2D          = "otf2d"
	keyOTF3D          = "otf3d"
	keyNA             = "NA"
	keyEmission       = "emission"
	keyData           = "data"
	keyBands          = "bands"
	keyCycles         = "cycles"
	keySamples        = "samples"
	keySamplesAxial   = "samples-axial"
	keySamplesLateral = "samples-lateral"
	keyCyclesLateral  = "cycles-lateral"
	keyCyclesAxial    = "cycles-axial"
)

func bandKey(b int) string {
	return "band-" + strconv.Itoa(b)
}

// Blob payloads are big-endian float32
var blobOrder = binary.BigEndian

// ProjectionBytes encodes the 2D projection of band as (re, im) float32 pairs
func (a *Artifact) ProjectionBytes(band models.Band) []byte {
	p := a.Projection[band]
	buf := make([]byte, 8*len(p))
	for i, v := range p {
		blobOrder.PutUint32(buf[8*i:], math.Float32bits(float32(real(v))))
		blobOrder.PutUint32(buf[8*i+4:], math.Float32bits(float32(imag(v))))
	}
	return buf
}

// FullBytes encodes the 3D data of band, or returns nil if absent
func (a *Artifact) FullBytes(band models.Band) []byte {
	f := a.Full[band]
	if f == nil {
		return nil
	}
	buf := make([]byte, 4*len(f))
	for i, v := range f {
		blobOrder.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func intNode(v int) *yaml.Node {
	return scalar("!!int", strconv.Itoa(v))
}

func floatNode(v float64) *yaml.Node {
	return scalar("!!float", strconv.FormatFloat(v, 'g', -1, 64))
}

func blobNode(b []byte) *yaml.Node {
	return scalar("!!binary", base64.StdEncoding.EncodeToString(b))
}

type folder struct {
	node *yaml.Node
}

func newFolder() folder {
	return folder{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

func (f folder) set(key string, value *yaml.Node) {
	f.node.Content = append(f.node.Content, scalar("!!str", key), value)
}

func (f folder) mk(key string) folder {
	sub := newFolder()
	f.set(key, sub.node)
	return sub
}

// Tree builds the configuration tree of a. The 2D projection is always
// present; the 3D section only when the artifact carries full data.
func (a *Artifact) Tree() *yaml.Node {
	root := newFolder()
	cfg := root.mk(keyRoot)

	otf2d := cfg.mk(keyOTF2D)
	otf2d.set(keyNA, floatNode(a.NumericalAperture))
	otf2d.set(keyEmission, intNode(a.Emission))
	data := otf2d.mk(keyData)
	data.set(keyBands, intNode(models.NumBands))
	data.set(keyCycles, floatNode(a.CyclesLateral))
	data.set(keySamples, intNode(a.SamplesLateral))
	for b := 0; b < models.NumBands; b++ {
		data.set(bandKey(b), blobNode(a.ProjectionBytes(models.Band(b))))
	}

	if a.Has3D() {
		otf3d := cfg.mk(keyOTF3D)
		otf3d.set(keyNA, floatNode(a.NumericalAperture))
		otf3d.set(keyEmission, intNode(a.Emission))
		data3d := otf3d.mk(keyData)
		data3d.set(keyBands, intNode(models.NumBands))
		data3d.set(keySamplesAxial, intNode(a.SamplesAxial))
		data3d.set(keySamplesLateral, intNode(a.SamplesLateral))
		data3d.set(keyCyclesLateral, floatNode(a.CyclesLateral))
		data3d.set(keyCyclesAxial, floatNode(a.CyclesAxial))
		for b := 0; b < models.NumBands; b++ {
			data3d.set(bandKey(b), blobNode(a.FullBytes(models.Band(b))))
		}
	}

	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root.node}}
}

// Write serializes a to w
func Write(w io.Writer, a *Artifact) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a.Tree()); err != nil {
		return errors.Wrap(err, "encoding OTF artifact")
	}
	return enc.Close()
}

// WriteFile serializes a to the file at path, creating parent directories
func WriteFile(path string, a *Artifact, log logger.Logger) error {
	log = logger.OrNull(log)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &otf.IoError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &otf.IoError{Op: "create", Path: path, Err: err}
	}

	if err := Write(f, a); err != nil {
		f.Close()
		return &otf.IoError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &otf.IoError{Op: "close", Path: path, Err: err}
	}

	log.Infof("wrote OTF projection (%d lateral samples, 3d: %v) to %s", a.SamplesLateral, a.Has3D(), path)
	return nil
}
