// Package artifact serializes trained models together with their metadata.
package artifact

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"housingd/internal/common/fsutil"
	"housingd/internal/forest"
	"housingd/pkg/types"
)

// Ext is the file extension of model artifacts.
const Ext = ".gob"

// ErrSchemaMismatch is returned when an artifact was trained on a feature
// layout other than types.FeatureNames.
var ErrSchemaMismatch = errors.New("artifact: feature schema mismatch")

// Artifact is a fitted model plus the metadata describing how it was built.
type Artifact struct {
	Meta  types.ModelInfo
	Model *forest.Regressor
}

// New wraps a fitted model, assigning a fresh id and creation time.
func New(m *forest.Regressor) *Artifact {
	meta := types.ModelInfo{
		ID:           uuid.NewString(),
		Algorithm:    forest.Algorithm,
		CreatedAt:    time.Now().Unix(),
		FeatureNames: append([]string(nil), types.FeatureNames...),
		Params:       m.Params(),
		TrainSamples: m.NSamples,
	}
	if imp, err := m.FeatureImportances(); err == nil && len(imp) == len(meta.FeatureNames) {
		meta.FeatureImportances = make(map[string]float64, len(imp))
		for i, v := range imp {
			meta.FeatureImportances[meta.FeatureNames[i]] = v
		}
	}
	if s, ok := m.OOBScore(); ok {
		meta.OOBScore = &s
	}
	return &Artifact{Meta: meta, Model: m}
}

// Write encodes a to w.
func Write(w io.Writer, a *Artifact) error {
	if a == nil || a.Model == nil {
		return errors.New("artifact: nothing to write")
	}
	if err := gob.NewEncoder(w).Encode(a); err != nil {
		return errors.Wrap(err, "artifact: encode")
	}
	return nil
}

// Read decodes an artifact from r and checks its feature schema.
func Read(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Wrap(err, "artifact: decode")
	}
	if a.Model == nil || !a.Model.Fitted {
		return nil, errors.New("artifact: model is missing or unfitted")
	}
	if !slices.Equal(a.Meta.FeatureNames, types.FeatureNames) || a.Model.NFeatures != types.NumFeatures {
		return nil, errors.Wrapf(ErrSchemaMismatch, "got %v", a.Meta.FeatureNames)
	}
	return &a, nil
}

// Save writes a to path atomically, creating parent directories.
func Save(path string, a *Artifact) error {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "artifact: mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return errors.Wrap(err, "artifact: create temp file")
	}
	defer os.Remove(tmp.Name())
	if err := Write(tmp, a); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "artifact: sync")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "artifact: close")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "artifact: chmod")
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return errors.Wrapf(err, "artifact: rename to %s", p)
	}
	return nil
}

// Load reads an artifact from path.
func Load(path string) (*Artifact, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "artifact: open %s", p)
	}
	defer f.Close()
	a, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "artifact: %s", p)
	}
	return a, nil
}
