package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/modelv/pkg/log"
)

var logger = log.New("models")

var (
	// ErrUnsupportedFormat is returned for file extensions Load cannot read.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrNoGeometry is returned when a file contains no triangles.
	ErrNoGeometry = errors.New("model contains no triangles")
)

// Load reads a model, choosing the loader from the file extension.
func Load(path string) (*Model, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		model *Model
		err   error
	)
	switch ext {
	case ".glb", ".gltf":
		model, err = LoadGLTF(path)
	case ".obj":
		model, err = LoadOBJ(path)
	default:
		return nil, fmt.Errorf("%w: %q (use .obj, .gltf or .glb)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if model.IsEmpty() {
		return nil, fmt.Errorf("load model %s: %w", path, ErrNoGeometry)
	}
	return model, nil
}
