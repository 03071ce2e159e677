package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/modelv/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	model, err := ReadOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("read obj %s: %w", path, err)
	}
	return model, nil
}

// objVertexKey identifies a unique position/uv/normal combination.
type objVertexKey struct {
	p, t, n int
}

// objReader accumulates the global attribute pools of an OBJ stream and
// the mesh currently being filled.
type objReader struct {
	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3

	model *Model
	mesh  *Mesh
	cache map[objVertexKey]int
}

// ReadOBJ parses OBJ data. Supported statements are v, vt, vn, f, o and g;
// polygons are fan-triangulated and negative (relative) indices are
// resolved. Other statements are ignored.
func ReadOBJ(r io.Reader, name string) (*Model, error) {
	or := &objReader{model: NewModel(name)}
	or.startMesh(name)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if err := or.statement(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	or.finishMesh()
	if len(or.model.Meshes) == 0 {
		return nil, ErrNoGeometry
	}
	or.model.CalculateBounds()
	logger.Infof("loaded %s: %d meshes, %d triangles", name, len(or.model.Meshes), or.model.TriangleCount())
	return or.model, nil
}

func (or *objReader) statement(fields []string) error {
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		or.positions = append(or.positions, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		or.uvs = append(or.uvs, math3d.V2(v[0], v[1]))
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		or.normals = append(or.normals, math3d.V3(v[0], v[1], v[2]))
	case "f":
		return or.face(fields[1:])
	case "o", "g":
		name := or.model.Name
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		or.finishMesh()
		or.startMesh(name)
	}
	return nil
}

func (or *objReader) startMesh(name string) {
	or.mesh = NewMesh(name)
	or.cache = make(map[objVertexKey]int)
}

func (or *objReader) finishMesh() {
	if or.mesh == nil || or.mesh.TriangleCount() == 0 {
		return
	}
	if !or.mesh.hasNormals() {
		or.mesh.CalculateSmoothNormals()
	}
	or.mesh.CalculateBounds()
	or.model.Meshes = append(or.model.Meshes, or.mesh)
}

func (or *objReader) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(refs))
	}

	idx := make([]int, len(refs))
	for i, ref := range refs {
		vi, err := or.vertex(ref)
		if err != nil {
			return fmt.Errorf("face vertex %q: %w", ref, err)
		}
		idx[i] = vi
	}

	for i := 1; i+1 < len(idx); i++ {
		or.mesh.Faces = append(or.mesh.Faces, Face{V: [3]int{idx[0], idx[i], idx[i+1]}})
	}
	return nil
}

// vertex resolves a "p", "p/t", "p//n" or "p/t/n" reference to an index in
// the current mesh, reusing earlier identical references.
func (or *objReader) vertex(ref string) (int, error) {
	parts := strings.Split(ref, "/")
	key := objVertexKey{p: -1, t: -1, n: -1}

	var err error
	if key.p, err = resolveIndex(parts[0], len(or.positions)); err != nil {
		return 0, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if key.t, err = resolveIndex(parts[1], len(or.uvs)); err != nil {
			return 0, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.n, err = resolveIndex(parts[2], len(or.normals)); err != nil {
			return 0, err
		}
	}

	if vi, ok := or.cache[key]; ok {
		return vi, nil
	}

	v := MeshVertex{Position: or.positions[key.p]}
	if key.t >= 0 {
		v.UV = or.uvs[key.t]
	}
	if key.n >= 0 {
		v.Normal = or.normals[key.n]
	}
	vi := len(or.mesh.Vertices)
	or.mesh.Vertices = append(or.mesh.Vertices, v)
	or.cache[key] = vi
	return vi, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based index into a pool of size n.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse index: %w", err)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0 is invalid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
