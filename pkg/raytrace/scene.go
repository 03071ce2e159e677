package raytrace

import (
	"sync"

	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/kdtree"
	"github.com/taigrr/modelv/pkg/math3d"
	"github.com/taigrr/modelv/pkg/models"
	"github.com/taigrr/modelv/pkg/render"
)

// SceneMesh is one mesh flattened into model-space triangles with its index.
type SceneMesh struct {
	Name      string
	Bounds    geom.AABB
	Triangles []geom.Triangle
	Tree      *kdtree.Tree
}

// Scene is a model prepared for tracing. It is built once per model load and
// is read-only afterwards, so any number of raytrace calls may share it.
type Scene struct {
	Name   string
	Bounds geom.AABB
	Meshes []SceneMesh

	opts     kdtree.Options
	tree     *kdtree.Tree
	treeOnce sync.Once
}

// Prepare flattens every mesh of model and builds one KD-tree per mesh. A
// nil model yields an empty scene.
func Prepare(model *models.Model, opts kdtree.Options) *Scene {
	s := &Scene{opts: opts}
	if model == nil {
		return s
	}

	s.Name = model.Name
	s.Bounds = model.Bounds
	for _, mesh := range model.Meshes {
		if mesh.TriangleCount() == 0 {
			continue
		}
		tris := mesh.Triangles(math3d.Identity())
		s.Meshes = append(s.Meshes, SceneMesh{
			Name:      mesh.Name,
			Bounds:    mesh.Bounds,
			Triangles: tris,
			Tree:      kdtree.BuildWithOptions(tris, math3d.AxisX, opts),
		})
	}

	logger.Debugf("prepared %q: %d meshes, %d triangles", s.Name, len(s.Meshes), s.TriangleCount())
	return s
}

// Tree returns a KD-tree over every triangle of the model. Tracing never
// needs it, so it is built on first use and shared afterwards.
func (s *Scene) Tree() *kdtree.Tree {
	s.treeOnce.Do(func() {
		tris := make([]geom.Triangle, 0, s.TriangleCount())
		for _, m := range s.Meshes {
			tris = append(tris, m.Triangles...)
		}
		s.tree = kdtree.BuildWithOptions(tris, math3d.AxisX, s.opts)
		logger.Debugf("indexed %q: depth %d, %d leafs", s.Name, s.tree.Depth(), s.tree.CountLeafs())
	})
	return s.tree
}

// Empty reports whether the scene has nothing to trace.
func (s *Scene) Empty() bool {
	return s == nil || len(s.Meshes) == 0
}

// TriangleCount returns the number of triangles over all meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += len(m.Triangles)
	}
	return n
}

// VisibleMeshes counts the meshes whose transformed bounds intersect the
// frustum f.
func (s *Scene) VisibleMeshes(transform math3d.Mat4, f render.Frustum) int {
	n := 0
	for _, m := range s.Meshes {
		if f.IntersectAABB(m.Bounds.Transform(transform)) {
			n++
		}
	}
	return n
}
