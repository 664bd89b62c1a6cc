// Package models provides triangle meshes for asciithree: loaders for OBJ
// and glTF files and a few built-in primitives.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/asciithree/pkg/math3d"
)

var (
	// ErrInvalidFace is returned for faces that are not triangles or quads,
	// or that reference vertices the mesh does not have.
	ErrInvalidFace = errors.New("models: invalid face")

	// ErrInvalidVertex is returned for vertices with NaN or infinite
	// coordinates.
	ErrInvalidVertex = errors.New("models: invalid vertex")
)

// Mesh is an indexed triangle mesh in model space.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle of vertex indices. Counter-clockwise winding, seen
// from outside the mesh, faces outward.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// NewMeshFrom creates a mesh from vertices and triangles, validating every
// index.
func NewMeshFrom(name string, vertices []math3d.Vec3, triangles [][3]int) (*Mesh, error) {
	m := NewMesh(name)
	m.Vertices = append(m.Vertices, vertices...)
	for _, t := range triangles {
		m.Faces = append(m.Faces, Face{V: t})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.CalculateBounds()
	return m, nil
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v math3d.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends the triangle (a, b, c).
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
}

// Validate checks that every face references an existing vertex.
func (m *Mesh) Validate() error {
	for i, v := range m.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d is %v", ErrInvalidVertex, i, v)
		}
	}
	for i, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidFace, i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the model-space corners of face i.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i].V
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// Fit centers the mesh on the origin and scales it uniformly so that its
// largest dimension equals size. Meshes with no extent are only centered.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	center := m.Center()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)

	mat := math3d.Translate(center.Negate())
	if maxDim > 0 {
		mat = math3d.ScaleUniform(size / maxDim).Mul(mat)
	}
	m.Transform(mat)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}
