package models

import (
	"math"

	"github.com/taigrr/asciithree/pkg/math3d"
)

// Cube returns the cube spanning [-1, 1] on every axis.
func Cube() *Mesh {
	vertices := []math3d.Vec3{
		{X: -1, Y: -1, Z: -1},
		{X: -1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: 1},
	}
	triangles := [][3]int{
		{0, 1, 3}, {0, 3, 2}, // -X
		{0, 4, 5}, {0, 5, 1}, // -Y
		{0, 2, 6}, {0, 6, 4}, // -Z
		{1, 5, 7}, {1, 7, 3}, // +Z
		{3, 7, 6}, {3, 6, 2}, // +Y
		{4, 6, 7}, {4, 7, 5}, // +X
	}
	return mustMesh("cube", vertices, triangles)
}

// Tetrahedron returns a tetrahedron with its apex at (0, 1, 0) over an
// equilateral base at y = -1/3. Base edges are √3 long and the apex
// edges slightly shorter, so it is not regular.
func Tetrahedron() *Mesh {
	h := math.Sqrt(3) / 2
	vertices := []math3d.Vec3{
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: -1.0 / 3, Z: 0},
		{X: -0.5, Y: -1.0 / 3, Z: -h},
		{X: -0.5, Y: -1.0 / 3, Z: h},
	}
	triangles := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 1},
		{1, 3, 2},
	}
	return mustMesh("tetrahedron", vertices, triangles)
}

// Primitive returns a built-in mesh by name, or nil.
func Primitive(name string) *Mesh {
	switch name {
	case "cube":
		return Cube()
	case "tetrahedron":
		return Tetrahedron()
	}
	return nil
}

func mustMesh(name string, vertices []math3d.Vec3, triangles [][3]int) *Mesh {
	m, err := NewMeshFrom(name, vertices, triangles)
	if err != nil {
		panic(err)
	}
	return m
}
