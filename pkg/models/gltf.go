package models

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/asciithree/pkg/math3d"
)

// ErrNoGeometry is returned for glTF documents with no triangle primitives.
var ErrNoGeometry = errors.New("models: no triangle geometry")

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into one
// mesh. glTF front faces are counter-clockwise, matching Mesh, so winding
// is kept as is.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return meshFromDocument(doc, filepath.Base(path))
}

// DecodeGLTF reads a glTF or GLB document from r. External buffers are not
// resolved.
func DecodeGLTF(r io.Reader, name string) (*Mesh, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return meshFromDocument(doc, name)
}

// ParseGLTF decodes an in-memory glTF or GLB document.
func ParseGLTF(data []byte, name string) (*Mesh, error) {
	return DecodeGLTF(bytes.NewReader(data), name)
}

func meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := appendMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// appendMesh adds the triangle primitives of m to mesh.
func appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			mesh.AddVertex(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		if prim.Indices == nil {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(base+i, base+i+1, base+i+2)
			}
			continue
		}

		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.AddFace(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]))
		}
	}
	return nil
}
