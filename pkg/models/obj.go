package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/asciithree/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ reads vertex positions (v) and faces (f) from OBJ text. Face
// tokens may carry texture and normal indices ("1/2/3"); only the vertex
// index is used. Quads are split into two triangles. Every other record
// type is ignored.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	m := NewMesh(name)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			m.AddVertex(v)

		case "f":
			idx, err := parseFace(fields[1:], len(m.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			switch len(idx) {
			case 3:
				m.AddFace(idx[0], idx[1], idx[2])
			case 4:
				m.AddFace(idx[0], idx[1], idx[2])
				m.AddFace(idx[2], idx[3], idx[0])
			default:
				return nil, fmt.Errorf("line %d: %w: %d vertices", lineNo, ErrInvalidFace, len(idx))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	m.CalculateBounds()
	return m, nil
}

func parseVertex(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse vertex: %w", err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseFace resolves 1-based (or negative, relative) OBJ indices against
// the n vertices read so far.
func parseFace(fields []string, n int) ([]int, error) {
	idx := make([]int, len(fields))
	for i, tok := range fields {
		vert, _, _ := strings.Cut(tok, "/")
		k, err := strconv.Atoi(vert)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFace, tok)
		}
		switch {
		case k > 0:
			k--
		case k < 0:
			k += n
		default:
			return nil, fmt.Errorf("%w: index 0", ErrInvalidFace)
		}
		if k < 0 || k >= n {
			return nil, fmt.Errorf("%w: index %s out of range", ErrInvalidFace, vert)
		}
		idx[i] = k
	}
	return idx, nil
}
