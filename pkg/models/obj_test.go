package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if m.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", m.VertexCount())
	}
	want := []Face{{V: [3]int{0, 1, 2}}, {V: [3]int{2, 3, 0}}}
	if len(m.Faces) != len(want) {
		t.Fatalf("faces = %v, want %v", m.Faces, want)
	}
	for i := range want {
		if m.Faces[i] != want[i] {
			t.Errorf("face %d = %v, want %v", i, m.Faces[i], want[i])
		}
	}
}

func TestParseOBJ(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantFaces int
		wantErr   error
	}{
		{"triangle", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", 1, nil},
		{"relative indices", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n", 1, nil},
		{"comments and blanks", "# hi\n\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1 2 3\n", 1, nil},
		{"pentagon", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nv 0 2 0\nf 1 2 3 4 5\n", 0, ErrInvalidFace},
		{"out of range", "v 0 0 0\nf 1 2 3\n", 0, ErrInvalidFace},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 0, ErrInvalidFace},
		{"bad token", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n", 0, ErrInvalidFace},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseOBJ(strings.NewReader(tc.src), tc.name)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if m.TriangleCount() != tc.wantFaces {
				t.Errorf("TriangleCount = %d, want %d", m.TriangleCount(), tc.wantFaces)
			}
		})
	}
}

func TestParseOBJBadVertex(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 1 2\n"), "bad")
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error = %v, want line 1 vertex error", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.Name != "quad.obj" {
		t.Errorf("Name = %q, want quad.obj", m.Name)
	}
	if m.Size().X != 1 || m.Size().Y != 1 {
		t.Errorf("Size = %v, want (1, 1, 0)", m.Size())
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
