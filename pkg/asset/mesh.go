// Package asset loads a binary glTF model into CPU-side meshes ready to be
// uploaded to the GPU.
package asset

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the size of one interleaved vertex: position, normal, color
const FloatsPerVertex = 9

// Vertex is a single model vertex in world space
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
}

// Mesh is a triangle list with node transforms already applied
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Interleaved returns the vertices as x, y, z, nx, ny, nz, r, g, b
func (m *Mesh) Interleaved() []float32 {
	data := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		data = append(data, v.Position[:]...)
		data = append(data, v.Normal[:]...)
		data = append(data, v.Color[:]...)
	}
	return data
}

// Model is a loaded glTF scene flattened into meshes
type Model struct {
	Name   string
	Meshes []*Mesh
}

// TriangleCount returns the number of triangles over all meshes
func (m *Model) TriangleCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Indices) / 3
	}
	return n
}

// Bounds returns the axis-aligned box around every vertex.
// ok is false for a model without vertices.
func (m *Model) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	for _, mesh := range m.Meshes {
		for _, v := range mesh.Vertices {
			if !ok {
				lo, hi, ok = v.Position, v.Position, true
				continue
			}
			for i := 0; i < 3; i++ {
				lo[i] = min(lo[i], v.Position[i])
				hi[i] = max(hi[i], v.Position[i])
			}
		}
	}
	return lo, hi, ok
}

// computeNormals fills in smooth vertex normals by averaging the faces around each vertex
func computeNormals(vertices []Vertex, indices []uint32) {
	for i := range vertices {
		vertices[i].Normal = mgl32.Vec3{}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		e1 := vertices[b].Position.Sub(vertices[a].Position)
		e2 := vertices[c].Position.Sub(vertices[a].Position)
		n := e1.Cross(e2)
		vertices[a].Normal = vertices[a].Normal.Add(n)
		vertices[b].Normal = vertices[b].Normal.Add(n)
		vertices[c].Normal = vertices[c].Normal.Add(n)
	}
	for i := range vertices {
		if vertices[i].Normal.Len() > 0 {
			vertices[i].Normal = vertices[i].Normal.Normalize()
		} else {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}
