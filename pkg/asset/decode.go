package asset

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoScene is returned for documents without any scene to display
var ErrNoScene = errors.New("asset: document has no scene")

var defaultColor = mgl32.Vec3{1, 1, 1}

// Decode flattens the document's default scene into a Model.
// Node transforms are baked into the vertices, strips and fans are unrolled
// into triangle lists, and each vertex color is its COLOR_0 value times the
// material's base color. Point and line primitives are skipped with a warning.
func Decode(doc *gltf.Document, logger *slog.Logger) (*Model, error) {
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	if logger == nil {
		logger = slog.Default()
	}

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}
	if sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("asset: scene index %d out of range", sceneIdx)
	}
	root := doc.Scenes[sceneIdx]

	d := decoder{
		doc:      doc,
		logger:   logger,
		visited:  make(map[int]bool),
		textured: make(map[int]bool),
		model:    &Model{Name: root.Name},
	}
	for _, node := range root.Nodes {
		if err := d.walk(int(node), mgl32.Ident4()); err != nil {
			return nil, err
		}
	}

	return d.model, nil
}

type decoder struct {
	doc      *gltf.Document
	logger   *slog.Logger
	visited  map[int]bool
	textured map[int]bool
	model    *Model
}

func (d *decoder) walk(idx int, parent mgl32.Mat4) error {
	if idx >= len(d.doc.Nodes) {
		return fmt.Errorf("asset: node index %d out of range", idx)
	}
	if d.visited[idx] {
		return fmt.Errorf("asset: node %d appears twice in the hierarchy", idx)
	}
	d.visited[idx] = true

	node := d.doc.Nodes[idx]
	world := parent.Mul4(nodeMatrix(node))

	if node.Mesh != nil {
		meshIdx := int(*node.Mesh)
		if meshIdx >= len(d.doc.Meshes) {
			return fmt.Errorf("asset: node %d: mesh index %d out of range", idx, meshIdx)
		}
		gm := d.doc.Meshes[meshIdx]
		for i, prim := range gm.Primitives {
			mesh, err := d.primitive(prim, world)
			if err != nil {
				return fmt.Errorf("asset: mesh %q primitive %d: %w", gm.Name, i, err)
			}
			if mesh == nil {
				d.logger.Warn("skipping primitive", "mesh", gm.Name, "primitive", i, "mode", prim.Mode.String())
				continue
			}
			mesh.Name = gm.Name
			d.model.Meshes = append(d.model.Meshes, mesh)
		}
	}

	for _, child := range node.Children {
		if err := d.walk(int(child), world); err != nil {
			return err
		}
	}
	return nil
}

// primitive returns nil for primitives that are not drawn as triangles or have no positions
func (d *decoder) primitive(prim *gltf.Primitive, world mgl32.Mat4) (*Mesh, error) {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := d.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(d.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := d.accessor(normIdx)
		if err != nil {
			return nil, err
		}
		normals, err = modeler.ReadNormal(d.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}

	var colors [][4]uint8
	if colorIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		acr, err := d.accessor(colorIdx)
		if err != nil {
			return nil, err
		}
		colors, err = modeler.ReadColor(d.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading colors: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := d.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(d.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", i, len(positions))
		}
	}
	indices = triangulate(prim.Mode, indices)

	base := d.baseColor(prim)
	normalMatrix := world.Mat3().Inv().Transpose()

	// A degenerate transform collapses the provided normals, so they get recomputed
	smooth := len(normals) != len(positions)

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = Vertex{
			Position: world.Mul4x1(mgl32.Vec3(p).Vec4(1)).Vec3(),
			Color:    base,
		}
		if len(colors) == len(positions) {
			c := colors[i]
			vertices[i].Color = mgl32.Vec3{
				base[0] * float32(c[0]) / 255,
				base[1] * float32(c[1]) / 255,
				base[2] * float32(c[2]) / 255,
			}
		}
		if !smooth {
			n := normalMatrix.Mul3x1(mgl32.Vec3(normals[i]))
			if n.Len() == 0 {
				smooth = true
				continue
			}
			vertices[i].Normal = n.Normalize()
		}
	}
	if smooth {
		computeNormals(vertices, indices)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
	}, nil
}

// triangulate turns strip and fan indices into a triangle list
func triangulate(mode gltf.PrimitiveMode, indices []uint32) []uint32 {
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		if len(indices) < 3 {
			return nil
		}
		out := make([]uint32, 0, 3*(len(indices)-2))
		for i := 0; i+2 < len(indices); i++ {
			// Every other triangle is flipped to keep a consistent winding
			if i%2 == 0 {
				out = append(out, indices[i], indices[i+1], indices[i+2])
			} else {
				out = append(out, indices[i+1], indices[i], indices[i+2])
			}
		}
		return out
	case gltf.PrimitiveTriangleFan:
		if len(indices) < 3 {
			return nil
		}
		out := make([]uint32, 0, 3*(len(indices)-2))
		for i := 1; i+1 < len(indices); i++ {
			out = append(out, indices[0], indices[i], indices[i+1])
		}
		return out
	default:
		return indices[:len(indices)-len(indices)%3]
	}
}

func (d *decoder) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(d.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return d.doc.Accessors[idx], nil
}

func (d *decoder) baseColor(prim *gltf.Primitive) mgl32.Vec3 {
	if prim.Material == nil || int(*prim.Material) >= len(d.doc.Materials) {
		return defaultColor
	}
	matIdx := int(*prim.Material)
	mat := d.doc.Materials[matIdx]
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return defaultColor
	}
	if pbr.BaseColorTexture != nil && !d.textured[matIdx] {
		d.textured[matIdx] = true
		d.logger.Warn("ignoring base color texture", "material", mat.Name, "texture", pbr.BaseColorTexture.Index)
	}
	c := pbr.BaseColorFactorOrDefault()
	return mgl32.Vec3{c[0], c[1], c[2]}
}

// nodeMatrix returns the node's local transform, from its matrix or from translation, rotation and scale
func nodeMatrix(node *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(node.MatrixOrDefault())
	if m != mgl32.Ident4() {
		return m
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	rotation := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}
