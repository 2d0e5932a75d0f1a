// Package scene holds what gets drawn each frame: the lights and, once it
// has finished loading, the model.
package scene

import (
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-flyview/pkg/asset"
)

// ErrModelAttached is returned when a second model is attached to a scene
var ErrModelAttached = errors.New("scene: model already attached")

// Light defaults
const (
	AmbientIntensity     = 1.5
	DirectionalIntensity = 1.0
)

// DefaultLightPosition places the directional light above and to the side of the origin
var DefaultLightPosition = mgl32.Vec3{5, 10, 5}

// AmbientLight lights every surface uniformly, regardless of orientation
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// DirectionalLight is a light infinitely far away, like the sun.
// It shines from Position toward the origin; only the direction matters.
type DirectionalLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
}

// Direction returns the normalized direction the light travels in
func (l DirectionalLight) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return l.Position.Mul(-1).Normalize()
}

// Scene is the root of everything rendered
type Scene struct {
	Background  mgl32.Vec4
	Ambient     AmbientLight
	Directional DirectionalLight

	model *asset.Model
}

// New creates a scene with one white ambient light and one white directional light
func New() *Scene {
	white := mgl32.Vec3{1, 1, 1}
	return &Scene{
		Background: mgl32.Vec4{0, 0, 0, 1},
		Ambient: AmbientLight{
			Color:     white,
			Intensity: AmbientIntensity,
		},
		Directional: DirectionalLight{
			Color:     white,
			Intensity: DirectionalIntensity,
			Position:  DefaultLightPosition,
		},
	}
}

// Attach adds the model to the scene. It can only succeed once.
func (s *Scene) Attach(model *asset.Model) error {
	if s.model != nil {
		return ErrModelAttached
	}
	s.model = model
	return nil
}

// Model returns the attached model, or nil while none is attached
func (s *Scene) Model() *asset.Model {
	return s.model
}

// AttachResult applies the outcome of a model load: on success the model is
// attached, on failure the error is logged and the scene stays empty.
// It reports whether a model was attached.
func (s *Scene) AttachResult(res asset.Result, logger *slog.Logger) bool {
	err := res.Err
	if err == nil && res.Model == nil {
		err = errors.New("loader returned no model")
	}
	if err != nil {
		logger.Error("failed to load model", "path", res.Path, "err", err)
		return false
	}

	if err := s.Attach(res.Model); err != nil {
		logger.Warn("ignoring model", "path", res.Path, "err", err)
		return false
	}

	logger.Info("model attached",
		"path", res.Path,
		"meshes", len(res.Model.Meshes),
		"triangles", res.Model.TriangleCount(),
	)
	return true
}
