package scene

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-flyview/pkg/asset"
	"github.com/leterax/go-flyview/pkg/viewer"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestNewSceneLights(t *testing.T) {
	s := New()

	assert.Equal(t, float32(1.5), s.Ambient.Intensity)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, s.Ambient.Color)

	assert.Equal(t, float32(1.0), s.Directional.Intensity)
	assert.Equal(t, mgl32.Vec3{5, 10, 5}, s.Directional.Position)

	dir := s.Directional.Direction()
	assert.InDelta(t, 1, dir.Len(), 1e-5)
	assert.Negative(t, dir.Y(), "the light shines downward")

	assert.Nil(t, s.Model())
}

func TestDirectionAtOrigin(t *testing.T) {
	l := DirectionalLight{}
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
}

func TestAttachOnce(t *testing.T) {
	s := New()
	first := &asset.Model{Name: "first"}

	require.NoError(t, s.Attach(first))
	assert.ErrorIs(t, s.Attach(&asset.Model{Name: "second"}), ErrModelAttached)
	assert.Same(t, first, s.Model())
}

func TestAttachResultSuccess(t *testing.T) {
	s := New()
	logger, buf := newTestLogger()
	model := &asset.Model{Meshes: []*asset.Mesh{{Indices: []uint32{0, 1, 2}}}}

	assert.True(t, s.AttachResult(asset.Result{Path: "tour_seul.glb", Model: model}, logger))
	assert.Same(t, model, s.Model())
	assert.Contains(t, buf.String(), "triangles=1")
}

func TestAttachResultFailure(t *testing.T) {
	s := New()
	logger, buf := newTestLogger()

	res := asset.Result{Path: "tour_seul.glb", Err: errors.New("boom")}
	assert.False(t, s.AttachResult(res, logger))

	assert.Nil(t, s.Model())
	assert.Equal(t, 1, strings.Count(buf.String(), "failed to load model"))
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestAttachResultWithoutModel(t *testing.T) {
	s := New()
	logger, buf := newTestLogger()

	assert.False(t, s.AttachResult(asset.Result{Path: "tour_seul.glb"}, logger))
	assert.Nil(t, s.Model())
	assert.Contains(t, buf.String(), "failed to load model")
}

func TestFailedLoadDoesNotStopFrames(t *testing.T) {
	s := New()
	logger, buf := newTestLogger()
	loader := asset.NewLoader(fstest.MapFS{}, logger)
	require.NoError(t, loader.Load(context.Background(), "tour_seul.glb"))

	state := viewer.NewState(800, 600)
	state.Move.Forward = true
	start := state.Camera.Position()

	// Drive frames the way the render loop does until well after the result arrived.
	deadline := time.Now().Add(5 * time.Second)
	delivered := false
	frames := 0
	for (!delivered || frames < 10) && time.Now().Before(deadline) {
		if res, ok := loader.Poll(); ok {
			delivered = true
			assert.False(t, s.AttachResult(res, logger))
		}
		viewer.Step(state)
		if delivered {
			frames++
		}
	}

	require.True(t, delivered)
	assert.Nil(t, s.Model())
	assert.Equal(t, 1, strings.Count(buf.String(), "failed to load model"))
	assert.Less(t, state.Camera.Position().Z(), start.Z()-0.9, "camera kept moving")
}
