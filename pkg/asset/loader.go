package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"github.com/qmuntal/gltf"
)

// ErrAlreadyStarted is returned when Load is called more than once on a Loader
var ErrAlreadyStarted = errors.New("asset: load already started")

// Result is the outcome of a model load
type Result struct {
	Path  string
	Model *Model
	Err   error
}

// Loader reads a single model in the background.
// The render loop polls for the result so that the scene is only ever
// touched from the thread that owns the GL context.
type Loader struct {
	fsys    fs.FS
	logger  *slog.Logger
	started atomic.Bool
	results chan Result

	// OnProgress is called from the loading goroutine after each read.
	// When nil, progress is logged.
	OnProgress func(Progress)
}

// NewLoader creates a loader reading model files from fsys
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fsys:    fsys,
		logger:  logger,
		results: make(chan Result, 1),
	}
}

// Load starts loading the model at path. It returns immediately; the outcome
// is delivered exactly once through Poll or Wait. Cancelling ctx abandons the load.
func (l *Loader) Load(ctx context.Context, path string) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	l.logger.Info("loading model", "path", path)
	go func() {
		model, err := l.read(ctx, path)
		l.results <- Result{Path: path, Model: model, Err: err}
	}()
	return nil
}

// Poll returns the load result if it is ready, without blocking
func (l *Loader) Poll() (Result, bool) {
	select {
	case res := <-l.results:
		return res, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the load result is ready or ctx is done
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-l.results:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (l *Loader) read(ctx context.Context, path string) (*Model, error) {
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	report := l.OnProgress
	if report == nil {
		report = l.logProgress(path)
	}
	r := &progressReader{
		r:        &contextReader{ctx: ctx, r: f},
		progress: Progress{Total: total},
		report:   report,
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(r, l.fsys).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	model, err := Decode(doc, l.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build model from %s: %w", path, err)
	}
	if model.Name == "" {
		model.Name = path
	}
	return model, nil
}

func (l *Loader) logProgress(path string) func(Progress) {
	return func(p Progress) {
		level := slog.LevelDebug
		if p.Total > 0 && p.Loaded >= p.Total {
			level = slog.LevelInfo
		}
		l.logger.Log(context.Background(), level, "model load progress", "path", path, "progress", p.Percent())
	}
}

// contextReader stops reading once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
