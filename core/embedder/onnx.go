package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultModelRepo is the multilingual sentence transformer used for
// Portuguese legislation text.
const DefaultModelRepo = "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"

// ONNXEmbedder runs a local sentence-transformer model through hugot.
// Until Load succeeds it transparently delegates to a LocalEmbedder, so
// callers never block on model availability.
type ONNXEmbedder struct {
	modelRepo      string
	cacheDir       string
	modelPath      string
	ortLibraryPath string
	fallback       *LocalEmbedder
	logger         *slog.Logger

	mu       sync.RWMutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	loaded   bool
}

// ONNXConfig configures the model source and runtime.
type ONNXConfig struct {
	ModelRepo      string
	CacheDir       string
	OrtLibraryPath string
	Logger         *slog.Logger
}

// NewONNXEmbedder prepares an embedder without loading the model. Call Load
// to download and initialize it; Embed works immediately via the fallback.
func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	if cfg.ModelRepo == "" {
		cfg.ModelRepo = DefaultModelRepo
	}
	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".copiloto", "models")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create model cache dir: %w", err)
	}

	return &ONNXEmbedder{
		modelRepo:      cfg.ModelRepo,
		cacheDir:       cfg.CacheDir,
		modelPath:      filepath.Join(cfg.CacheDir, filepath.Base(cfg.ModelRepo)),
		ortLibraryPath: cfg.OrtLibraryPath,
		fallback:       NewLocalEmbedder(),
		logger:         cfg.Logger,
	}, nil
}

func (o *ONNXEmbedder) Dimension() int {
	return DefaultDimension
}

func (o *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if !o.IsReady() {
		return o.fallback.Embed(ctx, text)
	}
	vectors, err := o.run([]string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vectors[0], nil
}

func (o *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if !o.IsReady() {
		return o.fallback.EmbedBatch(ctx, texts)
	}
	return o.run(texts)
}

// IsReady reports whether the ONNX model is serving embeddings.
func (o *ONNXEmbedder) IsReady() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loaded
}

func (o *ONNXEmbedder) run(texts []string) ([][]float32, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.pipeline == nil {
		return nil, fmt.Errorf("pipeline not initialized")
	}
	output, err := o.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return output.Embeddings, nil
}

// Load downloads the model if absent and initializes the ONNX runtime.
// Idempotent.
func (o *ONNXEmbedder) Load(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.loaded {
		return nil
	}

	if _, err := os.Stat(o.modelPath); os.IsNotExist(err) {
		o.logger.Info("downloading embedding model", "repo", o.modelRepo, "cache", o.cacheDir)
		path, err := hugot.DownloadModel(o.modelRepo, o.cacheDir, hugot.NewDownloadOptions())
		if err != nil {
			return fmt.Errorf("download model: %w", err)
		}
		o.modelPath = path
	}

	sessionOpts := []options.WithOption{
		options.WithIntraOpNumThreads(runtime.NumCPU()),
	}
	if o.ortLibraryPath != "" {
		sessionOpts = append(sessionOpts, options.WithOnnxLibraryPath(o.ortLibraryPath))
	}

	session, err := hugot.NewORTSession(sessionOpts...)
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: o.modelPath,
		Name:      "legislation-embedder",
	})
	if err != nil {
		session.Destroy()
		return fmt.Errorf("create extraction pipeline: %w", err)
	}

	o.session = session
	o.pipeline = pipeline
	o.loaded = true
	o.logger.Info("embedding model loaded", "path", o.modelPath)
	return nil
}

// Close releases the ONNX session. Embed falls back to the local embedder
// afterwards.
func (o *ONNXEmbedder) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session != nil {
		o.session.Destroy()
		o.session = nil
	}
	o.pipeline = nil
	o.loaded = false
	return nil
}
