// ABOUTME: Runtime wiring shared by the CLI, the MCP server, and the benchmark binary
// ABOUTME: Opens storage and the embedding cache, and builds model clients lazily
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harper/course-recommender/internal/cache"
	"github.com/harper/course-recommender/internal/charm"
	"github.com/harper/course-recommender/internal/config"
	"github.com/harper/course-recommender/internal/corpus"
	"github.com/harper/course-recommender/internal/embedding"
	"github.com/harper/course-recommender/internal/llm"
	"github.com/harper/course-recommender/internal/recommend"
	"github.com/harper/course-recommender/internal/storage/sqlite"
)

// Embedding backends
const (
	BackendOpenAI = "openai"
	BackendONNX   = "onnx"
	BackendTFIDF  = "tfidf"
)

var (
	// ErrUnknownBackend is returned for backend names other than openai, onnx and tfidf
	ErrUnknownBackend = errors.New("unknown embedding backend")
	// ErrNoEmbedder is returned when no configured backend produces a stored model
	ErrNoEmbedder = errors.New("no configured embedder for model")
)

// App holds the long-lived dependencies of one process
type App struct {
	Config *config.Config
	Store  *sqlite.Storage
	Cache  cache.Cache
	Logger *log.Logger

	StartedAt time.Time

	mu    sync.Mutex
	llm   *llm.OpenAIClient
	onnx  *embedding.ONNXEncoder
	tfidf *embedding.TFIDFEncoder
	charm *charm.Client
}

// Load reads .env and the config file, then builds an App
func Load(ctx context.Context, logger *log.Logger) (*App, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return New(ctx, cfg, logger)
}

// New opens storage and the embedding cache described by cfg
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store, err := sqlite.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage failed: %w", err)
	}

	c, err := cache.New(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open cache failed: %w", err)
	}

	logger.Debug("app ready", "db", cfg.DBPath, "cache", cfg.CacheBackend)

	return &App{
		Config:    cfg,
		Store:     store,
		Cache:     c,
		Logger:    logger,
		StartedAt: time.Now(),
	}, nil
}

// LLM returns the OpenAI client, creating it on first use
func (a *App) LLM() (*llm.OpenAIClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.llm != nil {
		return a.llm, nil
	}
	client, err := llm.NewOpenAIClient(llm.ConfigFrom(a.Config))
	if err != nil {
		return nil, err
	}
	a.llm = client
	return client, nil
}

func (a *App) onnxEncoder() *embedding.ONNXEncoder {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.onnx == nil {
		a.onnx = embedding.NewONNXEncoder(embedding.ONNXConfig{
			LibraryPath:   a.Config.ONNXLibraryPath,
			ModelPath:     a.Config.ONNXModelPath,
			TokenizerPath: a.Config.ONNXTokenizerPath,
			ModelID:       a.Config.ONNXModelID,
			MaxSeqLen:     a.Config.ONNXMaxSeqLen,
			HiddenSize:    a.Config.ONNXHiddenSize,
		})
	}
	return a.onnx
}

// tfidfEncoder fits the TF-IDF baseline on the stored catalog once per App
func (a *App) tfidfEncoder() (*embedding.TFIDFEncoder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tfidf != nil {
		return a.tfidf, nil
	}
	courses, err := a.Store.ListCourses()
	if err != nil {
		return nil, err
	}
	docs := make([]string, len(courses))
	for i, c := range courses {
		docs[i] = c.EmbeddingText()
	}
	enc, err := embedding.FitTFIDF(docs)
	if err != nil {
		return nil, fmt.Errorf("fitting tf-idf: %w", err)
	}
	a.Logger.Debug("tf-idf fitted", "courses", len(docs), "terms", enc.Dimension())
	a.tfidf = enc
	return enc, nil
}

// Embedder returns the embedder for a backend name. Model-backed embedders are
// wrapped with the embedding cache; TF-IDF vectors depend on the catalog and
// are never cached.
func (a *App) Embedder(backend string) (embedding.Embedder, error) {
	var inner embedding.Embedder
	switch backend {
	case BackendOpenAI, "":
		client, err := a.LLM()
		if err != nil {
			return nil, err
		}
		inner = client
	case BackendONNX:
		if a.Config.ONNXModelPath == "" {
			return nil, errors.New("onnx backend needs COURSEREC_ONNX_MODEL")
		}
		inner = a.onnxEncoder()
	case BackendTFIDF:
		enc, err := a.tfidfEncoder()
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	return embedding.NewCachedEmbedder(inner, a.Cache, a.Config.CacheTTL, a.Logger), nil
}

// EmbedderForModel picks the backend whose model id matches a stored model
func (a *App) EmbedderForModel(model string) (embedding.Embedder, error) {
	switch {
	case model == embedding.TFIDFModelID:
		return a.Embedder(BackendTFIDF)
	case model == a.Config.EmbeddingModel:
		return a.Embedder(BackendOpenAI)
	case model == a.Config.ONNXModelID && a.Config.ONNXModelPath != "":
		return a.Embedder(BackendONNX)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoEmbedder, model)
}

// Service loads the corpus of the backend's model and builds a recommendation
// service over it. useLLM enables query extraction and written answers.
func (a *App) Service(backend string, useLLM bool) (*recommend.Service, *corpus.Corpus, error) {
	e, err := a.Embedder(backend)
	if err != nil {
		return nil, nil, err
	}

	c, err := a.Store.LoadCorpus(e.ModelID())
	if err != nil {
		return nil, nil, fmt.Errorf("loading corpus for %s: %w", e.ModelID(), err)
	}

	opts := []recommend.Option{recommend.WithLogger(a.Logger)}
	if useLLM {
		client, err := a.LLM()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, recommend.WithExtractor(client), recommend.WithWriter(client))
	}

	svc, err := recommend.NewService(e, c, opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, c, nil
}

// Charm opens the charm KV client on first use
func (a *App) Charm() (*charm.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.charm != nil {
		return a.charm, nil
	}
	client, err := charm.NewClient(&charm.Config{
		Host:     a.Config.CharmHost,
		DBName:   a.Config.CharmDBName,
		AutoSync: true,
	})
	if err != nil {
		return nil, err
	}
	a.charm = client
	return client, nil
}

// Close releases everything the App opened
func (a *App) Close() error {
	var errs []error

	a.mu.Lock()
	if a.onnx != nil {
		errs = append(errs, a.onnx.Close())
	}
	if a.charm != nil {
		errs = append(errs, a.charm.Close())
	}
	a.mu.Unlock()

	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
