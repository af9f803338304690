// Package config loads and hot-reloads the copiloto configuration file.
// Reads are lock-free: the manager swaps an immutable snapshot pointer on
// each reload.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/providers"
)

// Config is the full application configuration.
type Config struct {
	Router    RouterSection    `yaml:"router"`
	Retrieval RetrievalSection `yaml:"retrieval"`
	Knowledge KnowledgeSection `yaml:"knowledge"`
	Providers ProvidersSection `yaml:"providers"`
	Logging   LoggingSection   `yaml:"logging"`
}

// RouterSection tunes classification.
type RouterSection struct {
	DefaultCategory string                          `yaml:"default_category"`
	CacheSize       int                             `yaml:"cache_size"`
	Keywords        map[string][]domain.KeywordRule `yaml:"keywords"`
}

// RetrievalSection tunes the RAG pipeline.
type RetrievalSection struct {
	ScoreThreshold      float64       `yaml:"score_threshold"`
	ContextBudget       int           `yaml:"context_budget"`
	DefaultTopK         int           `yaml:"default_top_k"`
	CollaboratorTimeout time.Duration `yaml:"collaborator_timeout"`
	CacheTTL            time.Duration `yaml:"cache_ttl"`
}

// KnowledgeSection locates the knowledge base backends.
type KnowledgeSection struct {
	CatalogPath    string `yaml:"catalog_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
	ModelCacheDir  string `yaml:"model_cache_dir"`
	ModelRepo      string `yaml:"model_repo"`
}

// ProvidersSection holds per-vendor LLM configuration.
type ProvidersSection struct {
	Default   string                    `yaml:"default"`
	Anthropic providers.AnthropicConfig `yaml:"anthropic"`
	OpenAI    providers.OpenAIConfig    `yaml:"openai"`
	Google    providers.GoogleConfig    `yaml:"google"`
}

// LoggingSection tunes slog output.
type LoggingSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Router: RouterSection{
			DefaultCategory: domain.CategoryFiscal.String(),
			CacheSize:       2048,
		},
		Retrieval: RetrievalSection{
			ScoreThreshold:      0.35,
			ContextBudget:       4000,
			DefaultTopK:         5,
			CollaboratorTimeout: 10 * time.Second,
			CacheTTL:            60 * time.Second,
		},
		Knowledge: KnowledgeSection{
			CatalogPath: "copiloto.db",
		},
		Providers: ProvidersSection{
			Default:   string(providers.ProviderTypeAnthropic),
			Anthropic: providers.DefaultAnthropicConfig(),
			OpenAI:    providers.DefaultOpenAIConfig(),
			Google:    providers.DefaultGoogleConfig(),
		},
		Logging: LoggingSection{
			Level:  "info",
			Format: "text",
		},
	}
}

// RouterConfig converts the loaded sections into the domain router
// configuration, falling back to the built-in keyword table when the file
// defines none.
func (c *Config) RouterConfig() (*domain.RouterConfig, error) {
	cfg := domain.DefaultRouterConfig()

	if c.Router.DefaultCategory != "" {
		category, ok := domain.ParseCategory(c.Router.DefaultCategory)
		if !ok {
			return nil, coreerrors.InvalidCategory(c.Router.DefaultCategory)
		}
		cfg.DefaultCategory = category
	}
	if c.Router.CacheSize > 0 {
		cfg.ClassifyCacheSize = c.Router.CacheSize
	}
	if len(c.Router.Keywords) > 0 {
		keywords := make(map[domain.Category][]domain.KeywordRule, len(c.Router.Keywords))
		for name, rules := range c.Router.Keywords {
			category, ok := domain.ParseCategory(name)
			if !ok {
				return nil, coreerrors.InvalidCategory(name)
			}
			keywords[category] = rules
		}
		cfg.Keywords = keywords
	}

	if c.Retrieval.ScoreThreshold > 0 {
		cfg.ScoreThreshold = c.Retrieval.ScoreThreshold
	}
	if c.Retrieval.ContextBudget > 0 {
		cfg.ContextBudget = c.Retrieval.ContextBudget
	}
	if c.Retrieval.DefaultTopK > 0 {
		cfg.DefaultTopK = c.Retrieval.DefaultTopK
	}
	if c.Retrieval.CollaboratorTimeout > 0 {
		cfg.CollaboratorTimeout = c.Retrieval.CollaboratorTimeout
	}
	if c.Retrieval.CacheTTL > 0 {
		cfg.RetrievalCacheTTL = c.Retrieval.CacheTTL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Manager owns the configuration lifecycle. Get is safe for concurrent use
// and never blocks on a reload in progress.
type Manager struct {
	path      string
	snapshot  atomic.Pointer[Config]
	watcherMu sync.RWMutex
	watchers  []func(*Config)
}

// NewManager creates a manager seeded with the defaults. path may be empty,
// in which case Load only applies environment overrides.
func NewManager(path string) *Manager {
	m := &Manager{path: path}
	m.snapshot.Store(Default())
	return m
}

// Get returns the current immutable snapshot.
func (m *Manager) Get() *Config {
	return m.snapshot.Load()
}

// Load reads the file (when configured), applies environment overrides and
// swaps the snapshot. Registered change callbacks run synchronously.
func (m *Manager) Load() error {
	cfg := Default()

	if m.path != "" {
		data, err := os.ReadFile(m.path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return coreerrors.Wrap(coreerrors.KindConfiguration, "parse config", err)
			}
		}
	}

	applyEnvironment(cfg)

	if _, err := cfg.RouterConfig(); err != nil {
		return err
	}

	m.snapshot.Store(cfg)
	m.notify(cfg)
	return nil
}

// Reload is Load under a name that reads better at call sites.
func (m *Manager) Reload() error {
	return m.Load()
}

// OnChange registers a callback invoked after every successful load.
func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	m.watchers = append(m.watchers, fn)
	m.watcherMu.Unlock()
}

func (m *Manager) notify(cfg *Config) {
	m.watcherMu.RLock()
	watchers := m.watchers
	m.watcherMu.RUnlock()

	for _, fn := range watchers {
		fn(cfg)
	}
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("COPILOTO_DEFAULT_CATEGORY"); v != "" {
		cfg.Router.DefaultCategory = v
	}
	if v := os.Getenv("COPILOTO_SCORE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Retrieval.ScoreThreshold = f
		}
	}
	if v := os.Getenv("COPILOTO_CONTEXT_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retrieval.ContextBudget = n
		}
	}
	if v := os.Getenv("COPILOTO_DEFAULT_PROVIDER"); v != "" {
		cfg.Providers.Default = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.Providers.Anthropic.APIKey == "" {
		cfg.Providers.Anthropic.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Providers.OpenAI.APIKey == "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.Providers.Google.APIKey == "" {
		cfg.Providers.Google.APIKey = v
	}
	if v := os.Getenv("COPILOTO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
