package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transvia/copiloto/core/domain"
	coreerrors "github.com/transvia/copiloto/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copiloto.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManagerDefaultsWithoutFile(t *testing.T) {
	m := NewManager("")
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "fiscal", cfg.Router.DefaultCategory)
	assert.Equal(t, 0.35, cfg.Retrieval.ScoreThreshold)

	rc, err := cfg.RouterConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryFiscal, rc.DefaultCategory)
	assert.NotEmpty(t, rc.Keywords)
}

func TestManagerLoadsYAML(t *testing.T) {
	path := writeConfig(t, `
router:
  default_category: tms
retrieval:
  score_threshold: 0.5
  context_budget: 2000
logging:
  level: debug
`)
	m := NewManager(path)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "tms", cfg.Router.DefaultCategory)
	assert.Equal(t, 0.5, cfg.Retrieval.ScoreThreshold)
	assert.Equal(t, 2000, cfg.Retrieval.ContextBudget)
	assert.Equal(t, "debug", cfg.Logging.Level)

	rc, err := cfg.RouterConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryTMS, rc.DefaultCategory)
	assert.Equal(t, 0.5, rc.ScoreThreshold)
}

func TestManagerRejectsUnknownCategory(t *testing.T) {
	path := writeConfig(t, `
router:
  default_category: juridico
`)
	m := NewManager(path)
	err := m.Load()
	require.Error(t, err)
	assert.Equal(t, coreerrors.KindInvalidCategory, coreerrors.KindOf(err))

	// The previous snapshot survives a failed load.
	assert.Equal(t, "fiscal", m.Get().Router.DefaultCategory)
}

func TestManagerRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "router: [not a map")
	m := NewManager(path)
	err := m.Load()
	require.Error(t, err)
	assert.Equal(t, coreerrors.KindConfiguration, coreerrors.KindOf(err))
}

func TestManagerCustomKeywords(t *testing.T) {
	path := writeConfig(t, `
router:
  keywords:
    fiscal:
      - term: icms
        weight: 3
    tms:
      - term: frete
        weight: 2
`)
	m := NewManager(path)
	require.NoError(t, m.Load())

	rc, err := m.Get().RouterConfig()
	require.NoError(t, err)
	require.Len(t, rc.Keywords, 2)
	assert.Equal(t, "icms", rc.Keywords[domain.CategoryFiscal][0].Term)
	assert.Equal(t, 3, rc.Keywords[domain.CategoryFiscal][0].Weight)
}

func TestManagerEnvironmentOverrides(t *testing.T) {
	t.Setenv("COPILOTO_DEFAULT_CATEGORY", "crm")
	t.Setenv("COPILOTO_SCORE_THRESHOLD", "0.6")
	t.Setenv("COPILOTO_LOG_LEVEL", "DEBUG")

	m := NewManager("")
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "crm", cfg.Router.DefaultCategory)
	assert.Equal(t, 0.6, cfg.Retrieval.ScoreThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestManagerOnChange(t *testing.T) {
	m := NewManager("")
	var seen []*Config
	m.OnChange(func(cfg *Config) { seen = append(seen, cfg) })

	require.NoError(t, m.Load())
	require.NoError(t, m.Reload())
	assert.Len(t, seen, 2)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "retrieval:\n  context_budget: 1000\n")
	m := NewManager(path)
	require.NoError(t, m.Load())
	require.Equal(t, 1000, m.Get().Retrieval.ContextBudget)

	w, err := NewWatcher(m, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("retrieval:\n  context_budget: 3000\n"), 0o644))

	require.Eventually(t, func() bool {
		return m.Get().Retrieval.ContextBudget == 3000
	}, 3*time.Second, 50*time.Millisecond)
}
