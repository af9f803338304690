package cmd

import (
	"context"
	"log/slog"

	"github.com/transvia/copiloto/core/config"
	"github.com/transvia/copiloto/core/embedder"
	coreerrors "github.com/transvia/copiloto/core/errors"
	"github.com/transvia/copiloto/core/knowledge"
	"github.com/transvia/copiloto/core/providers"
	"github.com/transvia/copiloto/core/retrieval"
	"github.com/transvia/copiloto/core/tools"
)

// knowledgeBase bundles the retrieval collaborators a command needs, with a
// single close for all of them.
type knowledgeBase struct {
	Retriever retrieval.Retriever
	Catalog   *knowledge.Catalog
	Keyword   knowledge.KeywordSearcher

	cache *retrieval.ResultCache
	bleve *knowledge.BleveIndex
}

func (k *knowledgeBase) Close() {
	if k.cache != nil {
		k.cache.Close()
	}
	if k.bleve != nil {
		k.bleve.Close()
	}
	if k.Catalog != nil {
		k.Catalog.Close()
	}
}

// buildEmbedder prepares the sentence embedder. The ONNX model loads lazily;
// until loadModel is requested the deterministic fallback serves embeddings.
func buildEmbedder(ctx context.Context, cfg *config.Config, logger *slog.Logger, loadModel bool) (embedder.Embedder, error) {
	onnx, err := embedder.NewONNXEmbedder(embedder.ONNXConfig{
		ModelRepo: cfg.Knowledge.ModelRepo,
		CacheDir:  cfg.Knowledge.ModelCacheDir,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if loadModel {
		if err := onnx.Load(ctx); err != nil {
			logger.Warn("model load failed, using fallback embedder", "error", err)
		}
	}
	return onnx, nil
}

// buildKnowledgeBase opens the catalog and keyword index, rebuilds the vector
// store from the catalog, and assembles the cached retrieval pipeline.
func buildKnowledgeBase(ctx context.Context, cfg *config.Config, logger *slog.Logger, loadModel bool) (*knowledgeBase, error) {
	embed, err := buildEmbedder(ctx, cfg, logger, loadModel)
	if err != nil {
		return nil, err
	}

	catalog, err := knowledge.OpenCatalog(cfg.Knowledge.CatalogPath, logger)
	if err != nil {
		return nil, err
	}

	index, err := knowledge.OpenBleveIndex(cfg.Knowledge.BleveIndexPath, logger)
	if err != nil {
		catalog.Close()
		return nil, err
	}

	store, err := populateVectorStore(ctx, catalog, embed, logger)
	if err != nil {
		index.Close()
		catalog.Close()
		return nil, err
	}

	pipeline, err := retrieval.New(embed, store, retrieval.Config{
		ScoreThreshold:      cfg.Retrieval.ScoreThreshold,
		ContextBudget:       cfg.Retrieval.ContextBudget,
		CollaboratorTimeout: cfg.Retrieval.CollaboratorTimeout,
		Logger:              logger,
	})
	if err != nil {
		index.Close()
		catalog.Close()
		return nil, err
	}

	cache, err := retrieval.NewResultCache(cfg.Retrieval.CacheTTL)
	if err != nil {
		index.Close()
		catalog.Close()
		return nil, err
	}

	return &knowledgeBase{
		Retriever: retrieval.WithCache(pipeline, cache),
		Catalog:   catalog,
		Keyword:   index,
		cache:     cache,
		bleve:     index,
	}, nil
}

// populateVectorStore embeds every catalog document into a fresh in-memory
// vector store.
func populateVectorStore(ctx context.Context, catalog *knowledge.Catalog, embed embedder.Embedder, logger *slog.Logger) (*knowledge.VectorStore, error) {
	store, err := knowledge.NewVectorStore(embed.Dimension(), logger)
	if err != nil {
		return nil, err
	}

	docs, err := catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		vector, err := embed.Embed(ctx, doc.Content)
		if err != nil {
			return nil, err
		}
		if err := store.Add(doc, vector); err != nil {
			logger.Warn("skipping document", "id", doc.ID, "error", err)
		}
	}
	logger.Debug("vector store populated", "documents", store.Len())
	return store, nil
}

// buildLegislationTool wraps the knowledge base as the agents' search tool.
func buildLegislationTool(kb *knowledgeBase, logger *slog.Logger) (*tools.Set, error) {
	search, err := tools.NewLegislationSearch(tools.LegislationSearchConfig{
		Retriever: kb.Retriever,
		Catalog:   kb.Catalog,
		Keyword:   kb.Keyword,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return tools.NewSet(search)
}

// buildProvider registers every configured vendor and returns the default.
// At least one API key must be present.
func buildProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (providers.ChatProvider, error) {
	registry := providers.NewRegistry()

	if cfg.Providers.Anthropic.APIKey != "" {
		if err := registry.RegisterAnthropic(cfg.Providers.Anthropic); err != nil {
			return nil, err
		}
	}
	if cfg.Providers.OpenAI.APIKey != "" {
		if err := registry.RegisterOpenAI(cfg.Providers.OpenAI); err != nil {
			return nil, err
		}
	}
	if cfg.Providers.Google.APIKey != "" || cfg.Providers.Google.UseVertexAI {
		if err := registry.RegisterGoogle(ctx, cfg.Providers.Google); err != nil {
			return nil, err
		}
	}

	if len(registry.Types()) == 0 {
		return nil, coreerrors.Configuration(
			"no chat provider configured: set ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY")
	}

	if cfg.Providers.Default != "" {
		if err := registry.SetDefault(providers.ProviderType(cfg.Providers.Default)); err != nil {
			logger.Warn("default provider not registered, using first available",
				"provider", cfg.Providers.Default)
		}
	}
	return registry.Default()
}
