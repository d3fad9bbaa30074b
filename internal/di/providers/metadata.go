package providers

import (
	"github.com/samber/do/v2"

	"github.com/moviekeep/moviekeep-server/internal/config"
	"github.com/moviekeep/moviekeep-server/internal/logger"
	"github.com/moviekeep/moviekeep-server/internal/metadata"
	"github.com/moviekeep/moviekeep-server/internal/metadata/omdb"
)

// OMDbClientHandle wraps the OMDb client for DI.
type OMDbClientHandle struct {
	*omdb.Client
}

// ProvideOMDbClient provides the OMDb metadata client.
func ProvideOMDbClient(i do.Injector) (*OMDbClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.OMDb.APIKey == "" {
		log.Warn("No OMDb API key configured - movies will be stored without metadata enrichment")
	}

	client := omdb.New(cfg.OMDb.APIKey, log.Logger, omdb.WithBaseURL(cfg.OMDb.BaseURL))

	return &OMDbClientHandle{Client: client}, nil
}

// ProvideFetchCache provides the metadata fetch cache in front of the OMDb client.
func ProvideFetchCache(i do.Injector) (*metadata.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	clientHandle := do.MustInvoke[*OMDbClientHandle](i)

	cache := metadata.NewCache(clientHandle.Client, cfg.Cache.TTL, cfg.Cache.ErrorTTL, log.Logger)

	log.Info("Metadata cache initialized",
		"ttl", cfg.Cache.TTL,
		"error_ttl", cfg.Cache.ErrorTTL,
	)

	return cache, nil
}
