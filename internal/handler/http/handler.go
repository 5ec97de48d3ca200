package http

import (
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	"github.com/contratoflow/sync-engine/internal/search"
	"github.com/contratoflow/sync-engine/internal/service"
)

type Handler struct {
	services  *service.Services
	search    search.Client
	collector *metrics.Collector

	logger *logger.Logger
}

func NewHandler(services *service.Services, searchClient search.Client, collector *metrics.Collector, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		search:    searchClient,
		collector: collector,
		logger:    logger,
	}
}
