package main

import (
	"github.com/hibiken/asynq"

	"vgreen-backend/internal/domains/promotion/job"
	"vgreen-backend/internal/shared"
	"vgreen-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	reconcileStatus *job.ReconcileStatusHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcileStatus: job.NewReconcileStatusHandler(c.PromotionRepo, c.Cache),
	}
}

func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeReconcilePromotionStatus, r.reconcileStatus)
}
