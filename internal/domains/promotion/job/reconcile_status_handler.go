package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"vgreen-backend/internal/domains/promotion/repository"
	"vgreen-backend/pkg/cache"
	"vgreen-backend/pkg/logger"
)

// ReconcileStatusPayload - job không cần tham số, thời điểm lấy tại lúc chạy
type ReconcileStatusPayload struct{}

// ReconcileStatusHandler đồng bộ cột status với date window thực tế.
// Admins maintain status không nhất quán nên cột này chỉ mang tính
// hiển thị; job này kéo nó về khớp với live-ness rule.
type ReconcileStatusHandler struct {
	repo  repository.PromotionRepository
	cache cache.Cache
}

func NewReconcileStatusHandler(repo repository.PromotionRepository, c cache.Cache) *ReconcileStatusHandler {
	return &ReconcileStatusHandler{repo: repo, cache: c}
}

func (h *ReconcileStatusHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()

	updated, err := h.repo.ReconcileStatuses(ctx, start)
	if err != nil {
		logger.Error("[ReconcileStatus] Failed", err)
		return err
	}

	// Cache danh sách active có thể đang giữ promotion vừa đổi status
	if updated > 0 {
		if err := h.cache.Delete(ctx, "promotions:active"); err != nil {
			logger.Warn("[ReconcileStatus] Cache invalidation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	logger.Info("[ReconcileStatus] Done", map[string]interface{}{
		"updated":     updated,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
