package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"vgreen-backend/internal/domains/promotion/job"
	"vgreen-backend/internal/shared"
	"vgreen-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerReconcilePromotionStatusJob()
}

// ================================================
// JOB: Reconcile Promotion Status (Every 3 hours)
// ================================================
// Chạy mỗi 3 giờ: đủ thường xuyên để storefront không hiển thị
// promotion đã hết hạn quá lâu, đủ thưa để không tốn tài nguyên.
func (s *Scheduler) registerReconcilePromotionStatusJob() error {
	payload, err := json.Marshal(job.ReconcileStatusPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReconcilePromotionStatus, payload)

	_, err = s.scheduler.Register(
		"0 */3 * * *", // Every 3 hours at minute 0
		task,
		asynq.Queue(shared.QueuePromotion),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ReconcilePromotionStatus job", err)
		return err
	}

	logger.Info("✓ Registered ReconcilePromotionStatus: every 3 hours", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
