package shared

// Task types cho asynq
const (
	TypeReconcilePromotionStatus = "promotion:reconcile_status"
)

// Queue names
const (
	QueuePromotion = "promotion"
	QueueDefault   = "default"
)
