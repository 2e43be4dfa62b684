package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vgreen-backend/internal/domains/promotion/model"
	"vgreen-backend/pkg/logger"
)

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) PromotionRepository {
	return &postgresRepository{pool: pool}
}

const promotionColumns = `
	id, promotion_id, code, name, description,
	discount_type, discount_value, max_discount_value,
	min_order_value, usage_limit, user_limit, is_first_order_only,
	start_date, end_date, status, type,
	created_at, updated_at`

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var p model.Promotion
	err := row.Scan(
		&p.ID, &p.PromotionID, &p.Code, &p.Name, &p.Description,
		&p.DiscountType, &p.DiscountValue, &p.MaxDiscountValue,
		&p.MinOrderValue, &p.UsageLimit, &p.UserLimit, &p.IsFirstOrderOnly,
		&p.StartDate, &p.EndDate, &p.Status, &p.Type,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ========================= LOOKUP =========================

func (r *postgresRepository) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions WHERE LOWER(code) = LOWER($1)`, promotionColumns)

	promo, err := scanPromotion(r.pool.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, model.ErrPromotionNotFound
	}
	if err != nil {
		logger.Error("[PromotionRepo] FindByCode failed", err)
		return nil, fmt.Errorf("find promotion by code: %w", err)
	}
	return promo, nil
}

func (r *postgresRepository) FindByPromotionID(ctx context.Context, promotionID string) (*model.Promotion, error) {
	query := fmt.Sprintf(`SELECT %s FROM promotions WHERE promotion_id = $1`, promotionColumns)

	promo, err := scanPromotion(r.pool.QueryRow(ctx, query, promotionID))
	if err == pgx.ErrNoRows {
		return nil, model.ErrPromotionNotFound
	}
	if err != nil {
		logger.Error("[PromotionRepo] FindByPromotionID failed", err)
		return nil, fmt.Errorf("find promotion: %w", err)
	}
	return promo, nil
}

func (r *postgresRepository) ListLive(ctx context.Context, now time.Time) ([]*model.Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM promotions
		WHERE start_date <= $1
		  AND end_date >= $1
		  AND type != 'Admin'
		  AND usage_limit > 0
		ORDER BY end_date ASC`, promotionColumns)

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		logger.Error("[PromotionRepo] ListLive query failed", err)
		return nil, fmt.Errorf("list live promotions: %w", err)
	}
	defer rows.Close()

	return collectPromotions(rows)
}

// ========================= ADMIN LISTING =========================

func (r *postgresRepository) List(ctx context.Context, query *model.ListPromotionsQuery) ([]*model.Promotion, int64, error) {
	// Build WHERE clause động theo filter
	whereConditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if query.Status != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, query.Status)
		argIndex++
	}
	if query.Type != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, query.Type)
		argIndex++
	}
	if query.DiscountType != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("discount_type = $%d", argIndex))
		args = append(args, query.DiscountType)
		argIndex++
	}
	if query.Search != "" {
		whereConditions = append(whereConditions,
			fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d OR promotion_id ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+query.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(whereConditions, " AND ")

	// Count trước để trả meta phân trang
	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM promotions WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("[PromotionRepo] List count failed", err)
		return nil, 0, fmt.Errorf("count promotions: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	listQuery := fmt.Sprintf(`
		SELECT %s FROM promotions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, promotionColumns, whereClause, argIndex, argIndex+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		logger.Error("[PromotionRepo] List query failed", err)
		return nil, 0, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	promos, err := collectPromotions(rows)
	if err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

func collectPromotions(rows pgx.Rows) ([]*model.Promotion, error) {
	promos := make([]*model.Promotion, 0)
	for rows.Next() {
		promo, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, promo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return promos, nil
}

// ========================= WRITE =========================

func (r *postgresRepository) Create(ctx context.Context, promo *model.Promotion) error {
	query := `
		INSERT INTO promotions (
			id, promotion_id, code, name, description,
			discount_type, discount_value, max_discount_value,
			min_order_value, usage_limit, user_limit, is_first_order_only,
			start_date, end_date, status, type,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18
		)`

	_, err := r.pool.Exec(ctx, query,
		promo.ID, promo.PromotionID, promo.Code, promo.Name, promo.Description,
		promo.DiscountType, promo.DiscountValue, promo.MaxDiscountValue,
		promo.MinOrderValue, promo.UsageLimit, promo.UserLimit, promo.IsFirstOrderOnly,
		promo.StartDate, promo.EndDate, promo.Status, promo.Type,
		promo.CreatedAt, promo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateCode
		}
		logger.Error("[PromotionRepo] Create failed", err)
		return fmt.Errorf("create promotion: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, promo *model.Promotion) error {
	query := `
		UPDATE promotions SET
			name = $2, description = $3,
			discount_type = $4, discount_value = $5, max_discount_value = $6,
			min_order_value = $7, usage_limit = $8, user_limit = $9, is_first_order_only = $10,
			start_date = $11, end_date = $12, status = $13, type = $14,
			updated_at = $15
		WHERE promotion_id = $1`

	tag, err := r.pool.Exec(ctx, query,
		promo.PromotionID, promo.Name, promo.Description,
		promo.DiscountType, promo.DiscountValue, promo.MaxDiscountValue,
		promo.MinOrderValue, promo.UsageLimit, promo.UserLimit, promo.IsFirstOrderOnly,
		promo.StartDate, promo.EndDate, promo.Status, promo.Type,
		time.Now(),
	)
	if err != nil {
		logger.Error("[PromotionRepo] Update failed", err)
		return fmt.Errorf("update promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, promotionID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Xóa target và usage trước vì FK theo promotion_id
	if _, err := tx.Exec(ctx, `DELETE FROM promotion_targets WHERE promotion_id = $1`, promotionID); err != nil {
		return fmt.Errorf("delete promotion targets: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM promotion_usage WHERE promotion_id = $1`, promotionID); err != nil {
		return fmt.Errorf("delete promotion usage: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM promotions WHERE promotion_id = $1`, promotionID)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}

	return tx.Commit(ctx)
}

// ========================= TARGETS =========================

func (r *postgresRepository) FindTarget(ctx context.Context, promotionID string) (*model.PromotionTarget, error) {
	query := `
		SELECT id, promotion_id, target_type, target_ref, created_at, updated_at
		FROM promotion_targets
		WHERE promotion_id = $1`

	var t model.PromotionTarget
	err := r.pool.QueryRow(ctx, query, promotionID).Scan(
		&t.ID, &t.PromotionID, &t.TargetType, &t.TargetRef, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		// Không có target record = áp dụng toàn catalog
		return nil, nil
	}
	if err != nil {
		logger.Error("[PromotionRepo] FindTarget failed", err)
		return nil, fmt.Errorf("find promotion target: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) FindTargets(ctx context.Context, promotionIDs []string) (map[string]*model.PromotionTarget, error) {
	targets := make(map[string]*model.PromotionTarget, len(promotionIDs))
	if len(promotionIDs) == 0 {
		return targets, nil
	}

	query := `
		SELECT id, promotion_id, target_type, target_ref, created_at, updated_at
		FROM promotion_targets
		WHERE promotion_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, promotionIDs)
	if err != nil {
		logger.Error("[PromotionRepo] FindTargets query failed", err)
		return nil, fmt.Errorf("find promotion targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.PromotionTarget
		if err := rows.Scan(&t.ID, &t.PromotionID, &t.TargetType, &t.TargetRef, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan promotion target: %w", err)
		}
		targets[t.PromotionID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return targets, nil
}

func (r *postgresRepository) SetTarget(ctx context.Context, target *model.PromotionTarget) error {
	query := `
		INSERT INTO promotion_targets (id, promotion_id, target_type, target_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (promotion_id) DO UPDATE SET
			target_type = EXCLUDED.target_type,
			target_ref = EXCLUDED.target_ref,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		target.ID, target.PromotionID, target.TargetType, target.TargetRef,
		target.CreatedAt, target.UpdatedAt,
	)
	if err != nil {
		logger.Error("[PromotionRepo] SetTarget failed", err)
		return fmt.Errorf("set promotion target: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteTarget(ctx context.Context, promotionID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotion_targets WHERE promotion_id = $1`, promotionID)
	if err != nil {
		return fmt.Errorf("delete promotion target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTargetNotFound
	}
	return nil
}

// ========================= USAGE =========================

// ConsumeUsage - decrement có điều kiện + insert usage record, một transaction.
// WHERE usage_limit > 0 đảm bảo không bao giờ trừ xuống âm dưới concurrency.
func (r *postgresRepository) ConsumeUsage(ctx context.Context, usage *model.PromotionUsage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE promotions
		SET usage_limit = usage_limit - 1, updated_at = NOW()
		WHERE promotion_id = $1 AND usage_limit > 0`,
		usage.PromotionID,
	)
	if err != nil {
		logger.Error("[PromotionRepo] ConsumeUsage decrement failed", err)
		return fmt.Errorf("decrement usage limit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Promotion không tồn tại hoặc đã hết lượt
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM promotions WHERE promotion_id = $1)`,
			usage.PromotionID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check promotion exists: %w", err)
		}
		if !exists {
			return model.ErrPromotionNotFound
		}
		return model.ErrUsageExhausted
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO promotion_usage (id, promotion_id, order_id, user_id, discount_amount, used_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		usage.ID, usage.PromotionID, usage.OrderID, usage.UserID, usage.DiscountAmount, usage.UsedAt,
	)
	if err != nil {
		logger.Error("[PromotionRepo] ConsumeUsage insert failed", err)
		return fmt.Errorf("insert usage record: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) ListUsage(ctx context.Context, promotionID string, page, limit int) ([]*model.PromotionUsage, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM promotion_usage WHERE promotion_id = $1`, promotionID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count promotion usage: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, `
		SELECT id, promotion_id, order_id, user_id, discount_amount, used_at
		FROM promotion_usage
		WHERE promotion_id = $1
		ORDER BY used_at DESC
		LIMIT $2 OFFSET $3`,
		promotionID, limit, offset,
	)
	if err != nil {
		logger.Error("[PromotionRepo] ListUsage query failed", err)
		return nil, 0, fmt.Errorf("list promotion usage: %w", err)
	}
	defer rows.Close()

	usages := make([]*model.PromotionUsage, 0, limit)
	for rows.Next() {
		var u model.PromotionUsage
		if err := rows.Scan(&u.ID, &u.PromotionID, &u.OrderID, &u.UserID, &u.DiscountAmount, &u.UsedAt); err != nil {
			return nil, 0, fmt.Errorf("scan usage: %w", err)
		}
		usages = append(usages, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return usages, total, nil
}

func (r *postgresRepository) UsageStats(ctx context.Context, promotionID string) (*model.UsageStats, error) {
	var stats model.UsageStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(discount_amount), 0),
			COUNT(DISTINCT user_id) FILTER (WHERE user_id IS NOT NULL)
		FROM promotion_usage
		WHERE promotion_id = $1`,
		promotionID,
	).Scan(&stats.TotalUses, &stats.TotalDiscountGiven, &stats.UniqueUsers)
	if err != nil {
		logger.Error("[PromotionRepo] UsageStats failed", err)
		return nil, fmt.Errorf("usage stats: %w", err)
	}
	return &stats, nil
}

// ========================= RECONCILE =========================

// ReconcileStatuses - worker đồng bộ cột status theo window thực tế.
// Inactive do admin set tay thì giữ nguyên.
func (r *postgresRepository) ReconcileStatuses(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE promotions
		SET status = CASE WHEN end_date < $1 THEN 'Expired' ELSE 'Active' END,
		    updated_at = NOW()
		WHERE status != 'Inactive'
		  AND status != CASE WHEN end_date < $1 THEN 'Expired' ELSE 'Active' END`,
		now,
	)
	if err != nil {
		logger.Error("[PromotionRepo] ReconcileStatuses failed", err)
		return 0, fmt.Errorf("reconcile promotion statuses: %w", err)
	}
	return tag.RowsAffected(), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
