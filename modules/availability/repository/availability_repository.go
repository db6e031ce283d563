package repository

import (
	"context"
	"database/sql"
	"time"

	"bookly-api/core/database"
	"bookly-api/core/logger"
	"bookly-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AvailabilityRepositoryInterface defines the repository contract
type AvailabilityRepositoryInterface interface {
	// Weekly rules
	GetWeeklyRulesByHost(ctx context.Context, hostID uuid.UUID) ([]entity.WeeklyRule, error)
	ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, rules []entity.WeeklyRule) error

	// Date overrides
	GetOverridesByHostAndDate(ctx context.Context, hostID uuid.UUID, date time.Time) ([]entity.DateOverride, error)
	ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date time.Time, overrides []entity.DateOverride) error
	DeleteOverridesForDate(ctx context.Context, hostID uuid.UUID, date time.Time) error
	ListOverridesByHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]entity.DateOverride, error)

	// Scheduling config
	GetConfigByHost(ctx context.Context, hostID uuid.UUID) (*entity.SchedulingConfig, error)
	UpsertConfig(ctx context.Context, cfg *entity.SchedulingConfig) error
}

type AvailabilityRepository struct {
	DB database.Database
}

func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// ===================== Weekly rules =====================

func (r *AvailabilityRepository) GetWeeklyRulesByHost(ctx context.Context, hostID uuid.UUID) ([]entity.WeeklyRule, error) {
	query := `
		SELECT id, host_id, day_of_week, start_time, end_time, created_at, updated_at
		FROM weekly_rules
		WHERE host_id = $1
		ORDER BY day_of_week, start_time
	`

	var rules []entity.WeeklyRule
	err := r.DB.SelectContext(ctx, &rules, query, hostID)
	if err != nil {
		logger.Error("AvailabilityRepository:GetWeeklyRulesByHost", err)
		return nil, err
	}
	return rules, nil
}

// ReplaceWeeklyRules deletes and recreates the host's weekly schedule in one
// transaction. The host edits the schedule wholesale.
func (r *AvailabilityRepository) ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, rules []entity.WeeklyRule) error {
	return r.DB.WithinTx(ctx, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_rules WHERE host_id = $1`, hostID); err != nil {
			logger.Error("AvailabilityRepository:ReplaceWeeklyRules:Delete", err)
			return err
		}
		for i := range rules {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO weekly_rules (host_id, day_of_week, start_time, end_time)
				VALUES ($1, $2, $3, $4)
			`, hostID, rules[i].DayOfWeek, rules[i].StartTime, rules[i].EndTime)
			if err != nil {
				logger.Error("AvailabilityRepository:ReplaceWeeklyRules:Insert", err)
				return err
			}
		}
		return nil
	})
}

// ===================== Date overrides =====================

func (r *AvailabilityRepository) GetOverridesByHostAndDate(ctx context.Context, hostID uuid.UUID, date time.Time) ([]entity.DateOverride, error) {
	query := `
		SELECT id, host_id, date, is_blocked, start_time, end_time, created_at, updated_at
		FROM date_overrides
		WHERE host_id = $1 AND date = $2
		ORDER BY start_time NULLS FIRST
	`

	var overrides []entity.DateOverride
	err := r.DB.SelectContext(ctx, &overrides, query, hostID, date)
	if err != nil {
		logger.Error("AvailabilityRepository:GetOverridesByHostAndDate", err)
		return nil, err
	}
	return overrides, nil
}

func (r *AvailabilityRepository) ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date time.Time, overrides []entity.DateOverride) error {
	return r.DB.WithinTx(ctx, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM date_overrides WHERE host_id = $1 AND date = $2`, hostID, date); err != nil {
			logger.Error("AvailabilityRepository:ReplaceOverridesForDate:Delete", err)
			return err
		}
		for i := range overrides {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO date_overrides (host_id, date, is_blocked, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5)
			`, hostID, date, overrides[i].IsBlocked, overrides[i].StartTime, overrides[i].EndTime)
			if err != nil {
				logger.Error("AvailabilityRepository:ReplaceOverridesForDate:Insert", err)
				return err
			}
		}
		return nil
	})
}

func (r *AvailabilityRepository) DeleteOverridesForDate(ctx context.Context, hostID uuid.UUID, date time.Time) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM date_overrides WHERE host_id = $1 AND date = $2`, hostID, date)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteOverridesForDate", err)
		return err
	}
	return nil
}

func (r *AvailabilityRepository) ListOverridesByHost(ctx context.Context, hostID uuid.UUID, from, to time.Time) ([]entity.DateOverride, error) {
	query := `
		SELECT id, host_id, date, is_blocked, start_time, end_time, created_at, updated_at
		FROM date_overrides
		WHERE host_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time NULLS FIRST
	`

	var overrides []entity.DateOverride
	err := r.DB.SelectContext(ctx, &overrides, query, hostID, from, to)
	if err != nil {
		logger.Error("AvailabilityRepository:ListOverridesByHost", err)
		return nil, err
	}
	return overrides, nil
}

// ===================== Scheduling config =====================

func (r *AvailabilityRepository) GetConfigByHost(ctx context.Context, hostID uuid.UUID) (*entity.SchedulingConfig, error) {
	query := `
		SELECT host_id, buffer_before_min, buffer_after_min, min_notice_min, max_days_in_advance, created_at, updated_at
		FROM scheduling_configs
		WHERE host_id = $1
	`

	var cfg entity.SchedulingConfig
	err := r.DB.GetContext(ctx, &cfg, query, hostID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetConfigByHost", err)
		return nil, err
	}
	return &cfg, nil
}

func (r *AvailabilityRepository) UpsertConfig(ctx context.Context, cfg *entity.SchedulingConfig) error {
	query := `
		INSERT INTO scheduling_configs (host_id, buffer_before_min, buffer_after_min, min_notice_min, max_days_in_advance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (host_id) DO UPDATE SET
			buffer_before_min = EXCLUDED.buffer_before_min,
			buffer_after_min = EXCLUDED.buffer_after_min,
			min_notice_min = EXCLUDED.min_notice_min,
			max_days_in_advance = EXCLUDED.max_days_in_advance,
			updated_at = NOW()
	`
	err := r.DB.ExecContext(ctx, query,
		cfg.HostID, cfg.BufferBeforeMin, cfg.BufferAfterMin, cfg.MinNoticeMin, cfg.MaxDaysInAdvance)
	if err != nil {
		logger.Error("AvailabilityRepository:UpsertConfig", err)
		return err
	}
	return nil
}
