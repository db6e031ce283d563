package service

import (
	"context"
	"regexp"
	"time"

	"bookly-api/core/constants"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/modules/availability/dto"
	"bookly-api/modules/availability/entity"
	"bookly-api/modules/availability/repository"

	"github.com/google/uuid"
)

type AvailabilityServiceInterface interface {
	// Host schedule management
	GetWeeklySchedule(ctx context.Context, hostID uuid.UUID) ([]entity.WeeklyRule, *errors.AppError)
	ReplaceWeeklySchedule(ctx context.Context, hostID uuid.UUID, req *dto.ReplaceWeeklyScheduleRequest) *errors.AppError
	SetOverrides(ctx context.Context, hostID uuid.UUID, req *dto.SetOverridesRequest) *errors.AppError
	DeleteOverrides(ctx context.Context, hostID uuid.UUID, date string) *errors.AppError
	ListOverrides(ctx context.Context, hostID uuid.UUID, from, to string) ([]entity.DateOverride, *errors.AppError)
	GetConfig(ctx context.Context, hostID uuid.UUID) (*entity.SchedulingConfig, *errors.AppError)
	UpdateConfig(ctx context.Context, hostID uuid.UUID, req *dto.UpdateConfigRequest) (*entity.SchedulingConfig, *errors.AppError)
	EnsureDefaultConfig(ctx context.Context, hostID uuid.UUID) *errors.AppError

	// Day rule resolution (consumed by the slot generator)
	ResolveDayIntervals(ctx context.Context, hostID uuid.UUID, date string, hostTimezone string) ([]entity.DayInterval, *errors.AppError)
}

type AvailabilityService struct {
	repo repository.AvailabilityRepositoryInterface
}

func NewAvailabilityService(repo repository.AvailabilityRepositoryInterface) *AvailabilityService {
	return &AvailabilityService{repo: repo}
}

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func validWindow(start, end string) bool {
	return hhmmPattern.MatchString(start) && hhmmPattern.MatchString(end) && start < end
}

func parseDate(date string) (time.Time, *errors.AppError) {
	d, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "invalid date, expected YYYY-MM-DD", err)
	}
	return d, nil
}

func (s *AvailabilityService) GetWeeklySchedule(ctx context.Context, hostID uuid.UUID) ([]entity.WeeklyRule, *errors.AppError) {
	rules, err := s.repo.GetWeeklyRulesByHost(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load weekly schedule", err)
	}
	return rules, nil
}

func (s *AvailabilityService) ReplaceWeeklySchedule(ctx context.Context, hostID uuid.UUID, req *dto.ReplaceWeeklyScheduleRequest) *errors.AppError {
	rules := make([]entity.WeeklyRule, 0, len(req.Rules))
	for _, item := range req.Rules {
		if item.DayOfWeek < 0 || item.DayOfWeek > 6 {
			return errors.NewAppError(errors.ErrInvalidInput, "day_of_week must be between 0 (Sunday) and 6", nil)
		}
		if !validWindow(item.StartTime, item.EndTime) {
			return errors.NewAppError(errors.ErrInvalidInput, "times must be HH:mm with end after start", nil)
		}
		rules = append(rules, entity.WeeklyRule{
			HostID:    hostID,
			DayOfWeek: item.DayOfWeek,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
		})
	}

	if err := s.repo.ReplaceWeeklyRules(ctx, hostID, rules); err != nil {
		logger.Error("AvailabilityService:ReplaceWeeklySchedule", "error", err, "host_id", hostID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to save weekly schedule", err)
	}
	return nil
}

func (s *AvailabilityService) SetOverrides(ctx context.Context, hostID uuid.UUID, req *dto.SetOverridesRequest) *errors.AppError {
	date, appErr := parseDate(req.Date)
	if appErr != nil {
		return appErr
	}
	if len(req.Items) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "at least one override item is required", nil)
	}

	overrides := make([]entity.DateOverride, 0, len(req.Items))
	for _, item := range req.Items {
		o := entity.DateOverride{
			HostID:    hostID,
			Date:      date,
			IsBlocked: item.IsBlocked,
		}
		if !item.IsBlocked {
			if item.StartTime == nil || item.EndTime == nil || !validWindow(*item.StartTime, *item.EndTime) {
				return errors.NewAppError(errors.ErrInvalidInput, "non-blocked overrides need HH:mm times with end after start", nil)
			}
			o.StartTime = item.StartTime
			o.EndTime = item.EndTime
		}
		overrides = append(overrides, o)
	}

	if err := s.repo.ReplaceOverridesForDate(ctx, hostID, date, overrides); err != nil {
		logger.Error("AvailabilityService:SetOverrides", "error", err, "host_id", hostID, "date", req.Date)
		return errors.NewAppError(errors.ErrInternalServer, "failed to save overrides", err)
	}
	return nil
}

func (s *AvailabilityService) DeleteOverrides(ctx context.Context, hostID uuid.UUID, dateStr string) *errors.AppError {
	date, appErr := parseDate(dateStr)
	if appErr != nil {
		return appErr
	}
	if err := s.repo.DeleteOverridesForDate(ctx, hostID, date); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete overrides", err)
	}
	return nil
}

func (s *AvailabilityService) ListOverrides(ctx context.Context, hostID uuid.UUID, fromStr, toStr string) ([]entity.DateOverride, *errors.AppError) {
	from, appErr := parseDate(fromStr)
	if appErr != nil {
		return nil, appErr
	}
	to, appErr := parseDate(toStr)
	if appErr != nil {
		return nil, appErr
	}
	overrides, err := s.repo.ListOverridesByHost(ctx, hostID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load overrides", err)
	}
	return overrides, nil
}

func (s *AvailabilityService) GetConfig(ctx context.Context, hostID uuid.UUID) (*entity.SchedulingConfig, *errors.AppError) {
	cfg, err := s.repo.GetConfigByHost(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load scheduling config", err)
	}
	if cfg == nil {
		// Hosts registered before the config table existed fall back to defaults.
		cfg = defaultConfig(hostID)
	}
	return cfg, nil
}

func (s *AvailabilityService) UpdateConfig(ctx context.Context, hostID uuid.UUID, req *dto.UpdateConfigRequest) (*entity.SchedulingConfig, *errors.AppError) {
	if req.BufferBeforeMin < 0 || req.BufferAfterMin < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "buffers must not be negative", nil)
	}
	if req.MinNoticeMin < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "min_notice_min must not be negative", nil)
	}
	if req.MaxDaysInAdvance < 1 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "max_days_in_advance must be at least 1", nil)
	}

	cfg := &entity.SchedulingConfig{
		HostID:           hostID,
		BufferBeforeMin:  req.BufferBeforeMin,
		BufferAfterMin:   req.BufferAfterMin,
		MinNoticeMin:     req.MinNoticeMin,
		MaxDaysInAdvance: req.MaxDaysInAdvance,
	}
	if err := s.repo.UpsertConfig(ctx, cfg); err != nil {
		logger.Error("AvailabilityService:UpdateConfig", "error", err, "host_id", hostID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save scheduling config", err)
	}
	return cfg, nil
}

// EnsureDefaultConfig creates the host's scheduling config with defaults.
// Called at registration.
func (s *AvailabilityService) EnsureDefaultConfig(ctx context.Context, hostID uuid.UUID) *errors.AppError {
	existing, err := s.repo.GetConfigByHost(ctx, hostID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check scheduling config", err)
	}
	if existing != nil {
		return nil
	}
	if err := s.repo.UpsertConfig(ctx, defaultConfig(hostID)); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to create scheduling config", err)
	}
	return nil
}

func defaultConfig(hostID uuid.UUID) *entity.SchedulingConfig {
	return &entity.SchedulingConfig{
		HostID:           hostID,
		BufferBeforeMin:  constants.DefaultBufferBeforeMin,
		BufferAfterMin:   constants.DefaultBufferAfterMin,
		MinNoticeMin:     constants.DefaultMinNoticeMin,
		MaxDaysInAdvance: constants.DefaultMaxDaysInAdvance,
	}
}
