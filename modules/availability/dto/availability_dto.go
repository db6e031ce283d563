package dto

// WeeklyRuleItem is one recurring window in a schedule update.
type WeeklyRuleItem struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ReplaceWeeklyScheduleRequest replaces the host's entire weekly schedule.
type ReplaceWeeklyScheduleRequest struct {
	Rules []WeeklyRuleItem `json:"rules"`
}

// OverrideItem is one custom window for a date override. A blocked date
// carries a single item with IsBlocked set and no times.
type OverrideItem struct {
	IsBlocked bool    `json:"is_blocked"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// SetOverridesRequest replaces all override rows for one date.
type SetOverridesRequest struct {
	Date  string         `json:"date"`
	Items []OverrideItem `json:"items"`
}

// UpdateConfigRequest mutates the host's scheduling policy.
type UpdateConfigRequest struct {
	BufferBeforeMin  int `json:"buffer_before_min"`
	BufferAfterMin   int `json:"buffer_after_min"`
	MinNoticeMin     int `json:"min_notice_min"`
	MaxDaysInAdvance int `json:"max_days_in_advance"`
}
