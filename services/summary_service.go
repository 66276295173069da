package services

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// MacroTotals are exact sums over a set of logs. Rounding to display
// integers is a presentation concern and happens in the controllers.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// AggregateLogs sums calories and macros across logs. Stored values are
// already scaled for their quantity, so no normalization happens here.
// Empty input yields the zero value; order never affects the result.
func AggregateLogs(logs []models.FoodLog) MacroTotals {
	var t MacroTotals
	for _, l := range logs {
		t.Calories += l.Calories
		t.Protein += l.Protein
		t.Carbs += l.Carbs
		t.Fat += l.Fat
	}
	return t
}

type DayCalories struct {
	Day      string  `json:"day"`  // weekday abbreviation, e.g. "Tue"
	Date     string  `json:"date"` // YYYY-MM-DD
	Calories float64 `json:"calories"`
}

// TrendByDay buckets calories per local calendar day for windowDays
// consecutive days ending at (and including) today. The result always has
// exactly windowDays entries, oldest first; days without logs stay at zero.
func TrendByDay(logs []models.FoodLog, today time.Time, windowDays int) []DayCalories {
	out := make([]DayCalories, 0, windowDays)
	idx := make(map[string]int, windowDays)

	for i := windowDays - 1; i >= 0; i-- {
		d := dayStart(today).AddDate(0, 0, -i)
		key := d.Format("2006-01-02")
		idx[key] = len(out)
		out = append(out, DayCalories{Day: d.Format("Mon"), Date: key})
	}

	for _, l := range logs {
		// Bucket by the calendar date in today's location; a UTC-stored
		// instant must not shift a late-evening meal to the wrong day.
		key := l.LoggedAt.In(today.Location()).Format("2006-01-02")
		if i, ok := idx[key]; ok {
			out[i].Calories += l.Calories
		}
	}
	return out
}

// CollectMicroHighlights scans logs in the supplied order and keeps the
// first value seen per micronutrient name. The values are illustrative
// display strings, not totals. First occurrence wins, later ones are
// ignored.
func CollectMicroHighlights(logs []models.FoodLog) map[string]any {
	out := map[string]any{}
	for _, l := range logs {
		for name, val := range l.Micros {
			if _, seen := out[name]; !seen {
				out[name] = val
			}
		}
	}
	return out
}

// GroupByCategory buckets logs into the five meal categories for the
// calendar view. Every category key is present even when empty. Logs whose
// category matches none of the known labels are dropped from all buckets.
func GroupByCategory(logs []models.FoodLog) map[string][]models.FoodLog {
	out := make(map[string][]models.FoodLog, len(models.MealCategories))
	for _, c := range models.MealCategories {
		out[c] = []models.FoodLog{}
	}
	for _, l := range logs {
		if bucket, ok := out[l.Category]; ok {
			out[l.Category] = append(bucket, l)
		}
	}
	return out
}

// ---------- DB-backed summaries ----------

type SummaryService struct{ db *gorm.DB }

func NewSummaryService(db *gorm.DB) *SummaryService { return &SummaryService{db: db} }

type DimensionProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"` // clamped to [0,1]
}

type DailySummary struct {
	Date     string                       `json:"date"`
	Totals   MacroTotals                  `json:"totals"`
	Targets  models.Targets               `json:"targets"`
	Progress map[string]DimensionProgress `json:"progress"`
}

type WeeklySummary struct {
	Trend  []DayCalories  `json:"trend"`
	Macros MacroTotals    `json:"macros"`
	Micros map[string]any `json:"micros"`
}

// Daily recomputes the day's aggregate from all of the day's logs on every
// call. There is no cached aggregate to patch, so a concurrent edit can
// never leave the summary drifted.
func (s *SummaryService) Daily(ctx context.Context, userID uint, date time.Time) (*DailySummary, error) {
	logs, err := s.logsForDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	targets, err := s.targetsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := AggregateLogs(logs)
	return &DailySummary{
		Date:    dayStart(date).Format("2006-01-02"),
		Totals:  totals,
		Targets: targets,
		Progress: map[string]DimensionProgress{
			"calories": {Consumed: totals.Calories, Goal: targets.Calories, Percent: pct(totals.Calories, targets.Calories)},
			"protein":  {Consumed: totals.Protein, Goal: targets.Protein, Percent: pct(totals.Protein, targets.Protein)},
			"carbs":    {Consumed: totals.Carbs, Goal: targets.Carbs, Percent: pct(totals.Carbs, targets.Carbs)},
			"fat":      {Consumed: totals.Fat, Goal: targets.Fat, Percent: pct(totals.Fat, targets.Fat)},
		},
	}, nil
}

// Weekly builds the 7-day calorie trend plus summed macros and micro
// highlights for the analysis screen.
func (s *SummaryService) Weekly(ctx context.Context, userID uint, today time.Time) (*WeeklySummary, error) {
	from := dayStart(today).AddDate(0, 0, -6)

	var logs []models.FoodLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at <= ?", userID, from, dayEnd(today)).
		Order("logged_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return &WeeklySummary{
		Trend:  TrendByDay(logs, today, 7),
		Macros: AggregateLogs(logs),
		Micros: CollectMicroHighlights(logs),
	}, nil
}

func (s *SummaryService) logsForDay(ctx context.Context, userID uint, date time.Time) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at <= ?", userID, dayStart(date), dayEnd(date)).
		Order("logged_at DESC").
		Find(&logs).Error
	return logs, err
}

func (s *SummaryService) targetsFor(ctx context.Context, userID uint) (models.Targets, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResolveTargets(nil), nil
		}
		return models.Targets{}, err
	}
	return ResolveTargets(&profile), nil
}

// pct is the clamped progress ratio used for progress-bar rendering.
func pct(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := consumed / target
	if p > 1 {
		return 1
	}
	return p
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
