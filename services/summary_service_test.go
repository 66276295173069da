package services

import (
	"context"
	"testing"
	"time"

	"backend/models"

	"gorm.io/datatypes"
)

func mealLog(calories, protein, carbs, fat float64, at time.Time) models.FoodLog {
	return models.FoodLog{
		FoodName: "test meal",
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
		Category: models.CategoryLunch,
		Quantity: 1,
		LoggedAt: at,
	}
}

func TestAggregateLogsEmpty(t *testing.T) {
	got := AggregateLogs(nil)
	if got != (MacroTotals{}) {
		t.Fatalf("empty input must aggregate to zeros, got %+v", got)
	}
}

func TestAggregateLogsSums(t *testing.T) {
	now := time.Now()
	logs := []models.FoodLog{
		mealLog(300, 20, 30, 10, now),
		mealLog(500, 20, 30, 10, now),
		mealLog(700, 20, 30, 10, now),
	}

	want := MacroTotals{Calories: 1500, Protein: 60, Carbs: 90, Fat: 30}
	if got := AggregateLogs(logs); got != want {
		t.Fatalf("AggregateLogs = %+v, want %+v", got, want)
	}

	// Sum is commutative: permuting the input must not change the result.
	perm := []models.FoodLog{logs[2], logs[0], logs[1]}
	if got := AggregateLogs(perm); got != want {
		t.Fatalf("AggregateLogs is order-dependent: %+v != %+v", got, want)
	}
}

func TestTrendByDayWindow(t *testing.T) {
	today := time.Date(2025, 3, 10, 15, 30, 0, 0, time.Local)

	logs := []models.FoodLog{
		mealLog(400, 0, 0, 0, today.AddDate(0, 0, -2)),
		mealLog(200, 0, 0, 0, today.AddDate(0, 0, -2)),
		mealLog(350, 0, 0, 0, today),
		// outside the window, must be ignored
		mealLog(999, 0, 0, 0, today.AddDate(0, 0, -7)),
		mealLog(999, 0, 0, 0, today.AddDate(0, 0, 1)),
	}

	trend := TrendByDay(logs, today, 7)
	if len(trend) != 7 {
		t.Fatalf("trend length = %d, want 7", len(trend))
	}

	if trend[0].Date != "2025-03-04" {
		t.Errorf("first entry = %s, want oldest day 2025-03-04", trend[0].Date)
	}
	if trend[6].Date != "2025-03-10" {
		t.Errorf("last entry = %s, want today 2025-03-10", trend[6].Date)
	}

	for i, d := range trend {
		switch d.Date {
		case "2025-03-08":
			if d.Calories != 600 {
				t.Errorf("day %s calories = %v, want 600", d.Date, d.Calories)
			}
		case "2025-03-10":
			if d.Calories != 350 {
				t.Errorf("day %s calories = %v, want 350", d.Date, d.Calories)
			}
		default:
			if d.Calories != 0 {
				t.Errorf("entry %d (%s) calories = %v, want 0", i, d.Date, d.Calories)
			}
		}
	}
}

func TestTrendByDayAllEmpty(t *testing.T) {
	today := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	trend := TrendByDay(nil, today, 7)
	if len(trend) != 7 {
		t.Fatalf("trend length = %d, want 7", len(trend))
	}
	for _, d := range trend {
		if d.Calories != 0 {
			t.Errorf("day %s calories = %v, want 0", d.Date, d.Calories)
		}
	}
}

func TestTrendByDayBucketsInAnchorLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	today := time.Date(2025, 3, 10, 12, 0, 0, 0, loc)

	// 20:00 UTC on Mar 9 is 06:00 Mar 10 in the anchor zone; stored UTC
	// instants must still land on the local date.
	logs := []models.FoodLog{
		mealLog(450, 0, 0, 0, time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)),
	}

	trend := TrendByDay(logs, today, 7)
	for _, d := range trend {
		switch d.Date {
		case "2025-03-10":
			if d.Calories != 450 {
				t.Errorf("local date bucket calories = %v, want 450", d.Calories)
			}
		case "2025-03-09":
			if d.Calories != 0 {
				t.Errorf("UTC date bucket calories = %v, want 0", d.Calories)
			}
		}
	}
}

func TestCollectMicroHighlightsFirstSeenWins(t *testing.T) {
	logs := []models.FoodLog{
		{Micros: datatypes.JSONMap{"Iron": "5%"}},
		{Micros: datatypes.JSONMap{"Iron": "9%", "Calcium": "2%"}},
	}

	got := CollectMicroHighlights(logs)
	if len(got) != 2 {
		t.Fatalf("highlights = %v, want 2 entries", got)
	}
	if got["Iron"] != "5%" {
		t.Errorf("Iron = %v, want first-seen 5%%", got["Iron"])
	}
	if got["Calcium"] != "2%" {
		t.Errorf("Calcium = %v, want 2%%", got["Calcium"])
	}
}

func TestGroupByCategoryAlwaysFiveBuckets(t *testing.T) {
	logs := []models.FoodLog{
		{FoodName: "oatmeal", Category: models.CategoryBreakfast},
		{FoodName: "pasta", Category: models.CategoryLunch},
		{FoodName: "mystery", Category: "Midnight Feast"}, // unknown, dropped
	}

	grouped := GroupByCategory(logs)
	if len(grouped) != len(models.MealCategories) {
		t.Fatalf("got %d buckets, want %d", len(grouped), len(models.MealCategories))
	}
	for _, cat := range models.MealCategories {
		if _, ok := grouped[cat]; !ok {
			t.Errorf("missing bucket %q", cat)
		}
	}

	if n := len(grouped[models.CategoryBreakfast]); n != 1 {
		t.Errorf("Breakfast bucket size = %d, want 1", n)
	}
	if n := len(grouped[models.CategoryDinner]); n != 0 {
		t.Errorf("Dinner bucket size = %d, want 0", n)
	}
	total := 0
	for _, bucket := range grouped {
		total += len(bucket)
	}
	if total != 2 {
		t.Errorf("grouped %d logs, want 2 (unknown category must be dropped)", total)
	}
}

func TestSummaryDaily(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	profile := models.UserProfile{
		UserID: 1, Gender: "Male", Age: 30, HeightCm: 180, WeightKg: 80,
		ActivityLevel: "Moderate", Goal: "Maintenance",
		Targets: models.Targets{Calories: 2200, Protein: 160, Carbs: 220, Fat: 70, Water: 3000},
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	now := time.Now()
	for _, cal := range []float64{300, 500, 700} {
		l := mealLog(cal, 20, 30, 10, now)
		l.UserID = 1
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("create log: %v", err)
		}
	}
	// another user's log must never leak into the summary
	other := mealLog(5000, 0, 0, 0, now)
	other.UserID = 2
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create log: %v", err)
	}

	svc := NewSummaryService(db)
	out, err := svc.Daily(ctx, 1, now)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	if out.Totals.Calories != 1500 {
		t.Errorf("calories = %v, want 1500", out.Totals.Calories)
	}
	if out.Targets.Calories != 2200 {
		t.Errorf("target calories = %v, want profile value 2200", out.Targets.Calories)
	}
	p := out.Progress["protein"]
	if p.Consumed != 60 || p.Goal != 160 {
		t.Errorf("protein progress = %+v", p)
	}
}

func TestSummaryDailyNoProfileUsesDefaults(t *testing.T) {
	db := newTestDB(t)

	svc := NewSummaryService(db)
	out, err := svc.Daily(context.Background(), 42, time.Now())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if out.Totals != (MacroTotals{}) {
		t.Errorf("empty day totals = %+v, want zeros", out.Totals)
	}
	if out.Targets != DefaultTargets {
		t.Errorf("targets = %+v, want defaults", out.Targets)
	}
}
