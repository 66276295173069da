package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestRescaleLogRejectsNonPositive(t *testing.T) {
	l := &models.FoodLog{Calories: 300, Quantity: 1}
	for _, q := range []float64{0, -1, -0.5} {
		if _, err := RescaleLog(l, q); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("RescaleLog(%v) err = %v, want ErrInvalidQuantity", q, err)
		}
	}
}

func TestRescaleLog(t *testing.T) {
	tests := []struct {
		name   string
		log    models.FoodLog
		newQty float64
		want   RescaledFields
	}{
		{
			name:   "same quantity is identity",
			log:    models.FoodLog{Calories: 320, Protein: 12, Carbs: 45, Fat: 18, Quantity: 1},
			newQty: 1,
			want:   RescaledFields{Quantity: 1, Calories: 320, Macros: Macros{Protein: 12, Carbs: 45, Fat: 18}},
		},
		{
			name:   "double",
			log:    models.FoodLog{Calories: 320, Protein: 12, Carbs: 45, Fat: 18, Quantity: 1},
			newQty: 2,
			want:   RescaledFields{Quantity: 2, Calories: 640, Macros: Macros{Protein: 24, Carbs: 90, Fat: 36}},
		},
		{
			name:   "half rounds to nearest",
			log:    models.FoodLog{Calories: 335, Protein: 13, Carbs: 45, Fat: 17, Quantity: 1},
			newQty: 0.5,
			want:   RescaledFields{Quantity: 0.5, Calories: 168, Macros: Macros{Protein: 7, Carbs: 23, Fat: 9}},
		},
		{
			name:   "zero stored quantity treated as one",
			log:    models.FoodLog{Calories: 200, Protein: 10, Carbs: 20, Fat: 5, Quantity: 0},
			newQty: 2,
			want:   RescaledFields{Quantity: 2, Calories: 400, Macros: Macros{Protein: 20, Carbs: 40, Fat: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RescaleLog(&tt.log, tt.newQty)
			if err != nil {
				t.Fatalf("RescaleLog: %v", err)
			}
			if got != tt.want {
				t.Errorf("RescaleLog = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Each edit rescales from the stored rounded values, so two edits in
// sequence can land one calorie away from a single combined edit. That
// compounding is intentional; pin it down.
func TestRescaleLogCompoundsRounding(t *testing.T) {
	l := models.FoodLog{Calories: 335, Quantity: 1}

	step1, err := RescaleLog(&l, 1.5)
	if err != nil {
		t.Fatalf("RescaleLog: %v", err)
	}
	if step1.Calories != 503 { // 502.5 rounds up
		t.Fatalf("step1 calories = %v, want 503", step1.Calories)
	}

	l.Quantity, l.Calories = step1.Quantity, step1.Calories
	step2, err := RescaleLog(&l, 2.25)
	if err != nil {
		t.Fatalf("RescaleLog: %v", err)
	}

	direct, err := RescaleLog(&models.FoodLog{Calories: 335, Quantity: 1}, 2.25)
	if err != nil {
		t.Fatalf("RescaleLog: %v", err)
	}

	if step2.Calories != 755 || direct.Calories != 754 {
		t.Errorf("sequential = %v, direct = %v; want 755 and 754", step2.Calories, direct.Calories)
	}
}

func TestLogServiceCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewLogService(db, nil)
	ctx := context.Background()

	a := &FoodAnalysis{
		IsFood:      true,
		FoodName:    "Greek Salad",
		Calories:    280,
		Macros:      Macros{Protein: 8, Carbs: 14, Fat: 22},
		Micros:      map[string]any{"Vitamin C": "30%"},
		Category:    models.CategoryLunch,
		Quantity:    1,
		HealthScore: 82,
	}

	created, err := svc.Create(ctx, 1, a, "https://cdn.example.com/p.jpg", time.Time{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create did not assign an ID")
	}
	if created.LoggedAt.IsZero() {
		t.Error("zero loggedAt must default to now")
	}

	got, err := svc.Get(ctx, 1, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FoodName != "Greek Salad" || got.Calories != 280 {
		t.Errorf("Get = %+v", got)
	}
	if got.Micros["Vitamin C"] != "30%" {
		t.Errorf("micros round-trip = %v", got.Micros)
	}

	// another user must not be able to read it
	if _, err := svc.Get(ctx, 2, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("cross-user Get err = %v, want ErrRecordNotFound", err)
	}
}

func TestLogServiceListByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewLogService(db, nil)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	for _, at := range []time.Time{day, day.Add(4 * time.Hour), day.AddDate(0, 0, -1)} {
		l := models.FoodLog{UserID: 1, FoodName: "x", Category: models.CategoryLunch, Quantity: 1, LoggedAt: at}
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	logs, err := svc.ListByDate(ctx, 1, day)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2 (previous day excluded)", len(logs))
	}
	if !logs[0].LoggedAt.After(logs[1].LoggedAt) {
		t.Error("logs must be ordered newest first")
	}
}

func TestLogServiceDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewLogService(db, nil)
	ctx := context.Background()

	l := models.FoodLog{UserID: 1, FoodName: "x", Category: models.CategoryDinner, Quantity: 1, LoggedAt: time.Now()}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, 2, l.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("cross-user Delete err = %v, want ErrRecordNotFound", err)
	}
	if err := svc.Delete(ctx, 1, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, 1, l.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second Delete err = %v, want ErrRecordNotFound", err)
	}
}

func TestLogServiceUpdateQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewLogService(db, nil)
	ctx := context.Background()

	l := models.FoodLog{
		UserID: 1, FoodName: "Avocado Toast",
		Calories: 320, Protein: 12, Carbs: 45, Fat: 18,
		Micros:   datatypes.JSONMap{"Vitamin E": "14%"},
		Category: models.CategoryBreakfast, Quantity: 1, LoggedAt: time.Now(),
	}
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.UpdateQuantity(ctx, 1, l.ID, 2)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if updated.Quantity != 2 || updated.Calories != 640 || updated.Protein != 24 {
		t.Errorf("updated = %+v", updated)
	}

	var stored models.FoodLog
	if err := db.First(&stored, l.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Calories != 640 || stored.Fat != 36 {
		t.Errorf("stored = calories %v fat %v, want 640 and 36", stored.Calories, stored.Fat)
	}
	// micros are per-meal notes, a quantity edit must not touch them
	if stored.Micros["Vitamin E"] != "14%" {
		t.Errorf("micros changed by rescale: %v", stored.Micros)
	}

	if _, err := svc.UpdateQuantity(ctx, 1, l.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity err = %v, want ErrInvalidQuantity", err)
	}
}
