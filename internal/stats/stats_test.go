package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/ganfan/internal/model"
)

var now = time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)

func meal(date string, slot model.MealType) model.MealRecord {
	return model.MealRecord{Date: date, MealType: slot, Source: model.SourceDineIn}
}

func TestMissingMeals_Example(t *testing.T) {
	records := []model.MealRecord{
		meal("2026-10-18", model.Breakfast),
		meal("2026-10-18", model.Lunch),
	}

	got := MissingMeals(records, now)

	want := []MissingDay{
		{Date: "2026-10-18", Types: []model.MealType{model.Dinner}, IsToday: true},
		{Date: "2026-10-17", Types: []model.MealType{model.Breakfast, model.Lunch, model.Dinner}},
		{Date: "2026-10-16", Types: []model.MealType{model.Breakfast, model.Lunch, model.Dinner}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MissingMeals mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingMeals_CompleteDaysOmitted(t *testing.T) {
	var records []model.MealRecord
	for _, d := range []string{"2026-10-18", "2026-10-17", "2026-10-16"} {
		for _, slot := range model.MainMealTypes {
			records = append(records, meal(d, slot))
		}
	}
	// Extra slots and older days never matter.
	records = append(records, meal("2026-10-18", model.LateNight), meal("2026-10-01", model.Lunch))

	assert.Empty(t, MissingMeals(records, now))
}

func TestMissingMeals_Bounds(t *testing.T) {
	records := []model.MealRecord{
		meal("2026-10-17", model.AfternoonTea),
		meal("2026-10-15", model.Dinner),
	}

	got := MissingMeals(records, now)

	assert.LessOrEqual(t, len(got), MissingWindowDays)
	for _, day := range got {
		for _, typ := range day.Types {
			assert.Contains(t, model.MainMealTypes, typ)
		}
	}
	// Afternoon tea does not cover any main slot.
	assert.Len(t, got[1].Types, 3)
}

func TestSummarize(t *testing.T) {
	records := []model.MealRecord{
		{Cost: 20, Source: model.SourceDelivery, Cuisine: "川菜", DishItems: []model.DishItem{{Name: "麻婆豆腐"}, {Name: "米饭"}}},
		{Cost: 35.5, Source: model.SourceDineIn, Cuisine: "粤菜", DishItems: []model.DishItem{{Name: "烧鹅"}, {Name: "米饭"}}},
		{Cost: 0, Source: model.SourceCooked, Cuisine: "川菜", DishItems: []model.DishItem{{Name: "回锅肉"}, {Name: ""}, {Name: "米饭"}, {Name: "烧鹅"}}},
		{Cost: 12, Source: model.SourceDelivery, DishItems: []model.DishItem{{Name: "麻婆豆腐"}}},
	}

	got := Summarize(records)

	assert.InDelta(t, 67.5, got.TotalCost, 1e-9)
	assert.Equal(t, 4, got.Count)
	// 米饭 x3; 麻婆豆腐 and 烧鹅 tie at 2, first-seen order decides.
	assert.Equal(t, []string{"米饭", "麻婆豆腐", "烧鹅"}, got.TopDishes)
	assert.Equal(t, "川菜", got.TopCuisine)
	assert.Equal(t, map[model.SourceType]int{
		model.SourceDelivery: 2,
		model.SourceDineIn:   1,
		model.SourceCooked:   1,
	}, got.SourceCounts)
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)

	assert.Zero(t, got.TotalCost)
	assert.Zero(t, got.Count)
	assert.NotNil(t, got.TopDishes)
	assert.Empty(t, got.TopDishes)
	assert.Empty(t, got.TopCuisine)
}

func TestTastes(t *testing.T) {
	tests := []struct {
		name         string
		tags         [][]model.Taste
		wantDominant string
	}{
		{"no tags", nil, NeutralTaste},
		{"single winner", [][]model.Taste{{model.Spicy}, {model.Spicy, model.Sour}}, "辣"},
		{"tie goes to fixed order", [][]model.Taste{{model.Salty}, {model.Sweet}}, "甜"},
		{"tie sour beats everything", [][]model.Taste{{model.Salty, model.Sour}}, "酸"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []model.MealRecord
			for _, tags := range tt.tags {
				records = append(records, model.MealRecord{Tastes: tags})
			}

			got := Tastes(records)

			assert.Equal(t, tt.wantDominant, got.Dominant)
			assert.Len(t, got.Counts, len(model.Tastes))
			for i, c := range got.Counts {
				assert.Equal(t, model.Tastes[i], c.Taste)
			}
		})
	}
}

func TestFeed(t *testing.T) {
	records := []model.MealRecord{
		{ID: "a", Date: "2026-10-15", MealType: model.Lunch},
		{ID: "b", Date: "2026-10-18", MealType: model.Breakfast},
		{ID: "c", Date: "2026-10-17", MealType: model.Dinner},
		{ID: "d", Date: "2026-10-18", MealType: model.Breakfast},
		{ID: "e", Date: "2026-10-16", MealType: model.LateNight},
	}

	got := Feed(records, false)

	assert.Len(t, got, FeedDays)
	assert.Equal(t, []string{"2026-10-18", "2026-10-17", "2026-10-16"},
		[]string{got[0].Date, got[1].Date, got[2].Date})

	breakfast := got[0].Slots[0]
	assert.Equal(t, model.Breakfast, breakfast.MealType)
	assert.Equal(t, []string{"b", "d"}, []string{breakfast.Records[0].ID, breakfast.Records[1].ID})

	// The late-night record has a day but no column.
	for _, slot := range got[2].Slots {
		assert.Empty(t, slot.Records)
	}

	all := Feed(records, true)
	assert.Len(t, all, 4)
	assert.Equal(t, "2026-10-15", all[3].Date)
}

func TestFeed_Empty(t *testing.T) {
	got := Feed(nil, false)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
