// Package stats holds the single-pass calculators behind the analysis and
// home screens. Every function is pure and recomputed per request.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/sakif/ganfan/internal/model"
)

const (
	// MissingWindowDays is how many days, today included, the missing-meal
	// report looks back.
	MissingWindowDays = 3
	// TopDishCount caps Summary.TopDishes.
	TopDishCount = 3
	// NeutralTaste is the dominant taste of a journal with no taste tags.
	NeutralTaste = "平和"
	// FeedDays is how many distinct dates the feed shows unless asked for all.
	FeedDays = 3
)

// MissingDay lists the main meals not logged on Date.
type MissingDay struct {
	Date    string           `json:"date"`
	Types   []model.MealType `json:"types"`
	IsToday bool             `json:"isToday"`
}

// MissingMeals walks today and the previous two days, newest first, and
// reports each day that lacks at least one of breakfast, lunch or dinner.
// Days with all three logged are omitted.
func MissingMeals(records []model.MealRecord, now time.Time) []MissingDay {
	report := []MissingDay{}

	for i := 0; i < MissingWindowDays; i++ {
		date := now.AddDate(0, 0, -i).Format(model.DateLayout)

		logged := map[model.MealType]bool{}
		for _, r := range records {
			if r.Date == date {
				logged[r.MealType] = true
			}
		}

		var missing []model.MealType
		for _, t := range model.MainMealTypes {
			if !logged[t] {
				missing = append(missing, t)
			}
		}
		if len(missing) > 0 {
			report = append(report, MissingDay{Date: date, Types: missing, IsToday: i == 0})
		}
	}
	return report
}

// Summary is the spending and variety overview.
type Summary struct {
	TotalCost    float64                  `json:"totalCost"`
	Count        int                      `json:"count"`
	TopDishes    []string                 `json:"topDishes"`
	TopCuisine   string                   `json:"topCuisine"`
	SourceCounts map[model.SourceType]int `json:"sourceCounts"`
}

// Summarize totals cost and ranks dishes and cuisines by frequency. Ties in
// a ranking keep the order in which names were first seen.
func Summarize(records []model.MealRecord) Summary {
	s := Summary{
		Count:        len(records),
		SourceCounts: map[model.SourceType]int{},
	}

	dishes := newCounter()
	cuisines := newCounter()
	for _, r := range records {
		s.TotalCost += r.Cost
		s.SourceCounts[r.Source]++
		for _, d := range r.DishItems {
			if d.Name != "" {
				dishes.add(d.Name)
			}
		}
		if r.Cuisine != "" {
			cuisines.add(r.Cuisine)
		}
	}

	s.TopDishes = dishes.top(TopDishCount)
	if top := cuisines.top(1); len(top) > 0 {
		s.TopCuisine = top[0]
	}
	return s
}

// TasteCount is the number of records tagged with Taste.
type TasteCount struct {
	Taste model.Taste `json:"taste"`
	Count int         `json:"count"`
}

// TasteProfile is the distribution of taste tags in model.Tastes order.
type TasteProfile struct {
	Counts   []TasteCount `json:"counts"`
	Dominant string       `json:"dominant"`
}

// Tastes counts tag occurrences. The dominant taste is the most frequent one,
// the earlier one in model.Tastes on a tie, and NeutralTaste when nothing is
// tagged.
func Tastes(records []model.MealRecord) TasteProfile {
	counts := make(map[model.Taste]int, len(model.Tastes))
	for _, r := range records {
		for _, t := range r.Tastes {
			counts[t]++
		}
	}

	p := TasteProfile{Counts: make([]TasteCount, 0, len(model.Tastes)), Dominant: NeutralTaste}
	best := 0
	for _, t := range model.Tastes {
		c := counts[t]
		p.Counts = append(p.Counts, TasteCount{Taste: t, Count: c})
		if c > best {
			best = c
			p.Dominant = string(t)
		}
	}
	return p
}

// counter ranks strings by frequency while remembering first-seen order.
type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter {
	return &counter{n: map[string]int{}}
}

func (c *counter) add(name string) {
	if _, seen := c.n[name]; !seen {
		c.order = append(c.order, name)
	}
	c.n[name]++
}

func (c *counter) top(k int) []string {
	ranked := slices.Clone(c.order)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return cmp.Compare(c.n[b], c.n[a])
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	if ranked == nil {
		ranked = []string{}
	}
	return ranked
}
