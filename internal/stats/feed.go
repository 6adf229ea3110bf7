package stats

import (
	"slices"
	"strings"

	"github.com/sakif/ganfan/internal/model"
)

// FeedSlot holds the records of one main meal slot on one day.
type FeedSlot struct {
	MealType model.MealType     `json:"mealType"`
	Records  []model.MealRecord `json:"records"`
}

// FeedDay is one row of the home grid.
type FeedDay struct {
	Date  string     `json:"date"`
	Slots []FeedSlot `json:"slots"`
}

// Feed groups records into the home grid: newest date first, one column per
// main meal slot. Records in other slots (afternoon tea, late night) are
// not shown. Unless all is set only the FeedDays most recent dates appear.
func Feed(records []model.MealRecord, all bool) []FeedDay {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.MealRecord) int {
		return strings.Compare(b.Date, a.Date)
	})

	var dates []string
	for _, r := range sorted {
		if len(dates) == 0 || dates[len(dates)-1] != r.Date {
			dates = append(dates, r.Date)
		}
	}
	if !all && len(dates) > FeedDays {
		dates = dates[:FeedDays]
	}

	days := make([]FeedDay, 0, len(dates))
	for _, date := range dates {
		day := FeedDay{Date: date, Slots: make([]FeedSlot, 0, len(model.MainMealTypes))}
		for _, slot := range model.MainMealTypes {
			fs := FeedSlot{MealType: slot, Records: []model.MealRecord{}}
			for _, r := range sorted {
				if r.Date == date && r.MealType == slot {
					fs.Records = append(fs.Records, r)
				}
			}
			day.Slots = append(day.Slots, fs)
		}
		days = append(days, day)
	}
	return days
}
