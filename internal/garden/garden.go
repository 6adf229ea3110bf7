// Package garden turns logging activity into the state of the virtual
// companion (a tree or a pet).
//
// Nothing here is stored. The state is a pure function of the record list,
// the chosen nurture type and the current day, recomputed on every read.
package garden

import (
	"time"

	"github.com/sakif/ganfan/internal/model"
)

const (
	// Window is how many of the newest records feed growth.
	Window = 20
	// GrowthPerRecord is the growth one record in the window is worth.
	GrowthPerRecord = 5
	MaxGrowth       = 100

	flowerThreshold = 50
	flowerScale     = 2
	fruitThreshold  = 80
	fruitScale      = 5

	// ThrivingMeals is today's record count at which the garden thrives.
	ThrivingMeals = 3
)

// Compute derives the garden for records as of now.
//
// Growth depends only on how many records sit in the window, so it never
// decreases as records are added and is capped at MaxGrowth. Flowers and
// fruits unlock linearly past their thresholds; at full growth both are 100.
func Compute(records []model.MealRecord, nurture model.NurtureType, now time.Time) model.GardenState {
	if len(records) == 0 {
		return model.GardenState{Type: nurture, Status: model.StatusNormal}
	}

	count := min(len(records), Window)
	growth := min(MaxGrowth, count*GrowthPerRecord)

	state := model.GardenState{
		Type:        nurture,
		Leaves:      growth,
		Energy:      growth,
		Vitality:    growth,
		Status:      Status(records, now),
		LastWatered: records[len(records)-1].CreatedAt.UnixMilli(),
	}
	if growth > flowerThreshold {
		state.Flowers = (growth - flowerThreshold) * flowerScale
	}
	if growth > fruitThreshold {
		state.Fruits = (growth - fruitThreshold) * fruitScale
	}
	return state
}

// Status is thriving with ThrivingMeals or more records dated today, yellow
// with none, normal otherwise.
func Status(records []model.MealRecord, now time.Time) model.GardenStatus {
	today := now.Format(model.DateLayout)

	n := 0
	for _, r := range records {
		if r.Date == today {
			n++
		}
	}

	switch {
	case n >= ThrivingMeals:
		return model.StatusThriving
	case n == 0:
		return model.StatusYellow
	default:
		return model.StatusNormal
	}
}
