package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the day-granularity format of MealRecord.Date.
const DateLayout = "2006-01-02"

// MealType is one of the five fixed meal slots.
type MealType string

const (
	Breakfast    MealType = "早餐"
	Lunch        MealType = "午餐"
	AfternoonTea MealType = "下午茶"
	Dinner       MealType = "晚餐"
	LateNight    MealType = "宵夜"
)

// MealTypes lists all slots in the order of a day.
var MealTypes = []MealType{Breakfast, Lunch, AfternoonTea, Dinner, LateNight}

// MainMealTypes are the slots that count as "missed" when absent.
var MainMealTypes = []MealType{Breakfast, Lunch, Dinner}

func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if t == m {
			return true
		}
	}
	return false
}

// SourceType says where a meal came from.
type SourceType string

const (
	SourceDelivery SourceType = "外卖"
	SourceDineIn   SourceType = "堂食"
	SourceCooked   SourceType = "烹饪"
)

var SourceTypes = []SourceType{SourceDelivery, SourceDineIn, SourceCooked}

func (s SourceType) Valid() bool {
	for _, t := range SourceTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Taste is a flavor tag. Tastes is also the tie-break order of taste profiles.
type Taste string

const (
	Sour   Taste = "酸"
	Sweet  Taste = "甜"
	Bitter Taste = "苦"
	Spicy  Taste = "辣"
	Salty  Taste = "咸"
)

var Tastes = []Taste{Sour, Sweet, Bitter, Spicy, Salty}

func (t Taste) Valid() bool {
	for _, v := range Tastes {
		if v == t {
			return true
		}
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 5
)

// DishItem is one dish eaten in a meal with the eater's 1..5 rating.
type DishItem struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// MealRecord is one logged meal. Records are immutable once created and are
// kept in insertion order per user. On the wire CreatedAt is unix
// milliseconds, like GardenState.LastWatered.
type MealRecord struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	Date      string     `json:"date"`
	MealType  MealType   `json:"mealType"`
	Source    SourceType `json:"source"`
	Companion []string   `json:"companion"`
	DishItems []DishItem `json:"dishItems"`
	Tastes    []Taste    `json:"tastes"`
	Cost      float64    `json:"cost"`
	Photos    []string   `json:"photos"`
	Note      string     `json:"note"`
	Cuisine   string     `json:"cuisine"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DishNames returns the non-empty dish names of the record.
func (r MealRecord) DishNames() []string {
	names := make([]string, 0, len(r.DishItems))
	for _, d := range r.DishItems {
		if d.Name != "" {
			names = append(names, d.Name)
		}
	}
	return names
}

type mealRecordJSON MealRecord

func (r MealRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		mealRecordJSON
		CreatedAt int64 `json:"createdAt"`
	}{mealRecordJSON(r), r.CreatedAt.UnixMilli()})
}

func (r *MealRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		*mealRecordJSON
		CreatedAt int64 `json:"createdAt"`
	}
	aux.mealRecordJSON = (*mealRecordJSON)(r)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CreatedAt = time.UnixMilli(aux.CreatedAt)
	return nil
}

// MealInput is what a client submits to log a meal. Server-owned fields
// (id, cuisine, createdAt) are absent.
type MealInput struct {
	Date      string     `json:"date"`
	MealType  MealType   `json:"mealType"`
	Source    SourceType `json:"source"`
	Companion []string   `json:"companion"`
	DishItems []DishItem `json:"dishItems"`
	Tastes    []Taste    `json:"tastes"`
	Cost      float64    `json:"cost"`
	Photos    []string   `json:"photos"`
	Note      string     `json:"note"`
}
