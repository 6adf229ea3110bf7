package model

// Nutrients are 0..100 balance scores, not grams.
type Nutrients struct {
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fiber   float64 `json:"fiber"`
}

// AnalysisResult is the dietitian-style report produced by the AI gateway.
// It is advisory and never persisted.
type AnalysisResult struct {
	Summary           string    `json:"summary"`
	NutritionalAdvice string    `json:"nutritionalAdvice"`
	StomachBurden     string    `json:"stomachBurden"`
	VarietyScore      float64   `json:"varietyScore"`
	IngredientInsight string    `json:"ingredientInsight"`
	RhythmAnalysis    string    `json:"rhythmAnalysis"`
	Nutrients         Nutrients `json:"nutrients"`
}

// AnalysisPeriod is the window the client asks an analysis for.
type AnalysisPeriod string

const (
	PeriodWeek  AnalysisPeriod = "week"
	PeriodMonth AnalysisPeriod = "month"
	PeriodYear  AnalysisPeriod = "year"
)

func (p AnalysisPeriod) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// ScannedDish is a dish recognised in a photo.
type ScannedDish struct {
	Name string `json:"name"`
}

// MealScan is the result of analysing a meal photo.
type MealScan struct {
	Dishes  []ScannedDish `json:"dishes"`
	Note    string        `json:"note"`
	Cuisine string        `json:"cuisine"`
}

// Brainstorm is a suggested dish with a playful pitch.
type Brainstorm struct {
	DishName string `json:"dishName"`
	Note     string `json:"note"`
}

// Tips are the short captions shown around the journal.
type Tips struct {
	Title       string `json:"title"`
	HealthTip   string `json:"healthTip"`
	Inspiration string `json:"inspiration"`
}
