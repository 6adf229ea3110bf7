package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/ganfan/internal/ai"
	"github.com/sakif/ganfan/internal/apperror"
	"github.com/sakif/ganfan/internal/garden"
	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/repository"
	"github.com/sakif/ganfan/internal/stats"
)

// Placeholders shown before a user has logged anything.
const (
	HealthTipPending   = "悄悄观察你的干饭规律..."
	InspirationPending = "正在构思美味的句子..."
)

// PreferenceReader is the slice of UserService the insight screens need.
type PreferenceReader interface {
	Preferences(ctx context.Context, userID string) model.Preferences
}

// InsightService derives the garden, statistics and AI captions from a
// user's journal. Nothing it computes is stored.
type InsightService struct {
	meals  repository.MealRepository
	prefs  PreferenceReader
	ai     *ai.Gateway
	now    Clock
	logger *slog.Logger
}

func NewInsightService(meals repository.MealRepository, prefs PreferenceReader, gateway *ai.Gateway, now Clock, logger *slog.Logger) *InsightService {
	if now == nil {
		now = time.Now
	}
	return &InsightService{
		meals:  meals,
		prefs:  prefs,
		ai:     gateway,
		now:    now,
		logger: logger,
	}
}

func (s *InsightService) records(ctx context.Context, userID string) ([]model.MealRecord, error) {
	records, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return records, nil
}

// Garden is the current state of the user's tree or pet.
func (s *InsightService) Garden(ctx context.Context, userID string) (model.GardenState, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return model.GardenState{}, err
	}
	nurture := s.prefs.Preferences(ctx, userID).NurtureType
	return garden.Compute(records, nurture, s.now()), nil
}

// Interact waters, feeds or pets the companion and returns its reply.
func (s *InsightService) Interact(ctx context.Context, userID string, action garden.Action) (garden.Interaction, error) {
	if !action.Valid() {
		return garden.Interaction{}, apperror.ValidationFailed("action",
			fmt.Sprintf("action must be %q, %q or %q", garden.ActionWater, garden.ActionFeed, garden.ActionPet))
	}
	nurture := s.prefs.Preferences(ctx, userID).NurtureType
	return garden.Interact(nurture, action, nil), nil
}

// StatsReport is everything the analysis screen computes locally.
type StatsReport struct {
	stats.Summary
	Missing []stats.MissingDay `json:"missing"`
	Tastes  stats.TasteProfile `json:"tastes"`
}

func (s *InsightService) Stats(ctx context.Context, userID string) (*StatsReport, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatsReport{
		Summary: stats.Summarize(records),
		Missing: stats.MissingMeals(records, s.now()),
		Tastes:  stats.Tastes(records),
	}, nil
}

// Analysis asks the model for a dietitian report over the whole journal. An
// empty period means a week.
func (s *InsightService) Analysis(ctx context.Context, userID string, period model.AnalysisPeriod) (model.AnalysisResult, error) {
	if period == "" {
		period = model.PeriodWeek
	}
	if !period.Valid() {
		return model.AnalysisResult{}, apperror.ValidationFailed("period", "period must be week, month or year")
	}

	records, err := s.records(ctx, userID)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return s.ai.DetailedAnalysis(ctx, records, period), nil
}

// Tips fetches the title, health tip and inspiration concurrently. The last
// two keep their placeholders until the user has logged a meal.
func (s *InsightService) Tips(ctx context.Context, userID string) (model.Tips, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return model.Tips{}, err
	}

	tips := model.Tips{
		HealthTip:   HealthTipPending,
		Inspiration: InspirationPending,
	}

	var wg sync.WaitGroup
	wg.Go(func() { tips.Title = s.ai.UserTitle(ctx, records) })
	if len(records) > 0 {
		wg.Go(func() { tips.HealthTip = s.ai.DietHealth(ctx, records) })
		wg.Go(func() { tips.Inspiration = s.ai.MealInspiration(ctx, records) })
	}
	wg.Wait()

	return tips, nil
}
