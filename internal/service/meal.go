package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sakif/ganfan/internal/ai"
	"github.com/sakif/ganfan/internal/apperror"
	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/photo"
	"github.com/sakif/ganfan/internal/repository"
	"github.com/sakif/ganfan/internal/stats"
)

// MealService logs meals and reads them back. Records are append-only.
type MealService struct {
	meals  repository.MealRepository
	photos photo.Store
	ai     *ai.Gateway
	now    Clock
	logger *slog.Logger
}

func NewMealService(meals repository.MealRepository, photos photo.Store, gateway *ai.Gateway, now Clock, logger *slog.Logger) *MealService {
	if now == nil {
		now = time.Now
	}
	return &MealService{
		meals:  meals,
		photos: photos,
		ai:     gateway,
		now:    now,
		logger: logger,
	}
}

// Create validates in, stores its photos, labels its cuisine and appends the
// record to the user's journal.
func (s *MealService) Create(ctx context.Context, userID string, in model.MealInput) (*model.MealRecord, error) {
	record, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	record.UserID = userID

	record.Photos, err = photo.PutAll(ctx, s.photos, userID, record.Photos)
	if err != nil {
		s.logger.Error("failed to store meal photos",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("照片上传失败，请稍后重试", err)
	}

	record.Cuisine = s.ai.DetectCuisine(ctx, record.DishNames())
	record.CreatedAt = s.now()

	if err := s.meals.Create(ctx, record); err != nil {
		s.logger.Error("failed to create meal",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating meal: %w", err)
	}

	s.logger.Info("meal logged",
		slog.String("id", record.ID),
		slog.String("userID", userID),
		slog.String("mealType", string(record.MealType)),
		slog.String("cuisine", record.Cuisine),
	)
	return record, nil
}

// normalize trims and checks the input. Blank dish rows and companion names
// are dropped; a zero rating means the default of five stars.
func (s *MealService) normalize(in model.MealInput) (*model.MealRecord, error) {
	if in.Date == "" || in.MealType == "" || in.Source == "" {
		return nil, apperror.ValidationFailed("date", "请填写完整的时间、餐次和来源哦！")
	}
	if _, err := time.ParseInLocation(model.DateLayout, in.Date, time.Local); err != nil {
		return nil, apperror.ValidationFailed("date", "date must look like 2006-01-02")
	}
	if !in.MealType.Valid() {
		return nil, apperror.ValidationFailed("mealType", fmt.Sprintf("unknown meal type %q", in.MealType))
	}
	if !in.Source.Valid() {
		return nil, apperror.ValidationFailed("source", fmt.Sprintf("unknown source %q", in.Source))
	}
	if in.Cost < 0 || math.IsNaN(in.Cost) || math.IsInf(in.Cost, 0) {
		return nil, apperror.ValidationFailed("cost", "cost must be a non-negative number")
	}

	companions := make([]string, 0, len(in.Companion))
	for _, c := range in.Companion {
		if c = strings.TrimSpace(c); c != "" {
			companions = append(companions, c)
		}
	}
	if len(companions) == 0 {
		return nil, apperror.ValidationFailed("companion", "请至少选择一位伙伴哦！")
	}

	dishes := make([]model.DishItem, 0, len(in.DishItems))
	for _, d := range in.DishItems {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}
		if d.Rating == 0 {
			d.Rating = model.MaxRating
		}
		if d.Rating < model.MinRating || d.Rating > model.MaxRating {
			return nil, apperror.ValidationFailed("dishItems",
				fmt.Sprintf("rating of %q must be between %d and %d", d.Name, model.MinRating, model.MaxRating))
		}
		dishes = append(dishes, d)
	}

	tastes := make([]model.Taste, 0, len(in.Tastes))
	for _, t := range in.Tastes {
		if !t.Valid() {
			return nil, apperror.ValidationFailed("tastes", fmt.Sprintf("unknown taste %q", t))
		}
		tastes = append(tastes, t)
	}

	return &model.MealRecord{
		Date:      in.Date,
		MealType:  in.MealType,
		Source:    in.Source,
		Companion: companions,
		DishItems: dishes,
		Tastes:    tastes,
		Cost:      in.Cost,
		Photos:    in.Photos,
		Note:      strings.TrimSpace(in.Note),
	}, nil
}

// List returns the user's records in the order they were logged.
func (s *MealService) List(ctx context.Context, userID string) ([]model.MealRecord, error) {
	records, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return records, nil
}

// Feed is the home grid over the user's records.
func (s *MealService) Feed(ctx context.Context, userID string, all bool) ([]stats.FeedDay, error) {
	records, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.Feed(records, all), nil
}
