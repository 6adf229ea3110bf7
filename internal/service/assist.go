package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/ganfan/internal/ai"
	"github.com/sakif/ganfan/internal/apperror"
	"github.com/sakif/ganfan/internal/dataurl"
	"github.com/sakif/ganfan/internal/model"
)

// AssistService backs the AI helpers of the meal form. Model failures never
// surface: the gateway answers with its fallbacks.
type AssistService struct {
	ai *ai.Gateway
}

func NewAssistService(gateway *ai.Gateway) *AssistService {
	return &AssistService{ai: gateway}
}

// Cuisine labels the dishes typed so far. Blank names are ignored.
func (s *AssistService) Cuisine(ctx context.Context, dishes []string) string {
	names := make([]string, 0, len(dishes))
	for _, d := range dishes {
		if d = strings.TrimSpace(d); d != "" {
			names = append(names, d)
		}
	}
	return s.ai.DetectCuisine(ctx, names)
}

// Scan recognises the dishes on a photo.
func (s *AssistService) Scan(ctx context.Context, photo string) (model.MealScan, error) {
	if !dataurl.IsDataURL(photo) {
		return model.MealScan{}, apperror.ValidationFailed("photo", "photo must be a data URL")
	}
	return s.ai.AnalyzeMealImage(ctx, photo), nil
}

// Brainstorm suggests a dish for mealType, or for any meal when it is empty.
func (s *AssistService) Brainstorm(ctx context.Context, mealType model.MealType) (model.Brainstorm, error) {
	if mealType != "" && !mealType.Valid() {
		return model.Brainstorm{}, apperror.ValidationFailed("mealType", fmt.Sprintf("unknown meal type %q", mealType))
	}
	return s.ai.BrainstormMeal(ctx, string(mealType)), nil
}

// DishRange lists lucky-draw candidates matching the taste filters.
func (s *AssistService) DishRange(ctx context.Context, tastes []model.Taste) ([]string, error) {
	for _, t := range tastes {
		if !t.Valid() {
			return nil, apperror.ValidationFailed("tastes", fmt.Sprintf("unknown taste %q", t))
		}
	}
	return s.ai.DishRange(ctx, tastes), nil
}
