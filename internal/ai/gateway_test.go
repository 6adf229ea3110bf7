package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/ganfan/internal/dataurl"
	"github.com/sakif/ganfan/internal/model"
)

var errModelDown = errors.New("model down")

func newTestGateway(fn GeneratorFunc) *Gateway {
	return NewGateway(fn, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func failing() GeneratorFunc {
	return func(context.Context, Request) (Response, error) {
		return Response{}, errModelDown
	}
}

func answering(text string) GeneratorFunc {
	return func(context.Context, Request) (Response, error) {
		return Response{Text: text}, nil
	}
}

// recording captures the last request and answers with text.
func recording(text string, got *Request) GeneratorFunc {
	return func(_ context.Context, req Request) (Response, error) {
		*got = req
		return Response{Text: text}, nil
	}
}

func sampleRecords(n int) []model.MealRecord {
	records := make([]model.MealRecord, n)
	for i := range records {
		records[i] = model.MealRecord{
			Date:      "2026-10-18",
			MealType:  model.Lunch,
			DishItems: []model.DishItem{{Name: "牛肉面", Rating: 5}},
			Cuisine:   "西北菜",
		}
	}
	return records
}

func TestDetectCuisine(t *testing.T) {
	ctx := context.Background()

	t.Run("failure falls back", func(t *testing.T) {
		g := newTestGateway(failing())
		assert.Equal(t, "家常菜", g.DetectCuisine(ctx, []string{"麻婆豆腐"}))
	})

	t.Run("no dishes skips the model", func(t *testing.T) {
		called := false
		g := newTestGateway(func(context.Context, Request) (Response, error) {
			called = true
			return Response{Text: "川菜"}, nil
		})
		assert.Equal(t, DefaultCuisine, g.DetectCuisine(ctx, nil))
		assert.False(t, called)
	})

	t.Run("blank answer falls back", func(t *testing.T) {
		g := newTestGateway(answering("  \n"))
		assert.Equal(t, DefaultCuisine, g.DetectCuisine(ctx, []string{"麻婆豆腐"}))
	})

	t.Run("answer is trimmed", func(t *testing.T) {
		var req Request
		g := newTestGateway(recording(" 川菜\n", &req))
		assert.Equal(t, "川菜", g.DetectCuisine(ctx, []string{"麻婆豆腐", "回锅肉"}))
		require.Len(t, req.Parts, 1)
		assert.Contains(t, req.Parts[0].Text, "麻婆豆腐, 回锅肉")
		assert.Nil(t, req.Schema)
	})
}

func TestAnalyzeMealImage(t *testing.T) {
	ctx := context.Background()
	photo := "data:image/png;base64,aGVsbG8="

	t.Run("parses structured answer", func(t *testing.T) {
		var req Request
		g := newTestGateway(recording(`{"dishes":[{"name":"烧鹅"}],"note":"油亮","cuisine":"粤菜"}`, &req))

		got := g.AnalyzeMealImage(ctx, photo)

		assert.Equal(t, model.MealScan{Dishes: []model.ScannedDish{{Name: "烧鹅"}}, Note: "油亮", Cuisine: "粤菜"}, got)
		require.Len(t, req.Parts, 2)
		require.NotNil(t, req.Parts[0].Inline)
		assert.Equal(t, dataurl.Image{MIME: "image/png", Data: "aGVsbG8="}, *req.Parts[0].Inline)
		assert.Same(t, scanSchema, req.Schema)
	})

	for name, gen := range map[string]GeneratorFunc{
		"error":     failing(),
		"not json":  answering("a tasty photo"),
		"no dishes": answering(`{"dishes":[],"note":"","cuisine":""}`),
		"blank":     answering(""),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, FallbackScan, newTestGateway(gen).AnalyzeMealImage(ctx, photo))
		})
	}
}

func TestDetailedAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("empty records", func(t *testing.T) {
		got := newTestGateway(failing()).DetailedAnalysis(ctx, nil, model.PeriodWeek)
		assert.Equal(t, "暂无数据，快去记录你的第一顿美食吧！", got.Summary)
		assert.Equal(t, model.Nutrients{Carbs: 33, Protein: 33, Fiber: 33}, got.Nutrients)
	})

	t.Run("failure", func(t *testing.T) {
		got := newTestGateway(failing()).DetailedAnalysis(ctx, sampleRecords(2), model.PeriodMonth)
		assert.Equal(t, "分析暂时迷路了。", got.Summary)
		assert.Equal(t, float64(50), got.VarietyScore)
		assert.Equal(t, model.Nutrients{Carbs: 50, Protein: 50, Fiber: 50}, got.Nutrients)
	})

	t.Run("clamps scores", func(t *testing.T) {
		var req Request
		answer := `{"summary":"不错","nutritionalAdvice":"a","stomachBurden":"b","varietyScore":140,
			"ingredientInsight":"c","rhythmAnalysis":"d","nutrients":{"carbs":-5,"protein":60,"fiber":101}}`
		got := newTestGateway(recording(answer, &req)).DetailedAnalysis(ctx, sampleRecords(2), model.PeriodWeek)

		assert.Equal(t, "不错", got.Summary)
		assert.Equal(t, float64(100), got.VarietyScore)
		assert.Equal(t, model.Nutrients{Carbs: 0, Protein: 60, Fiber: 100}, got.Nutrients)
		assert.Contains(t, req.Parts[0].Text, `"dishes":["牛肉面"]`)
		assert.Same(t, analysisSchema, req.Schema)
	})
}

func TestUserTitle(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "萌新干饭人", newTestGateway(answering("x")).UserTitle(ctx, nil))
	assert.Equal(t, "优质美食家", newTestGateway(failing()).UserTitle(ctx, sampleRecords(1)))
	assert.Equal(t, "优质美食家", newTestGateway(answering(" ")).UserTitle(ctx, sampleRecords(1)))
	assert.Equal(t, "面食小王子", newTestGateway(answering("面食小王子\n")).UserTitle(ctx, sampleRecords(1)))
}

func TestDietHealth(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "记录太少，继续加油干饭！", newTestGateway(answering("x")).DietHealth(ctx, sampleRecords(2)))
	assert.Equal(t, "干饭虽好，规律更重要。", newTestGateway(failing()).DietHealth(ctx, sampleRecords(3)))
	assert.Equal(t, "规律干饭，益寿延年。", newTestGateway(answering("")).DietHealth(ctx, sampleRecords(3)))
	assert.Equal(t, "午饭准时，胃口开心", newTestGateway(answering("午饭准时，胃口开心")).DietHealth(ctx, sampleRecords(3)))
}

func TestMealInspiration(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "人生苦短，不如干饭。", newTestGateway(failing()).MealInspiration(ctx, sampleRecords(1)))
	assert.Equal(t, "今天也要记得好好吃饭哦！", newTestGateway(answering("")).MealInspiration(ctx, sampleRecords(1)))

	t.Run("uses the last five records", func(t *testing.T) {
		records := sampleRecords(7)
		records[0].DishItems = []model.DishItem{{Name: "最早的饭", Rating: 3}}
		records[6].DishItems = []model.DishItem{{Name: "最新的饭", Rating: 3}}

		var req Request
		newTestGateway(recording("吃好喝好", &req)).MealInspiration(ctx, records)

		prompt := req.Parts[0].Text
		assert.NotContains(t, prompt, "最早的饭")
		assert.Contains(t, prompt, "午餐: 最新的饭")
		assert.Equal(t, 5, strings.Count(prompt, "午餐: "))
	})
}

func TestDishRange(t *testing.T) {
	ctx := context.Background()

	t.Run("splits and strips numbering", func(t *testing.T) {
		var req Request
		got := newTestGateway(recording("1.酸菜鱼，2. 酸辣粉, 糖醋排骨,，", &req)).DishRange(ctx, []model.Taste{model.Sour, model.Spicy})

		assert.Equal(t, []string{"酸菜鱼", "酸辣粉", "糖醋排骨"}, got)
		assert.Contains(t, req.Parts[0].Text, "酸、辣")
	})

	t.Run("no filter", func(t *testing.T) {
		var req Request
		newTestGateway(recording("白切鸡", &req)).DishRange(ctx, nil)
		assert.Contains(t, req.Parts[0].Text, "不限口味")
	})

	t.Run("failure", func(t *testing.T) {
		got := newTestGateway(failing()).DishRange(ctx, nil)
		assert.Equal(t, []string{"红烧肉", "宫保鸡丁", "麻婆豆腐", "酸辣粉", "回锅肉"}, got)

		got[0] = "changed"
		assert.Equal(t, "红烧肉", FallbackDishRange[0])
	})
}

func TestBrainstormMeal(t *testing.T) {
	ctx := context.Background()

	got := newTestGateway(answering(`{"dishName":"番茄牛腩","note":"酸甜开胃"}`)).BrainstormMeal(ctx, "晚餐")
	assert.Equal(t, model.Brainstorm{DishName: "番茄牛腩", Note: "酸甜开胃"}, got)

	assert.Equal(t, FallbackBrainstorm, newTestGateway(failing()).BrainstormMeal(ctx, "晚餐"))
	assert.Equal(t, FallbackBrainstorm, newTestGateway(answering(`{"note":"only"}`)).BrainstormMeal(ctx, "晚餐"))

	var req Request
	newTestGateway(recording(`{}`, &req)).BrainstormMeal(ctx, "")
	assert.Contains(t, req.Parts[0].Text, "我的餐点")
}

func TestGuardianImage(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the first image as a data url", func(t *testing.T) {
		var req Request
		g := newTestGateway(func(_ context.Context, r Request) (Response, error) {
			req = r
			return Response{Images: []dataurl.Image{{MIME: "image/png", Data: "cGV0"}}}, nil
		})

		got := g.GuardianImage(ctx, model.GuardianCat, "小明", "data:image/jpeg;base64,Zm9vZA==")

		assert.Equal(t, "data:image/png;base64,cGV0", got)
		assert.True(t, req.Image)
		require.Len(t, req.Parts, 2)
		assert.Contains(t, req.Parts[0].Text, "cat")
		assert.Contains(t, req.Parts[0].Text, "小明")
		assert.Equal(t, "Zm9vZA==", req.Parts[1].Inline.Data)
	})

	t.Run("no reference photo", func(t *testing.T) {
		var req Request
		g := newTestGateway(func(_ context.Context, r Request) (Response, error) {
			req = r
			return Response{Images: []dataurl.Image{{MIME: "image/png", Data: "cGV0"}}}, nil
		})

		g.GuardianImage(ctx, model.GuardianDog, "小明", "")
		assert.Len(t, req.Parts, 1)
	})

	assert.Empty(t, newTestGateway(failing()).GuardianImage(ctx, model.GuardianDog, "小明", ""))
	assert.Empty(t, newTestGateway(answering("sorry, text only")).GuardianImage(ctx, model.GuardianDog, "小明", ""))
}
