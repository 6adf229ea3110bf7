package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/ganfan/internal/dataurl"
	"github.com/sakif/ganfan/internal/model"
)

// Fallbacks returned when the model fails or answers with nothing usable.
const (
	DefaultCuisine = "家常菜"

	TitleNewcomer = "萌新干饭人"
	TitleFallback = "优质美食家"

	HealthTooFew   = "记录太少，继续加油干饭！"
	HealthFallback = "干饭虽好，规律更重要。"
	HealthBlank    = "规律干饭，益寿延年。"

	InspirationFallback = "人生苦短，不如干饭。"
	InspirationBlank    = "今天也要记得好好吃饭哦！"
)

// minHealthRecords is how many records a health tip needs.
const minHealthRecords = 3

var (
	// EmptyAnalysis is returned when there is nothing to analyse.
	EmptyAnalysis = model.AnalysisResult{
		Summary:           "暂无数据，快去记录你的第一顿美食吧！",
		NutritionalAdvice: "保持饮食多样化是健康的基础。",
		StomachBurden:     "规律进食对肠胃最友好。",
		VarietyScore:      0,
		IngredientInsight: "建议尝试不同种类的食材。",
		RhythmAnalysis:    "暂时无法分析节奏。",
		Nutrients:         model.Nutrients{Carbs: 33, Protein: 33, Fiber: 33},
	}

	// FallbackAnalysis is returned when the analysis call fails.
	FallbackAnalysis = model.AnalysisResult{
		Summary:           "分析暂时迷路了。",
		NutritionalAdvice: "多吃蔬果，少油少盐。",
		StomachBurden:     "清淡饮食有益肠胃。",
		VarietyScore:      50,
		IngredientInsight: "每顿饭都是新的开始。",
		RhythmAnalysis:    "按时干饭！",
		Nutrients:         model.Nutrients{Carbs: 50, Protein: 50, Fiber: 50},
	}

	FallbackScan = model.MealScan{
		Dishes:  []model.ScannedDish{{Name: "美味餐点"}},
		Note:    "看着就很有食欲！",
		Cuisine: "中式料理",
	}

	FallbackBrainstorm = model.Brainstorm{
		DishName: "热气腾腾的小面",
		Note:     "没什么是一顿美食解决不了的，如果有，就两顿！",
	}

	FallbackDishRange = []string{"红烧肉", "宫保鸡丁", "麻婆豆腐", "酸辣粉", "回锅肉"}
)

var errBlankAnswer = errors.New("ai: blank answer")

var (
	dishSeparator = regexp.MustCompile(`[，,]`)
	leadingIndex  = regexp.MustCompile(`^[\d.]+`)
)

// Gateway exposes one method per AI-assisted feature. Methods never return
// errors: failures are logged and answered with the fallbacks above.
type Gateway struct {
	gen    Generator
	logger *slog.Logger
}

func NewGateway(gen Generator, logger *slog.Logger) *Gateway {
	return &Gateway{gen: gen, logger: logger}
}

// DetectCuisine labels a meal from its dish names.
func (g *Gateway) DetectCuisine(ctx context.Context, dishes []string) string {
	if len(dishes) == 0 {
		return DefaultCuisine
	}

	prompt := fmt.Sprintf("判断菜系：%s。仅输出菜系名称。", strings.Join(dishes, ", "))
	text, err := g.text(ctx, prompt)
	if err != nil {
		g.fallback("detect cuisine", err)
		return DefaultCuisine
	}
	return text
}

// AnalyzeMealImage recognises the dishes on a meal photo.
func (g *Gateway) AnalyzeMealImage(ctx context.Context, photo string) model.MealScan {
	req := Request{
		Parts: []Part{
			Inline(dataurl.Parse(photo)),
			Text("分析这张美食照片。识别照片中的菜品名称，给出一段简短幽默的点评，并判断所属菜系。"),
		},
		Schema: scanSchema,
	}

	var scan model.MealScan
	if err := g.structured(ctx, req, &scan); err != nil {
		g.fallback("analyze meal image", err)
		return cloneScan(FallbackScan)
	}
	if len(scan.Dishes) == 0 {
		g.fallback("analyze meal image", errors.New("ai: no dishes recognised"))
		return cloneScan(FallbackScan)
	}
	return scan
}

type analysisMeal struct {
	Date    string         `json:"date"`
	Type    model.MealType `json:"type"`
	Dishes  []string       `json:"dishes"`
	Cuisine string         `json:"cuisine"`
}

// DetailedAnalysis is a dietitian-style report over records.
func (g *Gateway) DetailedAnalysis(ctx context.Context, records []model.MealRecord, period model.AnalysisPeriod) model.AnalysisResult {
	if len(records) == 0 {
		return EmptyAnalysis
	}

	meals := make([]analysisMeal, 0, len(records))
	for _, r := range records {
		meals = append(meals, analysisMeal{Date: r.Date, Type: r.MealType, Dishes: r.DishNames(), Cuisine: r.Cuisine})
	}
	data, err := json.Marshal(meals)
	if err != nil {
		g.fallback("detailed analysis", err)
		return FallbackAnalysis
	}

	prompt := fmt.Sprintf(`你是一位专业的营养师。请分析用户最近一%s的饮食：%s。
严格按 JSON 返回：summary 总体评价；nutritionalAdvice 营养均衡建议；stomachBurden 肠胃负担评估；
varietyScore 多样性评分 (0-100)；ingredientInsight 食材重复度分析；rhythmAnalysis 饮食规律性；
nutrients 对象，含 carbs、protein、fiber 三项比例评分 (0-100)。`, periodLabel(period), data)

	var result model.AnalysisResult
	if err := g.structured(ctx, Request{Parts: []Part{Text(prompt)}, Schema: analysisSchema}, &result); err != nil {
		g.fallback("detailed analysis", err)
		return FallbackAnalysis
	}
	if result.Summary == "" {
		g.fallback("detailed analysis", errors.New("ai: analysis without summary"))
		return FallbackAnalysis
	}

	result.VarietyScore = clampScore(result.VarietyScore)
	result.Nutrients.Carbs = clampScore(result.Nutrients.Carbs)
	result.Nutrients.Protein = clampScore(result.Nutrients.Protein)
	result.Nutrients.Fiber = clampScore(result.Nutrients.Fiber)
	return result
}

// UserTitle is a cute 4-6 character title based on recent cuisines.
func (g *Gateway) UserTitle(ctx context.Context, records []model.MealRecord) string {
	if len(records) == 0 {
		return TitleNewcomer
	}

	cuisines := make([]string, 0, 10)
	for _, r := range lastN(records, 10) {
		cuisines = append(cuisines, r.Cuisine)
	}

	prompt := fmt.Sprintf("根据用户吃过的菜系：[%s]，生成一个4-6字的专属Q萌称号。只输出称号。", strings.Join(cuisines, ";"))
	text, err := g.text(ctx, prompt)
	if err != nil {
		g.fallback("user title", err)
		return TitleFallback
	}
	return text
}

// DietHealth is a one-line humorous reminder about meal regularity.
func (g *Gateway) DietHealth(ctx context.Context, records []model.MealRecord) string {
	if len(records) < minHealthRecords {
		return HealthTooFew
	}

	slots := make([]string, 0, 10)
	for _, r := range lastN(records, 10) {
		slots = append(slots, r.Date+" "+string(r.MealType))
	}

	prompt := fmt.Sprintf("根据最近的干饭时间表：[%s]。分析饮食规律性，用一句话给出幽默的健康提醒（20字以内）。", strings.Join(slots, ", "))
	text, err := g.text(ctx, prompt)
	switch {
	case errors.Is(err, errBlankAnswer):
		return HealthBlank
	case err != nil:
		g.fallback("diet health", err)
		return HealthFallback
	}
	return text
}

// MealInspiration is a short upbeat suggestion based on the last five meals.
func (g *Gateway) MealInspiration(ctx context.Context, records []model.MealRecord) string {
	lines := make([]string, 0, 5)
	for _, r := range lastN(records, 5) {
		lines = append(lines, fmt.Sprintf("%s: %s", r.MealType, strings.Join(r.DishNames(), ", ")))
	}

	prompt := fmt.Sprintf(`你是一个美食专家。以下是用户最近的饮食记录：
%s
请提供一条简短（30字以内）且有感染力的干饭建议，风格活泼亲切。`, strings.Join(lines, "\n"))
	text, err := g.text(ctx, prompt)
	switch {
	case errors.Is(err, errBlankAnswer):
		return InspirationBlank
	case err != nil:
		g.fallback("meal inspiration", err)
		return InspirationFallback
	}
	return text
}

// DishRange proposes candidate dishes for the lucky draw.
func (g *Gateway) DishRange(ctx context.Context, tastes []model.Taste) []string {
	filter := "不限口味"
	if len(tastes) > 0 {
		names := make([]string, len(tastes))
		for i, t := range tastes {
			names[i] = string(t)
		}
		filter = strings.Join(names, "、")
	}

	prompt := fmt.Sprintf("作为一个美食家，请根据“%s”的口味偏好推荐10个具体的菜品名称。只输出菜名，用逗号分隔，不要包含其他文字。菜名要简短有力。", filter)
	text, err := g.text(ctx, prompt)
	if err != nil {
		g.fallback("dish range", err)
		return clone(FallbackDishRange)
	}

	dishes := splitDishes(text)
	if len(dishes) == 0 {
		g.fallback("dish range", errors.New("ai: no dishes in answer"))
		return clone(FallbackDishRange)
	}
	return dishes
}

// BrainstormMeal suggests a dish for the given meal slot.
func (g *Gateway) BrainstormMeal(ctx context.Context, mealType string) model.Brainstorm {
	if mealType == "" {
		mealType = "餐点"
	}

	prompt := fmt.Sprintf("请为我的%s提供一个充满诱惑力的菜品推荐灵感，并附带一段调皮幽默的推荐语。", mealType)
	var idea model.Brainstorm
	if err := g.structured(ctx, Request{Parts: []Part{Text(prompt)}, Schema: brainstormSchema}, &idea); err != nil {
		g.fallback("brainstorm meal", err)
		return FallbackBrainstorm
	}
	if idea.DishName == "" {
		g.fallback("brainstorm meal", errors.New("ai: brainstorm without dish"))
		return FallbackBrainstorm
	}
	return idea
}

// GuardianImage draws the user's foodie guardian. The reference photo, when
// given, personalises the colours. An empty string means no image.
func (g *Gateway) GuardianImage(ctx context.Context, kind model.GuardianKind, username, reference string) string {
	prompt := fmt.Sprintf(`A cute, high-quality manga-style 3D rendered %[1]s character for a meal tracking app.
The %[1]s should look happy and friendly. Soft macaron colors, clean white background, digital art style.
It is the "Foodie Guardian" of a user named %[2]s.`, kind, username)

	parts := []Part{}
	if reference != "" {
		prompt += " Borrow the color theme, atmosphere or a small element from the attached food photo so the guardian feels tied to the user's latest meal."
		parts = append(parts, Text(prompt), Inline(dataurl.Parse(reference)))
	} else {
		parts = append(parts, Text(prompt))
	}

	resp, err := g.gen.Generate(ctx, Request{Parts: parts, Image: true})
	if err != nil {
		g.fallback("guardian image", err)
		return ""
	}
	if len(resp.Images) == 0 {
		g.fallback("guardian image", errors.New("ai: no image in answer"))
		return ""
	}
	return resp.Images[0].String()
}

func (g *Gateway) text(ctx context.Context, prompt string) (string, error) {
	resp, err := g.gen.Generate(ctx, Request{Parts: []Part{Text(prompt)}})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errBlankAnswer
	}
	return text, nil
}

func (g *Gateway) structured(ctx context.Context, req Request, dst any) error {
	resp, err := g.gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return errBlankAnswer
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("ai: decoding structured answer: %w", err)
	}
	return nil
}

func (g *Gateway) fallback(feature string, err error) {
	g.logger.Warn("ai: using fallback",
		slog.String("feature", feature),
		slog.String("error", err.Error()),
	)
}

func splitDishes(text string) []string {
	var dishes []string
	for _, s := range dishSeparator.Split(text, -1) {
		s = leadingIndex.ReplaceAllString(strings.TrimSpace(s), "")
		if s = strings.TrimSpace(s); s != "" {
			dishes = append(dishes, s)
		}
	}
	return dishes
}

func lastN(records []model.MealRecord, n int) []model.MealRecord {
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}

func periodLabel(p model.AnalysisPeriod) string {
	switch p {
	case model.PeriodMonth:
		return "个月"
	case model.PeriodYear:
		return "年"
	default:
		return "周"
	}
}

func clampScore(v float64) float64 {
	return min(100, max(0, v))
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}

func cloneScan(s model.MealScan) model.MealScan {
	s.Dishes = append([]model.ScannedDish(nil), s.Dishes...)
	return s
}

var (
	analysisSchema = &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"summary":           {Type: "STRING"},
			"nutritionalAdvice": {Type: "STRING"},
			"stomachBurden":     {Type: "STRING"},
			"varietyScore":      {Type: "NUMBER"},
			"ingredientInsight": {Type: "STRING"},
			"rhythmAnalysis":    {Type: "STRING"},
			"nutrients": {
				Type: "OBJECT",
				Properties: map[string]*Schema{
					"carbs":   {Type: "NUMBER"},
					"protein": {Type: "NUMBER"},
					"fiber":   {Type: "NUMBER"},
				},
				Required: []string{"carbs", "protein", "fiber"},
			},
		},
		Required: []string{"summary", "nutritionalAdvice", "stomachBurden", "varietyScore", "ingredientInsight", "rhythmAnalysis", "nutrients"},
	}

	scanSchema = &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"dishes": {
				Type: "ARRAY",
				Items: &Schema{
					Type:       "OBJECT",
					Properties: map[string]*Schema{"name": {Type: "STRING"}},
					Required:   []string{"name"},
				},
			},
			"note":    {Type: "STRING"},
			"cuisine": {Type: "STRING"},
		},
		Required: []string{"dishes", "note", "cuisine"},
	}

	brainstormSchema = &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"dishName": {Type: "STRING"},
			"note":     {Type: "STRING"},
		},
		Required: []string{"dishName", "note"},
	}
)
