package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"backend/models"
)

// ErrNotFood is returned when the vision provider classifies the image as
// something other than food. No log may be created from such a result.
var ErrNotFood = errors.New("image does not contain food")

type GeminiService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiService() *GeminiService {
	return &GeminiService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a provider key is configured. Without one the
// callers fall back to explicitly-labeled offline values instead of blocking
// the user flow.
func (s *GeminiService) Enabled() bool { return s.apiKey != "" }

func (s *GeminiService) prompt(ctx context.Context, parts []geminiPart) (string, error) {
	requestBody := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", s.baseURL, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(body))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}

// stripFences removes the ```json fences Gemini wraps around structured
// output despite being told not to.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// splitDataURI breaks a "data:<mime>;base64,<data>" URI into its parts.
func splitDataURI(uri string) (mimeType, data string, err error) {
	if !strings.HasPrefix(uri, "data:image") {
		return "", "", errors.New("invalid data URI")
	}
	parts := strings.SplitN(uri, ",", 2)
	if len(parts) != 2 {
		return "", "", errors.New("invalid data URI")
	}
	meta := strings.TrimPrefix(parts[0], "data:")
	mimeType = strings.SplitN(meta, ";", 2)[0]
	return mimeType, parts[1], nil
}

// ---------- Meal image analysis ----------

type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// FoodAnalysis is the validated provider estimate for one photographed meal.
type FoodAnalysis struct {
	IsFood            bool           `json:"isFood"`
	FoodName          string         `json:"foodName"`
	Calories          float64        `json:"calories"`
	Macros            Macros         `json:"macros"`
	Micros            map[string]any `json:"micros,omitempty"`
	Category          string         `json:"category"`
	Confidence        float64        `json:"confidence"`
	HealthScore       int            `json:"healthScore"`
	HealthScoreReason string         `json:"healthScoreReason,omitempty"`
	Quantity          float64        `json:"quantity"`
	Mock              bool           `json:"mock,omitempty"`
}

const analyzePrompt = `Analyze this food image and provide nutritional information for the visible portion.
Return ONLY a valid JSON object with this exact structure, no markdown fences:
{
  "isFood": boolean (false if the image does not show food),
  "foodName": "string",
  "calories": number,
  "macros": { "protein": number, "carbs": number, "fat": number },
  "micros": { "Vitamin A": "string (e.g. 10% DV)", "Iron": "string", ... },
  "category": "Breakfast" | "Morning Snack" | "Lunch" | "Evening Snack" | "Dinner",
  "confidence": number (0-1),
  "healthScore": integer 0-100 (0=unhealthy, 100=healthy),
  "healthScoreReason": "string",
  "quantity": number (servings, usually 1)
}
Estimate the portion size visible. If unsure, make a best guess based on standard serving sizes.`

// AnalyzeMealImage sends a base64 data-URI photo to the vision provider and
// returns a validated nutrition estimate. Returns ErrNotFood when the
// provider says the image is not food; malformed provider output is a hard
// error so no half-parsed record can be persisted.
func (s *GeminiService) AnalyzeMealImage(ctx context.Context, dataURI string) (*FoodAnalysis, error) {
	if !s.Enabled() {
		return mockAnalysis(), nil
	}

	mimeType, data, err := splitDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	text, err := s.prompt(ctx, []geminiPart{
		{Text: analyzePrompt},
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}},
	})
	if err != nil {
		return nil, err
	}

	var out FoodAnalysis
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	if !out.IsFood {
		return nil, ErrNotFood
	}
	if err := validateAnalysis(&out); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	return &out, nil
}

// validateAnalysis enforces the schema before anything flows into
// aggregation. Minor provider drift (odd category, zero quantity, score out
// of range) is coerced; impossible numbers are rejected.
func validateAnalysis(a *FoodAnalysis) error {
	if strings.TrimSpace(a.FoodName) == "" {
		return errors.New("missing foodName")
	}
	if a.Calories < 0 || a.Macros.Protein < 0 || a.Macros.Carbs < 0 || a.Macros.Fat < 0 {
		return errors.New("negative nutrition values")
	}
	if !models.IsMealCategory(a.Category) {
		a.Category = categoryForHour(time.Now().Hour())
	}
	if a.Quantity <= 0 {
		a.Quantity = 1
	}
	if a.HealthScore < 0 {
		a.HealthScore = 0
	}
	if a.HealthScore > 100 {
		a.HealthScore = 100
	}
	return nil
}

func categoryForHour(hour int) string {
	switch {
	case hour < 10:
		return models.CategoryBreakfast
	case hour < 12:
		return models.CategoryMorningSnack
	case hour < 15:
		return models.CategoryLunch
	case hour < 18:
		return models.CategoryEveningSnack
	default:
		return models.CategoryDinner
	}
}

// mockAnalysis is the offline/demo fallback. The fixed name and Mock flag
// keep it visibly distinct from a real provider result.
func mockAnalysis() *FoodAnalysis {
	return &FoodAnalysis{
		IsFood:            true,
		FoodName:          "Mock Avocado Toast",
		Calories:          320,
		Macros:            Macros{Protein: 12, Carbs: 45, Fat: 18},
		Micros:            map[string]any{"Vitamin E": "14% DV"},
		Category:          models.CategoryBreakfast,
		Confidence:        0.9,
		HealthScore:       72,
		HealthScoreReason: "Offline sample estimate",
		Quantity:          1,
		Mock:              true,
	}
}

// ---------- Nutrition target calculation ----------

const targetsPromptFmt = `Calculate daily nutritional targets for a person with these stats:
Gender: %s
Age: %d
Height: %.0f cm
Weight: %.1f kg
Activity Level: %s
Goal: %s

Return ONLY a valid JSON object:
{
  "calories": number,
  "protein": number (grams),
  "carbs": number (grams),
  "fat": number (grams),
  "water": number (ml, rough recommendation)
}
Do not include markdown formatting.`

// CalculateTargets asks the provider for daily targets derived from profile
// stats. The raw result is returned as-is; plausibility checks and fallback
// defaults are the TargetService's concern.
func (s *GeminiService) CalculateTargets(ctx context.Context, p *models.UserProfile) (models.Targets, error) {
	if !s.Enabled() {
		return models.Targets{}, errors.New("gemini API key not configured")
	}

	prompt := fmt.Sprintf(targetsPromptFmt,
		p.Gender, p.Age, p.HeightCm, p.WeightKg, p.ActivityLevel, p.Goal)

	text, err := s.prompt(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		return models.Targets{}, err
	}

	var t models.Targets
	if err := json.Unmarshal([]byte(stripFences(text)), &t); err != nil {
		return models.Targets{}, fmt.Errorf("malformed targets response: %w", err)
	}
	return t, nil
}
