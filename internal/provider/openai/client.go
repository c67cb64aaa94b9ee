package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/service"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-4"

	temperature = 0.3
	maxTokens   = 500

	systemPrompt = "You are a nutrition expert that analyzes food descriptions and provides detailed nutritional information."
)

const userPrompt = `Analyze the following food description and return a JSON object with nutritional information.
Food description: %q

Return format:
{
    "name": "descriptive name",
    "calories": number,
    "protein": number (in grams),
    "carbs": number (in grams),
    "fats": number (in grams),
    "servingSize": "serving size description",
    "mealType": "breakfast/lunch/dinner/snack" (optional)
}

%s
Be conservative with estimates. If unsure, provide lower estimates.`

// Client implements service.Analyzer against a chat completions endpoint.
type Client struct {
	APIKey     string
	Endpoint   string
	Model      string
	HTTPClient *http.Client
}

var _ service.Analyzer = (*Client)(nil)

func (c *Client) AnalyzeFood(ctx context.Context, name string) (service.NutritionEstimate, error) {
	return c.analyze(ctx, name, "Provide basic nutritional estimates.")
}

func (c *Client) AnalyzeDetailedFood(ctx context.Context, description string) (service.NutritionEstimate, error) {
	return c.analyze(ctx, description, "Provide detailed analysis including ingredients and portion sizes.")
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type nutritionInfo struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	ServingSize string  `json:"servingSize"`
	MealType    string  `json:"mealType"`
}

func (c *Client) analyze(ctx context.Context, description, depth string) (service.NutritionEstimate, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return service.NutritionEstimate{}, fmt.Errorf("missing OpenAI API key")
	}
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		modelName = DefaultModel
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	payload, err := json.Marshal(chatRequest{
		Model: modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPrompt, description, depth)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return service.NutritionEstimate{}, fmt.Errorf("marshal OpenAI payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return service.NutritionEstimate{}, fmt.Errorf("create OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return service.NutritionEstimate{}, fmt.Errorf("execute OpenAI request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return service.NutritionEstimate{}, fmt.Errorf("read OpenAI response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return service.NutritionEstimate{}, fmt.Errorf("OpenAI request failed with status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return service.NutritionEstimate{}, fmt.Errorf("decode OpenAI response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return service.NutritionEstimate{}, fmt.Errorf("OpenAI response has no choices")
	}

	var info nutritionInfo
	if err := json.Unmarshal([]byte(stripCodeFence(parsed.Choices[0].Message.Content)), &info); err != nil {
		return service.NutritionEstimate{}, fmt.Errorf("parse nutrition information: %w", err)
	}

	out := service.NutritionEstimate{
		Name:        strings.TrimSpace(info.Name),
		Calories:    info.Calories,
		Protein:     info.Protein,
		Carbs:       info.Carbs,
		Fats:        info.Fats,
		ServingSize: strings.TrimSpace(info.ServingSize),
	}
	// An unrecognized meal type is dropped rather than failing the analysis.
	if strings.TrimSpace(info.MealType) != "" {
		if meal, err := model.ParseMealCategory(info.MealType); err == nil {
			out.Meal = meal
		}
	}
	return out, nil
}

// Models sometimes wrap the JSON object in a markdown code block.
func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
