package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/verte-zerg/lophoc/internal/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const thinkingBudget = 1024

const geminiPrompt = "Hãy đóng vai một giáo viên tiểu học. Tạo danh sách ngẫu nhiên 10 từ vựng tiếng Việt về đồ vật và vật nuôi trong gia đình cho học sinh lớp 3. \n" +
	"Yêu cầu bắt buộc:\n" +
	"1. Đối với vật nuôi (category: 'pet'): Tên phải bắt đầu bằng từ 'Con' (ví dụ: Con mèo, Con chó).\n" +
	"2. Đối với đồ đạc (category: 'furniture'): Tên phải bắt đầu bằng từ 'Cái' (ví dụ: Cái bàn, Cái ghế, Cái quạt).\n" +
	"3. Đảm bảo danh sách có cả vật nuôi và đồ đạc trộn lẫn nhau."

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates items with Google's Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
	now    func() time.Time
}

// NewGemini creates a Gemini source. An empty apiKey yields ErrNoCredential.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoCredential
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Models, modelName), nil
}

func newGemini(models contentGenerator, modelName string) *Gemini {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Gemini{models: models, model: modelName, now: time.Now}
}

// Name implements Source.
func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

// Fetch implements Source.
func (g *Gemini) Fetch(ctx context.Context) ([]model.Item, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(geminiPrompt), &genai.GenerateContentConfig{
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](thinkingBudget)},
		ResponseMIMEType: "application/json",
		ResponseSchema:   itemSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformed)
	}
	return parseItems(resp.Text(), g.now())
}

func itemSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id": {Type: genai.TypeString},
				"text": {
					Type:        genai.TypeString,
					Description: "Tên có kèm từ loại 'Con' hoặc 'Cái'",
				},
				"category": {
					Type: genai.TypeString,
					Enum: []string{string(model.CategoryPet), string(model.CategoryFurniture)},
				},
			},
			Required: []string{"id", "text", "category"},
		},
	}
}

type rawItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// parseItems validates provider output and assigns ids that cannot collide
// with the fallback list.
func parseItems(text string, now time.Time) ([]model.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformed)
	}
	var raw []rawItem
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrMalformed)
	}
	stamp := now.UnixMilli()
	items := make([]model.Item, 0, len(raw))
	for i, r := range raw {
		category, err := model.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformed, i, err)
		}
		itemText := model.NormalizeText(r.Text)
		if itemText == "" {
			return nil, fmt.Errorf("%w: item %d has no text", ErrMalformed, i)
		}
		items = append(items, model.Item{
			ID:       fmt.Sprintf("ai-%d-%d", i, stamp),
			Text:     itemText,
			Category: category,
		})
	}
	return items, nil
}
