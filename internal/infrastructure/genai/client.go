package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mamo-store/backend/internal/infrastructure/config"
)

// AdviceFallback is shown when the model is unreachable so the shop assistant
// never answers with a raw error.
const AdviceFallback = "يا غالي، صار في ضغط على الشبكة عندي، بس اسألني مرة تانية وأنا جاهز أساعدك بكل شي يخص البناء والكهرباء!"

const advisorPersona = `أنت "أبو حميد"، معلم خبير بمواد البناء والكهرباء والصحية والدهانات في متجر معمو ستور.
جاوب الزبائن باللهجة الشامية، باختصار وبخبرة معلم ورشة.
إذا سألوك عن كميات أو قياسات اعطِ تقديراً عملياً مع هامش أمان.
لا تخرج عن مواضيع البناء والتشطيب.`

// Client wraps the Gemini API for the storefront assistant and the admin agent.
type Client struct {
	inner       *genai.Client
	chatModel   string
	visionModel string
	imageModel  string
}

// NewClient creates a Gemini client from configuration
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}
	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{
		inner:       inner,
		chatModel:   cfg.ChatModel,
		visionModel: cfg.VisionModel,
		imageModel:  cfg.ImageModel,
	}, nil
}

// ImageInput is an optional photo attached to an assistant request
type ImageInput struct {
	MIMEType string
	Data     []byte
}

// TechnicalAdvice answers a customer question in the shop assistant persona.
// The optional image lets customers photograph a wall or fixture and ask
// about it.
func (c *Client) TechnicalAdvice(ctx context.Context, question string, image *ImageInput) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(question)}
	if image != nil {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.inner.Models.GenerateContent(ctx, c.chatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advisorPersona, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.8),
	})
	if err != nil {
		return "", fmt.Errorf("advice generation failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}

// GenerateImage produces a product or room concept image and returns it as a
// data URI suitable for an <img> src attribute.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := c.inner.Models.GenerateContent(ctx, c.imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return fmt.Sprintf("data:%s;base64,%s", mime, encoded), nil
			}
		}
	}
	return "", fmt.Errorf("model returned no image")
}

// EstimateDimensions reads a photo of a space or object and estimates its
// measurements in meters, answering in Arabic.
func (c *Client) EstimateDimensions(ctx context.Context, image ImageInput, hint string) (string, error) {
	prompt := "قدّر أبعاد المساحة أو الغرض الظاهر في الصورة بالمتر (طول، عرض، ارتفاع إن أمكن) مع شرح مختصر لطريقة التقدير."
	if hint != "" {
		prompt += "\nملاحظة من الزبون: " + hint
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image.Data, image.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.inner.Models.GenerateContent(ctx, c.visionModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advisorPersona, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("dimension estimate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}

// AnalyzePaint inspects a wall photo and recommends paint type and quantity
func (c *Client) AnalyzePaint(ctx context.Context, image ImageInput, hint string) (string, error) {
	prompt := "حلّل حالة الجدار في الصورة، واقترح نوع الدهان المناسب وعدد الأوجه والكمية التقريبية باللتر."
	if hint != "" {
		prompt += "\nملاحظة من الزبون: " + hint
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image.Data, image.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.inner.Models.GenerateContent(ctx, c.visionModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advisorPersona, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("paint analysis failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}

// adminSchema constrains admin replies to a response plus an optional action
var adminSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"response": {
			Type:        genai.TypeString,
			Description: "Arabic reply to show the admin",
		},
		"action": {
			Type: genai.TypeString,
			Enum: []string{"ADD_PRODUCT", "UPDATE_PRODUCT", "DELETE_PRODUCT", "SET_RATE", "QUERY", "NONE"},
		},
		"payload": {
			Type:     genai.TypeObject,
			Nullable: genai.Ptr(true),
			Properties: map[string]*genai.Schema{
				"id":       {Type: genai.TypeString},
				"name":     {Type: genai.TypeString},
				"category": {Type: genai.TypeString},
				"priceUSD": {Type: genai.TypeNumber},
				"stock":    {Type: genai.TypeInteger},
				"brand":    {Type: genai.TypeString},
				"rate":     {Type: genai.TypeNumber},
			},
		},
	},
	Required: []string{"response", "action"},
}

// AdminCommand interprets a natural-language admin instruction against the
// current catalog and returns strict JSON describing what to do.
func (c *Client) AdminCommand(ctx context.Context, instruction, catalogJSON string) (string, error) {
	var sb strings.Builder
	sb.WriteString("أنت مساعد إدارة متجر معمو ستور. أمامك كتالوج المنتجات الحالي بصيغة JSON:\n")
	sb.WriteString(catalogJSON)
	sb.WriteString("\n\nنفّذ طلب المدير التالي. إذا كان الطلب يعدّل منتجاً موجوداً فاستعمل id من الكتالوج حرفياً. إذا كان استفساراً فقط فاجعل action يساوي QUERY واترك payload فارغاً.\n")
	sb.WriteString("طلب المدير: ")
	sb.WriteString(instruction)

	contents := []*genai.Content{
		genai.NewContentFromText(sb.String(), genai.RoleUser),
	}
	resp, err := c.inner.Models.GenerateContent(ctx, c.chatModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   adminSchema,
	})
	if err != nil {
		return "", fmt.Errorf("admin command failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}
