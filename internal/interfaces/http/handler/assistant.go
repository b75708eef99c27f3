package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/mamo-store/backend/internal/application/catalog"
	"github.com/mamo-store/backend/internal/infrastructure/genai"
	"github.com/mamo-store/backend/internal/interfaces/http/dto"
	"github.com/mamo-store/backend/internal/interfaces/http/middleware"
	"github.com/mamo-store/backend/internal/store/agent"
)

// Advisor is the slice of the AI client the assistant endpoints use
type Advisor interface {
	TechnicalAdvice(ctx context.Context, question string, image *genai.ImageInput) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	EstimateDimensions(ctx context.Context, image genai.ImageInput, hint string) (string, error)
	AnalyzePaint(ctx context.Context, image genai.ImageInput, hint string) (string, error)
	AdminCommand(ctx context.Context, instruction, catalogJSON string) (string, error)
}

// AssistantHandler serves the shop assistant and the admin agent endpoints.
// Provider failures on advice endpoints degrade to a canned Arabic reply so
// the assistant never shows a raw error to a customer.
type AssistantHandler struct {
	BaseHandler
	advisor  Advisor
	products *appcatalog.ProductService
	logger   *zap.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(advisor Advisor, products *appcatalog.ProductService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{advisor: advisor, products: products, logger: logger}
}

// RegisterRoutes registers assistant and agent routes
func (h *AssistantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assistant := rg.Group("/assistant")
	assistant.POST("/chat", h.Chat)
	assistant.POST("/image", h.Image)
	assistant.POST("/measure", h.Measure)
	assistant.POST("/paint", h.Paint)

	// the agent mutates the catalog, so it stays behind the PIN-elevated session
	rg.POST("/agent/command", middleware.AdminRequired(), h.AgentCommand)
}

type imagePayload struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

func (p *imagePayload) decode() (*genai.ImageInput, error) {
	if p == nil || p.Data == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, err
	}
	mime := p.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return &genai.ImageInput{MIMEType: mime, Data: raw}, nil
}

type chatRequest struct {
	Question string        `json:"question" binding:"required"`
	Image    *imagePayload `json:"image"`
}

// Chat answers a customer question in the shop assistant persona
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Question is required")
		return
	}
	image, err := req.Image.decode()
	if err != nil {
		h.BadRequest(c, "Image must be base64 encoded")
		return
	}

	reply, err := h.advisor.TechnicalAdvice(c.Request.Context(), req.Question, image)
	if err != nil {
		h.logger.Warn("advice provider failed", zap.Error(err))
		reply = genai.AdviceFallback
	}
	h.Success(c, gin.H{"reply": reply})
}

type imageGenRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Image generates a concept image and returns it as a data URI
func (h *AssistantHandler) Image(c *gin.Context) {
	var req imageGenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Prompt is required")
		return
	}

	uri, err := h.advisor.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		h.logger.Warn("image provider failed", zap.Error(err))
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUpstream), dto.ErrCodeUpstream, "Image generation is unavailable right now")
		return
	}
	h.Success(c, gin.H{"image": uri})
}

type visionRequest struct {
	Image *imagePayload `json:"image" binding:"required"`
	Hint  string        `json:"hint"`
}

// Measure estimates the dimensions of a photographed space
func (h *AssistantHandler) Measure(c *gin.Context) {
	h.vision(c, h.advisor.EstimateDimensions)
}

// Paint analyzes a wall photo and recommends paint
func (h *AssistantHandler) Paint(c *gin.Context) {
	h.vision(c, h.advisor.AnalyzePaint)
}

func (h *AssistantHandler) vision(c *gin.Context, call func(context.Context, genai.ImageInput, string) (string, error)) {
	var req visionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Image is required")
		return
	}
	image, err := req.Image.decode()
	if err != nil || image == nil {
		h.BadRequest(c, "Image must be base64 encoded")
		return
	}

	reply, err := call(c.Request.Context(), *image, req.Hint)
	if err != nil {
		h.logger.Warn("vision provider failed", zap.Error(err))
		reply = genai.AdviceFallback
	}
	h.Success(c, gin.H{"reply": reply})
}

type agentRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

// AgentCommand turns a natural-language admin instruction into a validated
// catalog action. The action is returned to the caller for execution, model
// output that fails schema validation is rejected outright.
func (h *AssistantHandler) AgentCommand(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Instruction is required")
		return
	}

	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.Internal(c, "Failed to load catalog")
		return
	}
	catalogJSON, err := json.Marshal(products)
	if err != nil {
		h.Internal(c, "Failed to encode catalog")
		return
	}

	raw, err := h.advisor.AdminCommand(c.Request.Context(), req.Instruction, string(catalogJSON))
	if err != nil {
		h.logger.Warn("agent provider failed", zap.Error(err))
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUpstream), dto.ErrCodeUpstream, "Agent is unavailable right now")
		return
	}

	action, err := agent.ParseAction(raw)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.logger.Info("agent action validated",
		zap.String("admin", middleware.GetSessionUserID(c)),
		zap.String("action", action.Action))
	h.Success(c, action)
}
