package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/store"
)

// Model produces a structured admin action from a natural-language
// instruction and the current catalog
type Model interface {
	AdminCommand(ctx context.Context, instruction, catalogJSON string) (string, error)
}

// Supported actions
const (
	ActionAddProduct    = "ADD_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionSetRate       = "SET_RATE"
	ActionQuery         = "QUERY"
	ActionNone          = "NONE"
)

// Payload carries the fields an action may reference
type Payload struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	PriceUSD *decimal.Decimal `json:"priceUSD"`
	Stock    *int             `json:"stock"`
	Brand    string           `json:"brand"`
	Rate     *decimal.Decimal `json:"rate"`
}

// Action is the model's reply: a message for the admin plus an optional
// catalog operation
type Action struct {
	Response string   `json:"response"`
	Action   string   `json:"action"`
	Payload  *Payload `json:"payload"`
}

// Result reports what the agent did
type Result struct {
	Response string `json:"response"`
	Action   string `json:"action"`
	Applied  bool   `json:"applied"`
}

// Agent turns free-text admin instructions into catalog operations. Model
// output is validated against a strict schema before anything executes: a
// malformed or underspecified action is rejected with an error, never patched
// up with defaults.
type Agent struct {
	model     Model
	container *store.Container
	logger    *zap.Logger
}

// New creates an admin agent executing against the given container
func New(model Model, container *store.Container, logger *zap.Logger) *Agent {
	return &Agent{model: model, container: container, logger: logger}
}

// Execute runs one admin instruction end to end
func (a *Agent) Execute(ctx context.Context, instruction string) (*Result, error) {
	if instruction == "" {
		return nil, shared.NewDomainError("EMPTY_INSTRUCTION", "Instruction cannot be empty")
	}

	catalogJSON, err := json.Marshal(a.container.Products())
	if err != nil {
		return nil, err
	}

	raw, err := a.model.AdminCommand(ctx, instruction, string(catalogJSON))
	if err != nil {
		return nil, err
	}

	action, err := ParseAction(raw)
	if err != nil {
		a.logger.Warn("rejected agent action", zap.String("raw", raw), zap.Error(err))
		return nil, err
	}

	applied, err := a.apply(action)
	if err != nil {
		return nil, err
	}

	a.logger.Info("agent action executed",
		zap.String("action", action.Action),
		zap.Bool("applied", applied))
	return &Result{Response: action.Response, Action: action.Action, Applied: applied}, nil
}

// ParseAction decodes and validates raw model output. Unknown fields, unknown
// actions and missing required payload fields are all hard errors.
func ParseAction(raw string) (*Action, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var action Action
	if err := dec.Decode(&action); err != nil {
		return nil, shared.NewDomainError("MALFORMED_ACTION", fmt.Sprintf("Model output is not valid action JSON: %v", err))
	}
	if action.Response == "" {
		return nil, shared.NewDomainError("MALFORMED_ACTION", "Action is missing a response message")
	}

	switch action.Action {
	case ActionQuery, ActionNone:
		return &action, nil
	case ActionAddProduct:
		p := action.Payload
		if p == nil {
			return nil, missingField("payload")
		}
		if p.Name == "" {
			return nil, missingField("name")
		}
		if !catalog.Category(p.Category).IsValid() {
			return nil, shared.NewDomainError("INVALID_ACTION_PAYLOAD", fmt.Sprintf("Unknown category %q", p.Category))
		}
		if p.PriceUSD == nil || !p.PriceUSD.IsPositive() {
			return nil, missingField("priceUSD")
		}
		if p.Stock != nil && *p.Stock < 0 {
			return nil, shared.NewDomainError("INVALID_ACTION_PAYLOAD", "Stock cannot be negative")
		}
		return &action, nil
	case ActionUpdateProduct:
		p := action.Payload
		if p == nil || p.ID == "" {
			return nil, missingField("id")
		}
		if p.Name == "" && p.Category == "" && p.PriceUSD == nil && p.Stock == nil && p.Brand == "" {
			return nil, shared.NewDomainError("INVALID_ACTION_PAYLOAD", "Update carries no fields to change")
		}
		if p.Category != "" && !catalog.Category(p.Category).IsValid() {
			return nil, shared.NewDomainError("INVALID_ACTION_PAYLOAD", fmt.Sprintf("Unknown category %q", p.Category))
		}
		return &action, nil
	case ActionDeleteProduct:
		if action.Payload == nil || action.Payload.ID == "" {
			return nil, missingField("id")
		}
		return &action, nil
	case ActionSetRate:
		p := action.Payload
		if p == nil || p.Rate == nil {
			return nil, missingField("rate")
		}
		if !p.Rate.IsPositive() {
			return nil, shared.NewDomainError("INVALID_ACTION_PAYLOAD", "Rate must be positive")
		}
		return &action, nil
	default:
		return nil, shared.NewDomainError("UNKNOWN_ACTION", fmt.Sprintf("Unknown action %q", action.Action))
	}
}

func missingField(name string) error {
	return shared.NewDomainError("INVALID_ACTION_PAYLOAD", fmt.Sprintf("Required field %q is missing", name))
}

func (a *Agent) apply(action *Action) (bool, error) {
	switch action.Action {
	case ActionQuery, ActionNone:
		return false, nil
	case ActionAddProduct:
		p := action.Payload
		product, err := catalog.NewProduct("", p.Name, catalog.Category(p.Category), *p.PriceUSD)
		if err != nil {
			return false, err
		}
		product.Brand = p.Brand
		if p.Stock != nil {
			product.Stock = *p.Stock
		}
		if err := a.container.AddProduct(product); err != nil {
			return false, err
		}
		return true, nil
	case ActionUpdateProduct:
		p := action.Payload
		existing, err := a.container.Product(p.ID)
		if err != nil {
			return false, shared.NewDomainError("INVALID_ACTION_PAYLOAD", fmt.Sprintf("No product with id %q", p.ID))
		}
		if p.Name != "" {
			existing.Name = p.Name
		}
		if p.Category != "" {
			existing.Category = catalog.Category(p.Category)
		}
		if p.PriceUSD != nil {
			existing.PriceUSD = *p.PriceUSD
		}
		if p.Stock != nil {
			existing.Stock = *p.Stock
		}
		if p.Brand != "" {
			existing.Brand = p.Brand
		}
		if err := a.container.UpdateProduct(&existing); err != nil {
			return false, err
		}
		return true, nil
	case ActionDeleteProduct:
		id := action.Payload.ID
		if _, err := a.container.Product(id); err != nil {
			return false, shared.NewDomainError("INVALID_ACTION_PAYLOAD", fmt.Sprintf("No product with id %q", id))
		}
		if err := a.container.DeleteProduct(id); err != nil {
			return false, err
		}
		return true, nil
	case ActionSetRate:
		if err := a.container.SetExchangeRate(*action.Payload.Rate); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
