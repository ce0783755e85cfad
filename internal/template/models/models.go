package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	dErrors "certverify/pkg/domain-errors"
)

// LayoutElement is one positioned visual element of a certificate layout.
// Width, Height, and Style are nullable and serialize as JSON null when unset.
type LayoutElement struct {
	Type   string         `json:"type"`
	Label  string         `json:"label"`
	X      int            `json:"x"`
	Y      int            `json:"y"`
	Width  *int           `json:"width"`
	Height *int           `json:"height"`
	Style  map[string]any `json:"style"`
}

// Validate enforces the structural rules for a layout element: type and label
// are required, coordinates must be non-negative.
func (e *LayoutElement) Validate() error {
	if e.Type == "" {
		return dErrors.New(dErrors.CodeValidation, "layout element type is required")
	}
	if e.Label == "" {
		return dErrors.New(dErrors.CodeValidation, "layout element label is required")
	}
	if e.X < 0 || e.Y < 0 {
		return dErrors.New(dErrors.CodeValidation, "layout element coordinates must be non-negative")
	}
	return nil
}

// Template describes how a certificate is rendered: an ordered list of layout
// elements keyed by a name administrators pick ("Graduation", "Achievement").
type Template struct {
	ID           uuid.UUID
	Name         string
	Description  string
	LayoutConfig []LayoutElement
	CreatedAt    time.Time
}

// ParseLayoutConfig decodes a raw layout_config column value into layout
// elements. The second return reports whether the stored value was
// list-shaped; callers degrade to an empty layout when it was not.
func ParseLayoutConfig(raw []byte) ([]LayoutElement, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var elements []LayoutElement
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	return elements, true
}
