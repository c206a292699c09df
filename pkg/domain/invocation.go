package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the wire format for completion timestamps:
// UTC, second precision.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Standard variant tags. Concepts may return domain-specific variants
// (e.g. "invalid", "notfound") beyond these.
const (
	VariantOK    = "ok"
	VariantError = "error"
)

// ActionInvocation is an inbound request asking a concept to perform a
// named action with the given input. Immutable once decoded.
type ActionInvocation struct {
	ID      string         `json:"id"`
	Concept string         `json:"concept"`
	Action  string         `json:"action"`
	Input   map[string]any `json:"input"`
	Flow    string         `json:"flow"`
}

// Normalize fills in generated identifiers for absent id/flow fields and
// ensures the input map is non-nil. It returns the receiver for chaining.
func (inv *ActionInvocation) Normalize() *ActionInvocation {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Flow == "" {
		inv.Flow = uuid.NewString()
	}
	if inv.Input == nil {
		inv.Input = map[string]any{}
	}
	return inv
}

// ActionCompletion describes the outcome of an ActionInvocation.
// The Output payload always carries the same variant tag as Variant,
// even on internal dispatch failure.
type ActionCompletion struct {
	ID        string         `json:"id"`
	Concept   string         `json:"concept"`
	Action    string         `json:"action"`
	Input     map[string]any `json:"input"`
	Variant   string         `json:"variant"`
	Output    map[string]any `json:"output"`
	Flow      string         `json:"flow"`
	Timestamp string         `json:"timestamp"`
}

// NewCompletion builds an ActionCompletion for the given invocation,
// echoing its identity fields and stamping the current UTC time.
// The variant is lifted from the output payload.
func NewCompletion(inv *ActionInvocation, output map[string]any) ActionCompletion {
	return ActionCompletion{
		ID:        inv.ID,
		Concept:   inv.Concept,
		Action:    inv.Action,
		Input:     inv.Input,
		Variant:   VariantOf(output),
		Output:    output,
		Flow:      inv.Flow,
		Timestamp: time.Now().UTC().Format(TimestampFormat),
	}
}

// ErrorOutput builds the canonical error-shaped output payload.
func ErrorOutput(message string) map[string]any {
	return map[string]any{"variant": VariantError, "message": message}
}

// VariantOf extracts the variant tag from an output payload,
// defaulting to "ok" when absent or not a string.
func VariantOf(output map[string]any) string {
	if v, ok := output["variant"].(string); ok {
		return v
	}
	return VariantOK
}
