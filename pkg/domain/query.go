package domain

import "time"

// ConceptQuery is an inbound request asking a concept's storage for the
// entries of a relation, optionally filtered by field equality.
type ConceptQuery struct {
	Concept  string         `json:"concept"`
	Relation string         `json:"relation"`
	Args     map[string]any `json:"args,omitempty"`
}

// StoredEntry is a value held in a relation together with its
// last-written timestamp. Keys are unique within a relation; a put on an
// existing key overwrites the value and refreshes UpdatedAt.
type StoredEntry struct {
	Value     map[string]any `json:"value"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
