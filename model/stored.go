package model

import (
	"time"

	"github.com/google/uuid"
)

// StoredContract is a persisted contract document. The full document is
// stored as JSONB alongside the columns used for lookups.
type StoredContract struct {
	ID            int64     `json:"id"`
	RID           uuid.UUID `json:"rid"`
	DocumentID    string    `json:"document_id"`
	SchemaVersion string    `json:"schema_version"`
	TextHash      string    `json:"text_hash"`
	Metadata      Metadata  `json:"metadata,omitempty"`
	Document      *Contract `json:"document,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoredCharacter is a persisted character row with an optional canonical
// name embedding, used for similarity search across documents.
type StoredCharacter struct {
	ID            int64     `json:"id"`
	ContractID    int64     `json:"contract_id"`
	ContractRID   uuid.UUID `json:"contract_rid"`
	CharacterID   string    `json:"character_id"`
	CanonicalName string    `json:"canonical_name"`
	MentionCount  int       `json:"mention_count"`
	Embedding     []float32 `json:"embedding,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	// Results
	Similarity float64 `json:"similarity,omitempty"`
}

// NewStoredContract wraps a built contract for persistence.
func NewStoredContract(c *Contract) *StoredContract {
	return &StoredContract{
		DocumentID:    c.DocumentID,
		SchemaVersion: c.SchemaVersion,
		TextHash:      c.Metadata.TextHash,
		Metadata: Metadata{
			"token_count":     c.Metadata.TokenCount,
			"character_count": c.Metadata.CharacterCount,
			"quote_count":     c.Metadata.QuoteCount,
		},
		Document: c,
	}
}
