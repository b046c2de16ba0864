package model

import "fmt"

// Mention type tags as emitted by the external tool.
const (
	MentionTypeProper     = "PROP"
	MentionTypeNominal    = "NOM"
	MentionTypePronominal = "PRON"
)

// Entity type tags as emitted by the external tool.
const (
	EntityTypePerson       = "PER"
	EntityTypeLocation     = "LOC"
	EntityTypeOrganization = "ORG"
	EntityTypeFacility     = "FAC"
	EntityTypeGeopolitical = "GPE"
	EntityTypeVehicle      = "VEH"
)

// Mention represents one textual occurrence of a referring expression.
// CharacterID is nil for mentions the coreference tool left unresolved.
type Mention struct {
	ID          string  `json:"id"`
	CharacterID *string `json:"character_id"`
	Text        string  `json:"text"`
	StartToken  int     `json:"start_token"`
	EndToken    int     `json:"end_token"`
	StartChar   int     `json:"start_char"`
	EndChar     int     `json:"end_char"`
	SentenceIdx int     `json:"sentence_idx"`
	MentionType string  `json:"mention_type"`
	EntityType  string  `json:"entity_type"`
}

// MentionID returns the stable mention ID for a row index of the entity table.
func MentionID(rowIndex int) string {
	return fmt.Sprintf("mention_%d", rowIndex)
}
