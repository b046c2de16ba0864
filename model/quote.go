package model

import "fmt"

// Quote type tags.
const (
	QuoteTypeExplicit  = "explicit"
	QuoteTypeImplicit  = "implicit"
	QuoteTypeAnaphoric = "anaphoric"
)

// Quote represents one attributed span of spoken text. Speaker fields are
// nil when the quote table carries no resolvable speaker cluster.
// AddresseeID is always nil; the source format does not expose it yet.
type Quote struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	StartToken  int     `json:"start_token"`
	EndToken    int     `json:"end_token"`
	StartChar   int     `json:"start_char"`
	EndChar     int     `json:"end_char"`
	SpeakerID   *string `json:"speaker_id"`
	SpeakerName *string `json:"speaker_name"`
	AddresseeID *string `json:"addressee_id"`
	QuoteType   string  `json:"quote_type"`
}

// QuoteID returns the stable quote ID for a row index of the quote table.
func QuoteID(rowIndex int) string {
	return fmt.Sprintf("quote_%d", rowIndex)
}
