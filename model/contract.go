package model

import (
	"fmt"

	"github.com/google/uuid"
)

// SchemaVersion is the version of the output contract. Bump whenever the
// document shape changes.
const SchemaVersion = "1.0"

// ContractMetadata holds document-level aggregates. Field order fixes the
// JSON key order of the serialized document.
type ContractMetadata struct {
	BookNLPVersion        string  `json:"booknlp_version"`
	TextLength            int     `json:"text_length"`
	TextHash              string  `json:"text_hash"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	TokenCount            int     `json:"token_count"`
	SentenceCount         int     `json:"sentence_count"`
	CharacterCount        int     `json:"character_count"`
	MentionCount          int     `json:"mention_count"`
	QuoteCount            int     `json:"quote_count"`
}

// Contract is the full versioned output document. Collections keep their
// construction order; nothing is re-sorted at serialization time.
type Contract struct {
	SchemaVersion string           `json:"schema_version"`
	DocumentID    string           `json:"document_id"`
	Metadata      ContractMetadata `json:"metadata"`
	Characters    []Character      `json:"characters"`
	Mentions      []Mention        `json:"mentions"`
	CorefChains   []CorefChain     `json:"coref_chains"`
	Quotes        []Quote          `json:"quotes"`
	Tokens        []Token          `json:"tokens"`
}

// NewDocumentID generates a fresh document ID of the form doc_xxxxxxxx.
func NewDocumentID() string {
	return "doc_" + uuid.New().String()[:8]
}

// Validate checks the internal consistency of the document: mention and
// quote back-references resolve, chains agree with their mentions, canonical
// names do not reappear as aliases, token offsets are sane and all IDs are
// unique. Returns the first violation found.
func (c *Contract) Validate() error {
	charByID := make(map[string]Character, len(c.Characters))
	for _, ch := range c.Characters {
		if _, ok := charByID[ch.ID]; ok {
			return fmt.Errorf("duplicate character id %s", ch.ID)
		}
		charByID[ch.ID] = ch
		for _, alias := range ch.Aliases {
			if alias.Text == ch.CanonicalName {
				return fmt.Errorf("character %s lists canonical name %q as alias", ch.ID, ch.CanonicalName)
			}
		}
	}

	mentionChar := make(map[string]*string, len(c.Mentions))
	for _, m := range c.Mentions {
		if _, ok := mentionChar[m.ID]; ok {
			return fmt.Errorf("duplicate mention id %s", m.ID)
		}
		mentionChar[m.ID] = m.CharacterID
		if m.CharacterID != nil {
			if _, ok := charByID[*m.CharacterID]; !ok {
				return fmt.Errorf("mention %s references unknown character %s", m.ID, *m.CharacterID)
			}
		}
	}

	chainIDs := make(map[string]bool, len(c.CorefChains))
	for _, chain := range c.CorefChains {
		if chainIDs[chain.ChainID] {
			return fmt.Errorf("duplicate chain id %s", chain.ChainID)
		}
		chainIDs[chain.ChainID] = true
		for _, mentionID := range chain.Mentions {
			charID, ok := mentionChar[mentionID]
			if !ok {
				return fmt.Errorf("chain %s references unknown mention %s", chain.ChainID, mentionID)
			}
			if charID == nil || chain.CharacterID == nil || *charID != *chain.CharacterID {
				return fmt.Errorf("chain %s contains mention %s of a different character", chain.ChainID, mentionID)
			}
		}
	}

	quoteIDs := make(map[string]bool, len(c.Quotes))
	for _, q := range c.Quotes {
		if quoteIDs[q.ID] {
			return fmt.Errorf("duplicate quote id %s", q.ID)
		}
		quoteIDs[q.ID] = true
		if q.SpeakerID != nil {
			if _, ok := charByID[*q.SpeakerID]; !ok {
				return fmt.Errorf("quote %s references unknown speaker %s", q.ID, *q.SpeakerID)
			}
		}
	}

	for _, tok := range c.Tokens {
		if tok.StartChar < 0 || tok.EndChar < tok.StartChar {
			return fmt.Errorf("token %d has invalid offsets [%d, %d]", tok.Idx, tok.StartChar, tok.EndChar)
		}
	}

	return nil
}
