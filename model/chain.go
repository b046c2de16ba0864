package model

// CorefChain is the ordered set of all mentions resolved to one character.
// Mentions holds mention IDs in the order they appear in the mention list.
type CorefChain struct {
	ChainID     string   `json:"chain_id"`
	CharacterID *string  `json:"character_id"`
	Mentions    []string `json:"mentions"`
}

// ChainID returns the stable chain ID derived from a character ID.
func ChainID(characterID string) string {
	return "chain_" + characterID
}
