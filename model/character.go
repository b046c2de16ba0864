package model

import "fmt"

// Character represents an aggregated coreference cluster, i.e. one story
// character. Gender and AgentScore are placeholders until the external tool
// supplies the signals to compute them.
type Character struct {
	ID            string           `json:"id"`
	CanonicalName string           `json:"canonical_name"`
	Aliases       []CharacterAlias `json:"aliases"`
	MentionCount  int              `json:"mention_count"`
	Gender        *string          `json:"gender"`
	AgentScore    float64          `json:"agent_score"`
}

// CharacterAlias is one distinct surface form of a character with its
// occurrence count within the cluster.
type CharacterAlias struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// CharacterID returns the stable character ID for a cluster ID.
func CharacterID(clusterID int) string {
	return fmt.Sprintf("char_%d", clusterID)
}
