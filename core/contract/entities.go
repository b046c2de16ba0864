package contract

import (
	"sort"

	"github.com/lbrandt/litnlp/core/tabular"
	"github.com/lbrandt/litnlp/model"
)

// clusterAccumulator gathers everything a cluster needs for character
// aggregation. Surface forms are tracked in first-encounter order so the
// result is deterministic without relying on map iteration.
type clusterAccumulator struct {
	total     int
	counts    map[string]int
	order     []string
	canonical string
}

// buildCharactersAndMentions converts raw entity rows into the character
// set, the flat mention list and the cluster-ID to character-ID lookup used
// by the quote resolver. Returns those three plus the dropped row count.
//
// A row with a negative cluster ID yields a mention with nil character ID
// and contributes to no character. A row whose numeric fields fail to parse
// is dropped entirely.
func buildCharactersAndMentions(rows []tabular.Row, tokens []model.Token) ([]model.Character, []model.Mention, map[int]string, int) {
	mentions := make([]model.Mention, 0, len(rows))
	clusterToChar := make(map[int]string)
	clusters := make(map[int]*clusterAccumulator)
	var clusterOrder []int
	dropped := 0

	for i, row := range rows {
		clusterID, err := intField(row, "-1", "COREF")
		if err != nil {
			dropped++
			continue
		}
		startToken, err := intField(row, "0", "start_token")
		if err != nil {
			dropped++
			continue
		}
		endToken, err := intField(row, "0", "end_token")
		if err != nil {
			dropped++
			continue
		}

		mentionType := row.NonEmpty("mention_type", "cat")
		if mentionType == "" {
			mentionType = model.MentionTypeProper
		}
		entityType := row.NonEmpty("entity_type", "ner")
		if entityType == "" {
			entityType = model.EntityTypePerson
		}
		text := row["text"]

		var characterID *string
		if clusterID >= 0 {
			id := model.CharacterID(clusterID)
			characterID = &id
			clusterToChar[clusterID] = id
		}

		mentions = append(mentions, model.Mention{
			ID:          model.MentionID(i),
			CharacterID: characterID,
			Text:        text,
			StartToken:  startToken,
			EndToken:    endToken,
			StartChar:   tokenStart(tokens, startToken),
			EndChar:     tokenEnd(tokens, endToken),
			SentenceIdx: tokenSentence(tokens, startToken),
			MentionType: mentionType,
			EntityType:  entityType,
		})

		if clusterID < 0 {
			continue
		}

		acc, ok := clusters[clusterID]
		if !ok {
			acc = &clusterAccumulator{counts: make(map[string]int)}
			clusters[clusterID] = acc
			clusterOrder = append(clusterOrder, clusterID)
		}
		acc.total++
		if _, seen := acc.counts[text]; !seen {
			acc.order = append(acc.order, text)
		}
		acc.counts[text]++
		// The tool supplies the per-row canonical name inconsistently;
		// the last non-empty value wins. This scan-order dependency is
		// load bearing for reproducibility.
		if name := row["name"]; name != "" {
			acc.canonical = name
		}
	}

	characters := make([]model.Character, 0, len(clusterOrder))
	for _, clusterID := range clusterOrder {
		acc := clusters[clusterID]
		characters = append(characters, model.Character{
			ID:            model.CharacterID(clusterID),
			CanonicalName: canonicalName(acc),
			Aliases:       aliases(acc),
			MentionCount:  acc.total,
			Gender:        nil, // not derivable from the source format yet
			AgentScore:    0.0,
		})
	}

	return characters, mentions, clusterToChar, dropped
}

// canonicalName picks the display name for a cluster: the tool-provided name
// when any row supplied one, otherwise the most frequent surface form with
// ties broken by first-encountered order.
func canonicalName(acc *clusterAccumulator) string {
	if acc.canonical != "" {
		return acc.canonical
	}

	var name string
	best := 0
	for _, text := range acc.order {
		if acc.counts[text] > best {
			name = text
			best = acc.counts[text]
		}
	}
	return name
}

// aliases lists every distinct surface form except the canonical name,
// sorted by descending count. The stable sort keeps first-encountered order
// for equal counts.
func aliases(acc *clusterAccumulator) []model.CharacterAlias {
	canonical := canonicalName(acc)

	result := make([]model.CharacterAlias, 0, len(acc.order))
	for _, text := range acc.order {
		if text == canonical {
			continue
		}
		result = append(result, model.CharacterAlias{Text: text, Count: acc.counts[text]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return result
}
