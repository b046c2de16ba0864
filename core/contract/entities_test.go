package contract

import (
	"testing"

	"github.com/lbrandt/litnlp/core/tabular"
	"github.com/lbrandt/litnlp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entityRow(coref, start, end, mentionType, entityType, text string) tabular.Row {
	return tabular.Row{
		"COREF":        coref,
		"start_token":  start,
		"end_token":    end,
		"mention_type": mentionType,
		"entity_type":  entityType,
		"text":         text,
	}
}

func TestBuildCharactersAndMentions(t *testing.T) {
	tokens := []model.Token{
		{Idx: 0, StartChar: 0, EndChar: 5, SentenceIdx: 0},
		{Idx: 1, StartChar: 6, EndChar: 10, SentenceIdx: 0},
		{Idx: 2, StartChar: 11, EndChar: 15, SentenceIdx: 1},
	}

	t.Run("aggregates clusters into characters in first-encounter order", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("0", "0", "0", "PROP", "PER", "Alice"),
			entityRow("5", "2", "2", "PROP", "PER", "Tom"),
			entityRow("0", "1", "1", "PRON", "PER", "she"),
		}

		characters, mentions, clusterToChar, dropped := buildCharactersAndMentions(rows, tokens)

		assert.Equal(t, 0, dropped)
		require.Len(t, characters, 2)
		assert.Equal(t, "char_0", characters[0].ID, "cluster 0 should appear first")
		assert.Equal(t, "char_5", characters[1].ID, "cluster 5 should keep its cluster number")
		assert.Equal(t, 2, characters[0].MentionCount)
		assert.Equal(t, 1, characters[1].MentionCount)
		require.Len(t, mentions, 3)
		assert.Equal(t, "char_0", clusterToChar[0])
		assert.Equal(t, "char_5", clusterToChar[5])
	})

	t.Run("picks the most frequent surface form as canonical name", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("5", "0", "0", "PROP", "PER", "Tom"),
			entityRow("5", "1", "1", "PROP", "PER", "Mr. Sawyer"),
			entityRow("5", "2", "2", "PROP", "PER", "Tom"),
			entityRow("5", "0", "0", "PROP", "PER", "Tom"),
		}

		characters, _, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, characters, 1)
		assert.Equal(t, "Tom", characters[0].CanonicalName)
		require.Len(t, characters[0].Aliases, 1, "the canonical name should not reappear as alias")
		assert.Equal(t, "Mr. Sawyer", characters[0].Aliases[0].Text)
		assert.Equal(t, 1, characters[0].Aliases[0].Count)
	})

	t.Run("breaks frequency ties by first-encountered surface form", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("0", "0", "0", "PROP", "PER", "Alice"),
			entityRow("0", "1", "1", "PRON", "PER", "she"),
		}

		characters, _, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, characters, 1)
		assert.Equal(t, "Alice", characters[0].CanonicalName, "first-encountered form should win a frequency tie")
	})

	t.Run("prefers the tool-provided name over frequency", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("0", "0", "0", "PROP", "PER", "Tom"),
			entityRow("0", "1", "1", "PROP", "PER", "Tom"),
		}
		rows[1]["name"] = "Tom Sawyer"

		characters, _, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, characters, 1)
		assert.Equal(t, "Tom Sawyer", characters[0].CanonicalName, "the last non-empty name column should win")
		require.Len(t, characters[0].Aliases, 1)
		assert.Equal(t, "Tom", characters[0].Aliases[0].Text)
		assert.Equal(t, 2, characters[0].Aliases[0].Count)
	})

	t.Run("sorts aliases by descending count", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("0", "0", "0", "PROP", "PER", "Alice"),
			entityRow("0", "1", "1", "PROP", "PER", "Alice"),
			entityRow("0", "2", "2", "PROP", "PER", "Alice"),
			entityRow("0", "0", "0", "NOM", "PER", "the girl"),
			entityRow("0", "1", "1", "PRON", "PER", "she"),
			entityRow("0", "2", "2", "PRON", "PER", "she"),
		}

		characters, _, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, characters, 1)
		assert.Equal(t, "Alice", characters[0].CanonicalName)
		require.Len(t, characters[0].Aliases, 2)
		assert.Equal(t, "she", characters[0].Aliases[0].Text, "higher count should sort first")
		assert.Equal(t, "the girl", characters[0].Aliases[1].Text)
	})

	t.Run("leaves unclustered mentions without a character", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("-1", "2", "2", "NOM", "LOC", "home"),
		}

		characters, mentions, _, dropped := buildCharactersAndMentions(rows, tokens)

		assert.Equal(t, 0, dropped)
		assert.Empty(t, characters, "a negative cluster should yield no character")
		require.Len(t, mentions, 1)
		assert.Nil(t, mentions[0].CharacterID)
	})

	t.Run("resolves character offsets from the token sequence", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("0", "1", "2", "PROP", "PER", "went home"),
		}

		_, mentions, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, mentions, 1)
		assert.Equal(t, "mention_0", mentions[0].ID)
		assert.Equal(t, 6, mentions[0].StartChar)
		assert.Equal(t, 15, mentions[0].EndChar)
		assert.Equal(t, 0, mentions[0].SentenceIdx, "sentence index should come from the start token")
	})

	t.Run("zeroes offsets for token indices outside the sequence", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("0", "999", "999", "PROP", "PER", "ghost"),
		}

		_, mentions, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, mentions, 1)
		assert.Equal(t, 999, mentions[0].StartToken, "the raw token index should survive")
		assert.Equal(t, 0, mentions[0].StartChar, "an unresolvable index should yield offset 0")
		assert.Equal(t, 0, mentions[0].EndChar)
	})

	t.Run("drops rows with unparsable numeric fields", func(t *testing.T) {
		rows := []tabular.Row{
			entityRow("zero", "0", "0", "PROP", "PER", "Alice"),
			entityRow("0", "0", "0", "PROP", "PER", "Alice"),
		}

		characters, mentions, _, dropped := buildCharactersAndMentions(rows, tokens)

		assert.Equal(t, 1, dropped)
		require.Len(t, mentions, 1)
		assert.Equal(t, "mention_1", mentions[0].ID, "mention IDs should keep the source row index")
		require.Len(t, characters, 1)
		assert.Equal(t, 1, characters[0].MentionCount)
	})

	t.Run("defaults mention and entity types", func(t *testing.T) {
		rows := []tabular.Row{
			{"COREF": "0", "start_token": "0", "end_token": "0", "text": "Alice"},
		}

		_, mentions, _, _ := buildCharactersAndMentions(rows, tokens)

		require.Len(t, mentions, 1)
		assert.Equal(t, model.MentionTypeProper, mentions[0].MentionType)
		assert.Equal(t, model.EntityTypePerson, mentions[0].EntityType)
	})
}

func TestBuildCorefChains(t *testing.T) {
	charA := "char_0"
	charB := "char_5"

	t.Run("groups mentions per character in first-encounter order", func(t *testing.T) {
		mentions := []model.Mention{
			{ID: "mention_0", CharacterID: &charB},
			{ID: "mention_1", CharacterID: nil},
			{ID: "mention_2", CharacterID: &charA},
			{ID: "mention_3", CharacterID: &charB},
		}

		chains := buildCorefChains(mentions)

		require.Len(t, chains, 2)
		assert.Equal(t, "chain_char_5", chains[0].ChainID)
		assert.Equal(t, []string{"mention_0", "mention_3"}, chains[0].Mentions)
		assert.Equal(t, "chain_char_0", chains[1].ChainID)
		assert.Equal(t, []string{"mention_2"}, chains[1].Mentions)
		require.NotNil(t, chains[0].CharacterID)
		assert.Equal(t, "char_5", *chains[0].CharacterID)
	})

	t.Run("emits no chain for unresolved mentions", func(t *testing.T) {
		mentions := []model.Mention{
			{ID: "mention_0", CharacterID: nil},
		}

		chains := buildCorefChains(mentions)

		assert.Empty(t, chains)
	})
}
