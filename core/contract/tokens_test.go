package contract

import (
	"testing"

	"github.com/lbrandt/litnlp/core/tabular"
	"github.com/lbrandt/litnlp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTokens(t *testing.T) {
	t.Run("converts rows in file order with positional indices", func(t *testing.T) {
		rows := []tabular.Row{
			{"word": "Alice", "lemma": "Alice", "POS_tag": "NNP", "NER_tag": "PER", "byte_onset": "0", "byte_offset": "5", "sentence_id": "0", "paragraph_id": "0"},
			{"word": "went", "lemma": "go", "POS_tag": "VBD", "NER_tag": "O", "byte_onset": "6", "byte_offset": "10", "sentence_id": "0", "paragraph_id": "0"},
		}

		tokens, dropped := buildTokens(rows)

		require.Len(t, tokens, 2, "both rows should convert")
		assert.Equal(t, 0, dropped, "no row should be dropped")
		assert.Equal(t, 0, tokens[0].Idx, "first token index should be 0")
		assert.Equal(t, 1, tokens[1].Idx, "second token index should be 1")
		assert.Equal(t, "go", tokens[1].Lemma, "lemma column should be used when present")
		assert.Equal(t, 6, tokens[1].StartChar, "start offset should come from byte_onset")
		assert.Equal(t, 10, tokens[1].EndChar, "end offset should come from byte_offset")
	})

	t.Run("applies column fallbacks and defaults", func(t *testing.T) {
		rows := []tabular.Row{
			{"word": "home", "lemma": "", "pos": "NN", "byte_onset": "11", "byte_offset": "15", "sentence_id": "0", "paragraph_id": "0"},
		}

		tokens, dropped := buildTokens(rows)

		require.Len(t, tokens, 1)
		assert.Equal(t, 0, dropped)
		assert.Equal(t, "home", tokens[0].Lemma, "lemma should fall back to the surface form")
		assert.Equal(t, "NN", tokens[0].POS, "pos should be read from the alternate column name")
		assert.Equal(t, "O", tokens[0].NER, "ner should default to O when absent")
	})

	t.Run("defaults absent numeric columns to zero", func(t *testing.T) {
		rows := []tabular.Row{
			{"word": "bare"},
		}

		tokens, dropped := buildTokens(rows)

		require.Len(t, tokens, 1)
		assert.Equal(t, 0, dropped)
		assert.Equal(t, 0, tokens[0].StartChar)
		assert.Equal(t, 0, tokens[0].EndChar)
		assert.Equal(t, 0, tokens[0].SentenceIdx)
		assert.Equal(t, 0, tokens[0].ParagraphIdx)
	})

	t.Run("drops rows with unparsable numeric fields and keeps indices contiguous", func(t *testing.T) {
		rows := []tabular.Row{
			{"word": "good", "byte_onset": "0", "byte_offset": "4", "sentence_id": "0", "paragraph_id": "0"},
			{"word": "bad", "byte_onset": "oops", "byte_offset": "9", "sentence_id": "0", "paragraph_id": "0"},
			{"word": "also", "byte_onset": "10", "byte_offset": "14", "sentence_id": "1", "paragraph_id": "0"},
		}

		tokens, dropped := buildTokens(rows)

		require.Len(t, tokens, 2, "the malformed row should be dropped")
		assert.Equal(t, 1, dropped)
		assert.Equal(t, "good", tokens[0].Text)
		assert.Equal(t, "also", tokens[1].Text)
		assert.Equal(t, 1, tokens[1].Idx, "indices should stay contiguous after a drop")
	})
}

func TestTokenSpanHelpers(t *testing.T) {
	tokens := []model.Token{
		{Idx: 0, StartChar: 0, EndChar: 5, SentenceIdx: 0},
		{Idx: 1, StartChar: 6, EndChar: 10, SentenceIdx: 1},
	}

	t.Run("resolves offsets inside the sequence", func(t *testing.T) {
		assert.Equal(t, 6, tokenStart(tokens, 1))
		assert.Equal(t, 10, tokenEnd(tokens, 1))
		assert.Equal(t, 1, tokenSentence(tokens, 1))
	})

	t.Run("falls back to zero outside the sequence", func(t *testing.T) {
		assert.Equal(t, 0, tokenStart(tokens, 999), "out-of-range index should resolve to 0")
		assert.Equal(t, 0, tokenEnd(tokens, -1))
		assert.Equal(t, 0, tokenSentence(tokens, 2))
	})
}
