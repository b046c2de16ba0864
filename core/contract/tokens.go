package contract

import (
	"github.com/lbrandt/litnlp/core/tabular"
	"github.com/lbrandt/litnlp/model"
)

// buildTokens converts raw token rows into the ordered token sequence, one
// token per row in file order. A token's Idx is its position in the result,
// never an identifier from the source row. Rows with an unparsable numeric
// field are dropped; downstream consumers bounds-check token indices instead
// of assuming contiguity. Returns the tokens and the number of dropped rows.
//
// Column names have varied across tool versions, so the lemma falls back to
// the surface form, the POS tag to the alternate column name or empty, and
// the NER tag to "O".
func buildTokens(rows []tabular.Row) ([]model.Token, int) {
	tokens := make([]model.Token, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		startChar, err := intField(row, "0", "byte_onset")
		if err != nil {
			dropped++
			continue
		}
		endChar, err := intField(row, "0", "byte_offset")
		if err != nil {
			dropped++
			continue
		}
		sentenceIdx, err := intField(row, "0", "sentence_id")
		if err != nil {
			dropped++
			continue
		}
		paragraphIdx, err := intField(row, "0", "paragraph_id")
		if err != nil {
			dropped++
			continue
		}

		text := row["word"]
		lemma := row.NonEmpty("lemma")
		if lemma == "" {
			lemma = text
		}
		ner := row.NonEmpty("NER_tag", "ner")
		if ner == "" {
			ner = "O"
		}

		tokens = append(tokens, model.Token{
			Idx:          len(tokens),
			Text:         text,
			Lemma:        lemma,
			POS:          row.NonEmpty("POS_tag", "pos"),
			NER:          ner,
			StartChar:    startChar,
			EndChar:      endChar,
			SentenceIdx:  sentenceIdx,
			ParagraphIdx: paragraphIdx,
		})
	}

	return tokens, dropped
}

// tokenStart resolves the start offset of the token at idx, falling back to
// 0 when idx is outside the sequence (the token and entity tables can
// disagree on token count; offsets are best effort in that case).
func tokenStart(tokens []model.Token, idx int) int {
	if idx >= 0 && idx < len(tokens) {
		return tokens[idx].StartChar
	}
	return 0
}

func tokenEnd(tokens []model.Token, idx int) int {
	if idx >= 0 && idx < len(tokens) {
		return tokens[idx].EndChar
	}
	return 0
}

func tokenSentence(tokens []model.Token, idx int) int {
	if idx >= 0 && idx < len(tokens) {
		return tokens[idx].SentenceIdx
	}
	return 0
}
