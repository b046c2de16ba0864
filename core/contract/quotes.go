package contract

import (
	"strconv"
	"strings"

	"github.com/lbrandt/litnlp/core/tabular"
	"github.com/lbrandt/litnlp/model"
)

// buildQuotes converts raw quote rows into the quote list, resolving each
// speaker cluster through the lookup built by the entity resolver. Token
// index columns appear under two naming conventions across tool versions.
// Returns the quotes and the dropped row count.
//
// Speaker values "_", "-1" and "" mean "no speaker". A numeric speaker
// missing from the lookup yields nil speaker fields; an unresolvable
// speaker is not an error. When the row carries no literal quote text, the
// text is synthesized by joining the token surfaces of the span.
func buildQuotes(rows []tabular.Row, tokens []model.Token, clusterToChar map[int]string, characters []model.Character) ([]model.Quote, int) {
	nameByID := make(map[string]string, len(characters))
	for _, ch := range characters {
		nameByID[ch.ID] = ch.CanonicalName
	}

	quotes := make([]model.Quote, 0, len(rows))
	dropped := 0

	for i, row := range rows {
		startToken, err := intField(row, "0", "quote_start", "start")
		if err != nil {
			dropped++
			continue
		}
		endToken, err := intField(row, "0", "quote_end", "end")
		if err != nil {
			dropped++
			continue
		}

		var speakerID, speakerName *string
		speaker, _ := row.Get("char_id", "speaker")
		if speaker != "" && speaker != "_" && speaker != "-1" {
			if clusterID, err := strconv.Atoi(speaker); err == nil {
				if id, ok := clusterToChar[clusterID]; ok {
					speakerID = &id
					if name, ok := nameByID[id]; ok {
						speakerName = &name
					}
				}
			}
		}

		text := row["quote"]
		if text == "" {
			text = joinTokenSpan(tokens, startToken, endToken)
		}

		quoteType := row.NonEmpty("type")
		if quoteType == "" {
			quoteType = model.QuoteTypeExplicit
		}

		quotes = append(quotes, model.Quote{
			ID:          model.QuoteID(i),
			Text:        text,
			StartToken:  startToken,
			EndToken:    endToken,
			StartChar:   tokenStart(tokens, startToken),
			EndChar:     tokenEnd(tokens, endToken),
			SpeakerID:   speakerID,
			SpeakerName: speakerName,
			AddresseeID: nil, // not extractable from the source format yet
			QuoteType:   quoteType,
		})
	}

	return quotes, dropped
}

// joinTokenSpan joins the surface text of tokens in [start, end] with single
// spaces. Out-of-range or inverted spans yield "".
func joinTokenSpan(tokens []model.Token, start, end int) string {
	if start < 0 || start >= len(tokens) || end >= len(tokens) || end < start {
		return ""
	}

	parts := make([]string, 0, end-start+1)
	for _, tok := range tokens[start : end+1] {
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}
