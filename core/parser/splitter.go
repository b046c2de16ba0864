package parser

// span is a half-open byte range [start, end) into the source text.
type span struct {
	start int
	end   int
}

// splitSentences segments text at sentence-final punctuation followed by
// whitespace. Surrounding whitespace is excluded from each span. A trailing
// fragment without final punctuation is its own sentence.
func splitSentences(text string) []span {
	var spans []span
	start := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		if isSpace(c) {
			continue
		}
		if start < 0 {
			start = i
		}
		if isSentenceFinal(c) && (i+1 == len(text) || isSpace(text[i+1])) {
			spans = append(spans, span{start: start, end: i + 1})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start: start, end: trimmedEnd(text)})
	}

	return spans
}

// tokenize splits the sentence span into whitespace-delimited tokens with
// byte offsets into the original text.
func tokenize(text string, s span) []TokenPayload {
	tokens := make([]TokenPayload, 0, 8)
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		tokens = append(tokens, TokenPayload{
			Idx:       len(tokens),
			Text:      text[start:end],
			NER:       "O",
			StartChar: start,
			EndChar:   end,
		})
		start = -1
	}

	for i := s.start; i < s.end; i++ {
		if isSpace(text[i]) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(s.end)

	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSentenceFinal(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func trimmedEnd(text string) int {
	end := len(text)
	for end > 0 && isSpace(text[end-1]) {
		end--
	}
	return end
}
