package model

// Token represents one lexical unit of the source text with resolved
// character offsets. Idx is the position in the token sequence, not any
// identifier carried by the source row.
type Token struct {
	Idx          int    `json:"idx"`
	Text         string `json:"text"`
	Lemma        string `json:"lemma"`
	POS          string `json:"pos"`
	NER          string `json:"ner"`
	StartChar    int    `json:"start_char"`
	EndChar      int    `json:"end_char"`
	SentenceIdx  int    `json:"sentence_idx"`
	ParagraphIdx int    `json:"paragraph_idx"`
}
