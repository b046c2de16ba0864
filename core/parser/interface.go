// Package parser provides the stateless tagging parser: raw text in, tagged
// sentences out. Segmentation is pure Go; tagging comes from ONNX
// token-classification models when they are wired in.
package parser

// ParseFunc parses raw text into tagged sentences.
type ParseFunc func(text string) (*ParseResult, error)

// EmbedFunc generates an embedding vector for a text.
type EmbedFunc func(text string) ([]float32, error)

// TokenPayload is one token of a parsed sentence. Offsets are byte offsets
// into the original text.
type TokenPayload struct {
	Idx       int    `json:"i"`
	Text      string `json:"text"`
	POS       string `json:"pos"`
	NER       string `json:"ent"`
	StartChar int    `json:"start"`
	EndChar   int    `json:"end"`
}

// Sentence is one segmented sentence with its tokens.
type Sentence struct {
	Idx       int            `json:"idx"`
	Text      string         `json:"text"`
	StartChar int            `json:"start"`
	EndChar   int            `json:"end"`
	Tokens    []TokenPayload `json:"tokens"`
}

// ParseResult is the full parse of one text.
type ParseResult struct {
	Sentences  []Sentence `json:"sentences"`
	TokenCount int        `json:"token_count"`
}
