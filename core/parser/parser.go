package parser

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/lbrandt/litnlp/helper"
)

// BasicParser creates a parser that segments and tokenizes without tagging.
// POS stays empty and NER stays "O"; it needs no models and is the fallback
// for environments without ONNX support.
func BasicParser() ParseFunc {
	return func(text string) (*ParseResult, error) {
		spans := splitSentences(text)

		sentences := make([]Sentence, 0, len(spans))
		total := 0
		for i, s := range spans {
			tokens := tokenize(text, s)
			total += len(tokens)
			sentences = append(sentences, Sentence{
				Idx:       i,
				Text:      text[s.start:s.end],
				StartChar: s.start,
				EndChar:   s.end,
				Tokens:    tokens,
			})
		}

		return &ParseResult{
			Sentences:  sentences,
			TokenCount: total,
		}, nil
	}
}

// DefaultParser creates a parser backed by ONNX token-classification models:
// a POS tagger and a NER model, both run through a shared hugot Go session
// over the basic segmentation.
func DefaultParser() (ParseFunc, error) {
	posPath, err := helper.PrepareModel("QCRI/bert-base-multilingual-cased-pos-english", "model.onnx")
	if err != nil {
		return nil, err
	}
	nerPath, err := helper.PrepareModel("KnightsAnalytics/distilbert-NER", "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	posConfig := hugot.TokenClassificationConfig{
		ModelPath: posPath,
		Name:      "pos-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
		},
	}
	posPipeline, err := hugot.NewPipeline(session, posConfig)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create POS pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create POS pipeline: %w", err)
	}

	nerConfig := hugot.TokenClassificationConfig{
		ModelPath: nerPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, nerConfig)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	segment := BasicParser()

	return func(text string) (*ParseResult, error) {
		result, err := segment(text)
		if err != nil {
			return nil, err
		}

		posResult, err := posPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run POS tagging: %w", err)
		}
		if len(posResult.Entities) > 0 {
			applyLabels(result.Sentences, posResult.Entities[0], func(t *TokenPayload, label string) {
				t.POS = label
			})
		}

		nerResult, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}
		if len(nerResult.Entities) > 0 {
			applyLabels(result.Sentences, nerResult.Entities[0], func(t *TokenPayload, label string) {
				t.NER = label
			})
		}

		return result, nil
	}, nil
}

// applyLabels writes each predicted span's label onto every token it
// overlaps. Model spans and whitespace tokens rarely line up exactly, so
// overlap is the match criterion.
func applyLabels(sentences []Sentence, entities []pipelines.Entity, set func(*TokenPayload, string)) {
	for _, entity := range entities {
		label := normalizeLabel(entity.Entity)
		for si := range sentences {
			tokens := sentences[si].Tokens
			for ti := range tokens {
				if tokens[ti].StartChar < int(entity.End) && tokens[ti].EndChar > int(entity.Start) {
					set(&tokens[ti], label)
				}
			}
		}
	}
}

// normalizeLabel removes BIO tagging prefixes (B- for beginning, I- for inside).
func normalizeLabel(label string) string {
	if strings.HasPrefix(label, "B-") || strings.HasPrefix(label, "I-") {
		return label[2:]
	}
	return label
}
