// Package contract assembles the versioned output document from the
// tab-separated files the external NLP tool writes for one document.
//
// The pipeline is a single synchronous pass: token indexing, entity
// resolution, chain derivation, quote resolution, then assembly. Only one
// condition aborts a build: a missing token table, without which no
// character offset can be resolved. Every other malformation degrades to a
// dropped row or an empty collection.
package contract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lbrandt/litnlp/core/tabular"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/model"
)

// DefaultToolVersion is recorded in document metadata unless overridden.
const DefaultToolVersion = "1.0.8"

// textHashLength is the prefix length of the hex content hash.
const textHashLength = 16

// Builder assembles contracts from a tool output directory.
type Builder struct {
	// ToolVersion of the external tool, recorded in document metadata.
	ToolVersion string
	log         *slog.Logger
}

// NewBuilder creates a Builder logging to the given logger.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		ToolVersion: DefaultToolVersion,
		log:         logger,
	}
}

// Build reads the tool's output files under outputDir (located by their
// shared filename prefix) and assembles the contract for one document.
// originalText is the text the tool was run on; duration is the tool's
// processing time, recorded rounded to milliseconds.
func (b *Builder) Build(outputDir, documentID, originalText string, duration time.Duration) (*model.Contract, error) {
	matches, err := filepath.Glob(filepath.Join(outputDir, "*.tokens"))
	if err != nil {
		return nil, helper.NewError("locate tokens table", err)
	}
	if len(matches) == 0 {
		return nil, helper.NewError("locate tokens table", fmt.Errorf("no .tokens file found in %s", outputDir))
	}
	prefix := strings.TrimSuffix(matches[0], ".tokens")

	tokenRows, err := tabular.ReadFile(prefix + ".tokens")
	if err != nil {
		return nil, helper.NewError("read tokens table", err)
	}
	entityRows, err := tabular.ReadFile(prefix + ".entities")
	if err != nil {
		return nil, helper.NewError("read entities table", err)
	}
	quoteRows, err := tabular.ReadFile(prefix + ".quotes")
	if err != nil {
		return nil, helper.NewError("read quotes table", err)
	}

	tokens, droppedTokens := buildTokens(tokenRows)
	characters, mentions, clusterToChar, droppedEntities := buildCharactersAndMentions(entityRows, tokens)
	chains := buildCorefChains(mentions)
	quotes, droppedQuotes := buildQuotes(quoteRows, tokens, clusterToChar, characters)

	if dropped := droppedTokens + droppedEntities + droppedQuotes; dropped > 0 {
		b.log.Warn("Dropped malformed rows while building contract",
			slog.String("document_id", documentID),
			slog.Int("token_rows", droppedTokens),
			slog.Int("entity_rows", droppedEntities),
			slog.Int("quote_rows", droppedQuotes),
		)
	}

	hash := sha256.Sum256([]byte(originalText))

	doc := &model.Contract{
		SchemaVersion: model.SchemaVersion,
		DocumentID:    documentID,
		Metadata: model.ContractMetadata{
			BookNLPVersion:        b.ToolVersion,
			TextLength:            len(originalText),
			TextHash:              hex.EncodeToString(hash[:])[:textHashLength],
			ProcessingTimeSeconds: math.Round(duration.Seconds()*1000) / 1000,
			TokenCount:            len(tokens),
			SentenceCount:         sentenceCount(tokens),
			CharacterCount:        len(characters),
			MentionCount:          len(mentions),
			QuoteCount:            len(quotes),
		},
		Characters:  characters,
		Mentions:    mentions,
		CorefChains: chains,
		Quotes:      quotes,
		Tokens:      tokens,
	}

	b.log.Info("Assembled contract",
		slog.String("document_id", documentID),
		slog.Int("tokens", len(tokens)),
		slog.Int("characters", len(characters)),
		slog.Int("mentions", len(mentions)),
		slog.Int("quotes", len(quotes)),
	)

	return doc, nil
}

// sentenceCount is the highest observed sentence index plus one, or 0 for an
// empty token sequence.
func sentenceCount(tokens []model.Token) int {
	if len(tokens) == 0 {
		return 0
	}

	max := 0
	for _, tok := range tokens {
		if tok.SentenceIdx > max {
			max = tok.SentenceIdx
		}
	}
	return max + 1
}

// intField parses a numeric column, substituting def when none of the given
// columns exist. A column that is present but unparsable is a row-level
// error; callers drop the row and continue.
func intField(row tabular.Row, def string, keys ...string) (int, error) {
	v, ok := row.Get(keys...)
	if !ok {
		v = def
	}
	return strconv.Atoi(v)
}
