// Package litnlp wires the BookNLP runner, the tagging parser and the
// optional contract store behind one facade.
package litnlp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lbrandt/litnlp/core/booknlp"
	"github.com/lbrandt/litnlp/core/contract"
	"github.com/lbrandt/litnlp/core/parser"
	"github.com/lbrandt/litnlp/database"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/model"
	loadSql "github.com/lbrandt/litnlp/sql"
)

// LitNLP provides a unified interface to the runner, the parser and the
// database handlers. DB and the handlers are nil when created without a
// store; processing then returns documents without persisting them.
type LitNLP struct {
	DB         *helper.Database
	Contracts  *database.ContractsDBHandler
	Characters *database.CharactersDBHandler
	Runner     *booknlp.Runner
	Parser     parser.ParseFunc
	Embedder   parser.EmbedFunc // Optional, enables character similarity search
	// Logging
	log *slog.Logger
}

// New creates a LitNLP instance without persistence. The runner is
// configured from the environment and the parser is the model-free basic
// parser until UseDefaultParser is called.
func New() *LitNLP {
	logger := newLogger()

	return &LitNLP{
		Runner: booknlp.NewRunner(booknlp.ConfigFromEnv(), logger),
		Parser: parser.BasicParser(),
		log:    logger,
	}
}

// NewWithStore creates a LitNLP instance with contract persistence. It
// initializes the database extensions and both handlers; the contracts
// handler must come first because the characters table references it.
func NewWithStore(config *helper.DatabaseConfiguration) (*LitNLP, error) {
	logger := newLogger()

	db := helper.NewDatabase("litnlp", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	contracts, err := database.NewContractsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create contracts handler", err)
	}

	characters, err := database.NewCharactersDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create characters handler", err)
	}

	return &LitNLP{
		DB:         db,
		Contracts:  contracts,
		Characters: characters,
		Runner:     booknlp.NewRunner(booknlp.ConfigFromEnv(), logger),
		Parser:     parser.BasicParser(),
		log:        logger,
	}, nil
}

func newLogger() *slog.Logger {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	return slog.New(helper.NewPrettyHandler(os.Stdout, opts))
}

// Close closes the database connection
func (l *LitNLP) Close() error {
	if l.DB != nil && l.DB.Instance != nil {
		return l.DB.Instance.Close()
	}
	return nil
}

// Log exposes the configured logger.
func (l *LitNLP) Log() *slog.Logger {
	return l.log
}

// UseDefaultParser replaces the basic parser with the ONNX-backed tagging
// parser (POS + NER models, downloaded on first use).
func (l *LitNLP) UseDefaultParser() error {
	parse, err := parser.DefaultParser()
	if err != nil {
		return helper.NewError("create default parser", err)
	}
	l.Parser = parse
	return nil
}

// UseDefaultEmbedder enables canonical name embeddings with the
// all-MiniLM-L6-v2 model (384 dimensions). Stored characters then become
// reachable through similarity search.
func (l *LitNLP) UseDefaultEmbedder() error {
	embedder, err := parser.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	l.Embedder = embedder
	return nil
}

// ProcessText runs the external tool on text and returns the assembled
// contract. With a store configured, the contract and its characters are
// persisted before returning.
func (l *LitNLP) ProcessText(ctx context.Context, text, documentID string) (*model.Contract, error) {
	if documentID == "" {
		documentID = model.NewDocumentID()
	}

	doc, err := l.Runner.Process(ctx, text, documentID)
	if err != nil {
		return nil, helper.NewError("process text", err)
	}

	if l.Contracts != nil {
		if _, err := l.StoreContract(doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// BuildFromOutputDir assembles a contract from an existing tool output
// directory without running the external tool.
func (l *LitNLP) BuildFromOutputDir(outputDir, documentID, text string, duration time.Duration) (*model.Contract, error) {
	builder := contract.NewBuilder(l.log)
	return builder.Build(outputDir, documentID, text, duration)
}

// StoreContract persists a built contract and one character row per
// document character. Canonical names are embedded when an embedder is
// configured.
func (l *LitNLP) StoreContract(doc *model.Contract) (*model.StoredContract, error) {
	if l.Contracts == nil {
		return nil, helper.NewError("store contract", fmt.Errorf("no store configured, use NewWithStore"))
	}

	stored := model.NewStoredContract(doc)
	if err := l.Contracts.InsertContract(stored); err != nil {
		return nil, helper.NewError("insert contract", err)
	}

	l.log.Info("Stored contract", slog.String("rid", stored.RID.String()), slog.String("document_id", stored.DocumentID))

	for i, character := range doc.Characters {
		var embedding []float32
		if l.Embedder != nil {
			var err error
			embedding, err = l.Embedder(character.CanonicalName)
			if err != nil {
				return nil, helper.NewError(fmt.Sprintf("embed character %d", i), err)
			}
		}

		row := &model.StoredCharacter{
			ContractRID:   stored.RID,
			CharacterID:   character.ID,
			CanonicalName: character.CanonicalName,
			MentionCount:  character.MentionCount,
			Embedding:     embedding,
		}
		if err := l.Characters.InsertCharacter(row); err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert character %d", i), err)
		}
	}

	return stored, nil
}

// SearchCharacters searches stored characters by canonical name substring.
func (l *LitNLP) SearchCharacters(searchTerm string, limit int) ([]*model.StoredCharacter, error) {
	if l.Characters == nil {
		return nil, helper.NewError("search characters", fmt.Errorf("no store configured, use NewWithStore"))
	}
	return l.Characters.SelectCharactersByName(searchTerm, limit)
}

// SearchCharactersBySimilarity embeds the query and returns the stored
// characters with the closest canonical name embeddings across documents.
func (l *LitNLP) SearchCharactersBySimilarity(query string, limit int) ([]*model.StoredCharacter, error) {
	if l.Characters == nil {
		return nil, helper.NewError("similarity search", fmt.Errorf("no store configured, use NewWithStore"))
	}
	if l.Embedder == nil {
		return nil, helper.NewError("similarity search", fmt.Errorf("embedder not set, use UseDefaultEmbedder() first"))
	}

	embedding, err := l.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return l.Characters.SelectCharactersBySimilarity(embedding, limit)
}

// SelectContract retrieves a stored contract by RID.
func (l *LitNLP) SelectContract(rid uuid.UUID) (*model.StoredContract, error) {
	if l.Contracts == nil {
		return nil, helper.NewError("select contract", fmt.Errorf("no store configured, use NewWithStore"))
	}
	return l.Contracts.SelectContract(rid)
}

// ChangeIndexType changes the character embedding index type between HNSW
// and IVFFlat.
func (l *LitNLP) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	if l.Characters == nil {
		return helper.NewError("change index type", fmt.Errorf("no store configured, use NewWithStore"))
	}
	return l.Characters.ChangeIndexType(ctx, indexType, params)
}
