package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/model"
	"github.com/lbrandt/litnlp/sql"
	"github.com/pgvector/pgvector-go"
)

// CharactersDBHandlerFunctions defines the interface for character database operations.
type CharactersDBHandlerFunctions interface {
	InsertCharacter(character *model.StoredCharacter) error
	SelectCharactersByContract(contractRID uuid.UUID) ([]*model.StoredCharacter, error)
	SelectCharactersByName(searchTerm string, limit int) ([]*model.StoredCharacter, error)
	SelectCharactersBySimilarity(embedding []float32, limit int) ([]*model.StoredCharacter, error)
	UpdateCharacterEmbedding(id int64, embedding []float32) error
	DeleteCharactersByContract(contractRID uuid.UUID) error
}

// CharactersDBHandler handles character-related database operations
type CharactersDBHandler struct {
	db *helper.Database
}

// NewCharactersDBHandler creates a new characters database handler. The
// characters table references the contracts table, so a ContractsDBHandler
// must be initialized first.
// If force is true, it will reload the SQL functions even if they already exist.
func NewCharactersDBHandler(db *helper.Database, force bool) (*CharactersDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	charactersDbHandler := &CharactersDBHandler{
		db: db,
	}

	err := sql.LoadCharactersSql(charactersDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load characters sql", err)
	}

	err = charactersDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized CharactersDBHandler")

	return charactersDbHandler, nil
}

// CreateTable creates the 'characters' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *CharactersDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_characters();`)
	if err != nil {
		log.Panicf("error initializing characters table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table characters")

	return nil
}

// InsertCharacter inserts a character row for a stored contract. The
// embedding may be empty; the row is then excluded from similarity search.
func (h *CharactersDBHandler) InsertCharacter(character *model.StoredCharacter) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_character($1, $2, $3, $4, $5)`,
		character.ContractRID,
		character.CharacterID,
		character.CanonicalName,
		character.MentionCount,
		nullableVector(character.Embedding),
	)

	err := row.Scan(
		&character.ID,
		&character.ContractID,
		&character.ContractRID,
		&character.CharacterID,
		&character.CanonicalName,
		&character.MentionCount,
		&character.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectCharactersByContract retrieves all characters of a stored contract
func (h *CharactersDBHandler) SelectCharactersByContract(contractRID uuid.UUID) ([]*model.StoredCharacter, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_characters_by_contract($1)`,
		contractRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var characters []*model.StoredCharacter
	for rows.Next() {
		character := &model.StoredCharacter{}
		err := rows.Scan(
			&character.ID,
			&character.ContractID,
			&character.ContractRID,
			&character.CharacterID,
			&character.CanonicalName,
			&character.MentionCount,
			&character.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		characters = append(characters, character)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return characters, nil
}

// SelectCharactersByName searches characters by canonical name
func (h *CharactersDBHandler) SelectCharactersByName(searchTerm string, limit int) ([]*model.StoredCharacter, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_characters_by_name($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var characters []*model.StoredCharacter
	for rows.Next() {
		character := &model.StoredCharacter{}
		err := rows.Scan(
			&character.ID,
			&character.ContractID,
			&character.ContractRID,
			&character.CharacterID,
			&character.CanonicalName,
			&character.MentionCount,
			&character.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		characters = append(characters, character)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return characters, nil
}

// SelectCharactersBySimilarity retrieves the characters whose canonical name
// embedding is closest to the given embedding, across all stored contracts
func (h *CharactersDBHandler) SelectCharactersBySimilarity(embedding []float32, limit int) ([]*model.StoredCharacter, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_characters_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var characters []*model.StoredCharacter
	for rows.Next() {
		character := &model.StoredCharacter{}
		err := rows.Scan(
			&character.ID,
			&character.ContractID,
			&character.ContractRID,
			&character.CharacterID,
			&character.CanonicalName,
			&character.MentionCount,
			&character.CreatedAt,
			&character.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		characters = append(characters, character)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return characters, nil
}

// UpdateCharacterEmbedding sets the embedding of a character row
func (h *CharactersDBHandler) UpdateCharacterEmbedding(id int64, embedding []float32) error {
	_, err := h.db.Instance.Exec(
		`SELECT update_character_embedding($1, $2)`,
		id,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteCharactersByContract deletes all characters of a stored contract
func (h *CharactersDBHandler) DeleteCharactersByContract(contractRID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_characters_by_contract($1)`,
		contractRID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// nullableVector maps an empty embedding to SQL NULL.
func nullableVector(embedding []float32) any {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}
