package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/model"
	"github.com/lbrandt/litnlp/sql"
)

// ContractsDBHandlerFunctions defines the interface for contract database operations.
type ContractsDBHandlerFunctions interface {
	InsertContract(contract *model.StoredContract) error
	SelectContract(rid uuid.UUID) (*model.StoredContract, error)
	SelectContractByDocumentID(documentID string) (*model.StoredContract, error)
	SelectAllContracts(lastCreatedAt *time.Time, limit int) ([]*model.StoredContract, error)
	SelectContractsBySearch(searchTerm string, limit int) ([]*model.StoredContract, error)
	DeleteContract(rid uuid.UUID) error
}

// ContractsDBHandler handles contract-related database operations
type ContractsDBHandler struct {
	db *helper.Database
}

// NewContractsDBHandler creates a new contracts database handler.
// It initializes the database connection and loads contract-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewContractsDBHandler(db *helper.Database, force bool) (*ContractsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	contractsDbHandler := &ContractsDBHandler{
		db: db,
	}

	err := sql.LoadContractsSql(contractsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load contracts sql", err)
	}

	err = contractsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ContractsDBHandler")

	return contractsDbHandler, nil
}

// CreateTable creates the 'contracts' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *ContractsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_contracts();`)
	if err != nil {
		log.Panicf("error initializing contracts table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table contracts")

	return nil
}

// InsertContract inserts a new stored contract with its full document
func (h *ContractsDBHandler) InsertContract(contract *model.StoredContract) error {
	document, err := json.Marshal(contract.Document)
	if err != nil {
		return helper.NewError("marshal document", err)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_contract($1, $2, $3, $4, $5)`,
		contract.DocumentID,
		contract.SchemaVersion,
		contract.TextHash,
		contract.Metadata,
		document,
	)

	return scanStoredContract(row, contract)
}

// SelectContract retrieves a stored contract by RID
func (h *ContractsDBHandler) SelectContract(rid uuid.UUID) (*model.StoredContract, error) {
	contract := &model.StoredContract{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_contract($1)`,
		rid,
	)

	if err := scanStoredContract(row, contract); err != nil {
		return nil, err
	}

	return contract, nil
}

// SelectContractByDocumentID retrieves the most recently stored contract for
// a document ID
func (h *ContractsDBHandler) SelectContractByDocumentID(documentID string) (*model.StoredContract, error) {
	contract := &model.StoredContract{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_contract_by_document_id($1)`,
		documentID,
	)

	if err := scanStoredContract(row, contract); err != nil {
		return nil, err
	}

	return contract, nil
}

// SelectAllContracts retrieves all stored contracts with pagination
func (h *ContractsDBHandler) SelectAllContracts(lastCreatedAt *time.Time, limit int) ([]*model.StoredContract, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_contracts($1, $2)`,
		lastCreatedAt,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var contracts []*model.StoredContract
	for rows.Next() {
		contract := &model.StoredContract{}
		if err := scanStoredContract(rows, contract); err != nil {
			return nil, err
		}

		contracts = append(contracts, contract)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return contracts, nil
}

// SelectContractsBySearch searches stored contracts by document ID or text hash
func (h *ContractsDBHandler) SelectContractsBySearch(searchTerm string, limit int) ([]*model.StoredContract, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_contracts($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var contracts []*model.StoredContract
	for rows.Next() {
		contract := &model.StoredContract{}
		if err := scanStoredContract(rows, contract); err != nil {
			return nil, err
		}

		contracts = append(contracts, contract)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return contracts, nil
}

// DeleteContract deletes a stored contract by RID
func (h *ContractsDBHandler) DeleteContract(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_contract($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanStoredContract scans one contracts row, unmarshalling the JSONB
// document column back into the contract struct.
func scanStoredContract(row scannable, contract *model.StoredContract) error {
	var document []byte
	err := row.Scan(
		&contract.ID,
		&contract.RID,
		&contract.DocumentID,
		&contract.SchemaVersion,
		&contract.TextHash,
		&contract.Metadata,
		&document,
		&contract.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	if len(document) > 0 {
		contract.Document = &model.Contract{}
		if err := json.Unmarshal(document, contract.Document); err != nil {
			return helper.NewError("unmarshal document", err)
		}
	}

	return nil
}
