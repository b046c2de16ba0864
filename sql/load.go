package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed contracts.sql
var contractsSQL string

//go:embed characters.sql
var charactersSQL string

// Function lists for verification
var ContractsFunctions = []string{
	"init_contracts",
	"insert_contract",
	"select_contract",
	"select_contract_by_document_id",
	"select_all_contracts",
	"search_contracts",
	"delete_contract",
}

var CharactersFunctions = []string{
	"init_characters",
	"insert_character",
	"select_characters_by_contract",
	"select_characters_by_name",
	"select_characters_by_similarity",
	"update_character_embedding",
	"delete_characters_by_contract",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadContractsSql loads contract-related SQL functions
func LoadContractsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ContractsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing contracts functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(contractsSQL)
	if err != nil {
		return fmt.Errorf("error executing contracts SQL: %w", err)
	}

	exist, err := checkFunctions(db, ContractsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL contracts functions loaded successfully")
	return nil
}

// LoadCharactersSql loads character-related SQL functions
func LoadCharactersSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, CharactersFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing characters functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(charactersSQL)
	if err != nil {
		return fmt.Errorf("error executing characters SQL: %w", err)
	}

	exist, err := checkFunctions(db, CharactersFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL characters functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadContractsSql(db, force); err != nil {
		return err
	}

	if err := LoadCharactersSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
