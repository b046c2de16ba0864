package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	litnlp "github.com/lbrandt/litnlp"
	"github.com/lbrandt/litnlp/helper"
)

const sampleText = `Alice went home. "Hello," said Tom.`

// Tables as the external tool would write them, so the example runs without
// BookNLP installed.
const sampleTokens = "paragraph_id\tsentence_id\tword\tlemma\tbyte_onset\tbyte_offset\tPOS_tag\tNER_tag\n" +
	"0\t0\tAlice\tAlice\t0\t5\tNNP\tPER\n" +
	"0\t0\twent\tgo\t6\t10\tVBD\tO\n" +
	"0\t0\thome\thome\t11\t15\tNN\tO\n" +
	"0\t0\t.\t.\t15\t16\t.\tO\n" +
	"0\t1\tsaid\tsay\t26\t30\tVBD\tO\n" +
	"0\t1\tTom\tTom\t31\t34\tNNP\tPER\n"

const sampleEntities = "COREF\tstart_token\tend_token\tmention_type\tentity_type\ttext\n" +
	"0\t0\t0\tPROP\tPER\tAlice\n" +
	"5\t5\t5\tPROP\tPER\tTom\n"

const sampleQuotes = "quote_start\tquote_end\tchar_id\tquote\ttype\n" +
	"4\t4\t5\t\"Hello,\"\texplicit\n"

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	app, err := litnlp.NewWithStore(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create litnlp: %v", err)
	}
	defer app.Close()

	// Lay out a tool output directory
	outputDir, err := os.MkdirTemp("", "litnlp-example-")
	if err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}
	defer os.RemoveAll(outputDir)

	for name, content := range map[string]string{
		"sample.tokens":   sampleTokens,
		"sample.entities": sampleEntities,
		"sample.quotes":   sampleQuotes,
	} {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte(content), 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	// Assemble the contract from the output files
	fmt.Println("Assembling contract...")
	doc, err := app.BuildFromOutputDir(outputDir, "doc_example", sampleText, 2*time.Second)
	if err != nil {
		log.Fatalf("Failed to build contract: %v", err)
	}
	fmt.Printf("Assembled document %s: %d tokens, %d characters, %d quotes\n",
		doc.DocumentID, doc.Metadata.TokenCount, doc.Metadata.CharacterCount, doc.Metadata.QuoteCount)

	for _, character := range doc.Characters {
		fmt.Printf("  %s: %s (%d mentions)\n", character.ID, character.CanonicalName, character.MentionCount)
	}
	for _, quote := range doc.Quotes {
		speaker := "unknown"
		if quote.SpeakerName != nil {
			speaker = *quote.SpeakerName
		}
		fmt.Printf("  %s says %s\n", speaker, quote.Text)
	}

	// Persist the contract and its characters
	stored, err := app.StoreContract(doc)
	if err != nil {
		log.Fatalf("Failed to store contract: %v", err)
	}
	fmt.Printf("\nStored contract with RID %s\n", stored.RID)

	// Search stored characters by name
	results, err := app.SearchCharacters("tom", 5)
	if err != nil {
		log.Fatalf("Failed to search characters: %v", err)
	}
	fmt.Printf("Found %d character(s) matching 'tom':\n", len(results))
	for _, result := range results {
		fmt.Printf("  %s (%s)\n", result.CanonicalName, result.CharacterID)
	}

	fmt.Println("\nBasic example completed successfully!")
}
