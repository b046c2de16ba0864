// litnlp is the command line interface: run the external tool over a text
// file, assemble a contract from existing tool output, or serve HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	litnlp "github.com/lbrandt/litnlp"
	"github.com/lbrandt/litnlp/database"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/server"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "litnlp",
		Short: "Literary NLP contract tooling",
		Long:  "Runs BookNLP over literary text and assembles its output into a single versioned JSON document.",
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newAssembleCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newBuildCmd() *cobra.Command {
	var docID string
	var output string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "build <input.txt>",
		Short: "Run the external tool on a text file and emit the contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input file: %w", err)
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			app := litnlp.New()
			doc, err := app.ProcessText(ctx, string(text), docID)
			if err != nil {
				return err
			}

			return writeDocument(doc, output)
		},
	}

	cmd.Flags().StringVar(&docID, "doc-id", "", "document ID (generated when empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "processing timeout (no timeout when zero)")

	return cmd
}

func newAssembleCmd() *cobra.Command {
	var docID string
	var output string
	var textFile string

	cmd := &cobra.Command{
		Use:   "assemble <output-dir>",
		Short: "Assemble a contract from an existing tool output directory",
		Long:  "Skips running the external tool and builds the contract from the tab-separated files it already wrote.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if textFile != "" {
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read text file: %w", err)
				}
				text = string(data)
			}

			if docID == "" {
				docID = "doc_assembled"
			}

			app := litnlp.New()
			doc, err := app.BuildFromOutputDir(args[0], docID, text, 0)
			if err != nil {
				return err
			}

			return writeDocument(doc, output)
		},
	}

	cmd.Flags().StringVar(&docID, "doc-id", "", "document ID (default doc_assembled)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().StringVar(&textFile, "text-file", "", "original text file for metadata (hash and length are zero without it)")

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			var app *litnlp.LitNLP

			dbConfig, err := helper.NewDatabaseConfiguration()
			if err == nil {
				app, err = litnlp.NewWithStore(dbConfig)
				if err != nil {
					return err
				}
			} else {
				app = litnlp.New()
				app.Log().Info("Running without contract store, database not configured")
			}
			defer app.Close()

			var store database.ContractsDBHandlerFunctions
			if app.Contracts != nil {
				store = app.Contracts
			}

			srv := server.New(server.ConfigFromEnv(), app.Runner, app.Parser, store, app.Log())
			log.Fatal(srv.ListenAndServe())
			return nil
		},
	}
}

func writeDocument(doc any, output string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0644)
}
