// litnlpd is the HTTP service entrypoint. It runs the BookNLP and parse
// endpoints, persisting contracts when database configuration is present in
// the environment.
package main

import (
	"log"

	litnlp "github.com/lbrandt/litnlp"
	"github.com/lbrandt/litnlp/database"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/server"
)

func main() {
	var app *litnlp.LitNLP

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err == nil {
		app, err = litnlp.NewWithStore(dbConfig)
		if err != nil {
			log.Fatalf("error initializing store: %v", err)
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
}
