// Command migrate creates or drops the database schema.
//
//	migrate create
//	migrate drop
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
	"github.com/impuestosrd/impuestosrd-api/internal/secrets"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "create" && os.Args[1] != "drop") {
		fmt.Fprintln(os.Stderr, "usage: migrate create|drop")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := logging.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logging.Sync()

	logger := logging.NewLogger("migrate")

	if cfg.Database.Driver == config.DriverMemory {
		logger.Fatal("The memory driver has no schema")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbCfg := cfg.Database
	if dbCfg.Driver == config.DriverPostgres {
		dbCfg.Password = secrets.ResolvePassword(ctx, dbCfg.PasswordSecretARN, cfg.AWS.Region, dbCfg.Password)
	}

	db, dialect, err := repository.Open(ctx, dbCfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	switch os.Args[1] {
	case "create":
		err = repository.CreateSchema(ctx, db, dialect)
	case "drop":
		err = repository.DropSchema(ctx, db)
	}
	if err != nil {
		logger.Fatal("Migration failed", logging.Fields{
			"command": os.Args[1],
			"error":   err.Error(),
		})
	}

	logger.Info("Migration complete", logging.Fields{"command": os.Args[1]})
}
