// Command ledgerctl manages an equityflow ledger file from the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"github.com/username/equityflow/src/config"
	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/processors"
	"github.com/username/equityflow/src/services"
	"github.com/username/equityflow/src/store"
)

// Register adds the ledger subcommands to c.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "transactions")
	c.Register(&listCmd{}, "transactions")
	c.Register(&deleteCmd{}, "transactions")
	c.Register(&deleteAllCmd{}, "transactions")

	c.Register(&statementCmd{}, "reports")
	c.Register(&balanceCmd{}, "reports")

	c.Register(&exportCmd{}, "interchange")
	c.Register(&importCmd{}, "interchange")
	c.Register(&exportCSVCmd{}, "interchange")
	c.Register(&importCSVCmd{}, "interchange")
}

// as a short lived CLI, global flags are fine.

var dbPath = flag.String("db", "", "Path to the ledger database (defaults to DATABASE_PATH)")
var plain = flag.Bool("plain", false, "print raw markdown instead of rendering it for the terminal")

// openService opens the configured ledger. The returned close function must be called.
func openService() (services.LedgerService, func(), error) {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	logger.InitLogger(cfg.LogLevel, os.Stderr)

	s, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewLedgerService(
		s,
		processors.NewStatementProcessor(),
		processors.NewBalanceProcessor(),
		cache.New(time.Minute, 10*time.Minute),
		cfg.Currency,
	)
	return svc, func() { s.Close() }, nil
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	if *plain {
		fmt.Println(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
