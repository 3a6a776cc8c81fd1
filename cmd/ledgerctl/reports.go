package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/username/equityflow/src/models"
)

type statementCmd struct {
	symbol  string
	txnType string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "show a running-balance statement" }
func (*statementCmd) Usage() string {
	return `ledgerctl statement (-symbol <name> | -type <TYPE>)

  Shows the chronological statement of one stock or one transaction type with
  running balances.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "stock name")
	f.StringVar(&c.txnType, "type", "", "transaction type")
}

func (c *statementCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.symbol == "") == (c.txnType == "") {
		fmt.Fprintln(os.Stderr, "statement requires exactly one of -symbol or -type")
		return subcommands.ExitUsageError
	}
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if c.symbol != "" {
		txs, err := svc.SymbolStatement(ctx, c.symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building statement: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(statementMarkdown("Statement for "+c.symbol, models.ProjectionStatement, txs))
		return subcommands.ExitSuccess
	}

	txs, err := svc.CategoryStatement(ctx, c.txnType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building statement: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(statementMarkdown("Statement for "+c.txnType, models.ProjectionCategoryStatement, txs))
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	symbol  string
	txnType string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show consolidated balances" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance [-symbol <name>] [-type <TYPE>]

  Without flags, shows the available balance with every stock and category.
  -symbol or -type narrow the report to one entry.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "stock name")
	f.StringVar(&c.txnType, "type", "", "transaction type")
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	available, err := svc.AvailableBalance(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing available balance: %v\n", err)
		return subcommands.ExitFailure
	}

	var stocks []models.StockBalance
	var categories []models.CategoryBalance
	switch {
	case c.symbol != "":
		b, err := svc.SymbolBalance(ctx, c.symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing balance: %v\n", err)
			return subcommands.ExitFailure
		}
		stocks = []models.StockBalance{b}
	case c.txnType != "":
		b, err := svc.CategoryBalance(ctx, c.txnType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing balance: %v\n", err)
			return subcommands.ExitFailure
		}
		categories = []models.CategoryBalance{b}
	default:
		if stocks, err = svc.AllSymbolBalances(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error computing balances: %v\n", err)
			return subcommands.ExitFailure
		}
		if categories, err = svc.AllCategoryBalances(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error computing balances: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(balancesMarkdown(available, stocks, categories))
	return subcommands.ExitSuccess
}
