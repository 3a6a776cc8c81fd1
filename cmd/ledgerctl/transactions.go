package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/username/equityflow/src/parsers"
)

type addCmd struct {
	fields parsers.TransactionFields
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a ledger transaction" }
func (*addCmd) Usage() string {
	return `ledgerctl add -date <dd/mm/yyyy> -type <TYPE> [-symbol <name>] [-qty <n>] [-rate <n>] -amount <n>

  Records one transaction. The amount is unsigned; the type decides whether it
  is a credit or a debit.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fields.Date, "date", "", "transaction date, e.g. 31/01/2024")
	f.StringVar(&c.fields.Type, "type", "", "BUY, SELL, CHARGES, ADD_FUNDS, WITHDRAWAL, REWARDS, CREDIT or DEBIT")
	f.StringVar(&c.fields.Symbol, "symbol", "", "stock name, required for BUY and SELL")
	f.StringVar(&c.fields.Quantity, "qty", "", "quantity of shares")
	f.StringVar(&c.fields.Rate, "rate", "", "price per share")
	f.StringVar(&c.fields.Amount, "amount", "", "cash amount")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	tx, err := svc.AddTransaction(ctx, c.fields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Printf("Recorded transaction %d\n", tx.ID)
	return subcommands.ExitSuccess
}

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list every transaction" }
func (*listCmd) Usage() string {
	return `ledgerctl list

  Lists all transactions in insertion order.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	txs, err := svc.ListTransactions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(transactionsMarkdown(txs))
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete one transaction by id" }
func (*deleteCmd) Usage() string {
	return `ledgerctl delete <id>
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "delete requires exactly one transaction id")
		return subcommands.ExitUsageError
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing id %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}

	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := svc.DeleteTransaction(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted transaction %d\n", id)
	return subcommands.ExitSuccess
}

type deleteAllCmd struct {
	yes bool
}

func (*deleteAllCmd) Name() string     { return "delete-all" }
func (*deleteAllCmd) Synopsis() string { return "delete every transaction" }
func (*deleteAllCmd) Usage() string {
	return `ledgerctl delete-all -yes

  Empties the ledger. Transaction ids start again from 1.
`
}

func (c *deleteAllCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm deleting the whole ledger")
}

func (c *deleteAllCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "refusing to delete the ledger without -yes")
		return subcommands.ExitUsageError
	}
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := svc.DeleteAllTransactions(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Ledger emptied")
	return subcommands.ExitSuccess
}
