package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/services"
)

// createOutput opens path for writing, or stdout when path is empty or "-".
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as a SQL script" }
func (*exportCmd) Usage() string {
	return `ledgerctl export [-o <file>]

  Writes a script that recreates the ledger exactly, ids included.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file (default stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	out, err := createOutput(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	if err := svc.ExportScript(ctx, out); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error exporting ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a SQL script" }
func (*importCmd) Usage() string {
	return `ledgerctl import <file>

  Runs a script produced by export. Either every statement applies or the
  ledger is left untouched.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import requires exactly one script file")
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := svc.ImportScript(ctx, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing script: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Ledger imported")
	return subcommands.ExitSuccess
}

type exportCSVCmd struct {
	view    string
	symbol  string
	txnType string
	output  string
}

func (*exportCSVCmd) Name() string     { return "export-csv" }
func (*exportCSVCmd) Synopsis() string { return "export a ledger view as delimited text" }
func (*exportCSVCmd) Usage() string {
	return `ledgerctl export-csv -view <view> [-symbol <name>] [-type <TYPE>] [-o <file>]

  Views: statement (needs -symbol), category-statement (needs -type),
  balances, category-balances.
`
}

func (c *exportCSVCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.view, "view", string(models.ProjectionBalances), "view to export")
	f.StringVar(&c.symbol, "symbol", "", "stock name")
	f.StringVar(&c.txnType, "type", "", "transaction type")
	f.StringVar(&c.output, "o", "", "output file (default stdout)")
}

func (c *exportCSVCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, err := models.ParseProjection(c.view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	out, err := createOutput(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	req := services.CSVExportRequest{View: view, Symbol: c.symbol, Type: c.txnType}
	if err := svc.ExportCSV(ctx, out, req); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", view, err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCSVCmd struct{}

func (*importCSVCmd) Name() string     { return "import-csv" }
func (*importCSVCmd) Synopsis() string { return "append transactions from delimited text" }
func (*importCSVCmd) Usage() string {
	return `ledgerctl import-csv <file>

  Appends every valid row. Invalid rows are reported and skipped. Rows are not
  checked against transactions already in the ledger.
`
}

func (*importCSVCmd) SetFlags(*flag.FlagSet) {}

func (*importCSVCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import-csv requires exactly one file")
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	svc, closeFn, err := openService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	result, err := svc.ImportCSV(ctx, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	for _, d := range result.Skipped {
		fmt.Fprintf(os.Stderr, "line %d skipped: %s\n", d.Line, d.Reason)
	}
	fmt.Printf("Imported %d transactions, skipped %d lines\n", result.Imported, len(result.Skipped))
	return subcommands.ExitSuccess
}
