package interchange

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/equityflow/src/models"
)

const tableName = "ledger_transactions"

// schemaStatements recreate the ledger table. They mirror the first migration
// so a restored file behaves like a freshly migrated one.
var schemaStatements = []string{
	"DROP TABLE IF EXISTS " + tableName + ";",
	`CREATE TABLE ` + tableName + ` (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    txn_date TEXT NOT NULL,
    txn_type TEXT NOT NULL,
    stock_name TEXT NOT NULL DEFAULT '',
    qty TEXT NOT NULL DEFAULT '0',
    rate TEXT NOT NULL DEFAULT '0',
    credit TEXT NOT NULL DEFAULT '0',
    debit TEXT NOT NULL DEFAULT '0'
);`,
	"CREATE INDEX IF NOT EXISTS idx_ledger_transactions_stock_name ON " + tableName + " (stock_name);",
	"CREATE INDEX IF NOT EXISTS idx_ledger_transactions_txn_type ON " + tableName + " (txn_type);",
}

// WriteScript writes the whole ledger as a replayable SQL script: the schema
// followed by one INSERT per record in id order. Ids are written out, so
// replaying the script reproduces the ledger exactly.
func WriteScript(w io.Writer, records []models.Transaction) error {
	ordered := make([]models.Transaction, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "-- equityflow ledger export\n-- records: %d\n\n", len(ordered))
	for _, stmt := range schemaStatements {
		fmt.Fprintf(bw, "%s\n", stmt)
	}
	bw.WriteString("\n")

	for _, tx := range ordered {
		values := []any{tx.ID, tx.Date, string(tx.Type), tx.Symbol, tx.Quantity, tx.Price, tx.Credit, tx.Debit}
		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = sqlLiteral(v)
		}
		fmt.Fprintf(bw, "INSERT INTO %s VALUES (%s);\n", tableName, strings.Join(literals, ", "))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error writing script: %w", err)
	}
	return nil
}

// sqlLiteral renders a value as a SQL literal. Strings, dates and decimals are
// quoted with embedded quotes doubled; integers are written as-is. Decimals are
// quoted so SQLite never reads them as REAL before storing them as text.
func sqlLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case time.Time:
		if val.IsZero() {
			return "NULL"
		}
		return "'" + val.Format(models.DateLayout) + "'"
	case decimal.Decimal:
		return "'" + val.String() + "'"
	case *decimal.Decimal:
		if val == nil {
			return "NULL"
		}
		return "'" + val.String() + "'"
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}

// maxLineSize bounds a single script line.
const maxLineSize = 1024 * 1024

// ReadStatements splits a script into statements. Lines are trimmed; blank
// lines and lines starting with "--" or "#" are skipped; a statement ends at a
// line ending in ";" and its lines are joined with a space.
func ReadStatements(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		statements []string
		current    []string
		lineNo     int
		startLine  int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "#") {
			continue
		}
		if len(current) == 0 {
			startLine = lineNo
		}
		current = append(current, line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.Join(current, " "))
			current = current[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading script: %w", models.ErrImportAborted, err)
	}
	if len(current) > 0 {
		return nil, fmt.Errorf("%w: statement starting at line %d is not terminated with ';'", models.ErrImportAborted, startLine)
	}
	return statements, nil
}
