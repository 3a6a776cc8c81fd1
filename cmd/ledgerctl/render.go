package main

import (
	"bytes"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/username/equityflow/src/models"
)

// tableSet builds a markdown table. Pipes in cells are escaped so a stock
// name can never split a column.
func tableSet(header []string, rows [][]string) md.TableSet {
	table := md.TableSet{
		Header: header,
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func transactionsMarkdown(txs []models.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Transactions")

	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, append([]string{strconv.FormatInt(tx.ID, 10)}, models.StatementRow(tx)[:7]...))
	}
	header := append([]string{"Id"}, models.ProjectionStatement.Header()[:7]...)
	doc.Table(tableSet(header, rows))
	return doc.String()
}

func statementMarkdown(title string, p models.Projection, txs []models.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		if p == models.ProjectionCategoryStatement {
			rows = append(rows, models.CategoryStatementRow(tx))
		} else {
			rows = append(rows, models.StatementRow(tx))
		}
	}
	doc.Table(tableSet(p.Header(), rows))
	return doc.String()
}

func balancesMarkdown(available models.AvailableBalance, stocks []models.StockBalance, categories []models.CategoryBalance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Balances")
	doc.PlainTextf("Available balance: %s", md.Bold(available.Formatted))

	if len(stocks) > 0 {
		rows := make([][]string, 0, len(stocks))
		for _, s := range stocks {
			rows = append(rows, models.BalanceRow(s))
		}
		doc.H2("Stocks")
		doc.Table(tableSet(models.ProjectionBalances.Header(), rows))
	}
	if len(categories) > 0 {
		rows := make([][]string, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, models.CategoryBalanceRow(c))
		}
		doc.H2("Categories")
		doc.Table(tableSet(models.ProjectionCategoryBalances.Header(), rows))
	}
	return doc.String()
}
