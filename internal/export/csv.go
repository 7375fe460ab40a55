// Package export renders transactions in the download formats the frontend
// has always produced, byte for byte.
package export

import (
	"strconv"
	"strings"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/report"
)

// csvHeader matches the historical export. Columns are joined with a bare
// comma and fields are not quoted; a description containing a comma shifts
// the row. Kept as-is so old and new exports diff clean.
const csvHeader = "Data,Descrição,Categoria,Tipo,Valor,Mês,Pagador,Recebedor"

func typeLabel(t core.EntryType) string {
	if t == core.EntryIncome {
		return "Receita"
	}
	return "Despesa"
}

func categoryName(id *int64, lookup report.CategoryLookup) string {
	if id != nil {
		if c, ok := lookup(*id); ok {
			return c.Description
		}
	}
	return report.FallbackCategoryID(id)
}

// TransactionsCSV renders the rows in their stored order. Category names are
// resolved through lookup with the numeric fallback for orphaned ids.
func TransactionsCSV(txs []core.Transaction, lookup report.CategoryLookup) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, tx := range txs {
		fields := []string{
			tx.Date.String(),
			tx.Description,
			categoryName(tx.CategoryID, lookup),
			typeLabel(tx.Type),
			strconv.FormatFloat(tx.Amount.Reais(), 'f', 2, 64),
			string(tx.Month),
			tx.Payer,
			tx.Payee,
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
