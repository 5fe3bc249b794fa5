// Package aggregate derives the filtered view and the totals shown to the user
// from a list of transactions. Everything here is pure.
package aggregate

import (
	"strings"

	"tracker/internal/core"
)

// UncategorizedKey collects expenses stored without a category.
const UncategorizedKey = "undefined"

// Result is the aggregated view of a transaction list under a filter.
type Result struct {
	Transactions   []core.Transaction `json:"transactions"`
	TotalIncome    core.Amount        `json:"totalIncome"`
	TotalExpense   core.Amount        `json:"totalExpense"`
	Balance        core.Amount        `json:"balance"`
	CategoryTotals *CategoryTotals    `json:"categoryTotals"`
}

// Aggregate filters txs and sums the survivors. The input is not modified.
func Aggregate(txs []core.Transaction, f core.Filter) (Result, error) {
	filtered, err := Filter(txs, f)
	if err != nil {
		return Result{}, err
	}
	return Summarize(filtered)
}

// Filter keeps the transactions whose type passes f.Type and whose category
// or note contains f.Search, ignoring case. Order is preserved.
func Filter(txs []core.Transaction, f core.Filter) ([]core.Transaction, error) {
	search := strings.ToLower(f.Search)
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !f.Type.Matches(tx.Type) {
			continue
		}
		if search != "" {
			if tx.Category == "" {
				return nil, &core.MalformedRecordError{ID: tx.ID, Field: "category"}
			}
			if !strings.Contains(strings.ToLower(tx.Category), search) &&
				!strings.Contains(strings.ToLower(tx.Note), search) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out, nil
}

// Summarize totals txs without filtering. Non-income types count as expense;
// an expense without a category is totalled under UncategorizedKey.
func Summarize(txs []core.Transaction) (Result, error) {
	res := Result{
		Transactions:   txs,
		CategoryTotals: NewCategoryTotals(),
	}
	if res.Transactions == nil {
		res.Transactions = []core.Transaction{}
	}
	for _, tx := range txs {
		if tx.Type == core.Income {
			res.TotalIncome += tx.Amount
			continue
		}
		category := tx.Category
		if category == "" {
			category = UncategorizedKey
		}
		res.TotalExpense += tx.Amount
		res.CategoryTotals.Add(category, tx.Amount)
	}
	res.Balance = res.TotalIncome - res.TotalExpense
	return res, nil
}
