// Package chart turns aggregation results into bar chart models and draws them.
package chart

import (
	"fmt"

	"tracker/internal/aggregate"
	"tracker/internal/core"
)

// Canvas ids used by the dashboard and the terminal client.
const (
	CanvasIncomeExpense = "income-expense"
	CanvasCategories    = "categories"
)

const (
	incomeColor  = "#34d399"
	expenseColor = "#fb7185"
)

// Bar is a single-series bar chart.
type Bar struct {
	Title       string
	SeriesLabel string
	Labels      []string
	Values      []float64
	Colors      []string
	Horizontal  bool
}

// IncomeExpense compares the two totals side by side.
func IncomeExpense(income, expense core.Amount) Bar {
	return Bar{
		Title:       "Income vs Expense",
		SeriesLabel: "Amount (" + core.CurrencySymbol + ")",
		Labels:      []string{"Income", "Expense"},
		Values:      []float64{income.Float(), expense.Float()},
		Colors:      []string{incomeColor, expenseColor},
	}
}

// Categories draws one horizontal bar per expense category.
func Categories(totals *aggregate.CategoryTotals) Bar {
	keys := totals.Keys()
	vals := totals.Values()
	b := Bar{
		Title:       "Expenses by Category",
		SeriesLabel: "Expenses by Category",
		Labels:      keys,
		Values:      make([]float64, len(vals)),
		Colors:      make([]string, len(keys)),
		Horizontal:  true,
	}
	for i, v := range vals {
		b.Values[i] = v.Float()
		b.Colors[i] = CategoryColor(i)
	}
	return b
}

// CategoryColor spreads hues 60 degrees apart.
func CategoryColor(i int) string {
	return fmt.Sprintf("hsl(%d,70%%,60%%)", i*60)
}

// Empty reports whether the chart has nothing to draw.
func (b Bar) Empty() bool {
	return len(b.Values) == 0
}
