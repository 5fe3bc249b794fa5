// Package view turns tracker state into a renderable view model and drives
// it from user events.
package view

import (
	"tracker/internal/aggregate"
	"tracker/internal/chart"
	"tracker/internal/core"
)

// Section is the visible part of the UI.
type Section string

const (
	SectionLogin     Section = "login"
	SectionSignup    Section = "signup"
	SectionDashboard Section = "dashboard"
)

// State is everything a render needs. Events mutate it; Build reads it.
type State struct {
	Section      Section
	User         *core.PublicUser
	Transactions []core.Transaction
	Filters      core.Filter
	Notice       string
	Err          error
}

// Row is one table line of the dashboard.
type Row struct {
	ID       int64
	Type     core.TxType
	Badge    string
	Category string
	Note     string
	Amount   string
	Date     string
}

// View is the fully formatted output of Build.
type View struct {
	Section       Section
	UserName      string
	Rows          []Row
	Balance       string
	TotalIncome   string
	TotalExpense  string
	IncomeExpense chart.Bar
	Categories    chart.Bar
	Filters       core.Filter
	Notice        string
	Error         string
}

// Build renders s into a View. It is pure: the same state always yields the
// same view. A malformed record fails the aggregation; the returned View then
// carries the error text and empty totals.
func Build(s State) (View, error) {
	v := View{
		Section: s.Section,
		Filters: s.Filters,
		Notice:  s.Notice,
	}
	if v.Filters.Type == "" {
		v.Filters.Type = core.FilterAll
	}
	if s.User != nil {
		v.UserName = s.User.Name
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	if s.Section != SectionDashboard {
		return v, nil
	}

	res, err := aggregate.Aggregate(s.Transactions, v.Filters)
	if err != nil {
		v.Error = err.Error()
		v.IncomeExpense = chart.IncomeExpense(0, 0)
		v.Categories = chart.Categories(nil)
		return v, err
	}

	v.Rows = make([]Row, len(res.Transactions))
	for i, tx := range res.Transactions {
		v.Rows[i] = newRow(tx)
	}
	v.TotalIncome = core.FormatAmount(res.TotalIncome)
	v.TotalExpense = core.FormatAmount(res.TotalExpense)
	v.Balance = core.FormatAmount(res.Balance)
	v.IncomeExpense = chart.IncomeExpense(res.TotalIncome, res.TotalExpense)
	v.Categories = chart.Categories(res.CategoryTotals)
	return v, nil
}

func newRow(tx core.Transaction) Row {
	badge := "badge-expense"
	if tx.Type == core.Income {
		badge = "badge-income"
	}
	note := tx.Note
	if note == "" {
		note = "-"
	}
	date := tx.Date
	if date == "" {
		date = "-"
	}
	return Row{
		ID:       tx.ID,
		Type:     tx.Type,
		Badge:    badge,
		Category: tx.Category,
		Note:     note,
		Amount:   core.FormatAmount(tx.Amount),
		Date:     date,
	}
}
