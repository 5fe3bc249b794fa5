package view

import (
	"context"
	"strings"
	"sync"

	"tracker/internal/chart"
	"tracker/internal/core"
)

// API is the backend the controller talks to.
type API interface {
	Signup(ctx context.Context, su core.Signup) error
	Login(ctx context.Context, email, password string) (core.PublicUser, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// RenderFunc receives every built view.
type RenderFunc func(View)

const signupNotice = "Signup successful. Please login."

// Controller owns the UI state. Every event clears the previous error,
// mutates state and renders exactly once.
type Controller struct {
	api    API
	board  *chart.Board
	render RenderFunc

	mu    sync.Mutex
	state State
}

// NewController starts on the login section. render runs after the
// controller's lock is released, so it may call State.
func NewController(api API, board *chart.Board, render RenderFunc) *Controller {
	if board == nil {
		board = chart.NewBoard()
	}
	if render == nil {
		render = func(View) {}
	}
	return &Controller{
		api:    api,
		board:  board,
		render: render,
		state:  State{Section: SectionLogin, Filters: core.DefaultFilter()},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Transactions = append([]core.Transaction(nil), c.state.Transactions...)
	return s
}

// Board exposes the chart board the controller draws onto.
func (c *Controller) Board() *chart.Board { return c.board }

func (c *Controller) Login(ctx context.Context, email, password string) {
	c.update(func() {
		user, err := c.api.Login(ctx, email, password)
		if err != nil {
			c.state.Err = err
			return
		}
		c.state.User = &user
		c.state.Section = SectionDashboard
		c.reload(ctx)
	})
}

// Signup registers an account and switches to the login section.
func (c *Controller) Signup(ctx context.Context, su core.Signup) {
	c.update(func() {
		if err := c.api.Signup(ctx, su); err != nil {
			c.state.Err = err
			return
		}
		c.state.Section = SectionLogin
		c.state.Notice = signupNotice
	})
}

func (c *Controller) Logout() {
	c.update(func() {
		c.state.User = nil
		c.state.Transactions = nil
		c.state.Section = SectionLogin
	})
}

// Load fetches the ledger and renders it.
func (c *Controller) Load(ctx context.Context) {
	c.update(func() { c.reload(ctx) })
}

// Add creates a transaction and reloads the full list.
func (c *Controller) Add(ctx context.Context, in core.TransactionInput) {
	c.update(func() {
		if _, err := c.api.AddTransaction(ctx, in); err != nil {
			c.state.Err = err
			return
		}
		c.reload(ctx)
	})
}

// Delete removes a transaction and reloads the full list.
func (c *Controller) Delete(ctx context.Context, id int64) {
	c.update(func() {
		if err := c.api.DeleteTransaction(ctx, id); err != nil {
			c.state.Err = err
			return
		}
		c.reload(ctx)
	})
}

// SetTypeFilter re-aggregates the cached list; nothing is fetched.
func (c *Controller) SetTypeFilter(raw string) {
	c.update(func() {
		ft, err := core.ParseFilterType(raw)
		if err != nil {
			c.state.Err = err
			return
		}
		c.state.Filters.Type = ft
	})
}

// SetSearch re-aggregates the cached list with trimmed search text.
func (c *Controller) SetSearch(text string) {
	c.update(func() {
		c.state.Filters.Search = strings.TrimSpace(text)
	})
}

// update runs one event: it clears the previous error and notice, applies fn,
// builds the view and draws the charts under the lock, then renders unlocked.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	c.state.Err = nil
	c.state.Notice = ""
	fn()
	v := c.build()
	c.mu.Unlock()

	c.render(v)
}

func (c *Controller) reload(ctx context.Context) {
	txs, err := c.api.ListTransactions(ctx)
	if err != nil {
		c.state.Err = err
		return
	}
	c.state.Transactions = txs
}

func (c *Controller) build() View {
	v, err := Build(c.state)
	if err != nil && c.state.Err == nil {
		c.state.Err = err
	}
	if v.Section == SectionDashboard {
		c.board.Render(chart.CanvasIncomeExpense, v.IncomeExpense)
		c.board.Render(chart.CanvasCategories, v.Categories)
	}
	return v
}
