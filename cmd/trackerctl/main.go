// Command trackerctl is a terminal client for the tracker API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"tracker/internal/cli"
	"tracker/internal/client"
	"tracker/internal/config"
	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/view"
)

const chartWidth = 40

const usage = `usage: trackerctl [-api URL] [-timeout D] <command> [flags]

commands:
  health                              check the backend
  signup -name N -email E -password P create an account
  login -email E -password P          verify credentials
  list [-type T] [-search S]          show the dashboard
  add -type T -amount A -category C [-note N] [-date D]
  delete <id>                         remove a transaction
  summary [-type T] [-search S]       print the server-side aggregation as JSON
  shell                               interactive session
`

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()

	global := flag.NewFlagSet("trackerctl", flag.ExitOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	apiURL := global.String("api", cfg.APIBaseURL, "backend base URL")
	timeout := global.Duration("timeout", cfg.ClientTimeout, "per-request timeout")
	verbose := global.Bool("v", false, "log requests to stderr")
	_ = global.Parse(os.Args[1:])

	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	logger := log.Discard()
	if *verbose {
		lc := log.DefaultConfig()
		lc.Output = os.Stderr
		lc.Level = log.ParseLevel("debug")
		lc.Component = log.ComponentClient
		logger = log.New(lc)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	api := client.New(*apiURL, *timeout, logger)
	if err := run(ctx, api, global.Arg(0), global.Args()[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if client.IsUnavailable(err) {
			fmt.Fprintf(os.Stderr, "is the backend running at %s?\n", *apiURL)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, cmd string, args []string, in io.Reader, out io.Writer) error {
	switch cmd {
	case "health":
		status, err := api.Health(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, status)
		return nil

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ContinueOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := api.Signup(ctx, core.Signup{Name: *name, Email: *email, Password: *password}); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signup successful")
		return nil

	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		user, err := api.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Logged in as %s <%s> (id %d)\n", user.Name, user.Email, user.ID)
		return nil

	case "list":
		f, err := parseFilterFlags("list", args)
		if err != nil {
			return err
		}
		txs, err := api.ListTransactions(ctx)
		if err != nil {
			return err
		}
		v, buildErr := view.Build(view.State{Section: view.SectionDashboard, Transactions: txs, Filters: f})
		if err := view.WriteText(out, v, chartWidth); err != nil {
			return err
		}
		return buildErr

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		typ := fs.String("type", string(core.Expense), "income or expense")
		amount := fs.String("amount", "", "amount")
		category := fs.String("category", "", "category")
		note := fs.String("note", "", "note")
		date := fs.String("date", "", "date")
		if err := fs.Parse(args); err != nil {
			return err
		}
		tx, err := api.AddTransaction(ctx, core.TransactionInput{
			Type:     core.TxType(*typ),
			Amount:   core.ParseAmount(*amount),
			Category: *category,
			Note:     *note,
			Date:     *date,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s %s %s (id %d)\n", tx.Type, core.FormatAmount(tx.Amount), tx.Category, tx.ID)
		return nil

	case "delete":
		if len(args) != 1 {
			return errors.New("delete takes exactly one id")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := api.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(out, "Deleted")
		return nil

	case "summary":
		f, err := parseFilterFlags("summary", args)
		if err != nil {
			return err
		}
		res, err := api.Summary(ctx, f)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)

	case "shell":
		return runShell(ctx, api, in, out)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseFilterFlags(name string, args []string) (core.Filter, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	typ := fs.String("type", string(core.FilterAll), "all, income or expense")
	search := fs.String("search", "", "case-insensitive text over category and note")
	if err := fs.Parse(args); err != nil {
		return core.Filter{}, err
	}
	ft, err := core.ParseFilterType(*typ)
	if err != nil {
		return core.Filter{}, err
	}
	return core.Filter{Type: ft, Search: *search}, nil
}
