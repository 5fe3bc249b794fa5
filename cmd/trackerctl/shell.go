package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tracker/internal/core"
	"tracker/internal/view"
)

const shellHelp = `commands:
  signup <name> <email> <password>
  login <email> <password>
  logout
  reload
  add <income|expense> <amount> <category> [note...]
  delete <id>
  type <all|income|expense>
  search [text...]
  help
  quit`

// runShell reads one command per line and feeds it to a view controller that
// redraws the screen after every event.
func runShell(ctx context.Context, api view.API, in io.Reader, out io.Writer) error {
	ctl := view.NewController(api, nil, func(v view.View) {
		_ = view.WriteText(out, v, chartWidth)
	})

	fmt.Fprintln(out, shellHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if quit := dispatch(ctx, ctl, strings.Fields(scanner.Text()), out); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func dispatch(ctx context.Context, ctl *view.Controller, args []string, out io.Writer) (quit bool) {
	if len(args) == 0 {
		return false
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(out, shellHelp)
	case "signup":
		if len(rest) != 3 {
			fmt.Fprintln(out, "usage: signup <name> <email> <password>")
			return false
		}
		ctl.Signup(ctx, core.Signup{Name: rest[0], Email: rest[1], Password: rest[2]})
	case "login":
		if len(rest) != 2 {
			fmt.Fprintln(out, "usage: login <email> <password>")
			return false
		}
		ctl.Login(ctx, rest[0], rest[1])
	case "logout":
		ctl.Logout()
	case "reload":
		ctl.Load(ctx)
	case "add":
		if len(rest) < 3 {
			fmt.Fprintln(out, "usage: add <income|expense> <amount> <category> [note...]")
			return false
		}
		ctl.Add(ctx, core.TransactionInput{
			Type:     core.TxType(rest[0]),
			Amount:   core.ParseAmount(rest[1]),
			Category: rest[2],
			Note:     strings.Join(rest[3:], " "),
		})
	case "delete":
		if len(rest) != 1 {
			fmt.Fprintln(out, "usage: delete <id>")
			return false
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			fmt.Fprintf(out, "invalid id %q\n", rest[0])
			return false
		}
		ctl.Delete(ctx, id)
	case "type":
		if len(rest) != 1 {
			fmt.Fprintln(out, "usage: type <all|income|expense>")
			return false
		}
		ctl.SetTypeFilter(rest[0])
	case "search":
		ctl.SetSearch(strings.Join(rest, " "))
	default:
		fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
	}
	return false
}
