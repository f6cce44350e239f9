package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	report(err error)

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Refresh(ctx context.Context) error
	Backend(ctx context.Context, args []string) error

	Whitelists(ctx context.Context, args []string) error
	AddWhitelist(ctx context.Context) error
	DeleteWhitelist(ctx context.Context, args []string) error
	PauseWhitelist(ctx context.Context, args []string) error

	Resellers(ctx context.Context) error
	AddReseller(ctx context.Context) error
	CreditReseller(ctx context.Context, args []string) error
	DebitReseller(ctx context.Context, args []string) error
	ToggleReseller(ctx context.Context, args []string) error
	DeleteReseller(ctx context.Context, args []string) error

	Logs(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, backend [url|reset], help, exit"
	helpReseller  = "Available commands: me, dashboard, whitelists [region] [active|expired], addwl, delwl <id>, pausewl <id>, logs, refresh, backend [url|reset], logout, exit"
	helpAdmin     = "Available commands: me, dashboard, whitelists [region] [active|expired], addwl, delwl <id>, pausewl <id>, resellers, addreseller, credit <id>, debit <id>, togglereseller <id>, delreseller <id>, logs, refresh, backend [url|reset], logout, exit"
)

// runREPL starts a simple read–eval–print loop for the bfadmin CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Commands other than help, login, backend and exit need a signed-in user.
// Handler errors are passed to a.report, which turns them into notices; the
// loop itself never stops on a handler error.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bf (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() && needsLogin(cmd) {
			printlnFn("Please login first (type 'login').")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpLoggedOut)
			case a.isAdmin():
				printlnFn(helpAdmin)
			default:
				printlnFn(helpReseller)
			}

		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "dashboard":
			cmdErr = a.Dashboard(ctx)
		case "refresh":
			cmdErr = a.Refresh(ctx)
		case "backend":
			cmdErr = a.Backend(ctx, args)

		case "whitelists", "wl":
			cmdErr = a.Whitelists(ctx, args)
		case "addwl":
			cmdErr = a.AddWhitelist(ctx)
		case "delwl":
			cmdErr = a.DeleteWhitelist(ctx, args)
		case "pausewl":
			cmdErr = a.PauseWhitelist(ctx, args)

		case "resellers":
			cmdErr = a.Resellers(ctx)
		case "addreseller":
			cmdErr = a.AddReseller(ctx)
		case "credit":
			cmdErr = a.CreditReseller(ctx, args)
		case "debit":
			cmdErr = a.DebitReseller(ctx, args)
		case "togglereseller":
			cmdErr = a.ToggleReseller(ctx, args)
		case "delreseller":
			cmdErr = a.DeleteReseller(ctx, args)

		case "logs":
			cmdErr = a.Logs(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.report(cmdErr)
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "help", "login", "backend", "exit", "quit":
		return false
	}
	return true
}
