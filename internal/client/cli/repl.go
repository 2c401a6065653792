package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moneytracker/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	People(ctx context.Context) error
	AddPerson(ctx context.Context, args []string) error
	DeletePerson(ctx context.Context, args []string) error
	Recalculate(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error
	Receive(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Reverse(ctx context.Context, args []string) error
	Export(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: people, add <name>, delete <name>, send <name> <amount> [description], " +
		"receive <name> <amount> [description], history [name], reverse <id>, recalc <name>, export, logout, help, exit\n" +
		"In send and receive the first number after the name is the amount, so names may have several words"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help, register, login, exit | quit
//
//	Logged in:
//	  - people                             list people with balances
//	  - add <name>                         add a person
//	  - delete <name>                      delete a person and their history
//	  - send <name> <amount> [desc]        record money sent (they owe more)
//	  - receive <name> <amount> [desc]     record money received
//
// In send and receive the name may have several words; the first number
// after it is the amount.
//	  - history [name]                     list transactions, newest first
//	  - reverse <id>                       undo a transaction
//	  - recalc <name>                      rebuild a balance from history
//	  - export                             download the ledger as CSV
//	  - logout
//
// Command errors are printed and the loop continues. An unauthorized answer
// drops the local session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mt %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if cerr := dispatch(ctx, a, cmd, args); cerr != nil {
			report(ctx, a, cerr)
		}

		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !isLedgerCommand(cmd) {
		printlnFn("Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return nil
	}

	switch cmd {
	case "people":
		return a.People(ctx)
	case "add":
		return a.AddPerson(ctx, args)
	case "delete":
		return a.DeletePerson(ctx, args)
	case "recalc":
		return a.Recalculate(ctx, args)
	case "send":
		return a.Send(ctx, args)
	case "receive":
		return a.Receive(ctx, args)
	case "history":
		return a.History(ctx, args)
	case "reverse":
		return a.Reverse(ctx, args)
	case "export":
		return a.Export(ctx)
	case "logout":
		return a.Logout(ctx)
	}
	return nil
}

func isLedgerCommand(cmd string) bool {
	switch cmd {
	case "people", "add", "delete", "recalc", "send", "receive", "history", "reverse", "export", "logout":
		return true
	}
	return false
}

func report(ctx context.Context, a execIface, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNotLoggedIn):
		printlnFn("Session is no longer valid, please login again")
		_ = a.Logout(ctx)
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, try again later")
	case errors.As(err, &apiErr):
		printlnFn(apiErr.Msg)
	default:
		printlnFn("Error:", err)
	}
}
