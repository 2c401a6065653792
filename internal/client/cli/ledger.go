package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/dmitrijs2005/moneytracker/internal/client/models"
	"github.com/dmitrijs2005/moneytracker/internal/filex"
	"github.com/dmitrijs2005/moneytracker/internal/netx"
	"github.com/shopspring/decimal"
)

const statementsDir = "statements"

var errInvalidAmount = errors.New("Invalid amount")

// downloadFromURL is a test seam for netx.DownloadFromURL.
var downloadFromURL = netx.DownloadFromURL

// argOrPrompt joins args when present and asks for the value otherwise.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return getSimpleText(a.reader, prompt, os.Stdout)
}

func (a *App) People(ctx context.Context) error {
	people, err := a.api.People(ctx)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		printlnFn("No people yet")
		return nil
	}
	for _, p := range people {
		printlnFn(p.String())
	}
	return nil
}

func (a *App) AddPerson(ctx context.Context, args []string) error {
	name, err := a.argOrPrompt(args, "Enter name")
	if err != nil {
		return err
	}
	p, err := a.api.AddPerson(ctx, name)
	if err != nil {
		return err
	}
	printlnFn("Added", p.Name)
	return nil
}

func (a *App) DeletePerson(ctx context.Context, args []string) error {
	name, err := a.argOrPrompt(args, "Enter name")
	if err != nil {
		return err
	}
	if err := a.api.DeletePerson(ctx, name); err != nil {
		return err
	}
	printlnFn("Person deleted successfully")
	return nil
}

func (a *App) Recalculate(ctx context.Context, args []string) error {
	name, err := a.argOrPrompt(args, "Enter name")
	if err != nil {
		return err
	}
	p, err := a.api.Recalculate(ctx, name)
	if err != nil {
		return err
	}
	printlnFn(p.String())
	return nil
}

// transfer reads "<name> <amount> [description...]" from args, or prompts
// for each part when fewer than two args are given.
// transfer reads "<name> <amount> [description]" from args, or prompts for
// each part when args hold at most a name. The name may span several words:
// the first argument after it that parses as a number is the amount.
func (a *App) transfer(args []string) (name string, amount decimal.Decimal, description string, err error) {
	if len(args) >= 2 {
		for i := 1; i < len(args); i++ {
			if v, perr := decimal.NewFromString(args[i]); perr == nil {
				return strings.Join(args[:i], " "), v, strings.Join(args[i+1:], " "), nil
			}
		}
		return "", decimal.Decimal{}, "", errInvalidAmount
	}

	if name, err = a.argOrPrompt(args, "Enter name"); err != nil {
		return
	}
	var raw string
	if raw, err = getSimpleText(a.reader, "Enter amount", os.Stdout); err != nil {
		return
	}
	if description, err = getSimpleText(a.reader, "Enter description (optional)", os.Stdout); err != nil {
		return
	}

	amount, perr := decimal.NewFromString(raw)
	if perr != nil {
		err = errInvalidAmount
	}
	return
}

func (a *App) Send(ctx context.Context, args []string) error {
	name, amount, description, err := a.transfer(args)
	if err != nil {
		return err
	}
	t, err := a.api.Send(ctx, name, amount, description)
	if err != nil {
		return err
	}
	printlnFn(t.String())
	return nil
}

func (a *App) Receive(ctx context.Context, args []string) error {
	name, amount, description, err := a.transfer(args)
	if err != nil {
		return err
	}
	t, err := a.api.Receive(ctx, name, amount, description)
	if err != nil {
		return err
	}
	printlnFn(t.String())
	return nil
}

// History lists every transaction, or only those of the named person.
func (a *App) History(ctx context.Context, args []string) error {
	var (
		list []models.Transaction
		err  error
	)
	if len(args) > 0 {
		list, err = a.api.PersonTransactions(ctx, strings.Join(args, " "))
	} else {
		list, err = a.api.Transactions(ctx)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		printlnFn("No transactions yet")
		return nil
	}
	for _, t := range list {
		printlnFn(t.String())
	}
	return nil
}

func (a *App) Reverse(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter transaction id")
	if err != nil {
		return err
	}
	if err := a.api.Reverse(ctx, id); err != nil {
		return err
	}
	printlnFn("Transaction reversed successfully")
	return nil
}

// Export asks the server for a statement and downloads it into
// ./statements under the object's base name.
func (a *App) Export(ctx context.Context) error {
	st, err := a.api.Export(ctx)
	if err != nil {
		return err
	}

	f, err := filex.CreateInSubdir(statementsDir, path.Base(st.Key))
	if err != nil {
		return err
	}

	_, err = downloadFromURL(ctx, st.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("download statement: %w", err)
	}

	printlnFn(fmt.Sprintf("Saved %d transactions to %s", st.Rows, f.Name()))
	return nil
}
