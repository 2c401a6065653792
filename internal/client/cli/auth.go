package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/moneytracker/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an optional email and a password and
// creates the account. The new session is kept, so the user is logged in
// right away. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email (optional)", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Register(ctx, userName, email, password)
	if err != nil {
		return err
	}

	a.userName = s.Username
	printlnFn(s.Message)
	return nil
}

// Login prompts for credentials and opens a session on success. The
// password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.userName = s.Username
	printlnFn(s.Message)
	return nil
}

// Logout forgets the session tokens.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	return nil
}
