package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and attempts to create a new account.
// A successful registration leaves the user logged in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	login, err := getSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	reg := models.Registration{Username: username, Email: email, Login: login, Password: password}
	if err := a.session.Register(ctx, reg); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the backend.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, models.Credentials{Login: login, Password: password}); err != nil {
		return err
	}

	if u := a.session.Session().User; u != nil {
		fmt.Printf("Welcome, %s!\n", u.Username)
	}
	return nil
}

// Logout clears the session; navigation is the REPL's business.
func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}
