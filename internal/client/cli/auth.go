package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/scalehub/internal/client/api"
	"github.com/dmitrijs2005/scalehub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and attempts to create
// a new account via the AuthService.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, password); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and authenticates against the hub.
// On success the session is installed and persisted by the AuthService and
// Mode flips to online. An unreachable hub is reported as such rather than
// as bad credentials.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			log.Printf("Hub unavailable, try again later")
			a.setMode(ModeOffline)
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	log.Printf("Login successful")
	a.setMode(ModeOnline)
	return nil
}

// Logout clears the in-memory session, the cached query state hooked to it,
// and the locally persisted session copy.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Logged out")
	return nil
}
