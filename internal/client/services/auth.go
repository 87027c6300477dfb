// Package services contains application services for the scalehub client.
// This file defines the authentication service: register, login, restoring
// a saved session, and logout housekeeping.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/scalehub/internal/client/api"
	"github.com/dmitrijs2005/scalehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scalehub/internal/client/session"
	"github.com/dmitrijs2005/scalehub/internal/dbx"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// metadata keys under which the session survives restarts
const (
	metaKeyToken = "token"
	metaKeyEmail = "email"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account on the hub.
//   - Login: authenticate, install the session, persist it locally.
//   - Restore: re-install a previously persisted session, if any.
//   - Logout: clear the session (cached query state drops with it) and the
//     persisted copy.
//   - Healthz: check hub liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Restore(ctx context.Context) error
	Logout(ctx context.Context) error
	Healthz(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by the hub client, the
// process session, and the local database for session persistence.
type authService struct {
	client  api.Client
	session *session.Session
	db      *sql.DB
}

// NewAuthService constructs an AuthService bound to the given client,
// session, and local DB.
func NewAuthService(client api.Client, sess *session.Session, db *sql.DB) AuthService {
	return &authService{client: client, session: sess, db: db}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// Register validates the credentials client-side and creates the account.
// The password is not retained.
func (a *authService) Register(ctx context.Context, email string, password []byte) error {
	creds := scaleapi.Credentials{Email: email, Password: string(password)}
	if err := creds.Validate(); err != nil {
		return err
	}
	return a.client.Register(ctx, creds)
}

// Login exchanges the credentials for a token, installs it into the
// session, and persists token and email so a restarted CLI stays logged in.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	tok, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	a.session.Set(tok.AccessToken, email)

	if err := a.saveSession(ctx, tok.AccessToken, email); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// saveSession persists the token and email in a single transaction.
func (a *authService) saveSession(ctx context.Context, token, email string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metaKeyToken, []byte(token)); err != nil {
			return err
		}
		if err := repo.Set(ctx, metaKeyEmail, []byte(email)); err != nil {
			return err
		}
		return nil
	})
}

// Restore installs a previously saved session. Absence of one is not an
// error; the session simply stays logged out.
func (a *authService) Restore(ctx context.Context) error {
	metadataRepo := a.getMetadataRepo()

	token, err := metadataRepo.Get(ctx, metaKeyToken)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		return nil
	}
	email, err := metadataRepo.Get(ctx, metaKeyEmail)
	if err != nil {
		return err
	}

	a.session.Set(string(token), string(email))
	return nil
}

// Logout clears the live session, which also drops all cached query state
// through the session's clear hooks, then wipes the persisted copy.
func (a *authService) Logout(ctx context.Context) error {
	a.session.Clear()
	return a.getMetadataRepo().Clear(ctx)
}

// Healthz proxies a liveness check to the underlying client.
func (a *authService) Healthz(ctx context.Context) error {
	return a.client.Healthz(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
