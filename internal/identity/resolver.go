package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/importacademy/hotmart-bridge/internal/eventlog"
)

// ErrAccountCreation signals that the store refused to create the
// account. The pipeline answers 500 and lets the sender retry.
var ErrAccountCreation = errors.New("identity: account creation failed")

// Account is a buyer identity as the store persists it.
type Account struct {
	ID          string
	Email       string
	Username    string
	FirstName   string
	LastName    string
	Nickname    string
	DisplayName string
}

// Store is the persistence surface the resolver needs.
type Store interface {
	// FindByEmail returns (nil, nil) when no account matches.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateAccount(ctx context.Context, username, passwordHash, email string) (*Account, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, nickname, displayName string) error
}

// Notifier sends the welcome mail to a freshly provisioned buyer.
// Sends are fire-and-forget from the resolver's point of view.
type Notifier interface {
	WelcomeEmail(ctx context.Context, email, firstName, password string)
}

// Resolution is the outcome of resolving a buyer email.
type Resolution struct {
	Account *Account
	Created bool
}

// Resolver maps a buyer email to an account, provisioning one when
// none exists.
type Resolver struct {
	Store    Store
	Notifier Notifier
	Log      *eventlog.Logger
}

// Resolve looks the email up and returns the existing account
// untouched, or provisions a new one with a collision-free username
// derived from the full name. A newly created account gets its profile
// fields set and a welcome mail carrying the generated password.
func (r *Resolver) Resolve(ctx context.Context, email, username, firstName, lastName, fullName string) (*Resolution, error) {
	acct, err := r.Store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	if acct != nil {
		return &Resolution{Account: acct, Created: false}, nil
	}

	username, err = r.uniqueUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("probe username: %w", err)
	}

	password, hash, err := GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	acct, err = r.Store.CreateAccount(ctx, username, hash, email)
	if err != nil {
		r.Log.Critical(ctx, "Error creating user: "+err.Error(), "")
		return nil, ErrAccountCreation
	}

	if err := r.Store.UpdateProfile(ctx, acct.ID, firstName, lastName, fullName, fullName); err != nil {
		r.Log.Critical(ctx, "Error updating user profile: "+err.Error(), "")
		return nil, fmt.Errorf("update profile: %w", err)
	}
	acct.FirstName = firstName
	acct.LastName = lastName
	acct.Nickname = fullName
	acct.DisplayName = fullName

	r.Notifier.WelcomeEmail(ctx, email, firstName, password)
	return &Resolution{Account: acct, Created: true}, nil
}

// uniqueUsername probes base, base1, base2, ... until a free one is
// found. Sequential suffixes keep usernames deterministic.
func (r *Resolver) uniqueUsername(ctx context.Context, base string) (string, error) {
	taken, err := r.Store.UsernameExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	for suffix := 1; ; suffix++ {
		candidate := base + strconv.Itoa(suffix)
		taken, err := r.Store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
