package identity

import (
	"context"
	"errors"
	"testing"
)

type memStore struct {
	byEmail   map[string]*Account
	usernames map[string]bool
	createErr error
	profiles  map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		byEmail:   map[string]*Account{},
		usernames: map[string]bool{},
		profiles:  map[string][]string{},
	}
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	return m.byEmail[email], nil
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	return m.usernames[username], nil
}

func (m *memStore) CreateAccount(_ context.Context, username, passwordHash, email string) (*Account, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	a := &Account{ID: "u-" + username, Email: email, Username: username}
	m.byEmail[email] = a
	m.usernames[username] = true
	return a, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id, firstName, lastName, nickname, displayName string) error {
	m.profiles[id] = []string{firstName, lastName, nickname, displayName}
	return nil
}

type memNotifier struct {
	welcomes []string
	password string
}

func (m *memNotifier) WelcomeEmail(_ context.Context, email, firstName, password string) {
	m.welcomes = append(m.welcomes, email)
	m.password = password
}

func TestResolveExistingAccount(t *testing.T) {
	store := newMemStore()
	store.byEmail["jane@example.com"] = &Account{ID: "u-1", Email: "jane@example.com", FirstName: "Janet"}
	n := &memNotifier{}
	r := &Resolver{Store: store, Notifier: n}

	res, err := r.Resolve(context.Background(), "jane@example.com", "janedoe", "Jane", "Doe", "Jane Doe")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Created {
		t.Error("created = true for existing account")
	}
	if res.Account.ID != "u-1" {
		t.Errorf("account = %+v", res.Account)
	}
	// Existing accounts keep their stored name fields.
	if res.Account.FirstName != "Janet" {
		t.Errorf("first name = %q", res.Account.FirstName)
	}
	if len(n.welcomes) != 0 {
		t.Error("welcome mail sent for existing account")
	}
}

func TestResolveProvisionsAccount(t *testing.T) {
	store := newMemStore()
	n := &memNotifier{}
	r := &Resolver{Store: store, Notifier: n}

	res, err := r.Resolve(context.Background(), "jane@example.com", "janedoe", "Jane", "Doe", "Jane Doe")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Created {
		t.Fatal("created = false")
	}
	if res.Account.Username != "janedoe" {
		t.Errorf("username = %q", res.Account.Username)
	}
	got := store.profiles[res.Account.ID]
	want := []string{"Jane", "Doe", "Jane Doe", "Jane Doe"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("profile[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(n.welcomes) != 1 || n.welcomes[0] != "jane@example.com" {
		t.Errorf("welcomes = %v", n.welcomes)
	}
	if n.password == "" {
		t.Error("welcome mail carries no password")
	}
}

func TestResolveUsernameCollision(t *testing.T) {
	store := newMemStore()
	store.usernames["janedoe"] = true
	store.usernames["janedoe1"] = true
	r := &Resolver{Store: store, Notifier: &memNotifier{}}

	res, err := r.Resolve(context.Background(), "jane@example.com", "janedoe", "Jane", "Doe", "Jane Doe")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Account.Username != "janedoe2" {
		t.Errorf("username = %q, want janedoe2", res.Account.Username)
	}
}

func TestResolveCreateFailure(t *testing.T) {
	store := newMemStore()
	store.createErr = errors.New("unique violation")
	n := &memNotifier{}
	r := &Resolver{Store: store, Notifier: n}

	_, err := r.Resolve(context.Background(), "jane@example.com", "janedoe", "Jane", "Doe", "Jane Doe")
	if !errors.Is(err, ErrAccountCreation) {
		t.Fatalf("err = %v, want ErrAccountCreation", err)
	}
	if len(n.welcomes) != 0 {
		t.Error("welcome mail sent despite failed creation")
	}
}

func TestGeneratePassword(t *testing.T) {
	p1, h1, err := GeneratePassword()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	p2, _, err := GeneratePassword()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(p1) != passwordLength {
		t.Errorf("password length = %d", len(p1))
	}
	if p1 == p2 {
		t.Error("two generated passwords are identical")
	}
	if h1 == p1 || h1 == "" {
		t.Error("hash must differ from plaintext")
	}
}
