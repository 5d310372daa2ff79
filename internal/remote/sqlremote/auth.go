package sqlremote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dori/duotask/internal/remote"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password SignUp accepts
const MinPasswordLength = 6

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// OnAuthStateChanged implements remote.Store
func (d *DB) OnAuthStateChanged(fn func(*remote.User)) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners[id] = fn
	current := copyUser(d.current)
	d.mu.Unlock()

	fn(current)

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// CurrentUser returns the signed-in user, or nil
func (d *DB) CurrentUser() *remote.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyUser(d.current)
}

// SignUp creates an account and signs it in
func (d *DB) SignUp(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := remote.User{ID: uuid.New().String(), Email: email}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, user.Email, string(hash), d.now())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	d.setUser(&user)
	return nil
}

// SignIn checks the credentials and starts a session
func (d *DB) SignIn(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return ErrInvalidCredentials
	}

	var user remote.User
	var hash string
	err = d.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.Email, &hash)
	if err == sql.ErrNoRows {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	d.setUser(&user)
	return nil
}

// SignOut ends the session
func (d *DB) SignOut(ctx context.Context) error {
	d.setUser(nil)
	return nil
}

// setUser swaps the session and notifies listeners outside the lock
func (d *DB) setUser(u *remote.User) {
	d.mu.Lock()
	d.current = copyUser(u)
	fns := make([]func(*remote.User), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(copyUser(u))
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

func copyUser(u *remote.User) *remote.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
