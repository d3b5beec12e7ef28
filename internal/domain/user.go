package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        int
	Login     string
	Name      string
	Email     string
	Password  password
	Profile   Profile
	IsAdmin   bool
	CreatedAt time.Time
}

// Profile holds the user preferences that can change after registration.
type Profile struct {
	Avatar         string
	FavoriteGenres []string
	Language       string
	Theme          string
}

type password struct {
	plaintext *string
	Hash      []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintext
	p.Hash = hash

	return nil
}

func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// GetByLogin looks the user up by login name or email address.
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetById(ctx context.Context, id int) (*User, error)
	// Update stores the name and profile of an existing user.
	Update(ctx context.Context, user *User) error
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	// ExistsByEmail compares addresses case-insensitively.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
