package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-social/internal/domain/repository"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyRelated  = errors.New("friend request already sent or users are already friends")
	ErrAlreadyMember   = errors.New("user already in the group")
	ErrRequestNotFound = errors.New("friend request does not exist")
	ErrNotAMember      = errors.New("not a member of the group")
	ErrForbidden       = errors.New("forbidden")
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrBlankName       = errors.New("name must not be blank")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("that email is already registered")
	ErrUnsupportedImage   = errors.New("unsupported image type")
)

// notFound converts a repository miss into ErrNotFound naming the entity,
// passing every other error through untouched.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// cleanName trims a display name and rejects one that is only whitespace
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrBlankName
	}
	return name, nil
}

// mapMiss replaces a repository miss with target
func mapMiss(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
