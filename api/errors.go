package api

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidArg    = errors.New("invalid arguments")
	ErrUnexpected    = errors.New("unexpected error")
)
