package model

import (
	"errors"
)

var (
	ErrInvalidURL         = errors.New("invalid target url")
	ErrInvalidCode        = errors.New("invalid short code")
	ErrInvalidCodeLength  = errors.New("invalid short code length")
	ErrCodeAlreadyInUse   = errors.New("short code already in use")
	ErrCodeSpaceExhausted = errors.New("couldn't find a free short code")
	ErrLinkNotFound       = errors.New("link not found")
	ErrForbidden          = errors.New("forbidden")

	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidUsername       = errors.New("invalid username")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrUsernameTaken         = errors.New("username already in use")
	ErrInvalidUserOrPassword = errors.New("invalid user or password")
)
