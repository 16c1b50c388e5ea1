package cqldao

import (
	"errors"

	"github.com/d3ce1t/turtlelink/api"

	"github.com/gocql/gocql"
)

var (
	ErrNoSession     = errors.New("no session to Cassandra available")
	ErrInconsistency = errors.New("db inconsistency detected")
)

func convErr(err error) error {
	switch err {
	case gocql.ErrNotFound:
		return api.ErrNotFound
	}
	return err
}
