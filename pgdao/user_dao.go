package pgdao

import (
	"context"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/jackc/pgx/v5"
)

// UserDAO uses the pool of the LinkDAO it was built from.
type UserDAO struct {
	links *LinkDAO
}

func NewUserDAO(links *LinkDAO) *UserDAO {
	return &UserDAO{links: links}
}

func (d *UserDAO) Insert(user *api.UserDTO) error {

	if user.Id == 0 || user.Username == "" {
		return api.ErrInvalidArg
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `INSERT INTO users (id, username, password_hash, is_admin, created_date)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`

	tag, err := d.links.pool.Exec(ctx, query, user.Id, user.Username, user.PasswordHash,
		user.IsAdmin, user.CreatedDate)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return api.ErrAlreadyExists
	}

	return nil
}

func (d *UserDAO) Load(id int64) (*api.UserDTO, error) {
	if id == 0 {
		return nil, api.ErrInvalidArg
	}
	return d.loadOne(`WHERE id = $1`, id)
}

func (d *UserDAO) LoadByUsername(username string) (*api.UserDTO, error) {
	if username == "" {
		return nil, api.ErrInvalidArg
	}
	return d.loadOne(`WHERE username = $1`, username)
}

const selectUser = `SELECT id, username, password_hash, is_admin, created_date FROM users`

func (d *UserDAO) loadOne(where string, arg interface{}) (*api.UserDTO, error) {

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	user, err := scanUser(d.links.pool.QueryRow(ctx, selectUser+" "+where, arg))
	if err != nil {
		return nil, convErr(err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*api.UserDTO, error) {
	user := &api.UserDTO{}
	err := row.Scan(&user.Id, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedDate)
	if err != nil {
		return nil, err
	}
	return user, nil
}
