package cqldao

import (
	"log"

	"github.com/d3ce1t/turtlelink/api"
)

type UserDAO struct {
	session *GocqlSession
}

// Insert claims the username with a lightweight transaction and then writes
// the account. If the account write fails the claim is released.
func (d *UserDAO) Insert(user *api.UserDTO) error {

	checkSession(d.session)

	if user.Id == 0 || user.Username == "" {
		return api.ErrInvalidArg
	}

	stmt := `INSERT INTO user_by_name (username, user_id) VALUES (?, ?) IF NOT EXISTS`

	applied, err := d.session.Query(stmt, user.Username, user.Id).MapScanCAS(make(map[string]interface{}))
	if err != nil {
		return convErr(err)
	}

	if !applied {
		return api.ErrAlreadyExists
	}

	stmt = `INSERT INTO user_account (user_id, username, password_hash, is_admin, created_date)
		VALUES (?, ?, ?, ?, ?) IF NOT EXISTS`

	applied, err = d.session.Query(stmt, user.Id, user.Username, user.PasswordHash,
		user.IsAdmin, user.CreatedDate).MapScanCAS(make(map[string]interface{}))

	if err != nil || !applied {
		d.releaseUsername(user)
		if err != nil {
			return convErr(err)
		}
		return api.ErrAlreadyExists
	}

	return nil
}

func (d *UserDAO) Load(id int64) (*api.UserDTO, error) {

	checkSession(d.session)

	if id == 0 {
		return nil, api.ErrInvalidArg
	}

	stmt := `SELECT username, password_hash, is_admin, created_date
		FROM user_account WHERE user_id = ? LIMIT 1`

	user := &api.UserDTO{Id: id}

	err := d.session.Query(stmt, id).Scan(&user.Username, &user.PasswordHash,
		&user.IsAdmin, &user.CreatedDate)
	if err != nil {
		return nil, convErr(err)
	}

	return user, nil
}

func (d *UserDAO) LoadByUsername(username string) (*api.UserDTO, error) {

	checkSession(d.session)

	if username == "" {
		return nil, api.ErrInvalidArg
	}

	var id int64
	stmt := `SELECT user_id FROM user_by_name WHERE username = ? LIMIT 1`
	if err := d.session.Query(stmt, username).Scan(&id); err != nil {
		return nil, convErr(err)
	}

	user, err := d.Load(id)
	if err == api.ErrNotFound {
		log.Printf("UserDAO: username %v points to missing user %v\n", username, id)
		return nil, ErrInconsistency
	}

	return user, err
}

func (d *UserDAO) releaseUsername(user *api.UserDTO) {
	stmt := `DELETE FROM user_by_name WHERE username = ? IF user_id = ?`
	if _, err := d.session.Query(stmt, user.Username, user.Id).MapScanCAS(make(map[string]interface{})); err != nil {
		log.Printf("UserDAO: release %v: %v\n", user.Username, err)
	}
}
