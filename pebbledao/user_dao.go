package pebbledao

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/d3ce1t/turtlelink/api"
)

var (
	prefixUserID   = []byte("u/i/")
	prefixUsername = []byte("u/n/")
)

// UserDAO keeps users in the database of links, so both share writes
// ordering and Close.
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

	d.links.mu.Lock()
	defer d.links.mu.Unlock()

	if _, err := d.links.get(usernameKey(user.Username)); err == nil {
		return api.ErrAlreadyExists
	} else if err != api.ErrNotFound {
		return err
	}

	if _, err := d.links.get(userIDKey(user.Id)); err == nil {
		return api.ErrAlreadyExists
	} else if err != api.ErrNotFound {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	b := d.links.db.NewBatch()
	defer b.Close()

	b.Set(userIDKey(user.Id), data, nil)
	b.Set(usernameKey(user.Username), appendInt64(nil, user.Id), nil)

	return b.Commit(&d.links.sync)
}

func (d *UserDAO) Load(id int64) (*api.UserDTO, error) {

	if id == 0 {
		return nil, api.ErrInvalidArg
	}

	data, err := d.links.get(userIDKey(id))
	if err != nil {
		return nil, err
	}

	user := &api.UserDTO{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("%w: decode user %v: %v", api.ErrUnexpected, id, err)
	}

	return user, nil
}

func (d *UserDAO) LoadByUsername(username string) (*api.UserDTO, error) {

	if username == "" {
		return nil, api.ErrInvalidArg
	}

	id, err := d.links.get(usernameKey(username))
	if err != nil {
		return nil, err
	}

	if len(id) != 8 {
		return nil, fmt.Errorf("%w: bad id for user %v", api.ErrUnexpected, username)
	}

	return d.Load(int64(binary.BigEndian.Uint64(id)))
}

func userIDKey(id int64) []byte {
	return appendInt64(append([]byte(nil), prefixUserID...), id)
}

func usernameKey(username string) []byte {
	return append(append([]byte(nil), prefixUsername...), username...)
}
