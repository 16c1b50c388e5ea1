package api

import "time"

type DbSession interface {
	Connect() error
	IsValid() bool
	Closed() bool
}

type LinkDAO interface {
	// Insert fails with ErrAlreadyExists if the code is already in use
	Insert(link *LinkDTO) error
	LoadByCode(code string) (*LinkDTO, error)
	LoadByID(id int64) (*LinkDTO, error)
	LoadByOwner(ownerId int64) ([]*LinkDTO, error)
	AddClick(code string) (clicks int64, err error)
	Delete(link *LinkDTO) error
	Close() error
}

// UserDAO shares the connection of the LinkDAO it was built from, which
// owns closing it.
type UserDAO interface {
	// Insert fails with ErrAlreadyExists if the username is taken
	Insert(user *UserDTO) error
	Load(id int64) (*UserDTO, error)
	LoadByUsername(username string) (*UserDTO, error)
}

// LinkCache is a read-through cache in front of a LinkDAO. Get returns
// nil, nil on a miss.
type LinkCache interface {
	Get(code string) (*LinkDTO, error)
	Set(link *LinkDTO, ttl time.Duration) error
	Invalidate(code string) error
}
