package model

import (
	"fmt"
	"log"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/d3ce1t/turtlelink/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserManager struct {
	idGen    *idgen.IDGen
	userDAO  api.UserDAO
	hashCost int
}

func NewUserManager(idGen *idgen.IDGen, userDAO api.UserDAO) *UserManager {
	return &UserManager{
		idGen:    idGen,
		userDAO:  userDAO,
		hashCost: bcrypt.DefaultCost,
	}
}

// Prominent Errors:
// - ErrInvalidUsername
// - ErrInvalidPassword
// - ErrUsernameTaken
func (m *UserManager) CreateUser(username string, password string, isAdmin bool) (*User, error) {

	if !IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}

	if !IsValidPassword(password) {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.hashCost)
	if err != nil {
		return nil, err
	}

	id, err := m.idGen.NextID()
	if err != nil {
		return nil, fmt.Errorf("mint user id: %w", err)
	}

	user := &User{
		id:           id,
		username:     username,
		passwordHash: hash,
		isAdmin:      isAdmin,
		createdDate:  utils.GetCurrentTimeMillis(),
	}

	if err := m.userDAO.Insert(user.AsDTO()); err == api.ErrAlreadyExists {
		return nil, ErrUsernameTaken
	} else if err != nil {
		return nil, err
	}

	log.Printf("UserManager: created user %v (%v)\n", user.username, user.id)

	return user, nil
}

func (m *UserManager) GetUser(id int64) (*User, error) {
	dto, err := m.userDAO.Load(id)
	if err == api.ErrNotFound || err == api.ErrInvalidArg {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return newUserFromDTO(dto), nil
}

func (m *UserManager) GetUserByUsername(username string) (*User, error) {
	dto, err := m.userDAO.LoadByUsername(username)
	if err == api.ErrNotFound || err == api.ErrInvalidArg {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return newUserFromDTO(dto), nil
}

// Authenticate returns the user if password matches. Unknown users and
// wrong passwords both fail with ErrInvalidUserOrPassword.
func (m *UserManager) Authenticate(username string, password string) (*User, error) {

	user, err := m.GetUserByUsername(username)
	if err == ErrUserNotFound {
		return nil, ErrInvalidUserOrPassword
	} else if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)) != nil {
		return nil, ErrInvalidUserOrPassword
	}

	return user, nil
}
