package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/utils"
)

const (
	UserPasswordMinLength = 5
	UserPasswordMaxLength = 50
)

var validUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

type User struct {
	id           int64
	username     string
	passwordHash []byte
	isAdmin      bool
	createdDate  int64
}

func newUserFromDTO(dto *api.UserDTO) *User {
	return &User{
		id:           dto.Id,
		username:     dto.Username,
		passwordHash: dto.PasswordHash,
		isAdmin:      dto.IsAdmin,
		createdDate:  dto.CreatedDate,
	}
}

func (u *User) AsDTO() *api.UserDTO {
	return &api.UserDTO{
		Id:           u.id,
		Username:     u.username,
		PasswordHash: u.passwordHash,
		IsAdmin:      u.isAdmin,
		CreatedDate:  u.createdDate,
	}
}

func (u *User) Id() int64 {
	return u.id
}

func (u *User) Username() string {
	return u.username
}

func (u *User) IsAdmin() bool {
	return u.isAdmin
}

func (u *User) CreatedDate() time.Time {
	return utils.UnixMillisToTime(u.createdDate)
}

func IsValidUsername(username string) bool {
	return validUsername.MatchString(username)
}

func IsValidPassword(password string) bool {
	trimmed := strings.TrimSpace(password)
	return len(trimmed) >= UserPasswordMinLength && len(password) <= UserPasswordMaxLength
}
