package cqldao

import (
	"github.com/d3ce1t/turtlelink/api"
)

func NewLinkDAO(session api.DbSession) api.LinkDAO {
	reconnectIfNeeded(session)
	return &LinkDAO{session: session.(*GocqlSession)}
}

func NewUserDAO(session api.DbSession) api.UserDAO {
	reconnectIfNeeded(session)
	return &UserDAO{session: session.(*GocqlSession)}
}

func checkSession(session *GocqlSession) {
	if session == nil || !session.IsValid() {
		panic(ErrNoSession)
	}
}

func reconnectIfNeeded(session api.DbSession) {
	if session != nil && (!session.IsValid() || session.Closed()) {
		session.Connect()
	}
}
