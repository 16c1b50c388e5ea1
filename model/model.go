package model

import (
	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/idgen"
)

type TurtleModel struct {
	IDGen *idgen.IDGen
	Links *LinkManager
	Users *UserManager
}

// New builds the ID generator described by config and the link and user
// managers on top of the given stores. Users and links share the generator. Extra options are applied to the generator after the ones
// derived from config.
func New(config api.Config, linkDAO api.LinkDAO, userDAO api.UserDAO, opts ...idgen.Option) (*TurtleModel, error) {

	genOpts := append([]idgen.Option{idgen.WithEpoch(config.Epoch())}, opts...)

	gen, err := idgen.NewIDGen(config.WorkerID(), config.DatacenterID(), genOpts...)
	if err != nil {
		return nil, err
	}

	links, err := NewLinkManager(gen, linkDAO, userDAO, config)
	if err != nil {
		return nil, err
	}

	return &TurtleModel{
		IDGen: gen,
		Links: links,
		Users: NewUserManager(gen, userDAO),
	}, nil
}
