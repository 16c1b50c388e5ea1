package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/config"
	"github.com/d3ce1t/turtlelink/cqldao"
	"github.com/d3ce1t/turtlelink/memcache"
	"github.com/d3ce1t/turtlelink/model"
	"github.com/d3ce1t/turtlelink/pebbledao"
	"github.com/d3ce1t/turtlelink/pgdao"
	"github.com/d3ce1t/turtlelink/rediscache"
	"github.com/spf13/cobra"
)

const (
	connectAttempts = 3
	connectTimeout  = 5 * time.Second
	memoryCacheSize = 1024
)

// app holds everything a link command needs. Close releases it.
type app struct {
	config  *config.Config
	model   *model.TurtleModel
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Close: %v\n", err)
		}
	}
}

func openApp(cmd *cobra.Command) (*app, error) {

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg}

	linkDAO, userDAO, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, linkDAO.Close)

	a.model, err = model.New(cfg, linkDAO, userDAO)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.RedisAddress() != "" {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		client, err := rediscache.Dial(ctx, cfg.RedisAddress(), cfg.RedisDB())
		cancel()
		if err == nil {
			a.model.Links.SetCache(rediscache.NewLinkCache(client))
			a.closers = append(a.closers, client.Close)
			return a, nil
		}
		log.Printf("Cache: %v, using memory cache\n", err)
	}

	a.model.Links.SetCache(memcache.NewLinkCache(memoryCacheSize))

	return a, nil
}

// openStore returns the link and user stores of cfg. Both share one
// connection, closed by the link store.
func openStore(cfg *config.Config) (api.LinkDAO, api.UserDAO, error) {

	switch cfg.Store() {

	case api.StoreKind_PEBBLE:
		links, err := pebbledao.Open(cfg.DataDir(), true)
		if err != nil {
			return nil, nil, err
		}
		return links, pebbledao.NewUserDAO(links), nil

	case api.StoreKind_CASSANDRA:
		session, err := connectCassandra(cfg)
		if err != nil {
			return nil, nil, err
		}
		return cqldao.NewLinkDAO(session), cqldao.NewUserDAO(session), nil

	case api.StoreKind_POSTGRES:
		if cfg.DatabaseURL() == "" {
			return nil, nil, fmt.Errorf("store %v needs database_url", cfg.Store())
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		links, err := pgdao.Open(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		return links, pgdao.NewUserDAO(links), nil
	}

	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store())
}

func connectCassandra(cfg *config.Config) (*cqldao.GocqlSession, error) {
	session := cqldao.NewSession(cfg.DbKeyspace(), cfg.DbCQLVersion(), cfg.DbAddress()...)
	if err := session.ConnectRetry(connectAttempts, time.Second); err != nil {
		return nil, err
	}
	return session, nil
}
