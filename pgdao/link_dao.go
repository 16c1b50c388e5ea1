// Package pgdao stores links and users in PostgreSQL through a pgx connection pool.
package pgdao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const LinkSchema = `
CREATE TABLE IF NOT EXISTS links (
	id             BIGINT PRIMARY KEY,
	code           TEXT NOT NULL UNIQUE,
	target_url     TEXT NOT NULL,
	owner_id       BIGINT NOT NULL,
	admin_key_hash BYTEA NOT NULL,
	created_date   BIGINT NOT NULL,
	clicks         BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS links_owner_idx ON links (owner_id, id DESC);
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash BYTEA NOT NULL,
	is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
	created_date  BIGINT NOT NULL
);`

const queryTimeout = 3 * time.Second

type LinkDAO struct {
	pool *pgxpool.Pool
}

// Open connects to databaseURL and checks the connection.
func Open(ctx context.Context, databaseURL string) (*LinkDAO, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &LinkDAO{pool: pool}, nil
}

func (d *LinkDAO) CreateSchema(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, LinkSchema)
	return err
}

func (d *LinkDAO) Insert(link *api.LinkDTO) error {

	if link.Id == 0 || link.Code == "" || link.TargetURL == "" {
		return api.ErrInvalidArg
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `INSERT INTO links (id, code, target_url, owner_id, admin_key_hash, created_date, clicks)
		VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`

	tag, err := d.pool.Exec(ctx, query, link.Id, link.Code, link.TargetURL, link.OwnerId,
		link.AdminKeyHash, link.CreatedDate, link.Clicks)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return api.ErrAlreadyExists
	}

	return nil
}

func (d *LinkDAO) LoadByCode(code string) (*api.LinkDTO, error) {
	if code == "" {
		return nil, api.ErrInvalidArg
	}
	return d.loadOne(`WHERE code = $1`, code)
}

func (d *LinkDAO) LoadByID(id int64) (*api.LinkDTO, error) {
	if id == 0 {
		return nil, api.ErrInvalidArg
	}
	return d.loadOne(`WHERE id = $1`, id)
}

func (d *LinkDAO) LoadByOwner(ownerId int64) ([]*api.LinkDTO, error) {

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := d.pool.Query(ctx, selectLink+` WHERE owner_id = $1 ORDER BY id DESC`, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*api.LinkDTO
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

func (d *LinkDAO) AddClick(code string) (int64, error) {

	if code == "" {
		return 0, api.ErrInvalidArg
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var clicks int64
	err := d.pool.QueryRow(ctx, `UPDATE links SET clicks = clicks + 1 WHERE code = $1 RETURNING clicks`,
		code).Scan(&clicks)

	return clicks, convErr(err)
}

func (d *LinkDAO) Delete(link *api.LinkDTO) error {

	if link.Code == "" {
		return api.ErrInvalidArg
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := d.pool.Exec(ctx, `DELETE FROM links WHERE code = $1`, link.Code)
	return err
}

func (d *LinkDAO) Close() error {
	d.pool.Close()
	return nil
}

const selectLink = `SELECT id, code, target_url, owner_id, admin_key_hash, created_date, clicks FROM links`

func (d *LinkDAO) loadOne(where string, arg interface{}) (*api.LinkDTO, error) {

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	link, err := scanLink(d.pool.QueryRow(ctx, selectLink+" "+where, arg))
	if err != nil {
		return nil, convErr(err)
	}

	return link, nil
}

func scanLink(row pgx.Row) (*api.LinkDTO, error) {
	link := &api.LinkDTO{}
	err := row.Scan(&link.Id, &link.Code, &link.TargetURL, &link.OwnerId,
		&link.AdminKeyHash, &link.CreatedDate, &link.Clicks)
	if err != nil {
		return nil, err
	}
	return link, nil
}

func convErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return api.ErrNotFound
	}
	return err
}
