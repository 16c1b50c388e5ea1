package cqldao

import (
	"log"

	"github.com/d3ce1t/turtlelink/api"
)

type LinkDAO struct {
	session *GocqlSession
}

// Insert stores a new link. The code is claimed with a lightweight
// transaction, so two writers racing for the same code can't both win.
func (d *LinkDAO) Insert(link *api.LinkDTO) error {

	checkSession(d.session)

	if link.Id == 0 || link.Code == "" || link.TargetURL == "" {
		return api.ErrInvalidArg
	}

	stmt := `INSERT INTO link_by_code (code, id, target_url, owner_id,
		admin_key_hash, created_date) VALUES (?, ?, ?, ?, ?, ?) IF NOT EXISTS`

	q := d.session.Query(stmt, link.Code, link.Id, link.TargetURL, link.OwnerId,
		link.AdminKeyHash, link.CreatedDate)

	applied, err := q.MapScanCAS(make(map[string]interface{}))
	if err != nil {
		return convErr(err)
	}

	if !applied {
		return api.ErrAlreadyExists
	}

	if err := d.insertIndexes(link); err != nil {
		d.releaseCode(link)
		return convErr(err)
	}

	return nil
}

func (d *LinkDAO) insertIndexes(link *api.LinkDTO) error {

	stmt := `INSERT INTO link_by_id (id, code) VALUES (?, ?)`
	if err := d.session.Query(stmt, link.Id, link.Code).Exec(); err != nil {
		return err
	}

	stmt = `INSERT INTO link_by_owner (owner_id, id, code) VALUES (?, ?, ?)`
	return d.session.Query(stmt, link.OwnerId, link.Id, link.Code).Exec()
}

// releaseCode undoes a claim whose index writes failed, so the code can be
// claimed again. The claim row goes last and only if it's still ours.
func (d *LinkDAO) releaseCode(link *api.LinkDTO) {

	stmt := `DELETE FROM link_by_id WHERE id = ?`
	if err := d.session.Query(stmt, link.Id).Exec(); err != nil {
		log.Printf("LinkDAO: release %v: %v\n", link.Code, err)
	}

	stmt = `DELETE FROM link_by_code WHERE code = ? IF id = ?`
	if _, err := d.session.Query(stmt, link.Code, link.Id).MapScanCAS(make(map[string]interface{})); err != nil {
		log.Printf("LinkDAO: release %v: %v\n", link.Code, err)
	}
}

func (d *LinkDAO) LoadByCode(code string) (*api.LinkDTO, error) {

	checkSession(d.session)

	if code == "" {
		return nil, api.ErrInvalidArg
	}

	stmt := `SELECT id, target_url, owner_id, admin_key_hash, created_date
		FROM link_by_code WHERE code = ? LIMIT 1`

	dto := &api.LinkDTO{Code: code}

	err := d.session.Query(stmt, code).Scan(&dto.Id, &dto.TargetURL, &dto.OwnerId,
		&dto.AdminKeyHash, &dto.CreatedDate)
	if err != nil {
		return nil, convErr(err)
	}

	clicks, err := d.loadClicks(code)
	if err != nil {
		return nil, err
	}
	dto.Clicks = clicks

	return dto, nil
}

func (d *LinkDAO) LoadByID(id int64) (*api.LinkDTO, error) {

	checkSession(d.session)

	if id == 0 {
		return nil, api.ErrInvalidArg
	}

	var code string
	stmt := `SELECT code FROM link_by_id WHERE id = ? LIMIT 1`
	if err := d.session.Query(stmt, id).Scan(&code); err != nil {
		return nil, convErr(err)
	}

	link, err := d.LoadByCode(code)
	if err == api.ErrNotFound {
		return nil, ErrInconsistency
	}

	return link, err
}

func (d *LinkDAO) LoadByOwner(ownerId int64) ([]*api.LinkDTO, error) {

	checkSession(d.session)

	stmt := `SELECT code FROM link_by_owner WHERE owner_id = ?`
	iter := d.session.Query(stmt, ownerId).Iter()

	var codes []string
	var code string

	for iter.Scan(&code) {
		codes = append(codes, code)
	}

	if err := iter.Close(); err != nil {
		return nil, convErr(err)
	}

	links := make([]*api.LinkDTO, 0, len(codes))

	for _, code := range codes {
		link, err := d.LoadByCode(code)
		if err == api.ErrNotFound {
			// Deleted between both reads
			continue
		} else if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, nil
}

// AddClick increments the click counter of a link and returns the new value.
// Counter updates aren't idempotent and the read isn't atomic with the
// increment, so concurrent clicks may read the same value.
func (d *LinkDAO) AddClick(code string) (int64, error) {

	checkSession(d.session)

	if code == "" {
		return 0, api.ErrInvalidArg
	}

	var exists string
	stmt := `SELECT code FROM link_by_code WHERE code = ? LIMIT 1`
	if err := d.session.Query(stmt, code).Scan(&exists); err != nil {
		return 0, convErr(err)
	}

	stmt = `UPDATE link_clicks SET clicks = clicks + 1 WHERE code = ?`
	if err := d.session.Query(stmt, code).Exec(); err != nil {
		return 0, convErr(err)
	}

	return d.loadClicks(code)
}

func (d *LinkDAO) Delete(link *api.LinkDTO) error {

	checkSession(d.session)

	if link.Code == "" || link.Id == 0 {
		return api.ErrInvalidArg
	}

	stmts := []struct {
		stmt string
		args []interface{}
	}{
		{`DELETE FROM link_by_owner WHERE owner_id = ? AND id = ?`, []interface{}{link.OwnerId, link.Id}},
		{`DELETE FROM link_by_id WHERE id = ?`, []interface{}{link.Id}},
		{`DELETE FROM link_clicks WHERE code = ?`, []interface{}{link.Code}},
		{`DELETE FROM link_by_code WHERE code = ?`, []interface{}{link.Code}},
	}

	for _, s := range stmts {
		if err := d.session.Query(s.stmt, s.args...).Exec(); err != nil {
			return convErr(err)
		}
	}

	return nil
}

func (d *LinkDAO) Close() error {
	if d.session.IsValid() {
		d.session.Close()
	}
	return nil
}

func (d *LinkDAO) loadClicks(code string) (int64, error) {

	var clicks int64
	stmt := `SELECT clicks FROM link_clicks WHERE code = ? LIMIT 1`

	err := d.session.Query(stmt, code).Scan(&clicks)
	if err != nil && convErr(err) != api.ErrNotFound {
		return 0, convErr(err)
	}

	return clicks, nil
}
