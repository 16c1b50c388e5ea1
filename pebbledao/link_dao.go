// Package pebbledao stores links in an embedded Pebble database. It is the
// default store of linkctl and needs no external server.
//
// Key layout:
//
//	l/c/<code>             -> JSON encoded api.LinkDTO
//	l/i/<id>               -> code
//	l/o/<owner>/<id>       -> code
//	u/i/<id>               -> JSON encoded api.UserDTO
//	u/n/<username>         -> id
//
// Integers are encoded as 8 bytes big-endian so that keys sort by id.
package pebbledao

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/d3ce1t/turtlelink/api"
)

var (
	prefixCode  = []byte("l/c/")
	prefixID    = []byte("l/i/")
	prefixOwner = []byte("l/o/")
)

type LinkDAO struct {
	db   *pebble.DB
	sync pebble.WriteOptions
	// Serializes read-modify-write sequences (code claims, click counters)
	mu sync.Mutex
}

// Open creates or opens a Pebble database in dir. When fsync is true every
// write waits for the WAL to reach disk.
func Open(dir string, fsync bool) (*LinkDAO, error) {

	if dir == "" {
		return nil, api.ErrInvalidArg
	}

	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	dao := &LinkDAO{db: db, sync: *pebble.NoSync}
	if fsync {
		dao.sync = *pebble.Sync
	}

	return dao, nil
}

func (d *LinkDAO) Insert(link *api.LinkDTO) error {

	if link.Id == 0 || link.Code == "" || link.TargetURL == "" {
		return api.ErrInvalidArg
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.get(codeKey(link.Code)); err == nil {
		return api.ErrAlreadyExists
	} else if err != api.ErrNotFound {
		return err
	}

	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	b := d.db.NewBatch()
	defer b.Close()

	b.Set(codeKey(link.Code), data, nil)
	b.Set(idKey(link.Id), []byte(link.Code), nil)
	b.Set(ownerKey(link.OwnerId, link.Id), []byte(link.Code), nil)

	return b.Commit(&d.sync)
}

func (d *LinkDAO) LoadByCode(code string) (*api.LinkDTO, error) {

	if code == "" {
		return nil, api.ErrInvalidArg
	}

	data, err := d.get(codeKey(code))
	if err != nil {
		return nil, err
	}

	link := &api.LinkDTO{}
	if err := json.Unmarshal(data, link); err != nil {
		return nil, fmt.Errorf("%w: decode link %v: %v", api.ErrUnexpected, code, err)
	}

	return link, nil
}

func (d *LinkDAO) LoadByID(id int64) (*api.LinkDTO, error) {

	if id == 0 {
		return nil, api.ErrInvalidArg
	}

	code, err := d.get(idKey(id))
	if err != nil {
		return nil, err
	}

	return d.LoadByCode(string(code))
}

// LoadByOwner returns the links of an owner, newest first.
func (d *LinkDAO) LoadByOwner(ownerId int64) ([]*api.LinkDTO, error) {

	prefix := ownerPrefix(ownerId)

	iter, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return nil, err
	}

	var codes []string
	for valid := iter.Last(); valid; valid = iter.Prev() {
		codes = append(codes, string(iter.Value()))
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	links := make([]*api.LinkDTO, 0, len(codes))
	for _, code := range codes {
		link, err := d.LoadByCode(code)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, nil
}

func (d *LinkDAO) AddClick(code string) (int64, error) {

	if code == "" {
		return 0, api.ErrInvalidArg
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	link, err := d.LoadByCode(code)
	if err != nil {
		return 0, err
	}

	link.Clicks++

	data, err := json.Marshal(link)
	if err != nil {
		return 0, err
	}

	if err := d.db.Set(codeKey(code), data, &d.sync); err != nil {
		return 0, err
	}

	return link.Clicks, nil
}

func (d *LinkDAO) Delete(link *api.LinkDTO) error {

	if link.Code == "" || link.Id == 0 {
		return api.ErrInvalidArg
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	b := d.db.NewBatch()
	defer b.Close()

	b.Delete(codeKey(link.Code), nil)
	b.Delete(idKey(link.Id), nil)
	b.Delete(ownerKey(link.OwnerId, link.Id), nil)

	return b.Commit(&d.sync)
}

func (d *LinkDAO) Close() error {
	return d.db.Close()
}

func (d *LinkDAO) get(key []byte) ([]byte, error) {
	val, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, api.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func codeKey(code string) []byte {
	return append(append([]byte(nil), prefixCode...), code...)
}

func idKey(id int64) []byte {
	return appendInt64(append([]byte(nil), prefixID...), id)
}

func ownerPrefix(ownerId int64) []byte {
	key := appendInt64(append([]byte(nil), prefixOwner...), ownerId)
	return append(key, '/')
}

func ownerKey(ownerId int64, id int64) []byte {
	return appendInt64(ownerPrefix(ownerId), id)
}

func appendInt64(b []byte, v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return append(b, buf[:]...)
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
