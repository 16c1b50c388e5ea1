package model

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/d3ce1t/turtlelink/metrics"
	"github.com/d3ce1t/turtlelink/shortcode"
	"github.com/d3ce1t/turtlelink/utils"

	observer "github.com/imkira/go-observer"
	"github.com/twinj/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LinkManager struct {
	idGen       *idgen.IDGen
	linkDAO     api.LinkDAO
	userDAO     api.UserDAO
	cache       api.LinkCache
	cacheTTL    time.Duration
	codeLength  int
	maxAttempts int
	baseURL     string
	hashCost    int
	linkSignal  observer.Property
}

func NewLinkManager(idGen *idgen.IDGen, linkDAO api.LinkDAO, userDAO api.UserDAO, config api.Config) (*LinkManager, error) {

	if config.CodeLength() < 1 || config.CodeLength() > LinkCustomCodeMaxLength {
		return nil, ErrInvalidCodeLength
	}

	if config.CodeLength() < shortcode.LosslessLength {
		log.Printf("LinkManager: code length %v may truncate ids, codes will be checked for collisions\n",
			config.CodeLength())
	}

	maxAttempts := config.MaxCodeAttempts()
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &LinkManager{
		idGen:       idGen,
		linkDAO:     linkDAO,
		userDAO:     userDAO,
		cacheTTL:    time.Duration(config.RedisTTLSeconds()) * time.Second,
		codeLength:  config.CodeLength(),
		maxAttempts: maxAttempts,
		baseURL:     config.BaseURL(),
		hashCost:    bcrypt.DefaultCost,
		linkSignal:  observer.NewProperty(nil),
	}, nil
}

// SetCache puts a read-through cache in front of the link store.
func (m *LinkManager) SetCache(cache api.LinkCache) {
	m.cache = cache
}

func (m *LinkManager) Observe() observer.Stream {
	return m.linkSignal.Observe()
}

func (m *LinkManager) BaseURL() string {
	return m.baseURL
}

/*
Shorten creates a link to targetURL owned by ownerID and returns it along
with its admin key. The owner must be a registered user. The admin key is only returned here; the store keeps a
bcrypt hash of it.

If customCode is empty, the code is the fixed-length base-62 encoding of a
newly minted ID. Fixed-length codes may collide when the encoding drops
high order symbols, so a taken code is discarded and a new ID is minted, up
to maxAttempts times.
*/
func (m *LinkManager) Shorten(ownerID int64, targetURL string, customCode string) (*Link, string, error) {

	if !utils.IsValidURL(targetURL) {
		return nil, "", ErrInvalidURL
	}

	if customCode != "" && (!shortcode.Valid(customCode) || len(customCode) > LinkCustomCodeMaxLength) {
		return nil, "", ErrInvalidCode
	}

	if err := m.checkOwner(ownerID); err != nil {
		return nil, "", err
	}

	adminKey := uuid.NewV4().String()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), m.hashCost)
	if err != nil {
		return nil, "", err
	}

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {

		id, err := m.idGen.NextID()
		if err != nil {
			return nil, "", fmt.Errorf("mint link id: %w", err)
		}

		code := customCode
		if code == "" {
			code = shortcode.Encode(uint64(id), m.codeLength)
		}

		link := &Link{
			id:           id,
			code:         code,
			targetURL:    targetURL,
			ownerID:      ownerID,
			adminKeyHash: hash,
			createdDate:  utils.GetCurrentTimeMillis(),
		}

		err = m.linkDAO.Insert(link.AsDTO())

		if err == nil {
			metrics.LinksCreated.Inc()
			m.emitLinkCreated(link)
			return link, adminKey, nil
		}

		if err != api.ErrAlreadyExists {
			return nil, "", err
		}

		if customCode != "" {
			return nil, "", ErrCodeAlreadyInUse
		}

		metrics.LinkCollisions.WithLabelValues(strconv.Itoa(m.codeLength)).Inc()
		log.Printf("LinkManager: code %v of id %v already in use (attempt %v/%v)\n",
			code, id, attempt, m.maxAttempts)
	}

	return nil, "", ErrCodeSpaceExhausted
}

// Resolve returns the link behind code and counts a click on it.
func (m *LinkManager) Resolve(code string) (*Link, error) {

	link, source, err := m.load(code)
	if err != nil {
		metrics.LinkResolves.WithLabelValues(source, "error").Inc()
		return nil, err
	}

	clicks, err := m.linkDAO.AddClick(code)
	if err == api.ErrNotFound {
		// Deleted after being cached
		m.invalidate(code)
		metrics.LinkResolves.WithLabelValues(source, "not_found").Inc()
		return nil, ErrLinkNotFound
	} else if err != nil {
		metrics.LinkResolves.WithLabelValues(source, "error").Inc()
		return nil, err
	}

	link.clicks = clicks
	metrics.LinkResolves.WithLabelValues(source, "ok").Inc()

	return link, nil
}

// GetLink returns the link behind code without counting a click.
func (m *LinkManager) GetLink(code string) (*Link, error) {
	link, _, err := m.load(code)
	return link, err
}

func (m *LinkManager) GetLinksByOwner(ownerID int64) ([]*Link, error) {

	if err := m.checkOwner(ownerID); err != nil {
		return nil, err
	}

	dtos, err := m.linkDAO.LoadByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	links := make([]*Link, 0, len(dtos))
	for _, dto := range dtos {
		links = append(links, newLinkFromDTO(dto))
	}

	return links, nil
}

// Delete removes a link if adminKey is the key returned when it was created.
func (m *LinkManager) Delete(code string, adminKey string) error {

	if !shortcode.Valid(code) {
		return ErrInvalidCode
	}

	dto, err := m.linkDAO.LoadByCode(code)
	if err == api.ErrNotFound {
		return ErrLinkNotFound
	} else if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword(dto.AdminKeyHash, []byte(adminKey)) != nil {
		return ErrForbidden
	}

	if err := m.linkDAO.Delete(dto); err != nil {
		return err
	}

	m.invalidate(code)
	m.emitLinkDeleted(newLinkFromDTO(dto))

	return nil
}

func (m *LinkManager) checkOwner(ownerID int64) error {
	_, err := m.userDAO.Load(ownerID)
	if err == api.ErrNotFound || err == api.ErrInvalidArg {
		return ErrUserNotFound
	}
	return err
}

func (m *LinkManager) load(code string) (*Link, string, error) {

	if !shortcode.Valid(code) {
		return nil, "none", ErrInvalidCode
	}

	if m.cache != nil {
		dto, err := m.cache.Get(code)
		if err != nil {
			log.Printf("LinkManager: cache get %v: %v\n", code, err)
		} else if dto != nil {
			return newLinkFromDTO(dto), "cache", nil
		}
	}

	dto, err := m.linkDAO.LoadByCode(code)
	if err == api.ErrNotFound {
		return nil, "store", ErrLinkNotFound
	} else if err != nil {
		return nil, "store", err
	}

	if m.cache != nil {
		if err := m.cache.Set(dto, m.cacheTTL); err != nil {
			log.Printf("LinkManager: cache set %v: %v\n", code, err)
		}
	}

	return newLinkFromDTO(dto), "store", nil
}

func (m *LinkManager) invalidate(code string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(code); err != nil {
		log.Printf("LinkManager: cache invalidate %v: %v\n", code, err)
	}
}

func (m *LinkManager) emitLinkCreated(link *Link) {
	m.linkSignal.Update(&Signal{
		Type: SignalLinkCreated,
		Data: map[string]interface{}{
			"LinkID":  link.Id(),
			"Code":    link.Code(),
			"OwnerID": link.OwnerId(),
			"Link":    link,
		},
	})
}

func (m *LinkManager) emitLinkDeleted(link *Link) {
	m.linkSignal.Update(&Signal{
		Type: SignalLinkDeleted,
		Data: map[string]interface{}{
			"LinkID":  link.Id(),
			"Code":    link.Code(),
			"OwnerID": link.OwnerId(),
		},
	})
}
