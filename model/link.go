package model

import (
	"strings"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/utils"
)

const (
	LinkCustomCodeMaxLength = 64
)

type Link struct {
	id           int64 // ID minted by the generator
	code         string
	targetURL    string
	ownerID      int64
	adminKeyHash []byte
	createdDate  int64
	clicks       int64
}

func newLinkFromDTO(dto *api.LinkDTO) *Link {
	return &Link{
		id:           dto.Id,
		code:         dto.Code,
		targetURL:    dto.TargetURL,
		ownerID:      dto.OwnerId,
		adminKeyHash: dto.AdminKeyHash,
		createdDate:  dto.CreatedDate,
		clicks:       dto.Clicks,
	}
}

func (l *Link) AsDTO() *api.LinkDTO {
	return &api.LinkDTO{
		Id:           l.id,
		Code:         l.code,
		TargetURL:    l.targetURL,
		OwnerId:      l.ownerID,
		AdminKeyHash: l.adminKeyHash,
		CreatedDate:  l.createdDate,
		Clicks:       l.clicks,
	}
}

func (l *Link) Id() int64 {
	return l.id
}

func (l *Link) Code() string {
	return l.code
}

func (l *Link) TargetURL() string {
	return l.targetURL
}

func (l *Link) OwnerId() int64 {
	return l.ownerID
}

func (l *Link) CreatedDate() time.Time {
	return utils.UnixMillisToTime(l.createdDate)
}

func (l *Link) Clicks() int64 {
	return l.clicks
}

// ShortURL joins baseURL and the code of the link.
func (l *Link) ShortURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + l.code
}
