package model

type SignalType int

const (

	// Links

	// Short link created
	SignalLinkCreated SignalType = iota

	// Short link deleted by its admin
	SignalLinkDeleted SignalType = iota
)

type Signal struct {
	Type SignalType
	Data map[string]interface{}
}
