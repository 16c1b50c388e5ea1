package api

type StoreKind string

const (
	StoreKind_PEBBLE    StoreKind = "pebble"
	StoreKind_CASSANDRA StoreKind = "cassandra"
	StoreKind_POSTGRES  StoreKind = "postgres"
)

func (k StoreKind) Valid() bool {
	switch k {
	case StoreKind_PEBBLE, StoreKind_CASSANDRA, StoreKind_POSTGRES:
		return true
	}
	return false
}
