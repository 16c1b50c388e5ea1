package api

type Config interface {
	WorkerID() int64
	DatacenterID() int64
	Epoch() int64
	CodeLength() int
	MaxCodeAttempts() int
	BaseURL() string
	Store() StoreKind
	DataDir() string
	DbAddress() []string
	DbKeyspace() string
	DbCQLVersion() int
	DatabaseURL() string
	RedisAddress() string
	RedisDB() int
	RedisTTLSeconds() int
	MetricsAddress() string
}
