package config

import (
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/d3ce1t/turtlelink/shortcode"

	"gopkg.in/yaml.v2"
)

type Config struct {
	data ConfigDTO
}

func (c *Config) WorkerID() int64 {
	return c.data.WorkerID
}

func (c *Config) DatacenterID() int64 {
	return c.data.DatacenterID
}

func (c *Config) Epoch() int64 {
	return c.data.Epoch
}

func (c *Config) CodeLength() int {
	return c.data.CodeLength
}

func (c *Config) MaxCodeAttempts() int {
	return c.data.MaxCodeAttempts
}

func (c *Config) BaseURL() string {
	return c.data.BaseURL
}

func (c *Config) Store() api.StoreKind {
	return api.StoreKind(c.data.Store)
}

func (c *Config) DataDir() string {
	return c.data.DataDir
}

func (c *Config) DbAddress() []string {
	return c.data.DbAddress
}

func (c *Config) DbKeyspace() string {
	return c.data.DbKeyspace
}

func (c *Config) DbCQLVersion() int {
	return c.data.DbCQLVersion
}

func (c *Config) DatabaseURL() string {
	return c.data.DatabaseURL
}

func (c *Config) RedisAddress() string {
	return c.data.RedisAddress
}

func (c *Config) RedisDB() int {
	return c.data.RedisDB
}

func (c *Config) RedisTTLSeconds() int {
	return c.data.RedisTTLSeconds
}

func (c *Config) MetricsAddress() string {
	return c.data.MetricsAddress
}

type ConfigDTO struct {
	WorkerID        int64    `yaml:"worker_id"`
	DatacenterID    int64    `yaml:"datacenter_id"`
	Epoch           int64    `yaml:"epoch,omitempty"`
	CodeLength      int      `yaml:"code_length,omitempty"`
	MaxCodeAttempts int      `yaml:"max_code_attempts,omitempty"`
	BaseURL         string   `yaml:"base_url,omitempty"`
	Store           string   `yaml:"store,omitempty"`
	DataDir         string   `yaml:"data_dir,omitempty"`
	DbAddress       []string `yaml:"db_address,flow"`
	DbKeyspace      string   `yaml:"db_keyspace"`
	DbCQLVersion    int      `yaml:"db_cql_version,omitempty"`
	DatabaseURL     string   `yaml:"database_url,omitempty"`
	RedisAddress    string   `yaml:"redis_address,omitempty"`
	RedisDB         int      `yaml:"redis_db,omitempty"`
	RedisTTLSeconds int      `yaml:"redis_ttl_seconds,omitempty"`
	MetricsAddress  string   `yaml:"metrics_address,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{data: ConfigDTO{Epoch: idgen.DefaultEpoch}}
	config.setDefaults()
	return config
}

// SetIdentity overrides the worker and datacenter IDs of the generator.
func (c *Config) SetIdentity(workerID, datacenterID int64) {
	c.data.WorkerID = workerID
	c.data.DatacenterID = datacenterID
}

func LoadFromFile(file string) (*Config, error) {

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {

	// Keys missing from data keep the default epoch; an explicit 0 is kept
	config := &Config{data: ConfigDTO{Epoch: idgen.DefaultEpoch}}

	err := yaml.Unmarshal(data, &config.data)
	if err != nil {
		return nil, err
	}

	config.setDefaults()

	return config, nil
}

// Set defaults if values are unset. Zero is a valid epoch, so the epoch
// default is applied before decoding instead.
func (c *Config) setDefaults() {

	if c.data.CodeLength == 0 {
		c.data.CodeLength = shortcode.DefaultLength
	}

	if c.data.MaxCodeAttempts == 0 {
		c.data.MaxCodeAttempts = 5
	}

	if c.data.BaseURL == "" {
		c.data.BaseURL = "http://localhost:8000"
	}

	if c.data.Store == "" {
		c.data.Store = string(api.StoreKind_PEBBLE)
	}

	if c.data.DataDir == "" {
		c.data.DataDir = "./data"
	}

	if len(c.data.DbAddress) == 0 {
		c.data.DbAddress = []string{"127.0.0.1"}
	}

	if c.data.DbKeyspace == "" {
		c.data.DbKeyspace = "turtlelink"
	}

	if c.data.DbCQLVersion == 0 {
		c.data.DbCQLVersion = 4
	}

	if c.data.RedisTTLSeconds == 0 {
		c.data.RedisTTLSeconds = 300
	}

	if c.data.MetricsAddress == "" {
		c.data.MetricsAddress = ":9464"
	}
}

// FromEnv overlays TURTLE_* environment variables onto c. Values that can't
// be parsed are ignored. Zero values are then defaulted the same way as in a
// file.
func FromEnv(c *Config) {
	if v, ok := envInt64("TURTLE_WORKER_ID"); ok {
		c.data.WorkerID = v
	}
	if v, ok := envInt64("TURTLE_DATACENTER_ID"); ok {
		c.data.DatacenterID = v
	}
	if v, ok := envInt64("TURTLE_EPOCH"); ok {
		c.data.Epoch = v
	}
	if v, ok := envInt64("TURTLE_CODE_LENGTH"); ok {
		c.data.CodeLength = int(v)
	}
	if v, ok := envInt64("TURTLE_MAX_CODE_ATTEMPTS"); ok {
		c.data.MaxCodeAttempts = int(v)
	}
	if v := os.Getenv("TURTLE_BASE_URL"); v != "" {
		c.data.BaseURL = v
	}
	if v := os.Getenv("TURTLE_STORE"); v != "" {
		c.data.Store = v
	}
	if v := os.Getenv("TURTLE_DATA_DIR"); v != "" {
		c.data.DataDir = v
	}
	if v := os.Getenv("TURTLE_DB_ADDRESS"); v != "" {
		c.data.DbAddress = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.data.DbAddress = append(c.data.DbAddress, p)
			}
		}
	}
	if v := os.Getenv("TURTLE_DB_KEYSPACE"); v != "" {
		c.data.DbKeyspace = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.data.DatabaseURL = v
	}
	if v := os.Getenv("TURTLE_REDIS_ADDRESS"); v != "" {
		c.data.RedisAddress = v
	}
	if v, ok := envInt64("TURTLE_REDIS_DB"); ok {
		c.data.RedisDB = int(v)
	}
	if v, ok := envInt64("TURTLE_REDIS_TTL_SECONDS"); ok {
		c.data.RedisTTLSeconds = int(v)
	}
	if v := os.Getenv("TURTLE_METRICS_ADDRESS"); v != "" {
		c.data.MetricsAddress = v
	}

	c.setDefaults()
}

func envInt64(key string) (int64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
