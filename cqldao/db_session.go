package cqldao

import (
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
)

// NewSession prepares a session for keyspace. Nothing is dialed until
// Connect or ConnectRetry is called.
func NewSession(keyspace string, cqlVersion int, hosts ...string) *GocqlSession {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.LocalQuorum
	// Code claims are lightweight transactions
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = 3 * time.Second
	cluster.ProtoVersion = cqlVersion
	return &GocqlSession{cluster: cluster}
}

type GocqlSession struct {
	*gocql.Session
	cluster *gocql.ClusterConfig
}

func (s *GocqlSession) Keyspace() string {
	return s.cluster.Keyspace
}

// Connect opens a new session, closing the previous one if any.
func (s *GocqlSession) Connect() error {
	session, err := s.cluster.CreateSession()
	if err != nil {
		return err
	}
	if s.Session != nil {
		s.Session.Close()
	}
	s.Session = session
	return nil
}

// ConnectRetry calls Connect up to attempts times, sleeping wait between
// failures, and returns the last error.
func (s *GocqlSession) ConnectRetry(attempts int, wait time.Duration) error {

	if attempts < 1 {
		attempts = 1
	}

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = s.Connect(); err == nil {
			log.Printf("GocqlSession: connected to %v (keyspace %v)\n", s.cluster.Hosts, s.cluster.Keyspace)
			return nil
		}
		log.Printf("GocqlSession: connect attempt %v/%v to %v failed: %v\n", attempt, attempts, s.cluster.Hosts, err)
		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("connect to cassandra %v: %w", s.cluster.Hosts, err)
}

// CreateKeyspace creates the session keyspace with SimpleStrategy
// replication. It uses its own short-lived connection because the keyspace
// may not exist yet.
func (s *GocqlSession) CreateKeyspace(replicationFactor int) error {

	cluster := *s.cluster
	cluster.Keyspace = ""

	session, err := cluster.CreateSession()
	if err != nil {
		return err
	}
	defer session.Close()

	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %v WITH replication =
		{'class': 'SimpleStrategy', 'replication_factor': %d}`, s.cluster.Keyspace, replicationFactor)

	return session.Query(stmt).Exec()
}

func (s *GocqlSession) IsValid() bool {
	return s.Session != nil
}

func (s *GocqlSession) Closed() bool {
	return s.Session == nil || s.Session.Closed()
}
