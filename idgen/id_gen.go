package idgen

import (
	"fmt"
	"runtime"
	"sync"
)

const DefaultEpoch int64 = 1609459200000 // Milliseconds since 1 Jan 2021 00:00 UTC

type Option func(*IDGen)

// WithSequence sets the initial value of the sequence counter.
func WithSequence(sequence int64) Option {
	return func(g *IDGen) { g.sequence = sequence }
}

// WithEpoch sets the custom epoch, in milliseconds since Unix epoch, that is
// subtracted from every timestamp.
func WithEpoch(epoch int64) Option {
	return func(g *IDGen) { g.epoch = epoch }
}

func WithClock(clock Clock) Option {
	return func(g *IDGen) { g.clock = clock }
}

func WithLayout(layout Layout) Option {
	return func(g *IDGen) { g.layout = layout }
}

// Stats are counters of a generator since it was created.
type Stats struct {
	Issued         uint64 // IDs returned
	SequenceWaits  uint64 // times the sequence was exhausted within a millisecond
	SpinPolls      uint64 // clock reads while waiting for the next millisecond
	ClockBackwards uint64 // calls rejected because the clock went back
}

/*
IDGen generates IDs of 63 bits where, with the default layout, the most
significant 41 bits are the current time in millis since epoch (1 Jan 2021
00:00 UTC), next 5 bits are the datacenter ID, next 5 bits the worker ID
and the last 12 bits are a sequence number.

Each generator that is executed in a different process or shard must have
a different (datacenter, worker) pair in order to avoid collisions. The
generator doesn't check this.

Because of the sequence number, a single generator can generate up to 4096
different IDs per millisecond. If this limit is exceeded, NextID waits
until the clock moves to the next millisecond.
*/
type IDGen struct {
	mu            sync.Mutex
	clock         Clock
	layout        Layout
	epoch         int64
	workerID      int64
	datacenterID  int64
	sequence      int64
	lastTimestamp int64
	stats         Stats
}

// NewIDGen creates a generator. It returns a *ValidationError if any
// parameter doesn't fit in the layout.
func NewIDGen(workerID int64, datacenterID int64, opts ...Option) (*IDGen, error) {

	g := &IDGen{
		layout:        DefaultLayout(),
		epoch:         DefaultEpoch,
		workerID:      workerID,
		datacenterID:  datacenterID,
		lastTimestamp: -1,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.clock == nil {
		g.clock = SystemClock()
	}

	if err := g.layout.Validate(); err != nil {
		return nil, err
	}

	if workerID < 0 || workerID > g.layout.MaxWorkerID() {
		return nil, newValidationError("worker_id", workerID,
			fmt.Sprintf("must be between 0 and %v", g.layout.MaxWorkerID()))
	}

	if datacenterID < 0 || datacenterID > g.layout.MaxDatacenterID() {
		return nil, newValidationError("datacenter_id", datacenterID,
			fmt.Sprintf("must be between 0 and %v", g.layout.MaxDatacenterID()))
	}

	if g.sequence < 0 || g.sequence > g.layout.MaxSequence() {
		return nil, newValidationError("sequence", g.sequence,
			fmt.Sprintf("must be between 0 and %v", g.layout.MaxSequence()))
	}

	if g.epoch < 0 {
		return nil, newValidationError("epoch", g.epoch, "must not be negative")
	}

	return g, nil
}

// NextID returns a new ID. IDs returned by the same generator are strictly
// increasing. It fails if the clock reports a time older than the last
// issued timestamp; in that case the generator state is left untouched.
func (g *IDGen) NextID() (int64, error) {

	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.clock.Millis()

	if timestamp < g.lastTimestamp {
		g.stats.ClockBackwards++
		return 0, &ClockMovedBackwardsError{Last: g.lastTimestamp, Now: timestamp}
	}

	sequence := g.sequence

	if timestamp == g.lastTimestamp {
		sequence = (sequence + 1) & g.layout.MaxSequence()
		if sequence == 0 {
			// Sequence values exhausted for this millisecond
			timestamp = g.waitTillNextMillisecond()
		}
	} else {
		sequence = 0
	}

	delta := timestamp - g.epoch
	if delta < 0 || delta > g.layout.MaxTimestamp() {
		return 0, fmt.Errorf("%w: %v ms since epoch %v", ErrTimestampOutOfRange, delta, g.epoch)
	}

	g.sequence = sequence
	g.lastTimestamp = timestamp
	g.stats.Issued++

	return g.layout.pack(delta, g.datacenterID, g.workerID, sequence), nil
}

// waitTillNextMillisecond polls the clock until it reports a time after the
// last issued timestamp. There is no timeout: with a working clock the wait
// is bounded by the clock granularity.
func (g *IDGen) waitTillNextMillisecond() int64 {

	g.stats.SequenceWaits++
	timestamp := g.clock.Millis()

	for timestamp <= g.lastTimestamp {
		g.stats.SpinPolls++
		runtime.Gosched()
		timestamp = g.clock.Millis()
	}

	return timestamp
}

// Decompose unpacks an ID issued by this generator.
func (g *IDGen) Decompose(id int64) Parts {
	return g.layout.Decompose(id, g.epoch)
}

func (g *IDGen) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

func (g *IDGen) WorkerID() int64 {
	return g.workerID
}

func (g *IDGen) DatacenterID() int64 {
	return g.datacenterID
}

func (g *IDGen) Epoch() int64 {
	return g.epoch
}

func (g *IDGen) Layout() Layout {
	return g.layout
}
