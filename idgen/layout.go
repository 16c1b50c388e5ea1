package idgen

import (
	"fmt"
	"time"
)

// Usable bits of an ID. The sign bit of an int64 is always zero.
const idBits = 63

// Layout describes the bit widths of the fields packed into an ID, from the
// most significant to the least significant one.
type Layout struct {
	TimestampBits  uint
	DatacenterBits uint
	WorkerBits     uint
	SequenceBits   uint
}

// DefaultLayout returns the 41/5/5/12 layout: ~69 years of timestamps, 32
// datacenters with 32 workers each and 4096 IDs per millisecond.
func DefaultLayout() Layout {
	return Layout{
		TimestampBits:  41,
		DatacenterBits: 5,
		WorkerBits:     5,
		SequenceBits:   12,
	}
}

// Validate checks that every field fits and that the layout uses exactly 63
// bits.
func (l Layout) Validate() error {
	if l.TimestampBits == 0 {
		return newValidationError("timestamp_bits", 0, fmt.Sprintf("must be in [1, %v]", idBits))
	}
	if l.SequenceBits == 0 {
		return newValidationError("sequence_bits", 0, fmt.Sprintf("must be in [1, %v]", idBits))
	}
	total := l.TimestampBits + l.DatacenterBits + l.WorkerBits + l.SequenceBits
	if total != idBits {
		return newValidationError("layout", int64(total), fmt.Sprintf("fields must add up to %v bits", idBits))
	}
	return nil
}

func (l Layout) MaxDatacenterID() int64 {
	return maxValue(l.DatacenterBits)
}

func (l Layout) MaxWorkerID() int64 {
	return maxValue(l.WorkerBits)
}

func (l Layout) MaxSequence() int64 {
	return maxValue(l.SequenceBits)
}

// MaxTimestamp is the largest number of milliseconds after the epoch that
// fits in the timestamp field.
func (l Layout) MaxTimestamp() int64 {
	return maxValue(l.TimestampBits)
}

// Lifetime is the span of time covered by the timestamp field.
func (l Layout) Lifetime() time.Duration {
	const maxDuration = time.Duration(1<<63 - 1)
	if l.MaxTimestamp() > int64(maxDuration/time.Millisecond) {
		return maxDuration
	}
	return time.Duration(l.MaxTimestamp()) * time.Millisecond
}

func (l Layout) workerShift() uint {
	return l.SequenceBits
}

func (l Layout) datacenterShift() uint {
	return l.SequenceBits + l.WorkerBits
}

func (l Layout) timestampShift() uint {
	return l.SequenceBits + l.WorkerBits + l.DatacenterBits
}

func (l Layout) pack(delta, datacenterID, workerID, sequence int64) int64 {
	return delta<<l.timestampShift() |
		datacenterID<<l.datacenterShift() |
		workerID<<l.workerShift() |
		sequence
}

// Parts holds the fields of an unpacked ID.
type Parts struct {
	Timestamp    int64 // Milliseconds since Unix epoch
	DatacenterID int64
	WorkerID     int64
	Sequence     int64
}

// Time returns the timestamp of the ID as UTC time.
func (p Parts) Time() time.Time {
	return time.Unix(0, p.Timestamp*int64(time.Millisecond)).UTC()
}

// Decompose unpacks an ID that was generated with this layout and the given
// epoch.
func (l Layout) Decompose(id int64, epoch int64) Parts {
	return Parts{
		Timestamp:    (id>>l.timestampShift())&l.MaxTimestamp() + epoch,
		DatacenterID: (id >> l.datacenterShift()) & l.MaxDatacenterID(),
		WorkerID:     (id >> l.workerShift()) & l.MaxWorkerID(),
		Sequence:     id & l.MaxSequence(),
	}
}

func maxValue(bits uint) int64 {
	return -1 ^ (-1 << bits)
}
