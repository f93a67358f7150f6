package obs

import (
	"sync/atomic"
	"time"

	"main/internal/schema"
)

// Metrics collects lightweight decode counters across a batch. All methods
// are safe for concurrent use by the per-file workers.
type Metrics struct {
	decodedByType  map[schema.RecordType]*uint64
	malformed      uint64
	truncated      uint64
	unknownType    uint64
	enumWarnings   uint64
	fieldErrors    uint64
	filesProcessed uint64
	filesAborted   uint64

	fileLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	DecodedByType  map[schema.RecordType]uint64
	Malformed      uint64
	Truncated      uint64
	UnknownType    uint64
	EnumWarnings   uint64
	FieldErrors    uint64
	FilesProcessed uint64
	FilesAborted   uint64
	FileLatency    LatencySnapshot
}

// NewMetrics allocates a metrics container for the registry's record types.
func NewMetrics(reg *schema.Registry) *Metrics {
	m := &Metrics{decodedByType: make(map[schema.RecordType]*uint64)}
	if reg != nil {
		for _, t := range reg.Types() {
			m.decodedByType[t] = new(uint64)
		}
	}
	return m
}

// IncDecoded counts one successfully decoded row of a type.
func (m *Metrics) IncDecoded(t schema.RecordType) {
	if m == nil {
		return
	}
	if c, ok := m.decodedByType[t]; ok {
		atomic.AddUint64(c, 1)
	}
}

// AddMalformed counts rejected records.
func (m *Metrics) AddMalformed(n int) {
	if m == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&m.malformed, uint64(n))
}

// AddTruncated counts truncation conditions.
func (m *Metrics) AddTruncated(n int) {
	if m == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&m.truncated, uint64(n))
}

// AddUnknownType counts unregistered discriminators.
func (m *Metrics) AddUnknownType(n int) {
	if m == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&m.unknownType, uint64(n))
}

// AddEnumWarnings counts unknown enum codes kept as raw values.
func (m *Metrics) AddEnumWarnings(n int) {
	if m == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&m.enumWarnings, uint64(n))
}

// AddFieldErrors counts error-marker cells.
func (m *Metrics) AddFieldErrors(n int) {
	if m == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&m.fieldErrors, uint64(n))
}

// ObserveFile records one file outcome and its processing latency.
func (m *Metrics) ObserveFile(aborted bool, d time.Duration) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.filesProcessed, 1)
	if aborted {
		atomic.AddUint64(&m.filesAborted, 1)
	}
	m.fileLatency.Observe(d)
}

// Observe adds one duration sample.
func (s *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	v := uint64(d)
	atomic.AddUint64(&s.count, 1)
	atomic.AddUint64(&s.sum, v)
	for {
		cur := atomic.LoadUint64(&s.min)
		if cur != 0 && cur <= v {
			break
		}
		if atomic.CompareAndSwapUint64(&s.min, cur, v) {
			break
		}
	}
	for {
		cur := atomic.LoadUint64(&s.max)
		if cur >= v {
			break
		}
		if atomic.CompareAndSwapUint64(&s.max, cur, v) {
			break
		}
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&s.count)
	out := LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&s.min)),
		Max:   time.Duration(atomic.LoadUint64(&s.max)),
	}
	if count > 0 {
		out.Avg = time.Duration(atomic.LoadUint64(&s.sum) / count)
	}
	return out
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	decoded := make(map[schema.RecordType]uint64)
	for t, c := range m.decodedByType {
		if v := atomic.LoadUint64(c); v > 0 {
			decoded[t] = v
		}
	}
	return Snapshot{
		DecodedByType:  decoded,
		Malformed:      atomic.LoadUint64(&m.malformed),
		Truncated:      atomic.LoadUint64(&m.truncated),
		UnknownType:    atomic.LoadUint64(&m.unknownType),
		EnumWarnings:   atomic.LoadUint64(&m.enumWarnings),
		FieldErrors:    atomic.LoadUint64(&m.fieldErrors),
		FilesProcessed: atomic.LoadUint64(&m.filesProcessed),
		FilesAborted:   atomic.LoadUint64(&m.filesAborted),
		FileLatency:    m.fileLatency.snapshot(),
	}
}
