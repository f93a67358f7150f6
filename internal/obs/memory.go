package obs

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/yanun0323/logs"
)

// MemoryReporter periodically logs heap and GC figures. Large dump batches
// run for a while; this gives a cheap view of allocation pressure without a
// profiler attached.
type MemoryReporter struct {
	buf        [512]byte
	prev, curr runtime.MemStats
	prevAt     time.Time
	currAt     time.Time
}

// Run reports on the given interval until the context is done.
func (m *MemoryReporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.snapshot()
			m.report()
		}
	}
}

func (m *MemoryReporter) snapshot() {
	m.prev, m.curr = m.curr, m.prev
	m.prevAt = m.currAt
	m.currAt = time.Now()
	runtime.ReadMemStats(&m.curr)
	if m.prevAt.IsZero() {
		m.prevAt = m.currAt
	}
}

func (m *MemoryReporter) report() {
	line := m.buf[:0]

	line = append(line, "heap alc="...)
	b, unit := bytesCarry(m.curr.HeapAlloc)
	line = strconv.AppendUint(line, b, 10)
	line = append(line, unit...)

	line = append(line, " inuse="...)
	b, unit = bytesCarry(m.curr.HeapInuse)
	line = strconv.AppendUint(line, b, 10)
	line = append(line, unit...)

	line = append(line, " objects="...)
	line = strconv.AppendUint(line, m.curr.HeapObjects, 10)

	line = append(line, " gc="...)
	line = strconv.AppendUint(line, uint64(m.curr.NumGC-m.prev.NumGC), 10)

	line = append(line, " grow="...)
	b, unit = bytesCarry(m.curr.TotalAlloc - m.prev.TotalAlloc)
	line = strconv.AppendUint(line, b, 10)
	line = append(line, unit...)

	logs.Infof("%s", line)
}

const carryThreshold = 1 << 15

func bytesCarry(value uint64) (uint64, string) {
	if value < carryThreshold {
		return value, " B"
	}
	value >>= 10
	if value < carryThreshold {
		return value, " KB"
	}
	value >>= 10
	if value < carryThreshold {
		return value, " MB"
	}
	return value >> 10, " GB"
}
