package observability

import (
	"math"
	"sort"
	"sync"
	"time"
)

type OpStats struct {
	Op       string         `json:"op"`
	Backend  string         `json:"backend"`
	Samples  int            `json:"samples"`
	LastMS   float64        `json:"last_ms"`
	AvgMS    float64        `json:"avg_ms"`
	P50MS    float64        `json:"p50_ms"`
	P95MS    float64        `json:"p95_ms"`
	P99MS    float64        `json:"p99_ms"`
	Outcomes map[string]int `json:"outcomes"`
}

type LatencySnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	WindowSize  int       `json:"window_size"`
	Ops         []OpStats `json:"ops"`
}

// latencyWindow keeps the most recent samples per backend/op in a ring.
type latencyWindow struct {
	mu         sync.RWMutex
	maxSamples int
	ops        map[opKey]*opBuffer
}

type opKey struct {
	backend string
	op      string
}

type opBuffer struct {
	values   []float64
	next     int
	filled   bool
	last     float64
	outcomes map[string]int
}

func newLatencyWindow(maxSamples int) *latencyWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &latencyWindow{
		maxSamples: maxSamples,
		ops:        make(map[opKey]*opBuffer),
	}
}

func (w *latencyWindow) Observe(backend, op, outcome string, ms float64) {
	if op == "" || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	key := opKey{backend: backend, op: op}
	buf, ok := w.ops[key]
	if !ok {
		buf = &opBuffer{
			values:   make([]float64, w.maxSamples),
			outcomes: make(map[string]int),
		}
		w.ops[key] = buf
	}
	buf.values[buf.next] = ms
	buf.last = ms
	buf.outcomes[outcome]++
	buf.next++
	if buf.next >= len(buf.values) {
		buf.next = 0
		buf.filled = true
	}
}

func (w *latencyWindow) Snapshot() LatencySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	keys := make([]opKey, 0, len(w.ops))
	for k := range w.ops {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].backend != keys[j].backend {
			return keys[i].backend < keys[j].backend
		}
		return keys[i].op < keys[j].op
	})

	ops := make([]OpStats, 0, len(keys))
	for _, k := range keys {
		buf := w.ops[k]
		n := buf.next
		if buf.filled {
			n = len(buf.values)
		}
		if n <= 0 {
			continue
		}
		samples := make([]float64, n)
		copy(samples, buf.values[:n])
		sort.Float64s(samples)

		sum := 0.0
		for _, v := range samples {
			sum += v
		}
		outcomes := make(map[string]int, len(buf.outcomes))
		for o, c := range buf.outcomes {
			outcomes[o] = c
		}

		ops = append(ops, OpStats{
			Op:       k.op,
			Backend:  k.backend,
			Samples:  n,
			LastMS:   round2(buf.last),
			AvgMS:    round2(sum / float64(n)),
			P50MS:    round2(quantile(samples, 0.50)),
			P95MS:    round2(quantile(samples, 0.95)),
			P99MS:    round2(quantile(samples, 0.99)),
			Outcomes: outcomes,
		})
	}

	return LatencySnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  w.maxSamples,
		Ops:         ops,
	}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
