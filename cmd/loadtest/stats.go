package main

import (
	"maps"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// scenarioSeries собирает итог сценария целиком, остальные серии названы по RPC.
const scenarioSeries = "scenario"

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type methodReport struct {
	Calls     int64            `json:"calls"`
	Success   int64            `json:"success"`
	Rejected  int64            `json:"rejected"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Codes     map[string]int64 `json:"codes"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type series struct {
	calls, success, rejected, failed int64

	codes   map[string]int64
	samples []float64
}

func (s *series) add(code codes.Code, latency time.Duration) {
	s.calls++
	switch code {
	case codes.OK:
		s.success++
	case codes.FailedPrecondition:
		// нехватка остатка: ожидаемый отказ, не сбой
		s.rejected++
	default:
		s.failed++
	}
	s.codes[code.String()]++
	s.samples = append(s.samples, float64(latency.Microseconds())/1000)
}

func (s *series) report() methodReport {
	return methodReport{
		Calls:     s.calls,
		Success:   s.success,
		Rejected:  s.rejected,
		Failed:    s.failed,
		ErrorRate: ratio(s.failed, s.calls),
		Codes:     maps.Clone(s.codes),
		LatencyMs: summarize(s.samples),
	}
}

// collector потокобезопасно копит результаты вызовов и число списанных единиц.
type collector struct {
	mu        sync.Mutex
	series    map[string]*series
	committed atomic.Int64
}

func newCollector() *collector {
	return &collector{series: make(map[string]*series)}
}

// observe учитывает вызов name, начатый в start и завершившийся с err.
func (c *collector) observe(name string, start time.Time, err error) {
	latency := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.series[name]
	if !ok {
		s = &series{codes: make(map[string]int64)}
		c.series[name] = s
	}
	s.add(status.Code(err), latency)
}

func (c *collector) commit(units int64) {
	c.committed.Add(units)
}

func (c *collector) method(name string) (methodReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.series[name]
	if !ok {
		return methodReport{}, false
	}
	return s.report(), true
}

func (c *collector) report(startedAt time.Time, elapsed time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: elapsed.Seconds(),
		Methods:         make(map[string]methodReport, len(c.series)),
		Stock:           stockReport{CommittedUnits: c.committed.Load()},
	}
	for name, s := range c.series {
		r.Methods[name] = s.report()
	}

	scenarios := r.Methods[scenarioSeries]
	r.TotalScenarios = scenarios.Calls
	r.SuccessScenarios = scenarios.Success
	r.RejectedScenarios = scenarios.Rejected
	r.FailedScenarios = scenarios.Failed
	r.ErrorRate = scenarios.ErrorRate
	r.ScenarioLatencyMs = scenarios.LatencyMs
	if elapsed > 0 {
		r.RPS = float64(r.TotalScenarios) / elapsed.Seconds()
	}
	return r
}

func summarize(samples []float64) latencySummary {
	if len(samples) == 0 {
		return latencySummary{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

// percentile интерполирует линейно между соседними рангами отсортированной выборки.
func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(rank)), int(math.Ceil(rank))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

func ratio(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total)
}
