// Package health отдаёт HTTP-пробы сервиса и проверяет внешние зависимости (PostgreSQL, Redis).
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultCheckTimeout = 2 * time.Second

// Status — состояние компонента или сервиса целиком.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// worse возвращает более тяжёлый из двух статусов.
func worse(a, b Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusUnhealthy:
			return 2
		case StatusDegraded:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Report — тело ответа /healthz.
type Report struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Service       string           `json:"service,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Checks        map[string]Check `json:"checks,omitempty"`
}

// Checker проверяет один компонент. ctx ограничивает время проверки.
type Checker interface {
	Check(ctx context.Context) Check
}

// Probe проверяет зависимость вызовом ping.
// Некритичная зависимость при ошибке даёт degraded, а не unhealthy.
type Probe struct {
	name     string
	ping     func(ctx context.Context) error
	critical bool
}

// Critical — проба зависимости, без которой сервис не готов (PostgreSQL).
func Critical(name string, ping func(ctx context.Context) error) *Probe {
	return &Probe{name: name, ping: ping, critical: true}
}

// Optional — проба зависимости, отказ которой только ухудшает работу (Redis-кэш).
func Optional(name string, ping func(ctx context.Context) error) *Probe {
	return &Probe{name: name, ping: ping}
}

// Static — проба, которая всегда успешна. Нужна in-memory хранилищу.
func Static(name string) *Probe {
	return Critical(name, func(context.Context) error { return nil })
}

// Check выполняет ping.
func (p *Probe) Check(ctx context.Context) Check {
	start := time.Now()
	err := p.ping(ctx)

	check := Check{Name: p.name, Status: StatusHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = StatusDegraded
		if p.critical {
			check.Status = StatusUnhealthy
		}
		check.Message = err.Error()
	}
	return check
}

// Handler хранит зарегистрированные проверки и отдаёт пробы.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	timeout  time.Duration
	started  time.Time
	now      func() time.Time
}

func NewHandler(version string) *Handler {
	return &Handler{
		checkers: make(map[string]Checker),
		version:  version,
		timeout:  defaultCheckTimeout,
		started:  time.Now(),
		now:      time.Now,
	}
}

// WithService задаёт имя сервиса в ответе /healthz.
func (h *Handler) WithService(name string) *Handler {
	h.service = name
	return h
}

// Register добавляет проверку; повторная регистрация имени заменяет прежнюю.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Names возвращает имена зарегистрированных проверок в алфавитном порядке.
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Evaluate параллельно выполняет проверки под общим таймаутом и сводит их в отчёт.
func (h *Handler) Evaluate(ctx context.Context) Report {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	report := Report{
		Status:        StatusHealthy,
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: int64(h.now().Sub(h.started).Seconds()),
		Checks:        make(map[string]Check, len(checkers)),
	}
	for name, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			check := c.Check(ctx)
			mu.Lock()
			report.Checks[name] = check
			report.Status = worse(report.Status, check.Status)
			mu.Unlock()
		}()
	}
	wg.Wait()

	report.Timestamp = h.now().UTC()
	return report
}

// Routes вешает /healthz, /livez и /readyz на роутер.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.Healthz)
	r.Get("/livez", Livez)
	r.Get("/readyz", h.Readyz)
}

// Healthz отдаёт полный отчёт; 503, если критичная зависимость недоступна.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	report := h.Evaluate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(report.Status))
	_ = json.NewEncoder(w).Encode(report)
}

// Livez отвечает 200, пока процесс жив.
func Livez(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// Readyz не снимает готовность при деградации некритичных компонентов.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.Evaluate(r.Context()).Status == StatusUnhealthy {
		writeText(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeText(w, http.StatusOK, "ready")
}

func httpStatus(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
