package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"
)

type report struct {
	StartedAt         time.Time               `json:"started_at"`
	DurationSeconds   float64                 `json:"duration_seconds"`
	TotalScenarios    int64                   `json:"total_scenarios"`
	SuccessScenarios  int64                   `json:"success_scenarios"`
	RejectedScenarios int64                   `json:"rejected_scenarios"`
	FailedScenarios   int64                   `json:"failed_scenarios"`
	ErrorRate         float64                 `json:"error_rate"`
	RPS               float64                 `json:"rps"`
	ScenarioLatencyMs latencySummary          `json:"scenario_latency_ms"`
	Methods           map[string]methodReport `json:"methods"`
	Stock             stockReport             `json:"stock"`
}

// stockReport сверяет списанные единицы с остатком на складе.
type stockReport struct {
	ProductID      string `json:"product_id"`
	CommittedUnits int64  `json:"committed_units"`
	InitialStock   int64  `json:"initial_stock,omitempty"`
	RemainingStock *int64 `json:"remaining_stock,omitempty"`
	Oversold       bool   `json:"oversold"`
}

// oversold: списано больше, чем было, или остаток не сходится со списанием.
// Без initial-stock проверка не выполняется.
func (s stockReport) oversold() bool {
	switch {
	case s.InitialStock <= 0:
		return false
	case s.CommittedUnits > s.InitialStock:
		return true
	case s.RemainingStock == nil:
		return false
	}
	remaining := *s.RemainingStock
	return remaining < 0 || s.CommittedUnits+remaining != s.InitialStock
}

// failed сообщает, должен ли прогон завершиться ненулевым кодом.
func (r report) failed() bool {
	return r.FailedScenarios > 0 || r.Stock.Oversold
}

func (r report) print(w io.Writer, cfg config) {
	lat := r.ScenarioLatencyMs
	fmt.Fprintln(w, "Load test summary")
	fmt.Fprintf(w, "mode=%s run=%s total=%d success=%d rejected=%d failed=%d error_rate=%.4f\n",
		cfg.mode, cfg.limit(), r.TotalScenarios, r.SuccessScenarios, r.RejectedScenarios, r.FailedScenarios, r.ErrorRate)
	fmt.Fprintf(w, "duration=%.2fs rps=%.2f\n", r.DurationSeconds, r.RPS)
	fmt.Fprintf(w, "scenario latency ms: min=%.2f avg=%.2f p50=%.2f p95=%.2f p99=%.2f max=%.2f\n",
		lat.Min, lat.Avg, lat.P50, lat.P95, lat.P99, lat.Max)

	names := make([]string, 0, len(r.Methods))
	for name := range r.Methods {
		if name != scenarioSeries {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	if len(names) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "method\tcalls\tsuccess\trejected\tfailed\terror_rate\tp95_ms")
		for _, name := range names {
			m := r.Methods[name]
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.4f\t%.2f\n",
				name, m.Calls, m.Success, m.Rejected, m.Failed, m.ErrorRate, m.LatencyMs.P95)
		}
		_ = tw.Flush()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "stock product=%s committed_units=%d", r.Stock.ProductID, r.Stock.CommittedUnits)
	if r.Stock.InitialStock > 0 {
		fmt.Fprintf(&b, " initial=%d", r.Stock.InitialStock)
	}
	if r.Stock.RemainingStock != nil {
		fmt.Fprintf(&b, " remaining=%d", *r.Stock.RemainingStock)
	}
	fmt.Fprintf(w, "%s oversold=%t\n", b.String(), r.Stock.Oversold)
}

// writeFile сохраняет отчёт в JSON. Путь должен указывать на файл внутри текущего каталога.
func (r report) writeFile(path string) error {
	clean := filepath.Clean(path)
	switch {
	case clean == "." || clean == string(filepath.Separator):
		return errors.New("output path must point to a file")
	case clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)):
		return fmt.Errorf("output path escapes the working directory: %s", path)
	}

	// #nosec G304 -- путь задаётся флагом -output
	f, err := os.Create(clean)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
