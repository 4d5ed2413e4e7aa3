package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

type loadMode string

const (
	modePlace       loadMode = "place"
	modePlaceShip   loadMode = "place-ship"
	modePlaceDelete loadMode = "place-delete"
)

type config struct {
	addr         string
	total        int
	totalSet     bool
	duration     time.Duration
	concurrency  int
	connections  int
	timeout      time.Duration
	mode         loadMode
	deleteRate   int
	customerID   string
	productID    string
	quantity     int64
	initialStock int64
	apiURL       string
	outputPath   string
}

// parseConfig разбирает флаги. При заданной -duration флаг -total ограничивает
// число сценариев, только если указан явно.
func parseConfig(args []string, output io.Writer) (config, error) {
	var (
		cfg  config
		mode string
	)

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.addr, "addr", "localhost:50051", "gRPC address of the order service")
	fs.IntVar(&cfg.total, "total", 400, "number of scenarios")
	fs.DurationVar(&cfg.duration, "duration", 0, "run for this long instead of a fixed count (e.g. 10m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 40, "concurrent workers")
	fs.IntVar(&cfg.connections, "connections", 20, "gRPC client connections shared by workers")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-call timeout")
	fs.StringVar(&mode, "mode", string(modePlace), "place | place-ship | place-delete")
	fs.IntVar(&cfg.deleteRate, "delete-rate", 0, "percent of place-ship scenarios that delete instead of shipping")
	fs.StringVar(&cfg.customerID, "customer", "C1", "customer placing the orders")
	fs.StringVar(&cfg.productID, "product", "P1", "product every order competes for")
	fs.Int64Var(&cfg.quantity, "qty", 1, "units per order")
	fs.Int64Var(&cfg.initialStock, "initial-stock", 0, "stock before the run; enables the oversell check")
	fs.StringVar(&cfg.apiURL, "api", "", "REST base URL used to read the remaining stock (e.g. http://localhost:8080)")
	fs.StringVar(&cfg.outputPath, "output", "", "write the JSON report to this file")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		cfg.totalSet = cfg.totalSet || f.Name == "total"
	})

	parsed, err := parseMode(mode)
	if err != nil {
		return config{}, err
	}
	cfg.mode = parsed
	cfg.customerID = strings.TrimSpace(cfg.customerID)
	cfg.productID = strings.TrimSpace(cfg.productID)
	cfg.apiURL = strings.TrimRight(strings.TrimSpace(cfg.apiURL), "/")

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	switch {
	case c.duration < 0:
		return errors.New("duration must be >= 0")
	case c.duration == 0 && c.total <= 0:
		return errors.New("total must be > 0 without duration")
	case c.duration > 0 && c.totalSet && c.total <= 0:
		return errors.New("explicit total must be > 0")
	case c.concurrency <= 0:
		return errors.New("concurrency must be > 0")
	case c.connections <= 0:
		return errors.New("connections must be > 0")
	case c.timeout <= 0:
		return errors.New("timeout must be > 0")
	case c.quantity <= 0:
		return errors.New("qty must be > 0")
	case c.initialStock < 0:
		return errors.New("initial-stock must be >= 0")
	case c.deleteRate < 0 || c.deleteRate > 100:
		return errors.New("delete-rate must be within 0..100")
	case c.customerID == "":
		return errors.New("customer is required")
	case c.productID == "":
		return errors.New("product is required")
	}
	return nil
}

func parseMode(value string) (loadMode, error) {
	mode := loadMode(strings.TrimSpace(value))
	switch mode {
	case modePlace, modePlaceShip, modePlaceDelete:
		return mode, nil
	}
	return "", fmt.Errorf("unsupported mode %q", value)
}

// limit описывает, чем ограничен прогон: числом сценариев или временем.
func (c config) limit() string {
	switch {
	case c.duration <= 0:
		return fmt.Sprintf("count:%d", c.total)
	case c.totalSet:
		return fmt.Sprintf("duration:%s,max-total:%d", c.duration, c.total)
	default:
		return fmt.Sprintf("duration:%s", c.duration)
	}
}

// deletes сообщает, удаляет ли сценарий index заказ вместо отгрузки.
func (c config) deletes(index int) bool {
	switch c.mode {
	case modePlaceDelete:
		return true
	case modePlaceShip:
		return c.deleteRate > 0 && index%100 < c.deleteRate
	default:
		return false
	}
}
