// Команда loadtest нагружает OrderService конкурентным оформлением заказов на один
// продукт и проверяет, что склад не ушёл в минус.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run возвращает код выхода: 1 при ошибке конфигурации, сбоях сценариев или перепродаже.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	clients := make([]orderdeskv1.OrderServiceClient, 0, cfg.connections)
	for range cfg.connections {
		conn, err := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			fmt.Fprintf(stderr, "create grpc client: %v\n", err)
			return 1
		}
		defer conn.Close()
		clients = append(clients, orderdeskv1.NewOrderServiceClient(conn))
	}

	startedAt := time.Now()
	r := &runner{cfg: cfg, runID: uuid.NewString(), col: newCollector()}

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for i := range cfg.concurrency {
		client := clients[i%len(clients)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				_ = r.run(ctx, client, index)
			}
		}()
	}
	dispatch(ctx, jobs, cfg)
	wg.Wait()

	result := r.col.report(startedAt, time.Since(startedAt))
	result.Stock.ProductID = cfg.productID
	result.Stock.InitialStock = cfg.initialStock
	if cfg.apiURL != "" {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.timeout)
		remaining, err := remainingStock(lookupCtx, http.DefaultClient, cfg.apiURL, cfg.productID)
		cancel()
		if err != nil {
			fmt.Fprintf(stderr, "read remaining stock: %v\n", err)
		} else {
			result.Stock.RemainingStock = &remaining
		}
	}
	result.Stock.Oversold = result.Stock.oversold()

	result.print(stdout, cfg)
	if cfg.outputPath != "" {
		if err := result.writeFile(cfg.outputPath); err != nil {
			fmt.Fprintf(stderr, "write report: %v\n", err)
			return 1
		}
	}
	if result.failed() {
		return 1
	}
	return 0
}

// dispatch раздаёт номера сценариев до исчерпания total, истечения duration или отмены ctx.
func dispatch(ctx context.Context, jobs chan<- int, cfg config) {
	defer close(jobs)

	var deadline <-chan time.Time
	if cfg.duration > 0 {
		timer := time.NewTimer(cfg.duration)
		defer timer.Stop()
		deadline = timer.C
	}
	bounded := cfg.duration <= 0 || cfg.totalSet

	for i := 0; !bounded || i < cfg.total; i++ {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case jobs <- i:
		}
	}
}
