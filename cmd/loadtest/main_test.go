package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

type fakeOrderClient struct {
	orderdeskv1.OrderServiceClient

	placeFn  func(context.Context, *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error)
	statusFn func(context.Context, *orderdeskv1.UpdateOrderStatusRequest) (*orderdeskv1.UpdateOrderStatusResponse, error)
	deleteFn func(context.Context, *orderdeskv1.DeleteOrderRequest) (*orderdeskv1.DeleteOrderResponse, error)
}

func (f *fakeOrderClient) PlaceOrder(ctx context.Context, req *orderdeskv1.PlaceOrderRequest, _ ...grpc.CallOption) (*orderdeskv1.PlaceOrderResponse, error) {
	return f.placeFn(ctx, req)
}

func (f *fakeOrderClient) UpdateOrderStatus(ctx context.Context, req *orderdeskv1.UpdateOrderStatusRequest, _ ...grpc.CallOption) (*orderdeskv1.UpdateOrderStatusResponse, error) {
	return f.statusFn(ctx, req)
}

func (f *fakeOrderClient) DeleteOrder(ctx context.Context, req *orderdeskv1.DeleteOrderRequest, _ ...grpc.CallOption) (*orderdeskv1.DeleteOrderResponse, error) {
	return f.deleteFn(ctx, req)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "localhost:50051", cfg.addr)
	assert.Equal(t, 400, cfg.total)
	assert.False(t, cfg.totalSet)
	assert.Equal(t, modePlace, cfg.mode)
	assert.Equal(t, 5*time.Second, cfg.timeout)
	assert.Equal(t, "C1", cfg.customerID)
	assert.Equal(t, "P1", cfg.productID)
	assert.Equal(t, "count:400", cfg.limit())
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := parseConfig([]string{
		"-mode=place-ship",
		"-duration=2m",
		"-total=50",
		"-delete-rate=25",
		"-product= P2 ",
		"-qty=3",
		"-initial-stock=100",
		"-api=http://localhost:8080/",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, modePlaceShip, cfg.mode)
	assert.True(t, cfg.totalSet)
	assert.Equal(t, "P2", cfg.productID)
	assert.Equal(t, int64(3), cfg.quantity)
	assert.Equal(t, "http://localhost:8080", cfg.apiURL)
	assert.Equal(t, "duration:2m0s,max-total:50", cfg.limit())

	_, err = parseConfig([]string{"-duration=30s", "-total=0"}, io.Discard)
	require.Error(t, err, "explicit zero total is rejected in duration mode")

	cfg, err = parseConfig([]string{"-duration=30s"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "duration:30s", cfg.limit())
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string][]string{
		"mode":          {"-mode=burst"},
		"total":         {"-total=0"},
		"duration":      {"-duration=-1s"},
		"concurrency":   {"-concurrency=0"},
		"connections":   {"-connections=0"},
		"timeout":       {"-timeout=0s"},
		"qty":           {"-qty=0"},
		"initial-stock": {"-initial-stock=-1"},
		"delete-rate":   {"-delete-rate=101"},
		"customer":      {"-customer= "},
		"product":       {"-product="},
		"unknown flag":  {"-nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(args, io.Discard)
			require.Error(t, err)
		})
	}
}

func TestConfigDeletes(t *testing.T) {
	assert.False(t, config{mode: modePlace}.deletes(0))
	assert.True(t, config{mode: modePlaceDelete}.deletes(99))

	ship := config{mode: modePlaceShip, deleteRate: 30}
	assert.True(t, ship.deletes(29))
	assert.False(t, ship.deletes(30))
	assert.True(t, ship.deletes(129))
	assert.False(t, config{mode: modePlaceShip}.deletes(0))
}

func drain(jobs <-chan int) []int {
	var got []int
	for i := range jobs {
		got = append(got, i)
	}
	return got
}

func TestDispatch(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		jobs := make(chan int, 10)
		go dispatch(context.Background(), jobs, config{total: 4})
		assert.Equal(t, []int{0, 1, 2, 3}, drain(jobs))
	})

	t.Run("duration bounded by explicit total", func(t *testing.T) {
		jobs := make(chan int, 10)
		go dispatch(context.Background(), jobs, config{total: 3, totalSet: true, duration: time.Minute})
		assert.Len(t, drain(jobs), 3)
	})

	t.Run("duration", func(t *testing.T) {
		jobs := make(chan int)
		go dispatch(context.Background(), jobs, config{duration: 30 * time.Millisecond})
		assert.NotEmpty(t, drain(jobs))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		jobs := make(chan int)
		go dispatch(ctx, jobs, config{total: 1000})
		assert.Less(t, len(drain(jobs)), 1000)
	})
}

func TestCollectorReport(t *testing.T) {
	col := newCollector()
	start := time.Now()
	col.observe(scenarioSeries, start, nil)
	col.observe(scenarioSeries, start, status.Error(codes.FailedPrecondition, "insufficient stock"))
	col.observe(scenarioSeries, start, status.Error(codes.Unavailable, "down"))
	col.observe("PlaceOrder", start, nil)
	col.commit(2)

	r := col.report(start, 2*time.Second)
	assert.Equal(t, int64(3), r.TotalScenarios)
	assert.Equal(t, int64(1), r.SuccessScenarios)
	assert.Equal(t, int64(1), r.RejectedScenarios)
	assert.Equal(t, int64(1), r.FailedScenarios)
	assert.InDelta(t, 1.0/3, r.ErrorRate, 1e-9)
	assert.InDelta(t, 1.5, r.RPS, 1e-9)
	assert.Equal(t, int64(2), r.Stock.CommittedUnits)
	assert.Equal(t, int64(1), r.Methods[scenarioSeries].Codes["FailedPrecondition"])

	place, ok := col.method("PlaceOrder")
	require.True(t, ok)
	assert.Equal(t, int64(1), place.Success)
	_, ok = col.method("DeleteOrder")
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, latencySummary{}, summarize(nil))

	s := summarize([]float64{4, 1, 3, 2, 5})
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Avg)
	assert.Equal(t, 3.0, s.P50)
	assert.InDelta(t, 4.8, s.P95, 1e-9)
	assert.Equal(t, 7.0, percentile([]float64{7}, 99))
}

func TestStockReportOversold(t *testing.T) {
	remaining := func(v int64) *int64 { return &v }

	cases := []struct {
		name  string
		stock stockReport
		want  bool
	}{
		{"no initial stock", stockReport{CommittedUnits: 50}, false},
		{"within stock", stockReport{CommittedUnits: 5, InitialStock: 5}, false},
		{"committed above initial", stockReport{CommittedUnits: 6, InitialStock: 5}, true},
		{"remaining matches", stockReport{CommittedUnits: 3, InitialStock: 5, RemainingStock: remaining(2)}, false},
		{"remaining drifted", stockReport{CommittedUnits: 3, InitialStock: 5, RemainingStock: remaining(1)}, true},
		{"negative remaining", stockReport{CommittedUnits: 5, InitialStock: 5, RemainingStock: remaining(-1)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.stock.oversold())
		})
	}
}

func TestReportWriteFile(t *testing.T) {
	r := report{TotalScenarios: 2, Stock: stockReport{ProductID: "P1"}}

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, r.writeFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(2), decoded.TotalScenarios)

	require.Error(t, r.writeFile("."))
	require.Error(t, r.writeFile("../escape.json"))
}

func TestReportPrint(t *testing.T) {
	left := int64(3)
	r := report{
		TotalScenarios:   2,
		SuccessScenarios: 2,
		Methods: map[string]methodReport{
			scenarioSeries: {Calls: 2, Success: 2},
			"PlaceOrder":   {Calls: 2, Success: 2},
		},
		Stock: stockReport{ProductID: "P1", CommittedUnits: 2, InitialStock: 5, RemainingStock: &left},
	}

	var out bytes.Buffer
	r.print(&out, config{mode: modePlace, total: 2})

	text := out.String()
	assert.Contains(t, text, "Load test summary")
	assert.Contains(t, text, "mode=place run=count:2")
	assert.Contains(t, text, "PlaceOrder")
	assert.Contains(t, text, "stock product=P1 committed_units=2 initial=5 remaining=3 oversold=false")
}

func TestRemainingStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stock" || r.URL.Query().Get("product_id") != "P1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"S1","product_id":"P1","quantity":7}`))
	}))
	defer srv.Close()

	got, err := remainingStock(context.Background(), srv.Client(), srv.URL, "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	_, err = remainingStock(context.Background(), srv.Client(), srv.URL, "P404")
	require.ErrorContains(t, err, "status 404")
}

func idempotencyKey(t *testing.T, ctx context.Context) string {
	t.Helper()

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok, "outgoing metadata is missing")
	values := md.Get(idempotencyHeader)
	require.Len(t, values, 1)
	return values[0]
}

func TestRunnerRun(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	track := func(call string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, call)
	}

	client := &fakeOrderClient{
		placeFn: func(ctx context.Context, req *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error) {
			assert.True(t, strings.HasPrefix(idempotencyKey(t, ctx), "lt-place-run-"))
			if assert.Len(t, req.GetItems(), 1) {
				assert.Equal(t, "P1", req.GetItems()[0].GetProductId())
				assert.Equal(t, int64(2), req.GetItems()[0].GetQuantity())
			}
			track("place")
			return &orderdeskv1.PlaceOrderResponse{Order: &orderdeskv1.Order{Id: "order-1"}}, nil
		},
		statusFn: func(ctx context.Context, req *orderdeskv1.UpdateOrderStatusRequest) (*orderdeskv1.UpdateOrderStatusResponse, error) {
			assert.Equal(t, "lt-ship-run-1", idempotencyKey(t, ctx))
			assert.Equal(t, orderdeskv1.OrderStatus_ORDER_STATUS_SHIPPED, req.GetStatus())
			track("ship")
			return &orderdeskv1.UpdateOrderStatusResponse{}, nil
		},
		deleteFn: func(_ context.Context, req *orderdeskv1.DeleteOrderRequest) (*orderdeskv1.DeleteOrderResponse, error) {
			track("delete")
			return &orderdeskv1.DeleteOrderResponse{OrderId: req.GetOrderId()}, nil
		},
	}

	r := &runner{
		cfg:   config{mode: modePlaceShip, customerID: "C1", productID: "P1", quantity: 2, timeout: time.Second},
		runID: "run",
		col:   newCollector(),
	}
	ctx := context.Background()
	require.NoError(t, r.run(ctx, client, 1))

	r.cfg.mode = modePlaceDelete
	require.NoError(t, r.run(ctx, client, 2))

	r.cfg.mode = modePlace
	require.NoError(t, r.run(ctx, client, 3))

	assert.Equal(t, []string{"place", "ship", "place", "delete", "place"}, calls)
	result := r.col.report(time.Now(), time.Second)
	assert.Equal(t, int64(3), result.SuccessScenarios)
	assert.Equal(t, int64(6), result.Stock.CommittedUnits)
}

func TestRunnerRun_Failures(t *testing.T) {
	cfg := config{mode: modePlace, customerID: "C1", productID: "P1", quantity: 1, timeout: time.Second}
	placed := func(context.Context, *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error) {
		return &orderdeskv1.PlaceOrderResponse{Order: &orderdeskv1.Order{Id: "order-1"}}, nil
	}

	t.Run("rejected", func(t *testing.T) {
		r := &runner{cfg: cfg, runID: "run", col: newCollector()}
		client := &fakeOrderClient{placeFn: func(context.Context, *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error) {
			return nil, status.Error(codes.FailedPrecondition, "insufficient stock")
		}}
		require.Error(t, r.run(context.Background(), client, 0))

		result := r.col.report(time.Now(), time.Second)
		assert.Equal(t, int64(1), result.RejectedScenarios)
		assert.Zero(t, result.FailedScenarios)
		assert.Zero(t, result.Stock.CommittedUnits)
	})

	t.Run("empty order id", func(t *testing.T) {
		r := &runner{cfg: cfg, runID: "run", col: newCollector()}
		client := &fakeOrderClient{placeFn: func(context.Context, *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error) {
			return &orderdeskv1.PlaceOrderResponse{Order: &orderdeskv1.Order{}}, nil
		}}
		require.Error(t, r.run(context.Background(), client, 0))

		result := r.col.report(time.Now(), time.Second)
		assert.Equal(t, int64(1), result.FailedScenarios)
		assert.Equal(t, int64(1), result.Methods[scenarioSeries].Codes["Internal"])
	})

	t.Run("ship unavailable", func(t *testing.T) {
		shipCfg := cfg
		shipCfg.mode = modePlaceShip
		r := &runner{cfg: shipCfg, runID: "run", col: newCollector()}
		client := &fakeOrderClient{
			placeFn: placed,
			statusFn: func(context.Context, *orderdeskv1.UpdateOrderStatusRequest) (*orderdeskv1.UpdateOrderStatusResponse, error) {
				return nil, status.Error(codes.Unavailable, "down")
			},
		}
		require.Error(t, r.run(context.Background(), client, 0))

		ship, ok := r.col.method("UpdateOrderStatus")
		require.True(t, ok)
		assert.Equal(t, int64(1), ship.Failed)
		assert.Equal(t, int64(1), r.col.report(time.Now(), time.Second).Stock.CommittedUnits)
	})
}

type smokeServer struct {
	orderdeskv1.UnimplementedOrderServiceServer
}

func (smokeServer) PlaceOrder(_ context.Context, req *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error) {
	return &orderdeskv1.PlaceOrderResponse{Order: &orderdeskv1.Order{Id: "order-" + req.GetCustomerId()}}, nil
}

func TestRunSmoke(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	orderdeskv1.RegisterOrderServiceServer(srv, smokeServer{})
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"quantity":5}`))
	}))
	defer api.Close()

	outPath := filepath.Join(t.TempDir(), "report.json")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-addr=" + lis.Addr().String(),
		"-total=5",
		"-concurrency=2",
		"-connections=1",
		"-timeout=2s",
		"-initial-stock=10",
		"-api=" + api.URL,
		"-output=" + outPath,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "oversold=false")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var decoded report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(5), decoded.Stock.CommittedUnits)
	require.NotNil(t, decoded.Stock.RemainingStock)
	assert.Equal(t, int64(5), *decoded.Stock.RemainingStock)
}

func TestRunInvalidConfig(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), []string{"-mode=burst"}, io.Discard, &stderr))
	assert.Contains(t, stderr.String(), "invalid config")
}
