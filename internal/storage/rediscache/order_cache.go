// Package rediscache хранит собранные заказы в Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const (
	// KeyOrder — шаблон ключа заказа.
	KeyOrder = "orderdesk:order:%s"
	// Время жизни записи, если TTL не задан.
	DefaultTTL = 5 * time.Minute
	// TombstoneTTL — сколько живёт метка удаления после инвалидации.
	TombstoneTTL = 30 * time.Second

	dialTimeout = 2 * time.Second
	tombstone   = "-"
)

// NewClient создаёт клиента Redis с короткими таймаутами.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  dialTimeout,
		ReadTimeout:  dialTimeout,
		WriteTimeout: dialTimeout,
	})
}

// OrderCache реализует domain.OrderCache поверх Redis.
type OrderCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewOrderCache создаёт кэш. ttl <= 0 заменяется DefaultTTL.
func NewOrderCache(rdb redis.Cmdable, ttl time.Duration) *OrderCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &OrderCache{rdb: rdb, ttl: ttl}
}

var _ domain.OrderCache = (*OrderCache)(nil)

// Get возвращает заказ из кэша. При отсутствии ключа возвращает (Order{}, false, nil).
func (c *OrderCache) Get(ctx context.Context, id string) (domain.Order, bool, error) {
	raw, err := c.rdb.Get(ctx, orderKey(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return domain.Order{}, false, nil
	case err != nil:
		return domain.Order{}, false, fmt.Errorf("redis get order %s: %w", id, err)
	case string(raw) == tombstone:
		return domain.Order{}, false, nil
	}

	order, err := decodeOrder(raw)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("decode cached order %s: %w", id, err)
	}
	return order, true, nil
}

// Fill кладёт заказ в кэш на ttl через SET NX: занятый ключ (в том числе
// меткой удаления) остаётся как есть.
func (c *OrderCache) Fill(ctx context.Context, order domain.Order) error {
	raw, err := encodeOrder(order)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", order.ID, err)
	}
	if err := c.rdb.SetNX(ctx, orderKey(order.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx order %s: %w", order.ID, err)
	}
	return nil
}

// Invalidate заменяет запись меткой удаления на TombstoneTTL.
func (c *OrderCache) Invalidate(ctx context.Context, id string) error {
	if err := c.rdb.Set(ctx, orderKey(id), tombstone, TombstoneTTL).Err(); err != nil {
		return fmt.Errorf("redis tombstone order %s: %w", id, err)
	}
	return nil
}

func orderKey(id string) string {
	return fmt.Sprintf(KeyOrder, id)
}

type cachedItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}

type cachedOrder struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	PlacedOn   time.Time       `json:"placed_on"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []cachedItem    `json:"items"`
	Version    int64           `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func encodeOrder(order domain.Order) ([]byte, error) {
	c := cachedOrder{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		PlacedOn:   order.PlacedOn,
		Status:     string(order.Status),
		Total:      order.Total,
		Items:      make([]cachedItem, 0, len(order.Items)),
		Version:    order.Version,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for _, item := range order.Items {
		c.Items = append(c.Items, cachedItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			CreatedAt:   item.CreatedAt,
		})
	}
	return json.Marshal(c)
}

func decodeOrder(raw []byte) (domain.Order, error) {
	var c cachedOrder
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Order{}, err
	}
	order := domain.Order{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		PlacedOn:   c.PlacedOn,
		Status:     domain.OrderStatus(c.Status),
		Total:      c.Total,
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, item := range c.Items {
		order.Items = append(order.Items, domain.LineItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			CreatedAt:   item.CreatedAt,
		})
	}
	return order, nil
}
