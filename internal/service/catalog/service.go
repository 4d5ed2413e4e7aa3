// Package catalog ведёт справочники клиентов и товаров.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const defaultListLimit = 100

// Service регистрирует и отдаёт клиентов и товары.
type Service struct {
	tx     domain.TxManager
	logger *log.Entry
	now    func() time.Time
}

// NewService создаёт сервис каталога.
func NewService(tx domain.TxManager, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog-service")
	}
	return &Service{
		tx:     tx,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateCustomer регистрирует клиента. Пустой ID заменяется сгенерированным.
func (s *Service) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	customer.ID = strings.TrimSpace(customer.ID)
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if strings.TrimSpace(customer.Name) == "" {
		return domain.Customer{}, domain.ErrInvalidCustomer
	}
	customer.CreatedAt = s.now()

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return tx.Customers().Create(ctx, customer)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	s.logger.WithField("customer_id", customer.ID).Info("customer registered")
	return customer, nil
}

// GetCustomer возвращает клиента по ID.
func (s *Service) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	var customer domain.Customer
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		customer, err = tx.Customers().Get(ctx, id)
		return err
	})
	return customer, err
}

// CreateProduct добавляет товар в каталог. Цена округляется до копеек.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.ID = strings.TrimSpace(product.ID)
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.Description = strings.TrimSpace(product.Description)
	product.UnitPrice = product.UnitPrice.Round(2)
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	product.CreatedAt = s.now()

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return tx.Products().Create(ctx, product)
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"unit_price": product.UnitPrice.StringFixed(2),
	}).Info("product created")
	return product, nil
}

// GetProduct возвращает товар по ID.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		product, err = tx.Products().Get(ctx, id)
		return err
	})
	return product, err
}

// ListProducts возвращает до limit товаров (по умолчанию 100).
func (s *Service) ListProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var products []domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		products, err = tx.Products().List(ctx, limit)
		return err
	})
	return products, err
}

// ParsePrice разбирает цену из строки вида "10.50".
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, &domain.ProductError{Err: domain.ErrProductPriceInvalid}
	}
	return price, nil
}
