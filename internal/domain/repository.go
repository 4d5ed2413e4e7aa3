package domain

import "context"

// CustomerRepository — справочник клиентов.
type CustomerRepository interface {
	// Get возвращает клиента или ErrCustomerNotFound.
	Get(ctx context.Context, id string) (Customer, error)
	// Create регистрирует клиента; на дубликат ID возвращает ErrCustomerAlreadyExists.
	Create(ctx context.Context, customer Customer) error
}

// ProductRepository — каталог товаров.
type ProductRepository interface {
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// GetByDescription ищет товар по точному совпадению описания.
	GetByDescription(ctx context.Context, description string) (Product, error)
	Create(ctx context.Context, product Product) error
	List(ctx context.Context, limit int) ([]Product, error)
}

// StockRepository хранит складские остатки.
type StockRepository interface {
	// GetByProduct возвращает запись по товару. Внутри транзакции PostgreSQL строка блокируется
	// до конца транзакции. Если записи нет, возвращает *StockError.
	GetByProduct(ctx context.Context, productID string) (StockEntry, error)
	// Get возвращает запись по её собственному ID.
	Get(ctx context.Context, id string) (StockEntry, error)
	// Create добавляет запись; на вторую запись для того же товара возвращает ErrStockAlreadyExists.
	Create(ctx context.Context, entry StockEntry) error
	// UpdateQuantity записывает новое значение остатка без пересчёта.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ без позиций. На дубликат ID возвращает ErrOrderAlreadyExists.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ без позиций или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// GetWithItems возвращает заказ вместе с позициями.
	GetWithItems(ctx context.Context, id string) (Order, error)
	// ListByCustomer возвращает заказы клиента с опциональным ограничением на количество.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(ctx context.Context, order Order) error
	// Delete удаляет заказ вместе с позициями.
	Delete(ctx context.Context, id string) error
}

// LineItemRepository хранит позиции заказов.
type LineItemRepository interface {
	SaveAll(ctx context.Context, items []LineItem) error
	ListByOrder(ctx context.Context, orderID string) ([]LineItem, error)
}

// OutboxWriter пишет события в outbox в рамках текущей транзакции.
type OutboxWriter interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
}

// Tx — набор репозиториев, привязанных к одной транзакции.
type Tx interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Stock() StockRepository
	Orders() OrderRepository
	LineItems() LineItemRepository
	Outbox() OutboxWriter
}

// TxManager задаёт явную границу транзакции. Если fn вернула ошибку,
// ни одно изменение, сделанное через tx, не становится видимым.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
