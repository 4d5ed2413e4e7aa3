package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/catalog"
)

// CatalogService — справочники клиентов и товаров.
type CatalogService interface {
	CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

// StockService управляет складскими записями.
type StockService interface {
	Create(ctx context.Context, productID string, quantity int64) (domain.StockEntry, error)
	Get(ctx context.Context, id string) (domain.StockEntry, error)
	GetByProduct(ctx context.Context, productID string) (domain.StockEntry, error)
	GetByProductDescription(ctx context.Context, description string) (domain.StockEntry, error)
	SetQuantity(ctx context.Context, id string, quantity int64) (domain.StockEntry, error)
	Delete(ctx context.Context, id string) error
}

// CatalogHandler обслуживает /api/v1/customers, /api/v1/products и /api/v1/stock.
type CatalogHandler struct {
	catalog CatalogService
	stock   StockService
	logger  *log.Entry
}

// NewCatalogHandler создаёт обработчик справочников и остатков.
func NewCatalogHandler(catalogSvc CatalogService, stockSvc StockService, logger *log.Entry) *CatalogHandler {
	if logger == nil {
		logger = log.WithField("component", "http-catalog")
	}
	return &CatalogHandler{catalog: catalogSvc, stock: stockSvc, logger: logger}
}

// RegisterRoutes подключает маршруты каталога и склада.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/customers", h.createCustomer)
	r.Get("/api/v1/customers/{id}", h.getCustomer)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", h.createProduct)
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})

	r.Route("/api/v1/stock", func(r chi.Router) {
		r.Post("/", h.createStock)
		r.Get("/", h.findStock)
		r.Get("/{id}", h.getStock)
		r.Put("/{id}", h.setQuantity)
		r.Delete("/{id}", h.deleteStock)
	})
}

func (h *CatalogHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}
	customer, err := h.catalog.CreateCustomer(r.Context(), domain.Customer{ID: req.ID, Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerView(customer))
}

func (h *CatalogHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.catalog.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerView(customer))
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}
	price, err := catalog.ParsePrice(req.UnitPrice)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), domain.Product{ID: req.ID, Description: req.Description, UnitPrice: price})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductView(product))
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(product))
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	products, err := h.catalog.ListProducts(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *CatalogHandler) createStock(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}
	entry, err := h.stock.Create(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStockView(entry))
}

// findStock ищет остаток по ?product_id= или ?description=.
func (h *CatalogHandler) findStock(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		entry domain.StockEntry
		err   error
	)
	switch {
	case query.Get("product_id") != "":
		entry, err = h.stock.GetByProduct(r.Context(), query.Get("product_id"))
	case query.Get("description") != "":
		entry, err = h.stock.GetByProductDescription(r.Context(), query.Get("description"))
	default:
		writeBadRequest(w, "product_id or description query parameter is required")
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockView(entry))
}

func (h *CatalogHandler) getStock(w http.ResponseWriter, r *http.Request) {
	entry, err := h.stock.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockView(entry))
}

func (h *CatalogHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}
	if req.Quantity == nil {
		writeBadRequest(w, "quantity is required")
		return
	}
	entry, err := h.stock.SetQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockView(entry))
}

func (h *CatalogHandler) deleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.stock.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
