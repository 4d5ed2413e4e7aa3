package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

type customerRepositoryInMemory struct {
	st *state
}

func (r *customerRepositoryInMemory) Get(_ context.Context, id string) (domain.Customer, error) {
	customer, ok := r.st.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func (r *customerRepositoryInMemory) Create(_ context.Context, customer domain.Customer) error {
	if _, exists := r.st.customers[customer.ID]; exists {
		return domain.ErrCustomerAlreadyExists
	}
	r.st.customers[customer.ID] = customer
	return nil
}

type productRepositoryInMemory struct {
	st *state
}

func (r *productRepositoryInMemory) Get(_ context.Context, id string) (domain.Product, error) {
	product, ok := r.st.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// GetByDescription перебирает каталог; при совпадении описаний берётся товар с меньшим ID.
func (r *productRepositoryInMemory) GetByDescription(_ context.Context, description string) (domain.Product, error) {
	var (
		found domain.Product
		ok    bool
	)
	for _, p := range r.st.products {
		if p.Description != description {
			continue
		}
		if !ok || p.ID < found.ID {
			found, ok = p, true
		}
	}
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return found, nil
}

func (r *productRepositoryInMemory) Create(_ context.Context, product domain.Product) error {
	if _, exists := r.st.products[product.ID]; exists {
		return domain.ErrProductAlreadyExists
	}
	r.st.products[product.ID] = product
	return nil
}

// List возвращает товары, отсортированные по ID.
func (r *productRepositoryInMemory) List(_ context.Context, limit int) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var (
	_ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
	_ domain.ProductRepository  = (*productRepositoryInMemory)(nil)
)
