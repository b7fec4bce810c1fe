package product

import (
	"errors"

	"github.com/example/ec-orders/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is a view over the products of one snapshot. Mutations write through to the snapshot.
type Catalog struct {
	products []*model.Product
}

func NewCatalog(snapshot *model.Snapshot) *Catalog {
	return &Catalog{products: snapshot.Products}
}

// Find returns the product with the given id
func (c *Catalog) Find(id int) (*model.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// AdjustStock applies stock += delta. The caller keeps the result non-negative.
func (c *Catalog) AdjustStock(id, delta int) error {
	p, ok := c.Find(id)
	if !ok {
		return ErrProductNotFound
	}
	p.Stock += delta
	return nil
}

// All returns the products in stored order
func (c *Catalog) All() []*model.Product {
	return c.products
}
