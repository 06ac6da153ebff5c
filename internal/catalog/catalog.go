// Package catalog holds the product list and the current filtered view of it.
package catalog

import (
	"slices"
	"strings"
)

// All is the category sentinel that selects every product.
const All = "All"

type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Stock       int    `json:"stock"`
}

// Catalog is not safe for concurrent use; callers serialise access.
type Catalog struct {
	products []Product
	filtered []Product
}

func New(products []Product) *Catalog {
	return &Catalog{
		products: slices.Clone(products),
		filtered: slices.Clone(products),
	}
}

func (c *Catalog) List() []Product {
	return slices.Clone(c.products)
}

func (c *Catalog) Filtered() []Product {
	return slices.Clone(c.filtered)
}

// FilterByCategory replaces the filtered view with the products whose
// category matches exactly, or with the full list for All.
func (c *Catalog) FilterByCategory(category string) []Product {
	if category == All {
		c.filtered = slices.Clone(c.products)
		return c.Filtered()
	}

	c.filtered = c.match(func(p Product) bool { return p.Category == category })
	return c.Filtered()
}

// Search replaces the filtered view with the products whose name or
// description contains query, ignoring case. It does not consult the
// previous view.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(query)
	c.filtered = c.match(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	})
	return c.Filtered()
}

func (c *Catalog) Product(id int) (Product, bool) {
	i := slices.IndexFunc(c.products, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, false
	}
	return c.products[i], true
}

// SetStock overwrites the stock of a product in both the master list and the
// filtered view. There is no floor: negative values are stored as given.
func (c *Catalog) SetStock(id, stock int) {
	for _, list := range [][]Product{c.products, c.filtered} {
		for i := range list {
			if list[i].ID == id {
				list[i].Stock = stock
			}
		}
	}
}

// Categories lists All followed by each distinct category in first-seen order.
func (c *Catalog) Categories() []string {
	out := []string{All}
	for _, p := range c.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *Catalog) match(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
