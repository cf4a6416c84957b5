package cart

import (
	"errors"
	"sync"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
)

var ErrLineNotFound = errors.New("product is not in the cart")

// Line is a product in the cart together with the wanted quantity.
type Line struct {
	ProductID int64  `json:"product_id" validate:"gt=0"`
	Name      string `json:"name"       validate:"required"`
	Price     int64  `json:"price"      validate:"gte=0"`
	Quantity  int    `json:"quantity"`
}

// Cart is process-local and safe for concurrent use.
type Cart struct {
	mu    sync.RWMutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts a product into the cart, or increases its quantity if already present.
// A non-positive quantity counts as one.
func (c *Cart) Add(l Line) {
	if l.Quantity <= 0 {
		l.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == l.ProductID {
			c.lines[i].Quantity += l.Quantity

			return
		}
	}
	c.lines = append(c.lines, l)
}

// Remove drops the product from the cart. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(productID)
}

// UpdateQuantity sets the quantity of a product; zero or less removes it.
func (c *Cart) UpdateQuantity(productID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.remove(productID)
		} else {
			c.lines[i].Quantity = quantity
		}

		return nil
	}

	return ErrLineNotFound
}

func (c *Cart) remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)

			return
		}
	}
}

// RemoveOrdered takes the ordered quantities out of the cart. Lines added or
// raised after the order was built keep whatever was not ordered.
func (c *Cart) RemoveOrdered(items []order.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range items {
		for i := range c.lines {
			if c.lines[i].ProductID != it.ID {
				continue
			}
			if c.lines[i].Quantity <= it.Quantity {
				c.remove(it.ID)
			} else {
				c.lines[i].Quantity -= it.Quantity
			}

			break
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)

	return out
}

// Items converts the cart into order lines.
func (c *Cart) Items() []order.Item {
	lines := c.Lines()
	items := make([]order.Item, len(lines))
	for i, l := range lines {
		items[i] = order.Item{ID: l.ProductID, Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}

	return items
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}

	return n
}

func (c *Cart) Total() int64 {
	return order.TotalOf(c.Items())
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.lines) == 0
}
