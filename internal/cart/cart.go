package cart

import (
	"sync"

	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/types"
)

// Item is one staged line: a medicine snapshot plus the order quantity.
// Invariant: 1 <= Quantity <= Medicine.Quantity as last observed; the
// platform is the final arbiter at submission time.
type Item struct {
	Medicine upstream.Medicine `json:"medicine"`
	Quantity int               `json:"orderQuantity"`
}

// Subtotal is this line's contribution to the cart total.
func (i Item) Subtotal() types.Money {
	return i.Medicine.Price.MulInt(i.Quantity)
}

// Cart is the client-local staging collection prior to order submission.
// Pure state machine, no I/O; never persisted.
type Cart struct {
	mu    sync.Mutex
	order []string
	items map[string]*Item
}

func New() *Cart {
	return &Cart{items: map[string]*Item{}}
}

// Add inserts the medicine with quantity one, or bumps an existing line by
// one while it stays under the stock ceiling.
func (c *Cart) Add(medicine upstream.Medicine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.items[medicine.ID]
	if !ok {
		if medicine.Quantity < 1 {
			return stockCeilingError(medicine.ID, medicine.Quantity)
		}
		c.items[medicine.ID] = &Item{Medicine: medicine, Quantity: 1}
		c.order = append(c.order, medicine.ID)
		return nil
	}

	// The caller re-fetched the medicine, so its stock figure supersedes the
	// snapshot taken when the line was first staged.
	existing.Medicine = medicine
	if existing.Quantity >= existing.Medicine.Quantity {
		return stockCeilingError(medicine.ID, existing.Medicine.Quantity)
	}
	existing.Quantity++
	return nil
}

// UpdateQuantity sets an absolute quantity. Zero removes the line; anything
// above the stock ceiling is rejected and the previous quantity kept.
func (c *Cart) UpdateQuantity(medicineID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[medicineID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not in cart")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		c.removeLocked(medicineID)
		return nil
	}
	if quantity > item.Medicine.Quantity {
		return stockCeilingError(medicineID, item.Medicine.Quantity)
	}
	item.Quantity = quantity
	return nil
}

// Remove unconditionally deletes the entry.
func (c *Cart) Remove(medicineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(medicineID)
}

func (c *Cart) removeLocked(medicineID string) {
	if _, ok := c.items[medicineID]; !ok {
		return
	}
	delete(c.items, medicineID)
	for i, id := range c.order {
		if id == medicineID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]*Item{}
	c.order = nil
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, *c.items[id])
	}
	return items
}

// Total recomputes the cart total from current contents on every call; it is
// never stored, so it cannot drift.
func (c *Cart) Total() types.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := types.ZeroMoney()
	for _, id := range c.order {
		total = total.Add(c.items[id].Subtotal())
	}
	return total
}

// Len reports the number of distinct medicines staged.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// IsEmpty reports whether nothing is staged.
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

func stockCeilingError(medicineID string, available int) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "no more stock available").
		WithDetails(map[string]any{"medicine_id": medicineID, "available": available})
}
