// Package cart holds the session-scoped shopping cart. The cart lives in
// the visitor's session, not in the database; the server first learns about
// its contents when the order is submitted. Tabs sharing the same session
// cookie overwrite each other's cart (last write wins).
package cart

type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity"`
}

// Cart keeps items in insertion order. At most one item exists per product;
// adding an already present product bumps its quantity instead.
type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) AddItem(it Item) {
	for i := range c.Items {
		if c.Items[i].ProductID == it.ProductID {
			c.Items[i].Quantity++
			return
		}
	}

	it.Quantity = 1
	c.Items = append(c.Items, it)
}

// UpdateQuantity sets the quantity of the given product. A quantity of zero
// or less removes the line. Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}

		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}

		c.Items[i].Quantity = quantity
		return
	}
}

func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// ItemCount and Total are recomputed from the items on every call so they
// cannot drift from the underlying collection.

func (c *Cart) ItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Total() int {
	var tot int
	for _, it := range c.Items {
		tot += it.Price * it.Quantity
	}
	return tot
}
