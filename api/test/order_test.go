package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mvindas/salon-store/core/order"
	"github.com/mvindas/salon-store/core/product"
)

var orderNumberRe = regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{9}$`)

type createOrderResp struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
}

type orderDetail struct {
	order.Order
	Items []order.Item `json:"items"`
}

func TestOrders(t *testing.T) {
	env, err := NewTestEnv(t, "order_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	env.login(t, env.AdminUser, env.AdminPass)
	p := env.createProductOK(t, product.ProductNew{Name: "Shampoo", Price: 5000, Stock: 10})

	// Checkout clears the session cart.
	env.addToCartOK(t, p.ID)
	env.addToCartOK(t, p.ID)

	no := order.OrderNew{
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Items: []order.ItemNew{
			{ProductID: p.ID, ProductName: p.Name, Quantity: 2, Price: 5000},
		},
		Total: 10000,
	}

	var created createOrderResp
	if status := env.do(t, http.MethodPost, "/orders", no, &created); status != http.StatusCreated {
		t.Fatalf("creating order: status code %d", status)
	}
	if !created.Success {
		t.Fatalf("expected a successful order, got %+v", created)
	}
	if !orderNumberRe.MatchString(created.OrderNumber) {
		t.Fatalf("order number %q does not match %s", created.OrderNumber, orderNumberRe)
	}

	if v := env.cartOK(t); len(v.Items) != 0 {
		t.Fatalf("expected the cart to be cleared after checkout, got %+v", v)
	}

	var detail orderDetail
	if status := env.do(t, http.MethodGet, "/admin/orders/"+created.OrderID, nil, &detail); status != http.StatusOK {
		t.Fatalf("fetching order: status code %d", status)
	}
	if detail.OrderNumber != created.OrderNumber || detail.Status != order.Pending {
		t.Fatalf("unexpected order header: %+v", detail.Order)
	}
	if detail.PaymentMethod != order.PaymentBankTransfer {
		t.Fatalf("expected bank transfer payment, got %q", detail.PaymentMethod)
	}
	if detail.Total != 10000 {
		t.Fatalf("expected total 10000, got %d", detail.Total)
	}

	wantItems := []order.Item{{
		OrderID:     created.OrderID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    2,
		Price:       5000,
	}}
	ignoreTimes := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".CreatedAt"
	}, cmp.Ignore())
	if diff := cmp.Diff(wantItems, detail.Items, ignoreTimes); diff != "" {
		t.Fatalf("unexpected order items (-want +got):\n%s", diff)
	}

	// Order item snapshots are immune to later product edits.
	if status := env.do(t, http.MethodDelete, "/admin/products/"+p.ID, nil, nil); status != http.StatusNoContent {
		t.Fatalf("deleting product: status code %d", status)
	}
	if status := env.do(t, http.MethodGet, "/admin/orders/"+created.OrderID, nil, &detail); status != http.StatusOK {
		t.Fatalf("refetching order: status code %d", status)
	}
	if diff := cmp.Diff(wantItems, detail.Items, ignoreTimes); diff != "" {
		t.Fatalf("order items changed after product deletion (-want +got):\n%s", diff)
	}

	if status := env.do(t, http.MethodPut, "/admin/orders/"+created.OrderID+"/status", map[string]string{"status": "paid"}, nil); status != http.StatusNoContent {
		t.Fatalf("updating order status: status code %d", status)
	}
	if status := env.do(t, http.MethodGet, "/admin/orders/"+created.OrderID, nil, &detail); status != http.StatusOK {
		t.Fatalf("refetching order: status code %d", status)
	}
	if detail.Status != order.Paid {
		t.Fatalf("expected status paid, got %q", detail.Status)
	}

	if status := env.do(t, http.MethodPut, "/admin/orders/"+created.OrderID+"/status", map[string]string{"status": "refunded"}, nil); status != http.StatusBadRequest {
		t.Fatalf("updating to an unknown status: status code %d", status)
	}
}

func TestOrderValidation(t *testing.T) {
	env, err := NewTestEnv(t, "order_validation_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	env.login(t, env.AdminUser, env.AdminPass)
	p := env.createProductOK(t, product.ProductNew{Name: "Serum", Price: 8000, Stock: 4})
	env.logout(t)

	items := []order.ItemNew{{ProductID: p.ID, ProductName: p.Name, Quantity: 1, Price: 8000}}

	tests := []struct {
		name   string
		body   order.OrderNew
		status int
	}{
		{
			name:   "missing name",
			body:   order.OrderNew{CustomerEmail: "ana@example.com", Items: items, Total: 8000},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing email",
			body:   order.OrderNew{CustomerName: "Ana", Items: items, Total: 8000},
			status: http.StatusBadRequest,
		},
		{
			name:   "implausible email",
			body:   order.OrderNew{CustomerName: "Ana", CustomerEmail: "not-an-email", Items: items, Total: 8000},
			status: http.StatusBadRequest,
		},
		{
			name:   "no items",
			body:   order.OrderNew{CustomerName: "Ana", CustomerEmail: "ana@example.com", Total: 0},
			status: http.StatusBadRequest,
		},
		{
			name:   "manipulated total",
			body:   order.OrderNew{CustomerName: "Ana", CustomerEmail: "ana@example.com", Items: items, Total: 1},
			status: http.StatusBadRequest,
		},
		{
			name: "zero quantity line",
			body: order.OrderNew{
				CustomerName:  "Ana",
				CustomerEmail: "ana@example.com",
				Items:         []order.ItemNew{{ProductID: p.ID, ProductName: p.Name, Quantity: 0, Price: 8000}},
				Total:         0,
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := env.do(t, http.MethodPost, "/orders", tt.body, nil); status != tt.status {
				t.Fatalf("expected status code %d, got %d", tt.status, status)
			}
		})
	}
}

func TestConcurrentOrders(t *testing.T) {
	env, err := NewTestEnv(t, "order_concurrent_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	env.login(t, env.AdminUser, env.AdminPass)
	p := env.createProductOK(t, product.ProductNew{Name: "Aceite Capilar", Price: 6500, Stock: 30})

	no := order.OrderNew{
		CustomerName:  "Luisa",
		CustomerEmail: "luisa@example.com",
		Items: []order.ItemNew{
			{ProductID: p.ID, ProductName: p.Name, Quantity: 3, Price: 6500},
		},
		Total: 19500,
	}

	body, err := json.Marshal(no)
	if err != nil {
		t.Fatal(err)
	}

	const n = 8
	results := make(chan createOrderResp, n)

	// t.Fatal is off limits outside the test goroutine, so workers report
	// through channels only.
	errc := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w, err := env.Client().Post(env.URL+"/orders", "application/json", bytes.NewReader(body))
			if err != nil {
				errc <- err
				return
			}
			defer w.Body.Close()

			if w.StatusCode != http.StatusCreated {
				errc <- fmt.Errorf("creating order: status code %d", w.StatusCode)
				return
			}

			var resp createOrderResp
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				errc <- err
				return
			}
			results <- resp
		}()
	}
	wg.Wait()
	close(results)
	close(errc)

	for err := range errc {
		t.Fatal(err)
	}

	numbers := make(map[string]bool)
	ids := make(map[string]bool)
	for resp := range results {
		if numbers[resp.OrderNumber] {
			t.Fatalf("order number %q issued twice", resp.OrderNumber)
		}
		numbers[resp.OrderNumber] = true
		ids[resp.OrderID] = true
	}
	if len(numbers) != n || len(ids) != n {
		t.Fatalf("expected %d distinct orders, got %d numbers and %d ids", n, len(numbers), len(ids))
	}

	var list []order.Order
	if status := env.do(t, http.MethodGet, "/admin/orders", nil, &list); status != http.StatusOK {
		t.Fatalf("listing orders: status code %d", status)
	}
	if len(list) != n {
		t.Fatalf("expected %d orders listed, got %d", n, len(list))
	}
}
