package cart

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/jcmexdev/pos-counter/internal/domain"
)

func catalogOf(products ...domain.Product) PriceFunc {
	byID := make(map[string]float64, len(products))
	for _, p := range products {
		byID[p.ID] = p.Price
	}
	return func(id string) (float64, bool) {
		p, ok := byID[id]
		return p, ok
	}
}

func TestAdd_NewProduct(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Coke", Price: 50}
	items := Add(nil, p)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", items[0].Quantity)
	}
	if items[0].UnitPrice != 50 {
		t.Errorf("expected price snapshot 50, got %v", items[0].UnitPrice)
	}
}

func TestAdd_DuplicateIncrementsQuantity(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Coke", Price: 50}
	items := Add(Add(nil, p), p)

	if len(items) != 1 {
		t.Fatalf("adding the same product twice must not duplicate entries, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	p := domain.Product{ID: "p1", Price: 10}
	original := Add(nil, p)
	_ = Add(original, p)

	if original[0].Quantity != 1 {
		t.Errorf("input cart was mutated: quantity %d", original[0].Quantity)
	}
}

func TestSetQuantity(t *testing.T) {
	base := Add(nil, domain.Product{ID: "p1", Price: 10})

	items := SetQuantity(base, "p1", 5)
	if items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", items[0].Quantity)
	}

	for _, invalid := range []int{0, -3} {
		items = SetQuantity(base, "p1", invalid)
		if items[0].Quantity != 1 {
			t.Errorf("SetQuantity(%d) must leave the cart unchanged, got quantity %d", invalid, items[0].Quantity)
		}
	}

	items = SetQuantity(base, "missing", 3)
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Error("SetQuantity on an unknown product must be a no-op")
	}
}

func TestIncrementDecrement(t *testing.T) {
	items := Add(nil, domain.Product{ID: "p1", Price: 10})

	items = Increment(items, "p1")
	if items[0].Quantity != 2 {
		t.Errorf("expected quantity 2 after increment, got %d", items[0].Quantity)
	}

	items = Decrement(items, "p1")
	if items[0].Quantity != 1 {
		t.Errorf("expected quantity 1 after decrement, got %d", items[0].Quantity)
	}

	// At the floor: no-op, never removal, never zero.
	items = Decrement(items, "p1")
	if len(items) != 1 {
		t.Fatal("decrement at quantity 1 must not remove the item")
	}
	if items[0].Quantity != 1 {
		t.Errorf("decrement must never produce quantity < 1, got %d", items[0].Quantity)
	}
}

func TestRemove(t *testing.T) {
	items := Add(Add(nil, domain.Product{ID: "p1", Price: 10}), domain.Product{ID: "p2", Price: 20})

	items = Remove(items, "p1")
	if len(items) != 1 || items[0].ProductID != "p2" {
		t.Errorf("expected only p2 to remain, got %+v", items)
	}

	items = Remove(items, "missing")
	if len(items) != 1 {
		t.Error("removing an unknown product must be a no-op")
	}
}

func TestTotal_Scenario(t *testing.T) {
	a := domain.Product{ID: "a", Name: "A", Price: 50.00}
	b := domain.Product{ID: "b", Name: "B", Price: 30.00}

	items := Add(Add(Add(nil, a), a), b) // A qty 2, B qty 1
	total := Total(items, catalogOf(a, b))

	if total != 130.00 {
		t.Errorf("expected total 130.00, got %v", total)
	}
}

func TestTotal_UnresolvablePriceCountsAsZero(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "known", Quantity: 2},
		{ProductID: "ghost", Quantity: 7},
	}
	total := Total(items, catalogOf(domain.Product{ID: "known", Price: 10}))

	if total != 20 {
		t.Errorf("expected 20 (ghost item priced at zero), got %v", total)
	}
}

func TestTotal_MatchesSumOverRandomCarts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(10)
		products := make([]domain.Product, n)
		var items []domain.LineItem
		var want float64
		for i := 0; i < n; i++ {
			price := math.Round(rng.Float64()*10000) / 100
			qty := 1 + rng.Intn(9)
			products[i] = domain.Product{ID: fmt.Sprintf("p%d", i), Price: price}
			items = append(items, domain.LineItem{ProductID: products[i].ID, Quantity: qty})
			want += float64(qty) * price
		}

		got := Total(items, catalogOf(products...))
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("trial %d: total %v, want %v", trial, got, want)
		}
	}
}

func TestSnapshotFirst(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: 45}, // snapshot wins
		{ProductID: "p2", Quantity: 1},                // falls back to catalog
		{ProductID: "p3", Quantity: 1},                // unknown everywhere
	}
	lookup := SnapshotFirst(items, catalogOf(
		domain.Product{ID: "p1", Price: 60},
		domain.Product{ID: "p2", Price: 30},
	))

	if p, _ := lookup("p1"); p != 45 {
		t.Errorf("expected snapshot price 45 for p1, got %v", p)
	}
	if p, _ := lookup("p2"); p != 30 {
		t.Errorf("expected catalog price 30 for p2, got %v", p)
	}
	if _, ok := lookup("p3"); ok {
		t.Error("expected p3 to be unresolvable")
	}

	if got := Total(items, lookup); got != 75 {
		t.Errorf("expected total 75, got %v", got)
	}
}
