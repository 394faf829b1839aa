package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"
	"oldphonedeals_back_end/internal/realtime"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeCatalog struct {
	mu     sync.Mutex
	phones map[string]*models.Phone

	failDecrementFor string // phone_id dont le décrément échoue systématiquement
	restored         map[string]int
}

func newFakeCatalog(phones ...*models.Phone) *fakeCatalog {
	fc := &fakeCatalog{phones: map[string]*models.Phone{}, restored: map[string]int{}}
	for _, p := range phones {
		fc.phones[p.ID.String()] = p
	}
	return fc
}

func (f *fakeCatalog) GetLive(ctx context.Context, phoneID string) (*models.Phone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.phones[phoneID]
	if !ok || p.Disabled {
		return nil, faults.NotFound(phoneID)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) DecrementStock(ctx context.Context, phoneID string, amount int, orderID *gocql.UUID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if phoneID == f.failDecrementFor {
		return faults.Transaction("décrément forcé en échec")
	}
	p, ok := f.phones[phoneID]
	if !ok {
		return faults.NotFound(phoneID)
	}
	if p.Stock < amount {
		return faults.InsufficientStock(phoneID, p.Stock, amount)
	}
	p.Stock -= amount
	return nil
}

func (f *fakeCatalog) RestoreStock(ctx context.Context, phoneID string, amount int, orderID *gocql.UUID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.phones[phoneID]
	if !ok {
		return faults.NotFound(phoneID)
	}
	p.Stock += amount
	f.restored[phoneID] += amount
	return nil
}

func (f *fakeCatalog) stock(phoneID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phones[phoneID].Stock
}

type fakeOrders struct {
	mu         sync.Mutex
	created    []*models.Order
	deleted    []*models.Order
	failCreate bool
}

func (f *fakeOrders) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return faults.Transaction("création forcée en échec")
	}
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, order)
	return nil
}

type fakeCart struct {
	mu        sync.Mutex
	cleared   []string
	failClear bool
}

func (f *fakeCart) Clear(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClear {
		return errors.New("redis indisponible")
	}
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (f *fakeBroadcaster) Broadcast(event realtime.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func phoneFixture(title string, price float64, stock int) *models.Phone {
	return &models.Phone{
		ID:    gocql.TimeUUID(),
		Title: title,
		Brand: "TestBrand",
		Price: price,
		Stock: stock,
	}
}

func newCoordinator(catalog *fakeCatalog) (*Coordinator, *fakeOrders, *fakeCart, *fakeBroadcaster) {
	orders := &fakeOrders{}
	cart := &fakeCart{}
	broadcaster := &fakeBroadcaster{}
	return NewCoordinator(catalog, orders, cart, broadcaster), orders, cart, broadcaster
}

// --- Tests ---

func TestCheckoutSuccess(t *testing.T) {
	p1 := phoneFixture("iPhone 12", 399.99, 5)
	p2 := phoneFixture("Galaxy S21", 299.50, 3)
	catalog := newFakeCatalog(p1, p2)
	coord, orders, cart, broadcaster := newCoordinator(catalog)

	order, err := coord.Checkout(context.Background(), Request{
		UserID: "alice",
		Items: []Item{
			{PhoneID: p1.ID.String(), Quantity: 2},
			{PhoneID: p2.ID.String(), Quantity: 1},
		},
		PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "alice", order.UserID)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Len(t, order.Items, 2)
	assert.InDelta(t, 2*399.99+299.50, order.Total, 0.001)

	// snapshot de prix figé dans la commande
	assert.Equal(t, 399.99, order.Items[0].Price)
	assert.Equal(t, "iPhone 12", order.Items[0].Title)

	assert.Equal(t, 3, catalog.stock(p1.ID.String()))
	assert.Equal(t, 2, catalog.stock(p2.ID.String()))
	assert.Len(t, orders.created, 1)
	assert.Equal(t, []string{"alice"}, cart.cleared)
	assert.Equal(t, 1, broadcaster.count())
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	p := phoneFixture("Pixel 6", 250, 10)
	catalog := newFakeCatalog(p)
	coord, _, _, _ := newCoordinator(catalog)

	order, err := coord.Checkout(context.Background(), Request{
		UserID: "bob",
		Items: []Item{
			{PhoneID: p.ID.String(), Quantity: 2},
			{PhoneID: p.ID.String(), Quantity: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 5, catalog.stock(p.ID.String()))
}

func TestCheckoutValidation(t *testing.T) {
	p := phoneFixture("Pixel 6", 250, 10)
	catalog := newFakeCatalog(p)
	coord, orders, _, _ := newCoordinator(catalog)
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
	}{
		{"utilisateur manquant", Request{Items: []Item{{PhoneID: p.ID.String(), Quantity: 1}}}},
		{"panier vide", Request{UserID: "bob"}},
		{"quantité nulle", Request{UserID: "bob", Items: []Item{{PhoneID: p.ID.String(), Quantity: 0}}}},
		{"quantité négative", Request{UserID: "bob", Items: []Item{{PhoneID: p.ID.String(), Quantity: -2}}}},
		{"id invalide", Request{UserID: "bob", Items: []Item{{PhoneID: "pas-un-uuid", Quantity: 1}}}},
		{"paiement inconnu", Request{UserID: "bob", PaymentMethod: "chèque-cadeau",
			Items: []Item{{PhoneID: p.ID.String(), Quantity: 1}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.Checkout(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, faults.IsKind(err, faults.KindValidation))
		})
	}

	// aucun effet de bord sur les stores
	assert.Equal(t, 10, catalog.stock(p.ID.String()))
	assert.Empty(t, orders.created)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	p := phoneFixture("OnePlus 9", 199, 2)
	catalog := newFakeCatalog(p)
	coord, orders, cart, broadcaster := newCoordinator(catalog)

	_, err := coord.Checkout(context.Background(), Request{
		UserID: "carol",
		Items:  []Item{{PhoneID: p.ID.String(), Quantity: 3}},
	})
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindInsufficientStock))

	assert.Equal(t, 2, catalog.stock(p.ID.String()))
	assert.Empty(t, orders.created)
	assert.Empty(t, cart.cleared)
	assert.Equal(t, 0, broadcaster.count())
}

func TestCheckoutDisabledListingRejected(t *testing.T) {
	p := phoneFixture("Xperia", 150, 4)
	p.Disabled = true
	catalog := newFakeCatalog(p)
	coord, _, _, _ := newCoordinator(catalog)

	_, err := coord.Checkout(context.Background(), Request{
		UserID: "dave",
		Items:  []Item{{PhoneID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestCheckoutCompensatesOnDecrementFailure(t *testing.T) {
	p1 := phoneFixture("iPhone 12", 399.99, 5)
	p2 := phoneFixture("Galaxy S21", 299.50, 3)
	catalog := newFakeCatalog(p1, p2)
	catalog.failDecrementFor = p2.ID.String()
	coord, orders, cart, broadcaster := newCoordinator(catalog)

	_, err := coord.Checkout(context.Background(), Request{
		UserID: "alice",
		Items: []Item{
			{PhoneID: p1.ID.String(), Quantity: 2},
			{PhoneID: p2.ID.String(), Quantity: 1},
		},
	})
	require.Error(t, err)

	// le stock déjà décrémenté de p1 est restitué
	assert.Equal(t, 5, catalog.stock(p1.ID.String()))
	assert.Equal(t, 2, catalog.restored[p1.ID.String()])
	assert.Empty(t, orders.created)
	assert.Empty(t, cart.cleared)
	assert.Equal(t, 0, broadcaster.count())
}

func TestCheckoutCompensatesOnOrderCreateFailure(t *testing.T) {
	p := phoneFixture("Pixel 6", 250, 10)
	catalog := newFakeCatalog(p)
	coord, orders, cart, _ := newCoordinator(catalog)
	orders.failCreate = true

	_, err := coord.Checkout(context.Background(), Request{
		UserID: "bob",
		Items:  []Item{{PhoneID: p.ID.String(), Quantity: 4}},
	})
	require.Error(t, err)

	assert.Equal(t, 10, catalog.stock(p.ID.String()))
	assert.Empty(t, cart.cleared)
}

func TestCheckoutRollsBackOrderOnCartClearFailure(t *testing.T) {
	p := phoneFixture("Pixel 6", 250, 10)
	catalog := newFakeCatalog(p)
	coord, orders, cart, broadcaster := newCoordinator(catalog)
	cart.failClear = true

	_, err := coord.Checkout(context.Background(), Request{
		UserID: "bob",
		Items:  []Item{{PhoneID: p.ID.String(), Quantity: 4}},
	})
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindTransaction))

	// la commande créée est effacée et le stock restitué
	require.Len(t, orders.created, 1)
	require.Len(t, orders.deleted, 1)
	assert.Equal(t, orders.created[0].ID, orders.deleted[0].ID)
	assert.Equal(t, 10, catalog.stock(p.ID.String()))
	assert.Equal(t, 0, broadcaster.count())
}

// Deux acheteurs sur la dernière unité : un seul gagne, le stock ne passe jamais sous zéro.
func TestCheckoutConcurrentLastUnit(t *testing.T) {
	p := phoneFixture("Collector", 999, 1)
	catalog := newFakeCatalog(p)
	coord, orders, _, broadcaster := newCoordinator(catalog)

	const buyers = 8
	var wg sync.WaitGroup
	results := make(chan error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := coord.Checkout(context.Background(), Request{
				UserID: "buyer",
				Items:  []Item{{PhoneID: p.ID.String(), Quantity: 1}},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, faults.IsKind(err, faults.KindInsufficientStock),
				"échec inattendu: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, catalog.stock(p.ID.String()))
	assert.Len(t, orders.created, 1)
	assert.Equal(t, 1, broadcaster.count())
}

// Épuisement progressif : la somme des unités vendues égale exactement le stock initial.
func TestCheckoutConcurrentExhaustion(t *testing.T) {
	const initialStock = 20
	p := phoneFixture("Stock limité", 100, initialStock)
	catalog := newFakeCatalog(p)
	coord, orders, _, _ := newCoordinator(catalog)

	const buyers = 30
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coord.Checkout(context.Background(), Request{
				UserID: "buyer",
				Items:  []Item{{PhoneID: p.ID.String(), Quantity: 2}},
			})
		}()
	}
	wg.Wait()

	sold := 0
	for _, o := range orders.created {
		for _, item := range o.Items {
			sold += item.Quantity
		}
	}
	assert.Equal(t, initialStock, sold+catalog.stock(p.ID.String()))
	assert.GreaterOrEqual(t, catalog.stock(p.ID.String()), 0)
}
