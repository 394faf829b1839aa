package cart

import (
	"context"
	"testing"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type memDocStore struct {
	docs  map[string][]models.CartItem
	saves int
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: map[string][]models.CartItem{}}
}

func (m *memDocStore) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	return m.docs[userID], nil
}

func (m *memDocStore) Save(ctx context.Context, userID string, items []models.CartItem) error {
	m.saves++
	m.docs[userID] = items
	return nil
}

func (m *memDocStore) Clear(ctx context.Context, userID string) error {
	delete(m.docs, userID)
	return nil
}

type memCatalog struct {
	phones map[string]*models.Phone
}

func (m *memCatalog) GetLive(ctx context.Context, phoneID string) (*models.Phone, error) {
	p, ok := m.phones[phoneID]
	if !ok || p.Disabled {
		return nil, faults.NotFound(phoneID)
	}
	return p, nil
}

func fixture(t *testing.T) (*Service, *memDocStore, *models.Phone, *models.Phone) {
	t.Helper()
	p1 := &models.Phone{ID: gocql.TimeUUID(), Title: "iPhone 12", Brand: "Apple", Price: 399.99, Stock: 5}
	p2 := &models.Phone{ID: gocql.TimeUUID(), Title: "Galaxy S21", Brand: "Samsung", Price: 299.50, Stock: 2}
	docs := newMemDocStore()
	svc := NewService(docs, &memCatalog{phones: map[string]*models.Phone{
		p1.ID.String(): p1,
		p2.ID.String(): p2,
	}})
	return svc, docs, p1, p2
}

// --- Tests ---

func TestGetEmptyCartIsNotAnError(t *testing.T) {
	svc, _, _, _ := fixture(t)

	view, err := svc.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.UserID)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)
}

func TestAddItemCreatesThenIncrements(t *testing.T) {
	svc, _, p1, _ := fixture(t)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)

	view, err = svc.AddItem(ctx, "alice", p1.ID.String(), 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1, "jamais deux lignes pour le même téléphone")
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.InDelta(t, 3*399.99, view.Total, 0.001)
}

func TestSetItemQuantityReplaces(t *testing.T) {
	svc, _, p1, _ := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 2)
	require.NoError(t, err)

	view, err := svc.SetItemQuantity(ctx, "alice", p1.ID.String(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestSetItemQuantityZeroRemovesLine(t *testing.T) {
	svc, _, p1, _ := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 2)
	require.NoError(t, err)

	view, err := svc.SetItemQuantity(ctx, "alice", p1.ID.String(), 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestSetItemQuantityZeroOnAbsentLineIsNoOp(t *testing.T) {
	svc, docs, p1, p2 := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.NoError(t, err)
	savesBefore := docs.saves

	// quantité 0 sur une ligne absente : pas une erreur, panier inchangé
	view, err := svc.SetItemQuantity(ctx, "alice", p2.ID.String(), 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, p1.ID.String(), view.Items[0].PhoneID)
	assert.Equal(t, savesBefore, docs.saves, "aucune écriture pour un no-op")
}

func TestSetItemQuantityRejectsNegative(t *testing.T) {
	svc, _, p1, _ := fixture(t)

	_, err := svc.SetItemQuantity(context.Background(), "alice", p1.ID.String(), -1)
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindValidation))
}

func TestSetItemQuantityAdvisoryStockCheck(t *testing.T) {
	svc, _, _, p2 := fixture(t)

	// p2 n'a que 2 unités
	_, err := svc.SetItemQuantity(context.Background(), "alice", p2.ID.String(), 3)
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindInsufficientStock))
}

func TestAddItemRejectsUnknownOrDisabled(t *testing.T) {
	svc, _, p1, _ := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", gocql.TimeUUID().String(), 1)
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))

	p1.Disabled = true
	_, err = svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, _, p1, _ := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, "alice", p1.ID.String())
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// deuxième retrait : toujours pas une erreur
	view, err = svc.RemoveItem(ctx, "alice", p1.ID.String())
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestClearThenGetReturnsEmptyCart(t *testing.T) {
	svc, _, p1, p2 := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "alice", p2.ID.String(), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "alice"))

	view, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestViewKeepsLineWhenListingDies(t *testing.T) {
	svc, _, p1, p2 := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "alice", p2.ID.String(), 2)
	require.NoError(t, err)

	// l'annonce est retirée après coup : la ligne reste, projetée à zéro
	p2.Disabled = true

	view, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	var dead models.CartItemView
	for _, line := range view.Items {
		if line.PhoneID == p2.ID.String() {
			dead = line
		}
	}
	assert.Equal(t, 2, dead.Quantity)
	assert.Zero(t, dead.Price)
	assert.Zero(t, dead.Stock)
	assert.Empty(t, dead.Title)
	assert.InDelta(t, 399.99, view.Total, 0.001, "le total ignore la ligne morte")
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc, _, p1, p2 := fixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", p1.ID.String(), 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "bob", p2.ID.String(), 2)
	require.NoError(t, err)

	aliceView, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	bobView, err := svc.Get(ctx, "bob")
	require.NoError(t, err)

	require.Len(t, aliceView.Items, 1)
	require.Len(t, bobView.Items, 1)
	assert.Equal(t, p1.ID.String(), aliceView.Items[0].PhoneID)
	assert.Equal(t, p2.ID.String(), bobView.Items[0].PhoneID)
}
