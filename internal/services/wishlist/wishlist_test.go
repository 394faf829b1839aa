package wishlist

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

type memRepo struct {
	sets       map[string]map[string]bool
	failRemove bool
}

func newMemRepo() *memRepo {
	return &memRepo{sets: map[string]map[string]bool{}}
}

func (m *memRepo) List(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	for id := range m.sets[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memRepo) Contains(ctx context.Context, userID, phoneID string) (bool, error) {
	return m.sets[userID][phoneID], nil
}

func (m *memRepo) Add(ctx context.Context, userID, phoneID string) error {
	if m.sets[userID] == nil {
		m.sets[userID] = map[string]bool{}
	}
	m.sets[userID][phoneID] = true
	return nil
}

func (m *memRepo) Remove(ctx context.Context, userID, phoneID string) error {
	if m.failRemove {
		return faults.Transaction("retrait wishlist forcé en échec")
	}
	delete(m.sets[userID], phoneID)
	return nil
}

// memCart reproduit la sémantique d'agrégat du vrai panier : une ligne par téléphone
type memCart struct {
	lines   map[string]map[string]int // userID → phoneID → quantité
	catalog *memCatalog
}

func newMemCart(catalog *memCatalog) *memCart {
	return &memCart{lines: map[string]map[string]int{}, catalog: catalog}
}

func (m *memCart) Get(ctx context.Context, userID string) (*models.CartView, error) {
	view := &models.CartView{UserID: userID, Items: []models.CartItemView{}}
	for id, qty := range m.lines[userID] {
		view.Items = append(view.Items, models.CartItemView{PhoneID: id, Quantity: qty})
	}
	return view, nil
}

func (m *memCart) AddItem(ctx context.Context, userID, phoneID string, delta int) (*models.CartView, error) {
	if _, err := m.catalog.GetLive(ctx, phoneID); err != nil {
		return nil, err
	}
	if m.lines[userID] == nil {
		m.lines[userID] = map[string]int{}
	}
	m.lines[userID][phoneID] += delta
	return m.Get(ctx, userID)
}

func (m *memCart) RemoveItem(ctx context.Context, userID, phoneID string) (*models.CartView, error) {
	delete(m.lines[userID], phoneID)
	return m.Get(ctx, userID)
}

func (m *memCart) quantity(userID, phoneID string) int {
	return m.lines[userID][phoneID]
}

func fixture(t *testing.T) (*Service, *memRepo, *memCart, *models.Phone) {
	t.Helper()
	p := &models.Phone{ID: gocql.TimeUUID(), Title: "iPhone 12", Brand: "Apple", Price: 399.99, Stock: 3}
	catalog := &memCatalog{phones: map[string]*models.Phone{p.ID.String(): p}}
	repo := newMemRepo()
	cart := newMemCart(catalog)
	return NewService(repo, cart, catalog), repo, cart, p
}

// --- Tests ---

func TestAddRejectsDuplicates(t *testing.T) {
	svc, _, _, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))

	err := svc.Add(ctx, "alice", p.ID.String())
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindDuplicateItem))
}

func TestAddRejectsDeadListing(t *testing.T) {
	svc, _, _, p := fixture(t)
	p.Disabled = true

	err := svc.Add(context.Background(), "alice", p.ID.String())
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, _, _, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))
	require.NoError(t, svc.Remove(ctx, "alice", p.ID.String()))
	require.NoError(t, svc.Remove(ctx, "alice", p.ID.String()), "retrait d'un absent : pas une erreur")
}

func TestGetSkipsDeadListings(t *testing.T) {
	svc, _, _, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))
	p.Disabled = true

	wl, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

func TestMoveToCartHappyPath(t *testing.T) {
	svc, repo, cart, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))

	view, err := svc.MoveToCart(ctx, "alice", p.ID.String())
	require.NoError(t, err)

	// présent dans le panier, absent de la wishlist
	assert.Equal(t, 1, cart.quantity("alice", p.ID.String()))
	present, _ := repo.Contains(ctx, "alice", p.ID.String())
	assert.False(t, present)
	require.Len(t, view.Items, 1)
}

func TestMoveToCartIncrementsExistingLine(t *testing.T) {
	svc, _, cart, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))
	_, err := cart.AddItem(ctx, "alice", p.ID.String(), 2)
	require.NoError(t, err)

	_, err = svc.MoveToCart(ctx, "alice", p.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 3, cart.quantity("alice", p.ID.String()))
}

func TestMoveToCartRequiresWishlistMembership(t *testing.T) {
	svc, _, _, p := fixture(t)

	_, err := svc.MoveToCart(context.Background(), "alice", p.ID.String())
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestMoveToCartRequiresStock(t *testing.T) {
	svc, repo, cart, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))
	p.Stock = 0

	_, err := svc.MoveToCart(ctx, "alice", p.ID.String())
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.KindInsufficientStock))

	// rien n'a bougé d'aucun côté
	present, _ := repo.Contains(ctx, "alice", p.ID.String())
	assert.True(t, present)
	assert.Zero(t, cart.quantity("alice", p.ID.String()))
}

// Si le retrait wishlist échoue après la mutation panier, le panier est remis
// dans son état précédent : l'article ne peut pas exister des deux côtés.
func TestMoveToCartCompensatesCartOnRepoFailure(t *testing.T) {
	svc, repo, cart, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))
	repo.failRemove = true

	_, err := svc.MoveToCart(ctx, "alice", p.ID.String())
	require.Error(t, err)

	present, _ := repo.Contains(ctx, "alice", p.ID.String())
	assert.True(t, present, "l'article reste dans la wishlist")
	assert.Zero(t, cart.quantity("alice", p.ID.String()), "le panier est revenu à son état initial")
}

func TestMoveToCartCompensationRestoresPreviousQuantity(t *testing.T) {
	svc, repo, cart, p := fixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice", p.ID.String()))
	_, err := cart.AddItem(ctx, "alice", p.ID.String(), 2)
	require.NoError(t, err)
	repo.failRemove = true

	_, err = svc.MoveToCart(ctx, "alice", p.ID.String())
	require.Error(t, err)

	present, _ := repo.Contains(ctx, "alice", p.ID.String())
	assert.True(t, present)
	assert.Equal(t, 2, cart.quantity("alice", p.ID.String()), "la quantité d'avant le déplacement est restaurée")
}
