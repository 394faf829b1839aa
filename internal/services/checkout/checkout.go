package checkout

import (
	"context"
	"log"
	"math"
	"time"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"
	"oldphonedeals_back_end/internal/realtime"

	"github.com/gocql/gocql"
)

// Catalog est la surface du store d'annonces utilisée par le checkout
type Catalog interface {
	GetLive(ctx context.Context, phoneID string) (*models.Phone, error)
	DecrementStock(ctx context.Context, phoneID string, amount int, orderID *gocql.UUID, userID string) error
	RestoreStock(ctx context.Context, phoneID string, amount int, orderID *gocql.UUID, userID string) error
}

// Orders est la surface du store de commandes utilisée par le checkout
type Orders interface {
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, order *models.Order) error
}

// Cart est la surface du panier utilisée par le checkout
type Cart interface {
	Clear(ctx context.Context, userID string) error
}

// Broadcaster diffuse l'événement de commande créée (best-effort)
type Broadcaster interface {
	Broadcast(event realtime.Event)
}

// Item est une ligne demandée à l'achat
type Item struct {
	PhoneID  string `json:"phone_id"`
	Quantity int    `json:"quantity"`
}

// Request est la demande d'achat : l'appelant fournit exactement ce qu'il
// achète, indépendamment du contenu courant du panier.
type Request struct {
	UserID        string
	Items         []Item
	PaymentMethod string
	Note          string
}

// Coordinator orchestre la transaction multi-documents du checkout :
// validation → contrôle de stock → commit (stock + commande + panier) → notification.
// Seul le commit exige l'atomicité ; tout échec avant laisse les stores intacts,
// tout échec pendant est compensé intégralement.
type Coordinator struct {
	catalog     Catalog
	orders      Orders
	cart        Cart
	broadcaster Broadcaster
}

func NewCoordinator(catalog Catalog, orders Orders, cart Cart, broadcaster Broadcaster) *Coordinator {
	return &Coordinator{catalog: catalog, orders: orders, cart: cart, broadcaster: broadcaster}
}

// Checkout exécute l'achat et retourne la commande créée (status=completed :
// pas de passerelle de paiement, donc pas de fenêtre pending).
func (c *Coordinator) Checkout(ctx context.Context, req Request) (*models.Order, error) {
	// --- Validation ---
	items, err := validate(req)
	if err != nil {
		return nil, err
	}

	// --- Contrôle de stock + snapshot des prix ---
	// Contrôle consultatif : la garantie réelle est portée par le décrément CAS.
	phones := make(map[string]*models.Phone, len(items))
	for _, item := range items {
		phone, err := c.catalog.GetLive(ctx, item.PhoneID)
		if err != nil {
			return nil, err
		}
		if phone.Stock < item.Quantity {
			return nil, faults.InsufficientStock(item.PhoneID, phone.Stock, item.Quantity)
		}
		phones[item.PhoneID] = phone
	}

	orderID := gocql.TimeUUID()
	order := &models.Order{
		ID:            orderID,
		UserID:        req.UserID,
		Status:        models.OrderStatusCompleted,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		CreatedAt:     time.Now(),
	}
	for _, item := range items {
		phone := phones[item.PhoneID]
		line := roundCents(phone.Price * float64(item.Quantity))
		order.Items = append(order.Items, models.OrderItem{
			PhoneID:  item.PhoneID,
			Title:    phone.Title,
			Quantity: item.Quantity,
			Price:    phone.Price,
		})
		order.Total = roundCents(order.Total + line)
	}

	// --- Commit ---
	decremented := []Item{}
	for _, item := range items {
		if err := c.catalog.DecrementStock(ctx, item.PhoneID, item.Quantity, &orderID, req.UserID); err != nil {
			c.compensateStock(ctx, decremented, &orderID, req.UserID)
			return nil, err
		}
		decremented = append(decremented, item)
	}

	if err := c.orders.Create(ctx, order); err != nil {
		c.compensateStock(ctx, decremented, &orderID, req.UserID)
		return nil, err
	}

	if err := c.cart.Clear(ctx, req.UserID); err != nil {
		if delErr := c.orders.Delete(ctx, order); delErr != nil {
			log.Printf("❌ Suppression commande %s impossible pendant la compensation: %v", orderID, delErr)
		}
		c.compensateStock(ctx, decremented, &orderID, req.UserID)
		return nil, faults.Transaction("échec vidage panier, achat annulé")
	}

	// --- Notification (best-effort, jamais bloquante pour l'achat) ---
	c.broadcaster.Broadcast(realtime.Event{Type: realtime.EventNewOrder, Data: order})

	log.Printf("🛒 Commande %s créée pour %s (%.2f€, %d lignes)",
		orderID, req.UserID, order.Total, len(order.Items))
	return order, nil
}

// compensateStock restitue toutes les unités déjà décrémentées
func (c *Coordinator) compensateStock(ctx context.Context, decremented []Item, orderID *gocql.UUID, userID string) {
	for _, item := range decremented {
		if err := c.catalog.RestoreStock(ctx, item.PhoneID, item.Quantity, orderID, userID); err != nil {
			log.Printf("❌ Restitution de %d unités impossible pour %s: %v", item.Quantity, item.PhoneID, err)
		}
	}
}

// validate contrôle la forme de la demande et fusionne les doublons de phone_id
func validate(req Request) ([]Item, error) {
	if req.UserID == "" {
		return nil, faults.Validation("utilisateur requis")
	}
	if len(req.Items) == 0 {
		return nil, faults.Validation("aucun article demandé")
	}
	if req.PaymentMethod != "" && !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, faults.Validation("moyen de paiement inconnu: %s", req.PaymentMethod)
	}

	merged := []Item{}
	index := map[string]int{}
	for _, item := range req.Items {
		if _, err := gocql.ParseUUID(item.PhoneID); err != nil {
			return nil, faults.Validation("ID annonce invalide: %s", item.PhoneID)
		}
		if item.Quantity < 1 {
			return nil, faults.Validation("quantité invalide pour %s: %d", item.PhoneID, item.Quantity)
		}
		if i, seen := index[item.PhoneID]; seen {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.PhoneID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
