package orders

import (
	"context"
	"encoding/json"
	"log"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Store persiste les commandes en double écriture :
// orders_by_user ((user_id), created_at DESC, order_id) pour l'historique,
// orders_by_id (order_id) pour l'accès direct. Les items sont un snapshot JSON.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Create insère la commande dans les deux tables.
// Si la deuxième écriture échoue, la première est effacée : jamais de commande à moitié visible.
func (s *Store) Create(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return faults.Transaction("connexion base commandes indisponible")
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return faults.Transaction("erreur sérialisation items commande")
	}

	err = session.Query(`
		INSERT INTO orders_by_user (user_id, created_at, order_id, items, total, status, payment_method, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, order.UserID, order.CreatedAt, order.ID, string(itemsJSON), order.Total,
		order.Status, order.PaymentMethod, order.Note).WithContext(ctx).Exec()
	if err != nil {
		return faults.Transaction("erreur création commande")
	}

	err = session.Query(`
		INSERT INTO orders_by_id (order_id, user_id, created_at, items, total, status, payment_method, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, order.ID, order.UserID, order.CreatedAt, string(itemsJSON), order.Total,
		order.Status, order.PaymentMethod, order.Note).WithContext(ctx).Exec()
	if err != nil {
		// rattrapage : on efface la ligne historique pour rester cohérent
		if delErr := session.Query(
			"DELETE FROM orders_by_user WHERE user_id = ? AND created_at = ? AND order_id = ?",
			order.UserID, order.CreatedAt, order.ID).WithContext(ctx).Exec(); delErr != nil {
			log.Printf("❌ Nettoyage orders_by_user impossible pour %s: %v", order.ID, delErr)
		}
		return faults.Transaction("erreur création index commande")
	}

	return nil
}

// Delete efface une commande des deux tables (compensation de checkout uniquement)
func (s *Store) Delete(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return faults.Transaction("connexion base commandes indisponible")
	}

	if err := session.Query("DELETE FROM orders_by_id WHERE order_id = ?", order.ID).
		WithContext(ctx).Exec(); err != nil {
		return faults.Transaction("erreur suppression commande")
	}
	if err := session.Query(
		"DELETE FROM orders_by_user WHERE user_id = ? AND created_at = ? AND order_id = ?",
		order.UserID, order.CreatedAt, order.ID).WithContext(ctx).Exec(); err != nil {
		return faults.Transaction("erreur suppression historique commande")
	}

	return nil
}

// GetByID retourne une commande par identifiant
func (s *Store) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	uid, err := gocql.ParseUUID(orderID)
	if err != nil {
		return nil, faults.Validation("ID commande invalide: %s", orderID)
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, faults.Transaction("connexion base commandes indisponible")
	}

	var o models.Order
	var itemsJSON string
	err = session.Query(`
		SELECT order_id, user_id, created_at, items, total, status, payment_method, note
		FROM orders_by_id WHERE order_id = ?
	`, uid).WithContext(ctx).Scan(
		&o.ID, &o.UserID, &o.CreatedAt, &itemsJSON, &o.Total, &o.Status, &o.PaymentMethod, &o.Note,
	)
	if err != nil {
		return nil, faults.NotFound(orderID)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, faults.Transaction("snapshot items corrompu")
	}
	return &o, nil
}

// ListByUser retourne l'historique de commandes, plus récentes en premier
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, faults.Transaction("connexion base commandes indisponible")
	}

	iter := session.Query(`
		SELECT order_id, user_id, created_at, items, total, status, payment_method, note
		FROM orders_by_user WHERE user_id = ?
	`, userID).WithContext(ctx).Iter()

	return scanOrders(iter)
}

// ListAll retourne les commandes pour la modération admin, bornée par limit
func (s *Store) ListAll(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, faults.Transaction("connexion base commandes indisponible")
	}

	iter := session.Query(`
		SELECT order_id, user_id, created_at, items, total, status, payment_method, note
		FROM orders_by_id LIMIT ?
	`, limit).WithContext(ctx).Iter()

	return scanOrders(iter)
}

// UpdateStatus applique une transition de statut admin.
// Aucune contrainte de transition : pending/completed/cancelled sont librement permutables.
func (s *Store) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, faults.Validation("statut inconnu: %s", status)
	}

	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, faults.Transaction("connexion base commandes indisponible")
	}

	if err := session.Query("UPDATE orders_by_id SET status = ? WHERE order_id = ?",
		status, order.ID).WithContext(ctx).Exec(); err != nil {
		return nil, faults.Transaction("erreur mise à jour statut")
	}
	if err := session.Query(
		"UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?",
		status, order.UserID, order.CreatedAt, order.ID).WithContext(ctx).Exec(); err != nil {
		return nil, faults.Transaction("erreur mise à jour historique statut")
	}

	order.Status = status
	return order, nil
}

func scanOrders(iter *gocql.Iter) ([]models.Order, error) {
	orders := []models.Order{}
	var o models.Order
	var itemsJSON string
	for iter.Scan(&o.ID, &o.UserID, &o.CreatedAt, &itemsJSON, &o.Total, &o.Status, &o.PaymentMethod, &o.Note) {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			log.Printf("⚠️ Snapshot items corrompu pour %s, commande ignorée", o.ID)
			continue
		}
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, faults.Transaction("erreur lecture commandes")
	}
	return orders, nil
}
