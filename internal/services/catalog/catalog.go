package catalog

import (
	"context"
	"log"
	"time"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Nombre de tentatives CAS avant d'abandonner un décrément de stock.
// Le stock est la seule ressource partagée mutée hors de son agrégat :
// la mise à jour passe toujours par un LWT, jamais par un read-then-write.
const maxCASRetries = 5

// Store expose les annonces téléphone et le décrément atomique de stock
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) GetByID(ctx context.Context, phoneID string) (*models.Phone, error) {
	uid, err := gocql.ParseUUID(phoneID)
	if err != nil {
		return nil, faults.Validation("ID annonce invalide: %s", phoneID)
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return nil, faults.Transaction("connexion base annonces indisponible")
	}

	var p models.Phone
	err = session.Query(`
		SELECT phone_id, title, brand, image, price, stock, seller_id, disabled, created_at, updated_at
		FROM phones WHERE phone_id = ?
	`, uid).WithContext(ctx).Scan(
		&p.ID, &p.Title, &p.Brand, &p.Image, &p.Price, &p.Stock,
		&p.SellerID, &p.Disabled, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, faults.NotFound(phoneID)
	}

	return &p, nil
}

// GetLive retourne l'annonce uniquement si elle n'est pas désactivée
func (s *Store) GetLive(ctx context.Context, phoneID string) (*models.Phone, error) {
	p, err := s.GetByID(ctx, phoneID)
	if err != nil {
		return nil, err
	}
	if p.Disabled {
		return nil, faults.NotFound(phoneID)
	}
	return p, nil
}

// DecrementStock soustrait atomiquement `amount` unités du stock.
// Boucle CAS : relit le stock puis applique `UPDATE … IF stock = ?` ;
// un checkout concurrent qui a gagné la course force une relecture.
func (s *Store) DecrementStock(ctx context.Context, phoneID string, amount int, orderID *gocql.UUID, userID string) error {
	if amount <= 0 {
		return faults.Validation("quantité de décrément invalide: %d", amount)
	}

	uid, err := gocql.ParseUUID(phoneID)
	if err != nil {
		return faults.Validation("ID annonce invalide: %s", phoneID)
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return faults.Transaction("connexion base annonces indisponible")
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var stock int
		var disabled bool
		err := session.Query("SELECT stock, disabled FROM phones WHERE phone_id = ?", uid).
			WithContext(ctx).Scan(&stock, &disabled)
		if err != nil {
			return faults.NotFound(phoneID)
		}
		if disabled {
			return faults.NotFound(phoneID)
		}
		if stock < amount {
			return faults.InsufficientStock(phoneID, stock, amount)
		}

		var prevStock int
		applied, err := session.Query(`
			UPDATE phones SET stock = ?, updated_at = ? WHERE phone_id = ? IF stock = ?
		`, stock-amount, time.Now(), uid, stock).WithContext(ctx).ScanCAS(&prevStock)
		if err != nil {
			return faults.Transaction("échec LWT décrément stock")
		}
		if applied {
			s.recordMovement(ctx, session, uid, "sale", amount, stock, stock-amount, orderID, userID)
			return nil
		}
		// CAS perdu : un autre checkout a modifié le stock, on relit
	}

	log.Printf("⚠️ Décrément stock abandonné après %d tentatives pour %s", maxCASRetries, phoneID)
	return faults.Transaction("conflit de stock persistant, réessayez")
}

// RestoreStock restitue des unités (compensation de checkout avorté).
// Même boucle CAS, sans plancher : on ne fait qu'ajouter.
func (s *Store) RestoreStock(ctx context.Context, phoneID string, amount int, orderID *gocql.UUID, userID string) error {
	if amount <= 0 {
		return faults.Validation("quantité de restitution invalide: %d", amount)
	}

	uid, err := gocql.ParseUUID(phoneID)
	if err != nil {
		return faults.Validation("ID annonce invalide: %s", phoneID)
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return faults.Transaction("connexion base annonces indisponible")
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var stock int
		err := session.Query("SELECT stock FROM phones WHERE phone_id = ?", uid).
			WithContext(ctx).Scan(&stock)
		if err != nil {
			return faults.NotFound(phoneID)
		}

		var prevStock int
		applied, err := session.Query(`
			UPDATE phones SET stock = ?, updated_at = ? WHERE phone_id = ? IF stock = ?
		`, stock+amount, time.Now(), uid, stock).WithContext(ctx).ScanCAS(&prevStock)
		if err != nil {
			return faults.Transaction("échec LWT restitution stock")
		}
		if applied {
			s.recordMovement(ctx, session, uid, "compensation", amount, stock, stock+amount, orderID, userID)
			return nil
		}
	}

	log.Printf("❌ Restitution stock abandonnée après %d tentatives pour %s", maxCASRetries, phoneID)
	return faults.Transaction("conflit de stock persistant pendant la compensation")
}

// ListBySeller retourne toutes les annonces d'un vendeur (actives ou non)
func (s *Store) ListBySeller(ctx context.Context, sellerID string) ([]models.Phone, error) {
	session, err := database.GetPhonesSession()
	if err != nil {
		return nil, faults.Transaction("connexion base annonces indisponible")
	}

	iter := session.Query(`
		SELECT phone_id, title, brand, image, price, stock, seller_id, disabled, created_at, updated_at
		FROM phones WHERE seller_id = ? ALLOW FILTERING
	`, sellerID).WithContext(ctx).Iter()

	phones := []models.Phone{}
	var p models.Phone
	for iter.Scan(&p.ID, &p.Title, &p.Brand, &p.Image, &p.Price, &p.Stock,
		&p.SellerID, &p.Disabled, &p.CreatedAt, &p.UpdatedAt) {
		phones = append(phones, p)
	}
	if err := iter.Close(); err != nil {
		return nil, faults.Transaction("erreur lecture annonces vendeur")
	}

	return phones, nil
}

// recordMovement trace le mouvement de stock ; best-effort, jamais bloquant
func (s *Store) recordMovement(ctx context.Context, session *gocql.Session, phoneID gocql.UUID,
	movType string, qty, prev, next int, orderID *gocql.UUID, userID string) {

	err := session.Query(`
		INSERT INTO stock_movements (id, phone_id, type, quantity, prev_stock, new_stock, order_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, gocql.TimeUUID(), phoneID, movType, qty, prev, next, orderID, userID, time.Now()).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("⚠️ Erreur enregistrement mouvement stock: %v", err)
	}
}
