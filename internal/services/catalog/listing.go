package catalog

import (
	"context"
	"log"
	"strings"
	"time"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Create insère une nouvelle annonce pour un vendeur
func (s *Store) Create(ctx context.Context, sellerID, title, brand, image string, price float64, stock int) (*models.Phone, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, faults.Validation("titre requis")
	}
	if price < 0 {
		return nil, faults.Validation("prix négatif")
	}
	if stock < 0 {
		return nil, faults.Validation("stock négatif")
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return nil, faults.Transaction("connexion base annonces indisponible")
	}

	now := time.Now()
	p := models.Phone{
		ID:        gocql.TimeUUID(),
		Title:     title,
		Brand:     brand,
		Image:     image,
		Price:     price,
		Stock:     stock,
		SellerID:  sellerID,
		Disabled:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = session.Query(`
		INSERT INTO phones (phone_id, title, brand, image, price, stock, seller_id, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Brand, p.Image, p.Price, p.Stock, p.SellerID, p.Disabled, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return nil, faults.Transaction("erreur création annonce")
	}

	return &p, nil
}

// Update modifie les champs éditables d'une annonce (jamais le stock : voir DecrementStock)
func (s *Store) Update(ctx context.Context, phoneID, title, brand, image string, price float64) (*models.Phone, error) {
	p, err := s.GetByID(ctx, phoneID)
	if err != nil {
		return nil, err
	}
	if title = strings.TrimSpace(title); title != "" {
		p.Title = title
	}
	if brand != "" {
		p.Brand = brand
	}
	if image != "" {
		p.Image = image
	}
	if price >= 0 {
		p.Price = price
	}
	p.UpdatedAt = time.Now()

	session, err := database.GetPhonesSession()
	if err != nil {
		return nil, faults.Transaction("connexion base annonces indisponible")
	}

	err = session.Query(`
		UPDATE phones SET title = ?, brand = ?, image = ?, price = ?, updated_at = ?
		WHERE phone_id = ?
	`, p.Title, p.Brand, p.Image, p.Price, p.UpdatedAt, p.ID).WithContext(ctx).Exec()
	if err != nil {
		return nil, faults.Transaction("erreur mise à jour annonce")
	}

	return p, nil
}

// SetDisabled pose ou retire la pierre tombale d'une annonce.
// On ne supprime jamais une annonce : les commandes passées la référencent.
func (s *Store) SetDisabled(ctx context.Context, phoneID string, disabled bool) error {
	if _, err := s.GetByID(ctx, phoneID); err != nil {
		return err
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return faults.Transaction("connexion base annonces indisponible")
	}

	err = session.Query("UPDATE phones SET disabled = ?, updated_at = ? WHERE phone_id = ?",
		disabled, time.Now(), mustUUID(phoneID)).WithContext(ctx).Exec()
	if err != nil {
		return faults.Transaction("erreur changement de visibilité annonce")
	}

	return nil
}

// AdjustStock fixe le stock à une valeur absolue (restock vendeur/admin).
// Même boucle LWT que DecrementStock : un checkout concurrent qui gagne la
// course force une relecture, et le mouvement journalisé reflète toujours
// le stock réellement remplacé.
func (s *Store) AdjustStock(ctx context.Context, phoneID string, newStock int, userID string) error {
	if newStock < 0 {
		return faults.Validation("le stock ne peut pas être négatif")
	}

	p, err := s.GetByID(ctx, phoneID)
	if err != nil {
		return err
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return faults.Transaction("connexion base annonces indisponible")
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var stock int
		err := session.Query("SELECT stock FROM phones WHERE phone_id = ?", p.ID).
			WithContext(ctx).Scan(&stock)
		if err != nil {
			return faults.NotFound(phoneID)
		}

		var prevStock int
		applied, err := session.Query(`
			UPDATE phones SET stock = ?, updated_at = ? WHERE phone_id = ? IF stock = ?
		`, newStock, time.Now(), p.ID, stock).WithContext(ctx).ScanCAS(&prevStock)
		if err != nil {
			return faults.Transaction("erreur ajustement stock")
		}
		if applied {
			s.recordMovement(ctx, session, p.ID, "adjustment", newStock-stock, stock, newStock, nil, userID)
			return nil
		}
	}

	log.Printf("⚠️ Ajustement stock abandonné après %d tentatives pour %s", maxCASRetries, phoneID)
	return faults.Transaction("conflit de stock persistant, réessayez")
}

// ListAll retourne les annonces (feed admin / indexation), bornée par limit
func (s *Store) ListAll(ctx context.Context, limit int) ([]models.Phone, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	session, err := database.GetPhonesSession()
	if err != nil {
		return nil, faults.Transaction("connexion base annonces indisponible")
	}

	iter := session.Query(`
		SELECT phone_id, title, brand, image, price, stock, seller_id, disabled, created_at, updated_at
		FROM phones LIMIT ?
	`, limit).WithContext(ctx).Iter()

	phones := []models.Phone{}
	var p models.Phone
	for iter.Scan(&p.ID, &p.Title, &p.Brand, &p.Image, &p.Price, &p.Stock,
		&p.SellerID, &p.Disabled, &p.CreatedAt, &p.UpdatedAt) {
		phones = append(phones, p)
	}
	if err := iter.Close(); err != nil {
		return nil, faults.Transaction("erreur lecture annonces")
	}

	return phones, nil
}

func mustUUID(s string) gocql.UUID {
	uid, _ := gocql.ParseUUID(s)
	return uid
}
