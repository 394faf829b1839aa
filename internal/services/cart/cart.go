package cart

import (
	"context"
	"math"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Catalog est la vue du store d'annonces dont le panier a besoin
type Catalog interface {
	GetLive(ctx context.Context, phoneID string) (*models.Phone, error)
}

// DocStore abstrait le document panier (implémentation Redis en production)
type DocStore interface {
	Load(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Clear(ctx context.Context, userID string) error
}

// Service est l'agrégat panier : un document par utilisateur,
// une ligne par téléphone, jamais de doublon de phone_id.
type Service struct {
	docs    DocStore
	catalog Catalog
}

func NewService(docs DocStore, catalog Catalog) *Service {
	return &Service{docs: docs, catalog: catalog}
}

// Get retourne le panier courant ; un panier absent est un panier vide
func (s *Service) Get(ctx context.Context, userID string) (*models.CartView, error) {
	items, err := s.docs.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID, items), nil
}

// SetItemQuantity remplace la quantité d'une ligne.
// quantity == 0 retire la ligne (no-op si absente, jamais une erreur).
// La vérification de stock est consultative : le stock est revalidé au checkout.
func (s *Service) SetItemQuantity(ctx context.Context, userID, phoneID string, quantity int) (*models.CartView, error) {
	if quantity < 0 {
		return nil, faults.Validation("quantité négative: %d", quantity)
	}
	if _, err := gocql.ParseUUID(phoneID); err != nil {
		return nil, faults.Validation("ID annonce invalide: %s", phoneID)
	}

	items, err := s.docs.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		next, removed := removeLine(items, phoneID)
		if !removed {
			// ligne absente : on renvoie le panier tel quel
			return s.view(ctx, userID, items), nil
		}
		if err := s.docs.Save(ctx, userID, next); err != nil {
			return nil, err
		}
		return s.view(ctx, userID, next), nil
	}

	phone, err := s.catalog.GetLive(ctx, phoneID)
	if err != nil {
		return nil, err
	}
	if quantity > phone.Stock {
		return nil, faults.InsufficientStock(phoneID, phone.Stock, quantity)
	}

	next := upsertLine(items, phoneID, quantity, false)
	if err := s.docs.Save(ctx, userID, next); err != nil {
		return nil, err
	}
	return s.view(ctx, userID, next), nil
}

// AddItem incrémente la ligne de `delta` unités, ou la crée.
// Utilisé par l'ajout panier classique et par le déplacement depuis la wishlist.
func (s *Service) AddItem(ctx context.Context, userID, phoneID string, delta int) (*models.CartView, error) {
	if delta < 1 {
		return nil, faults.Validation("quantité invalide: %d", delta)
	}
	if _, err := gocql.ParseUUID(phoneID); err != nil {
		return nil, faults.Validation("ID annonce invalide: %s", phoneID)
	}

	phone, err := s.catalog.GetLive(ctx, phoneID)
	if err != nil {
		return nil, err
	}
	if phone.Stock < 1 {
		return nil, faults.InsufficientStock(phoneID, phone.Stock, delta)
	}

	items, err := s.docs.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := upsertLine(items, phoneID, delta, true)
	if err := s.docs.Save(ctx, userID, next); err != nil {
		return nil, err
	}
	return s.view(ctx, userID, next), nil
}

// RemoveItem retire la ligne ; idempotent
func (s *Service) RemoveItem(ctx context.Context, userID, phoneID string) (*models.CartView, error) {
	items, err := s.docs.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, removed := removeLine(items, phoneID)
	if !removed {
		return s.view(ctx, userID, items), nil
	}
	if err := s.docs.Save(ctx, userID, next); err != nil {
		return nil, err
	}
	return s.view(ctx, userID, next), nil
}

// Clear vide le panier ; idempotent
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.docs.Clear(ctx, userID)
}

// view résout chaque ligne vers la projection d'affichage (jointure en lecture).
// Une annonce disparue ou désactivée reste listée avec un stock à zéro.
func (s *Service) view(ctx context.Context, userID string, items []models.CartItem) *models.CartView {
	view := &models.CartView{UserID: userID, Items: []models.CartItemView{}}
	for _, item := range items {
		line := models.CartItemView{PhoneID: item.PhoneID, Quantity: item.Quantity}
		if phone, err := s.catalog.GetLive(ctx, item.PhoneID); err == nil {
			line.Title = phone.Title
			line.Brand = phone.Brand
			line.Image = phone.Image
			line.Price = phone.Price
			line.Stock = phone.Stock
		}
		view.Items = append(view.Items, line)
		view.Total += roundCents(line.Price * float64(line.Quantity))
	}
	view.Total = roundCents(view.Total)
	return view
}

func upsertLine(items []models.CartItem, phoneID string, qty int, increment bool) []models.CartItem {
	next := make([]models.CartItem, len(items))
	copy(next, items)
	for i := range next {
		if next[i].PhoneID == phoneID {
			if increment {
				next[i].Quantity += qty
			} else {
				next[i].Quantity = qty
			}
			return next
		}
	}
	return append(next, models.CartItem{PhoneID: phoneID, Quantity: qty})
}

func removeLine(items []models.CartItem, phoneID string) ([]models.CartItem, bool) {
	next := []models.CartItem{}
	removed := false
	for _, item := range items {
		if item.PhoneID == phoneID {
			removed = true
			continue
		}
		next = append(next, item)
	}
	return next, removed
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
