package wishlist

import (
	"context"
	"log"

	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Catalog est la vue du store d'annonces dont la wishlist a besoin
type Catalog interface {
	GetLive(ctx context.Context, phoneID string) (*models.Phone, error)
}

// Cart est la surface du panier utilisée par le déplacement wishlist → panier
type Cart interface {
	Get(ctx context.Context, userID string) (*models.CartView, error)
	AddItem(ctx context.Context, userID, phoneID string, delta int) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, phoneID string) (*models.CartView, error)
}

// Repo abstrait la persistance de la wishlist (implémentation Scylla en production)
type Repo interface {
	List(ctx context.Context, userID string) ([]string, error)
	Contains(ctx context.Context, userID, phoneID string) (bool, error)
	Add(ctx context.Context, userID, phoneID string) error
	Remove(ctx context.Context, userID, phoneID string) error
}

// Service est l'agrégat wishlist : un ensemble de phone_id par utilisateur, sans quantité
type Service struct {
	repo    Repo
	cart    Cart
	catalog Catalog
}

func NewService(repo Repo, cart Cart, catalog Catalog) *Service {
	return &Service{repo: repo, cart: cart, catalog: catalog}
}

// Get retourne la wishlist résolue en projections d'annonces (création à la lecture)
func (s *Service) Get(ctx context.Context, userID string) (*models.Wishlist, error) {
	phoneIDs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	wl := &models.Wishlist{UserID: userID, Items: []models.PhoneSummary{}}
	for _, id := range phoneIDs {
		phone, err := s.catalog.GetLive(ctx, id)
		if err != nil {
			// annonce désactivée ou disparue : on ne l'affiche plus
			continue
		}
		wl.Items = append(wl.Items, phone.Summary())
	}
	return wl, nil
}

// Add ajoute une annonce ; refuse les doublons
func (s *Service) Add(ctx context.Context, userID, phoneID string) error {
	if _, err := gocql.ParseUUID(phoneID); err != nil {
		return faults.Validation("ID annonce invalide: %s", phoneID)
	}

	if _, err := s.catalog.GetLive(ctx, phoneID); err != nil {
		return err
	}

	present, err := s.repo.Contains(ctx, userID, phoneID)
	if err != nil {
		return err
	}
	if present {
		return faults.DuplicateItem(phoneID)
	}

	return s.repo.Add(ctx, userID, phoneID)
}

// Remove retire une annonce ; idempotent
func (s *Service) Remove(ctx context.Context, userID, phoneID string) error {
	if _, err := gocql.ParseUUID(phoneID); err != nil {
		return faults.Validation("ID annonce invalide: %s", phoneID)
	}
	return s.repo.Remove(ctx, userID, phoneID)
}

// MoveToCart déplace une annonce de la wishlist vers le panier (incrément de 1).
// Tout-ou-rien : si le retrait wishlist échoue après la mutation panier,
// le panier est remis dans son état précédent — l'article ne peut jamais
// être perdu des deux côtés, ni présent des deux côtés après succès.
func (s *Service) MoveToCart(ctx context.Context, userID, phoneID string) (*models.CartView, error) {
	if _, err := gocql.ParseUUID(phoneID); err != nil {
		return nil, faults.Validation("ID annonce invalide: %s", phoneID)
	}

	present, err := s.repo.Contains(ctx, userID, phoneID)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, faults.NotFound(phoneID)
	}

	phone, err := s.catalog.GetLive(ctx, phoneID)
	if err != nil {
		return nil, err
	}
	if phone.Stock < 1 {
		return nil, faults.InsufficientStock(phoneID, phone.Stock, 1)
	}

	// quantité précédente, pour pouvoir compenser
	prevQty := 0
	if current, err := s.cart.Get(ctx, userID); err == nil {
		for _, line := range current.Items {
			if line.PhoneID == phoneID {
				prevQty = line.Quantity
				break
			}
		}
	}

	view, err := s.cart.AddItem(ctx, userID, phoneID, 1)
	if err != nil {
		// le panier n'a pas bougé, l'article reste dans la wishlist
		return nil, err
	}

	if err := s.repo.Remove(ctx, userID, phoneID); err != nil {
		// compensation : on repasse par les opérations publiques du panier
		if _, rbErr := s.cart.RemoveItem(ctx, userID, phoneID); rbErr != nil {
			log.Printf("❌ Compensation panier impossible pour %s/%s: %v", userID, phoneID, rbErr)
		} else if prevQty > 0 {
			if _, rbErr := s.cart.AddItem(ctx, userID, phoneID, prevQty); rbErr != nil {
				log.Printf("❌ Restauration quantité panier impossible pour %s/%s: %v", userID, phoneID, rbErr)
			}
		}
		return nil, err
	}

	return view, nil
}
