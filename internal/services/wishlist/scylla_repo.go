package wishlist

import (
	"context"
	"time"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/faults"

	"github.com/gocql/gocql"
)

// ScyllaRepo persiste la wishlist dans ks_users.wishlist ((user_id), phone_id).
// Les écritures invalident le cache Redis de la vue résolue.
type ScyllaRepo struct{}

func NewScyllaRepo() *ScyllaRepo {
	return &ScyllaRepo{}
}

func cacheKey(userID string) string {
	return "wishlist:" + userID
}

func (r *ScyllaRepo) List(ctx context.Context, userID string) ([]string, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, faults.Transaction("connexion base utilisateurs indisponible")
	}

	iter := session.Query("SELECT phone_id FROM wishlist WHERE user_id = ?", userID).
		WithContext(ctx).Iter()

	ids := []string{}
	var phoneID gocql.UUID
	for iter.Scan(&phoneID) {
		ids = append(ids, phoneID.String())
	}
	if err := iter.Close(); err != nil {
		return nil, faults.Transaction("erreur lecture wishlist")
	}

	return ids, nil
}

func (r *ScyllaRepo) Contains(ctx context.Context, userID, phoneID string) (bool, error) {
	uid, err := gocql.ParseUUID(phoneID)
	if err != nil {
		return false, faults.Validation("ID annonce invalide: %s", phoneID)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return false, faults.Transaction("connexion base utilisateurs indisponible")
	}

	var found gocql.UUID
	err = session.Query("SELECT phone_id FROM wishlist WHERE user_id = ? AND phone_id = ?",
		userID, uid).WithContext(ctx).Scan(&found)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, faults.Transaction("erreur lecture wishlist")
	}
	return true, nil
}

func (r *ScyllaRepo) Add(ctx context.Context, userID, phoneID string) error {
	uid, err := gocql.ParseUUID(phoneID)
	if err != nil {
		return faults.Validation("ID annonce invalide: %s", phoneID)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return faults.Transaction("connexion base utilisateurs indisponible")
	}

	err = session.Query("INSERT INTO wishlist (user_id, phone_id, added_at) VALUES (?, ?, ?)",
		userID, uid, time.Now()).WithContext(ctx).Exec()
	if err != nil {
		return faults.Transaction("erreur ajout wishlist")
	}

	database.RedisClient.Del(ctx, cacheKey(userID))
	return nil
}

func (r *ScyllaRepo) Remove(ctx context.Context, userID, phoneID string) error {
	uid, err := gocql.ParseUUID(phoneID)
	if err != nil {
		return faults.Validation("ID annonce invalide: %s", phoneID)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return faults.Transaction("connexion base utilisateurs indisponible")
	}

	err = session.Query("DELETE FROM wishlist WHERE user_id = ? AND phone_id = ?",
		userID, uid).WithContext(ctx).Exec()
	if err != nil {
		return faults.Transaction("erreur suppression wishlist")
	}

	database.RedisClient.Del(ctx, cacheKey(userID))
	return nil
}
