package cache

import (
	"context"
	"encoding/json"
	"time"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/models"
)

const (
	UserCacheTTL     = 5 * time.Minute
	WishlistCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var user models.User
	var lastLogin time.Time
	user.ID = userID
	err = session.Query(`SELECT email, firstname, lastname, role, disabled, created_at, last_login
		FROM users WHERE user_id = ?`, userID).Scan(
		&user.Email, &user.FirstName, &user.LastName, &user.Role,
		&user.Disabled, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	if !lastLogin.IsZero() {
		user.LastLogin = &lastLogin
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return &user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetWishlistView lit la vue wishlist mise en cache (JSON résolu)
func GetWishlistView(ctx context.Context, userID string) (*models.Wishlist, bool) {
	data, err := database.Redis.Get(ctx, "wishlist:"+userID).Result()
	if err != nil {
		return nil, false
	}

	var wl models.Wishlist
	if json.Unmarshal([]byte(data), &wl) != nil {
		return nil, false
	}
	return &wl, true
}

// SetWishlistView met en cache la vue wishlist résolue
func SetWishlistView(ctx context.Context, wl *models.Wishlist) {
	if data, err := json.Marshal(wl); err == nil {
		database.Redis.Set(ctx, "wishlist:"+wl.UserID, data, WishlistCacheTTL)
	}
}
