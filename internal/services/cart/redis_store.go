package cart

import (
	"context"
	"encoding/json"
	"time"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/faults"
	"oldphonedeals_back_end/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

// RedisStore persiste le panier comme un document JSON sous cart:<userID>.
// Chaque écriture publie sur le canal cart:<userID> pour la synchro websocket.
type RedisStore struct{}

func NewRedisStore() *RedisStore {
	return &RedisStore{}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (r *RedisStore) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := database.RedisClient.Get(ctx, cartKey(userID)).Result()
	if err != nil || data == "" {
		// clé absente = panier vide (création à la lecture)
		return []models.CartItem{}, nil
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, faults.Transaction("document panier corrompu")
	}
	return items, nil
}

func (r *RedisStore) Save(ctx context.Context, userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return faults.Transaction("erreur sérialisation panier")
	}

	if err := database.RedisClient.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return faults.Transaction("erreur sauvegarde panier")
	}

	database.RedisClient.Publish(ctx, cartKey(userID), "updated")
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := database.RedisClient.Del(ctx, cartKey(userID)).Err(); err != nil {
		return faults.Transaction("erreur vidage panier")
	}

	database.RedisClient.Publish(ctx, cartKey(userID), "cleared")
	return nil
}
