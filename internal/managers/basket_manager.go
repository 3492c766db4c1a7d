package managers

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"bookstore-server/internal/schemas"
)

// basketTTL bounds how long an untouched basket survives. Baskets are
// ephemeral session state and are never written to the database.
const basketTTL = 7 * 24 * time.Hour

// BasketMgr keeps the session-scoped baskets: a mapping from product id to
// quantity, keyed by the requester's basket session.
type BasketMgr interface {
	GetBasket(ctx context.Context, basketID string) (*schemas.BasketDTO, error)
	SetItem(ctx context.Context, basketID, productID string, quantity int) error
	RemoveItem(ctx context.Context, basketID, productID string) error
}

// BasketManager is the redis-backed implementation of BasketMgr.
type BasketManager struct {
	client *redis.Client
}

// NewBasketManager creates a BasketManager.
func NewBasketManager(client *redis.Client) BasketMgr {
	log.Info("Initializing basket manager")
	return &BasketManager{client: client}
}

func basketKey(basketID string) string {
	return "basket:" + basketID
}

// GetBasket loads the whole basket. An unknown basket id is an empty basket.
func (bm *BasketManager) GetBasket(ctx context.Context, basketID string) (*schemas.BasketDTO, error) {
	entries, err := bm.client.HGetAll(ctx, basketKey(basketID)).Result()
	if err != nil {
		return nil, err
	}

	basket := &schemas.BasketDTO{Items: make([]schemas.BasketItemDTO, 0, len(entries))}
	for productID, raw := range entries {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		basket.Items = append(basket.Items, schemas.BasketItemDTO{ProductID: productID, Quantity: quantity})
	}

	return basket, nil
}

// SetItem adds or updates one (product, quantity) pair. Quantity 0 removes
// the product.
func (bm *BasketManager) SetItem(ctx context.Context, basketID, productID string, quantity int) error {
	if quantity == 0 {
		return bm.RemoveItem(ctx, basketID, productID)
	}

	key := basketKey(basketID)
	if err := bm.client.HSet(ctx, key, productID, quantity).Err(); err != nil {
		return err
	}

	return bm.client.Expire(ctx, key, basketTTL).Err()
}

// RemoveItem deletes one product from the basket.
func (bm *BasketManager) RemoveItem(ctx context.Context, basketID, productID string) error {
	return bm.client.HDel(ctx, basketKey(basketID), productID).Err()
}
