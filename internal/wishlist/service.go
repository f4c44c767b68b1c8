// Package wishlist stores per-user product wishlists as Redis sets.
package wishlist

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/deecee-hair/storefront-api/internal/catalog"
)

// Service manages wishlist membership.
type Service struct {
	Client  *redis.Client
	Catalog *catalog.Catalog
}

func wishlistKey(userID string) string {
	return "wishlist:" + userID
}

// Add puts a product on the user's wishlist. Unknown products are
// rejected so the set only ever holds live catalog ids.
func (s *Service) Add(ctx context.Context, userID string, productID int64) error {
	if _, err := s.Catalog.ByID(productID); err != nil {
		return err
	}
	if err := s.Client.SAdd(ctx, wishlistKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

// Remove drops a product from the wishlist. Removing an absent product
// is a no-op.
func (s *Service) Remove(ctx context.Context, userID string, productID int64) error {
	if err := s.Client.SRem(ctx, wishlistKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

// Contains reports wishlist membership.
func (s *Service) Contains(ctx context.Context, userID string, productID int64) (bool, error) {
	ok, err := s.Client.SIsMember(ctx, wishlistKey(userID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return ok, nil
}

// List returns the wishlisted products joined against the catalog,
// ordered by product id. Ids no longer in the catalog are skipped.
func (s *Service) List(ctx context.Context, userID string) ([]catalog.Product, error) {
	members, err := s.Client.SMembers(ctx, wishlistKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	products := make([]catalog.Product, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		p, err := s.Catalog.ByID(id)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}
