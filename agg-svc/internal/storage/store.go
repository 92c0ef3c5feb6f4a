package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// PopularMenuKey is the leaderboard api-svc reads popular items from.
const PopularMenuKey = "popular:menu"

type Store struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
	}
}

// IncrementPopularity adds quantity to the item's order_count and to its
// leaderboard score. Unknown menu ids are skipped on both sides.
func (s *Store) IncrementPopularity(ctx context.Context, menuID, quantity int) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE menu SET order_count = order_count + $1 WHERE id = $2", quantity, menuID)
	if err != nil {
		return fmt.Errorf("update order_count: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("menu item %d not found", menuID)
	}

	if err := s.rdb.ZIncrBy(ctx, PopularMenuKey, float64(quantity), strconv.Itoa(menuID)).Err(); err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	return nil
}
