package service

import (
	"context"
	"log"
	"strings"

	"foodzone/api-svc/internal/domain"
)

type RestaurantService struct {
	repo RestaurantRepository
}

func NewRestaurantService(repo RestaurantRepository) *RestaurantService {
	return &RestaurantService{repo: repo}
}

func (s *RestaurantService) Create(rest *domain.Restaurant) error {
	if strings.TrimSpace(rest.Name) == "" || strings.TrimSpace(rest.Email) == "" {
		return domain.ErrMissingFields
	}
	return s.repo.CreateRestaurant(rest)
}

func (s *RestaurantService) List() ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants()
}

func (s *RestaurantService) ListByOwner(email string) ([]domain.Restaurant, error) {
	restaurants, err := s.repo.ListRestaurantsByOwner(email)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, domain.ErrNotFound
	}
	return restaurants, nil
}

func (s *RestaurantService) Menu(id int) (*domain.RestaurantMenu, error) {
	return s.repo.GetRestaurantMenu(id)
}

func (s *RestaurantService) Delete(id int) error {
	rows, err := s.repo.DeleteRestaurant(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ RestaurantServiceInterface = (*RestaurantService)(nil)

type MenuService struct {
	repo    MenuRepository
	popular PopularityCache
}

// NewMenuService wires the menu repository. popular may be nil, in which
// case popularity comes from the order_count column alone.
func NewMenuService(repo MenuRepository, popular PopularityCache) *MenuService {
	return &MenuService{repo: repo, popular: popular}
}

func (s *MenuService) Create(item *domain.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" ||
		strings.TrimSpace(item.Description) == "" ||
		!item.Price.IsPositive() ||
		strings.TrimSpace(item.Category) == "" ||
		strings.TrimSpace(item.Image) == "" ||
		item.RestaurantID <= 0 ||
		strings.TrimSpace(item.OwnerEmail) == "" {
		return domain.ErrMissingFields
	}
	return s.repo.CreateMenuItem(item)
}

func (s *MenuService) Get(id int) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(id)
}

func (s *MenuService) ListByOwner(email string) ([]domain.SellerMenuItem, error) {
	return s.repo.ListMenuByOwner(email)
}

func (s *MenuService) Update(id int, patch domain.MenuPatch) (*domain.MenuItem, error) {
	if patch.Empty() {
		return nil, domain.ErrMissingFields
	}
	return s.repo.UpdateMenuItem(id, patch)
}

func (s *MenuService) Delete(id int) error {
	rows, err := s.repo.DeleteMenuItem(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Popular returns the most ordered menu items, best first. The Redis
// leaderboard is preferred; the database ordering is the fallback.
func (s *MenuService) Popular(ctx context.Context, limit int) ([]domain.MenuItem, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.popular != nil {
		ids, err := s.popular.TopMenuIDs(ctx, limit)
		if err != nil {
			log.Printf("[api-svc] popularity cache: %v", err)
		} else if len(ids) > 0 {
			items, err := s.repo.MenuItemsByID(ids)
			if err == nil {
				return orderByIDs(items, ids), nil
			}
			log.Printf("[api-svc] load popular items: %v", err)
		}
	}
	return s.repo.TopMenuItems(limit)
}

func orderByIDs(items []domain.MenuItem, ids []int) []domain.MenuItem {
	byID := make(map[int]domain.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]domain.MenuItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

var _ MenuServiceInterface = (*MenuService)(nil)
