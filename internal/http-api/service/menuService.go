package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"whattheygot/internal/http-api/cache"
	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/http-api/repository"

	"gorm.io/gorm"
)

type MenuService interface {
	GetMenu(ctx context.Context, servedOn time.Time, mealPeriod string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, req *dto.CreateMenuItemDTO) (*models.MenuItem, error)
	BulkCreateMenuItems(ctx context.Context, req *dto.BulkCreateMenuDTO) (*dto.BulkCreateResponse, error)
	UpdateMenuItem(ctx context.Context, itemID int64, req *dto.UpdateMenuItemDTO) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, itemID int64) error
}

type menuService struct {
	menuRepo  repository.MenuItemRepository
	menuCache *cache.MenuCache
}

func NewMenuService(menuRepo repository.MenuItemRepository, menuCache *cache.MenuCache) MenuService {
	return &menuService{
		menuRepo:  menuRepo,
		menuCache: menuCache,
	}
}

// GetMenu returns a day's menu, served from the redis cache when warm.
// Cache misses and redis outages both fall through to the database.
func (s *menuService) GetMenu(ctx context.Context, servedOn time.Time, mealPeriod string) ([]models.MenuItem, error) {
	key := cache.Key(servedOn, mealPeriod)
	if data, ok := s.menuCache.Get(ctx, key); ok {
		var items []models.MenuItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	items, err := s.menuRepo.GetByDay(servedOn, mealPeriod)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		s.menuCache.Set(ctx, key, data)
	}
	return items, nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, req *dto.CreateMenuItemDTO) (*models.MenuItem, error) {
	item := req.ToModel()
	if err := s.menuRepo.Create(&item); err != nil {
		return nil, err
	}
	s.menuCache.InvalidateDay(ctx, item.ServedOn)
	return &item, nil
}

// BulkCreateMenuItems is the producer interface used by the menu sync job.
// Conflicting (day, meal, name) rows are skipped, making re-runs safe.
func (s *menuService) BulkCreateMenuItems(ctx context.Context, req *dto.BulkCreateMenuDTO) (*dto.BulkCreateResponse, error) {
	items := make([]models.MenuItem, 0, len(req.Items))
	for i := range req.Items {
		items = append(items, req.Items[i].ToModel())
	}

	created, err := s.menuRepo.BulkCreate(items)
	if err != nil {
		return nil, err
	}

	// Invalidate each distinct day touched by the batch
	seen := make(map[string]struct{})
	for i := range items {
		day := items[i].ServedOn.Format("2006-01-02")
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		s.menuCache.InvalidateDay(ctx, items[i].ServedOn)
	}

	return &dto.BulkCreateResponse{
		Created: created,
		Skipped: len(items) - int(created),
	}, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, itemID int64, req *dto.UpdateMenuItemDTO) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	item.Name = req.Name
	item.Station = req.Station
	item.Description = req.Description
	item.Calories = req.Calories

	if err := s.menuRepo.Update(item); err != nil {
		return nil, err
	}
	s.menuCache.InvalidateDay(ctx, item.ServedOn)
	return item, nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, itemID int64) error {
	item, err := s.menuRepo.GetByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}

	if err := s.menuRepo.Delete(itemID); err != nil {
		return err
	}
	s.menuCache.InvalidateDay(ctx, item.ServedOn)
	return nil
}
