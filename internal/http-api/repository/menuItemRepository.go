package repository

import (
	"errors"
	"time"

	"whattheygot/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuItemRepository interface {
	Create(item *models.MenuItem) error
	BulkCreate(items []models.MenuItem) (int64, error)
	Update(item *models.MenuItem) error
	Delete(itemID int64) error
	GetByID(itemID int64) (*models.MenuItem, error)
	GetByDay(servedOn time.Time, mealPeriod string) ([]models.MenuItem, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// BulkCreate inserts a batch of menu items, skipping rows that collide with
// an existing (served_on, meal_period, name) entry. This is the producer
// interface the menu sync job calls; re-running a sync is safe.
func (r *menuItemRepository) BulkCreate(items []models.MenuItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&items)
	return result.RowsAffected, result.Error
}

func (r *menuItemRepository) Update(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

func (r *menuItemRepository) Delete(itemID int64) error {
	result := r.db.Where("id = ?", itemID).Delete(&models.MenuItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("menu item not found")
	}
	return nil
}

func (r *menuItemRepository) GetByID(itemID int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.Where("id = ?", itemID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByDay retrieves the menu for a calendar day, optionally filtered by meal
// period, grouped for display by station then name.
func (r *menuItemRepository) GetByDay(servedOn time.Time, mealPeriod string) ([]models.MenuItem, error) {
	var items []models.MenuItem

	query := r.db.Where("served_on = ?", servedOn.Format("2006-01-02"))
	if mealPeriod != "" {
		query = query.Where("meal_period = ?", mealPeriod)
	}

	err := query.Order("station ASC, name ASC").Find(&items).Error
	return items, err
}
