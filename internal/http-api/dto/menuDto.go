package dto

import (
	"time"

	"whattheygot/internal/http-api/models"
)

// CreateMenuItemDTO for creating a single menu item
type CreateMenuItemDTO struct {
	Name        string `json:"name" binding:"required,max=200"`
	Station     string `json:"station" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	Calories    int    `json:"calories" binding:"min=0"`
	MealPeriod  string `json:"meal_period" binding:"required,oneof=breakfast lunch dinner"`
	ServedOn    string `json:"served_on" binding:"required,datetime=2006-01-02"`
}

// ToModel converts the DTO to a MenuItem model. The served_on format is
// enforced by the binding tag, so the parse cannot fail here.
func (d *CreateMenuItemDTO) ToModel() models.MenuItem {
	servedOn, _ := time.Parse("2006-01-02", d.ServedOn)
	return models.MenuItem{
		Name:        d.Name,
		Station:     d.Station,
		Description: d.Description,
		Calories:    d.Calories,
		MealPeriod:  d.MealPeriod,
		ServedOn:    servedOn,
	}
}

// BulkCreateMenuDTO is the producer interface the menu sync job posts to
type BulkCreateMenuDTO struct {
	Items []CreateMenuItemDTO `json:"items" binding:"required,min=1,max=500,dive"`
}

// UpdateMenuItemDTO for updating an existing menu item
type UpdateMenuItemDTO struct {
	Name        string `json:"name" binding:"required,max=200"`
	Station     string `json:"station" binding:"max=100"`
	Description string `json:"description" binding:"max=2000"`
	Calories    int    `json:"calories" binding:"min=0"`
}

// BulkCreateResponse reports how many rows a bulk insert actually created
// (conflicting rows are skipped)
type BulkCreateResponse struct {
	Created int64 `json:"created"`
	Skipped int   `json:"skipped"`
}
