package dining

import (
	"time"

	"whattheygot/internal/http-api/models"
)

// DayMenu is the provider feed shape for one calendar day
type DayMenu struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// Meal groups stations under a meal period
type Meal struct {
	Period   string    `json:"period"`
	Stations []Station `json:"stations"`
}

// Station is a serving station with its items
type Station struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item is a single dish in the provider feed
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Calories    int    `json:"calories,omitempty"`
}

// Flatten converts the nested provider feed into menu item rows. Items with
// an unknown meal period or empty name are dropped rather than failing the
// whole day.
func (d *DayMenu) Flatten() []models.MenuItem {
	servedOn, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return nil
	}

	var items []models.MenuItem
	for _, meal := range d.Meals {
		switch meal.Period {
		case "breakfast", "lunch", "dinner":
		default:
			continue
		}
		for _, station := range meal.Stations {
			for _, item := range station.Items {
				if item.Name == "" {
					continue
				}
				items = append(items, models.MenuItem{
					Name:        item.Name,
					Station:     station.Name,
					Description: item.Description,
					Calories:    item.Calories,
					MealPeriod:  meal.Period,
					ServedOn:    servedOn,
				})
			}
		}
	}
	return items
}
