package models

import "time"

type MenuItem struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_menu_items_day_meal_name"`
	Station     string    `json:"station" gorm:"index"` // serving station, e.g. "Grill", "Global Kitchen"
	Description string    `json:"description" gorm:"type:text"`
	Calories    int       `json:"calories"`
	MealPeriod  string    `json:"meal_period" gorm:"not null;uniqueIndex:idx_menu_items_day_meal_name"` // breakfast, lunch, dinner
	ServedOn    time.Time `json:"served_on" gorm:"type:date;not null;index;uniqueIndex:idx_menu_items_day_meal_name"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
