package models

import "gorm.io/gorm"

// Fixed daily meal slots used to group plan items.
var MealCategories = []string{
	"Breakfast",
	"Lunch",
	"Dinner",
	"Morning Snacks",
	"Evening Snacks",
}

func ValidMealCategory(category string) bool {
	for _, c := range MealCategories {
		if c == category {
			return true
		}
	}
	return false
}

// A plan created when a menu is sent to the kitchen. PatientID is nullable:
// plans outlive patient records and must load cleanly without one.
type MealPlan struct {
	gorm.Model
	PatientID *uint          `json:"patient_id"`
	Patient   *Patient       `gorm:"constraint:OnDelete:SET NULL" json:"patient,omitempty"`
	Items     []MealPlanItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// One dish on a plan. The item set is immutable after creation; only the two
// status flags mutate, and never into delivered && !prepared.
// FoodName is a plain string, not a foreign key, so renaming or removing a
// catalog food never breaks historical plans.
type MealPlanItem struct {
	gorm.Model
	MealPlanID   uint    `json:"meal_plan_id"`
	MealCategory string  `gorm:"type:varchar(32)" json:"meal_category"`
	FoodName     string  `gorm:"not null" json:"food_name"`
	Quantity     float64 `json:"quantity"`
	Prepared     bool    `gorm:"default:false" json:"prepared"`
	Delivered    bool    `gorm:"default:false" json:"delivered"`
}
