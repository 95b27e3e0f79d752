package models

import "gorm.io/gorm"

// A catalog food with its per-serving nutrient values. Nutrients live in
// child rows because uploaded sheets vary in which columns they carry;
// a missing row means "unknown", which is not the same as zero.
type FoodItem struct {
	gorm.Model
	Name        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"food_name"`
	ServingSize string         `json:"serving_size"`
	Nutrients   []FoodNutrient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type FoodNutrient struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	FoodItemID uint    `gorm:"uniqueIndex:idx_food_nutrient" json:"-"`
	Nutrient   string  `gorm:"type:varchar(255);uniqueIndex:idx_food_nutrient" json:"nutrient"`
	Amount     float64 `json:"amount"`
}

// NutrientMap flattens the child rows for calculation and display.
func (f *FoodItem) NutrientMap() map[string]float64 {
	m := make(map[string]float64, len(f.Nutrients))
	for _, n := range f.Nutrients {
		m[n.Nutrient] = n.Amount
	}
	return m
}
