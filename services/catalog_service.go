package services

import (
	"errors"

	"backend/models"

	"gorm.io/gorm"
)

// One parsed row of a foods upload. Nutrients carries only the values the
// sheet actually had; an absent key means unknown, not zero.
type FoodRecord struct {
	Name        string
	ServingSize string
	Nutrients   map[string]float64
}

// One parsed row of an RDA upload.
type ProfileRecord struct {
	Name    string
	Targets map[string]float64
}

// CatalogService owns the food and RDA profile catalogs. It is handed its DB
// explicitly so callers control which store a computation reads from.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// UpsertFoods applies a whole upload batch in one transaction: readers see
// either the previous catalog or the full batch, never a half-applied one.
// Matching is by name, case-insensitive, last write wins, so re-uploading the
// same sheet is idempotent.
func (s *CatalogService) UpsertFoods(records []FoodRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			var food models.FoodItem
			err := tx.Where("LOWER(name) = LOWER(?)", rec.Name).First(&food).Error
			switch {
			case err == nil:
				food.Name = rec.Name
				food.ServingSize = rec.ServingSize
				if err := tx.Save(&food).Error; err != nil {
					return err
				}
				// replace nutrient rows wholesale; stale values must not linger
				if err := tx.Where("food_item_id = ?", food.ID).
					Delete(&models.FoodNutrient{}).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				food = models.FoodItem{Name: rec.Name, ServingSize: rec.ServingSize}
				if err := tx.Create(&food).Error; err != nil {
					return err
				}
			default:
				return err
			}

			for nutrient, amount := range rec.Nutrients {
				n := models.FoodNutrient{FoodItemID: food.ID, Nutrient: nutrient, Amount: amount}
				if err := tx.Create(&n).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *CatalogService) UpsertProfiles(records []ProfileRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			var profile models.RDAProfile
			err := tx.Where("LOWER(name) = LOWER(?)", rec.Name).First(&profile).Error
			switch {
			case err == nil:
				profile.Name = rec.Name
				if err := tx.Save(&profile).Error; err != nil {
					return err
				}
				if err := tx.Where("rda_profile_id = ?", profile.ID).
					Delete(&models.RDATarget{}).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				profile = models.RDAProfile{Name: rec.Name}
				if err := tx.Create(&profile).Error; err != nil {
					return err
				}
			default:
				return err
			}

			for nutrient, amount := range rec.Targets {
				t := models.RDATarget{RDAProfileID: profile.ID, Nutrient: nutrient, Amount: amount}
				if err := tx.Create(&t).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GetFood looks a food up by name, case-insensitively. The stored casing is
// what comes back for display. The lookup and its nutrient preload run in one
// transaction so a concurrent upsert batch can't slip between them.
func (s *CatalogService) GetFood(name string) (*models.FoodItem, error) {
	var food models.FoodItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Nutrients").
			Where("LOWER(name) = LOWER(?)", name).
			First(&food).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &FoodNotFoundError{FoodName: name}
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *CatalogService) ListFoods() ([]models.FoodItem, error) {
	var foods []models.FoodItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Nutrients").Order("name").Find(&foods).Error
	})
	return foods, err
}

func (s *CatalogService) GetProfile(name string) (*models.RDAProfile, error) {
	var profile models.RDAProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Preload("Targets").
			Where("LOWER(name) = LOWER(?)", name).
			First(&profile).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ProfileNotFoundError{ProfileName: name}
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *CatalogService) ListProfileNames() ([]string, error) {
	var names []string
	err := s.db.Model(&models.RDAProfile{}).Order("name").Pluck("name", &names).Error
	return names, err
}
