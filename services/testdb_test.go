package services

import (
	"testing"

	"backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB gives each test its own in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every pooled connection to :memory: would get its own database, so pin
	// the pool to a single connection
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&models.Patient{},
		&models.FoodItem{},
		&models.FoodNutrient{},
		&models.RDAProfile{},
		&models.RDATarget{},
		&models.MealPlan{},
		&models.MealPlanItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCatalog(t *testing.T, catalog *CatalogService) {
	t.Helper()
	err := catalog.UpsertFoods([]FoodRecord{
		{
			Name:        "Rice",
			ServingSize: "1 cup",
			Nutrients:   map[string]float64{"Calories (kcal)": 200, "Protein (g)": 4},
		},
		{
			Name:        "Dal",
			ServingSize: "1 bowl",
			Nutrients:   map[string]float64{"Calories (kcal)": 150, "Protein (g)": 9, "Fiber (g)": 3},
		},
	})
	if err != nil {
		t.Fatalf("seed foods: %v", err)
	}
	err = catalog.UpsertProfiles([]ProfileRecord{
		{
			Name:    "Adult-Male",
			Targets: map[string]float64{"Calories (kcal)": 2000, "Protein (g)": 50},
		},
	})
	if err != nil {
		t.Fatalf("seed profiles: %v", err)
	}
}
