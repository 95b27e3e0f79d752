package services

import (
	"errors"
	"testing"
)

func TestUpsertFoodsIdempotent(t *testing.T) {
	catalog := NewCatalogService(newTestDB(t))

	batch := []FoodRecord{
		{Name: "Rice", ServingSize: "1 cup", Nutrients: map[string]float64{"Calories (kcal)": 200}},
		{Name: "Dal", ServingSize: "1 bowl", Nutrients: map[string]float64{"Calories (kcal)": 150}},
	}
	if err := catalog.UpsertFoods(batch); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := catalog.UpsertFoods(batch); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	foods, err := catalog.ListFoods()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods after double upload, got %d", len(foods))
	}
	for _, f := range foods {
		if len(f.Nutrients) != 1 {
			t.Errorf("food %s: expected 1 nutrient row, got %d", f.Name, len(f.Nutrients))
		}
	}
}

func TestUpsertFoodsLastWriteWins(t *testing.T) {
	catalog := NewCatalogService(newTestDB(t))

	first := []FoodRecord{{
		Name:        "Rice",
		ServingSize: "1 cup",
		Nutrients:   map[string]float64{"Calories (kcal)": 200, "Fiber (g)": 1},
	}}
	if err := catalog.UpsertFoods(first); err != nil {
		t.Fatal(err)
	}

	// second upload has no fiber column: the old fiber value must not linger
	second := []FoodRecord{{
		Name:        "rice",
		ServingSize: "1 cup (150g)",
		Nutrients:   map[string]float64{"Calories (kcal)": 210},
	}}
	if err := catalog.UpsertFoods(second); err != nil {
		t.Fatal(err)
	}

	food, err := catalog.GetFood("RICE")
	if err != nil {
		t.Fatalf("case-insensitive lookup: %v", err)
	}
	if food.ServingSize != "1 cup (150g)" {
		t.Errorf("serving size not updated: %q", food.ServingSize)
	}
	nm := food.NutrientMap()
	if got := nm["Calories (kcal)"]; got != 210 {
		t.Errorf("calories = %v, want 210", got)
	}
	if _, ok := nm["Fiber (g)"]; ok {
		t.Error("stale fiber value survived re-upload")
	}
}

func TestGetFoodNotFound(t *testing.T) {
	catalog := NewCatalogService(newTestDB(t))

	_, err := catalog.GetFood("Soup")
	var notFound *FoodNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected FoodNotFoundError, got %v", err)
	}
	if notFound.FoodName != "Soup" {
		t.Errorf("error names %q, want Soup", notFound.FoodName)
	}
}

func TestListFoodsReturnsFullRows(t *testing.T) {
	catalog := NewCatalogService(newTestDB(t))
	seedCatalog(t, catalog)

	foods, err := catalog.ListFoods()
	if err != nil {
		t.Fatal(err)
	}
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(foods))
	}
	// sorted by name, each with its nutrient rows loaded in the same snapshot
	if foods[0].Name != "Dal" || foods[1].Name != "Rice" {
		t.Errorf("order = %q, %q", foods[0].Name, foods[1].Name)
	}
	for _, food := range foods {
		if len(food.Nutrients) == 0 {
			t.Errorf("%s came back without nutrients", food.Name)
		}
	}
}

func TestGetProfileNotFound(t *testing.T) {
	catalog := NewCatalogService(newTestDB(t))

	_, err := catalog.GetProfile("Nobody")
	var notFound *ProfileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProfileNotFoundError, got %v", err)
	}
}

func TestListProfileNames(t *testing.T) {
	catalog := NewCatalogService(newTestDB(t))
	seedCatalog(t, catalog)

	names, err := catalog.ListProfileNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "Adult-Male" {
		t.Errorf("profile names = %v", names)
	}
}
