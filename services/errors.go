package services

import (
	"fmt"
	"strings"
)

// An uploaded sheet is missing columns the catalog requires. Fatal to that
// ingestion call only.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
}

// A menu line referenced a food that is not in the catalog. The whole
// aggregation fails; a silently incomplete total is worse than an error here.
type FoodNotFoundError struct {
	FoodName string
}

func (e *FoodNotFoundError) Error() string {
	return fmt.Sprintf("food item '%s' not found in foods data", e.FoodName)
}

type ProfileNotFoundError struct {
	ProfileName string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("RDA profile '%s' not found", e.ProfileName)
}

// A status update would leave a meal plan item delivered but not prepared.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}
