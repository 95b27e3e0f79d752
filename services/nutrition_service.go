package services

import (
	"fmt"
	"sort"
	"strings"
)

// One line of a submitted menu. Quantity is a multiplier of the food's
// serving size; fractions are fine, zero and below are not.
type MenuItem struct {
	FoodName string  `json:"food_name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
}

// A menu line echoed back with its catalog serving size, for audit display.
type ResolvedItem struct {
	FoodName    string  `json:"food_name"`
	Quantity    float64 `json:"quantity"`
	ServingSize string  `json:"serving_size"`
}

// Per-nutrient comparison statuses.
const (
	StatusDeficit         = "deficit"
	StatusExcess          = "excess"
	StatusMeetsTarget     = "meets target"
	StatusNotDeterminable = "not determinable"
)

type NutrientComparison struct {
	Target float64 `json:"target"`
	// nil when the menu total for this nutrient is unknown
	Difference *float64 `json:"difference"`
	Status     string   `json:"status"`
}

type ComparisonReport struct {
	ProfileName string                        `json:"rda_profile_name"`
	Targets     map[string]float64            `json:"rda_targets"`
	Comparison  map[string]NutrientComparison `json:"nutrient_comparison"`
	Summary     string                        `json:"final_summary"`
}

type NutritionService struct {
	catalog *CatalogService
}

func NewNutritionService(catalog *CatalogService) *NutritionService {
	return &NutritionService{catalog: catalog}
}

// Aggregate resolves every menu line against the catalog and sums the
// weighted nutrient vectors. A nutrient total is nil if any selected food has
// no value for it: unknown dominates, so a clinician never mistakes missing
// data for zero content. Any unresolvable food fails the whole call; partial
// totals are never returned.
func (s *NutritionService) Aggregate(menu []MenuItem) ([]ResolvedItem, map[string]*float64, error) {
	if len(menu) == 0 {
		return nil, nil, fmt.Errorf("menu is empty")
	}

	type contribution struct {
		nutrients map[string]float64
		quantity  float64
	}

	resolved := make([]ResolvedItem, 0, len(menu))
	contributions := make([]contribution, 0, len(menu))
	nutrientSet := map[string]struct{}{}

	for _, item := range menu {
		if item.Quantity <= 0 {
			return nil, nil, fmt.Errorf("quantity for '%s' must be greater than zero", item.FoodName)
		}
		food, err := s.catalog.GetFood(item.FoodName)
		if err != nil {
			return nil, nil, err
		}
		resolved = append(resolved, ResolvedItem{
			FoodName:    food.Name,
			Quantity:    item.Quantity,
			ServingSize: food.ServingSize,
		})
		nm := food.NutrientMap()
		contributions = append(contributions, contribution{nutrients: nm, quantity: item.Quantity})
		for nutrient := range nm {
			nutrientSet[nutrient] = struct{}{}
		}
	}

	totals := make(map[string]*float64, len(nutrientSet))
	for nutrient := range nutrientSet {
		sum := 0.0
		known := true
		for _, c := range contributions {
			amount, ok := c.nutrients[nutrient]
			if !ok {
				known = false
				break
			}
			sum += amount * c.quantity
		}
		if known {
			v := sum
			totals[nutrient] = &v
		} else {
			totals[nutrient] = nil
		}
	}
	return resolved, totals, nil
}

// Compare checks aggregated totals against a named RDA profile. Every
// nutrient the profile targets gets a classification; an unknown total is
// "not determinable", never a fabricated zero.
func (s *NutritionService) Compare(totals map[string]*float64, profileName string) (*ComparisonReport, error) {
	profile, err := s.catalog.GetProfile(profileName)
	if err != nil {
		return nil, err
	}

	targets := profile.TargetMap()
	comparison := make(map[string]NutrientComparison, len(targets))
	for nutrient, target := range targets {
		total, have := totals[nutrient]
		if !have || total == nil {
			comparison[nutrient] = NutrientComparison{Target: target, Status: StatusNotDeterminable}
			continue
		}
		diff := *total - target
		status := StatusMeetsTarget
		if diff < 0 {
			status = StatusDeficit
		} else if diff > 0 {
			status = StatusExcess
		}
		comparison[nutrient] = NutrientComparison{Target: target, Difference: &diff, Status: status}
	}

	return &ComparisonReport{
		ProfileName: profile.Name,
		Targets:     targets,
		Comparison:  comparison,
		Summary:     buildSummary(profile.Name, comparison),
	}, nil
}

// buildSummary renders the advisory one-liner deterministically: counts
// first, then per-nutrient detail in sorted order.
func buildSummary(profileName string, comparison map[string]NutrientComparison) string {
	var deficit, excess, meets, unknown int
	nutrients := make([]string, 0, len(comparison))
	for nutrient, c := range comparison {
		nutrients = append(nutrients, nutrient)
		switch c.Status {
		case StatusDeficit:
			deficit++
		case StatusExcess:
			excess++
		case StatusMeetsTarget:
			meets++
		default:
			unknown++
		}
	}
	sort.Strings(nutrients)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compared to %s: %d nutrient(s) in deficit, %d in excess, %d meeting target, %d not determinable.",
		profileName, deficit, excess, meets, unknown)
	for _, nutrient := range nutrients {
		c := comparison[nutrient]
		if c.Difference == nil {
			fmt.Fprintf(&sb, " %s: N/A (no data);", nutrient)
			continue
		}
		fmt.Fprintf(&sb, " %s: %.1f (%s);", nutrient, abs(*c.Difference), c.Status)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
