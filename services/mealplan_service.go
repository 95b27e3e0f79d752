package services

import (
	"fmt"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

type PlanItemRequest struct {
	FoodName string  `json:"food_name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
}

// Per-day item counts for the kitchen dashboard header.
type KitchenSummary struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Prepared  int64 `json:"prepared"`
	Delivered int64 `json:"delivered"`
}

// MealPlanService owns plan creation and the per-item status machine.
type MealPlanService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewMealPlanService(db *gorm.DB, catalog *CatalogService) *MealPlanService {
	return &MealPlanService{db: db, catalog: catalog}
}

// CreatePlan creates a plan and all its items in one transaction: the plan is
// either fully visible to the kitchen or not there at all. Foods are checked
// against the catalog at this point (typos should fail loudly now, not at
// prep time), but items store the name, not a foreign key.
func (s *MealPlanService) CreatePlan(patientID uint, itemsByCategory map[string][]PlanItemRequest) (*models.MealPlan, error) {
	total := 0
	for category, items := range itemsByCategory {
		if !models.ValidMealCategory(category) {
			return nil, fmt.Errorf("unknown meal category '%s'", category)
		}
		total += len(items)
	}
	if total == 0 {
		return nil, fmt.Errorf("meal plan has no items")
	}

	// a zero patient id means "no patient": plans must stay loadable after
	// the patient record is gone
	var pid *uint
	if patientID != 0 {
		p := patientID
		pid = &p
	}

	var plan models.MealPlan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		plan = models.MealPlan{PatientID: pid}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		for _, category := range models.MealCategories {
			for _, item := range itemsByCategory[category] {
				if item.Quantity <= 0 {
					return fmt.Errorf("quantity for '%s' must be greater than zero", item.FoodName)
				}
				food, err := s.catalog.GetFood(item.FoodName)
				if err != nil {
					return err
				}
				planItem := models.MealPlanItem{
					MealPlanID:   plan.ID,
					MealCategory: category,
					FoodName:     food.Name,
					Quantity:     item.Quantity,
				}
				if err := tx.Create(&planItem).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var populated models.MealPlan
	if err := s.db.Preload("Items").Preload("Patient").First(&populated, plan.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

// applyStatus runs a partial {prepared?, delivered?} request through the
// status machine. Rules:
//   - a delivered item was necessarily prepared, so delivering a pending
//     item promotes prepared too
//   - clearing prepared on a delivered item is rejected unless delivered is
//     cleared in the same update
//   - re-applying the current state is a no-op, not an error
func applyStatus(curPrepared, curDelivered bool, prepared, delivered *bool) (bool, bool, error) {
	newPrepared := curPrepared
	newDelivered := curDelivered
	if prepared != nil {
		newPrepared = *prepared
	}
	if delivered != nil {
		newDelivered = *delivered
	}
	if newDelivered && !newPrepared {
		if prepared != nil && !*prepared {
			return false, false, &InvalidTransitionError{
				Reason: "cannot mark item unprepared while it is delivered",
			}
		}
		newPrepared = true
	}
	return newPrepared, newDelivered, nil
}

const statusUpdateRetries = 5

// UpdateItemStatus applies a status update as a compare-and-swap: the write
// only lands if the flags still hold the values the transition was computed
// from, so two kitchen workers ticking the same item serialize cleanly and
// neither update is lost. On a conflict the transition is recomputed from the
// fresh row.
func (s *MealPlanService) UpdateItemStatus(itemID uint, prepared, delivered *bool) (*models.MealPlanItem, error) {
	for attempt := 0; attempt < statusUpdateRetries; attempt++ {
		var item models.MealPlanItem
		if err := s.db.First(&item, itemID).Error; err != nil {
			return nil, err
		}

		newPrepared, newDelivered, err := applyStatus(item.Prepared, item.Delivered, prepared, delivered)
		if err != nil {
			return nil, err
		}

		res := s.db.Model(&models.MealPlanItem{}).
			Where("id = ? AND prepared = ? AND delivered = ?", item.ID, item.Prepared, item.Delivered).
			Updates(map[string]interface{}{"prepared": newPrepared, "delivered": newDelivered})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// someone else changed the flags between our read and write
			continue
		}

		item.Prepared = newPrepared
		item.Delivered = newDelivered
		EmitItemStatus(ItemStatusEvent{
			MealPlanID: item.MealPlanID,
			ItemID:     item.ID,
			FoodName:   item.FoodName,
			Prepared:   item.Prepared,
			Delivered:  item.Delivered,
		})
		return &item, nil
	}
	return nil, fmt.Errorf("item %d: too many concurrent status updates", itemID)
}

// ListPlans returns all plans, newest first, optionally only those created on
// the given calendar day (server-local time). A day with no plans is an empty
// slice, not an error.
func (s *MealPlanService) ListPlans(day *time.Time) ([]models.MealPlan, error) {
	q := s.db.Preload("Items").Preload("Patient").Order("created_at DESC")
	if day != nil {
		start, end := dayWindow(*day)
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	plans := []models.MealPlan{}
	err := q.Find(&plans).Error
	return plans, err
}

// Summary counts items of plans created on the given day by status.
func (s *MealPlanService) Summary(day time.Time) (*KitchenSummary, error) {
	start, end := dayWindow(day)
	base := s.db.Model(&models.MealPlanItem{}).
		Joins("JOIN meal_plans ON meal_plans.id = meal_plan_items.meal_plan_id").
		Where("meal_plans.created_at >= ? AND meal_plans.created_at < ?", start, end)

	var out KitchenSummary
	if err := base.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("prepared = ? AND delivered = ?", false, false).
		Count(&out.Pending).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("prepared = ? AND delivered = ?", true, false).
		Count(&out.Prepared).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("delivered = ?", true).
		Count(&out.Delivered).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// dayWindow bounds the calendar day containing t. The end bound is the next
// day's midnight via time.Date, not start plus 24h, so DST transition days
// keep their full 23 or 25 hours.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
	return start, end
}
