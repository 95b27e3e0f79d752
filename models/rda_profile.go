package models

import "gorm.io/gorm"

// An RDA profile: named per-nutrient targets used as a comparison baseline.
// Same open nutrient set as FoodItem; a missing target row means the profile
// has no target for that nutrient.
type RDAProfile struct {
	gorm.Model
	Name    string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"profile_name"`
	Targets []RDATarget `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type RDATarget struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	RDAProfileID uint    `gorm:"uniqueIndex:idx_rda_target" json:"-"`
	Nutrient     string  `gorm:"type:varchar(255);uniqueIndex:idx_rda_target" json:"nutrient"`
	Amount       float64 `json:"amount"`
}

func (p *RDAProfile) TargetMap() map[string]float64 {
	m := make(map[string]float64, len(p.Targets))
	for _, t := range p.Targets {
		m[t.Nutrient] = t.Amount
	}
	return m
}
