package models

import "gorm.io/gorm"

type Patient struct {
	gorm.Model
	HospitalID string `gorm:"type:varchar(255);uniqueIndex;not null" json:"hospital_id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Sex        string `json:"sex"`
}
