package controllers

import (
	"net/http"

	"backend/config"
	"backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PatientInput struct {
	HospitalID string `json:"hospital_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Age        int    `json:"age"`
	Sex        string `json:"sex"`
}

// POST /api/patients
func CreatePatient(c *gin.Context) {
	var input PatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient := models.Patient{
		HospitalID: input.HospitalID,
		Name:       input.Name,
		Age:        input.Age,
		Sex:        input.Sex,
	}
	if err := config.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, patient)
}

// GET /api/patients
func ListPatients(c *gin.Context) {
	var patients []models.Patient
	if err := config.DB.Order("name").Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

// GET /api/patients/:id
func GetPatient(c *gin.Context) {
	var patient models.Patient
	if err := config.DB.First(&patient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(http.StatusOK, patient)
}

// PUT /api/patients/:id
func UpdatePatient(c *gin.Context) {
	var patient models.Patient
	if err := config.DB.First(&patient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	var input PatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient.HospitalID = input.HospitalID
	patient.Name = input.Name
	patient.Age = input.Age
	patient.Sex = input.Sex
	if err := config.DB.Save(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patient)
}

// DELETE /api/patients/:id
// Existing plans keep a null patient reference; they are kitchen history, not
// part of the patient record.
func DeletePatient(c *gin.Context) {
	var patient models.Patient
	if err := config.DB.First(&patient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MealPlan{}).
			Where("patient_id = ?", patient.ID).
			Update("patient_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&patient).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}
