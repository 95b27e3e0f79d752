package controllers

import (
	"errors"
	"net/http"

	"backend/config"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// POST /api/upload-foods  (multipart, field "file", .xlsx or .csv)
func UploadFoods(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	ingest := services.NewIngestService()
	records, report, err := ingest.ParseFoods(f, fileHeader.Filename)
	if err != nil {
		var schemaErr *services.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           schemaErr.Error(),
				"missing_columns": schemaErr.MissingColumns,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := services.NewCatalogService(config.DB)
	if err := catalog.UpsertFoods(records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Foods data uploaded and processed successfully.",
		"filename": fileHeader.Filename,
		"parsed":   report.Parsed,
		"skipped":  report.Skipped,
		"warnings": report.Warnings,
	})
}

// POST /api/upload-rda
func UploadRDA(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	ingest := services.NewIngestService()
	records, report, err := ingest.ParseProfiles(f, fileHeader.Filename)
	if err != nil {
		var schemaErr *services.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           schemaErr.Error(),
				"missing_columns": schemaErr.MissingColumns,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := services.NewCatalogService(config.DB)
	if err := catalog.UpsertProfiles(records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "RDA data uploaded and processed successfully.",
		"filename": fileHeader.Filename,
		"parsed":   report.Parsed,
		"skipped":  report.Skipped,
		"warnings": report.Warnings,
	})
}

// GET /api/foods
func ListFoods(c *gin.Context) {
	catalog := services.NewCatalogService(config.DB)
	foods, err := catalog.ListFoods()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(foods))
	for _, food := range foods {
		out = append(out, gin.H{
			"food_name":    food.Name,
			"serving_size": food.ServingSize,
			"nutrients":    food.NutrientMap(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/rda-profiles
func ListRDAProfiles(c *gin.Context) {
	catalog := services.NewCatalogService(config.DB)
	names, err := catalog.ListProfileNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, names)
}
