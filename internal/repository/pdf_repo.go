package repository

import (
	"gorm.io/gorm"

	"faturadash/internal/models"
)

// PdfRepository handles the generated PDF catalog.
type PdfRepository struct {
	db *gorm.DB
}

func NewPdfRepository(db *gorm.DB) *PdfRepository {
	return &PdfRepository{db: db}
}

// Save inserts a new catalog row.
func (r *PdfRepository) Save(pdf *models.GeneratedPdf) error {
	return r.db.Create(pdf).Error
}

// FindAll returns all cataloged PDFs, newest first.
func (r *PdfRepository) FindAll() ([]models.GeneratedPdf, error) {
	var pdfs []models.GeneratedPdf
	err := r.db.Order("created_at DESC").Find(&pdfs).Error
	return pdfs, err
}

// FindByID returns a cataloged PDF by id.
func (r *PdfRepository) FindByID(id uint) (*models.GeneratedPdf, error) {
	var pdf models.GeneratedPdf
	if err := r.db.First(&pdf, id).Error; err != nil {
		return nil, err
	}
	return &pdf, nil
}

// KnownFilenames returns the bare filename -> id map of every cataloged
// PDF. The poller uses it as its dedup set.
func (r *PdfRepository) KnownFilenames() (map[string]uint, error) {
	var rows []struct {
		ID       uint
		Filename string
	}
	if err := r.db.Model(&models.GeneratedPdf{}).Select("id", "filename").Find(&rows).Error; err != nil {
		return nil, err
	}
	known := make(map[string]uint, len(rows))
	for _, row := range rows {
		known[row.Filename] = row.ID
	}
	return known, nil
}

// Delete removes a catalog row. Deleting an unknown id is a no-op.
func (r *PdfRepository) Delete(id uint) error {
	return r.db.Delete(&models.GeneratedPdf{}, id).Error
}
