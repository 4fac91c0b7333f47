package models

import "time"

const (
	PdfTypeFatura = "fatura"
	PdfTypeResumo = "resumo"
)

// GeneratedPdf maps to the `generated_pdfs` table. Rows are created by the
// storage poller, keyed in practice by the bare filename, and never updated
// in place.
type GeneratedPdf struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Filename   string    `gorm:"column:filename;size:255;index" json:"filename"`
	StorageKey string    `gorm:"column:storage_key;size:512" json:"storageKey"`
	StorageURL string    `gorm:"column:storage_url;size:1024" json:"storageUrl"`
	FileSize   int64     `gorm:"column:file_size;default:0" json:"fileSize"`
	PdfType    string    `gorm:"column:pdf_type;size:10" json:"pdfType"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (GeneratedPdf) TableName() string {
	return "generated_pdfs"
}
