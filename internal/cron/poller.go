package cron

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"faturadash/internal/models"
	"faturadash/internal/storage"
)

// pollForPdfs runs one reconciliation cycle: list both bucket folders and
// catalog every file whose bare filename is not yet known. A folder whose
// listing fails contributes nothing that cycle; the other folder is
// unaffected.
func (s *Scheduler) pollForPdfs(ctx context.Context) {
	defer s.recoverFromPanic("pollForPdfs")

	known, err := s.repos.Pdf.KnownFilenames()
	if err != nil {
		s.logger.Error("Failed to load known PDFs", zap.Error(err))
		return
	}

	s.pollFolder(ctx, s.cfg.Storage.FaturasFolder, models.PdfTypeFatura, known)
	s.pollFolder(ctx, s.cfg.Storage.ResumosFolder, models.PdfTypeResumo, known)
}

func (s *Scheduler) pollFolder(ctx context.Context, folder, pdfType string, known map[string]uint) {
	objects, err := s.store.List(ctx, folder)
	if err != nil {
		s.logger.Error("Failed to list storage folder", zap.String("folder", folder), zap.Error(err))
		return
	}

	for _, obj := range objects {
		name := baseName(obj.Name)
		if _, ok := known[name]; ok {
			continue
		}

		pdf, err := s.catalogObject(ctx, folder, pdfType, obj)
		if err != nil {
			s.logger.Error("Failed to catalog PDF", zap.String("name", obj.Name), zap.Error(err))
			continue
		}

		known[name] = pdf.ID
		s.logger.Info("New PDF cataloged",
			zap.String("filename", pdf.Filename),
			zap.String("type", pdfType),
			zap.Int64("size", pdf.FileSize))

		if s.notifier != nil {
			s.notifier.PdfCataloged(pdf)
		}
	}
}

func (s *Scheduler) catalogObject(ctx context.Context, folder, pdfType string, obj storage.Object) (*models.GeneratedPdf, error) {
	// Listing names may or may not carry the folder prefix; the stored key
	// is always bucket-relative.
	key := obj.Name
	if !strings.Contains(key, "/") {
		key = folder + "/" + key
	}
	publicURL := s.store.PublicURL(key)

	size := obj.Metadata.Size
	if size == 0 {
		size = s.store.ProbeSize(ctx, publicURL)
	}

	pdf := &models.GeneratedPdf{
		Filename:   baseName(obj.Name),
		StorageKey: key,
		StorageURL: publicURL,
		FileSize:   size,
		PdfType:    pdfType,
	}
	if err := s.repos.Pdf.Save(pdf); err != nil {
		return nil, err
	}
	return pdf, nil
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
