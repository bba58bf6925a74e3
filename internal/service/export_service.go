package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
	appErrors "github.com/noah-isme/licensing-api/pkg/errors"
	"github.com/noah-isme/licensing-api/pkg/export"
)

// Export formats supported by the admin surface.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered export payload.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the license table for offline bookkeeping.
type ExportService struct {
	licenses licenseRepository
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(licenses licenseRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{licenses: licenses, csv: csv, pdf: pdf, logger: logger}
}

// Licenses renders the current license table in the requested format.
func (s *ExportService) Licenses(ctx context.Context, format string) (*ExportResult, error) {
	licenses, err := s.licenses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list licenses")
	}

	dataset := buildLicenseDataset(licenses)

	var payload []byte
	var contentType, filename string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
		filename = "licenses.csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Licenses")
		contentType = "application/pdf"
		filename = "licenses.pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("license export rendered", zap.String("format", format), zap.Int("rows", len(licenses)))
	return &ExportResult{Payload: payload, ContentType: contentType, Filename: filename}, nil
}

func buildLicenseDataset(licenses []models.License) export.Dataset {
	headers := []string{"Student ID", "HWID", "Expiry", "Created At"}
	rows := make([]map[string]string, 0, len(licenses))
	for i := range licenses {
		lic := licenses[i]
		rows = append(rows, map[string]string{
			"Student ID": lic.StudentID,
			"HWID":       lic.HWID,
			"Expiry":     lic.ExpiryDate(),
			"Created At": lic.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
