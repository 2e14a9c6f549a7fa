package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/layout"
	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
	"github.com/anitime-dev/anitime-api/pkg/export"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	// ExportFormatCSV renders a BOM-prefixed CSV file.
	ExportFormatCSV ExportFormat = "csv"
	// ExportFormatPDF renders a landscape tabular PDF.
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered schedule document.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders one broadcast day's schedule as a downloadable file.
type ExportService struct {
	repo    ScheduleRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs an export service. pdfFontPath names a
// CJK-capable TTF for the PDF route; schedule rows are Japanese, so without
// it PDF requests are refused rather than rendered as mojibake.
func NewExportService(repo ScheduleRepository, enabled bool, pdfFontPath string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(pdfFontPath),
		logger:  logger,
		enabled: enabled,
	}
}

var exportHeaders = []string{"時間", "エリア", "チャンネル", "作品名", "タグ", "備考"}

var exportDayNames = map[int]string{
	1: "月曜日", 2: "火曜日", 3: "水曜日", 4: "木曜日",
	5: "金曜日", 6: "土曜日", 7: "日曜日",
}

// Export renders the schedule for one day in the requested format. Rows use
// the 30-hour clock so late-night slots keep their broadcast-day order.
func (s *ExportService) Export(ctx context.Context, day int, seasonID int64, format ExportFormat) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	if day < 1 || day > 7 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be between 1 and 7")
	}

	records, err := s.repo.ListRecords(ctx, models.ProgramFilter{DayOfTheWeek: day, SeasonID: seasonID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule records")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(records))}
	for _, rec := range records {
		name := rec.Name
		if name == "" {
			name = models.FallbackWorkName
		}
		note := ""
		if rec.Note != nil {
			note = *rec.Note
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"時間":     fmt.Sprintf("%s - %s", layout.FormatTime30(rec.StartTime), layout.FormatTime30(rec.EndTime)),
			"エリア":    rec.AreaName,
			"チャンネル":  rec.ChannelName,
			"作品名":    name,
			"タグ":     strings.Join(rec.Tags, " "),
			"備考":     note,
		})
	}

	title := fmt.Sprintf("放送スケジュール %s", exportDayNames[day])
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("schedule-day%d.csv", day),
		}, nil
	case ExportFormatPDF:
		if !s.pdf.HasUnicodeFont() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "pdf export is unavailable: no unicode font configured (PDF_FONT_PATH)")
		}
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("schedule-day%d.pdf", day),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
