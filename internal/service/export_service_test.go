package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExportServiceCSV(t *testing.T) {
	repo := &scheduleRepoStub{records: fridayRecords()}
	svc := NewExportService(repo, true, "", zap.NewNop())

	result, err := svc.Export(context.Background(), 5, 0, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Equal(t, "schedule-day5.csv", result.Filename)

	// BOM prefix, then headers and the 30-hour formatted times.
	assert.True(t, bytes.HasPrefix(result.Content, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(result.Content), "葬送のフリーレン")
	assert.Contains(t, string(result.Content), "24:00 - 24:30")
}

func TestExportServicePDFRequiresUnicodeFont(t *testing.T) {
	// Schedule rows are Japanese; without a CJK font the PDF route must
	// refuse instead of rendering replacement glyphs.
	repo := &scheduleRepoStub{records: fridayRecords()}
	svc := NewExportService(repo, true, "", zap.NewNop())

	_, err := svc.Export(context.Background(), 5, 0, ExportFormatPDF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unicode font")
}

func TestExportServiceDisabled(t *testing.T) {
	svc := NewExportService(&scheduleRepoStub{}, false, "", zap.NewNop())

	_, err := svc.Export(context.Background(), 5, 0, ExportFormatCSV)
	require.Error(t, err)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&scheduleRepoStub{}, true, "", zap.NewNop())

	_, err := svc.Export(context.Background(), 5, 0, ExportFormat("xlsx"))
	require.Error(t, err)
}

func TestExportServiceRejectsBadDay(t *testing.T) {
	svc := NewExportService(&scheduleRepoStub{}, true, "", zap.NewNop())

	_, err := svc.Export(context.Background(), 0, 0, ExportFormatCSV)
	require.Error(t, err)
}
