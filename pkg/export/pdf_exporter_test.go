package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRenderASCIIWithoutFont(t *testing.T) {
	data := Dataset{
		Headers: []string{"Time", "Title"},
		Rows: []map[string]string{
			{"Time": "23:00 - 23:30", "Title": "Frieren"},
		},
	}

	content, err := NewPDFExporter("").Render(data, "Schedule")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestPDFRenderRejectsCJKWithoutFont(t *testing.T) {
	// Core fonts cannot encode Japanese; rather than emit mojibake the
	// render fails with actionable guidance.
	data := Dataset{
		Headers: []string{"時間", "作品名"},
		Rows: []map[string]string{
			{"時間": "23:00 - 23:30", "作品名": "葬送のフリーレン"},
		},
	}

	_, err := NewPDFExporter("").Render(data, "放送スケジュール")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unicode font")
}

func TestPDFRenderMissingFontFileErrors(t *testing.T) {
	data := Dataset{Headers: []string{"Time"}}

	_, err := NewPDFExporter("/nonexistent/font.ttf").Render(data, "")
	require.Error(t, err)
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter("").Render(Dataset{}, "")
	require.Error(t, err)
}
