package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOGServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
}

func TestOpenGraphServicePreview(t *testing.T) {
	srv := newOGServer(`<html><head><meta property="og:image" content="https://cdn.example.com/key.png"></head></html>`)
	defer srv.Close()

	svc := NewOpenGraphService(nil, 0, 0, "AniTimeBot/1.0", zap.NewNop())
	preview, err := svc.Preview(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/key.png", preview.ImageURL)
}

func TestOpenGraphServicePreviewReversedAttributes(t *testing.T) {
	srv := newOGServer(`<html><head><meta content="https://cdn.example.com/rev.png" property="og:image"></head></html>`)
	defer srv.Close()

	svc := NewOpenGraphService(nil, 0, 0, "", zap.NewNop())
	preview, err := svc.Preview(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/rev.png", preview.ImageURL)
}

func TestOpenGraphServicePreviewResolvesRelative(t *testing.T) {
	srv := newOGServer(`<html><head><meta property="og:image" content="/images/key.png"></head></html>`)
	defer srv.Close()

	svc := NewOpenGraphService(nil, 0, 0, "", zap.NewNop())
	preview, err := svc.Preview(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/images/key.png", preview.ImageURL)
}

func TestOpenGraphServicePreviewNoTag(t *testing.T) {
	srv := newOGServer(`<html><head><title>no preview here</title></head></html>`)
	defer srv.Close()

	svc := NewOpenGraphService(nil, 0, 0, "", zap.NewNop())
	preview, err := svc.Preview(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, preview.ImageURL)
}

func TestOpenGraphServicePreviewRejectsBadScheme(t *testing.T) {
	svc := NewOpenGraphService(nil, 0, 0, "", zap.NewNop())

	_, err := svc.Preview(context.Background(), "ftp://example.com/")
	require.Error(t, err)

	_, err = svc.Preview(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestOpenGraphServiceSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><head></head></html>`)
	}))
	defer srv.Close()

	svc := NewOpenGraphService(nil, 0, 0, "AniTimeBot/1.0", zap.NewNop())
	_, err := svc.Preview(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "AniTimeBot/1.0", gotUA)
}
