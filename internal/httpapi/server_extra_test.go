package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"onnxd/pkg/types"
)

// Service whose Load blocks until the context is done; used to exercise the
// timeout path.
type blockService struct{}

func (b *blockService) Models() types.ModelsResponse { return types.ModelsResponse{} }
func (b *blockService) Status() types.StatusResponse { return types.StatusResponse{} }
func (b *blockService) Ready() bool                  { return true }
func (b *blockService) Unload(model string) error    { return nil }

func (b *blockService) Load(ctx context.Context, model string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestLoadLogsWithZerologInfo(t *testing.T) {
	// Install a zerolog logger to exercise the zlog != nil branches
	SetLogger(zerolog.New(io.Discard))
	defer func() { zlog = nil }()

	svc := &mockService{}
	h := NewMux(svc)
	req := httptest.NewRequest(http.MethodPost, "/models/resnet50/load?log=info", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with info logging, got %d", rec.Code)
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	// Enable CORS temporarily
	SetCORSOptions(true, []string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)

	svc := &mockService{ready: true}
	h := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header Access-Control-Allow-Origin to be set, got empty")
	}
}

func TestLoadTimeoutReturns500(t *testing.T) {
	defer SetLoadTimeoutSeconds(0)
	SetLoadTimeoutSeconds(1)

	svc := &blockService{}
	h := NewMux(svc)
	req := httptest.NewRequest(http.MethodPost, "/models/slow/load", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on timeout, got %d", rec.Code)
	}
}
