package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/skintrack/internal/model"
)

// mockUploadService はUploadServiceInterfaceのモック実装。
type mockUploadService struct {
	reserveFn func(ctx context.Context, openid, fileName string) (*model.PendingUpload, error)
}

func (m *mockUploadService) Reserve(ctx context.Context, openid, fileName string) (*model.PendingUpload, error) {
	if m.reserveFn != nil {
		return m.reserveFn(ctx, openid, fileName)
	}
	return nil, nil
}

// --- POST /api/uploads テスト ---

func TestUploadHandler_Reserve_Success(t *testing.T) {
	svc := &mockUploadService{
		reserveFn: func(ctx context.Context, openid, fileName string) (*model.PendingUpload, error) {
			if fileName != "face.jpg" {
				t.Errorf("fileName = %q, want %q", fileName, "face.jpg")
			}
			return &model.PendingUpload{
				StorageKey: "detections/2026/9/1/abc",
				OpenID:     openid,
				FileName:   fileName,
				CreatedAt:  time.Now(),
			}, nil
		},
	}

	h := NewUploadHandler(svc)

	body := bytes.NewBufferString(`{"fileName":"face.jpg"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req = withIdentity(req, "openid-1")
	w := httptest.NewRecorder()

	h.Reserve(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	code, _, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Errorf("envelope code = %d, want 0", code)
	}
	if data["storageKey"] != "detections/2026/9/1/abc" {
		t.Errorf("data.storageKey = %v", data["storageKey"])
	}
}

func TestUploadHandler_Reserve_MissingFileName(t *testing.T) {
	svc := &mockUploadService{
		reserveFn: func(ctx context.Context, openid, fileName string) (*model.PendingUpload, error) {
			return nil, model.NewValidationError("fileName")
		},
	}

	h := NewUploadHandler(svc)

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req = withIdentity(req, "openid-1")
	w := httptest.NewRecorder()

	h.Reserve(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUploadHandler_Reserve_NoIdentity(t *testing.T) {
	h := NewUploadHandler(&mockUploadService{})

	body := bytes.NewBufferString(`{"fileName":"face.jpg"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	w := httptest.NewRecorder()

	h.Reserve(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
