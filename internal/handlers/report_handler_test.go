package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

type stubReportService struct {
	payload string
	err     error
}

func (s *stubReportService) ExportUsers(ctx context.Context, actor *models.User, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write([]byte(s.payload))
	return err
}

func (s *stubReportService) ExportBorrows(ctx context.Context, actor *models.User, w io.Writer) error {
	return s.ExportUsers(ctx, actor, w)
}

func newReportTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/reports/users.xlsx", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	c.Request = req
	return c, rec
}

func handlerTestLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReportHandler_ExportUsers(t *testing.T) {
	t.Run("SuccessServesWorkbook", func(t *testing.T) {
		h := NewReportHandler(&stubReportService{payload: "workbook-bytes"}, handlerTestLogger())
		c, rec := newReportTestContext(t)

		h.ExportUsers(c)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Errorf("Expected xlsx content type, got %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "users.xlsx") {
			t.Errorf("Expected attachment disposition, got %q", cd)
		}
		if rec.Body.String() != "workbook-bytes" {
			t.Errorf("Body mismatch: %q", rec.Body.String())
		}
	})

	t.Run("PermissionDeniedServesJSONError", func(t *testing.T) {
		denied := services.NewPermissionError(7, 0, "report", "export", "requires staff access")
		h := NewReportHandler(&stubReportService{err: denied}, handlerTestLogger())
		c, rec := newReportTestContext(t)

		h.ExportUsers(c)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Error response should carry a JSON content type, got %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != "" {
			t.Errorf("Error response should not carry an attachment disposition, got %q", cd)
		}
	})
}
