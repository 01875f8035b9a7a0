package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/celebrelabs/celebre-backend/api/middleware"
	"github.com/celebrelabs/celebre-backend/internal/admin"
	"github.com/celebrelabs/celebre-backend/internal/ratelimit"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
)

type stubInspect struct {
	result *admin.InspectResult
	err    error

	gotCaller    *identity.Token
	gotSupplier  string
	gotEventDate string
}

func (s *stubInspect) Inspect(ctx context.Context, caller *identity.Token, supplierID, eventDate string) (*admin.InspectResult, error) {
	s.gotCaller = caller
	s.gotSupplier = supplierID
	s.gotEventDate = eventDate
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubMetrics struct {
	report *ratelimit.Report
	err    error

	gotHoursBack int
}

func (s *stubMetrics) Export(ctx context.Context, caller *identity.Token, hoursBack int) (*ratelimit.Report, error) {
	s.gotHoursBack = hoursBack
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithToken(req.Context(), &identity.Token{UID: "admin-1"})
	return req.WithContext(ctx)
}

func TestAdminInspectSupplierPassesCaller(t *testing.T) {
	svc := &stubInspect{result: &admin.InspectResult{SupplierID: "sup-1", Eligible: true}}
	handler := AdminInspectSupplier(svc, nil)

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/admin/v1/suppliers/inspect", `{"supplier_id":"sup-1"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotCaller == nil || svc.gotCaller.UID != "admin-1" {
		t.Fatalf("caller not forwarded: %+v", svc.gotCaller)
	}
	if svc.gotSupplier != "sup-1" || svc.gotEventDate != "" {
		t.Fatalf("unexpected args %q %q", svc.gotSupplier, svc.gotEventDate)
	}

	var envelope struct {
		Data admin.InspectResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.SupplierID != "sup-1" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAdminInspectSupplierValidation(t *testing.T) {
	cases := []string{
		`{}`,
		`{"supplier_id":"sup-1","event_date":"junk"}`,
		`{"supplier_id":"sup-1","unknown":true}`,
	}
	for _, body := range cases {
		svc := &stubInspect{}
		rec := httptest.NewRecorder()
		AdminInspectSupplier(svc, nil)(rec, authedRequest(http.MethodPost, "/api/admin/v1/suppliers/inspect", body))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status %d", body, rec.Code)
		}
	}
}

func TestAdminInspectSupplierNotFound(t *testing.T) {
	svc := &stubInspect{err: pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")}

	rec := httptest.NewRecorder()
	AdminInspectSupplier(svc, nil)(rec, authedRequest(http.MethodPost, "/api/admin/v1/suppliers/inspect", `{"supplier_id":"ghost"}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestAdminRateLimitMetricsDefaultsHoursBack(t *testing.T) {
	svc := &stubMetrics{report: &ratelimit.Report{HoursBack: 24}}

	rec := httptest.NewRecorder()
	AdminRateLimitMetrics(svc, nil)(rec, authedRequest(http.MethodGet, "/api/admin/v1/rate-limits/metrics", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotHoursBack != 0 {
		t.Fatalf("absent query must forward zero for the service default, got %d", svc.gotHoursBack)
	}
}

func TestAdminRateLimitMetricsParsesQuery(t *testing.T) {
	svc := &stubMetrics{report: &ratelimit.Report{HoursBack: 48}}

	rec := httptest.NewRecorder()
	AdminRateLimitMetrics(svc, nil)(rec, authedRequest(http.MethodGet, "/api/admin/v1/rate-limits/metrics?hours_back=48", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if svc.gotHoursBack != 48 {
		t.Fatalf("got %d", svc.gotHoursBack)
	}
}

func TestAdminRateLimitMetricsRejectsNonNumericQuery(t *testing.T) {
	svc := &stubMetrics{}

	rec := httptest.NewRecorder()
	AdminRateLimitMetrics(svc, nil)(rec, authedRequest(http.MethodGet, "/api/admin/v1/rate-limits/metrics?hours_back=abc", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestAdminRateLimitMetricsForbiddenPassThrough(t *testing.T) {
	svc := &stubMetrics{err: pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")}

	rec := httptest.NewRecorder()
	AdminRateLimitMetrics(svc, nil)(rec, authedRequest(http.MethodGet, "/api/admin/v1/rate-limits/metrics", ""))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d", rec.Code)
	}
}
