package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/config"
	"github.com/tryonlabs/fitpassport/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     4,
	}
}

// Validation rejections never reach the database, so these tests run the
// handlers against repositories bound to a nil connection.

func testShopperHandler() *ShopperHandler {
	return NewShopperHandler(
		repository.NewUserRepo(nil),
		repository.NewPassportRepo(nil),
		repository.NewPhotoRepo(nil),
		repository.NewSessionRepo(nil),
		repository.NewEventRepo(nil),
	)
}

func postJSON(t *testing.T, path, body, uid string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("user_id", uid)
	}
	return c, rec
}

const uid = "c7a9310e-51f2-4b7e-93a4-8a27f1c0de55"

func TestCreatePassportRejectsBadInput(t *testing.T) {
	h := testShopperHandler()
	cases := []struct {
		name string
		body string
	}{
		{"height too low", `{"height_cm":80,"gender":"male"}`},
		{"height too high", `{"height_cm":260,"gender":"male"}`},
		{"weight too low", `{"height_cm":175,"weight_kg":20,"gender":"male"}`},
		{"weight too high", `{"height_cm":175,"weight_kg":400,"gender":"male"}`},
		{"bad gender", `{"height_cm":175,"gender":"robot"}`},
	}
	for _, tc := range cases {
		c, rec := postJSON(t, "/v1/passport", tc.body, uid)
		if err := h.CreatePassport(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

// deadDBHandler binds the repositories to a connection that fails on
// first use. Requests that clear validation reach the repository and
// come back 500 instead of 400, which is enough to show a field default
// was applied without a live database.
func deadDBHandler(t *testing.T) *ShopperHandler {
	t.Helper()
	db, err := sql.Open("mysql", "tester@tcp(127.0.0.1:1)/fitpassport")
	if err != nil {
		t.Fatalf("open dead connection: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewShopperHandler(
		repository.NewUserRepo(db),
		repository.NewPassportRepo(db),
		repository.NewPhotoRepo(db),
		repository.NewSessionRepo(db),
		repository.NewEventRepo(db),
	)
}

func TestCreatePassportDefaultsOmittedGender(t *testing.T) {
	h := deadDBHandler(t)
	c, rec := postJSON(t, "/v1/passport", `{"height_cm":175}`, uid)
	if err := h.CreatePassport(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// The schema defaults gender to 'other', so an omitted field must
	// not be rejected. 500 here means validation passed and the insert
	// hit the unreachable database.
	if rec.Code == http.StatusBadRequest {
		t.Fatalf("omitted gender rejected with 400; want it to default")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 from the dead connection", rec.Code)
	}
}

func TestCreatePhotoDefaultsOmittedType(t *testing.T) {
	h := deadDBHandler(t)
	c, rec := postJSON(t, "/v1/photos", `{"photo_url":"https://cdn.example/p.jpg"}`, uid)
	if err := h.CreatePhoto(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code == http.StatusBadRequest {
		t.Fatalf("omitted photo_type rejected with 400; want it to default")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 from the dead connection", rec.Code)
	}
}

func TestCreatePassportRequiresIdentity(t *testing.T) {
	h := testShopperHandler()
	c, rec := postJSON(t, "/v1/passport", `{"height_cm":175,"gender":"male"}`, "")
	if err := h.CreatePassport(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestUpdateStatusRejectsUnknownState(t *testing.T) {
	h := testShopperHandler()
	c, rec := postJSON(t, "/v1/passport/status", `{"status":"done"}`, uid)
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateMeasurementsRejectsEmptyBody(t *testing.T) {
	h := testShopperHandler()
	c, rec := postJSON(t, "/v1/passport/measurements", `{}`, uid)
	if err := h.UpdateMeasurements(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreatePhotoRejectsBadInput(t *testing.T) {
	h := testShopperHandler()
	cases := []struct {
		name string
		body string
	}{
		{"missing url", `{"photo_type":"front"}`},
		{"bad type", `{"photo_url":"https://cdn.example/p.jpg","photo_type":"selfie"}`},
	}
	for _, tc := range cases {
		c, rec := postJSON(t, "/v1/photos", tc.body, uid)
		if err := h.CreatePhoto(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestCreateSessionRejectsUnknownAction(t *testing.T) {
	h := testShopperHandler()
	c, rec := postJSON(t, "/v1/sessions", `{"action":"hovered"}`, uid)
	if err := h.CreateSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateEventRequiresType(t *testing.T) {
	h := testShopperHandler()
	c, rec := postJSON(t, "/v1/events", `{"event_data":{"k":"v"}}`, uid)
	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBrandRejectsBadInput(t *testing.T) {
	h := NewCatalogHandler(repository.NewBrandRepo(nil), repository.NewGarmentRepo(nil))
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"plan_tier":"starter"}`},
		{"bad plan tier", `{"name":"Acme","plan_tier":"platinum"}`},
	}
	for _, tc := range cases {
		c, rec := postJSON(t, "/v1/brands", tc.body, uid)
		if err := h.CreateBrand(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestAuthRegisterRejectsMissingCredentials(t *testing.T) {
	h := NewAuthHandler(testConfig(), repository.NewUserRepo(nil), repository.NewTokenRepo(nil))
	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"pw"}`} {
		c, rec := postJSON(t, "/v1/auth/register", body, "")
		if err := h.Register(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}
