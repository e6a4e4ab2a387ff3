package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/LangHelper/internal/middleware"
	"github.com/atinyakov/LangHelper/internal/models"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerUser    *models.User
	registerCreated bool
	registerErr     error

	authUser *models.User
	authOK   bool
	authErr  error

	sessionErr error
	loggedOut  string

	settings    models.Settings
	settingsErr error
}

func (f *fakeAuthService) Register(context.Context, string, string) (*models.User, bool, error) {
	return f.registerUser, f.registerCreated, f.registerErr
}
func (f *fakeAuthService) Authenticate(context.Context, string, string) (*models.User, bool, error) {
	return f.authUser, f.authOK, f.authErr
}
func (f *fakeAuthService) StartSession(_ context.Context, userID int64) (models.Session, error) {
	if f.sessionErr != nil {
		return models.Session{}, f.sessionErr
	}
	return models.Session{Token: "tok", UserID: userID, ExpiresAt: time.Unix(0, 0).UTC()}, nil
}
func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.loggedOut = token
	return nil
}
func (f *fakeAuthService) GetUser(_ context.Context, id int64) (*models.User, bool, error) {
	if id != 7 {
		return nil, false, nil
	}
	return &models.User{ID: 7, Username: "ana", TargetLanguage: "Spanish"}, true, nil
}
func (f *fakeAuthService) UpdateSettings(_ context.Context, id int64, s models.Settings) (*models.User, bool, error) {
	f.settings = s
	if f.settingsErr != nil {
		return nil, false, f.settingsErr
	}
	return &models.User{ID: id, TargetLanguage: s.TargetLanguage}, true, nil
}

type fakeImporter struct {
	calls int
	n     int
}

func (f *fakeImporter) Import(context.Context, int64) int {
	f.calls++
	return f.n
}

type resolverFunc func(ctx context.Context, token string) (int64, bool, error)

func (f resolverFunc) ResolveSession(ctx context.Context, token string) (int64, bool, error) {
	return f(ctx, token)
}

// asUser wraps h with SessionAuth so that it sees userID in its context.
func asUser(h http.HandlerFunc, userID int64) http.Handler {
	return middleware.SessionAuth(resolverFunc(func(context.Context, string) (int64, bool, error) {
		return userID, true, nil
	}))(h)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer tok")
	return req
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
		wantImport     bool
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "empty username",
			body:           `{"username":"","password":"pw"}`,
			service:        &fakeAuthService{registerErr: models.ErrEmptyUsername},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "username cannot be empty",
		},
		{
			name:           "username taken",
			body:           `{"username":"ana","password":"pw"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "user already exists",
		},
		{
			name:           "storage error",
			body:           `{"username":"ana","password":"pw"}`,
			service:        &fakeAuthService{registerErr: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "session error",
			body:           `{"username":"ana","password":"pw"}`,
			service:        &fakeAuthService{registerUser: &models.User{ID: 1}, registerCreated: true, sessionErr: errors.New("x")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "success",
			body:           `{"username":"ana","password":"pw"}`,
			service:        &fakeAuthService{registerUser: &models.User{ID: 1, Username: "ana"}, registerCreated: true},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"token":"tok"`,
			wantImport:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			importer := &fakeImporter{n: 2}
			handler := &AuthHandler{AuthService: tc.service, Importer: importer}
			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			if rec.Code != tc.expectedCode {
				t.Errorf("expected status %d, got %d", tc.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tc.expectedSubstr, rec.Body.String())
			}
			if (importer.calls == 1) != tc.wantImport {
				t.Errorf("import calls = %d; want import = %v", importer.calls, tc.wantImport)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeAuthService
		expectedCode int
	}{
		{"wrong credentials", &fakeAuthService{}, http.StatusUnauthorized},
		{"storage error", &fakeAuthService{authErr: errors.New("db")}, http.StatusInternalServerError},
		{"success", &fakeAuthService{authUser: &models.User{ID: 3, Username: "ana"}, authOK: true}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			importer := &fakeImporter{n: 4}
			handler := &AuthHandler{AuthService: tc.service, Importer: importer}
			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"ana","password":"pw"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			if rec.Code != tc.expectedCode {
				t.Fatalf("expected status %d, got %d", tc.expectedCode, rec.Code)
			}
			if rec.Code != http.StatusOK {
				return
			}
			var resp SessionResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Token != "tok" || resp.User.ID != 3 || resp.Imported != 4 {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	handler := &AuthHandler{AuthService: svc}
	rec := httptest.NewRecorder()

	asUser(handler.Logout, 7).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/api/logout", nil)))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if svc.loggedOut != "tok" {
		t.Errorf("logged out token = %q; want %q", svc.loggedOut, "tok")
	}
}

func TestAuthHandler_Settings(t *testing.T) {
	svc := &fakeAuthService{}
	handler := &AuthHandler{AuthService: svc}

	rec := httptest.NewRecorder()
	asUser(handler.GetSettings, 7).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/settings", nil)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"target_language":"Spanish"`) {
		t.Errorf("get settings: %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("password hash must not be serialized")
	}

	rec = httptest.NewRecorder()
	asUser(handler.GetSettings, 8).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/settings", nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"target_language":"Chinese"}`)
	asUser(handler.UpdateSettings, 7).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPut, "/api/settings", body)))
	if rec.Code != http.StatusOK {
		t.Errorf("update settings: expected 200, got %d", rec.Code)
	}
	if svc.settings.TargetLanguage != "Chinese" {
		t.Errorf("settings passed = %+v", svc.settings)
	}

	rec = httptest.NewRecorder()
	asUser(handler.UpdateSettings, 7).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString("{"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: expected 400, got %d", rec.Code)
	}
}
