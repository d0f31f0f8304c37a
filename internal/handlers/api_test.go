package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/mail"
	"github.com/jsvasan/health-registration-api/internal/services"
	"github.com/jsvasan/health-registration-api/internal/store"
)

type discardSender struct{}

func (discardSender) Send(context.Context, mail.Message) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	notifier := services.NewNotificationService(discardSender{}, logger)
	t.Cleanup(notifier.Close)

	adminSvc := services.NewAdminService(store.NewMemoryAdminStore(), notifier, logger)
	regSvc := services.NewRegistrationService(store.NewMemoryRegistrationStore(), adminSvc, notifier, logger)

	h := NewHandler(regSvc, adminSvc, "test-secret", logger)
	return NewRouter(h, "*")
}

func doJSON(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registrationBody(phone string) map[string]any {
	return map[string]any{
		"personalInfo": map[string]any{
			"registrantName":      "John Doe",
			"registrantAptNumber": "A101",
			"dateOfBirth":         "15/01/1990",
			"registrantPhone":     phone,
			"bloodGroup":          "O+",
			"insurancePolicy":     "INS123456",
			"insuranceCompany":    "Health Corp",
			"doctorName":          "Dr. Smith",
			"doctorContact":       "+1555123456",
			"hospitalName":        "City Hospital",
			"hospitalNumber":      "H789",
			"currentAilments":     "None",
		},
		"buddies": []map[string]any{
			{"name": "Alice", "phone": "+1555111111", "email": "alice@test.com", "aptNumber": "B202"},
			{"name": "Bob", "phone": "+1555222222", "email": "bob@test.com", "aptNumber": "C303"},
		},
		"nextOfKin": []map[string]any{
			{"name": "Jane", "phone": "+1555333333", "email": "jane@test.com"},
		},
	}
}

func adminBody() map[string]any {
	return map[string]any{
		"name":     "Test Admin",
		"phone":    "+1234567890",
		"email":    "admin@test.com",
		"password": "AdminPass123!",
	}
}

func registerAdmin(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/admin/register", adminBody(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSubmitThenResubmitSamePhone(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/registrations", registrationBody("+1-555-0101"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID           string `json:"id"`
		WasUpdate    bool   `json:"wasUpdate"`
		CreatedAt    string `json:"createdAt"`
		PersonalInfo struct {
			BloodGroup string `json:"bloodGroup"`
		} `json:"personalInfo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.WasUpdate)
	assert.NotEmpty(t, created.ID)

	body := registrationBody("+1-555-0101")
	body["personalInfo"].(map[string]any)["bloodGroup"] = "A+"
	w = doJSON(router, http.MethodPost, "/api/registrations", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		ID           string `json:"id"`
		WasUpdate    bool   `json:"wasUpdate"`
		CreatedAt    string `json:"createdAt"`
		PersonalInfo struct {
			BloodGroup string `json:"bloodGroup"`
		} `json:"personalInfo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.WasUpdate)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "A+", updated.PersonalInfo.BloodGroup)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestSubmitInvalidCounts(t *testing.T) {
	router := newTestRouter(t)

	body := registrationBody("+1-555-0102")
	body["buddies"] = []map[string]any{}
	w := doJSON(router, http.MethodPost, "/api/registrations", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = registrationBody("+1-555-0102")
	body["nextOfKin"] = []map[string]any{}
	w = doJSON(router, http.MethodPost, "/api/registrations", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was written.
	w = doJSON(router, http.MethodGet, "/api/registrations", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var regs []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &regs))
	assert.Empty(t, regs)
}

func TestGetRegistrationByID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/registrations/invalid_id", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/registrations/507f1f77bcf86cd799439011", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/api/registrations", registrationBody("+1-555-0103"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodGet, "/api/registrations/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRegisterTwice(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/admin/register", adminBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	// The password hash never appears in any response body.
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "AdminPass123!")

	w = doJSON(router, http.MethodPost, "/api/admin/register", adminBody(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/admin", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestVerifyPassword(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/admin/verify-password", map[string]any{"password": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	registerAdmin(t, router)

	w = doJSON(router, http.MethodPost, "/api/admin/verify-password", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/verify-password", map[string]any{"password": "WrongPassword"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/verify-password", map[string]any{"password": "AdminPass123!"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Verified bool   `json:"verified"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
	assert.NotEmpty(t, resp.Token)
}

func TestDeleteRegistrationPasswordGate(t *testing.T) {
	router := newTestRouter(t)
	registerAdmin(t, router)

	w := doJSON(router, http.MethodPost, "/api/registrations", registrationBody("+1-555-0104"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodDelete, "/api/registrations/"+created.ID,
		map[string]any{"password": "WrongPassword"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Still there after the rejected delete.
	w = doJSON(router, http.MethodGet, "/api/registrations/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/registrations/"+created.ID,
		map[string]any{"password": "AdminPass123!"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		DeletedID string `json:"deleted_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, created.ID, deleted.DeletedID)

	w = doJSON(router, http.MethodGet, "/api/registrations/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRegistrationByAdmin(t *testing.T) {
	router := newTestRouter(t)
	registerAdmin(t, router)

	w := doJSON(router, http.MethodPost, "/api/registrations", registrationBody("+1-555-0105"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	update := registrationBody("+1-555-0105")
	update["password"] = "AdminPass123!"
	update["personalInfo"].(map[string]any)["bloodGroup"] = "AB-"

	w = doJSON(router, http.MethodPut, "/api/registrations/invalid_id", update, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := registrationBody("+1-555-0105")
	bad["password"] = "WrongPassword"
	w = doJSON(router, http.MethodPut, "/api/registrations/"+created.ID, bad, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tooMany := registrationBody("+1-555-0105")
	tooMany["password"] = "AdminPass123!"
	tooMany["buddies"] = []map[string]any{
		{"name": "B1", "phone": "+1", "email": "b1@test.com", "aptNumber": "A1"},
		{"name": "B2", "phone": "+1", "email": "b2@test.com", "aptNumber": "A2"},
		{"name": "B3", "phone": "+1", "email": "b3@test.com", "aptNumber": "A3"},
	}
	w = doJSON(router, http.MethodPut, "/api/registrations/"+created.ID, tooMany, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/api/registrations/"+created.ID, update, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		PersonalInfo struct {
			BloodGroup string `json:"bloodGroup"`
		} `json:"personalInfo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "AB-", updated.PersonalInfo.BloodGroup)
}

func TestAdditionalEmailsFlow(t *testing.T) {
	router := newTestRouter(t)
	registerAdmin(t, router)

	w := doJSON(router, http.MethodPut, "/api/admin/additional-emails", map[string]any{
		"password":          "AdminPass123!",
		"additional_emails": []string{"a@test.com", "b@test.com", "c@test.com"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/api/admin/additional-emails", map[string]any{
		"password":          "WrongPassword",
		"additional_emails": []string{"a@test.com"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPut, "/api/admin/additional-emails", map[string]any{
		"password":          "AdminPass123!",
		"additional_emails": []string{"a@test.com", "b@test.com"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/admin", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var admin struct {
		AdditionalEmails []string `json:"additional_emails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &admin))
	assert.Equal(t, []string{"a@test.com", "b@test.com"}, admin.AdditionalEmails)
}

func TestDeleteAdmin(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodDelete, "/api/admin/delete",
		map[string]any{"email": "admin@test.com", "password": "AdminPass123!"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	registerAdmin(t, router)

	w = doJSON(router, http.MethodDelete, "/api/admin/delete",
		map[string]any{"email": "admin@test.com", "password": "WrongPassword"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/admin/delete",
		map[string]any{"email": "admin@test.com", "password": "AdminPass123!"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Registration is open again.
	w = doJSON(router, http.MethodPost, "/api/admin/register", adminBody(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportRequiresToken(t *testing.T) {
	router := newTestRouter(t)
	registerAdmin(t, router)

	w := doJSON(router, http.MethodPost, "/api/registrations", registrationBody("+1-555-0106"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/registrations/export", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/registrations/export", nil,
		map[string]string{"Authorization": "Bearer bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/verify-password",
		map[string]any{"password": "AdminPass123!"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(router, http.MethodGet, "/api/registrations/export", nil,
		map[string]string{"Authorization": "Bearer " + resp.Token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "registrations-")
	assert.NotEmpty(t, w.Body.Bytes())
}
