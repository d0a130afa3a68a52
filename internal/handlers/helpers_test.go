package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"whatsapp_dashboard/internal/middleware"
	"whatsapp_dashboard/internal/mocks"
	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/validation"
)

var owner = models.Owner{UserID: "7", ClientID: "client_7"}

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
}

type handlerMocks struct {
	auth          *mocks.AuthServiceMock
	dashboard     *mocks.DashboardServiceMock
	notifications *mocks.NotificationServiceMock
	tutorials     *mocks.TutorialServiceMock
	contacts      *mocks.ContactServiceMock
	uploads       *mocks.UploadServiceMock
	fallback      *mocks.FallbackServiceMock
	instances     *mocks.InstanceServiceMock
	groups        *mocks.GroupServiceMock
	campaigns     *mocks.CampaignServiceMock
}

func setupRouter(checks ...HealthCheck) (*gin.Engine, *handlerMocks) {
	m := &handlerMocks{
		auth:          new(mocks.AuthServiceMock),
		dashboard:     new(mocks.DashboardServiceMock),
		notifications: new(mocks.NotificationServiceMock),
		tutorials:     new(mocks.TutorialServiceMock),
		contacts:      new(mocks.ContactServiceMock),
		uploads:       new(mocks.UploadServiceMock),
		fallback:      new(mocks.FallbackServiceMock),
		instances:     new(mocks.InstanceServiceMock),
		groups:        new(mocks.GroupServiceMock),
		campaigns:     new(mocks.CampaignServiceMock),
	}
	apiHandler := NewAPIHandler(APIServices{
		Auth:          m.auth,
		Dashboard:     m.dashboard,
		Notifications: m.notifications,
		Tutorials:     m.tutorials,
		Contacts:      m.contacts,
		Uploads:       m.uploads,
		Fallback:      m.fallback,
		HealthChecks:  checks,
	})
	whatsappHandler := NewWhatsAppHandler(m.instances, m.groups, m.campaigns)

	requireAuth := func(c *gin.Context) {
		middleware.SetSession(c, "tok", &models.Session{
			Token: "tok", UserID: owner.UserID, ClientID: owner.ClientID,
			Email: "ana@example.com", Name: "Ana", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		c.Next()
	}
	noLimit := func(c *gin.Context) { c.Next() }

	r := gin.New()
	RegisterRoutes(r, apiHandler, whatsappHandler, requireAuth, noLimit)
	return r, m
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
