package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/photolab/photolab-api/config"
	"github.com/photolab/photolab-api/middleware"
	"github.com/photolab/photolab-api/models"
	"github.com/photolab/photolab-api/services"
)

// setupControllerTest wires an in-memory database and a mock file storage
// into the globals the handlers read from.
func setupControllerTest(t *testing.T) (*gorm.DB, *services.MockFileStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Service{}, &models.Order{}, &models.OrderFile{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{GoEnv: "test", UploadDir: t.TempDir()})

	storage := services.NewMockFileStorage()
	storage.SetAsMockForTesting()

	return db, storage
}

// apiRouter registers the same routes as the server for handler tests.
func apiRouter() *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", Register)
		v1.POST("/auth/login", Login)
		v1.POST("/auth/logout", Logout)
		v1.GET("/uploads/:filename", DownloadAttachment)

		authed := v1.Group("", middleware.RequireAuth())
		{
			authed.GET("/users/me", GetMyProfile)
			authed.PUT("/users/me", UpdateMyProfile)

			authed.GET("/services", ListServices)
			authed.POST("/services", CreateService)
			authed.PUT("/services/:id", UpdateService)

			authed.POST("/orders", CreateOrder)
			authed.GET("/orders", ListOrders)
			authed.GET("/orders/search", SearchOrders)
			authed.GET("/orders/export", ExportOrders)
			authed.GET("/orders/:id", GetOrder)
			authed.POST("/orders/:id/status", UpdateOrderStatus)

			authed.GET("/dashboard/stats", GetDashboardStats)
		}
	}
	return router
}

func createAccount(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := services.HashPassword("pw123")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := parseBody(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected an error envelope, got %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// multipartOrder builds the multipart create-order request body.
func multipartOrder(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, content := range files {
		fw, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doMultipart(t *testing.T, router *gin.Engine, token string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartOrder(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
