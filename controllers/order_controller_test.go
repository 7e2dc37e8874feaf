package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/photolab/photolab-api/models"
)

func createCatalogEntry(t *testing.T, db *gorm.DB, name string, price float64, hours int) *models.Service {
	t.Helper()
	service := models.Service{Name: name, Price: price, ProcessingTime: &hours, IsActive: true, Category: "printing"}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func TestCreateOrderEndpoint(t *testing.T) {
	db, storage := setupControllerTest(t)
	router := apiRouter()

	service := createCatalogEntry(t, db, "Photo print 10x15", 15.0, 2)

	// Full client flow: register, login, place an order.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := parseBody(t, w)["data"].(map[string]interface{})["token"].(string)

	t.Run("quantity multiplies the catalog price", func(t *testing.T) {
		w := doMultipart(t, router, token, map[string]string{
			"service_id": fmt.Sprintf("%d", service.ID),
			"quantity":   "3",
			"notes":      "matte finish please",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		data := parseBody(t, w)["data"].(map[string]interface{})
		order := data["order"].(map[string]interface{})
		assert.Equal(t, 45.0, order["total_price"])
		assert.Equal(t, "pending", order["status"])
		assert.Equal(t, "matte finish please", order["notes"])

		number, _ := order["order_number"].(string)
		expectedPrefix := "PL" + time.Now().Format("20060102")
		assert.True(t, len(number) == len(expectedPrefix)+4 && number[:len(expectedPrefix)] == expectedPrefix,
			"order number %q should be %s followed by a 4-digit sequence", number, expectedPrefix)
	})

	t.Run("attachments keep allowed files and drop the rest", func(t *testing.T) {
		w := doMultipart(t, router, token, map[string]string{
			"service_id": fmt.Sprintf("%d", service.ID),
			"quantity":   "1",
		}, map[string][]byte{
			"cat.png":   []byte("png-bytes"),
			"virus.exe": []byte("nope"),
		})
		require.Equal(t, http.StatusCreated, w.Code)

		data := parseBody(t, w)["data"].(map[string]interface{})
		accepted := data["accepted_files"].([]interface{})
		rejected := data["rejected_files"].([]interface{})
		require.Len(t, accepted, 1)
		require.Len(t, rejected, 1)
		assert.Equal(t, "virus.exe", rejected[0])

		order := data["order"].(map[string]interface{})
		orderID := uint(order["id"].(float64))

		var count int64
		require.NoError(t, db.Model(&models.OrderFile{}).Where("order_id = ?", orderID).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var attachment models.OrderFile
		require.NoError(t, db.Where("order_id = ?", orderID).First(&attachment).Error)
		assert.Equal(t, "cat.png", attachment.OriginalFilename)
		assert.True(t, storage.FileExists(attachment.Filename))
	})

	t.Run("unknown service is not found", func(t *testing.T) {
		w := doMultipart(t, router, token, map[string]string{
			"service_id": "9999",
			"quantity":   "1",
		}, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "SERVICE_NOT_FOUND", errorCode(t, w))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		w := doMultipart(t, router, token, map[string]string{
			"service_id": fmt.Sprintf("%d", service.ID),
			"quantity":   "0",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_QUANTITY", errorCode(t, w))
	})

	t.Run("missing service_id rejected", func(t *testing.T) {
		w := doMultipart(t, router, token, map[string]string{"quantity": "1"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		w := doMultipart(t, router, "garbage", map[string]string{
			"service_id": fmt.Sprintf("%d", service.ID),
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	db, _ := setupControllerTest(t)
	router := apiRouter()

	service := createCatalogEntry(t, db, "Film develop", 40.0, 48)
	alice := createAccount(t, db, "alice", models.RoleClient)
	employee := createAccount(t, db, "employee", models.RoleEmployee)

	w := doMultipart(t, router, tokenFor(t, alice), map[string]string{
		"service_id": fmt.Sprintf("%d", service.ID),
		"quantity":   "1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	order := parseBody(t, w)["data"].(map[string]interface{})["order"].(map[string]interface{})
	path := fmt.Sprintf("/api/v1/orders/%d/status", uint(order["id"].(float64)))

	t.Run("clients may not transition", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, path, tokenFor(t, alice), gin.H{"status": "processing"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})

	t.Run("staff transition and completion stamps the clock", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, path, tokenFor(t, employee), gin.H{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code)

		data := parseBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "completed", data["status"])
		require.NotNil(t, data["completed_at"])
		completedAt := data["completed_at"]

		// Moving backward keeps the original completion timestamp.
		w = doJSON(t, router, http.MethodPost, path, tokenFor(t, employee), gin.H{"status": "processing"})
		require.Equal(t, http.StatusOK, w.Code)

		data = parseBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "processing", data["status"])
		assert.Equal(t, completedAt, data["completed_at"])
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, path, tokenFor(t, employee), gin.H{"status": "vanished"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATUS", errorCode(t, w))
	})

	t.Run("unknown order not found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/orders/9999/status", tokenFor(t, employee), gin.H{"status": "ready"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListSearchAndVisibility(t *testing.T) {
	db, _ := setupControllerTest(t)
	router := apiRouter()

	service := createCatalogEntry(t, db, "Scans", 10.0, 6)
	alice := createAccount(t, db, "alice", models.RoleClient)
	bob := createAccount(t, db, "bob", models.RoleClient)
	employee := createAccount(t, db, "employee", models.RoleEmployee)

	place := func(token, notes string) map[string]interface{} {
		w := doMultipart(t, router, token, map[string]string{
			"service_id": fmt.Sprintf("%d", service.ID),
			"quantity":   "1",
			"notes":      notes,
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		return parseBody(t, w)["data"].(map[string]interface{})["order"].(map[string]interface{})
	}

	aliceOrder := place(tokenFor(t, alice), "wedding scans")
	bobOrder := place(tokenFor(t, bob), "passport photos")

	t.Run("clients see only their own orders", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/orders", tokenFor(t, alice), nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := parseBody(t, w)["data"].([]interface{})
		require.Len(t, data, 1)
		entry := data[0].(map[string]interface{})
		assert.Equal(t, aliceOrder["order_number"], entry["order_number"])
	})

	t.Run("staff see every order", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/orders", tokenFor(t, employee), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, parseBody(t, w)["data"].([]interface{}), 2)
	})

	t.Run("search matches notes within the caller's scope", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/orders/search?q=passport", tokenFor(t, alice), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, parseBody(t, w)["data"])

		w = doJSON(t, router, http.MethodGet, "/api/v1/orders/search?q=passport", tokenFor(t, employee), nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := parseBody(t, w)["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, bobOrder["order_number"], data[0].(map[string]interface{})["order_number"])
	})

	t.Run("search combines text and status", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/orders/search?q=scans&status=completed", tokenFor(t, employee), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, parseBody(t, w)["data"])
	})

	t.Run("clients cannot fetch foreign orders", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/orders/%d", uint(bobOrder["id"].(float64)))
		w := doJSON(t, router, http.MethodGet, path, tokenFor(t, alice), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, router, http.MethodGet, path, tokenFor(t, employee), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("export returns a flat array of summaries", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/orders/export", tokenFor(t, employee), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summaries []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
		require.Len(t, summaries, 2)
		assert.Contains(t, summaries[0], "order_number")
		assert.Contains(t, summaries[0], "customer")
		assert.Contains(t, summaries[0], "total_price")
	})
}

func TestDashboardStatsEndpoint(t *testing.T) {
	db, _ := setupControllerTest(t)
	router := apiRouter()

	service := createCatalogEntry(t, db, "Prints", 20.0, 2)
	alice := createAccount(t, db, "alice", models.RoleClient)
	bob := createAccount(t, db, "bob", models.RoleClient)
	admin := createAccount(t, db, "admin", models.RoleAdmin)

	var lastOrderID uint
	for _, token := range []string{tokenFor(t, alice), tokenFor(t, alice), tokenFor(t, bob)} {
		w := doMultipart(t, router, token, map[string]string{
			"service_id": fmt.Sprintf("%d", service.ID),
			"quantity":   "1",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		order := parseBody(t, w)["data"].(map[string]interface{})["order"].(map[string]interface{})
		lastOrderID = uint(order["id"].(float64))
	}

	// Revenue only counts completed orders.
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/status", lastOrderID),
		tokenFor(t, admin), gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("staff get ledger-wide stats with revenue", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/dashboard/stats", tokenFor(t, admin), nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := parseBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, 3.0, data["total_orders"])
		assert.Equal(t, 2.0, data["pending_orders"])
		assert.Equal(t, 20.0, data["total_revenue"])
	})

	t.Run("clients get their own counters", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/dashboard/stats", tokenFor(t, alice), nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := parseBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, 2.0, data["total_orders"])
	})
}
