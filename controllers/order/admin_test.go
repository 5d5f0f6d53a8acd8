package orderControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
)

func TestStatsHelpersSurfaceQueryErrors(t *testing.T) {
	db := setupTestDB(t)

	if _, err := countWhere(db, "no_such_column = ?", 1); err == nil {
		t.Error("countWhere swallowed the query error")
	}
	if _, err := paidRevenueWhere(db, "no_such_column = ?", 1); err == nil {
		t.Error("paidRevenueWhere swallowed the query error")
	}
}

func TestAdminStatsFailsWhenStoreBroken(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrator().DropTable(&models.Order{}); err != nil {
		t.Fatalf("drop orders table: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/orders/stats", AdminStatsHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/stats", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the store is broken", w.Code)
	}
	var body struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Error("broken store reported success: true")
	}
}

func TestStatusSummaryCountsPerStatus(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	seedOrder(t, db, user.ID, models.OrderStatusPending)
	seedOrder(t, db, user.ID, models.OrderStatusPending)
	seedOrder(t, db, user.ID, models.OrderStatusReady)

	summary, err := statusSummary(db)
	if err != nil {
		t.Fatalf("status summary failed: %v", err)
	}
	if got := summary[string(models.OrderStatusPending)]; got != int64(2) {
		t.Errorf("pending = %v, want 2", got)
	}
	if got := summary[string(models.OrderStatusReady)]; got != int64(1) {
		t.Errorf("ready = %v, want 1", got)
	}
	if got := summary[string(models.OrderStatusCancelled)]; got != int64(0) {
		t.Errorf("cancelled = %v, want 0", got)
	}
}
