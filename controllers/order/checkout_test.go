package orderControllers

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/soereshchotkan/afhaalrestaurant-website/config"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.CartItem{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{TaxRate: 0.09, MinOrderAmount: 15.00}
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Jan de Vries", Email: email, Phone: "0612345678"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, IsAvailable: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedCartLine(t *testing.T, db *gorm.DB, userID uint, product models.Product, qty int, instructions string) models.CartItem {
	t.Helper()
	item := models.CartItem{
		UserID:              userID,
		ProductID:           product.ID,
		Quantity:            qty,
		Price:               product.Price,
		SpecialInstructions: instructions,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
	return item
}

func validRequest() CheckoutRequest {
	return CheckoutRequest{
		CustomerName:  "Jan de Vries",
		CustomerPhone: "0612345678",
		CustomerEmail: "jan@example.com",
		PickupTime:    time.Now().Add(time.Hour),
		PaymentMethod: "ideal",
	}
}

func cartLineCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count cart lines: %v", err)
	}
	return count
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCheckoutSuccess(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	pizza := seedProduct(t, db, "Pizza Margherita", 9.50)
	cola := seedProduct(t, db, "Cola", 2.50)
	seedCartLine(t, db, user.ID, pizza, 2, "extra cheese")
	seedCartLine(t, db, user.ID, cola, 1, "")

	order, err := Checkout(db, testConfig(), user.ID, validRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !almostEqual(order.Subtotal, 21.50) {
		t.Errorf("subtotal = %v, want 21.50", order.Subtotal)
	}
	if !almostEqual(order.TaxAmount, 1.94) {
		t.Errorf("tax = %v, want 1.94", order.TaxAmount)
	}
	if !almostEqual(order.TotalAmount, 23.44) {
		t.Errorf("total = %v, want 23.44", order.TotalAmount)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("payment status = %s, want pending", order.PaymentStatus)
	}

	wantNumber := fmt.Sprintf("ORD-%s-0001", time.Now().Format("20060102"))
	if order.OrderNumber != wantNumber {
		t.Errorf("order number = %s, want %s", order.OrderNumber, wantNumber)
	}

	if len(order.Items) != 2 {
		t.Fatalf("order has %d items, want 2", len(order.Items))
	}
	for _, item := range order.Items {
		if !almostEqual(item.Total, float64(item.Quantity)*item.Price) {
			t.Errorf("item total %v != quantity %d * price %v", item.Total, item.Quantity, item.Price)
		}
		if item.ProductID == pizza.ID && item.Notes != "extra cheese" {
			t.Errorf("instructions not copied onto order item, got %q", item.Notes)
		}
	}

	if n := cartLineCount(t, db, user.ID); n != 0 {
		t.Errorf("cart still has %d lines after checkout", n)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")

	_, err := Checkout(db, testConfig(), user.ID, validRequest())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("%d orders created from an empty cart", orders)
	}
}

func TestCheckoutMinimumNotMet(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	fries := seedProduct(t, db, "Friet", 5.00)
	seedCartLine(t, db, user.ID, fries, 1, "")

	_, err := Checkout(db, testConfig(), user.ID, validRequest())

	var minimumErr *MinimumOrderError
	if !errors.As(err, &minimumErr) {
		t.Fatalf("err = %v, want MinimumOrderError", err)
	}
	// 5.00 + 9% = 5.45, so 9.55 short of 15.00
	if !almostEqual(minimumErr.CurrentTotal, 5.45) {
		t.Errorf("current total = %v, want 5.45", minimumErr.CurrentTotal)
	}
	if !almostEqual(minimumErr.Shortfall(), 9.55) {
		t.Errorf("shortfall = %v, want 9.55", minimumErr.Shortfall())
	}

	// Cart must be untouched
	var line models.CartItem
	if err := db.Where("user_id = ?", user.ID).First(&line).Error; err != nil {
		t.Fatalf("cart line gone after rejected checkout: %v", err)
	}
	if line.Quantity != 1 {
		t.Errorf("cart quantity changed to %d", line.Quantity)
	}
}

func TestCheckoutValidation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	pizza := seedProduct(t, db, "Pizza", 20.00)
	seedCartLine(t, db, user.ID, pizza, 1, "")

	req := validRequest()
	req.CustomerName = ""
	req.PickupTime = time.Now().Add(-time.Hour)
	req.PaymentMethod = "bitcoin"

	_, err := Checkout(db, testConfig(), user.ID, req)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"customer_name", "pickup_time", "payment_method"} {
		if _, ok := validationErr.Fields[field]; !ok {
			t.Errorf("missing validation detail for %s", field)
		}
	}

	if n := cartLineCount(t, db, user.ID); n != 1 {
		t.Errorf("cart changed by rejected checkout, %d lines", n)
	}
}

func TestCheckoutUsesSnapshotPrice(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	pizza := seedProduct(t, db, "Pizza", 10.00)
	seedCartLine(t, db, user.ID, pizza, 2, "")

	// Menu price changes after the line was added
	if err := db.Model(&models.Product{}).Where("id = ?", pizza.ID).
		Update("price", 99.00).Error; err != nil {
		t.Fatal(err)
	}

	order, err := Checkout(db, testConfig(), user.ID, validRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !almostEqual(order.Subtotal, 20.00) {
		t.Errorf("subtotal = %v, want 20.00 from the snapshot price", order.Subtotal)
	}
}

func TestOrderNumbersAreSequentialAndDistinct(t *testing.T) {
	db := setupTestDB(t)
	pizza := seedProduct(t, db, "Pizza", 20.00)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		user := seedUser(t, db, fmt.Sprintf("user%d@example.com", i))
		seedCartLine(t, db, user.ID, pizza, 1, "")

		order, err := Checkout(db, testConfig(), user.ID, validRequest())
		if err != nil {
			t.Fatalf("checkout %d failed: %v", i, err)
		}
		if seen[order.OrderNumber] {
			t.Fatalf("duplicate order number %s", order.OrderNumber)
		}
		seen[order.OrderNumber] = true

		want := fmt.Sprintf("ORD-%s-%04d", time.Now().Format("20060102"), i+1)
		if order.OrderNumber != want {
			t.Errorf("order number = %s, want %s", order.OrderNumber, want)
		}
	}
}

func TestCheckoutRetriesWhenOrderNumberTaken(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	pizza := seedProduct(t, db, "Pizza", 20.00)
	seedCartLine(t, db, user.ID, pizza, 1, "")

	// A rival claims the freshly generated number right before the
	// insert, on the same transaction connection, so the unique index
	// trips and the whole unit has to run again. The rival rolls back
	// with the failed attempt, which is exactly the race two parallel
	// checkouts would produce.
	taken := false
	err := db.Callback().Create().Before("gorm:create").Register("claim_order_number", func(tx *gorm.DB) {
		order, ok := tx.Statement.Dest.(*models.Order)
		if !ok || taken || order.OrderNumber == "" {
			return
		}
		taken = true
		rival := models.Order{
			OrderNumber:   order.OrderNumber,
			UserID:        user.ID,
			CustomerName:  "Rivaal",
			CustomerPhone: "0687654321",
			PickupTime:    time.Now().Add(time.Hour),
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			t.Errorf("claim rival number: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	order, err := Checkout(db, testConfig(), user.ID, validRequest())
	if err != nil {
		t.Fatalf("checkout did not survive the collision: %v", err)
	}
	if !taken {
		t.Fatal("collision was never forced")
	}

	want := fmt.Sprintf("ORD-%s-0001", time.Now().Format("20060102"))
	if order.OrderNumber != want {
		t.Errorf("order number = %s, want %s", order.OrderNumber, want)
	}

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 1 {
		t.Errorf("%d orders after retried checkout, want 1", orders)
	}
	if len(order.Items) != 1 {
		t.Errorf("order has %d items, want 1", len(order.Items))
	}
	if n := cartLineCount(t, db, user.ID); n != 0 {
		t.Errorf("cart still has %d lines after retried checkout", n)
	}
}

func TestOrderNumberSkipsPastExisting(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jan@example.com")
	pizza := seedProduct(t, db, "Pizza", 20.00)
	seedCartLine(t, db, user.ID, pizza, 1, "")

	// An order numbered 0002 already exists, so count+1 (0002) collides
	// and the generator must walk onward.
	existing := models.Order{
		OrderNumber:   fmt.Sprintf("ORD-%s-0002", time.Now().Format("20060102")),
		UserID:        user.ID,
		CustomerName:  "X",
		CustomerPhone: "Y",
		PickupTime:    time.Now().Add(time.Hour),
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatal(err)
	}

	order, err := Checkout(db, testConfig(), user.ID, validRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	want := fmt.Sprintf("ORD-%s-0003", time.Now().Format("20060102"))
	if order.OrderNumber != want {
		t.Errorf("order number = %s, want %s", order.OrderNumber, want)
	}
}
