package register

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"dining-backend/internal/domain"
	"dining-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.Transaction{}, &models.CashOut{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTransaction(t *testing.T, db *gorm.DB, amount float64, method models.PaymentMethod, at time.Time) models.Transaction {
	t.Helper()
	tx := models.Transaction{
		OrderID:       fmt.Sprintf("order-%d", at.UnixNano()),
		Amount:        amount,
		PaymentMethod: method,
		Status:        models.TransactionStatusCompleted,
		CreatedAt:     at,
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return tx
}

func TestPreviewSplitsByMethod(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	now := time.Now()

	seedTransaction(t, db, 25, models.PaymentMethodCash, now.Add(-3*time.Hour))
	seedTransaction(t, db, 40, models.PaymentMethodCard, now.Add(-2*time.Hour))
	seedTransaction(t, db, 10, models.PaymentMethodCash, now.Add(-1*time.Hour))

	summary, err := svc.PreviewPending()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if summary.Since != nil {
		t.Fatalf("expected open-ended window got since %v", summary.Since)
	}
	if summary.TotalCash != 35 {
		t.Fatalf("expected cash 35 got %v", summary.TotalCash)
	}
	if summary.TotalCard != 40 {
		t.Fatalf("expected card 40 got %v", summary.TotalCard)
	}
	if len(summary.Transactions) != 3 {
		t.Fatalf("expected 3 transactions got %d", len(summary.Transactions))
	}
}

func TestPreviewIgnoresNonCompleted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	now := time.Now()

	seedTransaction(t, db, 25, models.PaymentMethodCash, now.Add(-time.Hour))
	failed := models.Transaction{
		OrderID:       "order-failed",
		Amount:        99,
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.TransactionStatusFailed,
		CreatedAt:     now.Add(-time.Hour),
	}
	if err := db.Create(&failed).Error; err != nil {
		t.Fatalf("seed failed transaction: %v", err)
	}

	summary, err := svc.PreviewPending()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if summary.TotalCash != 25 || len(summary.Transactions) != 1 {
		t.Fatalf("failed transactions must not settle: cash %v count %d", summary.TotalCash, len(summary.Transactions))
	}
}

func TestCloseFirstCashOut(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	now := time.Now()

	first := seedTransaction(t, db, 25, models.PaymentMethodCash, now.Add(-2*time.Hour))
	seedTransaction(t, db, 15, models.PaymentMethodCard, now.Add(-1*time.Hour))

	cashOut, err := svc.Close()
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if cashOut.InitialAmount != 0 {
		t.Fatalf("first cash-out starts at 0, got %v", cashOut.InitialAmount)
	}
	if cashOut.TotalCash != 25 || cashOut.TotalCard != 15 {
		t.Fatalf("expected 25/15 got %v/%v", cashOut.TotalCash, cashOut.TotalCard)
	}
	if cashOut.FinalAmount != 40 {
		t.Fatalf("expected final 40 got %v", cashOut.FinalAmount)
	}
	if !cashOut.StartTime.Equal(first.CreatedAt) {
		t.Fatalf("window must start at the earliest transaction, got %v", cashOut.StartTime)
	}
	if cashOut.EndTime.Before(cashOut.StartTime) {
		t.Fatalf("window end %v before start %v", cashOut.EndTime, cashOut.StartTime)
	}
}

func TestCloseChainsFromPrevious(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	now := time.Now()

	seedTransaction(t, db, 30, models.PaymentMethodCash, now.Add(-2*time.Hour))
	prior, err := svc.Close()
	if err != nil {
		t.Fatalf("first close: %v", err)
	}

	seedTransaction(t, db, 20, models.PaymentMethodCard, now.Add(time.Second))
	next, err := svc.Close()
	if err != nil {
		t.Fatalf("second close: %v", err)
	}

	if next.InitialAmount != prior.FinalAmount {
		t.Fatalf("expected initial %v got %v", prior.FinalAmount, next.InitialAmount)
	}
	if !next.StartTime.Equal(prior.EndTime) {
		t.Fatalf("windows must chain: prior end %v next start %v", prior.EndTime, next.StartTime)
	}
	if next.TotalCash != 0 || next.TotalCard != 20 {
		t.Fatalf("settled transactions must not be counted again: %v/%v", next.TotalCash, next.TotalCard)
	}
	if next.FinalAmount != 50 {
		t.Fatalf("expected final 50 got %v", next.FinalAmount)
	}
}

func TestCloseWithNothingPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	now := time.Now()

	seedTransaction(t, db, 30, models.PaymentMethodCash, now.Add(-time.Hour))
	if _, err := svc.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	// Immediately closing again has nothing to settle.
	_, err := svc.Close()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error got %v", err)
	}

	var count int64
	db.Model(&models.CashOut{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single cash-out got %d", count)
	}
}

func TestPreviewAfterCloseIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	now := time.Now()

	seedTransaction(t, db, 30, models.PaymentMethodCash, now.Add(-time.Hour))
	cashOut, err := svc.Close()
	if err != nil {
		t.Fatalf("close: %v", err)
	}

	summary, err := svc.PreviewPending()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if summary.Since == nil || !summary.Since.Equal(cashOut.EndTime) {
		t.Fatalf("expected window starting at %v got %v", cashOut.EndTime, summary.Since)
	}
	if len(summary.Transactions) != 0 {
		t.Fatalf("settled transactions leaked into the next preview: %d", len(summary.Transactions))
	}
}
