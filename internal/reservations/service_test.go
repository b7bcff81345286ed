package reservations

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
	if err := db.AutoMigrate(&models.Table{}, &models.MenuItem{}, &models.Order{}, &models.Transaction{}, &models.Reservation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for id := uint(1); id <= 4; id++ {
		if err := db.Create(&models.Table{ID: id, Status: models.TableStatusAvailable}).Error; err != nil {
			t.Fatalf("seed table: %v", err)
		}
	}
	return db
}

func newTestService(db *gorm.DB) *Service {
	return NewService(db, 2*time.Hour)
}

func confirmedReservation(t *testing.T, svc *Service, tableID uint, at time.Time) *models.Reservation {
	t.Helper()
	r, err := svc.Create(CreateInput{
		CustomerName:    "Ana",
		ContactInfo:     "555-0100",
		TableID:         &tableID,
		ReservationTime: at,
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return r
}

func TestCreateReservationValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	at := time.Now().Add(24 * time.Hour)

	if _, err := svc.Create(CreateInput{ContactInfo: "x", ReservationTime: at}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing name got %v", err)
	}
	if _, err := svc.Create(CreateInput{CustomerName: "Ana", ReservationTime: at}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing contact got %v", err)
	}
	if _, err := svc.Create(CreateInput{CustomerName: "Ana", ContactInfo: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for zero time got %v", err)
	}

	badTable := uint(99)
	if _, err := svc.Create(CreateInput{CustomerName: "Ana", ContactInfo: "x", TableID: &badTable, ReservationTime: at}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown table got %v", err)
	}
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	at := time.Now().Add(24 * time.Hour)
	tableID := uint(4)

	confirmedReservation(t, svc, tableID, at)

	// Second booking one hour later on the same table falls inside the slot.
	_, err := svc.Create(CreateInput{
		CustomerName:    "Luis",
		ContactInfo:     "555-0101",
		TableID:         &tableID,
		ReservationTime: at.Add(time.Hour),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for overlap got %v", err)
	}

	// Same time on another table is fine.
	other := uint(2)
	if _, err := svc.Create(CreateInput{CustomerName: "Luis", ContactInfo: "555-0101", TableID: &other, ReservationTime: at}); err != nil {
		t.Fatalf("other table should not clash: %v", err)
	}

	// Outside the slot window the same table is free again.
	if _, err := svc.Create(CreateInput{CustomerName: "Luis", ContactInfo: "555-0101", TableID: &tableID, ReservationTime: at.Add(3 * time.Hour)}); err != nil {
		t.Fatalf("non-overlapping time should pass: %v", err)
	}
}

func TestCancelledReservationDoesNotBlock(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	at := time.Now().Add(24 * time.Hour)
	tableID := uint(1)

	first := confirmedReservation(t, svc, tableID, at)
	if _, err := svc.Cancel(first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.Create(CreateInput{CustomerName: "Luis", ContactInfo: "555-0101", TableID: &tableID, ReservationTime: at}); err != nil {
		t.Fatalf("cancelled reservation must not block: %v", err)
	}
}

func TestCancelTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	at := time.Now().Add(24 * time.Hour)

	r := confirmedReservation(t, svc, 1, at)
	cancelled, err := svc.Cancel(r.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.ReservationStatusCancelled {
		t.Fatalf("expected cancelled got %s", cancelled.Status)
	}

	if _, err := svc.Cancel(r.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state on double cancel got %v", err)
	}
	if _, err := svc.Cancel("no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestSeatReservation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	at := time.Now().Add(time.Hour)

	r := confirmedReservation(t, svc, 3, at)

	seated, order, err := svc.Seat(r.ID)
	if err != nil {
		t.Fatalf("seat: %v", err)
	}
	if seated.Status != models.ReservationStatusSeated {
		t.Fatalf("expected seated got %s", seated.Status)
	}
	if order.TableID != 3 || order.Status != models.OrderStatusPending {
		t.Fatalf("expected pending order on table 3 got %+v", order)
	}
	if len(order.Lines) != 0 || order.Total != 0 {
		t.Fatalf("expected empty order got lines %d total %v", len(order.Lines), order.Total)
	}

	var table models.Table
	if err := db.First(&table, 3).Error; err != nil {
		t.Fatalf("load table: %v", err)
	}
	if table.Status != models.TableStatusOccupied {
		t.Fatalf("expected table occupied got %s", table.Status)
	}
}

func TestSeatReservationOnOccupiedTable(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	at := time.Now().Add(time.Hour)

	// Table #4 is already occupied by a walk-in order.
	if err := db.Model(&models.Table{}).Where("id = ?", 4).
		Update("status", models.TableStatusOccupied).Error; err != nil {
		t.Fatalf("occupy table: %v", err)
	}

	r := confirmedReservation(t, svc, 4, at)

	_, _, err := svc.Seat(r.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state got %v", err)
	}

	// Nothing may have been persisted by the failed seating.
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Fatalf("failed seat must not create orders, got %d", orderCount)
	}
	var stored models.Reservation
	if err := db.First(&stored, "id = ?", r.ID).Error; err != nil {
		t.Fatalf("reload reservation: %v", err)
	}
	if stored.Status != models.ReservationStatusConfirmed {
		t.Fatalf("reservation must stay confirmed, got %s", stored.Status)
	}
}

func TestSeatReservationWithoutTable(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	r, err := svc.Create(CreateInput{
		CustomerName:    "Ana",
		ContactInfo:     "555-0100",
		ReservationTime: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	if _, _, err := svc.Seat(r.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSeatNonConfirmedReservation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	r := confirmedReservation(t, svc, 1, time.Now().Add(time.Hour))
	if _, err := svc.Cancel(r.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, _, err := svc.Seat(r.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state got %v", err)
	}
}

func TestDeleteReservation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	r := confirmedReservation(t, svc, 1, time.Now().Add(time.Hour))

	if err := svc.Delete(r.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("confirmed reservations must not be deletable, got %v", err)
	}

	if _, err := svc.Cancel(r.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Delete(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete got %v", err)
	}
}
