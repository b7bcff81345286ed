package reservations

import (
	"errors"
	"time"

	"dining-backend/internal/domain"
	"dining-backend/internal/models"
	"dining-backend/internal/orders"

	"gorm.io/gorm"
)

// Service owns the reservation lifecycle: confirmed -> seated|cancelled.
// Seating converts the reservation into an empty pending order on its table,
// atomically with the status change.
type Service struct {
	db   *gorm.DB
	slot time.Duration
}

// NewService builds the service. slot is the minimum spacing between two
// active reservations on the same table; reservations closer than that are
// considered double bookings.
func NewService(db *gorm.DB, slot time.Duration) *Service {
	return &Service{db: db, slot: slot}
}

type CreateInput struct {
	CustomerName    string
	ContactInfo     string
	TableID         *uint
	ReservationTime time.Time
}

func (s *Service) Create(in CreateInput) (*models.Reservation, error) {
	if in.CustomerName == "" {
		return nil, domain.Validation("customer name is required")
	}
	if in.ContactInfo == "" {
		return nil, domain.Validation("contact info is required")
	}
	if in.ReservationTime.IsZero() {
		return nil, domain.Validation("reservation time is required")
	}

	var reservation models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.TableID != nil {
			var table models.Table
			if err := tx.First(&table, *in.TableID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NotFound("table #%d does not exist", *in.TableID)
				}
				return domain.Upstream("could not load table")
			}

			// Reject a second active reservation on the same table inside
			// the slot window around the requested time.
			var clashes int64
			if err := tx.Model(&models.Reservation{}).
				Where("table_id = ?", *in.TableID).
				Where("status IN ?", []models.ReservationStatus{models.ReservationStatusConfirmed, models.ReservationStatusSeated}).
				Where("reservation_time > ? AND reservation_time < ?",
					in.ReservationTime.Add(-s.slot), in.ReservationTime.Add(s.slot)).
				Count(&clashes).Error; err != nil {
				return domain.Upstream("could not check existing reservations")
			}
			if clashes > 0 {
				return domain.Validation("table #%d is already reserved around that time", *in.TableID)
			}
		}

		reservation = models.Reservation{
			CustomerName:    in.CustomerName,
			ContactInfo:     in.ContactInfo,
			TableID:         in.TableID,
			ReservationTime: in.ReservationTime,
			Status:          models.ReservationStatusConfirmed,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return domain.Upstream("could not create reservation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Cancel moves a confirmed reservation to cancelled.
func (s *Service) Cancel(id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("reservation %s does not exist", id)
			}
			return domain.Upstream("could not load reservation")
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			return domain.InvalidState("reservation %s is %s, only confirmed reservations can be cancelled", id, reservation.Status)
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Update("status", models.ReservationStatusCancelled).Error; err != nil {
			return domain.Upstream("could not update reservation")
		}
		reservation.Status = models.ReservationStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Seat converts a confirmed reservation into an empty pending order on its
// table. Reservation status, the new order and the table status change as one
// atomic unit; an occupied table aborts the whole operation.
func (s *Service) Seat(id string) (*models.Reservation, *models.Order, error) {
	var (
		reservation models.Reservation
		order       *models.Order
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("reservation %s does not exist", id)
			}
			return domain.Upstream("could not load reservation")
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			return domain.InvalidState("reservation %s is %s, only confirmed reservations can be seated", id, reservation.Status)
		}
		if reservation.TableID == nil {
			return domain.Validation("reservation %s has no table assigned", id)
		}

		o, err := orders.OpenOrderTx(tx, *reservation.TableID, nil)
		if err != nil {
			return err
		}
		order = o

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Update("status", models.ReservationStatusSeated).Error; err != nil {
			return domain.Upstream("could not update reservation")
		}
		reservation.Status = models.ReservationStatusSeated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &reservation, order, nil
}

// Delete removes a cancelled reservation from the books.
func (s *Service) Delete(id string) error {
	var reservation models.Reservation
	if err := s.db.First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("reservation %s does not exist", id)
		}
		return domain.Upstream("could not load reservation")
	}
	if reservation.Status != models.ReservationStatusCancelled {
		return domain.InvalidState("only cancelled reservations can be deleted")
	}
	if err := s.db.Delete(&models.Reservation{}, "id = ?", id).Error; err != nil {
		return domain.Upstream("could not delete reservation")
	}
	return nil
}
