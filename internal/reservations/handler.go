package reservations

import (
	"fmt"
	"time"

	"dining-backend/internal/audit"
	"dining-backend/internal/auth"
	"dining-backend/internal/database"
	"dining-backend/internal/domain"
	"dining-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateReservationRequest struct {
	CustomerName    string `json:"customer_name"`
	ContactInfo     string `json:"contact_info"`
	TableID         *uint  `json:"table_id"`
	ReservationTime string `json:"reservation_time"` // RFC 3339
}

type ReservationResponse struct {
	ID              string                   `json:"id"`
	CustomerName    string                   `json:"customer_name"`
	ContactInfo     string                   `json:"contact_info"`
	TableID         *uint                    `json:"table_id"`
	ReservationTime string                   `json:"reservation_time"`
	Status          models.ReservationStatus `json:"status"`
	CreatedAt       string                   `json:"created_at"`
}

func reservationResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		CustomerName:    r.CustomerName,
		ContactInfo:     r.ContactInfo,
		TableID:         r.TableID,
		ReservationTime: r.ReservationTime.Format(time.RFC3339),
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}

func domainError(err error) error {
	return fiber.NewError(domain.Status(err), err.Error())
}

// POST /api/reservations
func CreateReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		when, err := time.Parse(time.RFC3339, body.ReservationTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "reservation_time must be RFC 3339")
		}

		reservation, err := svc.Create(CreateInput{
			CustomerName:    body.CustomerName,
			ContactInfo:     body.ContactInfo,
			TableID:         body.TableID,
			ReservationTime: when,
		})
		if err != nil {
			return domainError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(reservationResponse(reservation))
	}
}

// GET /api/reservations?status=confirmed
func ListReservationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Reservation{})

		if status := c.Query("status"); status != "" {
			switch models.ReservationStatus(status) {
			case models.ReservationStatusConfirmed, models.ReservationStatusSeated, models.ReservationStatusCancelled:
				dbq = dbq.Where("status = ?", status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Invalid status (confirmed|seated|cancelled)")
			}
		}

		var reservations []models.Reservation
		if err := dbq.Order("reservation_time ASC").Find(&reservations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list reservations")
		}

		resp := make([]ReservationResponse, 0, len(reservations))
		for i := range reservations {
			resp = append(resp, reservationResponse(&reservations[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/reservations/:id/cancel
func CancelReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reservation, err := svc.Cancel(c.Params("id"))
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "reservation",
			EntityID:    reservation.ID,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("Reservation for %s cancelled", reservation.CustomerName),
			Before:      reservation,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.JSON(reservationResponse(reservation))
	}
}

// POST /api/reservations/:id/seat
func SeatReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reservation, order, err := svc.Seat(c.Params("id"))
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "reservation",
			EntityID:    reservation.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Reservation for %s seated at table #%d, order %s opened", reservation.CustomerName, order.TableID, order.ID),
			After:       reservation,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.JSON(fiber.Map{
			"reservation": reservationResponse(reservation),
			"order_id":    order.ID,
			"table_id":    order.TableID,
		})
	}
}

// DELETE /api/reservations/:id
func DeleteReservationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Params("id")); err != nil {
			return domainError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
