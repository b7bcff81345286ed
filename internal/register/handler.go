package register

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

type CashOutResponse struct {
	ID            string  `json:"id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	InitialAmount float64 `json:"initial_amount"`
	FinalAmount   float64 `json:"final_amount"`
	TotalCash     float64 `json:"total_cash"`
	TotalCard     float64 `json:"total_card"`
}

func cashOutResponse(c *models.CashOut) CashOutResponse {
	return CashOutResponse{
		ID:            c.ID,
		StartTime:     c.StartTime.Format(time.RFC3339),
		EndTime:       c.EndTime.Format(time.RFC3339),
		InitialAmount: c.InitialAmount,
		FinalAmount:   c.FinalAmount,
		TotalCash:     c.TotalCash,
		TotalCard:     c.TotalCard,
	}
}

func domainError(err error) error {
	return fiber.NewError(domain.Status(err), err.Error())
}

// GET /api/cashouts/pending
func PreviewPendingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := svc.PreviewPending()
		if err != nil {
			return domainError(err)
		}
		return c.JSON(summary)
	}
}

// POST /api/cashouts
func CloseCashOutHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cashOut, err := svc.Close()
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "cashout",
			EntityID:    cashOut.ID,
			Action:      models.AuditActionClose,
			Description: fmt.Sprintf("Register closed: %.2f cash, %.2f card", cashOut.TotalCash, cashOut.TotalCard),
			After:       cashOut,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(cashOutResponse(cashOut))
	}
}

// GET /api/cashouts
func ListCashOutsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cashOuts []models.CashOut
		if err := database.DB.Order("end_time DESC").Find(&cashOuts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list cash-outs")
		}

		resp := make([]CashOutResponse, 0, len(cashOuts))
		for i := range cashOuts {
			resp = append(resp, cashOutResponse(&cashOuts[i]))
		}
		return c.JSON(resp)
	}
}
