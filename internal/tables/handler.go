package tables

import (
	"dining-backend/internal/database"
	"dining-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TableResponse struct {
	ID     uint               `json:"id"`
	Status models.TableStatus `json:"status"`
	// Order summary, present only for occupied tables.
	OrderID    *string  `json:"order_id,omitempty"`
	OrderTotal *float64 `json:"order_total,omitempty"`
}

type EnsureTablesRequest struct {
	Count int `json:"count"`
}

// GET /api/tables
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		if err := database.DB.Order("id asc").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list tables")
		}

		var pending []models.Order
		if err := database.DB.Where("status = ?", models.OrderStatusPending).Find(&pending).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load open orders")
		}
		orderByTable := make(map[uint]*models.Order, len(pending))
		for i := range pending {
			orderByTable[pending[i].TableID] = &pending[i]
		}

		resp := make([]TableResponse, 0, len(tables))
		for _, t := range tables {
			tr := TableResponse{ID: t.ID, Status: t.Status}
			if order, ok := orderByTable[t.ID]; ok {
				tr.OrderID = &order.ID
				tr.OrderTotal = &order.Total
			}
			resp = append(resp, tr)
		}
		return c.JSON(resp)
	}
}

// POST /api/tables/ensure (admin only)
// Grows the dining room to the requested size. Tables are never deleted.
func EnsureTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EnsureTablesRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Count < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Count must be at least 1")
		}

		if err := database.SeedTables(database.DB, body.Count); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create tables")
		}

		var total int64
		database.DB.Model(&models.Table{}).Count(&total)
		return c.JSON(fiber.Map{"tables": total})
	}
}
