package orders

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

type OpenOrderRequest struct {
	TableID uint               `json:"table_id"`
	Lines   []models.OrderLine `json:"lines"`
}

type AddLinesRequest struct {
	Lines []models.OrderLine `json:"lines"`
}

type CompleteOrderRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

type OrderLineResponse struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Notes      string  `json:"notes,omitempty"`
	LineTotal  float64 `json:"line_total"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	TableID   uint                `json:"table_id"`
	Status    models.OrderStatus  `json:"status"`
	Total     float64             `json:"total"`
	Lines     []OrderLineResponse `json:"lines"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

// orderResponse expands menu item names and prices into the line list, so the
// client never has to trust a cached total.
func orderResponse(order *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:        order.ID,
		TableID:   order.TableID,
		Status:    order.Status,
		Total:     order.Total,
		Lines:     make([]OrderLineResponse, 0, len(order.Lines)),
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
		UpdatedAt: order.UpdatedAt.Format(time.RFC3339),
	}

	ids := make([]uint, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.MenuItemID)
	}
	itemByID := map[uint]models.MenuItem{}
	if len(ids) > 0 {
		var items []models.MenuItem
		if err := database.DB.Where("id IN ?", ids).Find(&items).Error; err == nil {
			for _, item := range items {
				itemByID[item.ID] = item
			}
		}
	}

	for _, line := range order.Lines {
		item := itemByID[line.MenuItemID]
		resp.Lines = append(resp.Lines, OrderLineResponse{
			MenuItemID: line.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   line.Quantity,
			Notes:      line.Notes,
			LineTotal:  item.Price * float64(line.Quantity),
		})
	}
	return resp
}

func domainError(err error) error {
	return fiber.NewError(domain.Status(err), err.Error())
}

// POST /api/orders
func OpenOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OpenOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.TableID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "table_id is required")
		}

		order, err := svc.OpenOrder(body.TableID, body.Lines)
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Order opened on table #%d, total %.2f", order.TableID, order.Total),
			After:       order,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
	}
}

// POST /api/orders/:id/lines
func AddLinesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddLinesRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		order, err := svc.AddLines(c.Params("id"), body.Lines)
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lines added, new total %.2f", order.Total),
			After:       order,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.JSON(orderResponse(order))
	}
}

// POST /api/orders/:id/complete
func CompleteOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CompleteOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		payment, err := svc.CompleteOrder(c.Params("id"), body.PaymentMethod)
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    payment.OrderID,
			Action:      models.AuditActionComplete,
			Description: fmt.Sprintf("Order completed, %.2f paid by %s", payment.Amount, payment.PaymentMethod),
			After:       payment,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.JSON(payment)
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := svc.CancelOrder(c.Params("id"))
		if err != nil {
			return domainError(err)
		}

		userID, userName := auth.CurrentUser(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("Order cancelled, table #%d freed", order.TableID),
			Before:      order,
		}); logErr != nil {
			fmt.Printf("could not write audit log: %v\n", logErr)
		}

		return c.JSON(orderResponse(order))
	}
}

// GET /api/orders?status=pending
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{})

		if status := c.Query("status"); status != "" {
			switch models.OrderStatus(status) {
			case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
				dbq = dbq.Where("status = ?", status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Invalid status (pending|completed|cancelled)")
			}
		}

		var orders []models.Order
		if err := dbq.Order("created_at DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, orderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return c.JSON(orderResponse(&order))
	}
}

// GET /api/tables/:id/order — the pending order of an occupied table.
func GetTableOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tableID, err := c.ParamsInt("id")
		if err != nil || tableID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid table id")
		}

		order, err := svc.PendingOrderByTable(uint(tableID))
		if err != nil {
			return domainError(err)
		}
		return c.JSON(orderResponse(order))
	}
}
