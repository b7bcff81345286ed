package menu

import (
	"dining-backend/internal/database"
	"dining-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MenuItemResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type CreateMenuItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"` // optional, defaults to "Others"
}

type UpdateMenuItemRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// GET /api/menu-items
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MenuItem
		if err := database.DB.Order("category asc, name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menu items")
		}

		resp := make([]MenuItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, MenuItemResponse{
				ID:       item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Category: item.Category,
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/menu-items (admin only)
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
		}
		if body.Category == "" {
			body.Category = models.DefaultMenuCategory
		}

		item := models.MenuItem{
			Name:     body.Name,
			Price:    body.Price,
			Category: body.Category,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create menu item")
		}

		return c.Status(fiber.StatusCreated).JSON(MenuItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Category: item.Category,
		})
	}
}

// PUT /api/menu-items/:id (admin only)
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var item models.MenuItem
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			item.Name = *body.Name
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
			}
			item.Price = *body.Price
		}
		if body.Category != nil {
			item.Category = *body.Category
			if item.Category == "" {
				item.Category = models.DefaultMenuCategory
			}
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update menu item")
		}

		return c.JSON(MenuItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Category: item.Category,
		})
	}
}

// DELETE /api/menu-items/:id (admin only)
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		res := database.DB.Delete(&models.MenuItem{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete menu item")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
