package main

import (
	"log"
	"strings"

	"dining-backend/internal/audit"
	"dining-backend/internal/auth"
	"dining-backend/internal/config"
	"dining-backend/internal/database"
	"dining-backend/internal/menu"
	"dining-backend/internal/models"
	"dining-backend/internal/orders"
	"dining-backend/internal/register"
	"dining-backend/internal/reservations"
	"dining-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	orderSvc := orders.NewService(database.DB)
	reservationSvc := reservations.NewService(database.DB, cfg.ReservationSlot)
	registerSvc := register.NewService(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	adminOnly := auth.RequireRole(models.RoleAdmin)
	registerAccess := auth.RequireRole(models.RoleAdmin, models.RoleCashier)

	// Staff management (admin only)
	protected.Post("/auth/users", adminOnly, auth.CreateUserHandler())

	// Menu & dining room
	protected.Get("/menu-items", menu.ListMenuItemsHandler())
	protected.Post("/menu-items", adminOnly, menu.CreateMenuItemHandler())
	protected.Put("/menu-items/:id", adminOnly, menu.UpdateMenuItemHandler())
	protected.Delete("/menu-items/:id", adminOnly, menu.DeleteMenuItemHandler())
	protected.Post("/tables/ensure", adminOnly, tables.EnsureTablesHandler())
	protected.Get("/tables", tables.ListTablesHandler())
	protected.Get("/tables/:id/order", orders.GetTableOrderHandler(orderSvc))

	// Orders
	protected.Post("/orders", orders.OpenOrderHandler(orderSvc))
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Post("/orders/:id/lines", orders.AddLinesHandler(orderSvc))
	protected.Post("/orders/:id/complete", orders.CompleteOrderHandler(orderSvc))
	protected.Post("/orders/:id/cancel", orders.CancelOrderHandler(orderSvc))

	// Reservations
	protected.Post("/reservations", reservations.CreateReservationHandler(reservationSvc))
	protected.Get("/reservations", reservations.ListReservationsHandler())
	protected.Post("/reservations/:id/cancel", reservations.CancelReservationHandler(reservationSvc))
	protected.Post("/reservations/:id/seat", reservations.SeatReservationHandler(reservationSvc))
	protected.Delete("/reservations/:id", reservations.DeleteReservationHandler(reservationSvc))

	// Cash register (admins and cashiers)
	protected.Get("/cashouts/pending", registerAccess, register.PreviewPendingHandler(registerSvc))
	protected.Post("/cashouts", registerAccess, register.CloseCashOutHandler(registerSvc))
	protected.Get("/cashouts", registerAccess, register.ListCashOutsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
