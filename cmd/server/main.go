package main

import (
	"log"
	"strings"

	"club-backend/internal/activity"
	"club-backend/internal/auth"
	"club-backend/internal/basket"
	"club-backend/internal/catalog"
	"club-backend/internal/config"
	"club-backend/internal/database"
	"club-backend/internal/expense"
	"club-backend/internal/membership"
	"club-backend/internal/models"
	"club-backend/internal/orders"
	"club-backend/internal/shift"
	"club-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on the environment")
	}

	cfg := config.Load()
	database.Init(cfg)

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
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Static("/product-images", cfg.ProductImagePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler())
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalogue (any authenticated member can browse)
	protected.Get("/products", catalog.ListProductsHandler())

	// Ordering routes: approved, unbanned members only
	member := protected.Group("")
	member.Use(auth.RequireApprovedMember())

	member.Get("/basket", basket.ListBasketHandler())
	member.Post("/basket/items", basket.AddItemHandler())
	member.Put("/basket/items/:id", basket.UpdateItemHandler())
	member.Delete("/basket/items/:id", basket.RemoveItemHandler())
	member.Post("/basket/checkout", basket.CheckoutHandler())
	member.Get("/my/orders", orders.ListMyOrdersHandler())

	// Staff routes (admin or superadmin)
	staff := protected.Group("")
	staff.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	// Shifts & reconciliation
	staff.Post("/shifts/start", shift.StartShiftHandler())
	staff.Get("/shifts/active", shift.ActiveShiftHandler())
	staff.Get("/shifts", shift.ListShiftsHandler())
	staff.Get("/shifts/:id", shift.GetShiftHandler())
	staff.Post("/shifts/:id/end", shift.EndShiftHandler())
	staff.Post("/shifts/:id/reconcile", shift.ReconcileShiftHandler())
	staff.Post("/shift-reconciliation", shift.StandaloneReconciliationHandler())

	// Shift activity log
	staff.Get("/shift-activities", activity.ListActivitiesHandler())

	// Stock
	staff.Post("/stock-movements", stock.CreateMovementHandler())
	staff.Get("/stock-movements", stock.ListMovementsHandler())
	staff.Get("/stock/current", stock.CurrentStockHandler())
	staff.Get("/stock/export", stock.ExportStockHandler())

	// Orders back office
	staff.Get("/orders", orders.ListOrdersHandler())
	staff.Patch("/orders/:id/confirm", orders.ConfirmOrderHandler())
	staff.Patch("/orders/:id/cancel", orders.CancelOrderHandler())
	staff.Patch("/orders/:id/archive", orders.ArchiveOrderHandler())

	// Expenses
	staff.Post("/expenses", expense.CreateExpenseHandler())
	staff.Get("/expenses", expense.ListExpensesHandler())
	staff.Delete("/expenses/:id", expense.DeleteExpenseHandler())
	staff.Get("/expenses/summary/monthly", expense.MonthlySummaryHandler())

	// Catalogue management & membership admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	adminRoutes.Get("/products", catalog.ListProductsAdminHandler())
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/products/:id/image", catalog.UploadProductImageHandler(cfg))

	adminRoutes.Get("/members", membership.ListMembersHandler())
	adminRoutes.Post("/members/:id/approve", membership.ApproveMemberHandler())
	adminRoutes.Post("/members/:id/renew", membership.RenewMemberHandler())
	adminRoutes.Post("/members/:id/ban", membership.BanMemberHandler())
	adminRoutes.Post("/members/:id/unban", membership.UnbanMemberHandler())

	// Superadmin only
	superRoutes := protected.Group("")
	superRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	superRoutes.Post("/admin/members/:id/role", membership.SetRoleHandler())
	superRoutes.Post("/shift-activities/clear", activity.ClearActivitiesHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
