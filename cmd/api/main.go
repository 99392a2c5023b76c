package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-resale-pos/internal/handler"
	"go-resale-pos/internal/middleware"
	"go-resale-pos/internal/model"
	"go-resale-pos/internal/repository"
	"go-resale-pos/internal/service"
	"go-resale-pos/internal/ws"
	"go-resale-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Supplier{},
		&model.Lot{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
	)

	// 3. Seed default operator account
	seedOperator(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	lotRepo := repository.NewLotRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	invService := service.NewInventoryService(categoryRepo, supplierRepo, lotRepo, productRepo, wsHub)
	checkoutService := service.NewCheckoutService(saleRepo, wsHub)
	dashService := service.NewDashboardService(saleRepo, productRepo)
	authService := service.NewAuthService(userRepo)

	invHandler := handler.NewInventoryHandler(invService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Resale POS v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/sales-over-time", dashHandler.GetSalesOverTime)
	protected.Get("/dashboard/recent-sales", dashHandler.GetRecentSales)

	// Categories & Suppliers
	protected.Get("/categories", invHandler.GetCategories)
	protected.Post("/categories", invHandler.CreateCategory)
	protected.Delete("/categories/:id", invHandler.DeleteCategory)
	protected.Get("/suppliers", invHandler.GetSuppliers)
	protected.Post("/suppliers", invHandler.CreateSupplier)
	protected.Delete("/suppliers/:id", invHandler.DeleteSupplier)

	// Lots
	protected.Get("/lots", invHandler.GetLots)
	protected.Get("/lots/:id", invHandler.GetLot)
	protected.Post("/lots", invHandler.CreateLot)

	// Products (scan route before :id routes)
	protected.Get("/products/scan", invHandler.Scan)
	protected.Get("/products", invHandler.GetProducts)
	protected.Post("/products", invHandler.CreateProduct)
	protected.Patch("/products/:id/price", invHandler.UpdateProductPrice)
	protected.Post("/products/:id/sold", invHandler.MarkProductSold)
	protected.Post("/products/:id/stock", invHandler.AddStock)
	protected.Delete("/products/:id", invHandler.DeleteProduct)

	// Checkout & Sales
	protected.Post("/checkout", checkoutHandler.CompleteSale)
	protected.Get("/sales", checkoutHandler.GetSales)
	protected.Get("/sales/:id", checkoutHandler.GetSale)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedOperator creates the default operator account if none exists
func seedOperator(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("OPERATOR_EMAIL")
	if email == "" {
		email = "operator@example.com"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("OPERATOR_PASSWORD")
	if password == "" {
		password = "operator123"
	}

	operator := &model.User{
		Email:    email,
		FullName: "Shop Operator",
		IsActive: true,
	}
	if err := operator.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash operator password: %v", err)
		return
	}

	if err := userRepo.Create(operator); err != nil {
		log.Printf("Warning: Failed to create operator account: %v", err)
	} else {
		log.Printf("✅ Operator account created: %s", email)
	}
}
