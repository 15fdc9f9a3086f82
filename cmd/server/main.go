package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/dmelo/dealership-api/internal/config"     // Internal config loader
	"github.com/dmelo/dealership-api/internal/database"   // MySQL connection pool
	"github.com/dmelo/dealership-api/internal/handler"    // HTTP handlers
	"github.com/dmelo/dealership-api/internal/middleware" // cache + rate limit middleware
	"github.com/dmelo/dealership-api/internal/queue"      // sale event consumer
	"github.com/dmelo/dealership-api/internal/repository" // data access layer
	"github.com/dmelo/dealership-api/internal/router"     // route registration
	"github.com/dmelo/dealership-api/internal/storage"    // vehicle photo storage
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env wins

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // Open MySQL pool
	if err != nil {
		log.Fatalf("database: %v", err) // Cannot serve without the database
	}
	defer db.Close()

	rdb := config.NewRedisClient() // Optional Redis (nil disables cache + rate limit)

	go func() { // Background consumer appends completed sales to logs/sales.log
		if err := queue.StartSaleConsumer(); err != nil {
			log.Printf("sale consumer stopped: %v", err)
		}
	}()

	customers := repository.NewCustomerRepo(db) // customer rows
	employees := repository.NewEmployeeRepo(db) // employee rows
	vehicles := repository.NewVehicleRepo(db)   // vehicle inventory
	sales := repository.NewSaleRepo(db)         // sale transactions

	photos := storage.NewPhotoStore(cfg.UploadDir) // vehicle photo files

	authH := handler.NewAuthHandler(cfg, customers, employees)
	customerH := handler.NewCustomerHandler(customers)
	employeeH := handler.NewEmployeeHandler(cfg, employees)
	vehicleH := handler.NewVehicleHandler(vehicles, photos)
	saleH := handler.NewSaleHandler(sales)
	accountH := handler.NewAccountHandler(cfg, customers)
	catalogH := handler.NewCatalogHandler(vehicles)

	var cacheMW, limitMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.ResponseCache(config.LoadCacheConfig(), rdb)  // public catalog cache
		limitMW = middleware.RateLimit(config.LoadRateLimitConfig(), rdb) // credential brute force guard
	}

	e := echo.New()
	router.RegisterRoutes(e)                                                             // health check
	router.RegisterCatalog(e, catalogH, cfg.UploadDir, cacheMW)                          // public vehicle browsing
	router.RegisterAuth(e, authH, cfg.SessionSecret, limitMW)                            // login / register / logout
	router.RegisterEmployee(e, customerH, employeeH, vehicleH, saleH, authH, cfg.SessionSecret) // staff endpoints
	router.RegisterAccount(e, accountH, cfg.SessionSecret)                               // customer self-service

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
