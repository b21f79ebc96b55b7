package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-api/config"
	"storefront-api/controllers"
	"storefront-api/database"
	"storefront-api/logger"
	"storefront-api/notification"
	"storefront-api/pdf"
	"storefront-api/repository"
	"storefront-api/routes"
	"storefront-api/services"
	"storefront-api/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.AppEnv)
	defer zap.L().Sync()

	// --- 1. Initialization ---

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zap.L().Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		zap.L().Warn("Failed to ensure indexes", zap.Error(err))
	}

	store, backend, err := storage.Resolve(ctx, cfg, db)
	if err != nil {
		zap.L().Fatal("Failed to initialize image storage", zap.Error(err))
	}
	zap.L().Info("Image storage ready", zap.String("backend", backend))

	var emailSender notification.EmailSender
	if sender, err := notification.NewSMTPSender(cfg); err != nil {
		zap.L().Warn("Email transport not configured, emails will be skipped", zap.Error(err))
	} else {
		emailSender = sender
	}
	notifier := notification.NewService(emailSender, nil, cfg.DefaultCountryCode, zap.L())

	pdfGen := pdf.NewGenerator(cfg.TempDir, os.Getenv("INVOICE_LOGO_PATH"))

	jwtExpire, err := time.ParseDuration(cfg.JWTExpire)
	if err != nil {
		zap.L().Warn("Invalid JWT_EXPIRE, using 168h", zap.String("value", cfg.JWTExpire))
		jwtExpire = 168 * time.Hour
	}

	// --- 2. Dependency Injection ---

	userRepo := repository.NewMongoUserRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	userService := services.NewUserService(userRepo, cfg.JWTSecret, jwtExpire, cfg.AdminSecret)
	productService := services.NewProductService(productRepo, store, zap.L())
	cartService := services.NewCartService(cartRepo, productRepo, userRepo, pdfGen, notifier, zap.L())
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, pdfGen, notifier, zap.L())

	gridFS, _ := store.(*storage.GridFSStore)
	ctrl := &routes.Controllers{
		Users:    controllers.NewUserController(userService),
		Products: controllers.NewProductController(productService, gridFS),
		Carts:    controllers.NewCartController(cartService),
		Orders:   controllers.NewOrderController(orderService),
	}

	// --- 3. HTTP Server & Middleware ---

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zap.L()))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(reqCtx)
		c.Next()
	})

	if backend == "disk" {
		r.Static("/uploads", cfg.UploadsDir)
	}

	routes.Register(r, ctrl, cfg.JWTSecret)

	// --- 4. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Storefront API starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Storefront API...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Storefront API stopped gracefully")
}
