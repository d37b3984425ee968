package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/invoice-service/internal/api"
	"github.com/hypernova-labs/invoice-service/internal/config"
	"github.com/hypernova-labs/invoice-service/internal/database"
	"github.com/hypernova-labs/invoice-service/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := setupLogger(cfg)
	logger.Info("Starting Invoice Service...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conectar a la base de datos; sin ella el proceso no arranca
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	// Conectar a Redis (opcional: sin caché el servicio sigue operativo)
	var cache *database.Redis
	if cfg.Cache.Enabled {
		cache, err = database.ConnectRedis(cfg)
		if err != nil {
			logger.Warnf("Error connecting to Redis, running without cache: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Inicializar servicios
	invoiceService := services.NewInvoiceService(db, cache, cfg.Cache.TTL, logger)

	// Inicializar API
	apiHandler := api.NewAPI(invoiceService, logger)

	// Configurar router
	router := setupRouter(apiHandler, db, cache)

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Iniciar servidor en goroutine
	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	// Esperar señal de terminación
	<-quit
	logger.Info("Shutting down server...")

	// Contexto con timeout para shutdown graceful
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// setupRouter configura el router principal
func setupRouter(apiHandler *api.API, db *database.DB, cache *database.Redis) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// El cliente es una SPA en otro origen, CORS va siempre activo
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := db.HealthCheck(); err != nil {
			status = "degraded"
		}
		cacheStatus := "disabled"
		if cache != nil {
			cacheStatus = "ok"
			if err := cache.HealthCheck(); err != nil {
				cacheStatus = "degraded"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"cache":     cacheStatus,
			"timestamp": time.Now().UTC(),
			"service":   "invoice-service",
			"version":   "1.0.0",
		})
	})

	// Endpoints de facturas
	inv := router.Group("/inv")
	{
		inv.GET("", apiHandler.ListInvoices)
		inv.POST("", apiHandler.CreateInvoice)
		inv.GET("/:id", apiHandler.GetInvoice)
		inv.PUT("/:id", apiHandler.UpdateInvoice)
		inv.DELETE("/:id", apiHandler.DeleteInvoice)
		inv.GET("/:id/pdf", apiHandler.GetInvoicePDF)
	}

	return router
}
