package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditHandlerPkg "fincart/ordersync/internal/server/handlers/audit"
	orderHandlerPkg "fincart/ordersync/internal/server/handlers/order"
	webhookHandlerPkg "fincart/ordersync/internal/server/handlers/webhook"
	"fincart/ordersync/internal/server/routers"

	"fincart/ordersync/internal/ingress"
	"fincart/ordersync/pkg/config"
	"fincart/ordersync/pkg/infra/mysql"
	"fincart/ordersync/pkg/infra/redis"
	"fincart/ordersync/pkg/lmstfy"
	"fincart/ordersync/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 初始化基础设施
	db, err := mysql.NewDB(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to connect mysql: %v", err)
	}
	defer mysql.Close(db)

	redisClient, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		log.Fatalf("Failed to create lmstfy client: %v", err)
	}

	// 4. 组装受理网关与处理器
	gate := ingress.NewGate(
		redis.NewDedupStore(redisClient),
		mysql.NewAuditDAO(db),
		lmstfyClient,
		cfg.Lmstfy.Queue,
		cfg.Lmstfy.Attempts,
		cfg.Webhook.DedupTTL,
		zapLogger,
	)

	webhookHandler := webhookHandlerPkg.NewWebhookHandler(gate, zapLogger)
	orderHandler := orderHandlerPkg.NewOrderHandler(mysql.NewOrderDAO(db), zapLogger)
	auditHandler := auditHandlerPkg.NewAuditHandler(mysql.NewAuditDAO(db), zapLogger)

	engine := routers.SetupRoutes(webhookHandler, orderHandler, auditHandler, cfg.Shopify.WebhookSecret, zapLogger)

	// 5. 启动 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 6. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		gracefulShutdown(server)
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Application stopped")
}

// gracefulShutdown 优雅停机
func gracefulShutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}
}
