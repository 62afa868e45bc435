package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"backend/configs"
	"backend/controllers"
	"backend/entity"
	"backend/repository"
	"backend/routes"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedStaff(); err != nil {
		log.Fatalf("seed staff failed: %v", err)
	}
	if err := configs.SeedLookups(); err != nil {
		log.Fatalf("seed lookups failed: %v", err)
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	notifSvc := services.NewNotificationService(db, notifRepo)
	tableSvc := services.NewTableService(db, tableRepo, orderRepo, notifSvc)
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, tableRepo, tableSvc, notifSvc)
	menuSvc := services.NewMenuService(db, menuRepo, notifSvc)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userSvc := services.NewUserService(userRepo)

	// Event dispatcher; every appended notification becomes a live push.
	// Disconnected clients recover by polling /api/notifications.
	hub := ws.NewHub()
	unsubscribe := notifSvc.OnNotification(func(n entity.Notification) {
		ev := ws.Event{
			Type:      n.Type,
			Payload:   json.RawMessage(n.Details),
			Timestamp: n.CreatedAt,
		}
		if n.TargetRole == nil {
			hub.Broadcast(ev)
			return
		}
		hub.BroadcastToRole(ev, *n.TargetRole)
	})
	defer unsubscribe()

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, &routes.Deps{
		JWTSecret: cfg.JWTSecret,
		Auth:      controllers.NewAuthController(authSvc),
		Orders:    controllers.NewOrderController(orderSvc),
		Tables:    controllers.NewTableController(tableSvc),
		Menu:      controllers.NewMenuController(menuSvc),
		Notif:     controllers.NewNotificationController(notifSvc),
		Users:     controllers.NewUserController(userSvc),
		WS:        ws.NewHandler(hub),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Println("server running at", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// close websocket clients with a normal-closure frame on shutdown so
	// they do not try to reconnect to a dead server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	hub.Shutdown()
	srv.Close()
}
