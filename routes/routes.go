package routes

import (
	"backend/controllers"
	"backend/entity"
	"backend/middlewares"
	"backend/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWTSecret string

	Auth   *controllers.AuthController
	Orders *controllers.OrderController
	Tables *controllers.TableController
	Menu   *controllers.MenuController
	Notif  *controllers.NotificationController
	Users  *controllers.UserController
	WS     *ws.Handler
}

func RegisterRoutes(r *gin.Engine, d *Deps) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	staff := middlewares.AuthMiddleware(d.JWTSecret)
	admin := middlewares.AuthMiddleware(d.JWTSecret, entity.RoleAdmin)

	// WebSocket; anonymous connects fine and authenticates in-band
	r.GET("/ws", middlewares.WSAuthMiddleware(d.JWTSecret), d.WS.Serve)

	api := r.Group("/api")

	// Auth
	a := api.Group("/auth")
	{
		a.POST("/login", d.Auth.Login)
		a.GET("/me", staff, d.Auth.Me)
	}

	// Guest surface (no auth; guests arrive via a table's QR link)
	api.GET("/menu", d.Menu.Menu)
	api.GET("/menu-items", d.Menu.ListItems)
	api.GET("/tables/number/:number", d.Tables.ByNumber)
	api.GET("/tables/:id/active-order", d.Orders.ActiveForTable)
	api.POST("/orders", d.Orders.Create)
	api.GET("/orders/:id", d.Orders.Detail)
	api.POST("/orders/:id/items", d.Orders.AddItems)
	api.POST("/orders/:id/feedback", d.Orders.AddFeedback)

	// Staff
	api.GET("/orders", staff, d.Orders.List)
	api.GET("/tables", staff, d.Tables.List)
	api.GET("/tables/:id", staff, d.Tables.Detail)
	api.GET("/notifications", staff, d.Notif.List)
	api.POST("/notifications/read", staff, d.Notif.MarkRead)

	// Waiter moves orders through the kitchen lifecycle
	api.PATCH("/orders/:id/status",
		middlewares.AuthMiddleware(d.JWTSecret, entity.RoleWaiter, entity.RoleAdmin),
		d.Orders.UpdateStatus)

	// Cashier settles the bill
	api.POST("/orders/:id/payment",
		middlewares.AuthMiddleware(d.JWTSecret, entity.RoleCashier, entity.RoleAdmin),
		d.Orders.ProcessPayment)

	// Admin
	adm := api.Group("", admin)
	{
		adm.POST("/tables", d.Tables.Create)
		adm.PUT("/tables/:id", d.Tables.Update)
		adm.DELETE("/tables/:id", d.Tables.Delete)
		adm.PATCH("/tables/:id/status", d.Tables.SetStatus)

		adm.POST("/categories", d.Menu.CreateCategory)
		adm.PUT("/categories/:id", d.Menu.UpdateCategory)
		adm.DELETE("/categories/:id", d.Menu.DeleteCategory)
		adm.POST("/menu-items", d.Menu.CreateItem)
		adm.PUT("/menu-items/:id", d.Menu.UpdateItem)
		adm.DELETE("/menu-items/:id", d.Menu.DeleteItem)
		adm.PATCH("/menu-items/:id/availability", d.Menu.SetAvailability)

		adm.GET("/users", d.Users.List)
		adm.POST("/users", d.Users.Create)
		adm.PUT("/users/:id", d.Users.Update)
		adm.DELETE("/users/:id", d.Users.Delete)
	}
}
