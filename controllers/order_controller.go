package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// POST /api/orders (guest, no auth)
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Orders.Create(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /api/orders?status=&tableId= (staff)
func (oc *OrderController) List(c *gin.Context) {
	var status *entity.OrderStatus
	if v := c.Query("status"); v != "" {
		s := entity.OrderStatus(v)
		status = &s
	}
	var tableID *uint
	if v := c.Query("tableId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			resp.BadRequest(c, "invalid table id")
			return
		}
		u := uint(id)
		tableID = &u
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := oc.Orders.List(status, tableID, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /api/orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}
	order, err := oc.Orders.Detail(uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// GET /api/tables/:id/active-order (guest catch-up after reload)
func (oc *OrderController) ActiveForTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}
	order, err := oc.Orders.ActiveForTable(uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// PATCH /api/orders/:id/status (waiter/admin)
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req struct {
		Status entity.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	var serverID *uint
	if uid := utils.CurrentUserID(c); uid != 0 {
		serverID = &uid
	}

	order, err := oc.Orders.Transition(uint(id), req.Status, serverID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// POST /api/orders/:id/items (guest)
func (oc *OrderController) AddItems(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req struct {
		Items []services.OrderItemIn `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Orders.AddItems(uint(id), req.Items)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// POST /api/orders/:id/payment (cashier/admin)
func (oc *OrderController) ProcessPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req struct {
		PaymentMethod entity.PaymentMethod `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Orders.ProcessPayment(uint(id), req.PaymentMethod, utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// POST /api/orders/:id/feedback (guest, completed orders only)
func (oc *OrderController) AddFeedback(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Orders.AddFeedback(uint(id), req.Feedback)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}
