package controllers

import (
	"strconv"

	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Notif *services.NotificationService
}

func NewNotificationController(notif *services.NotificationService) *NotificationController {
	return &NotificationController{Notif: notif}
}

// GET /api/notifications?limit= (staff) — the catch-up path for clients
// that were offline when events fired
func (nc *NotificationController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	notifications, err := nc.Notif.ListForRole(utils.CurrentRole(c), limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, notifications)
}

// POST /api/notifications/read (staff)
func (nc *NotificationController) MarkRead(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := nc.Notif.MarkRead(req.IDs); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"updated": len(req.IDs)})
}
