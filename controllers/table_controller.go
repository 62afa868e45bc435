package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

// GET /api/tables (staff)
func (tc *TableController) List(c *gin.Context) {
	tables, err := tc.Tables.List()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, tables)
}

// GET /api/tables/:id
func (tc *TableController) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}
	t, err := tc.Tables.Get(uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}

// GET /api/tables/number/:number (guest entry point, from the QR link)
func (tc *TableController) ByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		resp.BadRequest(c, "invalid table number")
		return
	}
	t, err := tc.Tables.GetByNumber(number)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}

// POST /api/tables (admin)
func (tc *TableController) Create(c *gin.Context) {
	var req struct {
		Number int `json:"number" binding:"required,min=1"`
		Seats  int `json:"seats" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := tc.Tables.Create(req.Number, req.Seats)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, t)
}

// PUT /api/tables/:id (admin)
func (tc *TableController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}
	var req struct {
		Seats *int `json:"seats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := tc.Tables.Update(uint(id), req.Seats)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}

// DELETE /api/tables/:id (admin)
func (tc *TableController) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}
	if err := tc.Tables.Delete(uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

// PATCH /api/tables/:id/status (admin override; `reserved` is sticky)
func (tc *TableController) SetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}
	var req struct {
		Status entity.TableStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := tc.Tables.SetStatus(uint(id), req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}
