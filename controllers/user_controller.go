package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// UserController is the admin staff-management surface.
type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// GET /api/users (admin)
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.Users.List()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, users)
}

// POST /api/users (admin)
func (uc *UserController) Create(c *gin.Context) {
	var req services.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	u, err := uc.Users.Create(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, u)
}

// PUT /api/users/:id (admin)
func (uc *UserController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid user id")
		return
	}
	var req struct {
		Name  *string      `json:"name"`
		Email *string      `json:"email"`
		Role  *entity.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	u, err := uc.Users.Update(uint(id), req.Name, req.Email, req.Role)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}

// DELETE /api/users/:id (admin)
func (uc *UserController) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid user id")
		return
	}
	if err := uc.Users.Delete(uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
