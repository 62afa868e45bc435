package controllers

import (
	"errors"

	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := ac.Auth.Login(req.Username, req.Password)
	if err != nil {
		// credentials failures stay 401, not 400
		var validation *services.ValidationError
		if errors.As(err, &validation) && validation.Msg == "invalid credentials" {
			resp.Unauthorized(c, validation.Msg)
			return
		}
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	u, err := ac.Auth.Me(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}
