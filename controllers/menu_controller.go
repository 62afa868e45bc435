package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menus: menu}
}

// GET /api/menu (public: categories with their items)
func (mc *MenuController) Menu(c *gin.Context) {
	categories, err := mc.Menus.ListCategories()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, categories)
}

// GET /api/menu-items?categoryId=
func (mc *MenuController) ListItems(c *gin.Context) {
	var categoryID *uint
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			resp.BadRequest(c, "invalid category id")
			return
		}
		u := uint(id)
		categoryID = &u
	}
	items, err := mc.Menus.ListItems(categoryID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, items)
}

// POST /api/categories (admin)
func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=2"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cat, err := mc.Menus.CreateCategory(req.Name, req.Description)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, cat)
}

// PUT /api/categories/:id (admin)
func (mc *MenuController) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid category id")
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	cat, err := mc.Menus.UpdateCategory(uint(id), updates)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cat)
}

// DELETE /api/categories/:id (admin)
func (mc *MenuController) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid category id")
		return
	}
	if err := mc.Menus.DeleteCategory(uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

// POST /api/menu-items (admin)
func (mc *MenuController) CreateItem(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=2"`
		Description string `json:"description"`
		Price       int64  `json:"price" binding:"required,min=1"`
		CategoryID  uint   `json:"categoryId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item := entity.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		IsAvailable: true,
	}
	out, err := mc.Menus.CreateItem(&item)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// PUT /api/menu-items/:id (admin)
func (mc *MenuController) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid menu item id")
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *int64  `json:"price"`
		CategoryID  *uint   `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			resp.BadRequest(c, "price must be positive")
			return
		}
		updates["price"] = *req.Price
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}

	item, err := mc.Menus.UpdateItem(uint(id), updates)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}

// DELETE /api/menu-items/:id (admin)
func (mc *MenuController) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid menu item id")
		return
	}
	if err := mc.Menus.DeleteItem(uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

// PATCH /api/menu-items/:id/availability (admin)
func (mc *MenuController) SetAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid menu item id")
		return
	}
	var req struct {
		IsAvailable *bool `json:"isAvailable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := mc.Menus.SetAvailability(uint(id), *req.IsAvailable)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}
