package handler

import (
	"net/http"

	"hotel-backoffice/internal/middleware"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StaffHandler struct {
	staffService *service.StaffService
}

func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

type CreateStaffRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	Department string `json:"department" binding:"required"`
	Role       string `json:"role" binding:"required"`
}

type UpdateStaffRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
}

type StaffStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// CreateStaff creates a staff account with an admin-chosen role.
// POST /auth/createstaff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Create staff request parsing failed",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "please fill all the fields",
		})
		return
	}

	staff, err := h.staffService.CreateStaff(actor, service.CreateStaffInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Address:    req.Address,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff created successfully",
		"staff":   staff,
	})
}

// GetStaff lists every staff account, newest first.
// GET /auth/staff
func (h *StaffHandler) GetStaff(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	staff, err := h.staffService.ListStaff(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(staff),
		"staff": staff,
	})
}

// UpdateStaff applies a partial update to a staff account.
// PUT /auth/staff/:id
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Update staff request parsing failed",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	staff, err := h.staffService.UpdateStaff(actor, id, service.UpdateStaffInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff updated successfully",
		"staff":   staff,
	})
}

// DeleteStaff permanently removes a staff account.
// DELETE /auth/staff/:id
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	if err := h.staffService.DeleteStaff(actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff deleted successfully",
	})
}

// UpdateStaffStatus toggles the active flag of a staff account.
// PATCH /auth/staff/:id/status
func (h *StaffHandler) UpdateStaffStatus(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	var req StaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "isActive is required",
		})
		return
	}

	staff, err := h.staffService.SetStaffActive(actor, id, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff status updated successfully",
		"staff":   staff,
	})
}
