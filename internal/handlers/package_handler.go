package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
)

// PackageHandler exposes the event package catalog endpoints
type PackageHandler struct {
	packageRepo *database.PackageRepository
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(packageRepo *database.PackageRepository) *PackageHandler {
	return &PackageHandler{packageRepo: packageRepo}
}

// ListPackages returns packages, optionally filtered by event type. The
// public view excludes inactive packages; admins pass all=true.
// GET /api/v1/packages?event_type=&all=
func (h *PackageHandler) ListPackages(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	packages, err := h.packageRepo.List(c.Query("event_type"), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch packages"})
		return
	}

	c.JSON(http.StatusOK, packages)
}

// GetPackage returns one event package
// GET /api/v1/packages/:id
func (h *PackageHandler) GetPackage(c *gin.Context) {
	pkg, err := h.packageRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch package"})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// CreatePackage creates an event package. Admin only.
// POST /api/v1/admin/packages
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req models.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.packageRepo.Create(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create package"})
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// UpdatePackage updates an event package. Admin only.
// PUT /api/v1/admin/packages/:id
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	var req models.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.packageRepo.Update(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update package"})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// DeletePackage deactivates an event package. Admin only.
// DELETE /api/v1/admin/packages/:id
func (h *PackageHandler) DeletePackage(c *gin.Context) {
	if err := h.packageRepo.Delete(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete package"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Package deactivated"})
}
