package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

// ResourceController exposes the seeded support links.
type ResourceController struct {
	repo *storage.ResourceRepository
}

func NewResourceController(db *gorm.DB) *ResourceController {
	return &ResourceController{repo: storage.NewResourceRepository(db)}
}

func (rc *ResourceController) List(ctx *gin.Context) {
	items, err := rc.repo.List(ctx.Request.Context())
	if err != nil {
		respondStoreError(ctx, err, "list resources")
		return
	}
	if items == nil {
		items = []models.Resource{}
	}
	utils.Success(ctx, items)
}
