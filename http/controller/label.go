package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-image-labeler/repository"
	"github.com/tnqbao/gau-image-labeler/utils"
)

func (ctrl *Controller) GetLabelByFile(c *gin.Context) {
	ctx := c.Request.Context()

	file := c.Query("file")
	if file == "" {
		utils.JSON400(c, "file query parameter is required")
		return
	}

	doc, err := ctrl.Repository.LabelRepo.FindByFile(ctx, file)
	if errors.Is(err, repository.ErrRecordNotFound) {
		utils.JSON404(c, "Label record not found")
		return
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Label] Failed to load record for %s: %v", file, err)
		utils.JSON500(c, "Failed to load label record")
		return
	}

	utils.JSON200(c, doc)
}

func (ctrl *Controller) CheckHealth(c *gin.Context) {
	utils.JSON200(c, gin.H{"status": "ok"})
}
