package controller

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-image-labeler/entity"
	"github.com/tnqbao/gau-image-labeler/http/controller/dto"
	"github.com/tnqbao/gau-image-labeler/utils"
)

// ReceiveStorageEvent accepts a Pub/Sub push envelope or a bare GCS object
// resource and queues every object it carries for labeling.
func (ctrl *Controller) ReceiveStorageEvent(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Storage Event] Failed to read body: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	events, err := entity.DecodeUploadEvents(body)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Storage Event] Failed to decode notification: %v", err)
		utils.JSON400(c, "Unsupported storage notification")
		return
	}

	files := make([]string, 0, len(events))
	for _, event := range events {
		if err := ctrl.Infra.Produce.LabelService.PublishUploadEvent(ctx, event); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Storage Event] Failed to enqueue %s/%s: %v", event.Bucket, event.Name, err)
			utils.JSON500(c, "Failed to enqueue storage event")
			return
		}
		files = append(files, event.FileURI(ctrl.Config.Label.FileURIScheme))
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Storage Event] Queued %d objects for labeling", len(files))
	utils.JSON202(c, dto.StorageEventResponseDTO{
		Queued: len(files),
		Files:  files,
	})
}
