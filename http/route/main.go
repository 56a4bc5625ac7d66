package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-image-labeler/http/controller"
	middlewares "github.com/tnqbao/gau-image-labeler/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.GET("/health", ctrl.CheckHealth)

	apiRoutes := r.Group("/api/v1")
	{
		eventRoutes := apiRoutes.Group("/events")
		{
			eventRoutes.Use(middles.AuthMiddleware)
			eventRoutes.POST("/storage", ctrl.ReceiveStorageEvent)
		}

		apiRoutes.GET("/labels", ctrl.GetLabelByFile)
	}
	return r
}
