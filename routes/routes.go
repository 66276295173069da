package routes

import (
	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()
	gemini := services.NewGeminiService()
	targetSvc := services.NewTargetService(gemini)
	profileSvc := services.NewProfileService(config.DB, targetSvc)
	logSvc := services.NewLogService(config.DB, hub)
	summarySvc := services.NewSummaryService(config.DB)
	trackerSvc := services.NewTrackerService(config.DB, hub)

	profileCtl := controllers.NewProfileController(profileSvc)
	scanCtl := controllers.NewScanController(gemini, logSvc)
	logCtl := controllers.NewLogController(logSvc)
	summaryCtl := controllers.NewSummaryController(summarySvc)
	trackerCtl := controllers.NewTrackerController(trackerSvc, profileSvc)
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Everything else requires a session
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/user/profile", profileCtl.CreateProfile)
		api.GET("/user/profile", profileCtl.GetProfile)
		api.PUT("/user/profile/targets", profileCtl.UpdateTargets)

		api.POST("/scan/analyze", scanCtl.Analyze)
		api.POST("/food/recognize", controllers.RecognizeFood)

		api.POST("/logs", scanCtl.SaveLog)
		api.GET("/logs", logCtl.ListByDate)
		api.GET("/logs/grouped", logCtl.ListGrouped)
		api.GET("/logs/:id", logCtl.Get)
		api.DELETE("/logs/:id", logCtl.Delete)
		api.PATCH("/logs/:id/quantity", logCtl.UpdateQuantity)

		api.GET("/summary/daily", summaryCtl.Daily)
		api.GET("/summary/weekly", summaryCtl.Weekly)

		api.POST("/water", trackerCtl.AddWater)
		api.GET("/water", trackerCtl.GetWater)
		api.POST("/weight", trackerCtl.AddWeight)
		api.GET("/weight", trackerCtl.GetWeight)

		api.GET("/ws", realtimeCtl.EventsWS)
	}

	return r
}
