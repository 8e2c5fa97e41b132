package routes

import (
	scheduleControllers "github.com/ClaudioDevv/e-commerce/controllers/schedule"
	"github.com/gin-gonic/gin"
)

func SetupScheduleRoutes(r *gin.Engine, d Deps) {
	schedule := r.Group("/schedule")
	{
		schedule.GET("/slots", scheduleControllers.AvailableSlots(d.Schedule, d.Store))
		schedule.GET("/status", scheduleControllers.Status(d.Schedule, d.Store))
	}
}
