package scheduleControllers

import (
	"context"
	"net/http"

	"github.com/ClaudioDevv/e-commerce/controllers"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/scheduling"
	"github.com/gin-gonic/gin"
)

type SettingsSource interface {
	Settings(ctx context.Context) (*models.Settings, error)
}

// GET /schedule/slots
func AvailableSlots(engine *scheduling.Engine, settings SettingsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := settings.Settings(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		if s.TemporarilyClosed {
			c.JSON(http.StatusOK, gin.H{"slots": []scheduling.TimeSlot{}, "message": s.StatusMessage})
			return
		}

		slots, err := engine.AvailableTimeSlots(c.Request.Context(), *s)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		if slots == nil {
			slots = []scheduling.TimeSlot{}
		}
		c.JSON(http.StatusOK, gin.H{"slots": slots})
	}
}

// GET /schedule/status
func Status(engine *scheduling.Engine, settings SettingsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := settings.Settings(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		status, err := engine.Status(c.Request.Context(), *s)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
