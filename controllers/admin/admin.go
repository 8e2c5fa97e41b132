package adminController

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/controllers"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/cart"
	"github.com/ClaudioDevv/e-commerce/services/report"
	"github.com/ClaudioDevv/e-commerce/services/scheduling"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Store interface {
	ListIncidents(ctx context.Context, unresolvedOnly bool) ([]models.PaymentIncident, error)
	ResolveIncident(ctx context.Context, id uint) error
	Settings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error
	ReplaceBusinessHours(ctx context.Context, day time.Weekday, shifts []models.BusinessHours) error
	SaveSpecialHours(ctx context.Context, special *models.SpecialHours) error
}

// GET /admin/incidents?unresolved=true
func ListIncidents(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		unresolved := c.Query("unresolved") == "true"
		incidents, err := store.ListIncidents(c.Request.Context(), unresolved)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		if incidents == nil {
			incidents = []models.PaymentIncident{}
		}
		c.JSON(http.StatusOK, incidents)
	}
}

// POST /admin/incidents/:id/resolve
func ResolveIncident(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
			return
		}
		if err := store.ResolveIncident(c.Request.Context(), uint(id)); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Incident resolved"})
	}
}

// GET /admin/incidents/export-excel
func ExportIncidentsToExcel(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		incidents, err := store.ListIncidents(c.Request.Context(), c.Query("unresolved") == "true")
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=incidents.xlsx")
		c.Header("Content-Type", report.ContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := report.WriteIncidents(c.Writer, incidents); err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

// GET /admin/settings
func GetSettings(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := store.Settings(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

type SettingsInput struct {
	AvgPrepMinutes    *int             `json:"avg_prep_minutes" binding:"omitempty,min=0,max=240"`
	DeliveryFee       *decimal.Decimal `json:"delivery_fee"`
	MinOrderAmount    *decimal.Decimal `json:"min_order_amount"`
	TemporarilyClosed *bool            `json:"temporarily_closed"`
	StatusMessage     *string          `json:"status_message" binding:"omitempty,max=200"`
}

// PUT /admin/settings changes only the fields that are sent.
func UpdateSettings(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SettingsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadInput(c, err)
			return
		}
		if (input.DeliveryFee != nil && input.DeliveryFee.IsNegative()) ||
			(input.MinOrderAmount != nil && input.MinOrderAmount.IsNegative()) {
			controllers.Fail(c, apperror.Validation("amounts cannot be negative"))
			return
		}

		settings, err := store.Settings(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		if input.AvgPrepMinutes != nil {
			settings.AvgPrepMinutes = *input.AvgPrepMinutes
		}
		if input.DeliveryFee != nil {
			settings.DeliveryFee = *input.DeliveryFee
		}
		if input.MinOrderAmount != nil {
			settings.MinOrderAmount = *input.MinOrderAmount
		}
		if input.TemporarilyClosed != nil {
			settings.TemporarilyClosed = *input.TemporarilyClosed
		}
		if input.StatusMessage != nil {
			settings.StatusMessage = *input.StatusMessage
		}

		if err := store.UpdateSettings(c.Request.Context(), settings); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

type ShiftInput struct {
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

// PUT /admin/hours/:day replaces the shifts of a weekday (0 = Sunday). An empty
// list closes the day.
func ReplaceBusinessHours(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := strconv.Atoi(c.Param("day"))
		if err != nil || day < 0 || day > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day, use 0 (Sunday) to 6 (Saturday)"})
			return
		}

		var input []ShiftInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadInput(c, err)
			return
		}

		shifts := make([]models.BusinessHours, 0, len(input))
		for _, in := range input {
			if err := validRange(in.OpenTime, in.CloseTime); err != nil {
				controllers.Fail(c, err)
				return
			}
			shifts = append(shifts, models.BusinessHours{OpenTime: in.OpenTime, CloseTime: in.CloseTime})
		}

		if err := store.ReplaceBusinessHours(c.Request.Context(), time.Weekday(day), shifts); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, shifts)
	}
}

type SpecialHoursInput struct {
	Date      string  `json:"date" binding:"required"`
	IsClosed  bool    `json:"is_closed"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	Reason    string  `json:"reason"`
}

// PUT /admin/special-hours
func SaveSpecialHours(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SpecialHoursInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadInput(c, err)
			return
		}
		if _, err := time.Parse("2006-01-02", input.Date); err != nil {
			controllers.Fail(c, apperror.Validation("date must look like 2006-01-02"))
			return
		}
		if !input.IsClosed {
			if input.OpenTime == nil || input.CloseTime == nil {
				controllers.Fail(c, apperror.Validation("open_time and close_time are required unless the day is closed"))
				return
			}
			if err := validRange(*input.OpenTime, *input.CloseTime); err != nil {
				controllers.Fail(c, err)
				return
			}
		}

		special := &models.SpecialHours{
			Date:      input.Date,
			IsClosed:  input.IsClosed,
			OpenTime:  input.OpenTime,
			CloseTime: input.CloseTime,
			Reason:    input.Reason,
		}
		if err := store.SaveSpecialHours(c.Request.Context(), special); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, special)
	}
}

func validRange(openAt, closeAt string) error {
	from, err := scheduling.ParseClock(openAt)
	if err != nil {
		return apperror.Validation("invalid open time %q", openAt)
	}
	to, err := scheduling.ParseClock(closeAt)
	if err != nil {
		return apperror.Validation("invalid close time %q", closeAt)
	}
	if to <= from {
		return apperror.Validation("close time %s must be after open time %s", closeAt, openAt)
	}
	return nil
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		items, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		summary, err := svc.Summary(c.Request.Context(), userID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "items": items, "summary": summary})
	}
}
