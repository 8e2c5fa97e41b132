// Package scheduling answers "are we open" and "when can this order be ready"
// from the weekly business hours, date overrides and the settings snapshot of
// the request. Nothing is cached; every call reads the hours fresh.
package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
)

// HoursSource is the part of the store the engine reads.
type HoursSource interface {
	// SpecialHoursByDate returns nil when the date has no override.
	SpecialHoursByDate(ctx context.Context, date string) (*models.SpecialHours, error)
	// BusinessHoursByDay returns the shifts of a weekday ordered by shift order.
	BusinessHoursByDay(ctx context.Context, day time.Weekday) ([]models.BusinessHours, error)
}

type TimeSlot struct {
	Time              time.Time `json:"time"`
	Label             string    `json:"label"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

type Status struct {
	Open              bool    `json:"open"`
	TemporarilyClosed bool    `json:"temporarily_closed"`
	Message           string  `json:"message,omitempty"`
	TodayShifts       []Shift `json:"today_shifts"`
}

type Engine struct {
	hours HoursSource
	loc   *time.Location
	now   func() time.Time
}

// NewEngine builds an engine evaluating every time in loc. now defaults to time.Now.
func NewEngine(hours HoursSource, loc *time.Location, now func() time.Time) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{hours: hours, loc: loc, now: now}
}

func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// TodayHours returns today's shifts in order.
func (e *Engine) TodayHours(ctx context.Context) ([]Shift, error) {
	return e.hoursOn(ctx, e.Now())
}

func (e *Engine) hoursOn(ctx context.Context, day time.Time) ([]Shift, error) {
	special, err := e.hours.SpecialHoursByDate(ctx, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("load special hours: %w", err)
	}

	var weekly []models.BusinessHours
	if special == nil {
		weekly, err = e.hours.BusinessHoursByDay(ctx, day.Weekday())
		if err != nil {
			return nil, fmt.Errorf("load business hours: %w", err)
		}
	}

	shifts, err := ShiftsFor(special, weekly)
	if err != nil {
		return nil, apperror.Internal("business hours are misconfigured", err)
	}
	return shifts, nil
}

// IsOpenNow reports whether the current minute falls inside a shift, bounds included.
func (e *Engine) IsOpenNow(ctx context.Context) (bool, error) {
	now := e.Now()
	shifts, err := e.hoursOn(ctx, now)
	if err != nil {
		return false, err
	}
	return withinAny(shifts, MinuteOfDay(now)), nil
}

// AvailableTimeSlots lists every slot that can still be served today.
func (e *Engine) AvailableTimeSlots(ctx context.Context, settings models.Settings) ([]TimeSlot, error) {
	now := e.Now()
	shifts, err := e.hoursOn(ctx, now)
	if err != nil {
		return nil, err
	}
	return Slots(shifts, now, settings.PrepDuration()), nil
}

// ValidateScheduledTime rejects a requested time that is not today, too soon,
// off the 15 minute grid or outside the shifts.
func (e *Engine) ValidateScheduledTime(ctx context.Context, requested time.Time, settings models.Settings) error {
	now := e.Now()
	requested = requested.In(e.loc)

	if !sameDate(requested, now) {
		return apperror.Validation("orders can only be scheduled for today")
	}

	if requested.Before(now.Add(settings.PrepDuration())) {
		return apperror.Validation("scheduled time must be at least %d minutes from now", settings.AvgPrepMinutes)
	}

	if requested.Minute()%SlotMinutes != 0 || requested.Second() != 0 || requested.Nanosecond() != 0 {
		return apperror.Validation("scheduled time must be on a %d minute interval (:00, :15, :30, :45)", SlotMinutes)
	}

	shifts, err := e.hoursOn(ctx, now)
	if err != nil {
		return err
	}
	if len(shifts) == 0 {
		return apperror.Validation("the restaurant is closed today")
	}
	if !withinAny(shifts, MinuteOfDay(requested)) {
		return apperror.Validation("scheduled time is outside opening hours (%s)", describe(shifts))
	}
	return nil
}

// CalculateEstimatedTime returns scheduledFor as is, or the first slot the
// kitchen can make today.
func (e *Engine) CalculateEstimatedTime(ctx context.Context, settings models.Settings, scheduledFor *time.Time) (time.Time, error) {
	if scheduledFor != nil {
		return scheduledFor.In(e.loc), nil
	}

	now := e.Now()
	estimated := CeilToSlot(now.Add(settings.PrepDuration()))

	shifts, err := e.hoursOn(ctx, now)
	if err != nil {
		return time.Time{}, err
	}
	if !sameDate(estimated, now) || !withinAny(shifts, MinuteOfDay(estimated)) {
		return time.Time{}, apperror.Validation(
			"we cannot take more orders today: the earliest time (%s) is outside opening hours",
			estimated.Format("15:04"),
		)
	}
	return estimated, nil
}

// Status is the storefront view: open now, and not switched off by hand.
func (e *Engine) Status(ctx context.Context, settings models.Settings) (Status, error) {
	now := e.Now()
	shifts, err := e.hoursOn(ctx, now)
	if err != nil {
		return Status{}, err
	}

	st := Status{
		Open:              !settings.TemporarilyClosed && withinAny(shifts, MinuteOfDay(now)),
		TemporarilyClosed: settings.TemporarilyClosed,
		TodayShifts:       shifts,
	}
	switch {
	case settings.TemporarilyClosed:
		st.Message = settings.StatusMessage
	case len(shifts) == 0:
		st.Message = "closed today"
	}
	return st, nil
}

// CeilToSlot rounds t up to the next 15 minute boundary. Times already on a
// boundary (with zero seconds) are returned unchanged.
func CeilToSlot(t time.Time) time.Time {
	minute := MinuteOfDay(t)
	if minute%SlotMinutes == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	next := (minute/SlotMinutes + 1) * SlotMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), 0, next, 0, 0, t.Location())
}

// Slots generates the 15 minute slots of the given shifts that are reachable
// from now once prep time has passed.
func Slots(shifts []Shift, now time.Time, prep time.Duration) []TimeSlot {
	if len(shifts) == 0 {
		return []TimeSlot{}
	}

	earliest := CeilToSlot(now.Add(prep))
	slots := []TimeSlot{}
	var last time.Time

	for _, shift := range shifts {
		open := atMinute(now, shift.Open)
		close := atMinute(now, shift.Close)

		if earliest.After(close) {
			continue
		}

		start := earliest
		if start.Before(open) {
			start = CeilToSlot(open)
		}

		for t := start; !t.After(close); t = t.Add(SlotMinutes * time.Minute) {
			if !last.IsZero() && !t.After(last) {
				continue
			}
			slots = append(slots, TimeSlot{Time: t, Label: t.Format("15:04"), EstimatedDelivery: t})
			last = t
		}
	}
	return slots
}

func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

func withinAny(shifts []Shift, minute int) bool {
	for _, s := range shifts {
		if s.Contains(minute) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
