package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
)

// SlotMinutes is the granularity of every schedulable time.
const SlotMinutes = 15

const dateLayout = "2006-01-02"

// Shift is an opening interval expressed in minutes since midnight.
type Shift struct {
	Open  int `json:"-"`
	Close int `json:"-"`
}

func (s Shift) Contains(minute int) bool {
	return minute >= s.Open && minute <= s.Close
}

func (s Shift) String() string {
	return FormatClock(s.Open) + "-" + FormatClock(s.Close)
}

// MarshalText keeps the JSON form readable ("12:00-16:00").
func (s Shift) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is accepted as
// end of day.
func ParseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", value, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", value, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", value)
	}
	return h*60 + m, nil
}

func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// MinuteOfDay is the wall clock of t in minutes since midnight, seconds ignored.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ShiftsFor merges the weekly schedule with a date override. A special row
// replaces the weekly shifts entirely; a closed special row yields none.
func ShiftsFor(special *models.SpecialHours, weekly []models.BusinessHours) ([]Shift, error) {
	if special != nil {
		if special.IsClosed || special.OpenTime == nil || special.CloseTime == nil {
			return nil, nil
		}
		shift, err := parseShift(*special.OpenTime, *special.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("special hours %s: %w", special.Date, err)
		}
		if shift.Close <= shift.Open {
			return nil, nil
		}
		return []Shift{shift}, nil
	}

	shifts := make([]Shift, 0, len(weekly))
	for _, bh := range weekly {
		shift, err := parseShift(bh.OpenTime, bh.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("business hours %d: %w", bh.ID, err)
		}
		if shift.Close <= shift.Open {
			continue
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

func parseShift(open, close string) (Shift, error) {
	o, err := ParseClock(open)
	if err != nil {
		return Shift{}, err
	}
	c, err := ParseClock(close)
	if err != nil {
		return Shift{}, err
	}
	return Shift{Open: o, Close: c}, nil
}

func describe(shifts []Shift) string {
	parts := make([]string, len(shifts))
	for i, s := range shifts {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
