package service

import (
	"fmt"
	"time"

	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// TimeFrame names a deterministically resolvable calendar window.
type TimeFrame string

const (
	FrameToday     TimeFrame = "TODAY"
	FrameYesterday TimeFrame = "YESTERDAY"
	FrameThisWeek  TimeFrame = "THIS_WEEK"
	FrameLastWeek  TimeFrame = "LAST_WEEK"
	FrameThisMonth TimeFrame = "THIS_MONTH"
	FrameLastMonth TimeFrame = "LAST_MONTH"
	FrameThisYear  TimeFrame = "THIS_YEAR"
	FrameLastYear  TimeFrame = "LAST_YEAR"
)

// TimeFrames lists frames in declaration order.
func TimeFrames() []TimeFrame {
	return []TimeFrame{
		FrameToday, FrameYesterday, FrameThisWeek, FrameLastWeek,
		FrameThisMonth, FrameLastMonth, FrameThisYear, FrameLastYear,
	}
}

// ReportWindow is a labeled inclusive [Start, End] period.
type ReportWindow struct {
	Frame       TimeFrame
	Start       time.Time
	End         time.Time
	Description string
}

// Contains reports whether the instant falls inside the window, inclusive
// on both bounds.
func (w ReportWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

const dateLayout = "02/01/2006"

// ResolveWindow maps a named frame to its window anchored on now. Weeks
// start on Monday; day-end bounds are 23:59:59.999 local. Pure, no store
// access.
func ResolveWindow(frame TimeFrame, now time.Time) (ReportWindow, error) {
	var start, end time.Time
	var description string

	switch frame {
	case FrameToday:
		start = startOfDay(now)
		end = endOfDay(now)
		description = "Diário - " + start.Format(dateLayout)
	case FrameYesterday:
		yesterday := now.AddDate(0, 0, -1)
		start = startOfDay(yesterday)
		end = endOfDay(yesterday)
		description = "Ontem - " + start.Format(dateLayout)
	case FrameThisWeek:
		start = startOfWeek(now)
		end = endOfDay(start.AddDate(0, 0, 6))
		description = fmt.Sprintf("Semanal - %s a %s", start.Format(dateLayout), end.Format(dateLayout))
	case FrameLastWeek:
		start = startOfWeek(now).AddDate(0, 0, -7)
		end = endOfDay(start.AddDate(0, 0, 6))
		description = fmt.Sprintf("Semana Passada - %s a %s", start.Format(dateLayout), end.Format(dateLayout))
	case FrameThisMonth:
		start = startOfMonth(now)
		end = endOfDay(start.AddDate(0, 1, -1))
		description = "Mensal - " + start.Format("01/2006")
	case FrameLastMonth:
		start = startOfMonth(now).AddDate(0, -1, 0)
		end = endOfDay(start.AddDate(0, 1, -1))
		description = "Mês Passado - " + start.Format("01/2006")
	case FrameThisYear:
		start = startOfYear(now)
		end = endOfDay(start.AddDate(1, 0, -1))
		description = "Anual - " + start.Format("2006")
	case FrameLastYear:
		start = startOfYear(now).AddDate(-1, 0, 0)
		end = endOfDay(start.AddDate(1, 0, -1))
		description = "Ano Passado - " + start.Format("2006")
	default:
		return ReportWindow{}, apperrors.NewValidationError("unknown time frame", map[string]any{"time_frame": frame})
	}

	return ReportWindow{Frame: frame, Start: start, End: end, Description: description}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// startOfWeek returns midnight of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -offset))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
