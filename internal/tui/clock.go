package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var weekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// Clock formats t as the status bar time line: "HH:mm  YYYY/MM/DD  星期X".
func Clock(t time.Time) string {
	return t.Format("15:04") + "  " + t.Format("2006/01/02") + "  " + weekdays[t.Weekday()]
}

// clockMsg carries the time of a minute tick.
type clockMsg time.Time

// untilNextMinute returns the delay to the next minute boundary.
func untilNextMinute(now time.Time) time.Duration {
	next := now.Truncate(time.Minute).Add(time.Minute)
	return next.Sub(now)
}

// clockTick schedules the next minute tick.
func clockTick(now time.Time) tea.Cmd {
	return tea.Tick(untilNextMinute(now), func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}
