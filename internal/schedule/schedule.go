// Package schedule holds the pure time rules for booking: hour alignment,
// the cancellation window and the human-readable date phrase.
package schedule

import (
	"fmt"
	"time"
)

// CancellationNotice is how long before the slot a client may still cancel.
const CancellationNotice = 2 * time.Hour

// HourStart truncates t to the start of its hour. A booking occupies the whole
// hour, so two requests inside the same hour map to the same slot.
func HourStart(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// CancelDeadline is the last instant at which the appointment may be canceled.
func CancelDeadline(date time.Time) time.Time {
	return date.Add(-CancellationNotice)
}

var ptMonths = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatPT renders t as a Portuguese date phrase, e.g. "dia 10 de maio, às 14:00".
func FormatPT(t time.Time) string {
	return fmt.Sprintf("dia %02d de %s, às %02d:%02d",
		t.Day(), ptMonths[t.Month()-1], t.Hour(), t.Minute())
}
