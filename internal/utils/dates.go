package utils

import "time"

// Weekday labels used on the schedule screens.  The event runs in
// Brazil, so the labels stay in Portuguese.
var weekdays = [...]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

// FormatDate renders a calendar day as DD/MM.
func FormatDate(t time.Time) string {
	return t.UTC().Format("02/01")
}

// FormatDateWithWeekday renders a calendar day as "Weekday, DD/MM".
func FormatDateWithWeekday(t time.Time) string {
	u := t.UTC()
	return weekdays[int(u.Weekday())] + ", " + u.Format("02/01")
}

// FormatTime renders a timestamp's clock part as HH:MM.
func FormatTime(t time.Time) string {
	return t.UTC().Format("15:04")
}
