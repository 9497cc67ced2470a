package calendar

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout formato ISO de data usado na API
	DateLayout = "2006-01-02"
	// MonthLayout formato de mês (month=2026-01)
	MonthLayout = "2006-01"
	// DateTimeLayout formato de data e hora local
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ErrInvalidDate data que não pôde ser interpretada
var ErrInvalidDate = errors.New("calendar: data inválida")

var brDate = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})$`)

// ParseFlexibleDate aceita "aaaa-mm-dd", "dd/mm/aaaa", "dd-mm-aaaa",
// "aaaa-mm-dd hh:mm:ss" e RFC3339. Datas sem hora ficam à meia-noite de loc.
func ParseFlexibleDate(input string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, nil
	}

	m := brDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrInvalidDate
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normaliza 31/02 para março; rejeita
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseMonth "aaaa-mm" para o primeiro dia do mês em loc
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// MonthRange [primeiro dia, primeiro dia do mês seguinte)
func MonthRange(month time.Time) (time.Time, time.Time) {
	start := StartOfMonth(month)
	return start, Add(Month, start, 1)
}

// DayRange converte from/to inclusivos em [from 00:00, to+1 00:00)
func DayRange(from, to time.Time) (time.Time, time.Time) {
	return StartOfDay(from), StartOfDay(to).AddDate(0, 0, 1)
}

// YearToDate [1º de janeiro, amanhã 00:00) para o ano corrente,
// ou o ano inteiro quando year é passado
func YearToDate(year int, now time.Time) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	if year < now.Year() {
		return start, Add(Year, start, 1)
	}
	return start, StartOfDay(now).AddDate(0, 0, 1)
}
