// Package calendar contém a aritmética de períodos usada pelos gráficos:
// granularidades dia/semana/mês/ano alinhadas ao calendário, a janela de 4
// buckets e a navegação limitada ao período atual.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity largura de um bucket
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// BucketCount quantidade fixa de buckets por janela
const BucketCount = 4

// ErrInvalidGranularity modo fora de day/week/month/year
var ErrInvalidGranularity = errors.New("calendar: granularidade inválida")

// ParseGranularity vazio vira Day, como o gráfico abre por padrão
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Day, nil
	case Day, Week, Month, Year:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
}

var (
	ptWeekdays    = [7]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}
	ptMonthsShort = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}
)

// StartOfDay meia-noite do dia de t, no fuso de t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek segunda-feira da semana de t
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	diff := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -diff)
}

// StartOfMonth primeiro dia do mês de t
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear 1º de janeiro do ano de t
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// PeriodStart início do período de granularidade g que contém t
func PeriodStart(g Granularity, t time.Time) time.Time {
	switch g {
	case Week:
		return StartOfWeek(t)
	case Month:
		return StartOfMonth(t)
	case Year:
		return StartOfYear(t)
	default:
		return StartOfDay(t)
	}
}

// Add avança n períodos. Dia e semana preservam a hora de t;
// mês e ano caem no primeiro dia do período de destino.
func Add(g Granularity, t time.Time, n int) time.Time {
	switch g {
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	case Year:
		return time.Date(t.Year()+n, time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return t.AddDate(0, 0, n)
	}
}

// Bucket janela [Start, End) de um período
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Key   string    `json:"key"`
}

// Contains start <= t < end
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// BucketsFor devolve BucketCount buckets contíguos em ordem crescente; o último contém ref
func BucketsFor(g Granularity, ref time.Time) []Bucket {
	last := PeriodStart(g, ref)
	buckets := make([]Bucket, 0, BucketCount)
	for i := BucketCount - 1; i >= 0; i-- {
		start := Add(g, last, -i)
		end := Add(g, start, 1)
		buckets = append(buckets, Bucket{
			Start: start,
			End:   end,
			Label: label(g, start),
			Key:   key(g, start),
		})
	}
	return buckets
}

// Window início do primeiro bucket e fim (exclusivo) do último
func Window(buckets []Bucket) (time.Time, time.Time) {
	if len(buckets) == 0 {
		return time.Time{}, time.Time{}
	}
	return buckets[0].Start, buckets[len(buckets)-1].End
}

func label(g Granularity, start time.Time) string {
	switch g {
	case Week:
		return fmt.Sprintf("%d/%02d", start.Day(), int(start.Month()))
	case Month:
		return fmt.Sprintf("%s/%02d", ptMonthsShort[start.Month()-1], start.Year()%100)
	case Year:
		return fmt.Sprintf("%d", start.Year())
	default:
		return ptWeekdays[start.Weekday()]
	}
}

func key(g Granularity, start time.Time) string {
	switch g {
	case Week:
		return "w-" + start.Format(DateLayout)
	case Month:
		return fmt.Sprintf("m-%d-%d", start.Year(), int(start.Month())-1)
	case Year:
		return fmt.Sprintf("y-%d", start.Year())
	default:
		return "d-" + start.Format(DateLayout)
	}
}

// Prev volta um período
func Prev(g Granularity, current time.Time) time.Time {
	return Add(g, current, -1)
}

// NextClamped avança um período, mas nunca para além do período que contém now
func NextClamped(g Granularity, current, now time.Time) time.Time {
	candidate := Add(g, current, 1)
	limit := PeriodStart(g, now.In(current.Location()))
	if PeriodStart(g, candidate).After(limit) {
		return current
	}
	return candidate
}

// CanAdvance indica se NextClamped mudaria a referência
func CanAdvance(g Granularity, current, now time.Time) bool {
	return !NextClamped(g, current, now).Equal(current)
}

// PeriodLabel texto do navegador do gráfico ("seg", "semana de 13/1", "jan 2026", "2026")
func PeriodLabel(g Granularity, ref time.Time) string {
	switch g {
	case Week:
		return fmt.Sprintf("semana de %d/%d", ref.Day(), int(ref.Month()))
	case Month:
		return fmt.Sprintf("%s %d", ptMonthsShort[ref.Month()-1], ref.Year())
	case Year:
		return fmt.Sprintf("%d", ref.Year())
	default:
		return ptWeekdays[ref.Weekday()]
	}
}
