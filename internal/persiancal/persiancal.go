// Package persiancal converts and formats dates and amounts for the
// Persian-speaking front desk. It is presentation-only: the rest of the
// system stores UTC timestamps and integer rials, and nothing here feeds
// back into ledger computation.
package persiancal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var faPrinter = message.NewPrinter(language.Persian)

// ToJalali converts a Gregorian time to Jalali year/month/day.
func ToJalali(t time.Time) (year, month, day int) {
	pt := ptime.New(t)
	return pt.Year(), int(pt.Month()), pt.Day()
}

// ToGregorian converts a Jalali date to a Gregorian time at midnight in
// the given location.
func ToGregorian(jy, jm, jd int, loc *time.Location) time.Time {
	return ptime.Date(jy, ptime.Month(jm), jd, 0, 0, 0, 0, loc).Time()
}

// FormatDate renders a time as a zero-padded Jalali date, e.g. 1403/07/12.
func FormatDate(t time.Time) string {
	jy, jm, jd := ToJalali(t)
	return fmt.Sprintf("%04d/%02d/%02d", jy, jm, jd)
}

// FormatDateFull renders a time as day, month name and year,
// e.g. "12 مهر 1403".
func FormatDateFull(t time.Time) string {
	pt := ptime.New(t)
	return fmt.Sprintf("%d %s %d", pt.Day(), pt.Month().String(), pt.Year())
}

// FormatDateWithWeekday prefixes the full date with the Persian weekday
// name, e.g. "جمعه 12 مهر".
func FormatDateWithWeekday(t time.Time) string {
	pt := ptime.New(t)
	return fmt.Sprintf("%s %d %s", pt.Weekday().String(), pt.Day(), pt.Month().String())
}

// MonthName returns the Jalali month name for 1..12.
func MonthName(m int) string {
	return ptime.Month(m).String()
}

// WeekdayIndex returns the Persian weekday index of t, Saturday = 0.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 1) % 7
}

// StartOfWeek returns midnight of the Saturday opening the Persian week
// containing t.
func StartOfWeek(t time.Time) time.Time {
	d := truncateToDay(t)
	return d.AddDate(0, 0, -WeekdayIndex(d))
}

// EndOfWeek returns midnight of the Friday closing the Persian week
// containing t.
func EndOfWeek(t time.Time) time.Time {
	d := truncateToDay(t)
	return d.AddDate(0, 0, 6-WeekdayIndex(d))
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var persianDigits = [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// ToPersianDigits replaces ASCII digits with Persian ones.
func ToPersianDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return persianDigits[r-'0']
		}
		return r
	}, s)
}

// ToLatinDigits replaces Persian and Arabic-Indic digits with ASCII ones.
func ToLatinDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// FormatAmount renders rials with locale-correct grouping and digits,
// the way the fa-IR number formatter does in the browser.
func FormatAmount(rials int64) string {
	return faPrinter.Sprintf("%d", rials)
}

/// ParseAmount reads a user-entered amount: Persian or Latin digits, with
// or without group separators.
func ParseAmount(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '،', '٬', ' ', ' ', '‏':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	n, err := strconv.ParseInt(ToLatinDigits(cleaned), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ParseAmount: %q: %w", s, err)
	}
	return n, nil
}
