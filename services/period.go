package services

import (
	"fmt"
	"time"

	"centavo/backend/models"
)

const dateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseYearMonth validates a YYYY-MM statement month.
func ParseYearMonth(s string) (year int, month int, err error) {
	t, perr := time.Parse("2006-01", s)
	if perr != nil {
		return 0, 0, models.NewValidationError("yearMonth", "invalid statement month %q, expected YYYY-MM", s)
	}
	return t.Year(), int(t.Month()), nil
}

// FaturaMonthFor maps a date to the statement month it bills into, given the
// card's closing day (1-28). A purchase on or after the closing day rolls
// into the next month's statement.
//
// The month arithmetic is done on year/month integers instead of
// time.AddDate: AddDate normalizes day-of-month overflow (Jan 31 + 1 month =
// Mar 3), which would misplace end-of-month purchases.
func FaturaMonthFor(date string, closingDay int) (string, error) {
	if closingDay < 1 || closingDay > 28 {
		return "", models.NewValidationError("closingDay", "closing day %d out of range 1-28", closingDay)
	}
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}

	year, month := t.Year(), int(t.Month())
	if t.Day() >= closingDay {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return fmt.Sprintf("%04d-%02d", year, month), nil
}

// FaturaWindow returns the half-open due-date range [start, end) covered by
// the statement yearMonth for a card with the given closing day. The window
// runs from the closing day of the previous month up to (and excluding) the
// closing day of the statement month, so FaturaMonthFor(d) == yearMonth
// exactly when start <= d < end.
func FaturaWindow(yearMonth string, closingDay int) (start, end string, err error) {
	if closingDay < 1 || closingDay > 28 {
		return "", "", models.NewValidationError("closingDay", "closing day %d out of range 1-28", closingDay)
	}
	year, month, err := ParseYearMonth(yearMonth)
	if err != nil {
		return "", "", err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevMonth = 12
		prevYear--
	}
	start = fmt.Sprintf("%04d-%02d-%02d", prevYear, prevMonth, closingDay)
	end = fmt.Sprintf("%04d-%02d-%02d", year, month, closingDay)
	return start, end, nil
}

// AddMonths shifts a date by n calendar months, clamping the day to the
// target month's length (Jan 31 + 1 month = Feb 28/29). Installment due
// dates are derived with this so every installment lands exactly one
// statement later than the previous one.
func AddMonths(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}

	year, month := t.Year(), int(t.Month())+n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
