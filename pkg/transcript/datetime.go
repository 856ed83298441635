package transcript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date or time component is malformed,
// out of range, or would roll over into a neighboring month.
var ErrInvalidDate = errors.New("invalid date")

// NormalizeDateTime converts the locale-ambiguous date and time text found in
// chat exports into a UTC instant.
//
// Dates use day-month-year order with "/" or "." separators. Two-digit years
// map to 1950-2049 (values below 50 are 2000s, the rest 1900s). Times are
// H:MM or H:MM:SS with an optional AM/PM suffix; 12-hour inputs are converted
// to 24-hour, where 12:00 AM is hour 0 and 12:00 PM is hour 12.
//
// A malformed component always yields ErrInvalidDate, never a guessed value.
func NormalizeDateTime(dateText, timeText string) (time.Time, error) {
	day, month, year, err := parseDateParts(dateText)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute, second, err := parseTimeParts(timeText)
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)

	// time.Date silently normalizes out-of-range components (day 31 in a
	// 30-day month rolls into the next month). Re-derive the components and
	// compare to catch that.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q does not exist on the calendar", ErrInvalidDate, dateText)
	}

	return t, nil
}

// parseDateParts splits "31/12/2023" or "31.12.23" into day, month, year.
func parseDateParts(dateText string) (day, month, year int, err error) {
	sep := "/"
	if !strings.Contains(dateText, sep) {
		sep = "."
	}

	parts := strings.Split(strings.TrimSpace(dateText), sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q is not day%smonth%syear", ErrInvalidDate, dateText, sep, sep)
	}

	day, err = atoiComponent(parts[0], "day")
	if err != nil {
		return 0, 0, 0, err
	}
	month, err = atoiComponent(parts[1], "month")
	if err != nil {
		return 0, 0, 0, err
	}
	year, err = atoiComponent(parts[2], "year")
	if err != nil {
		return 0, 0, 0, err
	}

	if day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("%w: day %d out of range", ErrInvalidDate, day)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}

	// Two-digit years: pivot at 50, covering 1950-2049.
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	return day, month, year, nil
}

// parseTimeParts splits "10:30", "23:59:30" or "10:30 PM" into components.
func parseTimeParts(timeText string) (hour, minute, second int, err error) {
	text := strings.TrimSpace(timeText)

	// Peel off an AM/PM suffix; exports use both "10:30 PM" and "10:30PM".
	meridiem := ""
	upper := strings.ToUpper(text)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			text = strings.TrimSpace(text[:len(text)-len(suffix)])
			break
		}
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q is not H:MM[:SS]", ErrInvalidDate, timeText)
	}

	hour, err = atoiComponent(parts[0], "hour")
	if err != nil {
		return 0, 0, 0, err
	}
	minute, err = atoiComponent(parts[1], "minute")
	if err != nil {
		return 0, 0, 0, err
	}
	if len(parts) == 3 {
		second, err = atoiComponent(parts[2], "second")
		if err != nil {
			return 0, 0, 0, err
		}
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, 0, 0, fmt.Errorf("%w: hour %d out of range for 12-hour time", ErrInvalidDate, hour)
		}
		// 12 AM is midnight, 12 PM is noon.
		if meridiem == "AM" && hour == 12 {
			hour = 0
		} else if meridiem == "PM" && hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 {
		return 0, 0, 0, fmt.Errorf("%w: hour %d out of range", ErrInvalidDate, hour)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, 0, fmt.Errorf("%w: minute %d out of range", ErrInvalidDate, minute)
	}
	if second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("%w: second %d out of range", ErrInvalidDate, second)
	}

	return hour, minute, second, nil
}

func atoiComponent(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric %s %q", ErrInvalidDate, name, s)
	}
	return n, nil
}
