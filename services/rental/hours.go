package rental

import "fmt"

// The business day runs 06:00 to 05:59 the next calendar day. All interval
// arithmetic uses extended hours 6-29, where 24-29 stands for 0:00-5:59 of
// the following calendar day. This keeps overnight comparisons monotonic:
// a 23:00-02:00 slot becomes [23,26).
const (
	BusinessDayStart = 6
	MinExtendedHour  = 6
	MaxExtendedHour  = 30 // exclusive end bound
)

// ExtendHour maps a raw 0-23 hour into extended-hour space, treating 0-5 as
// the overnight continuation of the business date.
func ExtendHour(h int) int {
	if h >= 0 && h < BusinessDayStart {
		return h + 24
	}
	return h
}

// DisplayHour converts an extended hour back to a 0-23 clock hour plus a
// next-day flag. The conversion is total and reversible.
func DisplayHour(ext int) (hour int, nextDay bool) {
	if ext >= 24 {
		return ext - 24, true
	}
	return ext, false
}

// FormatHour renders an extended hour as "HH:MM" on the 0-23 clock.
func FormatHour(ext int) string {
	h, _ := DisplayHour(ext)
	return fmt.Sprintf("%02d:00", h)
}

// NormalizeRange converts a raw request range into extended-hour space.
// A numerically inverted range (end < start, e.g. 23-2) is taken as an
// overnight wrap and the end is pushed past midnight. The availability
// checker itself never infers wraparound; callers normalize first.
func NormalizeRange(startHour, endHour int) (int, int, error) {
	if startHour < 0 || startHour > 29 {
		return 0, 0, NewValidationError("start hour out of range",
			map[string]any{"startHour": startHour})
	}
	if endHour < 0 || endHour > 30 {
		return 0, 0, NewValidationError("end hour out of range",
			map[string]any{"endHour": endHour})
	}

	s, e := startHour, endHour
	if s < BusinessDayStart {
		s += 24
	}
	if e <= s {
		// A numerically inverted or equal end only makes sense as an
		// overnight wrap, and only for ends at or before 06:00.
		if e > BusinessDayStart {
			return 0, 0, NewValidationError("end hour must be after start hour",
				map[string]any{"startHour": startHour, "endHour": endHour})
		}
		e += 24
	}
	if s < MinExtendedHour || e > MaxExtendedHour {
		return 0, 0, NewValidationError("hour range outside business day",
			map[string]any{"startHour": s, "endHour": e})
	}
	return s, e, nil
}

// overlaps reports half-open interval overlap in extended-hour space.
// Boundary-adjacent intervals (one ending where the other starts) do not
// conflict.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
