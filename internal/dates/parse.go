package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrMalformed indicates the text is not a recognized date form.
	ErrMalformed = errors.New("date text not recognized")

	// ErrImpossibleDate indicates a recognized form naming a day that does not exist.
	ErrImpossibleDate = errors.New("date does not exist on the calendar")

	// ErrSuspiciousDate indicates a real date outside the accepted window.
	ErrSuspiciousDate = errors.New("date outside the accepted window")

	// ErrInvalidTimezone indicates an unknown IANA zone id.
	ErrInvalidTimezone = errors.New("unknown IANA time zone")
)

const (
	// DefaultPastWindow is how far before today a due date may fall.
	DefaultPastWindow = 30 * 24 * time.Hour

	// DefaultFutureWindow is how far after today a due date may fall.
	DefaultFutureWindow = 730 * 24 * time.Hour

	day = 24 * time.Hour
)

// Options controls Parse.
type Options struct {
	// Locale reads numeric slash dates. Empty means LocaleUS.
	Locale Locale

	// Now returns the current instant. Nil means time.Now.
	Now func() time.Time

	// PastWindow and FutureWindow bound accepted dates relative to today in
	// the target zone. Zero means the package default.
	PastWindow   time.Duration
	FutureWindow time.Duration
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) windows() (past, future int) {
	p, f := o.PastWindow, o.FutureWindow
	if p <= 0 {
		p = DefaultPastWindow
	}
	if f <= 0 {
		f = DefaultFutureWindow
	}
	return int(p / day), int(f / day)
}

// Result is a parsed and validated due date.
type Result struct {
	// ISODate is the calendar date as YYYY-MM-DD.
	ISODate string
	// RawText is the input text, trimmed.
	RawText string
	// Ambiguous is true for slash dates whose reading depends on the locale.
	Ambiguous bool
	// Instant is midnight of ISODate in the requested zone.
	Instant time.Time
}

// RFC3339 returns Instant with the zone offset in effect on that date.
func (r Result) RFC3339() string {
	return r.Instant.Format(time.RFC3339)
}

var (
	isoPattern        = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashPattern      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	monthFirstPattern = regexp.MustCompile(`(?i)^(?:[a-z]+day,?\s+)?([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)
	dayFirstPattern   = regexp.MustCompile(`(?i)^(?:[a-z]+day,?\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\.?,?\s+(\d{4})$`)
)

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var locations sync.Map // string -> *time.Location

// LoadLocation resolves an IANA zone id. Empty means UTC.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	if loc, ok := locations.Load(tz); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	locations.Store(tz, loc)
	return loc, nil
}

// Parse reads text as a due date in zone tz.
//
// Recognized forms: YYYY-MM-DD, NN/NN/YYYY (locale dependent), "March 4, 2026",
// "Mar 4 2026", "4 March 2026", with optional ordinal suffixes and a leading
// weekday.
func Parse(text, tz string, opts Options) (Result, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return Result{}, err
	}

	raw := strings.TrimSpace(text)
	year, month, dayOfMonth, ambiguous, err := parseParts(raw, opts.Locale.OrDefault())
	if err != nil {
		return Result{}, err
	}
	if !IsValidDate(year, month, dayOfMonth) {
		return Result{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrImpossibleDate, year, month, dayOfMonth)
	}

	if err := checkWindow(year, month, dayOfMonth, loc, opts); err != nil {
		return Result{}, err
	}

	return Result{
		ISODate:   fmt.Sprintf("%04d-%02d-%02d", year, month, dayOfMonth),
		RawText:   raw,
		Ambiguous: ambiguous,
		Instant:   time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, loc),
	}, nil
}

// IsAmbiguous reports whether text is a slash date that reads differently
// under LocaleUS and LocaleEU.
func IsAmbiguous(text string) bool {
	_, _, _, ambiguous, err := parseParts(strings.TrimSpace(text), LocaleUS)
	return err == nil && ambiguous
}

// parseParts splits raw into year, month and day without calendar checks.
func parseParts(raw string, locale Locale) (year, month, dayOfMonth int, ambiguous bool, err error) {
	if m := isoPattern.FindStringSubmatch(raw); m != nil {
		return atoi(m[1]), atoi(m[2]), atoi(m[3]), false, nil
	}

	if m := slashPattern.FindStringSubmatch(raw); m != nil {
		first, second := atoi(m[1]), atoi(m[2])
		year = atoi(m[3])
		ambiguous = first != second && first <= 12 && second <= 12
		if locale == LocaleEU {
			return year, second, first, ambiguous, nil
		}
		return year, first, second, ambiguous, nil
	}

	if m := monthFirstPattern.FindStringSubmatch(raw); m != nil {
		mon, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			return 0, 0, 0, false, fmt.Errorf("%w: unknown month %q", ErrMalformed, m[1])
		}
		return atoi(m[3]), mon, atoi(m[2]), false, nil
	}

	if m := dayFirstPattern.FindStringSubmatch(raw); m != nil {
		mon, ok := monthNames[strings.ToLower(m[2])]
		if !ok {
			return 0, 0, 0, false, fmt.Errorf("%w: unknown month %q", ErrMalformed, m[2])
		}
		return atoi(m[3]), mon, atoi(m[1]), false, nil
	}

	return 0, 0, 0, false, ErrMalformed
}

// checkWindow rejects dates too far before or after today in loc. The window
// counts whole calendar days, so the time of day of now does not matter.
func checkWindow(year, month, dayOfMonth int, loc *time.Location, opts Options) error {
	now := opts.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
	diff := int(due.Sub(today) / day)

	past, future := opts.windows()
	if diff < -past {
		return fmt.Errorf("%w: %d days in the past (max %d)", ErrSuspiciousDate, -diff, past)
	}
	if diff > future {
		return fmt.Errorf("%w: %d days in the future (max %d)", ErrSuspiciousDate, diff, future)
	}
	return nil
}

// atoi converts a regexp digit group. The patterns guarantee digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
