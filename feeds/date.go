package feeds

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateFormat controls how Raw dates are interpreted
type DateFormat string

const (
	DateFormatTimestamp DateFormat = "timestamp"
	DateFormatDatetime  DateFormat = "datetime"
)

// ISO-8601 with a numeric offset, never "Z"
const isoLayout = "2006-01-02T15:04:05-07:00"

// Channel publication date when none is set, e.g. "Mon, 02 Jan 2006 15:04:05 -0700"
const channelDateLayout = time.RFC1123Z

// ParseDateFormat maps a configuration value to a DateFormat. The empty string means datetime.
func ParseDateFormat(s string) (DateFormat, error) {
	switch DateFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", DateFormatDatetime:
		return DateFormatDatetime, nil
	case DateFormatTimestamp:
		return DateFormatTimestamp, nil
	}
	return "", fmt.Errorf("unknown date format %q", s)
}

type dateKind int

const (
	rawDate dateKind = iota
	timestampDate
	freeTextDate
)

// Date is a publication date as supplied by the caller
type Date struct {
	kind dateKind
	unix int64
	text string
}

// Timestamp is a Unix epoch in seconds
func Timestamp(sec int64) Date {
	return Date{kind: timestampDate, unix: sec}
}

// FreeText is a date in any format the date parser understands, including
// RFC 2822, ISO-8601 and English phrases like "yesterday", "3 days ago",
// "last friday" or "next month". A phrase must make up the whole string;
// text around it is rejected rather than ignored.
func FreeText(s string) Date {
	return Date{kind: freeTextDate, text: s}
}

// Raw is interpreted according to the builder's date format: decimal epoch
// seconds in timestamp mode, free text otherwise.
func Raw(s string) Date {
	return Date{kind: rawDate, text: s}
}

func (d Date) String() string {
	if d.kind == timestampDate {
		return strconv.FormatInt(d.unix, 10)
	}
	return d.text
}

var relativeDates = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	w.Add(relativePeriod)
	return w
}()

// relativePeriod handles "last week", "next month", "last year" and friends
var relativePeriod = &rules.F{
	RegExp: regexp.MustCompile(`(?i)(?:\W|^)(last|next|previous)\s+(week|month|year)(?:\W|$)`),
	Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
		n := 1
		if !strings.EqualFold(m.Captures[0], "next") {
			n = -1
		}

		var target time.Time
		switch strings.ToLower(m.Captures[1]) {
		case "week":
			target = ref.AddDate(0, 0, 7*n)
		case "month":
			target = ref.AddDate(0, n, 0)
		default:
			target = ref.AddDate(n, 0, 0)
		}
		c.Duration = target.Sub(ref)
		return true, nil
	},
}

// NormalizeDate formats d as ISO-8601 in loc. Relative phrases are resolved against now.
func NormalizeDate(d Date, mode DateFormat, loc *time.Location, now time.Time) (string, error) {
	t, err := parseDate(d, mode, loc, now)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(isoLayout), nil
}

func parseDate(d Date, mode DateFormat, loc *time.Location, now time.Time) (time.Time, error) {
	switch d.kind {
	case timestampDate:
		return time.Unix(d.unix, 0), nil
	case freeTextDate:
		return parseFreeText(d.text, loc, now)
	}

	if mode == DateFormatTimestamp {
		sec, err := strconv.ParseInt(strings.TrimSpace(d.text), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a unix timestamp", ErrInvalidDateFormat, d.text)
		}
		return time.Unix(sec, 0), nil
	}
	return parseFreeText(d.text, loc, now)
}

func parseFreeText(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDateFormat)
	}

	if t, err := dateparse.ParseIn(s, loc); err == nil {
		return t, nil
	}

	r, err := relativeDates.Parse(s, now.In(loc))
	if err != nil || r == nil || !coversInput(s, r.Index, r.Text) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return r.Time, nil
}

// coversInput reports whether the matched phrase is all of s, give or take
// surrounding whitespace
func coversInput(s string, index int, text string) bool {
	end := index + len(text)
	if index < 0 || end > len(s) {
		return false
	}
	return strings.TrimSpace(s[:index]) == "" && strings.TrimSpace(s[end:]) == ""
}
