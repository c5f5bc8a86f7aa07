package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DayLayout is the wire and storage form of a Day.
const DayLayout = "2006-01-02"

var (
	// ErrInvalidDay reports a date string that is not in YYYY-MM-DD form.
	ErrInvalidDay = errors.New("invalid date (YYYY-MM-DD)")
	// ErrInvalidDate reports an unparsable or out-of-range year, month or day.
	ErrInvalidDate = errors.New("invalid year/month/day")
)

// Day is a calendar date without a time of day. It is stored as a
// YYYY-MM-DD string so range filters behave the same on every driver.
// The zero Day holds no date; 0001-01-01 is a real date.
type Day struct {
	t     time.Time
	valid bool
}

// NewDay validates the parts and builds a Day.
func NewDay(year int, month time.Month, day int) (Day, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return Day{}, ErrInvalidDate
	}
	if day < 1 || day > DaysIn(year, month) {
		return Day{}, ErrInvalidDate
	}
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}, nil
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), valid: true}
}

// ParseDay parses a YYYY-MM-DD string. Year 0000 parses as a layout
// but yields ErrInvalidDate, matching MonthBounds.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	if t.Year() < 1 {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day{t: t, valid: true}, nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last day of a month. Months outside
// 1..12 and years outside 1..9999 yield ErrInvalidDate.
func MonthBounds(year, month int) (Day, Day, error) {
	first, err := NewDay(year, time.Month(month), 1)
	if err != nil {
		return Day{}, Day{}, err
	}
	last, _ := NewDay(year, time.Month(month), DaysIn(year, time.Month(month)))
	return first, last, nil
}

func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) Day() int          { return d.t.Day() }
func (d Day) IsZero() bool      { return !d.valid }
func (d Day) Time() time.Time   { return d.t }
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n), valid: d.valid} }
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }
func (d Day) String() string {
	if !d.valid {
		return ""
	}
	return d.t.Format(DayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDay, string(b))
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType keeps the column a short string on every dialect.
func (Day) GormDataType() string { return "string" }

// Value implements driver.Valuer.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case time.Time:
		*d = DayOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Day", src)
	}
}

func (d *Day) scanString(s string) error {
	// some drivers hand back "2024-02-01 00:00:00"
	if len(s) > len(DayLayout) {
		s = s[:len(DayLayout)]
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
