package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

const (
	dateLayout   = "2006-01-02"
	minuteLayout = "2006-01-02T15:04"
	secondLayout = "2006-01-02T15:04:05"
)

var (
	zoneMu sync.RWMutex
	zone   = defaultZone()
)

func defaultZone() *time.Location {
	if loc, err := time.LoadLocation("Europe/Berlin"); err == nil {
		return loc
	}
	return time.Local
}

// SetZone sets the zone zone-less timestamps are read in. Call once at start-up.
func SetZone(loc *time.Location) {
	if loc == nil {
		return
	}
	zoneMu.Lock()
	zone = loc
	zoneMu.Unlock()
}

func Zone() *time.Location {
	zoneMu.RLock()
	defer zoneMu.RUnlock()
	return zone
}

// Date is a calendar day without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts a bare date or any value whose first ten characters are
// a date followed by a time part ('T' or ' '). The date portion is kept as
// written; no zone conversion happens.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if len(s) < len(dateLayout) {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	if len(s) > len(dateLayout) && s[10] != 'T' && s[10] != ' ' {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	t, err := time.Parse(dateLayout, s[:10])
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d == Date{} }

// Valid reports whether d is set. Safe on a nil pointer.
func (d *Date) Valid() bool { return d != nil && !d.IsZero() }

func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Before(o Date) bool { return d.In(time.UTC).Before(o.In(time.UTC)) }
func (d Date) After(o Date) bool  { return o.Before(d) }

func (d Date) AddDays(n int) Date { return DateOf(d.In(time.UTC).AddDate(0, 0, n)) }

// DaysUntil is the number of days from d to o; negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.In(time.UTC).Sub(d.In(time.UTC)).Hours() / 24)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.In(time.UTC).Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.In(time.UTC), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Timestamp is an instant. Values without an explicit offset are read as
// wall-clock time in Zone().
type Timestamp struct {
	t time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{t: t} }

var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}

var wallLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	secondLayout,
	minuteLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
}

func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, l := range zonedLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return Timestamp{t: t}, nil
		}
	}
	loc := Zone()
	for _, l := range wallLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return Timestamp{t: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func MustTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func (ts Timestamp) Time() time.Time { return ts.t }
func (ts Timestamp) IsZero() bool    { return ts.t.IsZero() }

// Valid reports whether ts is set. Safe on a nil pointer.
func (ts *Timestamp) Valid() bool { return ts != nil && !ts.t.IsZero() }

// Date is the calendar day of ts in Zone().
func (ts Timestamp) Date() Date {
	if ts.IsZero() {
		return Date{}
	}
	return DateOf(ts.t.In(Zone()))
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	t := ts.t.In(Zone())
	if t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(minuteLayout)
	}
	return t.Format(secondLayout)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = v
	return nil
}

func (ts Timestamp) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return ts.t, nil
}

func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ts = Timestamp{}
	case time.Time:
		*ts = Timestamp{t: v}
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

func (ts *Timestamp) scanString(s string) error {
	v, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = v
	return nil
}
