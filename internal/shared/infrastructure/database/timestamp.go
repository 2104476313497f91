package database

import (
	"fmt"
	"time"
)

// sqliteTimeLayout is fixed-width so stored values sort lexicographically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Time converts t into the bind value the driver stores timestamps as.
// PostgreSQL takes time.Time for TIMESTAMPTZ; SQLite stores UTC text.
func (d Driver) Time(t time.Time) any {
	if d == DriverSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// NullableTime is Time for optional columns.
func (d Driver) NullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.Time(*t)
}

// NullTime scans a timestamp column from either driver.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (n *NullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into NullTime", src)
	}
}

func (n *NullTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// Ptr returns nil for NULL, otherwise a pointer to the time.
func (n NullTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
