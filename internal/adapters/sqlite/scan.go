package sqlite

import (
	"fmt"
	"time"

	"github.com/example/whisper/internal/db"
)

// formatTime renders t in the storage layout. Every timestamp written by this
// package goes through here so stored values sort chronologically as text.
func formatTime(t time.Time) string {
	return t.UTC().Format(db.TimeLayout)
}

// sqlTime scans a DATETIME column. The driver hands back time.Time when it
// knows the declared column type and raw text when it does not (window and
// sub-query results), so both are accepted.
type sqlTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (t *sqlTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", value)
	}
}

func (t *sqlTime) parse(s string) error {
	parsed, err := time.ParseInLocation(db.TimeLayout, s, time.UTC)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	t.Time, t.Valid = parsed.UTC(), true
	return nil
}

// ptr returns the scanned time as a pointer, nil when NULL.
func (t sqlTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
