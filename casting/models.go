// Package casting holds the agency's records and their postgres store.
package casting

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const dateLayout = "2006-01-02"

// Date is a calendar date, stored as SQL DATE and rendered as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("casting: invalid date %q, want YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("casting: date must be a YYYY-MM-DD string")
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("casting: cannot scan %T into Date", src)
	}
}

// Actor is a performer on the agency's books.
type Actor struct {
	bun.BaseModel `bun:"table:actors,alias:a"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"name,notnull" json:"name"`
	Age    int    `bun:"age,notnull" json:"age"`
	Gender string `bun:"gender,notnull" json:"gender"`
}

// Movie is a production the agency casts for.
type Movie struct {
	bun.BaseModel `bun:"table:movies,alias:m"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	ReleaseDate Date   `bun:"release_date,notnull" json:"release_date"`
}

// ActorPatch carries a partial actor update; nil fields are left unchanged.
type ActorPatch struct {
	Name   *string
	Age    *int
	Gender *string
}

// MoviePatch carries a partial movie update; nil fields are left unchanged.
type MoviePatch struct {
	Title       *string
	ReleaseDate *Date
}
