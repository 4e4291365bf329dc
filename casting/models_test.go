package casting

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1999-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 1999 || d.Month() != time.March || d.Day() != 31 {
		t.Errorf("parsed %v", d)
	}

	for _, bad := range []string{"31-03-1999", "1999/03/31", "not a date", "1999-03-31T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestMovieJSONRoundTrip(t *testing.T) {
	release, _ := ParseDate("2025-07-04")
	movie := Movie{ID: 7, Title: "The Sequel", ReleaseDate: release}

	b, err := json.Marshal(movie)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":7,"title":"The Sequel","release_date":"2025-07-04"}`
	if string(b) != want {
		t.Errorf("marshal = %s, want %s", b, want)
	}

	var back Movie
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.ReleaseDate.String() != "2025-07-04" {
		t.Errorf("release date round trip = %s", back.ReleaseDate)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2020-01-02" {
		t.Errorf("scan time.Time = %s", d)
	}
	if err := d.Scan("2021-12-25"); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2021-12-25" {
		t.Errorf("scan string = %s", d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("scanning an int should fail")
	}
}
