package league

import (
	"testing"
	"time"
)

func TestFormatParseDate_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"2015-01-01", "2014-12-31", "2000-02-29", "1999-07-04"} {
		parsed, err := ParseDate(&raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		formatted := FormatDate(parsed)
		if formatted == nil || *formatted != raw {
			t.Fatalf("round trip mismatch: got=%v want=%s", formatted, raw)
		}
	}
}

func TestFormatParseDate_TimeRoundTrip(t *testing.T) {
	t.Parallel()

	original := time.Date(2015, time.March, 9, 0, 0, 0, 0, time.UTC)
	parsed, err := ParseDate(FormatDate(&original))
	if err != nil {
		t.Fatalf("parse formatted date: %v", err)
	}
	if parsed == nil || !parsed.Equal(original) {
		t.Fatalf("unexpected date: got=%v want=%v", parsed, original)
	}
}

func TestFormatParseDate_NilRoundTrip(t *testing.T) {
	t.Parallel()

	if got := FormatDate(nil); got != nil {
		t.Fatalf("expected nil formatted date, got %q", *got)
	}
	parsed, err := ParseDate(nil)
	if err != nil {
		t.Fatalf("parse nil date: %v", err)
	}
	if parsed != nil {
		t.Fatalf("expected nil parsed date, got %v", parsed)
	}
}

func TestParseDate_RejectsInvalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"2015-13-01", "01/02/2015", "2015-02-30", "yesterday"} {
		if _, err := ParseDate(&raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestNormalizeDate_TruncatesToUTCMidnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+7", 7*60*60)
	in := time.Date(2014, time.June, 1, 23, 30, 0, 0, loc)
	got := NormalizeDate(&in)
	want := time.Date(2014, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("unexpected normalized date: got=%v want=%v", got, want)
	}
}

func TestLeague_CloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	orig := League{
		ID:   "1",
		Name: "U10 League",
		AgeGroups: []AgeGroup{
			{Name: "U9", BirthdateStart: &start},
		},
	}

	copied := orig.Clone()
	copied.AgeGroups[0].Name = "changed"
	*copied.AgeGroups[0].BirthdateStart = start.AddDate(1, 0, 0)

	if orig.AgeGroups[0].Name != "U9" {
		t.Fatalf("clone aliased age group slice")
	}
	if !orig.AgeGroups[0].BirthdateStart.Equal(start) {
		t.Fatalf("clone aliased birthdate pointer")
	}
}

func TestLeague_CloneNilAgeGroups(t *testing.T) {
	t.Parallel()

	copied := League{ID: "1"}.Clone()
	if copied.AgeGroups == nil {
		t.Fatalf("expected empty, non-nil age groups")
	}
}
