package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/finlens/finlens/internal/database"
)

var refDate = time.Date(2023, time.December, 10, 15, 0, 0, 0, time.UTC)

func fptr(f float64) *float64 { return &f }

func scored(ticker, date, timeOfDay string, score float64) database.Headline {
	return database.Headline{
		Ticker:         ticker,
		Date:           date,
		Time:           timeOfDay,
		Headline:       ticker + " " + date + " " + timeOfDay,
		SentimentScore: fptr(score),
	}
}

func TestAggregateMean(t *testing.T) {
	records := []database.Headline{
		scored("NVDA", "Dec-09-23", "09:30AM", 0.8),
		scored("NVDA", "Dec-09-23", "10:15AM", -0.2),
	}

	daily := Aggregate(records, refDate)
	if len(daily) != 1 {
		t.Fatalf("expected 1 daily entry, got %d", len(daily))
	}
	if daily[0].Date != "2023-12-09" {
		t.Errorf("expected date 2023-12-09, got %q", daily[0].Date)
	}
	if math.Abs(daily[0].MeanScore-0.3) > 1e-12 {
		t.Errorf("expected mean 0.3, got %f", daily[0].MeanScore)
	}
}

func TestAggregateExcludesUnscored(t *testing.T) {
	records := []database.Headline{
		scored("NVDA", "Dec-09-23", "09:30AM", 0.6),
		{Ticker: "NVDA", Date: "Dec-09-23", Time: "10:00AM", Headline: "unscored"},
		{Ticker: "NVDA", Date: "Dec-08-23", Time: "11:00AM", Headline: "also unscored"},
	}

	daily := Aggregate(records, refDate)
	if len(daily) != 1 {
		t.Fatalf("expected 1 daily entry (all-unscored dates absent), got %d", len(daily))
	}
	// The unscored headline must not drag the mean toward zero.
	if math.Abs(daily[0].MeanScore-0.6) > 1e-12 {
		t.Errorf("expected mean 0.6, got %f", daily[0].MeanScore)
	}
}

func TestAggregateResolvesTodayToken(t *testing.T) {
	records := []database.Headline{
		scored("NVDA", "Today", "05:15PM", 0.4),
		scored("NVDA", "Dec-10-23", "09:00AM", 0.2),
	}

	daily := Aggregate(records, refDate)
	if len(daily) != 1 {
		t.Fatalf("expected 'Today' to merge with the explicit date, got %d entries", len(daily))
	}
	if daily[0].Date != "2023-12-10" {
		t.Errorf("expected 2023-12-10, got %q", daily[0].Date)
	}
	if math.Abs(daily[0].MeanScore-0.3) > 1e-12 {
		t.Errorf("expected mean 0.3, got %f", daily[0].MeanScore)
	}
}

func TestAggregateSortsByDate(t *testing.T) {
	records := []database.Headline{
		scored("NVDA", "Dec-11-23", "09:30AM", 0.1),
		scored("NVDA", "Dec-09-23", "09:30AM", 0.2),
		scored("NVDA", "Dec-10-23", "09:30AM", 0.3),
	}

	daily := Aggregate(records, refDate)
	want := []string{"2023-12-09", "2023-12-10", "2023-12-11"}
	if len(daily) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(daily))
	}
	for i, w := range want {
		if daily[i].Date != w {
			t.Errorf("position %d: expected %s, got %s", i, w, daily[i].Date)
		}
	}
}

func TestAggregateSkipsBadDates(t *testing.T) {
	records := []database.Headline{
		scored("NVDA", "not-a-date", "09:30AM", 0.9),
		scored("NVDA", "Dec-09-23", "09:30AM", 0.5),
	}

	daily := Aggregate(records, refDate)
	if len(daily) != 1 {
		t.Fatalf("expected bad date to be skipped, got %d entries", len(daily))
	}
	if daily[0].Date != "2023-12-09" {
		t.Errorf("expected 2023-12-09, got %q", daily[0].Date)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if daily := Aggregate(nil, refDate); len(daily) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(daily))
	}
}

func TestResolveDateToken(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"Dec-09-23", "2023-12-09"},
		{"Dec-09-2023", "2023-12-09"},
		{"2023-12-09", "2023-12-09"},
		{"Today", "2023-12-10"},
		{"Yesterday", "2023-12-09"},
	}
	for _, tc := range cases {
		got, err := ResolveDateToken(tc.token, refDate)
		if err != nil {
			t.Errorf("ResolveDateToken(%q): unexpected error: %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveDateToken(%q) = %q, expected %q", tc.token, got, tc.want)
		}
	}

	if _, err := ResolveDateToken("garbage", refDate); err == nil {
		t.Error("expected error for unparseable token")
	}
}
