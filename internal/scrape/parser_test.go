package scrape

import (
	"errors"
	"testing"
)

func row(link, title string, tokens ...string) RawRow {
	return RawRow{Tokens: tokens, Link: link, Title: title}
}

func TestResolveRowsCarriesDateForward(t *testing.T) {
	rows := []RawRow{
		row("https://a.com/1", "First", "Dec-09-23", "09:30AM"),
		row("https://a.com/2", "Second", "10:15AM"),
		row("https://a.com/3", "Third", "11:00AM"),
		row("https://a.com/4", "Fourth", "Dec-08-23", "04:00PM"),
		row("https://a.com/5", "Fifth", "09:00AM"),
	}

	records, err := ResolveRows("NVDA", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	wantDates := []string{"Dec-09-23", "Dec-09-23", "Dec-09-23", "Dec-08-23", "Dec-08-23"}
	for i, want := range wantDates {
		if records[i].Date != want {
			t.Errorf("record %d: expected date %q, got %q", i, want, records[i].Date)
		}
	}
	if records[1].Time != "10:15AM" {
		t.Errorf("expected time 10:15AM, got %q", records[1].Time)
	}
}

func TestResolveRowsEveryRecordHasDate(t *testing.T) {
	rows := []RawRow{
		row("https://a.com/1", "Dated", "Today", "05:15PM"),
	}
	for i := 0; i < 20; i++ {
		rows = append(rows, row("https://a.com/c", "Continuation", "05:00PM"))
	}

	records, err := ResolveRows("NVDA", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 21 {
		t.Fatalf("expected 21 records, got %d", len(records))
	}
	for i, r := range records {
		if r.Date != "Today" {
			t.Errorf("record %d: expected date 'Today', got %q", i, r.Date)
		}
	}
}

func TestResolveRowsContinuationBeforeDateFails(t *testing.T) {
	rows := []RawRow{
		row("https://a.com/1", "Orphan", "09:30AM"),
		row("https://a.com/2", "Dated", "Dec-09-23", "10:00AM"),
	}

	_, err := ResolveRows("NVDA", rows)
	if !errors.Is(err, ErrNoDate) {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
}

func TestResolveRowsSkipsRowsWithoutLinkOrTitle(t *testing.T) {
	rows := []RawRow{
		row("https://a.com/1", "Kept", "Dec-09-23", "09:30AM"),
		row("", "No link", "10:00AM"),
		row("https://a.com/3", "   ", "10:30AM"),
		row("https://a.com/4", "Also kept", "11:00AM"),
	}

	records, err := ResolveRows("NVDA", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Headline != "Kept" || records[1].Headline != "Also kept" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestResolveRowsEmptyInput(t *testing.T) {
	records, err := ResolveRows("NVDA", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty output, got %d records", len(records))
	}
}

func TestResolveRowsPreservesInputOrder(t *testing.T) {
	rows := []RawRow{
		row("https://a.com/1", "A", "Dec-09-23", "09:30AM"),
		row("https://a.com/2", "B", "10:00AM"),
		row("https://a.com/3", "C", "Dec-10-23", "08:00AM"),
	}

	records, err := ResolveRows("NVDA", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"A", "B", "C"}
	for i, w := range want {
		if records[i].Headline != w {
			t.Errorf("position %d: expected %q, got %q", i, w, records[i].Headline)
		}
	}
}
