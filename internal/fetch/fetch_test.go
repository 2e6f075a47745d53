package fetch

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finlens/finlens/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func articlePage() string {
	body := strings.Repeat("Nvidia reported record data center revenue this quarter. ", 10)
	return "<html><head><title>Earnings</title></head><body><article><p>" + body + "</p></article></body></html>"
}

func TestFetchMissingContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	db := openTestDB(t)
	link := srv.URL + "/article/1"
	if _, err := db.InsertHeadline(database.Headline{
		Ticker: "NVDA", Date: "Dec-09-23", Time: "09:30AM",
		Headline: "Nvidia beats estimates", Link: &link,
	}); err != nil {
		t.Fatalf("inserting headline: %v", err)
	}

	f := NewContentFetcher(db, 5*time.Second)
	result := f.FetchMissingContent(nil)
	if result.Fetched != 1 || result.Failed != 0 {
		t.Fatalf("expected 1 fetched / 0 failed, got %d / %d", result.Fetched, result.Failed)
	}

	stored, _ := db.GetHeadlinesForTicker("NVDA")
	if len(stored) != 1 || stored[0].Content == nil {
		t.Fatal("expected stored content on the headline")
	}
	if !stored[0].ContentFetched {
		t.Error("expected content_fetched to be set")
	}
}

func TestFetchSkipsFailedDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	db := openTestDB(t)
	for i, path := range []string{"/a", "/b"} {
		link := srv.URL + path
		timeOfDay := []string{"09:30AM", "10:15AM"}[i]
		if _, err := db.InsertHeadline(database.Headline{
			Ticker: "NVDA", Date: "Dec-09-23", Time: timeOfDay,
			Headline: "Headline " + path, Link: &link,
		}); err != nil {
			t.Fatalf("inserting headline: %v", err)
		}
	}

	f := NewContentFetcher(db, 5*time.Second)
	result := f.FetchMissingContent(nil)
	if result.Fetched != 0 || result.Failed != 2 {
		t.Fatalf("expected 0 fetched / 2 failed, got %d / %d", result.Fetched, result.Failed)
	}

	// Both rows must be marked so a later run does not retry them.
	pending, _ := db.GetHeadlinesNeedingContent(nil)
	if len(pending) != 0 {
		t.Errorf("expected no headlines still needing content, got %d", len(pending))
	}
}

func TestFetchNothingPending(t *testing.T) {
	db := openTestDB(t)
	f := NewContentFetcher(db, time.Second)
	result := f.FetchMissingContent(nil)
	if result.Fetched != 0 || result.Failed != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
