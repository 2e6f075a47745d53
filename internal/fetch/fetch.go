package fetch

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/finlens/finlens/internal/database"
)

// Result holds the results of a content fetch run.
type Result struct {
	Fetched int
	Failed  int
}

// ContentFetcher fetches full article text for stored headlines via HTTP +
// readability extraction. This is optional enrichment: the sentiment pipeline
// scores headline text and never depends on article bodies.
type ContentFetcher struct {
	db     *database.DB
	client *http.Client
}

// NewContentFetcher creates a new content fetcher.
func NewContentFetcher(db *database.DB, timeout time.Duration) *ContentFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ContentFetcher{
		db: db,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// FetchMissingContent fetches article bodies for headlines that have a link
// but no content yet. Domains that error once are skipped for the rest of the
// run, and every attempt is marked so failed links are not retried forever.
func (f *ContentFetcher) FetchMissingContent(ticker *string) *Result {
	headlines, err := f.db.GetHeadlinesNeedingContent(ticker)
	if err != nil {
		log.Printf("Error getting headlines needing content: %v", err)
		return &Result{}
	}

	if len(headlines) == 0 {
		log.Println("No headlines need content fetching")
		return &Result{}
	}

	result := &Result{}
	failedDomains := make(map[string]struct{})

	for _, h := range headlines {
		if h.Link == nil {
			continue
		}

		u, _ := url.Parse(*h.Link)
		domain := ""
		if u != nil {
			domain = strings.ToLower(u.Host)
		}

		if _, failed := failedDomains[domain]; failed {
			f.db.MarkContentFetchAttempted(h.ID)
			result.Failed++
			continue
		}

		content, httpErr := f.fetchArticleContent(*h.Link)
		if httpErr != nil {
			f.db.MarkContentFetchAttempted(h.ID)
			result.Failed++
			if domain != "" {
				failedDomains[domain] = struct{}{}
			}
			log.Printf("HTTP error for %s, skipping remaining from %s", *h.Link, domain)
			continue
		}

		if content != "" {
			f.db.UpdateHeadlineContent(h.ID, &content)
			result.Fetched++
			log.Printf("Fetched content for: %s", h.Headline)
		} else {
			f.db.MarkContentFetchAttempted(h.ID)
			result.Failed++
			log.Printf("No extractable content from: %s", *h.Link)
		}
	}

	log.Printf("Content fetch complete: %d fetched, %d failed", result.Fetched, result.Failed)
	return result
}

func (f *ContentFetcher) fetchArticleContent(articleURL string) (string, error) {
	req, err := http.NewRequest("GET", articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "finlens/1.0 (news sentiment)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil // connection error, not HTTP error
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > 100 {
		return text, nil
	}
	return "", nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
