// Package openlibrary is a small client for the Open Library books API,
// used to prefill inventory forms from an ISBN.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://openlibrary.org"

// ErrNotFound is returned when Open Library has no record for an ISBN.
var ErrNotFound = errors.New("openlibrary: isbn not found")

type Config struct {
	BaseURL    string
	UserAgent  string
	RPS        float64
	MaxRetries int
	Timeout    time.Duration
	// Backoff is the first retry delay; it doubles on every retry.
	Backoff time.Duration
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    cfg.Backoff,
	}
}

type Publisher struct {
	Name string `json:"name"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Publishers  []Publisher `json:"publishers"`
	PublishDate string      `json:"publish_date"`
	Cover       struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
	Authors []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
	Subjects []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"subjects"`
	NumberOfPages int    `json:"number_of_pages"`
	Notes         string `json:"notes"`
}

// Edition is the subset of an Open Library record that maps onto a book form.
type Edition struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedYear int      `json:"published_year,omitempty"`
	Subjects      []string `json:"subjects,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Description   string   `json:"description,omitempty"`
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

func (d BookDetails) edition(isbn string) Edition {
	e := Edition{ISBN: isbn, Title: d.Title, Description: d.Notes}
	if d.Subtitle != "" {
		e.Title = d.Title + ": " + d.Subtitle
	}
	for _, a := range d.Authors {
		e.Authors = append(e.Authors, a.Name)
	}
	for _, s := range d.Subjects {
		e.Subjects = append(e.Subjects, s.Name)
	}
	if m := yearPattern.FindStringSubmatch(d.PublishDate); m != nil {
		e.PublishedYear, _ = strconv.Atoi(m[1])
	}
	e.CoverURL = d.Cover.Large
	if e.CoverURL == "" {
		e.CoverURL = d.Cover.Medium
	}
	return e
}

func (c *Client) GetBooksByISBN(ctx context.Context, isbns []string) (map[string]BookDetails, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	bibkeys := make([]string, len(isbns))
	for i, isbn := range isbns {
		bibkeys[i] = "ISBN:" + isbn
	}

	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, url.QueryEscape(strings.Join(bibkeys, ",")))

	var res map[string]BookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// LookupISBN fetches one edition by ISBN.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (Edition, error) {
	res, err := c.GetBooksByISBN(ctx, []string{isbn})
	if err != nil {
		return Edition{}, err
	}
	d, ok := res["ISBN:"+isbn]
	if !ok {
		return Edition{}, ErrNotFound
	}
	return d.edition(isbn), nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: base, 2*base, 4*base...
			backoff := c.backoff << uint(i-1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// do performs one request. retry reports whether the failure is transient.
func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	return false, json.NewDecoder(resp.Body).Decode(target)
}
