package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"

	"github.com/knowledge-engine/textstats/internal/config"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// FetchResult contains the extracted data from a webpage
type FetchResult struct {
	URL        string
	Title      string
	Text       string // Visible text, whitespace collapsed
	StatusCode int
}

type Fetcher struct {
	client        *http.Client
	userAgent     string
	respectRobots bool

	mu     sync.Mutex
	robots map[string]*robotstxt.RobotsData // keyed by scheme://host, nil = allow all
}

func NewFetcher(cfg config.FetcherConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:     cfg.UserAgent,
		respectRobots: cfg.RespectRobots,
		robots:        make(map[string]*robotstxt.RobotsData),
	}
}

// Fetch downloads a webpage and extracts its text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if f.respectRobots {
		allowed, err := f.allowed(ctx, u)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	if err := parseHTML(resp.Body, result); err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	return result, nil
}

// allowed checks the host's robots.txt, fetching it once per host.
// A missing or unreachable robots.txt allows everything.
func (f *Fetcher) allowed(ctx context.Context, u *url.URL) (bool, error) {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	data, cached := f.robots[key]
	f.mu.Unlock()

	if !cached {
		var err error
		data, err = f.fetchRobots(ctx, key)
		if err != nil {
			return false, err
		}
		f.mu.Lock()
		f.robots[key] = data
		f.mu.Unlock()
	}

	if data == nil {
		return true, nil
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, f.userAgent), nil
}

func (f *Fetcher) fetchRobots(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}
	return data, nil
}

// parseHTML extracts the title and visible text using the standard tokenizer
func parseHTML(body io.Reader, result *FetchResult) error {
	tokenizer := html.NewTokenizer(body)
	var textBuilder strings.Builder
	inScript := false
	inStyle := false
	inTitle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				result.Text = cleanText(textBuilder.String())
				return nil
			}
			return tokenizer.Err()

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			case "title":
				inTitle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			case "title":
				inTitle = false
			}

		case html.TextToken:
			data := tokenizer.Token().Data
			if inTitle {
				result.Title = strings.TrimSpace(data)
				continue
			}
			if !inScript && !inStyle {
				text := strings.TrimSpace(data)
				if text != "" {
					textBuilder.WriteString(text + " ")
				}
			}
		}
	}
}

// cleanText removes excessive whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
