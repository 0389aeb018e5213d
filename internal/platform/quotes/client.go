package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	quoteMarker  = "Quote:"
	authorMarker = "Author:"

	// maxBodyBytes caps how much of the upstream body is read.
	maxBodyBytes = 64 << 10
)

var errMissingMarkers = errors.New("quote markers not found")

// Quote is the decorative quote shown above the book list.
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// Fallback is shown whenever the remote quote cannot be fetched or parsed.
var Fallback = Quote{
	Quote:  "A reader lives a thousand lives before he dies. The man who never reads lives only one.",
	Author: "George R.R. Martin",
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	url        string
	log        zerolog.Logger
}

func NewClient(url, userAgent string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		url:       url,
		log:       log,
	}
}

// Random fetches one quote. It never fails: any network, status or parse
// problem is logged and Fallback is returned. No retry is attempted.
func (c *Client) Random(ctx context.Context) Quote {
	q, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.url).Msg("quote fetch failed, using fallback")
		return Fallback
	}
	return q
}

func (c *Client) fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Quote{}, err
	}
	return Parse(string(body))
}

// Parse extracts a quote from marker-delimited text:
//
//	Quote: <text> Author: <name>\n...
//
// The quote is everything between the first "Quote:" and the next "Author:";
// the author runs from there to the end of the line.
func Parse(raw string) (Quote, error) {
	_, afterQuote, ok := strings.Cut(raw, quoteMarker)
	if !ok {
		return Quote{}, errMissingMarkers
	}
	text, afterAuthor, ok := strings.Cut(afterQuote, authorMarker)
	if !ok {
		return Quote{}, errMissingMarkers
	}
	author, _, _ := strings.Cut(afterAuthor, "\n")

	return Quote{
		Quote:  strings.TrimSpace(text),
		Author: strings.TrimSpace(author),
	}, nil
}
