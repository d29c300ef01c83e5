package embed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/cinewatch/cinewatch/util"
	"golang.org/x/net/html"
)

// maxProbeBody bounds how much of a page is parsed for its title.
const maxProbeBody = 1 << 20

// ProbeFrame loads embed pages over HTTP instead of in a browser. A page that
// answers with a success status fires a load event carrying its <title>; a
// failed request or error status is posted as an error message from the page origin.
type ProbeFrame struct {
	Client *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewProbeFrame returns a probe frame using client.
func NewProbeFrame(client *http.Client) *ProbeFrame {
	return &ProbeFrame{Client: client}
}

func (p *ProbeFrame) Load(rawURL string, sink Sink) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New("probe frame closed")
	}
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	origin := u.Scheme + "://" + u.Host
	go func() {
		title, err := p.fetch(ctx, rawURL)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			sink.Message(origin, []byte(fmt.Sprintf(`{"error": %q}`, err.Error())))
			return
		}
		sink.Loaded(title)
	}()

	return nil
}

func (p *ProbeFrame) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("status %s", resp.Status)
	}

	return PageTitle(io.LimitReader(resp.Body, maxProbeBody))
}

func (p *ProbeFrame) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	return nil
}

// PageTitle returns the text of the first <title> element in an HTML document.
func PageTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inTitle := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return "", nil
			}
			return "", z.Err()
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				return "", nil
			}
			if string(name) == "head" {
				return "", nil
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text())), nil
			}
		}
	}
}
