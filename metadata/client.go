package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/title"
	"github.com/cinewatch/cinewatch/util"
	"github.com/samber/lo"
)

// ErrNoToken is returned when no TMDB read access token is configured.
var ErrNoToken = errors.New("tmdb token is not set")

// Client talks to the TMDB v3 API.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	Token    string
	Language string

	// Cache is consulted before the network. Nil disables caching.
	Cache *Cache
}

// response mirrors the subset of the TMDB payload with appended videos.
type response struct {
	Title  string `json:"title"`
	Name   string `json:"name"`
	Videos struct {
		Results []VideoRef `json:"results"`
	} `json:"videos"`
}

// FetchAppendedVideos returns the title and its videos in a single request.
func (c *Client) FetchAppendedVideos(ctx context.Context, kind title.Kind, id int) (*Detail, error) {
	cacheKey := fmt.Sprintf("%s/%d", kind, id)
	if c.Cache != nil {
		if detail, ok := c.Cache.Get(cacheKey).Get(); ok {
			return detail, nil
		}
	}

	if c.Token == "" {
		return nil, ErrNoToken
	}

	base := lo.Ternary(c.BaseURL == "", constant.TMDBBaseURL, c.BaseURL)
	query := url.Values{}
	query.Set("append_to_response", "videos")
	if c.Language != "" {
		query.Set("language", c.Language)
	}

	endpoint := fmt.Sprintf("%s/%s/%s?%s", base, kind, strconv.Itoa(id), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	client := lo.Ternary(c.HTTP == nil, http.DefaultClient, c.HTTP)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cacheKey, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", cacheKey, resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", cacheKey, err)
	}

	detail := &Detail{
		Title:  lo.Ternary(body.Title != "", body.Title, body.Name),
		Videos: body.Videos.Results,
	}

	if c.Cache != nil {
		if err := c.Cache.Set(cacheKey, detail); err != nil {
			log.Warnf("metadata cache write for %s: %s", cacheKey, err)
		}
	}

	return detail, nil
}
