package emotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Candidate is one emote offered by a third-party provider
type Candidate struct {
	Name      string
	URL       string
	MediaType string
}

// Provider fetches emote candidates for a streamer channel
type Provider interface {
	// Name returns the provider's short identifier
	Name() string

	// FetchCandidates returns the channel's emotes. An unknown channel
	// or a channel with no emotes returns an empty slice.
	FetchCandidates(ctx context.Context, channel string) ([]Candidate, error)
}

// allowed7TVMediaTypes are the formats Discord accepts for emoji uploads
var allowed7TVMediaTypes = map[string]string{
	"WEBP": "image/webp",
	"PNG":  "image/png",
	"GIF":  "image/gif",
}

const (
	sevenTVBaseURL = "https://7tv.io"
	ffzBaseURL     = "https://api.frankerfacez.com"
)

func newProviderHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// SevenTVProvider fetches emotes from the 7TV API
type SevenTVProvider struct {
	baseURL string
	client  *http.Client
}

// NewSevenTVProvider creates a 7TV provider against the public API
func NewSevenTVProvider() *SevenTVProvider {
	return &SevenTVProvider{baseURL: sevenTVBaseURL, client: newProviderHTTPClient()}
}

func (p *SevenTVProvider) Name() string { return "7tv" }

type sevenTVUserResponse struct {
	EmoteSet struct {
		Emotes []struct {
			Name string `json:"name"`
			Data struct {
				Host struct {
					URL   string `json:"url"`
					Files []struct {
						Name   string `json:"name"`
						Format string `json:"format"`
					} `json:"files"`
				} `json:"host"`
			} `json:"data"`
		} `json:"emotes"`
	} `json:"emote_set"`
}

// FetchCandidates returns the channel's 7TV emotes. Candidates whose
// media format Discord cannot ingest are filtered out here.
func (p *SevenTVProvider) FetchCandidates(ctx context.Context, channel string) ([]Candidate, error) {
	url := fmt.Sprintf("%s/v3/users/twitch/%s", p.baseURL, channel)

	var payload sevenTVUserResponse
	if err := getJSON(ctx, p.client, url, &payload); err != nil {
		return nil, fmt.Errorf("7tv lookup for %q failed: %w", channel, err)
	}

	var candidates []Candidate
	for _, emote := range payload.EmoteSet.Emotes {
		for _, file := range emote.Data.Host.Files {
			mediaType, ok := allowed7TVMediaTypes[strings.ToUpper(file.Format)]
			if !ok {
				continue
			}
			candidates = append(candidates, Candidate{
				Name:      emote.Name,
				URL:       fmt.Sprintf("https:%s/%s", emote.Data.Host.URL, file.Name),
				MediaType: mediaType,
			})
			break
		}
	}
	return candidates, nil
}

// FFZProvider fetches emotes from the FrankerFaceZ API
type FFZProvider struct {
	baseURL string
	client  *http.Client
}

// NewFFZProvider creates an FFZ provider against the public API
func NewFFZProvider() *FFZProvider {
	return &FFZProvider{baseURL: ffzBaseURL, client: newProviderHTTPClient()}
}

func (p *FFZProvider) Name() string { return "ffz" }

type ffzRoomResponse struct {
	Sets map[string]struct {
		Emoticons []struct {
			Name string            `json:"name"`
			URLs map[string]string `json:"urls"`
		} `json:"emoticons"`
	} `json:"sets"`
}

// FetchCandidates returns the channel's FFZ emotes. FFZ serves PNG only
// so no media-type filter is needed.
func (p *FFZProvider) FetchCandidates(ctx context.Context, channel string) ([]Candidate, error) {
	url := fmt.Sprintf("%s/v1/room/%s", p.baseURL, channel)

	var payload ffzRoomResponse
	if err := getJSON(ctx, p.client, url, &payload); err != nil {
		return nil, fmt.Errorf("ffz lookup for %q failed: %w", channel, err)
	}

	var candidates []Candidate
	for _, set := range payload.Sets {
		for _, emote := range set.Emoticons {
			url := bestFFZURL(emote.URLs)
			if url == "" {
				continue
			}
			candidates = append(candidates, Candidate{
				Name:      emote.Name,
				URL:       url,
				MediaType: "image/png",
			})
		}
	}
	return candidates, nil
}

// bestFFZURL picks the largest scale the emote offers
func bestFFZURL(urls map[string]string) string {
	for _, scale := range []string{"4", "2", "1"} {
		if u, ok := urls[scale]; ok && u != "" {
			if strings.HasPrefix(u, "//") {
				return "https:" + u
			}
			return u
		}
	}
	return ""
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown channel reads as "no emotes", not an error
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
