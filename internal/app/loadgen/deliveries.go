package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// ListItem is an entry of the delivering service JSON listing
type ListItem struct {
	ID     string `json:"id"`
	Dst    string `json:"dst"`
	UserID string `json:"user_id"`
}

// FetchListing gets the JSON listing
func FetchListing(ctx context.Context, client *http.Client, listURL string) ([]ListItem, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected listing status %d", response.StatusCode)
	}

	var items []ListItem
	if err := json.NewDecoder(response.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	return items, nil
}

// Deliverer downloads {MovieURL}/{dst} for every listed record
type Deliverer struct {
	Client   *http.Client
	MovieURL string
	Tokens   TokenProvider
	Procs    int64
	Bar      *progressbar.ProgressBar
}

// Run downloads every item with a destination and drains the bodies
func (d Deliverer) Run(ctx context.Context, items []ListItem) (Stats, error) {
	targets := make([]string, 0, len(items))
	for _, item := range items {
		if item.Dst != "" {
			targets = append(targets, strings.TrimSuffix(d.MovieURL, "/")+"/"+item.Dst)
		}
	}

	return runBounded(ctx, len(targets), d.Procs, d.Bar, func(ctx context.Context, i int) error {
		return d.download(ctx, targets[i])
	})
}

func (d Deliverer) download(ctx context.Context, url string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if d.Tokens != nil {
		token, err := d.Tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := d.Client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if _, err := io.Copy(io.Discard, response.Body); err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", response.StatusCode, url)
	}

	return nil
}
