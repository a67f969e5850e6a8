package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const searchLimit = 20

// SearchVolumes searches the catalog for volumes matching the query.
// Results keep the provider's raw field values; absent fields stay zero.
func (c *Client) SearchVolumes(ctx context.Context, query string) ([]Volume, error) {
	if strings.TrimSpace(query) == "" {
		return []Volume{}, nil
	}

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", searchLimit))
	params.Set("printType", "books")

	searchURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("searching catalog",
		"query", query,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("catalog search results",
		"query", query,
		"count", len(searchResp.Items),
	)

	results := make([]Volume, 0, len(searchResp.Items))
	for i := range searchResp.Items {
		item := &searchResp.Items[i]

		v := Volume{
			ID:        item.ID,
			Title:     item.VolumeInfo.Title,
			Authors:   item.VolumeInfo.Authors,
			PageCount: item.VolumeInfo.PageCount,
		}
		if item.VolumeInfo.ImageLinks != nil {
			v.CoverURL = item.VolumeInfo.ImageLinks.Thumbnail
			if v.CoverURL == "" {
				v.CoverURL = item.VolumeInfo.ImageLinks.SmallThumbnail
			}
		}

		results = append(results, v)
	}

	return results, nil
}
