package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"
)

// SearchParams are the filters of a search request. Paging parameters are
// added by Fetch.
type SearchParams struct {
	Part      string `url:"part"`
	Query     string `url:"q"`
	Type      string `url:"type"`
	EventType string `url:"eventType,omitempty"`
}

type PlaylistItemsParams struct {
	Part       string `url:"part"`
	PlaylistID string `url:"playlistId"`
}

// SearchRequest describes one user search.
type SearchRequest struct {
	Kind  Kind
	Live  bool
	Query string
	Limit int
}

// Search runs req and returns the links of the results in API order.
func Search(ctx context.Context, l Lister, req SearchRequest, log *zap.Logger) ([]string, Result[SearchResult], error) {
	if req.Limit < 1 {
		return nil, Result[SearchResult]{}, ErrInvalidLimit
	}
	p := SearchParams{
		Part:  "id",
		Query: req.Query,
		Type:  req.Kind.String(),
	}
	if req.Live {
		p.EventType = "live"
	}
	params, err := query.Values(p)
	if err != nil {
		return nil, Result[SearchResult]{}, fmt.Errorf("encode search params: %w", err)
	}

	res, err := Fetch[SearchResult](ctx, l, EndpointSearch, params, FetchOptions{Limit: req.Limit, Logger: log})
	if err != nil {
		return nil, res, err
	}

	links := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if id := item.ID.For(req.Kind); id != "" {
			links = append(links, req.Kind.Link(id))
		}
	}
	return links, res, nil
}

var playlistRe = regexp.MustCompile(`^https?://(?:www\.|m\.|music\.)?youtube\.com/.*?[?&]list=([a-zA-Z0-9_-]+)`)

// PlaylistID extracts the list id from a playlist or watch link.
func PlaylistID(link string) (string, bool) {
	m := playlistRe.FindStringSubmatch(strings.TrimSpace(link))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// PlaylistLinks returns the watch link of every video in the playlist.
func PlaylistLinks(ctx context.Context, l Lister, playlistID string, log *zap.Logger) ([]string, Result[PlaylistItem], error) {
	params, err := query.Values(PlaylistItemsParams{
		Part:       "contentDetails",
		PlaylistID: playlistID,
	})
	if err != nil {
		return nil, Result[PlaylistItem]{}, fmt.Errorf("encode playlist params: %w", err)
	}

	res, err := Fetch[PlaylistItem](ctx, l, EndpointPlaylistItems, params, FetchOptions{Logger: log})
	if err != nil {
		return nil, res, err
	}

	links := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if id := item.ContentDetails.VideoID; id != "" {
			links = append(links, KindVideo.Link(id))
		}
	}
	return links, res, nil
}

// ExportText is the body of an exported link list.
func ExportText(links []string) []byte {
	return []byte(strings.Join(links, "\r\n"))
}
