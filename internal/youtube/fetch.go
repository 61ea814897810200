package youtube

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// MaxPageSize is the largest page the Data API serves.
const MaxPageSize = 50

const (
	ParamPageSize  = "maxResults"
	ParamPageToken = "pageToken"
)

var (
	ErrInvalidLimit    = errors.New("youtube: limit must be at least 1")
	ErrInvalidPageSize = errors.New("youtube: page size must be between 1 and 50")
)

// Page is the envelope shared by every list endpoint.
type Page[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// StopReason tells why a fetch ended. It is informational: every reason
// comes with whatever was accumulated.
type StopReason int

const (
	StopExhausted StopReason = iota
	StopBudget
	StopFailed
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopBudget:
		return "budget_reached"
	case StopFailed:
		return "failed"
	}
	return "unknown"
}

type Result[T any] struct {
	Items []T
	Pages int
	Stop  StopReason
	// Err is the failure that ended the fetch when Stop is StopFailed.
	Err error
}

type FetchOptions struct {
	// PageSize overrides MaxPageSize; it must stay within 1..MaxPageSize.
	PageSize int
	// Limit bounds the number of items returned. Zero fetches every page.
	Limit  int
	Logger *zap.Logger
}

// FetchAll follows the cursor of ep until the API stops returning one.
func FetchAll[T any](ctx context.Context, l Lister, ep Endpoint, params url.Values) Result[T] {
	res, _ := Fetch[T](ctx, l, ep, params, FetchOptions{})
	return res
}

// FetchUpTo fetches at most limit items from ep.
func FetchUpTo[T any](ctx context.Context, l Lister, ep Endpoint, params url.Values, limit int) (Result[T], error) {
	if limit < 1 {
		return Result[T]{}, ErrInvalidLimit
	}
	return Fetch[T](ctx, l, ep, params, FetchOptions{Limit: limit})
}

// Fetch requests pages one after another, echoing each nextPageToken into
// the following request. A failed page ends the fetch without an error; the
// returned error only reports invalid options.
func Fetch[T any](ctx context.Context, l Lister, ep Endpoint, params url.Values, opts FetchOptions) (Result[T], error) {
	pageSize := MaxPageSize
	if opts.PageSize != 0 {
		if opts.PageSize < 1 || opts.PageSize > MaxPageSize {
			return Result[T]{}, ErrInvalidPageSize
		}
		pageSize = opts.PageSize
	}
	if opts.Limit < 0 {
		return Result[T]{}, ErrInvalidLimit
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("endpoint", string(ep)))

	budgeted := opts.Limit > 0
	remaining := opts.Limit

	var (
		res    Result[T]
		cursor string
	)
	for {
		size := pageSize
		if budgeted {
			size = min(pageSize, remaining)
			remaining = max(0, remaining-pageSize)
		}

		q := cloneValues(params)
		q.Set(ParamPageSize, strconv.Itoa(size))
		if cursor != "" {
			q.Set(ParamPageToken, cursor)
		} else {
			q.Del(ParamPageToken)
		}

		var page Page[T]
		if err := l.List(ctx, ep, q, &page); err != nil {
			log.Info("page request failed, returning partial result",
				zap.Int("page", res.Pages+1),
				zap.Int("items", len(res.Items)),
				zap.Error(err))
			res.Stop = StopFailed
			res.Err = err
			break
		}
		res.Pages++
		res.Items = append(res.Items, page.Items...)

		next := page.NextPageToken
		if next == "" || next == cursor {
			res.Stop = StopExhausted
			break
		}
		if budgeted && remaining == 0 {
			res.Stop = StopBudget
			break
		}
		cursor = next
	}

	if budgeted && len(res.Items) > opts.Limit {
		res.Items = res.Items[:opts.Limit]
	}

	log.Debug("fetch finished",
		zap.Stringer("stop", res.Stop),
		zap.Int("pages", res.Pages),
		zap.Int("items", len(res.Items)))
	return res, nil
}
