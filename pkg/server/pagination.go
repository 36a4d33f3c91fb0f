package server

import (
	"encoding/base64"
	"net/http"
	"strconv"
)

// MaxPageSize is the upper bound for pageSize.
const MaxPageSize = 1000

// PaginationParams holds the parsed pageSize and pageToken query parameters.
// A zero PageSize means the whole view is returned in one page.
type PaginationParams struct {
	PageSize  int
	PageToken string
}

// PaginatedResult is the body of a paged list response.
type PaginatedResult[T any] struct {
	Items         []T    `json:"items"`
	Size          int    `json:"size"`
	PageSize      int    `json:"pageSize"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// ParsePaginationParams extracts pagination parameters from the request URL.
// A pageSize that is not a positive integer is ignored.
func ParsePaginationParams(r *http.Request) PaginationParams {
	q := r.URL.Query()

	pageSize := 0
	if v := q.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PaginationParams{
		PageSize:  pageSize,
		PageToken: q.Get("pageToken"),
	}
}

// PaginateSlice applies offset-based pagination to an already sorted slice.
// The page token is a base64-encoded offset. The returned page is never nil.
func PaginateSlice[T any](items []T, params PaginationParams) (page []T, nextPageToken string) {
	offset := 0
	if params.PageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(params.PageToken)
		if err == nil {
			if n, err := strconv.Atoi(string(decoded)); err == nil && n > 0 {
				offset = n
			}
		}
	}

	total := len(items)
	if offset >= total {
		return []T{}, ""
	}

	end := total
	if params.PageSize > 0 && offset+params.PageSize < total {
		end = offset + params.PageSize
	}

	page = items[offset:end]
	if end < total {
		nextPageToken = base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(end)))
	}
	return page, nextPageToken
}
