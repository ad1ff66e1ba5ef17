package store

import (
	"fmt"
	"math"
	"strings"

	"github.com/wolfeidau/interviewnotes/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortField is a sortable interview attribute.
type SortField string

const (
	SortByID            SortField = "id"
	SortByCreatedAt     SortField = "createdAt"
	SortByUpdatedAt     SortField = "updatedAt"
	SortByScheduledDate SortField = "scheduledDate"
	SortByPosition      SortField = "position"
	SortByStatus        SortField = "status"
)

// Column returns the SQL column backing the sort field.
func (f SortField) Column() (string, error) {
	switch f {
	case SortByID:
		return "id", nil
	case SortByCreatedAt:
		return "created_at", nil
	case SortByUpdatedAt:
		return "updated_at", nil
	case SortByScheduledDate:
		return "scheduled_date", nil
	case SortByPosition:
		return "position", nil
	case SortByStatus:
		return "status", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSortField, string(f))
	}
}

// PageRequest selects a zero-based page of results.
type PageRequest struct {
	Page       int
	Size       int
	SortBy     SortField
	Descending bool
}

// NewPageRequest builds a PageRequest from raw query values, applying defaults
// (page 0, size 20, createdAt descending).
func NewPageRequest(page, size int, sortBy, sortDir string) (PageRequest, error) {
	req := PageRequest{
		Page:       page,
		Size:       size,
		SortBy:     SortField(sortBy),
		Descending: !strings.EqualFold(sortDir, "asc"),
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return PageRequest{}, err
	}
	return req, nil
}

// ApplyDefaults applies default values to unset fields.
func (r *PageRequest) ApplyDefaults() {
	if r.Size == 0 {
		r.Size = DefaultPageSize
	}
	if r.SortBy == "" {
		r.SortBy = SortByCreatedAt
	}
}

// Validate checks the page request is usable.
func (r PageRequest) Validate() error {
	if r.Page < 0 {
		return fmt.Errorf("%w: page must not be negative", ErrInvalidPageRequest)
	}
	if r.Size < 1 || r.Size > MaxPageSize {
		return fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidPageRequest, MaxPageSize)
	}
	if r.Page > math.MaxInt/r.Size {
		return fmt.Errorf("%w: page is out of range", ErrInvalidPageRequest)
	}
	if _, err := r.SortBy.Column(); err != nil {
		return err
	}
	return nil
}

// Offset returns the number of rows to skip.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one page of interviews.
type Page struct {
	Items []*models.Interview
	Page  int
	Size  int
	Total int64
}

// EmptyPage returns a page with no items for the given request.
func EmptyPage(req PageRequest) *Page {
	return &Page{Items: []*models.Interview{}, Page: req.Page, Size: req.Size}
}

// TotalPages returns the number of pages needed to hold Total items.
func (p *Page) TotalPages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
