package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-reminder-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationMeta represents the pagination metadata in API responses
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(constants.DefaultPageSize)))

	return NewPaginationParams(page, limit)
}

// NewPaginationParams clamps page and limit to the accepted ranges.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Meta builds the response metadata for a page holding count items out of total.
func (p PaginationParams) Meta(count int, total int64) PaginationMeta {
	lastPage := int(total) / p.Limit
	if int(total)%p.Limit > 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}

	meta := PaginationMeta{
		CurrentPage: p.Page,
		LastPage:    lastPage,
		PerPage:     p.Limit,
		Total:       total,
	}
	if count > 0 {
		from := p.Offset + 1
		to := p.Offset + count
		meta.From = &from
		meta.To = &to
	}
	return meta
}
