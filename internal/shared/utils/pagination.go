package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rewardsboard/eventcast/internal/shared/constants"
)

// Pagination holds parsed limit/offset parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// ValidatePagination normalizes limit and offset.
// Limit defaults to DefaultPageSize when below 1 and is capped at MaxPageSize; negative offsets become 0.
func ValidatePagination(limit, offset int) Pagination {
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// ParsePagination parses limit and offset from the query string with defaults applied.
func ParsePagination(c *gin.Context) Pagination {
	return ValidatePagination(
		ParseQueryInt(c, "limit", constants.DefaultPageSize),
		ParseQueryInt(c, "offset", 0),
	)
}

// ParseQueryInt parses an integer query parameter, returning defaultVal when absent or malformed.
func ParseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
