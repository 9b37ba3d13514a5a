package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/models/dto"
)

const (
	DefaultPageSize = 2
	MaxPageSize     = 100
	DefaultPage     = 1 // Pages are 1-based
)

// NormalizePageSize falls back to DefaultPageSize for values outside (0, MaxPageSize].
func NormalizePageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	size = NormalizePageSize(size)
	if page < 1 {
		page = DefaultPage
	}

	offset = uint64((page - 1) * size)
	return offset, uint64(size)
}

// TotalPages returns the number of pages needed for totalItems. An empty listing has one page.
func TotalPages(totalItems int64, size int) int {
	size = NormalizePageSize(size)
	if totalItems <= 0 {
		return 1
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

// ClampPage moves page into [1, TotalPages].
func ClampPage(page int, totalItems int64, size int) int {
	if page < 1 {
		return DefaultPage
	}
	if last := TotalPages(totalItems, size); page > last {
		return last
	}
	return page
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page is the requested 1-based page number and is clamped to the available range.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	size = NormalizePageSize(size)
	totalPages := TotalPages(totalItems, size)
	currentPage := ClampPage(page, totalItems, size)

	info := dto.PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
		IsPaginated: totalItems > int64(size),
		HasNext:     currentPage < totalPages,
		HasPrevious: currentPage > 1,
	}
	if info.HasNext {
		info.NextPage = currentPage + 1
	}
	if info.HasPrevious {
		info.PreviousPage = currentPage - 1
	}
	return info
}

// ParsePage extracts the page query parameter. Missing, non-numeric and non-positive values yield page 1.
func ParsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}
