package dto

import "time"

// APIResponse wraps every JSON payload the service returns
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewAPIResponse creates a successful response carrying data
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of an ordered listing
type PaginationInfo struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	PageSize     int   `json:"pageSize"`
	TotalItems   int64 `json:"totalItems"`
	IsPaginated  bool  `json:"isPaginated"`
	HasNext      bool  `json:"hasNext"`
	HasPrevious  bool  `json:"hasPrevious"`
	NextPage     int   `json:"nextPage,omitempty"`
	PreviousPage int   `json:"previousPage,omitempty"`
}

// HomeStats holds the dashboard counters
type HomeStats struct {
	NumDrivers       int64 `json:"num_drivers"`
	NumCars          int64 `json:"num_cars"`
	NumManufacturers int64 `json:"num_manufacturers"`
}
