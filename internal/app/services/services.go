// Package services holds the business operations behind every page: validation
// through the forms package, then persistence through the repositories.
package services

import (
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
)

// Page is one slice of an ordered listing together with its pagination metadata
type Page[T any] struct {
	Items      []T
	Pagination dto.PaginationInfo
}

// Services groups every service the controllers depend on
type Services struct {
	Manufacturers *ManufacturerService
	Cars          *CarService
	Drivers       *DriverService
	Home          *HomeService
	Auth          *AuthService
}

// NewServices wires the services over repos. pageSize applies to every listing.
func NewServices(repos *repositories.Repositories, pageSize int) *Services {
	pageSize = helpers.NormalizePageSize(pageSize)
	return &Services{
		Manufacturers: NewManufacturerService(repos.ManufacturerRepository, pageSize),
		Cars:          NewCarService(repos.CarRepository, repos.ManufacturerRepository, repos.DriverRepository, pageSize),
		Drivers:       NewDriverService(repos.DriverRepository, repos.CarRepository, pageSize),
		Home:          NewHomeService(repos.ManufacturerRepository, repos.CarRepository, repos.DriverRepository),
		Auth:          NewAuthService(repos.DriverRepository),
	}
}

// pageWindow resolves the requested page against total and returns the pagination info
// plus the offset/limit to fetch
func pageWindow(total int64, page, size int) (dto.PaginationInfo, uint64, uint64) {
	info := helpers.NewPaginationInfo(total, page, size)
	offset, limit := helpers.CalculateOffsetLimit(info.CurrentPage, info.PageSize)
	return info, offset, limit
}
