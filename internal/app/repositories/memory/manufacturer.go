package memory

import (
	"context"
	"sort"

	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

// ManufacturerRepository is the in-memory repositories.ManufacturerRepository
type ManufacturerRepository struct {
	store *Store
}

func (r *ManufacturerRepository) Create(_ context.Context, manufacturer *models.Manufacturer) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	manufacturer.ID = s.allocateID("manufacturers")
	s.manufacturers[manufacturer.ID] = *manufacturer
	return manufacturer.ID, nil
}

func (r *ManufacturerRepository) GetByID(_ context.Context, id int64) (*models.Manufacturer, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.manufacturers[id]
	if !ok {
		return nil, apperrors.ErrManufacturerNotFound
	}
	return &m, nil
}

func (r *ManufacturerRepository) List(_ context.Context, offset, limit uint64) ([]models.Manufacturer, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Manufacturer, 0, len(s.manufacturers))
	for _, m := range s.manufacturers {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	start, end := page(len(all), offset, limit)
	return all[start:end], nil
}

func (r *ManufacturerRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.manufacturers)), nil
}

func (r *ManufacturerRepository) Update(_ context.Context, manufacturer *models.Manufacturer) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.manufacturers[manufacturer.ID]; !ok {
		return apperrors.ErrManufacturerNotFound
	}
	s.manufacturers[manufacturer.ID] = *manufacturer
	return nil
}

func (r *ManufacturerRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.manufacturers[id]; !ok {
		return apperrors.ErrManufacturerNotFound
	}
	delete(s.manufacturers, id)

	for carID, car := range s.cars {
		if car.ManufacturerID == id {
			s.deleteCar(carID)
		}
	}
	return nil
}
