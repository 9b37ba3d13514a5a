package memory

import (
	"context"

	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

// DriverRepository is the in-memory repositories.DriverRepository
type DriverRepository struct {
	store *Store
}

// must be called with mu held
func (s *Store) uniqueDriverConflict(id int64, username, licenseNumber string) error {
	for _, d := range s.drivers {
		if d.ID != id && username != "" && d.Username == username {
			return apperrors.ErrUsernameTaken
		}
	}
	for _, d := range s.drivers {
		if d.ID != id && licenseNumber != "" && d.LicenseNumber == licenseNumber {
			return apperrors.ErrLicenseNumberTaken
		}
	}
	return nil
}

func (r *DriverRepository) Create(_ context.Context, driver *models.Driver) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.uniqueDriverConflict(0, driver.Username, driver.LicenseNumber); err != nil {
		return 0, err
	}

	driver.ID = s.allocateID("drivers")
	driver.CreatedAt = s.now()
	stored := *driver
	stored.Cars = nil
	s.drivers[driver.ID] = stored
	return driver.ID, nil
}

func (r *DriverRepository) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drivers[id]
	if !ok {
		return nil, apperrors.ErrDriverNotFound
	}
	return &d, nil
}

func (r *DriverRepository) GetByUsername(_ context.Context, username string) (*models.Driver, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drivers {
		if d.Username == username {
			found := d
			return &found, nil
		}
	}
	return nil, apperrors.ErrDriverNotFound
}

func (r *DriverRepository) List(_ context.Context, offset, limit uint64) ([]models.Driver, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		all = append(all, d)
	}
	sortDrivers(all)

	start, end := page(len(all), offset, limit)
	return all[start:end], nil
}

func (r *DriverRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.drivers)), nil
}

func (r *DriverRepository) UpdateLicenseNumber(_ context.Context, id int64, licenseNumber string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drivers[id]
	if !ok {
		return apperrors.ErrDriverNotFound
	}
	if err := s.uniqueDriverConflict(id, "", licenseNumber); err != nil {
		return err
	}
	d.LicenseNumber = licenseNumber
	s.drivers[id] = d
	return nil
}

func (r *DriverRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drivers[id]; !ok {
		return apperrors.ErrDriverNotFound
	}
	delete(s.drivers, id)
	for a := range s.assignments {
		if a.driverID == id {
			delete(s.assignments, a)
		}
	}
	return nil
}
