package models

// Car represents a fleet vehicle. Manufacturer and Drivers are populated by detail and list queries.
type Car struct {
	ID             int64         `json:"id"`
	Model          string        `json:"model"`
	ManufacturerID int64         `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty"`
	Drivers        []Driver      `json:"drivers"`
}

// HasDriver reports whether the driver is assigned to the car
func (c *Car) HasDriver(driverID int64) bool {
	for _, d := range c.Drivers {
		if d.ID == driverID {
			return true
		}
	}
	return false
}

// DriverIDs returns the ids of the assigned drivers
func (c *Car) DriverIDs() []int64 {
	ids := make([]int64, 0, len(c.Drivers))
	for _, d := range c.Drivers {
		ids = append(ids, d.ID)
	}
	return ids
}

func (c Car) String() string {
	return c.Model
}
