package models

// Manufacturer represents a car maker
type Manufacturer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (m Manufacturer) String() string {
	return m.Name + " " + m.Country
}
