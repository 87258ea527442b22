package model

type WorkHours struct {
	Weekdays string `json:"weekdays"`
	Weekend  string `json:"weekend"`
}

// PickupPoint is a carrier pickup location offered during the CDEK sub-flow.
type PickupPoint struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Issuer       string    `json:"issuer"`
	DeliveryTime string    `json:"delivery_time"`
	Phone        string    `json:"phone"`
	WorkHours    WorkHours `json:"work_hours"`
	MaxWeight    float64   `json:"max_weight"` // kg
	Directions   string    `json:"directions"`
}
