package model

import "time"

type VehicleStatus string

const (
	VehicleAvailable    VehicleStatus = "available"
	VehicleScheduled    VehicleStatus = "scheduled"
	VehicleRented       VehicleStatus = "rented"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
)

// Vehicle is one physical rentable asset. Status is a derived projection of
// the reservations bound to it: it is written only by the status
// synchronizer, or manually by an operator (maintenance, out_of_service).
type Vehicle struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Make         string        `json:"make" bson:"make" validate:"required,min=1,max=60"`
	Model        string        `json:"model" bson:"model" validate:"required,min=1,max=60"`
	Year         int           `json:"year" bson:"year" validate:"omitempty,min=1950,max=2100"`
	LicensePlate string        `json:"license_plate" bson:"license_plate" validate:"required,min=2,max=20"`
	DailyRate    float64       `json:"daily_rate" bson:"daily_rate" validate:"omitempty,min=0"`
	Status       VehicleStatus `json:"status" bson:"status" validate:"required,oneof=available scheduled rented maintenance out_of_service"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}
