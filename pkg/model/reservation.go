package model

import "time"

type ReservationStatus string

const (
	ReservationScheduled ReservationStatus = "scheduled"
	ReservationActive    ReservationStatus = "active"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

// BlockingStatuses are the reservation statuses that occupy a vehicle for
// the purpose of the overlap invariant.
var BlockingStatuses = []ReservationStatus{
	ReservationScheduled,
	ReservationActive,
	ReservationConfirmed,
}

// Reservation binds exactly one vehicle to exactly one customer for the
// half-open interval [StartTime, EndTime). Monetary fields are nullable;
// when present they must be finite and non-negative.
type Reservation struct {
	ID         string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID  string            `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	CustomerID string            `json:"customer_id" bson:"customer_id" validate:"required"`
	StartTime  time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time         `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status     ReservationStatus `json:"status" bson:"status" validate:"required,oneof=scheduled active confirmed completed cancelled"`
	// Payment status never holds "partial": the Reservations collection
	// enum does not admit it, so the sanitizer folds it into "unpaid".
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=paid unpaid overdue refunded"`

	DailyRate   *float64 `json:"daily_rate,omitempty" bson:"daily_rate,omitempty" validate:"omitempty,money"`
	Days        *float64 `json:"days,omitempty" bson:"days,omitempty" validate:"omitempty,money"`
	Fees        *float64 `json:"fees,omitempty" bson:"fees,omitempty" validate:"omitempty,money"`
	Deposit     *float64 `json:"deposit,omitempty" bson:"deposit,omitempty" validate:"omitempty,money"`
	TotalAmount *float64 `json:"total_amount,omitempty" bson:"total_amount,omitempty" validate:"omitempty,money"`

	PickupLocation  *string `json:"pickup_location,omitempty" bson:"pickup_location,omitempty" validate:"omitempty,max=255"`
	DropoffLocation *string `json:"dropoff_location,omitempty" bson:"dropoff_location,omitempty" validate:"omitempty,max=255"`
	Notes           *string `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Blocking reports whether the reservation occupies its vehicle.
func (r *Reservation) Blocking() bool {
	switch r.Status {
	case ReservationScheduled, ReservationActive, ReservationConfirmed:
		return true
	}
	return false
}

// Overlaps is the half-open interval intersection test shared by the
// availability oracle and the repository query filters.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}
