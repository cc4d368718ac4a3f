package validator

import (
	"math"
	"strings"
	"testing"
	"time"

	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func floatPtr(f float64) *float64 {
	return &f
}

func validReservation() *model.Reservation {
	return &model.Reservation{
		VehicleID:     "665d2c3e8f1b2a0001a1b2c3",
		CustomerID:    "cst_0f8fad5b-d9cb-469f-a165-70867728950e",
		StartTime:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		Status:        model.ReservationScheduled,
		PaymentStatus: model.PaymentUnpaid,
	}
}

func TestValidate_ValidReservation(t *testing.T) {
	v := NewReservationValidator(testLogger())

	if err := v.Validate(validReservation()); err != nil {
		t.Errorf("expected valid reservation, got %v", err)
	}
}

func TestValidate_MissingVehicleID(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.VehicleID = ""

	err := v.Validate(reservation)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "VehicleID") {
		t.Errorf("expected VehicleID named in the error, got %v", err)
	}
}

func TestValidate_EndNotAfterStart(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.EndTime = reservation.StartTime

	if err := v.Validate(reservation); err == nil {
		t.Fatal("expected failure for zero-length interval")
	}
}

func TestValidate_BadCustomerIDFormat(t *testing.T) {
	v := NewReservationValidator(testLogger())

	tests := []string{
		"665d2c3e8f1b2a0001a1b2c3",
		"cst_not-a-uuid",
		"CST_0f8fad5b-d9cb-469f-a165-70867728950e",
	}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			reservation := validReservation()
			reservation.CustomerID = id
			if err := v.Validate(reservation); err == nil {
				t.Errorf("expected failure for customer ID %q", id)
			}
		})
	}
}

func TestValidate_MoneyFields(t *testing.T) {
	v := NewReservationValidator(testLogger())

	tests := []struct {
		name  string
		value *float64
		valid bool
	}{
		{"nil amount", nil, true},
		{"zero", floatPtr(0), true},
		{"positive", floatPtr(120.50), true},
		{"negative", floatPtr(-1), false},
		{"NaN", floatPtr(math.NaN()), false},
		{"positive infinity", floatPtr(math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation := validReservation()
			reservation.TotalAmount = tt.value

			err := v.Validate(reservation)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

func TestValidate_BadStatus(t *testing.T) {
	v := NewReservationValidator(testLogger())

	reservation := validReservation()
	reservation.Status = model.ReservationStatus("bogus")

	if err := v.Validate(reservation); err == nil {
		t.Fatal("expected failure for unknown status")
	}
}

func TestValidate_PartialPaymentStatusRejected(t *testing.T) {
	v := NewReservationValidator(testLogger())

	// "partial" must be folded into "unpaid" upstream; reaching the
	// validator with it is a bug.
	reservation := validReservation()
	reservation.PaymentStatus = model.PaymentStatus("partial")

	if err := v.Validate(reservation); err == nil {
		t.Fatal("expected failure for 'partial' payment status")
	}
}
