package errors

import (
	"errors"
	"testing"

	apperrors "fleetbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

func validationFailure(message string) error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    121,
			Message: message,
		}},
	}
}

func TestClassifyWriteError_Nil(t *testing.T) {
	if got := ClassifyWriteError(nil); got != nil {
		t.Errorf("expected nil for nil error, got %v", got)
	}
}

func TestClassifyWriteError_NonValidationError(t *testing.T) {
	got := ClassifyWriteError(errors.New("connection reset by peer"))

	if got.Code != apperrors.CodeInternal {
		t.Errorf("expected internal code for a transport error, got %s", got.Code)
	}
}

func TestClassifyWriteError_Subtypes(t *testing.T) {
	tests := []struct {
		name    string
		message string
		subtype string
	}{
		{"payment status", "Document failed validation: field payment_status", ConstraintPaymentStatus},
		{"reservation status", "Document failed validation: field status not in enum", ConstraintReservationStatus},
		{"date fields", "Document failed validation: start_time must be a date", ConstraintDateFormat},
		{"unrecognized", "Document failed validation: additionalProperties", ConstraintGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyWriteError(validationFailure(tt.message))

			if got.Code != apperrors.CodeConstraint {
				t.Fatalf("expected constraint code, got %s", got.Code)
			}
			if got.Details["subtype"] != tt.subtype {
				t.Errorf("expected subtype %q, got %v", tt.subtype, got.Details["subtype"])
			}
		})
	}
}

func TestClassifyWriteError_CommandError(t *testing.T) {
	err := mongo.CommandError{
		Code:    121,
		Message: "Document failed validation",
	}

	got := ClassifyWriteError(err)
	if got.Code != apperrors.CodeConstraint {
		t.Errorf("expected constraint code for command error 121, got %s", got.Code)
	}
}
