package errors

import (
	"errors"
	"strings"

	apperrors "fleetbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrTimeConflict = errors.New("reservation interval conflicts with an existing reservation")
)

// Constraint subtypes recognized when the store rejects a write despite
// sanitization. Each maps to a remediation hint the presentation layer can
// show next to the offending field.
const (
	ConstraintPaymentStatus     = "payment_status"
	ConstraintReservationStatus = "reservation_status"
	ConstraintDateFormat        = "date_format"
	ConstraintGeneric           = "generic"
)

// ClassifyWriteError turns a Mongo document-validation failure into a typed
// constraint error. Classification is by message pattern; the server does
// not say which schema rule fired.
func ClassifyWriteError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	if !isDocumentValidationError(err) {
		return apperrors.Internal("Failed to persist reservation", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "payment_status"):
		return apperrors.Constraint(ConstraintPaymentStatus,
			"payment_status must be one of: paid, unpaid, overdue, refunded", err)
	case strings.Contains(msg, "status"):
		return apperrors.Constraint(ConstraintReservationStatus,
			"status must be one of: scheduled, active, confirmed, completed, cancelled", err)
	case strings.Contains(msg, "start_time"), strings.Contains(msg, "end_time"), strings.Contains(msg, "date"):
		return apperrors.Constraint(ConstraintDateFormat,
			"start_time and end_time must be valid instants with end_time after start_time", err)
	default:
		return apperrors.Constraint(ConstraintGeneric,
			"one or more fields violate the reservation schema", err)
	}
}

func isDocumentValidationError(err error) bool {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			// 121 = DocumentValidationFailure
			if we.Code == 121 {
				return true
			}
		}
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 121 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "document failed validation")
}
