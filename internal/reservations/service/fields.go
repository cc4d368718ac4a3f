package service

import (
	"time"

	"fleetbook/pkg/model"
)

// Helpers mapping a sanitized field map onto the typed models. The
// sanitizer has already canonicalized values: datetimes are RFC3339
// strings or nil, numerics are float64 or nil, optional strings are
// non-blank strings or nil.

func fieldString(fields map[string]any, key string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}

func fieldOptionalString(fields map[string]any, key string) *string {
	if value, ok := fields[key].(string); ok && value != "" {
		return &value
	}
	return nil
}

func fieldTime(fields map[string]any, key string) (time.Time, bool) {
	value, ok := fields[key].(string)
	if !ok {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func fieldFloat(fields map[string]any, key string) *float64 {
	if value, ok := fields[key].(float64); ok {
		return &value
	}
	return nil
}

func fieldPresent(fields map[string]any, key string) bool {
	_, ok := fields[key]
	return ok
}

// buildReservation assembles a reservation from sanitized fields. Zero time
// values are left for the validator to reject; a missing status falls back
// to scheduled because the sanitizer drops unrecognized members.
func buildReservation(fields map[string]any) *model.Reservation {
	reservation := &model.Reservation{
		VehicleID:       fieldString(fields, "vehicle_id"),
		Status:          model.ReservationStatus(fieldString(fields, "status")),
		PaymentStatus:   model.PaymentStatus(fieldString(fields, "payment_status")),
		DailyRate:       fieldFloat(fields, "daily_rate"),
		Days:            fieldFloat(fields, "days"),
		Fees:            fieldFloat(fields, "fees"),
		Deposit:         fieldFloat(fields, "deposit"),
		TotalAmount:     fieldFloat(fields, "total_amount"),
		PickupLocation:  fieldOptionalString(fields, "pickup_location"),
		DropoffLocation: fieldOptionalString(fields, "dropoff_location"),
		Notes:           fieldOptionalString(fields, "notes"),
	}

	if start, ok := fieldTime(fields, "start_time"); ok {
		reservation.StartTime = start
	}
	if end, ok := fieldTime(fields, "end_time"); ok {
		reservation.EndTime = end
	}

	if reservation.Status == "" {
		reservation.Status = model.ReservationScheduled
	}
	if reservation.PaymentStatus == "" {
		reservation.PaymentStatus = model.PaymentUnpaid
	}

	return reservation
}

// buildCustomerCandidate collects the identity fields from the same map.
func buildCustomerCandidate(fields map[string]any) *model.Customer {
	return &model.Customer{
		ID:               fieldString(fields, "customer_id"),
		FullName:         fieldString(fields, "full_name"),
		Phone:            fieldString(fields, "phone"),
		Email:            fieldOptionalString(fields, "email"),
		IDDocumentType:   fieldOptionalString(fields, "id_document_type"),
		IDDocumentNumber: fieldOptionalString(fields, "id_document_number"),
	}
}

// mergeReservation overlays the fields present in the sanitized map onto an
// existing reservation. Only supplied keys change.
func mergeReservation(existing *model.Reservation, fields map[string]any) *model.Reservation {
	merged := *existing

	if fieldPresent(fields, "vehicle_id") {
		merged.VehicleID = fieldString(fields, "vehicle_id")
	}
	if start, ok := fieldTime(fields, "start_time"); ok {
		merged.StartTime = start
	}
	if end, ok := fieldTime(fields, "end_time"); ok {
		merged.EndTime = end
	}
	if fieldPresent(fields, "status") {
		merged.Status = model.ReservationStatus(fieldString(fields, "status"))
	}
	if fieldPresent(fields, "payment_status") {
		merged.PaymentStatus = model.PaymentStatus(fieldString(fields, "payment_status"))
	}

	if fieldPresent(fields, "daily_rate") {
		merged.DailyRate = fieldFloat(fields, "daily_rate")
	}
	if fieldPresent(fields, "days") {
		merged.Days = fieldFloat(fields, "days")
	}
	if fieldPresent(fields, "fees") {
		merged.Fees = fieldFloat(fields, "fees")
	}
	if fieldPresent(fields, "deposit") {
		merged.Deposit = fieldFloat(fields, "deposit")
	}
	if fieldPresent(fields, "total_amount") {
		merged.TotalAmount = fieldFloat(fields, "total_amount")
	}

	if fieldPresent(fields, "pickup_location") {
		merged.PickupLocation = fieldOptionalString(fields, "pickup_location")
	}
	if fieldPresent(fields, "dropoff_location") {
		merged.DropoffLocation = fieldOptionalString(fields, "dropoff_location")
	}
	if fieldPresent(fields, "notes") {
		merged.Notes = fieldOptionalString(fields, "notes")
	}

	return &merged
}
