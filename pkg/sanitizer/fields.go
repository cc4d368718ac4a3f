package sanitizer

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Canonical reservation field schema. Anything arriving under another name
// is schema drift and gets dropped at this boundary.
var (
	dateFields = map[string]struct{}{
		"rental_start_date": {},
		"rental_end_date":   {},
	}

	dateTimeFields = map[string]struct{}{
		"start_time": {},
		"end_time":   {},
	}

	numericFields = map[string]struct{}{
		"daily_rate":   {},
		"days":         {},
		"fees":         {},
		"deposit":      {},
		"total_amount": {},
	}

	optionalStringFields = map[string]struct{}{
		"pickup_location":    {},
		"dropoff_location":   {},
		"notes":              {},
		"id_document_type":   {},
		"id_document_number": {},
	}

	// Authority fields pass through unchanged regardless of emptiness:
	// the orchestrator's authority rule decides what wins, not us.
	authorityFields = map[string]struct{}{
		"full_name": {},
		"phone":     {},
		"email":     {},
	}

	passthroughFields = map[string]struct{}{
		"id":          {},
		"vehicle_id":  {},
		"customer_id": {},
	}

	// The persistence layer's payment_status enum has no "partial" member,
	// so "partial" folds into "unpaid". Do not remove this remap without a
	// matching schema migration.
	paymentSynonyms = map[string]string{
		"paid":      "paid",
		"unpaid":    "unpaid",
		"overdue":   "overdue",
		"refunded":  "refunded",
		"pending":   "unpaid",
		"completed": "paid",
		"partial":   "unpaid",
	}

	statusSynonyms = map[string]string{
		"scheduled": "scheduled",
		"active":    "active",
		"confirmed": "confirmed",
		"completed": "completed",
		"cancelled": "cancelled",
		"canceled":  "cancelled",
		"pending":   "scheduled",
	}
)

const (
	DefaultPaymentStatus = "unpaid"
	DefaultStatus        = "scheduled"

	canonicalDateLayout = "2006-01-02"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// SanitizeReservationFields returns a cleaned copy of a loosely-typed
// reservation field map. It never fails on malformed values, only on a
// structurally absent map; bad dates and numerics degrade to null, unknown
// enum members fall back to documented defaults, and unknown keys are
// dropped. The result is stable under re-application.
func SanitizeReservationFields(fields map[string]any) (map[string]any, error) {
	if fields == nil {
		return nil, fmt.Errorf("reservation fields map is required")
	}

	out := make(map[string]any, len(fields))
	for key, value := range fields {
		switch {
		case keyIn(key, authorityFields), keyIn(key, passthroughFields):
			out[key] = value

		case keyIn(key, dateFields):
			out[key] = sanitizeDate(value)

		case keyIn(key, dateTimeFields):
			out[key] = sanitizeDateTime(value)

		case keyIn(key, numericFields):
			out[key] = sanitizeNumeric(value)

		case keyIn(key, optionalStringFields):
			out[key] = sanitizeOptionalString(value)

		case key == "payment_status":
			out[key] = sanitizePaymentStatus(value)

		case key == "status":
			if status, ok := sanitizeStatus(value); ok {
				out[key] = status
			}
		}
	}
	return out, nil
}

func keyIn(key string, set map[string]struct{}) bool {
	_, ok := set[key]
	return ok
}

func sanitizeDate(value any) any {
	t, ok := parseTemporal(value, dateLayouts)
	if !ok {
		return nil
	}
	return t.Format(canonicalDateLayout)
}

func sanitizeDateTime(value any) any {
	t, ok := parseTemporal(value, dateTimeLayouts)
	if !ok {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTemporal(value any, layouts []string) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case string:
		s := NormalizeText(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// sanitizeNumeric coerces to float64 or null. NaN and infinities never
// propagate; negative money is rejected here so the store never sees it.
func sanitizeNumeric(value any) any {
	var f float64
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		s := NormalizeText(v)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return f
}

func sanitizeOptionalString(value any) any {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	cleaned := NormalizeText(s)
	if cleaned == "" {
		return nil
	}
	return cleaned
}

func sanitizePaymentStatus(value any) any {
	s, ok := value.(string)
	if !ok {
		return DefaultPaymentStatus
	}
	if mapped, ok := paymentSynonyms[NormalizeEnum(s)]; ok {
		return mapped
	}
	return DefaultPaymentStatus
}

// sanitizeStatus drops unrecognized lifecycle values entirely; the
// orchestrator applies the "scheduled" default when the key is absent.
func sanitizeStatus(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	mapped, ok := statusSynonyms[NormalizeEnum(s)]
	return mapped, ok
}
