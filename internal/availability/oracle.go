// Package availability answers whether a vehicle is free for a requested
// half-open interval, and searches for the next free slot of the same
// duration when it is not.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "fleetbook/internal/reservations/errors"
	reservationsrepo "fleetbook/internal/reservations/repository"
	vehiclesrepo "fleetbook/internal/vehicles/repository"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReasonTimeConflict marks a check that failed on interval overlap rather
// than on the vehicle status gate.
const ReasonTimeConflict = "time_conflict"

// Options tunes a single availability check.
type Options struct {
	// ExcludeReservationID removes one reservation from the conflict
	// candidates, used when re-checking an interval during an update so a
	// reservation does not conflict with itself. A malformed value is
	// treated as no exclusion.
	ExcludeReservationID string

	// BypassForReservationID skips the vehicle status gate, used only to
	// start a reservation already scheduled on this vehicle. The named
	// reservation must exist and reference the checked vehicle.
	BypassForReservationID string
}

// Result is the oracle's verdict. When Available is false, Reason holds
// either ReasonTimeConflict or the blocking vehicle status, and Conflicts
// lists every overlapping reservation found.
type Result struct {
	Available bool                 `json:"available"`
	Conflicts []*model.Reservation `json:"conflicts,omitempty"`
	Reason    string               `json:"reason,omitempty"`
}

// Slot is one free window proposed by the forward search.
type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type Oracle interface {
	CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time, opts Options) (*Result, error)
	// FindNextAvailableSlot walks forward from desiredStart in fixed steps,
	// keeping the requested duration, and returns the first free window
	// within the configured horizon, or nil when none exists.
	FindNextAvailableSlot(ctx context.Context, vehicleID string, desiredStart, desiredEnd time.Time) (*Slot, error)
}

type oracle struct {
	vehicles     vehiclesrepo.VehicleRepository
	reservations reservationsrepo.ReservationRepository
	cfg          *config.Config
}

func NewOracle(vehicles vehiclesrepo.VehicleRepository, reservations reservationsrepo.ReservationRepository, cfg *config.Config) Oracle {
	return &oracle{
		vehicles:     vehicles,
		reservations: reservations,
		cfg:          cfg,
	}
}

func (o *oracle) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time, opts Options) (*Result, error) {
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end time must be after start time")
	}

	if opts.BypassForReservationID != "" {
		if err := o.verifyBypass(ctx, vehicleID, opts.BypassForReservationID); err != nil {
			return nil, err
		}
	} else {
		// Status gate: a vehicle that is not available blocks the booking
		// outright, and no overlap query is issued.
		vehicle, err := o.vehicles.FindByID(ctx, vehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.Status != model.VehicleAvailable {
			return &Result{
				Available: false,
				Reason:    string(vehicle.Status),
			}, nil
		}
	}

	excludeID := opts.ExcludeReservationID
	if excludeID != "" {
		if _, err := primitive.ObjectIDFromHex(excludeID); err != nil {
			// A caller passing garbage must not crash the check; it just
			// loses the exclusion.
			o.cfg.Log.Debug("Ignoring malformed exclude reservation ID",
				"exclude_reservation_id", excludeID)
			excludeID = ""
		}
	}

	candidates, err := o.reservations.FindBlockingByVehicle(ctx, vehicleID, &start, &end, o.cfg.MaxOverlapFetch)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch blocking reservations", err)
	}

	conflicts := make([]*model.Reservation, 0)
	for _, candidate := range candidates {
		if excludeID != "" && candidate.ID == excludeID {
			continue
		}
		if opts.BypassForReservationID != "" && candidate.ID == opts.BypassForReservationID {
			continue
		}
		if model.Overlaps(start, end, candidate.StartTime, candidate.EndTime) {
			conflicts = append(conflicts, candidate)
		}
	}

	if len(conflicts) > 0 {
		return &Result{
			Available: false,
			Conflicts: conflicts,
			Reason:    ReasonTimeConflict,
		}, nil
	}

	return &Result{Available: true}, nil
}

// verifyBypass checks that the reservation justifying the status-gate skip
// exists and actually references the vehicle under check.
func (o *oracle) verifyBypass(ctx context.Context, vehicleID, reservationID string) error {
	reservation, err := o.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", reservationID)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("invalid bypass reservation ID format")
		}
		return apperrors.Internal("failed to verify bypass reservation", err)
	}
	if reservation.VehicleID != vehicleID {
		return apperrors.InvalidInput(
			fmt.Sprintf("reservation %s does not reference vehicle %s", reservationID, vehicleID))
	}
	return nil
}

func (o *oracle) FindNextAvailableSlot(ctx context.Context, vehicleID string, desiredStart, desiredEnd time.Time) (*Slot, error) {
	if !desiredEnd.After(desiredStart) {
		return nil, apperrors.InvalidInput("end time must be after start time")
	}

	vehicle, err := o.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != model.VehicleAvailable {
		return nil, nil
	}

	duration := desiredEnd.Sub(desiredStart)
	horizonEnd := desiredStart.Add(o.cfg.SlotSearchHorizon).Add(duration)

	// One range query covers the whole horizon; the walk below is in-memory.
	blocking, err := o.reservations.FindBlockingByVehicle(ctx, vehicleID, &desiredStart, &horizonEnd, o.cfg.MaxOverlapFetch)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch blocking reservations", err)
	}

	for offset := time.Duration(0); offset <= o.cfg.SlotSearchHorizon; offset += o.cfg.SlotSearchStep {
		start := desiredStart.Add(offset)
		end := start.Add(duration)

		free := true
		for _, candidate := range blocking {
			if model.Overlaps(start, end, candidate.StartTime, candidate.EndTime) {
				free = false
				break
			}
		}
		if free {
			return &Slot{StartTime: start, EndTime: end}, nil
		}
	}

	return nil, nil
}
