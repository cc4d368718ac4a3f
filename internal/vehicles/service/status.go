package service

import (
	"context"

	"fleetbook/internal/vehicles/repository"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"
)

// StatusSynchronizer keeps a vehicle's lifecycle status consistent with
// the reservations bound to it. It maintains a derived projection, not a
// recomputation from history; that is sound only while blocking
// reservations on one vehicle never overlap. All of its writes are
// best-effort: a failure is logged and never escalated to the caller, so
// a reservation mutation is never rolled back by a sync problem.
type StatusSynchronizer interface {
	SetStatus(ctx context.Context, vehicleID string, status model.VehicleStatus)
	SyncForReservationStatus(ctx context.Context, vehicleID string, status model.ReservationStatus)
	SyncForReservationDeleted(ctx context.Context, vehicleID string)
}

type statusSynchronizer struct {
	repo repository.VehicleRepository
	cfg  *config.Config
}

func NewStatusSynchronizer(repo repository.VehicleRepository, cfg *config.Config) StatusSynchronizer {
	return &statusSynchronizer{
		repo: repo,
		cfg:  cfg,
	}
}

// SetStatus writes the status unconditionally; repeating the same call is
// observationally a no-op, which is what makes retries safe.
func (s *statusSynchronizer) SetStatus(ctx context.Context, vehicleID string, status model.VehicleStatus) {
	if err := s.repo.UpdateStatus(ctx, vehicleID, status); err != nil {
		s.cfg.Log.Warn("Vehicle status sync failed",
			"vehicle_id", vehicleID,
			"target_status", status,
			"error", err,
		)
		return
	}
	s.cfg.Log.Debug("Vehicle status synced",
		"vehicle_id", vehicleID,
		"status", status,
	)
}

// SyncForReservationStatus projects a reservation lifecycle event onto the
// vehicle: rented > scheduled > available.
func (s *statusSynchronizer) SyncForReservationStatus(ctx context.Context, vehicleID string, status model.ReservationStatus) {
	switch status {
	case model.ReservationScheduled:
		s.SetStatus(ctx, vehicleID, model.VehicleScheduled)
	case model.ReservationActive, model.ReservationConfirmed:
		s.SetStatus(ctx, vehicleID, model.VehicleRented)
	case model.ReservationCompleted, model.ReservationCancelled:
		s.SetStatus(ctx, vehicleID, model.VehicleAvailable)
	default:
		s.cfg.Log.Warn("No vehicle status mapping for reservation status",
			"vehicle_id", vehicleID,
			"reservation_status", status,
		)
	}
}

// SyncForReservationDeleted frees the vehicle unconditionally.
func (s *statusSynchronizer) SyncForReservationDeleted(ctx context.Context, vehicleID string) {
	s.SetStatus(ctx, vehicleID, model.VehicleAvailable)
}
