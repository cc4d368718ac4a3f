package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleetbook/internal/availability"
	customersservice "fleetbook/internal/customers/service"
	"fleetbook/internal/flow"
	reservationserrors "fleetbook/internal/reservations/errors"
	"fleetbook/internal/reservations/repository"
	"fleetbook/internal/reservations/validator"
	vehiclesservice "fleetbook/internal/vehicles/service"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/kafka"
	"fleetbook/pkg/model"
	"fleetbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingResult is the discriminated outcome of a create or update run.
// Reason is empty on success; otherwise it holds the availability verdict
// so callers can tell "pick another time" from "vehicle out of service".
type BookingResult struct {
	Reservation      *model.Reservation   `json:"reservation,omitempty"`
	CustomerCreated  bool                 `json:"customer_created,omitempty"`
	Conflicts        []*model.Reservation `json:"conflicts,omitempty"`
	SuggestedSlot    *availability.Slot   `json:"suggested_slot,omitempty"`
	Reason           string               `json:"reason,omitempty"`
	ApprovalRequired bool                 `json:"approval_required,omitempty"`
}

// ApprovalPublisher emits approval-required events. The Kafka producer
// satisfies it; tests substitute their own.
type ApprovalPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type ReservationService interface {
	Create(ctx context.Context, fields map[string]any) (*BookingResult, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) (*BookingResult, error)
	Delete(ctx context.Context, id string) error
}

type reservationService struct {
	repo       repository.ReservationRepository
	lockRepo   repository.VehicleLockRepository
	oracle     availability.Oracle
	identities customersservice.IdentityResolver
	statusSync vehiclesservice.StatusSynchronizer
	validator  *validator.ReservationValidator
	approvals  ApprovalPublisher
	cfg        *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.VehicleLockRepository,
	oracle availability.Oracle,
	identities customersservice.IdentityResolver,
	statusSync vehiclesservice.StatusSynchronizer,
	validator *validator.ReservationValidator,
	approvals ApprovalPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:       repo,
		lockRepo:   lockRepo,
		oracle:     oracle,
		identities: identities,
		statusSync: statusSync,
		validator:  validator,
		approvals:  approvals,
		cfg:        cfg,
	}
}

// createState carries the intermediate products of one booking run between
// flow steps.
type createState struct {
	reservation *model.Reservation
	candidate   *model.Customer

	customer        *model.Customer
	customerCreated bool

	verdict   *availability.Result
	suggested *availability.Slot

	lockID string
}

func (s *reservationService) Create(ctx context.Context, fields map[string]any) (*BookingResult, error) {
	sanitized, err := sanitizer.SanitizeReservationFields(fields)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	state := &createState{
		reservation: buildReservation(sanitized),
		candidate:   buildCustomerCandidate(sanitized),
	}
	defer s.releaseVehicleLock(ctx, state)

	steps := []flow.Step{
		flow.NewStep("customer_resolved", func(ctx context.Context) error {
			return s.resolveCustomer(ctx, state)
		}),
		flow.NewStep("availability_confirmed", func(ctx context.Context) error {
			return s.confirmAvailability(ctx, state)
		}),
		flow.NewStep("persisted", func(ctx context.Context) error {
			return s.persistReservation(ctx, state)
		}),
		flow.NewStep("status_synced", func(ctx context.Context) error {
			s.statusSync.SyncForReservationStatus(ctx, state.reservation.VehicleID, state.reservation.Status)
			return nil
		}),
	}

	if err := flow.Run(ctx, s.cfg.Log, "reservation_create", steps); err != nil {
		if state.verdict != nil && !state.verdict.Available {
			return &BookingResult{
				Conflicts:     state.verdict.Conflicts,
				SuggestedSlot: state.suggested,
				Reason:        state.verdict.Reason,
			}, err
		}
		return nil, err
	}

	s.selfHealContacts(ctx, state)

	result := &BookingResult{
		Reservation:      state.reservation,
		CustomerCreated:  state.customerCreated,
		ApprovalRequired: s.requiresApproval(state.reservation),
	}
	if result.ApprovalRequired {
		s.publishApprovalRequired(ctx, state.reservation)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", state.reservation.ID,
		"vehicle_id", state.reservation.VehicleID,
		"customer_id", state.reservation.CustomerID,
		"start_time", state.reservation.StartTime,
	)
	return result, nil
}

// resolveCustomer guarantees a persisted identity before anything is
// written, then applies the authority rule: caller-supplied contact fields
// win over stored ones for this booking.
func (s *reservationService) resolveCustomer(ctx context.Context, state *createState) error {
	customer, created, err := s.identities.GuaranteeIdentity(ctx, state.candidate)
	if err != nil {
		return err
	}

	state.customer = customer
	state.customerCreated = created
	state.reservation.CustomerID = customer.ID
	return nil
}

// confirmAvailability serializes the check-then-insert window per vehicle
// with an advisory lock, then asks the oracle. The lock is released by the
// deferred cleanup in Create after the insert has committed or failed.
func (s *reservationService) confirmAvailability(ctx context.Context, state *createState) error {
	lockID, err := s.acquireVehicleLock(ctx, state.reservation.VehicleID)
	if err != nil {
		return err
	}
	state.lockID = lockID

	verdict, err := s.oracle.CheckAvailability(ctx,
		state.reservation.VehicleID,
		state.reservation.StartTime,
		state.reservation.EndTime,
		availability.Options{},
	)
	if err != nil {
		return err
	}
	state.verdict = verdict

	if !verdict.Available {
		if verdict.Reason == availability.ReasonTimeConflict {
			state.suggested = s.suggestSlot(ctx, state.reservation)
		}
		return apperrors.Conflict(availabilityMessage(verdict)).
			WithDetail("reason", verdict.Reason)
	}

	return nil
}

func (s *reservationService) persistReservation(ctx context.Context, state *createState) error {
	if err := s.validator.Validate(state.reservation); err != nil {
		return apperrors.Validation("Invalid reservation input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, state.reservation); err != nil {
		return reservationserrors.ClassifyWriteError(err)
	}
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
		}
	}()

	wg.Wait()

	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", errFind)
	}
	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", errCount)
	}

	return reservations, count, nil
}

func (s *reservationService) Update(ctx context.Context, id string, fields map[string]any) (*BookingResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized, err := sanitizer.SanitizeReservationFields(fields)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	state := &createState{
		reservation: mergeReservation(existing, sanitized),
		candidate:   buildCustomerCandidate(sanitized),
	}
	defer s.releaseVehicleLock(ctx, state)

	steps := []flow.Step{
		flow.NewStep("customer_resolved", func(ctx context.Context) error {
			// Identity resolution reruns only when the caller supplies a
			// new customer; otherwise the stored owner stands.
			if state.candidate.ID == "" && state.candidate.FullName == "" && state.candidate.Phone == "" {
				return nil
			}
			if state.candidate.ID == existing.CustomerID && state.candidate.ID != "" {
				return nil
			}
			return s.resolveCustomer(ctx, state)
		}),
		flow.NewStep("availability_confirmed", func(ctx context.Context) error {
			return s.confirmAvailabilityForUpdate(ctx, state, existing)
		}),
		flow.NewStep("persisted", func(ctx context.Context) error {
			return s.persistUpdate(ctx, id, state)
		}),
		flow.NewStep("status_synced", func(ctx context.Context) error {
			// A reassignment leaves the previous vehicle with no claim
			// from this reservation; it must not stay marked by it.
			if state.reservation.VehicleID != existing.VehicleID {
				s.statusSync.SyncForReservationDeleted(ctx, existing.VehicleID)
			}
			s.statusSync.SyncForReservationStatus(ctx, state.reservation.VehicleID, state.reservation.Status)
			return nil
		}),
	}

	if err := flow.Run(ctx, s.cfg.Log, "reservation_update", steps); err != nil {
		if state.verdict != nil && !state.verdict.Available {
			return &BookingResult{
				Conflicts:     state.verdict.Conflicts,
				SuggestedSlot: state.suggested,
				Reason:        state.verdict.Reason,
			}, err
		}
		return nil, err
	}

	if state.customer != nil {
		s.selfHealContacts(ctx, state)
	}

	s.cfg.Log.Info("Reservation updated successfully", "id", id)
	return &BookingResult{
		Reservation:     state.reservation,
		CustomerCreated: state.customerCreated,
	}, nil
}

// confirmAvailabilityForUpdate excludes the reservation's own interval from
// the check, and skips the vehicle status gate when the update merely
// starts a reservation already scheduled on the same vehicle.
func (s *reservationService) confirmAvailabilityForUpdate(ctx context.Context, state *createState, existing *model.Reservation) error {
	lockID, err := s.acquireVehicleLock(ctx, state.reservation.VehicleID)
	if err != nil {
		return err
	}
	state.lockID = lockID

	opts := availability.Options{ExcludeReservationID: existing.ID}
	if existing.Status == model.ReservationScheduled &&
		state.reservation.VehicleID == existing.VehicleID &&
		(state.reservation.Status == model.ReservationActive || state.reservation.Status == model.ReservationConfirmed) {
		opts.BypassForReservationID = existing.ID
	}

	verdict, err := s.oracle.CheckAvailability(ctx,
		state.reservation.VehicleID,
		state.reservation.StartTime,
		state.reservation.EndTime,
		opts,
	)
	if err != nil {
		return err
	}
	state.verdict = verdict

	if !verdict.Available {
		if verdict.Reason == availability.ReasonTimeConflict {
			state.suggested = s.suggestSlot(ctx, state.reservation)
		}
		return apperrors.Conflict(availabilityMessage(verdict)).
			WithDetail("reason", verdict.Reason)
	}

	return nil
}

func (s *reservationService) persistUpdate(ctx context.Context, id string, state *createState) error {
	if err := s.validator.Validate(state.reservation); err != nil {
		return apperrors.Validation("Invalid reservation input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, state.reservation); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		return reservationserrors.ClassifyWriteError(err)
	}
	return nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	// The reservation is fetched for its vehicle reference before the row
	// goes away; both run in one transaction so the reference cannot go
	// stale in between.
	var reservation *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		found, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			if errors.Is(err, reservationserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid reservation ID format")
			}
			return apperrors.Internal("Failed to retrieve reservation", err)
		}
		reservation = found

		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			return apperrors.Internal("Failed to delete reservation", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The vehicle returns to available unconditionally on delete.
	s.statusSync.SyncForReservationDeleted(ctx, reservation.VehicleID)

	s.cfg.Log.Info("Reservation deleted successfully",
		"id", id,
		"vehicle_id", reservation.VehicleID,
	)
	return nil
}

// acquireVehicleLock creates an advisory lock serializing bookings per
// vehicle. Returns a conflict error when another request holds it; the TTL
// index on the lock collection reaps leftovers from crashed writers.
func (s *reservationService) acquireVehicleLock(ctx context.Context, vehicleID string) (string, error) {
	lockID := fmt.Sprintf("vehicle_lock_%s", vehicleID)

	lock := &model.VehicleLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.VehicleLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This vehicle is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire vehicle lock", err)
	}

	return lockID, nil
}

func (s *reservationService) releaseVehicleLock(ctx context.Context, state *createState) {
	if state.lockID == "" {
		return
	}
	if err := s.lockRepo.Delete(ctx, state.lockID); err != nil {
		s.cfg.Log.Warn("Failed to release vehicle lock", "lock_id", state.lockID, "error", err)
	}
}

// suggestSlot is best effort; a failed search degrades to no suggestion.
func (s *reservationService) suggestSlot(ctx context.Context, reservation *model.Reservation) *availability.Slot {
	slot, err := s.oracle.FindNextAvailableSlot(ctx, reservation.VehicleID, reservation.StartTime, reservation.EndTime)
	if err != nil {
		s.cfg.Log.Warn("Next available slot search failed",
			"vehicle_id", reservation.VehicleID,
			"error", err,
		)
		return nil
	}
	return slot
}

// selfHealContacts pushes the authority-resolved contact fields back onto
// the stored identity. Best effort, never blocks the booking.
func (s *reservationService) selfHealContacts(ctx context.Context, state *createState) {
	if state.customer == nil || state.customerCreated {
		return
	}

	name := state.candidate.FullName
	phone := sanitizer.NormalizePhone(state.candidate.Phone)
	email := state.candidate.Email
	if name == "" {
		name = state.customer.FullName
	}
	if phone == "" {
		phone = state.customer.Phone
	}
	if email == nil {
		email = state.customer.Email
	}

	if name == state.customer.FullName && phone == state.customer.Phone && equalOptional(email, state.customer.Email) {
		return
	}

	s.identities.RefreshContacts(ctx, state.customer.ID, name, phone, email)
}

func (s *reservationService) requiresApproval(reservation *model.Reservation) bool {
	return reservation.TotalAmount != nil && *reservation.TotalAmount >= s.cfg.ApprovalAmountThreshold
}

// publishApprovalRequired emits the approval event for high-value bookings.
// The orchestrator only decides that the condition exists; delivery is best
// effort and a broker failure never fails the booking.
func (s *reservationService) publishApprovalRequired(ctx context.Context, reservation *model.Reservation) {
	if !s.cfg.ApprovalEventsEnabled || s.approvals == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(reservation.ID).
		WithEventType(kafka.EventReservationApprovalRequired).
		WithSource("fleetbook").
		WithValue(reservation).
		Build()

	if err := s.approvals.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish approval event",
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}

func availabilityMessage(verdict *availability.Result) string {
	if verdict.Reason == availability.ReasonTimeConflict && len(verdict.Conflicts) > 0 {
		first := verdict.Conflicts[0]
		return fmt.Sprintf(
			"Reservation time overlaps with existing reservation (%s - %s)",
			first.StartTime.Format(time.RFC3339),
			first.EndTime.Format(time.RFC3339),
		)
	}
	return fmt.Sprintf("Vehicle is not available (status: %s)", verdict.Reason)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
