package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetbook/internal/availability"
	reservationserrors "fleetbook/internal/reservations/errors"
	"fleetbook/internal/reservations/validator"
	"fleetbook/pkg/config"
	mongotx "fleetbook/pkg/db/mongo"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/kafka"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mock collaborators
// ────────────────────────────────────────────────

type mockReservationRepository struct {
	createFunc   func(ctx context.Context, reservation *model.Reservation) error
	findByIDFunc func(ctx context.Context, id string) (*model.Reservation, error)
	updateFunc   func(ctx context.Context, id string, reservation *model.Reservation) error
	deleteFunc   func(ctx context.Context, id string) error

	createCalls int
	deleteCalls int
	txCalls     int
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	reservation.ID = "665d2c3e8f1b2a0001a1b2d0"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, reservation *model.Reservation) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, reservation)
	}
	return nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) FindBlockingByVehicle(ctx context.Context, vehicleID string, start, end *time.Time, limit int) ([]*model.Reservation, error) {
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	// Run the transaction body with a fake session context.
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error)

	held    map[string]bool
	creates int
	deletes int
}

func newMockLockRepository() *mockLockRepository {
	return &mockLockRepository{held: make(map[string]bool)}
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error) {
	m.creates++
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	m.held[lock.ID] = true
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deletes++
	delete(m.held, lockID)
	return nil
}

type mockOracle struct {
	checkFunc func(ctx context.Context, vehicleID string, start, end time.Time, opts availability.Options) (*availability.Result, error)
	nextFunc  func(ctx context.Context, vehicleID string, desiredStart, desiredEnd time.Time) (*availability.Slot, error)

	checkCalls int
	lastOpts   availability.Options
}

func (m *mockOracle) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time, opts availability.Options) (*availability.Result, error) {
	m.checkCalls++
	m.lastOpts = opts
	if m.checkFunc != nil {
		return m.checkFunc(ctx, vehicleID, start, end, opts)
	}
	return &availability.Result{Available: true}, nil
}

func (m *mockOracle) FindNextAvailableSlot(ctx context.Context, vehicleID string, desiredStart, desiredEnd time.Time) (*availability.Slot, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, vehicleID, desiredStart, desiredEnd)
	}
	return nil, nil
}

type mockIdentityResolver struct {
	guaranteeFunc func(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error)

	guaranteeCalls int
	refreshCalls   int
}

const testCustomerID = "cst_0f8fad5b-d9cb-469f-a165-70867728950e"

func (m *mockIdentityResolver) GuaranteeIdentity(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error) {
	m.guaranteeCalls++
	if m.guaranteeFunc != nil {
		return m.guaranteeFunc(ctx, candidate)
	}
	return &model.Customer{
		ID:       testCustomerID,
		FullName: "Jane Doe",
		Phone:    "+212612345678",
	}, false, nil
}

func (m *mockIdentityResolver) RefreshContacts(ctx context.Context, id string, fullName, phone string, email *string) {
	m.refreshCalls++
}

type mockStatusSynchronizer struct {
	setCalls  []model.VehicleStatus
	syncCalls []model.ReservationStatus
	deleted   []string
}

func (m *mockStatusSynchronizer) SetStatus(ctx context.Context, vehicleID string, status model.VehicleStatus) {
	m.setCalls = append(m.setCalls, status)
}

func (m *mockStatusSynchronizer) SyncForReservationStatus(ctx context.Context, vehicleID string, status model.ReservationStatus) {
	m.syncCalls = append(m.syncCalls, status)
}

func (m *mockStatusSynchronizer) SyncForReservationDeleted(ctx context.Context, vehicleID string) {
	m.deleted = append(m.deleted, vehicleID)
}

type mockApprovalPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	published   []kafka.Message
}

func (m *mockApprovalPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

type orchestratorFixture struct {
	repo       *mockReservationRepository
	lockRepo   *mockLockRepository
	oracle     *mockOracle
	identities *mockIdentityResolver
	statusSync *mockStatusSynchronizer
	approvals  *mockApprovalPublisher
	cfg        *config.Config
	service    ReservationService
}

func newFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:                     log,
		VehicleLockTTL:          10 * time.Second,
		ApprovalAmountThreshold: 5000,
		ApprovalEventsEnabled:   true,
	}

	f := &orchestratorFixture{
		repo:       &mockReservationRepository{},
		lockRepo:   newMockLockRepository(),
		oracle:     &mockOracle{},
		identities: &mockIdentityResolver{},
		statusSync: &mockStatusSynchronizer{},
		approvals:  &mockApprovalPublisher{},
		cfg:        cfg,
	}
	f.service = NewReservationService(
		f.repo,
		f.lockRepo,
		f.oracle,
		f.identities,
		f.statusSync,
		validator.NewReservationValidator(log),
		f.approvals,
		cfg,
	)
	return f
}

func validCreateFields() map[string]any {
	return map[string]any{
		"vehicle_id": "665d2c3e8f1b2a0001a1b2c3",
		"full_name":  "Jane Doe",
		"phone":      "+212612345678",
		"start_time": "2024-06-01T09:00:00Z",
		"end_time":   "2024-06-01T11:00:00Z",
	}
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Create(context.Background(), validCreateFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reservation == nil {
		t.Fatal("expected a persisted reservation")
	}
	if result.Reservation.CustomerID != testCustomerID {
		t.Errorf("expected resolved customer ID, got %q", result.Reservation.CustomerID)
	}
	if result.Reservation.Status != model.ReservationScheduled {
		t.Errorf("expected default status 'scheduled', got %q", result.Reservation.Status)
	}
	if result.Reservation.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("expected default payment_status 'unpaid', got %q", result.Reservation.PaymentStatus)
	}

	if len(f.statusSync.syncCalls) != 1 || f.statusSync.syncCalls[0] != model.ReservationScheduled {
		t.Errorf("expected one status sync for 'scheduled', got %v", f.statusSync.syncCalls)
	}
	if f.lockRepo.creates != 1 || f.lockRepo.deletes != 1 {
		t.Errorf("expected lock acquired and released once, got %d/%d", f.lockRepo.creates, f.lockRepo.deletes)
	}
	if len(f.lockRepo.held) != 0 {
		t.Errorf("lock leaked: %v", f.lockRepo.held)
	}
}

func TestCreate_IdentityFailureAbortsBeforeAnything(t *testing.T) {
	f := newFixture(t)
	f.identities.guaranteeFunc = func(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error) {
		return nil, false, apperrors.Identity("customer name and phone are required", nil)
	}

	_, err := f.service.Create(context.Background(), validCreateFields())
	if err == nil {
		t.Fatal("expected identity failure")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Details["failed_step"] != "customer_resolved" {
		t.Errorf("expected failure tagged at customer_resolved, got %v", appErr.Details)
	}
	if f.repo.createCalls != 0 {
		t.Errorf("no reservation row may be written before identity resolution, got %d creates", f.repo.createCalls)
	}
	if f.oracle.checkCalls != 0 {
		t.Errorf("availability must not be consulted after identity failure, got %d checks", f.oracle.checkCalls)
	}
	if f.lockRepo.creates != 0 {
		t.Errorf("no lock should be taken after identity failure, got %d", f.lockRepo.creates)
	}
}

func TestCreate_ConflictReturnsWindowsAndSuggestion(t *testing.T) {
	f := newFixture(t)

	conflicting := &model.Reservation{
		ID:        "665d2c3e8f1b2a0001a1b2c4",
		StartTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
	}
	suggested := &availability.Slot{
		StartTime: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
	}

	f.oracle.checkFunc = func(ctx context.Context, vehicleID string, start, end time.Time, opts availability.Options) (*availability.Result, error) {
		return &availability.Result{
			Available: false,
			Conflicts: []*model.Reservation{conflicting},
			Reason:    availability.ReasonTimeConflict,
		}, nil
	}
	f.oracle.nextFunc = func(ctx context.Context, vehicleID string, desiredStart, desiredEnd time.Time) (*availability.Slot, error) {
		return suggested, nil
	}

	result, err := f.service.Create(context.Background(), validCreateFields())
	if err == nil {
		t.Fatal("expected conflict error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", appErr.Code)
	}
	if appErr.Details["failed_step"] != "availability_confirmed" {
		t.Errorf("expected failure tagged at availability_confirmed, got %v", appErr.Details)
	}
	if result == nil {
		t.Fatal("expected a discriminated result alongside the error")
	}
	if result.Reason != availability.ReasonTimeConflict {
		t.Errorf("expected reason %q, got %q", availability.ReasonTimeConflict, result.Reason)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].ID != conflicting.ID {
		t.Errorf("expected the conflicting window in the result, got %v", result.Conflicts)
	}
	if result.SuggestedSlot == nil || !result.SuggestedSlot.StartTime.Equal(suggested.StartTime) {
		t.Errorf("expected suggested slot, got %v", result.SuggestedSlot)
	}

	if f.repo.createCalls != 0 {
		t.Errorf("nothing may be persisted on conflict, got %d creates", f.repo.createCalls)
	}
	if len(f.statusSync.syncCalls) != 0 {
		t.Errorf("no status sync on conflict, got %v", f.statusSync.syncCalls)
	}
	if len(f.lockRepo.held) != 0 {
		t.Errorf("lock must be released on conflict, got %v", f.lockRepo.held)
	}
}

func TestCreate_StatusGateFailureHasNoSuggestion(t *testing.T) {
	f := newFixture(t)

	f.oracle.checkFunc = func(ctx context.Context, vehicleID string, start, end time.Time, opts availability.Options) (*availability.Result, error) {
		return &availability.Result{
			Available: false,
			Reason:    string(model.VehicleMaintenance),
		}, nil
	}

	result, err := f.service.Create(context.Background(), validCreateFields())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if result == nil || result.Reason != string(model.VehicleMaintenance) {
		t.Fatalf("expected maintenance reason, got %v", result)
	}
	if result.SuggestedSlot != nil {
		t.Errorf("no slot search for a status-gated vehicle, got %v", result.SuggestedSlot)
	}
}

func TestCreate_LockContention(t *testing.T) {
	f := newFixture(t)
	f.lockRepo.createFunc = func(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error) {
		return nil, mongo.WriteException{
			WriteErrors: []mongo.WriteError{{Code: 11000}},
		}
	}

	_, err := f.service.Create(context.Background(), validCreateFields())
	if err == nil {
		t.Fatal("expected lock contention to fail the booking")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", apperrors.AsAppError(err).Code)
	}
	if f.oracle.checkCalls != 0 {
		t.Errorf("availability must not be consulted without the lock, got %d checks", f.oracle.checkCalls)
	}
	if f.repo.createCalls != 0 {
		t.Errorf("nothing may be persisted under contention, got %d creates", f.repo.createCalls)
	}
}

func TestCreate_ConstraintViolationClassified(t *testing.T) {
	f := newFixture(t)
	f.repo.createFunc = func(ctx context.Context, reservation *model.Reservation) error {
		return mongo.WriteException{
			WriteErrors: []mongo.WriteError{{
				Code:    121,
				Message: "Document failed validation: payment_status",
			}},
		}
	}

	_, err := f.service.Create(context.Background(), validCreateFields())
	if err == nil {
		t.Fatal("expected constraint failure")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConstraint {
		t.Errorf("expected constraint code, got %s", appErr.Code)
	}
	if appErr.Details["subtype"] != reservationserrors.ConstraintPaymentStatus {
		t.Errorf("expected payment_status subtype, got %v", appErr.Details["subtype"])
	}
	if len(f.statusSync.syncCalls) != 0 {
		t.Errorf("no status sync after failed persist, got %v", f.statusSync.syncCalls)
	}
}

func TestCreate_SelfHealRunsForExistingCustomer(t *testing.T) {
	f := newFixture(t)

	fields := validCreateFields()
	fields["customer_id"] = testCustomerID
	fields["full_name"] = "Jane A. Doe"

	_, err := f.service.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.identities.refreshCalls != 1 {
		t.Errorf("expected one contact refresh, got %d", f.identities.refreshCalls)
	}
}

func TestCreate_NoSelfHealForFreshCustomer(t *testing.T) {
	f := newFixture(t)
	f.identities.guaranteeFunc = func(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error) {
		return &model.Customer{
			ID:       testCustomerID,
			FullName: candidate.FullName,
			Phone:    "+212612345678",
		}, true, nil
	}

	_, err := f.service.Create(context.Background(), validCreateFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.identities.refreshCalls != 0 {
		t.Errorf("a just-created identity needs no healing, got %d refreshes", f.identities.refreshCalls)
	}
}

func TestCreate_ApprovalEventForHighValueBooking(t *testing.T) {
	f := newFixture(t)

	fields := validCreateFields()
	fields["total_amount"] = 7500.0

	result, err := f.service.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ApprovalRequired {
		t.Error("expected approval to be required above the threshold")
	}
	if len(f.approvals.published) != 1 {
		t.Fatalf("expected one approval event, got %d", len(f.approvals.published))
	}
	eventType, _ := f.approvals.published[0].GetHeader(kafka.HeaderEventType)
	if eventType != kafka.EventReservationApprovalRequired {
		t.Errorf("expected event type %q, got %q", kafka.EventReservationApprovalRequired, eventType)
	}
}

func TestCreate_PublisherFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.approvals.publishFunc = func(ctx context.Context, msg kafka.Message) error {
		return errors.New("broker unreachable")
	}

	fields := validCreateFields()
	fields["total_amount"] = 9000.0

	result, err := f.service.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("a broker failure must not fail the booking: %v", err)
	}
	if result.Reservation == nil {
		t.Error("expected the booking to succeed")
	}
}

func TestCreate_NoApprovalEventBelowThreshold(t *testing.T) {
	f := newFixture(t)

	fields := validCreateFields()
	fields["total_amount"] = 120.0

	result, err := f.service.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ApprovalRequired {
		t.Error("approval must not be required below the threshold")
	}
	if len(f.approvals.published) != 0 {
		t.Errorf("expected no approval events, got %d", len(f.approvals.published))
	}
}

// ────────────────────────────────────────────────
// Tests for Update()
// ────────────────────────────────────────────────

func existingReservation() *model.Reservation {
	return &model.Reservation{
		ID:            "665d2c3e8f1b2a0001a1b2d0",
		VehicleID:     "665d2c3e8f1b2a0001a1b2c3",
		CustomerID:    testCustomerID,
		StartTime:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		Status:        model.ReservationScheduled,
		PaymentStatus: model.PaymentUnpaid,
	}
}

func TestUpdate_ExcludesOwnReservation(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		return existing, nil
	}

	_, err := f.service.Update(context.Background(), existing.ID, map[string]any{
		"end_time": "2024-06-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.oracle.lastOpts.ExcludeReservationID != existing.ID {
		t.Errorf("expected own ID excluded from the check, got %q", f.oracle.lastOpts.ExcludeReservationID)
	}
	if f.oracle.lastOpts.BypassForReservationID != "" {
		t.Errorf("no bypass for a plain reschedule, got %q", f.oracle.lastOpts.BypassForReservationID)
	}
	if f.identities.guaranteeCalls != 0 {
		t.Errorf("identity resolution must be skipped without a new customer, got %d calls", f.identities.guaranteeCalls)
	}
}

func TestUpdate_StartingScheduledReservationBypassesGate(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		return existing, nil
	}

	result, err := f.service.Update(context.Background(), existing.ID, map[string]any{
		"status": "active",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.oracle.lastOpts.BypassForReservationID != existing.ID {
		t.Errorf("expected bypass for starting a scheduled reservation, got %q", f.oracle.lastOpts.BypassForReservationID)
	}
	if result.Reservation.Status != model.ReservationActive {
		t.Errorf("expected status 'active', got %q", result.Reservation.Status)
	}
	if len(f.statusSync.syncCalls) != 1 || f.statusSync.syncCalls[0] != model.ReservationActive {
		t.Errorf("expected vehicle projected to rented via 'active' sync, got %v", f.statusSync.syncCalls)
	}
}

func TestUpdate_ReassignmentResyncsOldVehicle(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		return existing, nil
	}

	newVehicleID := "665d2c3e8f1b2a0001a1b2bb"
	result, err := f.service.Update(context.Background(), existing.ID, map[string]any{
		"vehicle_id": newVehicleID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reservation.VehicleID != newVehicleID {
		t.Fatalf("expected reservation moved to %q, got %q", newVehicleID, result.Reservation.VehicleID)
	}
	// The old vehicle no longer carries this reservation and must be
	// re-synced, not left marked by it.
	if len(f.statusSync.deleted) != 1 || f.statusSync.deleted[0] != existing.VehicleID {
		t.Errorf("expected old vehicle %q re-synced after reassignment, got %v", existing.VehicleID, f.statusSync.deleted)
	}
	if len(f.statusSync.syncCalls) != 1 || f.statusSync.syncCalls[0] != model.ReservationScheduled {
		t.Errorf("expected new vehicle synced for 'scheduled', got %v", f.statusSync.syncCalls)
	}
}

func TestUpdate_SameVehicleSkipsOldVehicleResync(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		return existing, nil
	}

	_, err := f.service.Update(context.Background(), existing.ID, map[string]any{
		"end_time": "2024-06-01T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.statusSync.deleted) != 0 {
		t.Errorf("no deleted-style sync without a vehicle change, got %v", f.statusSync.deleted)
	}
}

func TestUpdate_NewCustomerTriggersResolution(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		return existing, nil
	}

	otherCustomer := "cst_1f8fad5b-d9cb-469f-a165-70867728950e"
	f.identities.guaranteeFunc = func(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error) {
		return &model.Customer{ID: otherCustomer, FullName: "John Roe", Phone: "+212612345679"}, false, nil
	}

	result, err := f.service.Update(context.Background(), existing.ID, map[string]any{
		"customer_id": otherCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.identities.guaranteeCalls != 1 {
		t.Errorf("expected identity resolution for a new customer, got %d calls", f.identities.guaranteeCalls)
	}
	if result.Reservation.CustomerID != otherCustomer {
		t.Errorf("expected reservation reassigned to %q, got %q", otherCustomer, result.Reservation.CustomerID)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Update(context.Background(), "665d2c3e8f1b2a0001a1b2d0", map[string]any{})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected not found code, got %s", apperrors.AsAppError(err).Code)
	}
}

// ────────────────────────────────────────────────
// Tests for Delete()
// ────────────────────────────────────────────────

func TestDelete_FreesVehicleUnconditionally(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	existing.Status = model.ReservationActive
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		return existing, nil
	}

	if err := f.service.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.deleteCalls != 1 {
		t.Errorf("expected one delete, got %d", f.repo.deleteCalls)
	}
	if len(f.statusSync.deleted) != 1 || f.statusSync.deleted[0] != existing.VehicleID {
		t.Errorf("expected vehicle freed after delete, got %v", f.statusSync.deleted)
	}
}

func TestDelete_NotFoundSkipsSync(t *testing.T) {
	f := newFixture(t)

	err := f.service.Delete(context.Background(), "665d2c3e8f1b2a0001a1b2d0")
	if err == nil {
		t.Fatal("expected not found error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found code, got %s", appErr.Code)
	}
	if len(f.statusSync.deleted) != 0 {
		t.Errorf("no sync for a missing reservation, got %v", f.statusSync.deleted)
	}
}

func TestDelete_FetchAndDeleteShareOneTransaction(t *testing.T) {
	f := newFixture(t)
	existing := existingReservation()
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Reservation, error) {
		if _, ok := ctx.(mongo.SessionContext); !ok {
			t.Error("expected fetch to run inside the transaction session")
		}
		return existing, nil
	}
	f.repo.deleteFunc = func(ctx context.Context, id string) error {
		if _, ok := ctx.(mongo.SessionContext); !ok {
			t.Error("expected delete to run inside the transaction session")
		}
		return nil
	}

	if err := f.service.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.txCalls != 1 {
		t.Errorf("expected one transaction around fetch+delete, got %d", f.repo.txCalls)
	}
}
