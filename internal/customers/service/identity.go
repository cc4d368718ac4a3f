// Package service resolves reservation candidates to persisted customer
// identities. No reservation is ever written before GuaranteeIdentity has
// produced a valid, stored identity.
package service

import (
	"context"
	"errors"
	"strings"

	customerserrors "fleetbook/internal/customers/errors"
	"fleetbook/internal/customers/repository"
	"fleetbook/pkg/cache"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
	"fleetbook/pkg/sanitizer"

	"github.com/google/uuid"
)

type IdentityResolver interface {
	// GuaranteeIdentity returns a persisted identity for the candidate,
	// creating one when no valid ID is supplied. The second return reports
	// whether a new identity was created.
	GuaranteeIdentity(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error)

	// RefreshContacts overwrites an identity's contact fields with the
	// authority-resolved values. Best effort: failures are logged, never
	// returned.
	RefreshContacts(ctx context.Context, id string, fullName, phone string, email *string)
}

type identityResolver struct {
	repo  repository.CustomerRepository
	cache cache.Store
	cfg   *config.Config
}

func NewIdentityResolver(repo repository.CustomerRepository, cacheStore cache.Store, cfg *config.Config) IdentityResolver {
	return &identityResolver{
		repo:  repo,
		cache: cacheStore,
		cfg:   cfg,
	}
}

func (s *identityResolver) GuaranteeIdentity(ctx context.Context, candidate *model.Customer) (*model.Customer, bool, error) {
	if candidate == nil {
		return nil, false, apperrors.Identity("no customer candidate supplied", nil)
	}

	if model.ValidCustomerID(candidate.ID) {
		if cached, ok := s.cache.Get(candidate.ID); ok {
			if customer, ok := cached.(*model.Customer); ok {
				return customer, false, nil
			}
		}

		customer, err := s.repo.FindByID(ctx, candidate.ID)
		if err == nil {
			s.cache.Set(customer.ID, customer)
			return customer, false, nil
		}
		if !errors.Is(err, customerserrors.ErrNotFound) {
			return nil, false, apperrors.Identity("customer lookup failed", err)
		}

		// A well-formed ID pointing at nothing falls through to creation.
		s.cfg.Log.Warn("Customer ID not found, creating a new identity",
			"customer_id", candidate.ID)
	}

	customer, err := s.createIdentity(ctx, candidate)
	if err != nil {
		return nil, false, err
	}

	return customer, true, nil
}

func (s *identityResolver) createIdentity(ctx context.Context, candidate *model.Customer) (*model.Customer, error) {
	fullName := strings.TrimSpace(candidate.FullName)
	phone := sanitizer.NormalizePhone(candidate.Phone)
	if fullName == "" || phone == "" {
		return nil, apperrors.Identity(customerserrors.ErrMissingFields.Error(), customerserrors.ErrMissingFields)
	}

	customer := &model.Customer{
		ID:               model.CustomerIDPrefix + uuid.NewString(),
		FullName:         fullName,
		Phone:            phone,
		Email:            normalizeOptional(candidate.Email),
		IDDocumentType:   normalizeOptional(candidate.IDDocumentType),
		IDDocumentNumber: normalizeOptional(candidate.IDDocumentNumber),
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, apperrors.Identity("failed to persist customer identity", err)
	}

	// A reservation must never reference an unowned identity; an invalid
	// ID after a successful insert means the store is corrupting writes.
	if !model.ValidCustomerID(customer.ID) {
		s.cfg.Log.Error("Persisted customer identity has an invalid ID",
			"customer_id", customer.ID)
		return nil, apperrors.Identity("persisted customer identity has an invalid ID", customerserrors.ErrInvalidID)
	}

	s.cache.Set(customer.ID, customer)
	s.cfg.Log.Info("Created customer identity", "customer_id", customer.ID)

	return customer, nil
}

func (s *identityResolver) RefreshContacts(ctx context.Context, id string, fullName, phone string, email *string) {
	if err := s.repo.UpdateContacts(ctx, id, fullName, phone, email); err != nil {
		s.cfg.Log.Warn("Failed to refresh customer contacts",
			"customer_id", id,
			"error", err)
		return
	}

	s.cache.Delete(id)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
