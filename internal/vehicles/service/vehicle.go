package service

import (
	"context"
	"errors"
	"sync"

	vehicleserrors "fleetbook/internal/vehicles/errors"
	"fleetbook/internal/vehicles/repository"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

type VehicleService interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, int64, error)
}

type vehicleService struct {
	repo repository.VehicleRepository
	cfg  *config.Config
}

func NewVehicleService(repo repository.VehicleRepository, cfg *config.Config) VehicleService {
	return &vehicleService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle) error {
	if vehicle.Make == "" || vehicle.Model == "" || vehicle.LicensePlate == "" {
		return apperrors.InvalidInput("make, model and license_plate are required")
	}
	// New vehicles always enter the fleet free; the synchronizer owns
	// status from here on.
	vehicle.Status = model.VehicleAvailable

	if err := s.repo.Create(ctx, vehicle); err != nil {
		return apperrors.Internal("Failed to create vehicle", err)
	}

	s.cfg.Log.Info("Vehicle created",
		"id", vehicle.ID,
		"license_plate", vehicle.LicensePlate,
	)
	return nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", id)
		}
		if errors.Is(err, vehicleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid vehicle ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve vehicle", err)
	}

	return vehicle, nil
}

func (s *vehicleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, int64, error) {
	var count int64
	var vehicles []*model.Vehicle
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count vehicles", "error", errCount)
			errCount = apperrors.Internal("Failed to count vehicles", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		vehicles, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list vehicles", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve vehicles", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return vehicles, count, nil
}
