package services

import (
	"context"
	"fmt"
	"log/slog"

	"fleetplus/internal/amqp"
	"fleetplus/internal/core"
	"fleetplus/internal/log"
	"fleetplus/internal/storage"
)

// FleetService wraps repository writes with validation and, for every
// vehicle-affecting mutation, publishes an async export message. Create and
// update are always distinct operations; the caller decides which to invoke.
type FleetService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewFleetService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *FleetService {
	return &FleetService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// publishVehicleSync is fire-and-forget: the write already committed, so a
// publish failure is logged and absorbed. The worker's pending scan picks the
// vehicle up later.
func (s *FleetService) publishVehicleSync(ctx context.Context, plate string) {
	if s.amqpClient == nil || plate == "" {
		return
	}
	version, err := s.storage.VehicleVersion(ctx, plate)
	if err != nil {
		slog.WarnContext(ctx, "Could not read vehicle version for sync message",
			log.FieldPlate, plate, log.FieldError, err)
		return
	}
	if err := s.amqpClient.PublishVehicleSync(ctx, core.NormalizePlate(plate), version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish vehicle sync message",
			log.FieldPlate, plate, log.FieldError, err)
	}
}

func (s *FleetService) CreateVehicle(ctx context.Context, v core.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if err := s.storage.CreateVehicle(ctx, v); err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	s.publishVehicleSync(ctx, v.Plate)
	return nil
}

func (s *FleetService) UpdateVehicle(ctx context.Context, v core.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateVehicle(ctx, v); err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	s.publishVehicleSync(ctx, v.Plate)
	return nil
}

func (s *FleetService) UpdateOdometer(ctx context.Context, plate string, km int64) error {
	if km < 0 {
		return core.ErrInvalidOdometer
	}
	if err := s.storage.UpdateOdometer(ctx, plate, km); err != nil {
		return fmt.Errorf("update odometer: %w", err)
	}
	s.publishVehicleSync(ctx, plate)
	return nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, plate string) error {
	return s.storage.DeleteVehicle(ctx, plate)
}

func (s *FleetService) CreateComponentType(ctx context.Context, ct core.ComponentType) (int64, error) {
	if err := ct.Validate(); err != nil {
		return 0, err
	}
	return s.storage.CreateComponentType(ctx, ct)
}

func (s *FleetService) UpdateComponentType(ctx context.Context, ct core.ComponentType) error {
	if err := ct.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateComponentType(ctx, ct)
}

func (s *FleetService) DeleteComponentType(ctx context.Context, id int64) error {
	return s.storage.DeleteComponentType(ctx, id)
}

func (s *FleetService) CreateProduct(ctx context.Context, p core.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.storage.GetComponentType(ctx, p.ComponentTypeID); err != nil {
		return 0, fmt.Errorf("component type %d: %w", p.ComponentTypeID, err)
	}
	return s.storage.CreateProduct(ctx, p)
}

func (s *FleetService) UpdateProduct(ctx context.Context, p core.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := s.storage.GetComponentType(ctx, p.ComponentTypeID); err != nil {
		return fmt.Errorf("component type %d: %w", p.ComponentTypeID, err)
	}
	return s.storage.UpdateProduct(ctx, p)
}

func (s *FleetService) DeleteProduct(ctx context.Context, id int64) error {
	return s.storage.DeleteProduct(ctx, id)
}

// CreateServiceEvent validates and records a maintenance event; the storage
// layer rolls the vehicle odometer forward in the same transaction.
func (s *FleetService) CreateServiceEvent(ctx context.Context, e core.ServiceEvent) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateServiceEvent(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("create service event: %w", err)
	}
	s.publishVehicleSync(ctx, e.Plate)
	return id, nil
}

func (s *FleetService) UpdateServiceEvent(ctx context.Context, e core.ServiceEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateServiceEvent(ctx, e); err != nil {
		return fmt.Errorf("update service event: %w", err)
	}
	s.publishVehicleSync(ctx, e.Plate)
	return nil
}

func (s *FleetService) DeleteServiceEvent(ctx context.Context, id int64) error {
	return s.storage.DeleteServiceEvent(ctx, id)
}

func (s *FleetService) CreateObligation(ctx context.Context, o core.Obligation) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateObligation(ctx, o)
	if err != nil {
		return 0, fmt.Errorf("create obligation: %w", err)
	}
	s.publishVehicleSync(ctx, o.Plate)
	return id, nil
}

func (s *FleetService) UpdateObligation(ctx context.Context, o core.Obligation) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateObligation(ctx, o); err != nil {
		return fmt.Errorf("update obligation: %w", err)
	}
	s.publishVehicleSync(ctx, o.Plate)
	return nil
}

func (s *FleetService) DeleteObligation(ctx context.Context, id int64) error {
	return s.storage.DeleteObligation(ctx, id)
}

func (s *FleetService) CreateSupplier(ctx context.Context, sup core.Supplier) (int64, error) {
	if err := sup.Validate(); err != nil {
		return 0, err
	}
	return s.storage.CreateSupplier(ctx, sup)
}

func (s *FleetService) UpdateSupplier(ctx context.Context, sup core.Supplier) error {
	if err := sup.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateSupplier(ctx, sup)
}

func (s *FleetService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.storage.DeleteSupplier(ctx, id)
}

func (s *FleetService) CreateInvoice(ctx context.Context, inv core.Invoice) (int64, error) {
	if err := inv.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateInvoice(ctx, inv)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	s.publishVehicleSync(ctx, inv.Plate)
	return id, nil
}

func (s *FleetService) UpdateInvoice(ctx context.Context, inv core.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	s.publishVehicleSync(ctx, inv.Plate)
	return nil
}

func (s *FleetService) DeleteInvoice(ctx context.Context, id int64) error {
	return s.storage.DeleteInvoice(ctx, id)
}

func (s *FleetService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	s.publishVehicleSync(ctx, e.Plate)
	return id, nil
}

func (s *FleetService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	s.publishVehicleSync(ctx, e.Plate)
	return nil
}

func (s *FleetService) DeleteExpense(ctx context.Context, id int64) error {
	return s.storage.DeleteExpense(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *FleetService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close fleet service: %v", errs)
	}

	return nil
}
