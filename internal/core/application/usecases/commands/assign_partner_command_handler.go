package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// AssignmentOutcome is the result of one dispatch attempt. None of the
// outcomes is an error.
type AssignmentOutcome string

const (
	AssignmentAssigned        AssignmentOutcome = "assigned"
	AssignmentNoMatch         AssignmentOutcome = "no_match"
	AssignmentAlreadyAssigned AssignmentOutcome = "already_assigned"
	AssignmentNotAssignable   AssignmentOutcome = "not_assignable"
)

type AssignmentResult struct {
	Outcome    AssignmentOutcome
	PartnerID  *kernel.UUID
	DistanceKm float64
}

// partnerAssigner is the dispatch entry point used by other handlers.
type partnerAssigner interface {
	Handle(ctx context.Context, command AssignPartnerCommand) (AssignmentResult, error)
}

// AssignPartnerCommandHandler runs one dispatch attempt.
//
// The order is re-read inside the transaction and the assignment is written
// with ports.OrderRepository.ClaimForPartner, a single conditional update on
// "no partner yet". Of two concurrent attempts exactly one claims the order;
// the other reports AssignmentAlreadyAssigned.
//
// A missing or unreadable zone falls back to distance-only matching.
type AssignPartnerCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewAssignPartnerCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OrderDispatcher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignPartnerCommandHandler {
	return AssignPartnerCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger.With("component", "assign_partner"),
	}
}

func (h AssignPartnerCommandHandler) Handle(ctx context.Context, command AssignPartnerCommand) (AssignmentResult, error) {
	if err := command.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return AssignmentResult{}, err
	}

	if o.HasPartner() {
		return AssignmentResult{Outcome: AssignmentAlreadyAssigned, PartnerID: o.DeliveryPartnerID()}, nil
	}
	if o.Mode() == order.ModePickup || !o.Status().IsAssignable() {
		return AssignmentResult{Outcome: AssignmentNotAssignable}, nil
	}

	z := h.restaurantZone(ctx, uow.ZoneRepository(), o)

	partners, err := uow.PartnerRepository().GetAllOnline(ctx)
	if err != nil {
		return AssignmentResult{}, err
	}

	match, found, err := h.dispatcher.Dispatch(o, z, partners, time.Now().UTC())
	if err != nil {
		return AssignmentResult{}, err
	}
	if !found {
		h.logger.InfoContext(ctx, "no eligible partner", "order_number", o.Number(), "candidates", len(partners))
		return AssignmentResult{Outcome: AssignmentNoMatch}, nil
	}

	claimed, err := orderRepo.ClaimForPartner(ctx, o)
	if err != nil {
		return AssignmentResult{}, err
	}
	if !claimed {
		return AssignmentResult{Outcome: AssignmentAlreadyAssigned}, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}
	publishCommitted(ctx, h.publisher, uow)

	partnerID := match.Partner.ID()
	return AssignmentResult{
		Outcome:    AssignmentAssigned,
		PartnerID:  &partnerID,
		DistanceKm: match.DistanceKm,
	}, nil
}

func (h AssignPartnerCommandHandler) restaurantZone(ctx context.Context, repo ports.ZoneRepository, o *order.Order) *zone.Zone {
	z, err := repo.GetByRestaurant(ctx, o.Restaurant().ID())
	if err == nil {
		return z
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "zone lookup failed, matching by distance only",
			"order_number", o.Number(), "error", err)
	}
	return nil
}
