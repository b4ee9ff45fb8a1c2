package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterPartnerCommandIsNotConstructed = errors.New(
	"RegisterPartnerCommand must be created via NewRegisterPartnerCommand constructor",
)

// RegisterPartnerCommand represents a request to register a new delivery
// partner. The partner starts approved and offline; it becomes dispatchable
// with its first heartbeat.
//
// Example:
//
//	cmd, err := NewRegisterPartnerCommand("Ravi Kumar", &zoneID)
//	if err != nil {
//	    return fmt.Errorf("invalid partner data: %w", err)
//	}
//
//	handler := NewRegisterPartnerCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register partner: %w", err)
//	}
//	fmt.Printf("Registered partner with ID: %s", cmd.PartnerID())
type RegisterPartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	name      string
	zoneID    *kernel.UUID

	guard guard.ConstructorGuard
}

// NewRegisterPartnerCommand generates the partner id and validates the name
// and the optional zone id.
func NewRegisterPartnerCommand(name string, zoneID *kernel.UUID) (RegisterPartnerCommand, error) {
	command := RegisterPartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setPartnerID(kernel.NewUUID()),
		command.setName(name),
		command.setZoneID(zoneID),
	); err != nil {
		return RegisterPartnerCommand{}, err
	}

	return command, nil
}

func (c RegisterPartnerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPartnerCommandIsNotConstructed)
}

func (c RegisterPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c RegisterPartnerCommand) Name() string {
	return c.name
}

// ZoneID returns the zone the partner is tagged with, or nil.
func (c RegisterPartnerCommand) ZoneID() *kernel.UUID {
	return c.zoneID
}

func (c *RegisterPartnerCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.partnerID = id
	return nil
}

func (c *RegisterPartnerCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("partner name")
	}

	c.name = name
	return nil
}

func (c *RegisterPartnerCommand) setZoneID(zoneID *kernel.UUID) error {
	if zoneID == nil {
		return nil
	}
	if err := zoneID.Validate(); err != nil {
		return err
	}

	id := *zoneID
	c.zoneID = &id
	return nil
}
