package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created via
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrPartnerAlreadyAssigned is returned by AssignPartner when the order
	// already has a delivery partner.
	ErrPartnerAlreadyAssigned = errs.NewValueIsInvalidError("delivery partner is already assigned")

	// ErrNoPartnerAssigned is returned when an operation needs an assigned
	// delivery partner and there is none.
	ErrNoPartnerAssigned = errs.NewValueIsRequiredError("delivery partner")

	// ErrNotAssignedPartner is returned when a partner acts on an order that
	// was assigned to someone else.
	ErrNotAssignedPartner = errs.NewValueIsInvalidError("delivery partner is not assigned to this order")

	// ErrPickupNotDispatched is returned when dispatch is attempted for a
	// pickup order.
	ErrPickupNotDispatched = errs.NewValueIsInvalidError("pickup orders are not dispatched")
)

// NewOrderNumber returns a human-facing order code such as "ORD-8F3A2C1B".
func NewOrderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderNumberPrefix + strings.ToUpper(raw[:8])
}

// Draft carries everything a customer checkout produces.
type Draft struct {
	ID         kernel.UUID
	Number     string
	UserID     kernel.UUID
	Restaurant RestaurantSnapshot
	Items      []Item
	Address    Address
	Pricing    Pricing
	Mode       DeliveryMode
	Method     PaymentMethod
	CreatedAt  time.Time
}

// Order is the aggregate root of the fulfillment core and the unit of
// optimistic concurrency. It owns the lifecycle status, the tracking
// timeline and the delivery partner assignment.
//
// Invariants:
//   - status only moves forward, or to cancelled from a non-terminal status
//   - each tracking checkpoint is stamped at most once
//   - deliveredAt is set iff status is delivered
//   - cancelledAt is set iff status is cancelled
//   - deliveryPartnerID is set at most once, cleared only by ReleasePartner
//   - a failed guard returns an error and leaves the order untouched
//
// Every mutation records a domain event; the unit of work collects them
// after commit.
type Order struct {
	id         kernel.UUID
	number     string
	userID     kernel.UUID
	restaurant RestaurantSnapshot
	items      []Item
	address    Address
	pricing    Pricing
	mode       DeliveryMode
	payment    Payment

	status   Status
	tracking Tracking

	deliveryPartnerID *kernel.UUID
	assignment        *AssignmentInfo
	eta               *ETA

	cancellationReason string
	cancelledBy        Actor
	cancelledAt        *time.Time
	deliveredAt        *time.Time
	createdAt          time.Time

	version int
	events  []event.DomainEvent

	isConstructed bool
}

// NewOrder validates a checkout draft and creates the order in pending with
// a pending payment.
func NewOrder(d Draft) (*Order, error) {
	o := &Order{
		number:        d.Number,
		status:        Pending,
		createdAt:     d.CreatedAt,
		payment:       Payment{method: d.Method, status: PaymentPending},
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(d.ID),
		o.setNumber(d.Number),
		o.setUserID(d.UserID),
		o.setRestaurant(d.Restaurant),
		o.setItems(d.Items),
		o.setAddress(d.Address),
		o.setPricing(d.Pricing),
		d.Mode.Validate(),
		d.Method.Validate(),
	); err != nil {
		return nil, err
	}
	o.mode = d.Mode

	o.raise(event.OrderPlaced{
		OrderMetadata: o.metadata(event.EventOrderPlaced, d.CreatedAt),
		Total:         o.pricing.Total,
		Method:        string(o.payment.method),
		Mode:          string(o.mode),
		ItemCount:     len(o.items),
	})

	return o, nil
}

// Snapshot is the full persisted state of an order, used by repositories.
type Snapshot struct {
	ID                 kernel.UUID
	Number             string
	UserID             kernel.UUID
	Restaurant         RestaurantSnapshot
	Items              []Item
	Address            Address
	Pricing            Pricing
	Mode               DeliveryMode
	Payment            Payment
	Status             Status
	Tracking           Tracking
	DeliveryPartnerID  *kernel.UUID
	Assignment         *AssignmentInfo
	ETA                *ETA
	CancellationReason string
	CancelledBy        Actor
	CancelledAt        *time.Time
	DeliveredAt        *time.Time
	CreatedAt          time.Time
	Version            int
}

// RestoreOrder rebuilds an order from storage and re-checks the invariants
// that span fields.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		number:             s.Number,
		mode:               s.Mode,
		payment:            s.Payment,
		status:             s.Status,
		tracking:           s.Tracking,
		deliveryPartnerID:  s.DeliveryPartnerID,
		assignment:         s.Assignment,
		eta:                s.ETA,
		cancellationReason: s.CancellationReason,
		cancelledBy:        s.CancelledBy,
		cancelledAt:        s.CancelledAt,
		deliveredAt:        s.DeliveredAt,
		createdAt:          s.CreatedAt,
		version:            s.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setUserID(s.UserID),
		o.setRestaurant(s.Restaurant),
		o.setItems(s.Items),
		o.setAddress(s.Address),
		o.setPricing(s.Pricing),
		s.Mode.Validate(),
		s.Payment.Validate(),
		s.Status.Validate(),
		validateTerminalStamps(s.Status, s.DeliveredAt, s.CancelledAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) Number() string                  { return o.number }
func (o *Order) UserID() kernel.UUID             { return o.userID }
func (o *Order) Restaurant() RestaurantSnapshot  { return o.restaurant }
func (o *Order) Address() Address                { return o.address }
func (o *Order) Pricing() Pricing                { return o.pricing }
func (o *Order) Mode() DeliveryMode              { return o.mode }
func (o *Order) Payment() Payment                { return o.payment }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) Tracking() Tracking              { return o.tracking }
func (o *Order) DeliveryPartnerID() *kernel.UUID { return o.deliveryPartnerID }
func (o *Order) CancellationReason() string      { return o.cancellationReason }
func (o *Order) CancelledBy() Actor              { return o.cancelledBy }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) Version() int                    { return o.version }
func (o *Order) HasPartner() bool                { return o.deliveryPartnerID != nil }
func (o *Order) IsTerminal() bool                { return o.status.IsTerminal() }
func (o *Order) DomainEvents() []event.DomainEvent {
	return append([]event.DomainEvent(nil), o.events...)
}
func (o *Order) ClearDomainEvents()          { o.events = nil }
func (o *Order) Assignment() *AssignmentInfo { return copyPtr(o.assignment) }
func (o *Order) ETA() *ETA                   { return copyPtr(o.eta) }
func (o *Order) CancelledAt() *time.Time     { return copyPtr(o.cancelledAt) }
func (o *Order) DeliveredAt() *time.Time     { return copyPtr(o.deliveredAt) }
func (o *Order) Items() []Item               { return append([]Item(nil), o.items...) }

// AdvanceVersion is called by the repository after a successful conditional
// write so the in-memory aggregate matches the stored version.
func (o *Order) AdvanceVersion() {
	o.version++
}

// TransitionTo performs a generic forward transition. Moving to cancelled is
// recorded as a system cancellation without a reason; use Cancel to record
// who cancelled and why.
func (o *Order) TransitionTo(next Status, at time.Time) error {
	if next == Cancelled {
		return o.Cancel("", ActorSystem, at)
	}

	target, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}
	if o.awaitsPayment() {
		return errs.NewInvalidTransitionError(o.status.String()+" (unpaid)", target.String())
	}
	if target == OutForDelivery && o.deliveryPartnerID == nil {
		return ErrNoPartnerAssigned
	}

	o.apply(target, at)
	return nil
}

// Accept is the restaurant accepting the order. It lands in preparing and
// backfills the confirmed checkpoint if the order skipped it. Online orders
// must be paid first.
func (o *Order) Accept(at time.Time) error {
	next, err := o.status.Accept()
	if err != nil {
		return err
	}
	if o.awaitsPayment() {
		return errs.NewInvalidActionError("accept", "unpaid "+o.status.String())
	}

	o.tracking.mark(Confirmed, at)
	o.apply(next, at)
	return nil
}

// MarkReady is the restaurant finishing the food.
func (o *Order) MarkReady(at time.Time) error {
	next, err := o.status.MarkReady()
	if err != nil {
		return err
	}

	o.apply(next, at)
	return nil
}

// PickUp is the assigned delivery partner collecting the order.
func (o *Order) PickUp(partnerID kernel.UUID, at time.Time) error {
	next, err := o.status.PickUp()
	if err != nil {
		return err
	}
	if err = o.checkAssignedPartner(partnerID); err != nil {
		return err
	}

	o.apply(next, at)
	return nil
}

// Deliver is the assigned delivery partner handing over the order.
func (o *Order) Deliver(partnerID kernel.UUID, at time.Time) error {
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}
	if err = o.checkAssignedPartner(partnerID); err != nil {
		return err
	}

	o.apply(next, at)
	return nil
}

// Cancel moves a non-terminal order to cancelled and records the reason and
// the actor. The assigned partner, if any, stays on the order so it can be
// notified.
func (o *Order) Cancel(reason string, by Actor, at time.Time) error {
	if err := by.Validate(); err != nil {
		return err
	}
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}

	prev := o.status
	o.cancellationReason = reason
	o.cancelledBy = by
	o.apply(next, at)

	o.raise(event.OrderCancelled{
		OrderMetadata:     o.metadata(event.EventOrderCancelled, at),
		PreviousStatus:    prev.String(),
		Reason:            reason,
		CancelledBy:       string(by),
		DeliveryPartnerID: copyPtr(o.deliveryPartnerID),
	})
	return nil
}

// AssignPartner attaches a delivery partner. It fails when the order is not in
// an assignable status, is a pickup order, or already has a partner.
func (o *Order) AssignPartner(partnerID kernel.UUID, distanceKm float64, assignedBy string, at time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if o.mode == ModePickup {
		return ErrPickupNotDispatched
	}
	if err := o.status.ValidateAssign(); err != nil {
		return err
	}
	if o.deliveryPartnerID != nil {
		return ErrPartnerAlreadyAssigned
	}

	id := partnerID
	o.deliveryPartnerID = &id
	o.assignment = &AssignmentInfo{DistanceKm: distanceKm, AssignedAt: at, AssignedBy: assignedBy}

	o.raise(event.OrderAssigned{
		OrderMetadata:     o.metadata(event.EventOrderAssigned, at),
		DeliveryPartnerID: id,
		DistanceKm:        distanceKm,
		AssignedBy:        assignedBy,
		RestaurantName:    o.restaurant.Name(),
	})
	return nil
}

// ReleasePartner clears a failed assignment so the order can be dispatched
// again. It is only allowed before the partner picks the order up.
func (o *Order) ReleasePartner() error {
	if o.deliveryPartnerID == nil {
		return ErrNoPartnerAssigned
	}
	if !o.status.IsAssignable() {
		return errs.NewInvalidActionError("release the partner of", o.status.String())
	}

	o.deliveryPartnerID = nil
	o.assignment = nil
	o.eta = nil
	return nil
}

// UpdateETA replaces the delivery estimate. Terminal orders keep their last
// estimate.
func (o *Order) UpdateETA(eta ETA) error {
	if err := eta.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidActionError("update the eta of", o.status.String())
	}

	o.eta = &eta
	return nil
}

// AttachCharge records the gateway charge created at checkout.
func (o *Order) AttachCharge(chargeID string) error {
	if strings.TrimSpace(chargeID) == "" {
		return errs.NewValueIsRequiredError("charge id")
	}
	o.payment.chargeID = chargeID
	return nil
}

// MarkPaymentPaid records a successful online payment verification. It
// returns false without changes when the payment is already paid.
func (o *Order) MarkPaymentPaid(paymentID string, at time.Time) (bool, error) {
	if o.payment.method != PaymentOnline {
		return false, errs.NewValueIsInvalidError("only online payments are verified through the gateway")
	}
	if o.payment.status == PaymentPaid {
		return false, nil
	}
	if o.status == Cancelled {
		return false, errs.NewInvalidActionError("verify the payment of", o.status.String())
	}
	if strings.TrimSpace(paymentID) == "" {
		return false, errs.NewValueIsRequiredError("payment id")
	}

	o.payment.status = PaymentPaid
	o.payment.paymentID = paymentID

	o.raise(o.paymentVerified(at))
	return true, nil
}

// PaymentVerifiedEvent rebuilds the verification event of a paid online
// order, for callers that lost the one raised by MarkPaymentPaid.
func (o *Order) PaymentVerifiedEvent(at time.Time) (event.PaymentVerified, error) {
	if o.awaitsPayment() || o.payment.method != PaymentOnline {
		return event.PaymentVerified{}, errs.NewValueIsInvalidError("only verified online payments have a verification event")
	}
	return o.paymentVerified(at), nil
}

func (o *Order) paymentVerified(at time.Time) event.PaymentVerified {
	return event.PaymentVerified{
		OrderMetadata: o.metadata(event.EventPaymentVerified, at),
		PaymentID:     o.payment.paymentID,
		Amount:        o.pricing.Total,
		Method:        string(o.payment.method),
	}
}

// MarkPaymentFailed records a failed verification. A paid order cannot fail.
func (o *Order) MarkPaymentFailed() error {
	if o.payment.status == PaymentPaid {
		return errs.NewValueIsInvalidError("payment is already paid")
	}
	o.payment.status = PaymentFailed
	return nil
}

func (o *Order) apply(next Status, at time.Time) {
	prev := o.status
	o.status = next
	o.tracking.mark(next, at)

	switch next { //nolint:exhaustive // only terminal states carry a stamp
	case Delivered:
		if o.deliveredAt == nil {
			stamp := at
			o.deliveredAt = &stamp
		}
		// cash is collected on handover, for delivery and pickup alike
		if o.payment.method == PaymentCOD {
			o.payment.status = PaymentPaid
		}
	case Cancelled:
		if o.cancelledAt == nil {
			stamp := at
			o.cancelledAt = &stamp
		}
	}

	o.raise(event.OrderStatusChanged{
		OrderMetadata:  o.metadata(event.EventOrderStatusChanged, at),
		PreviousStatus: prev.String(),
		NewStatus:      next.String(),
	})
}

// awaitsPayment reports an online order the gateway has not confirmed yet.
// Such an order stays away from the restaurant.
func (o *Order) awaitsPayment() bool {
	return o.payment.method == PaymentOnline && o.payment.status != PaymentPaid
}

func (o *Order) checkAssignedPartner(partnerID kernel.UUID) error {
	if o.deliveryPartnerID == nil {
		return ErrNoPartnerAssigned
	}
	if !o.deliveryPartnerID.IsEqual(partnerID) {
		return ErrNotAssignedPartner
	}
	return nil
}

func (o *Order) metadata(eventType string, at time.Time) event.OrderMetadata {
	return event.OrderMetadata{
		EventType:    eventType,
		OccurredAt:   at,
		OrderID:      o.id,
		OrderNumber:  o.number,
		RestaurantID: o.restaurant.ID(),
		UserID:       o.userID,
	}
}

func (o *Order) raise(e event.DomainEvent) {
	o.events = append(o.events, e)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if !strings.HasPrefix(number, orderNumberPrefix) || len(number) <= len(orderNumberPrefix) {
		return errs.NewValueIsInvalidErrorWithCause("order number",
			fmt.Errorf("%q does not start with %s", number, orderNumberPrefix))
	}
	o.number = number
	return nil
}

func (o *Order) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user id", err)
	}
	o.userID = id
	return nil
}

func (o *Order) setRestaurant(r RestaurantSnapshot) error {
	if err := r.Validate(); err != nil {
		return err
	}
	o.restaurant = r
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setAddress(a Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	o.address = a
	return nil
}

func (o *Order) setPricing(p Pricing) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.pricing = p
	return nil
}

func validateTerminalStamps(status Status, deliveredAt, cancelledAt *time.Time) error {
	var errList []error
	if (status == Delivered) != (deliveredAt != nil) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"delivered at", fmt.Errorf("must be set iff status is delivered, status is %s", status)))
	}
	if (status == Cancelled) != (cancelledAt != nil) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"cancelled at", fmt.Errorf("must be set iff status is cancelled, status is %s", status)))
	}
	return errors.Join(errList...)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
