package order

import "time"

// Checkpoint records that the order reached a lifecycle state and when.
// Once reached, a checkpoint never changes.
type Checkpoint struct {
	reached bool
	at      time.Time
}

func (c Checkpoint) Reached() bool { return c.reached }

// At returns the time the checkpoint was first reached, or the zero time.
func (c Checkpoint) At() time.Time { return c.at }

// Time returns nil for an unreached checkpoint, for persistence.
func (c Checkpoint) Time() *time.Time {
	if !c.reached {
		return nil
	}
	t := c.at
	return &t
}

// Tracking is the append-only timeline of an order.
type Tracking struct {
	confirmed      Checkpoint
	preparing      Checkpoint
	ready          Checkpoint
	outForDelivery Checkpoint
	delivered      Checkpoint
}

// RestoreTracking rebuilds a timeline from persisted timestamps; nil means
// the checkpoint was never reached.
func RestoreTracking(confirmed, preparing, ready, outForDelivery, delivered *time.Time) Tracking {
	return Tracking{
		confirmed:      checkpointFrom(confirmed),
		preparing:      checkpointFrom(preparing),
		ready:          checkpointFrom(ready),
		outForDelivery: checkpointFrom(outForDelivery),
		delivered:      checkpointFrom(delivered),
	}
}

func (t Tracking) Confirmed() Checkpoint      { return t.confirmed }
func (t Tracking) Preparing() Checkpoint      { return t.preparing }
func (t Tracking) Ready() Checkpoint          { return t.ready }
func (t Tracking) OutForDelivery() Checkpoint { return t.outForDelivery }
func (t Tracking) Delivered() Checkpoint      { return t.delivered }

// Checkpoint returns the checkpoint for s. Pending and cancelled have none.
func (t Tracking) Checkpoint(s Status) (Checkpoint, bool) {
	if p := t.slot(s); p != nil {
		return *p, true
	}
	return Checkpoint{}, false
}

// mark stamps the checkpoint for s unless it is already set.
func (t *Tracking) mark(s Status, at time.Time) {
	p := t.slot(s)
	if p == nil || p.reached {
		return
	}
	*p = Checkpoint{reached: true, at: at}
}

func (t *Tracking) slot(s Status) *Checkpoint {
	//nolint:exhaustive // pending and cancelled carry no checkpoint
	switch s {
	case Confirmed:
		return &t.confirmed
	case Preparing:
		return &t.preparing
	case Ready:
		return &t.ready
	case OutForDelivery:
		return &t.outForDelivery
	case Delivered:
		return &t.delivered
	default:
		return nil
	}
}

func checkpointFrom(at *time.Time) Checkpoint {
	if at == nil {
		return Checkpoint{}
	}
	return Checkpoint{reached: true, at: *at}
}
