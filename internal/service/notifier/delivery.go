package notifier

import (
	"context"
	"sync"

	"github.com/learning-layers/ldocs-updatetime/internal/domain/notification"
)

// Delivery is the handle of one dispatched notification.
// It settles exactly once, when the response is logged or the request fails.
type Delivery struct {
	id       string
	sent     chan struct{}
	sentOnce sync.Once
	done     chan struct{}
	once     sync.Once
	result   notification.Result
}

func newDelivery(id string) *Delivery {
	return &Delivery{
		id:   id,
		sent: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// ID returns the request id used in the delivery's log lines.
func (d *Delivery) ID() string {
	return d.id
}

// Sent is closed once the request has been written to the connection,
// or once the delivery settles without getting that far.
func (d *Delivery) Sent() <-chan struct{} {
	return d.sent
}

// Done is closed once the delivery has settled.
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Result returns the outcome, or a pending result while the request is in flight.
func (d *Delivery) Result() notification.Result {
	select {
	case <-d.done:
		return d.result
	default:
		return notification.Result{
			RequestID: d.id,
			Status:    notification.StatusPending,
		}
	}
}

// Wait blocks until the delivery settles or ctx is done.
func (d *Delivery) Wait(ctx context.Context) (notification.Result, error) {
	select {
	case <-d.done:
		return d.result, nil
	case <-ctx.Done():
		return d.Result(), ctx.Err()
	}
}

// markSent closes Sent; later calls are ignored.
func (d *Delivery) markSent() {
	d.sentOnce.Do(func() {
		close(d.sent)
	})
}

// settle records the outcome; later calls are ignored.
func (d *Delivery) settle(result notification.Result) {
	d.once.Do(func() {
		result.RequestID = d.id
		d.result = result
		d.markSent()
		close(d.done)
	})
}
