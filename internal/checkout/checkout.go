// Package checkout drives an unfinished sale through finalization: a payment
// method is chosen, a receipt preview is confirmed, and the backend closes the
// sale. Finalization is the only irreversible transition the counter offers.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	"github.com/jcmexdev/pos-counter/internal/domain"
)

// State is the lifecycle position of a checkout session.
type State string

const (
	// StateOpen: unfinished sale, no payment method chosen yet.
	StateOpen State = "OPEN"
	// StateAwaitingConfirmation: method chosen, receipt preview shown,
	// nothing persisted yet. Can still go back to OPEN.
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	// StateFinalized: persisted with finished=true. Terminal.
	StateFinalized State = "FINALIZED"
)

// Finalizer is the slice of the backend that closes a sale.
type Finalizer interface {
	FinalizeSale(ctx context.Context, id string, method domain.PaymentMethod) (domain.Sale, error)
}

// Printer receives the receipt once the sale is finalized.
type Printer interface {
	Print(r Receipt) error
}

// Checkout is the state machine for one sale. Not safe for concurrent use;
// the Store serializes access per sale.
type Checkout struct {
	sale    domain.Sale
	state   State
	method  domain.PaymentMethod
	svc     Finalizer
	printer Printer
	log     receiptlog.Repository // nil-safe: auditing skipped if nil
}

// Begin opens a checkout session for an unfinished sale.
func Begin(sale domain.Sale, svc Finalizer, printer Printer, log receiptlog.Repository) (*Checkout, error) {
	if sale.Finished {
		return nil, domain.ErrAlreadyFinalized
	}
	return &Checkout{
		sale:    sale,
		state:   StateOpen,
		svc:     svc,
		printer: printer,
		log:     log,
	}, nil
}

func (c *Checkout) State() State                 { return c.state }
func (c *Checkout) Sale() domain.Sale            { return c.sale }
func (c *Checkout) Method() domain.PaymentMethod { return c.method }

// SelectPaymentMethod moves OPEN → AWAITING_CONFIRMATION. Only the enumerated
// methods are accepted; anything else is rejected with the state unchanged.
func (c *Checkout) SelectPaymentMethod(m domain.PaymentMethod) error {
	if c.state != StateOpen {
		return fmt.Errorf("select payment method in state %s: %w", c.state, domain.ErrInvalidTransition)
	}
	if !m.Valid() {
		return fmt.Errorf("%q: %w", m, domain.ErrUnknownPaymentMethod)
	}
	c.method = m
	c.state = StateAwaitingConfirmation
	return nil
}

// Preview returns the receipt as it will be printed, without persisting
// anything. Only meaningful once a payment method has been chosen.
func (c *Checkout) Preview() (Receipt, error) {
	if c.state != StateAwaitingConfirmation {
		return Receipt{}, fmt.Errorf("preview in state %s: %w", c.state, domain.ErrInvalidTransition)
	}
	return buildReceipt(c.sale, c.method), nil
}

// Confirm issues the finalize request. On success the session becomes
// FINALIZED and the receipt is logged and printed. On failure the session
// stays in AWAITING_CONFIRMATION: the preview must not close and the sale
// must not be assumed finalized.
func (c *Checkout) Confirm(ctx context.Context) (Receipt, error) {
	if c.state == StateOpen {
		// No method chosen: reject before any network call.
		return Receipt{}, domain.ErrNoPaymentMethod
	}
	if c.state != StateAwaitingConfirmation {
		return Receipt{}, fmt.Errorf("confirm in state %s: %w", c.state, domain.ErrInvalidTransition)
	}

	finalized, err := c.svc.FinalizeSale(ctx, c.sale.ID, c.method)
	if err != nil {
		return Receipt{}, fmt.Errorf("finalize sale %s: %w", c.sale.ID, err)
	}

	// The service's finalize answer may be a partial document; the local
	// sale remains authoritative for anything it omits.
	if len(finalized.Items) > 0 {
		c.sale.Items = finalized.Items
	}
	if finalized.Total > 0 {
		c.sale.Total = finalized.Total
	}
	c.sale.Finished = true
	c.sale.PaymentMethod = c.method
	c.state = StateFinalized

	receipt := buildReceipt(c.sale, c.method)
	c.audit(ctx, receipt)

	if c.printer != nil {
		if err := c.printer.Print(receipt); err != nil {
			// The sale is closed either way; a jammed printer is reported,
			// not rolled back.
			slog.ErrorContext(ctx, "receipt print failed", "sale_id", c.sale.ID, "error", err)
		}
	}

	return receipt, nil
}

// Cancel backs out of the preview, discarding the chosen method.
func (c *Checkout) Cancel() error {
	if c.state != StateAwaitingConfirmation {
		return fmt.Errorf("cancel in state %s: %w", c.state, domain.ErrInvalidTransition)
	}
	c.method = ""
	c.state = StateOpen
	return nil
}

// EditInstead exits the finalize flow, handing the full sale payload to the
// edit entry point so nothing has to be re-fetched.
func (c *Checkout) EditInstead() (domain.Sale, error) {
	if c.state != StateOpen {
		return domain.Sale{}, fmt.Errorf("edit in state %s: %w", c.state, domain.ErrInvalidTransition)
	}
	return c.sale, nil
}

func (c *Checkout) audit(ctx context.Context, r Receipt) {
	if c.log == nil {
		return
	}
	items, err := json.Marshal(r.Lines)
	if err != nil {
		items = []byte("[]")
	}
	entry := receiptlog.NewEntry(ctx, receiptlog.Receipt{
		SaleID:        r.SaleID,
		TableNumber:   r.TableNumber,
		PaymentMethod: string(r.Method),
		Total:         r.Total,
		Items:         string(items),
		IssuedAt:      r.IssuedAt,
	})
	if err := c.log.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to append receipt log", "sale_id", r.SaleID, "error", err)
	}
}
