// Package draft implements the staff-side order wizard: a four-step flow
// accumulating customer info, table selection and line items before a single
// create-order call.
package draft

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Step identifies a wizard step.
type Step int

const (
	StepCustomerInfo Step = 1
	StepTableSelect  Step = 2
	StepMenuSelect   Step = 3
	StepSummary      Step = 4
)

// Line is one accumulated draft line, keyed by menu item id. Unlike the
// guest cart, adding the same menu item again merges into the existing line.
type Line struct {
	MenuItemID int
	Name       string
	Price      decimal.Decimal
	Quantity   int
	Note       string
}

// OrderPlacer submits the assembled create-order request.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
}

// Notifier receives the outcome of a submission for display.
type Notifier interface {
	OrderPlaced(order *models.Order)
	Error(message string)
}

// Builder accumulates an order draft across the wizard steps. It is an
// explicit state container: construct one per open wizard, close it to
// discard the draft.
type Builder struct {
	mu sync.Mutex

	step           Step
	orderType      models.OrderType
	numberOfPeople int
	buyerName      string
	buyerEmail     string
	buyerNote      string
	tableCode      string
	lines          []Line
	discount       *decimal.Decimal
	submitting     bool

	placer   OrderPlacer
	notifier Notifier
	logger   *logger.Logger
}

// NewBuilder creates a draft builder at step 1 with a Dine In default.
func NewBuilder(placer OrderPlacer, notifier Notifier, log *logger.Logger) *Builder {
	return &Builder{
		step:      StepCustomerInfo,
		orderType: models.DineIn,
		placer:    placer,
		notifier:  notifier,
		logger:    log,
	}
}

// Step returns the current wizard step.
func (b *Builder) Step() Step {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.step
}

// SetCustomerInfo records the step-1 fields. Switching to Take Away drops
// any previously selected table.
func (b *Builder) SetCustomerInfo(orderType models.OrderType, numberOfPeople int, buyerName, buyerEmail, buyerNote string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.orderType = orderType
	b.numberOfPeople = numberOfPeople
	b.buyerName = buyerName
	b.buyerEmail = buyerEmail
	b.buyerNote = buyerNote
	if orderType == models.TakeAway {
		b.tableCode = ""
	}
}

// SelectTable records the step-2 table choice.
func (b *Builder) SelectTable(tableCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tableCode = tableCode
}

// SetDiscount records an explicit discount for the order.
func (b *Builder) SetDiscount(discount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.discount = &discount
}

// AddItem accumulates a menu item at step 3. An existing line for the same
// menu item has its quantity incremented and its note replaced; otherwise a
// new line is appended.
func (b *Builder) AddItem(item models.MenuItem, quantity int, note string) {
	if quantity < 1 {
		quantity = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.lines {
		if b.lines[i].MenuItemID == item.ID {
			b.lines[i].Quantity += quantity
			b.lines[i].Note = note
			return
		}
	}

	b.lines = append(b.lines, Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   quantity,
		Note:       note,
	})
}

// RemoveItem drops the line for a menu item. Unknown ids are a no-op.
func (b *Builder) RemoveItem(menuItemID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.lines {
		if b.lines[i].MenuItemID == menuItemID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the accumulated draft lines.
func (b *Builder) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := make([]Line, len(b.lines))
	copy(lines, b.lines)
	return lines
}

// Subtotal sums price times quantity over the draft lines.
func (b *Builder) Subtotal() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := decimal.Zero
	for _, line := range b.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Next advances the wizard. Take Away skips the table step: from step 1 it
// jumps straight to menu selection. This is a conditional transition, not
// step+1.
func (b *Builder) Next() Step {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.step {
	case StepCustomerInfo:
		if b.orderType == models.TakeAway {
			b.step = StepMenuSelect
		} else {
			b.step = StepTableSelect
		}
	case StepTableSelect:
		b.step = StepMenuSelect
	case StepMenuSelect:
		b.step = StepSummary
	}
	return b.step
}

// Back retreats the wizard. Under Take Away, going back from menu selection
// returns to customer info, never to the table step.
func (b *Builder) Back() Step {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.step {
	case StepSummary:
		b.step = StepMenuSelect
	case StepMenuSelect:
		if b.orderType == models.TakeAway {
			b.step = StepCustomerInfo
		} else {
			b.step = StepTableSelect
		}
	case StepTableSelect:
		b.step = StepCustomerInfo
	}
	return b.step
}

// Submit validates the draft, assembles the create-order request and places
// it. Validation failures and rejected submissions are reported through the
// notifier and returned; the draft is preserved so the user can retry. On
// success the notifier receives the created order and the draft resets.
func (b *Builder) Submit(ctx context.Context) error {
	b.mu.Lock()
	if b.submitting {
		b.mu.Unlock()
		return models.ValidationError{Field: "draft", Message: "submission already in progress"}
	}
	b.submitting = true
	req, err := b.assembleLocked()
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.submitting = false
		b.mu.Unlock()
	}()

	if err != nil {
		b.notifier.Error(err.Error())
		return err
	}

	order, err := b.placer.CreateOrder(ctx, req)
	if err != nil {
		b.notifier.Error(err.Error())
		return err
	}

	b.notifier.OrderPlaced(order)
	b.logger.Info("draft_submitted", fmt.Sprintf("Order #%d placed from draft", order.ID), "", map[string]any{
		"order_type": string(order.OrderType),
		"items":      len(order.Items),
	})

	b.reset()
	return nil
}

// Close discards the entire draft, whatever the step. No partial save.
func (b *Builder) Close() {
	b.reset()
}

// assembleLocked validates client-side before any network call.
func (b *Builder) assembleLocked() (*models.CreateOrderRequest, error) {
	if len(b.lines) == 0 {
		return nil, models.ValidationError{Field: "items", Message: "add at least one item to the order"}
	}
	if b.orderType != models.TakeAway && b.tableCode == "" {
		return nil, models.ValidationError{Field: "tableCode", Message: "select a valid table"}
	}

	items := make([]models.CreateOrderItem, 0, len(b.lines))
	for _, line := range b.lines {
		items = append(items, models.CreateOrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Note:       line.Note,
		})
	}

	req := &models.CreateOrderRequest{
		OrderType:      b.orderType,
		NumberOfPeople: b.numberOfPeople,
		BuyerName:      b.buyerName,
		BuyerEmail:     b.buyerEmail,
		BuyerNote:      b.buyerNote,
		Discount:       b.discount,
		Items:          items,
	}
	if b.orderType != models.TakeAway {
		req.TableCode = b.tableCode
	}

	return req, nil
}

func (b *Builder) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.step = StepCustomerInfo
	b.orderType = models.DineIn
	b.numberOfPeople = 0
	b.buyerName = ""
	b.buyerEmail = ""
	b.buyerNote = ""
	b.tableCode = ""
	b.lines = nil
	b.discount = nil
}
