package models

import (
	"slices"

	"aggregate-persistence/core/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	StatusCreated   Status = 1
	StatusPaid      Status = 2
	StatusShipped   Status = 3
	StatusCancelled Status = 4
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusCreated && s <= StatusCancelled
}

// Consignee is who receives the order.
type Consignee struct {
	Name            string `json:"name"`
	Mobile          string `json:"mobile"`
	ShippingAddress string `json:"shipping_address"`
}

// OrderItem is one order line. It is owned by its order.
type OrderItem struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	GoodsID   int64  `json:"goods_id"`
	GoodsName string `json:"goods_name"`
	Amount    int    `json:"amount"`
	Price     int64  `json:"price"`
}

func (i *OrderItem) GetID() int64   { return i.ID }
func (i *OrderItem) SetID(id int64) { i.ID = id }

// Subtotal is Amount times Price.
func (i *OrderItem) Subtotal() int64 {
	return int64(i.Amount) * i.Price
}

// Order is the aggregate root. Money is in the smallest currency unit.
type Order struct {
	ID              int64        `json:"id"`
	Status          Status       `json:"status"`
	Consignee       Consignee    `json:"consignee"`
	Items           []*OrderItem `json:"items"`
	TotalMoney      int64        `json:"total_money"`
	ActualPayMoney  int64        `json:"actual_pay_money"`
	Version         int64        `json:"version"`
	CouponID        *int64       `json:"coupon_id,omitempty"`
	DeductionPoints int64        `json:"deduction_points"`
	SubmitUserID    int64        `json:"submit_user_id"`
	Deleted         bool         `json:"deleted"`
	SellerID        int64        `json:"seller_id"`
}

func (o *Order) GetID() int64       { return o.ID }
func (o *Order) SetID(id int64)     { o.ID = id }
func (o *Order) GetVersion() int64  { return o.Version }
func (o *Order) SetVersion(v int64) { o.Version = v }

// Item returns the line with id.
func (o *Order) Item(id int64) (*OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// AddItem appends a new line and recalculates the totals.
func (o *Order) AddItem(goodsID int64, goodsName string, amount int, price int64) (*OrderItem, error) {
	it := &OrderItem{OrderID: o.ID, GoodsID: goodsID, GoodsName: goodsName, Amount: amount, Price: price}
	if err := it.validate("order.AddItem"); err != nil {
		return nil, err
	}
	o.Items = append(o.Items, it)
	o.Recalculate()
	return it, nil
}

// RemoveItem drops the line with id. It reports whether a line was removed.
func (o *Order) RemoveItem(id int64) bool {
	n := len(o.Items)
	o.Items = slices.DeleteFunc(o.Items, func(it *OrderItem) bool { return it.ID == id })
	if len(o.Items) == n {
		return false
	}
	o.Recalculate()
	return true
}

// ChangeItemAmount sets the quantity of an existing line.
func (o *Order) ChangeItemAmount(id int64, amount int) error {
	it, ok := o.Item(id)
	if !ok {
		return errs.Newf(errs.CodeNotFound, "order.ChangeItemAmount", "order %d has no item %d", o.ID, id)
	}
	if amount <= 0 {
		return errs.New(errs.CodeInvalidArgument, "order.ChangeItemAmount", "amount must be positive")
	}
	it.Amount = amount
	o.Recalculate()
	return nil
}

// ChangeStatus moves the order to s. Cancelled and shipped orders are final.
func (o *Order) ChangeStatus(s Status) error {
	const op = "order.ChangeStatus"
	if !s.Valid() {
		return errs.Newf(errs.CodeInvalidArgument, op, "unknown status %d", s)
	}
	if s == o.Status {
		return nil
	}
	if o.Status == StatusCancelled || o.Status == StatusShipped {
		return errs.Newf(errs.CodeInvalidState, op, "order %d is final", o.ID)
	}
	if s < o.Status && s != StatusCancelled {
		return errs.Newf(errs.CodeInvalidState, op, "order %d cannot go back to status %d", o.ID, s)
	}
	o.Status = s
	return nil
}

// Recalculate derives the totals from the lines and deduction points.
func (o *Order) Recalculate() {
	var total int64
	for _, it := range o.Items {
		total += it.Subtotal()
	}
	o.TotalMoney = total
	o.ActualPayMoney = max(total-o.DeductionPoints, 0)
}

// Validate checks the invariants a stored order must hold.
func (o *Order) Validate() error {
	const op = "order.Validate"
	if o.Consignee.Name == "" {
		return errs.New(errs.CodeInvalidArgument, op, "consignee name is required")
	}
	if !o.Status.Valid() {
		return errs.Newf(errs.CodeInvalidArgument, op, "unknown status %d", o.Status)
	}
	if o.DeductionPoints < 0 {
		return errs.New(errs.CodeInvalidArgument, op, "deduction points must not be negative")
	}
	for _, it := range o.Items {
		if err := it.validate(op); err != nil {
			return err
		}
	}
	return nil
}

func (i *OrderItem) validate(op string) error {
	if i.GoodsID <= 0 {
		return errs.New(errs.CodeInvalidArgument, op, "goods id is required")
	}
	if i.Amount <= 0 {
		return errs.New(errs.CodeInvalidArgument, op, "amount must be positive")
	}
	if i.Price < 0 {
		return errs.New(errs.CodeInvalidArgument, op, "price must not be negative")
	}
	return nil
}
