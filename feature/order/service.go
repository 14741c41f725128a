package order

import (
	"context"

	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/repository"
	"aggregate-persistence/feature/order/models"

	"go.uber.org/zap"
)

// ItemInput describes an order line in a request. A zero ID adds a line.
type ItemInput struct {
	ID        int64  `json:"id"`
	GoodsID   int64  `json:"goods_id"`
	GoodsName string `json:"goods_name"`
	Amount    int    `json:"amount"`
	Price     int64  `json:"price"`
}

// CreateInput is the payload to place an order.
type CreateInput struct {
	Consignee       models.Consignee `json:"consignee"`
	Items           []ItemInput      `json:"items"`
	CouponID        *int64           `json:"coupon_id"`
	DeductionPoints int64            `json:"deduction_points"`
	SubmitUserID    int64            `json:"submit_user_id"`
	SellerID        int64            `json:"seller_id"`
}

// UpdateInput is the payload to change an order. Nil members are left as
// they are. When Items is set it replaces the item list: lines with an id
// are kept and updated, lines without one are added, the others removed.
type UpdateInput struct {
	Version         int64             `json:"version"`
	Consignee       *models.Consignee `json:"consignee"`
	Status          *models.Status    `json:"status"`
	DeductionPoints *int64            `json:"deduction_points"`
	Items           *[]ItemInput      `json:"items"`
}

// SaveResult is what a write returns.
type SaveResult struct {
	Order   *models.Order      `json:"order"`
	Outcome repository.Outcome `json:"outcome"`
}

// Service implements the order use cases.
type Service struct {
	gateway *Gateway
	logger  *zap.Logger
}

// NewService creates a service.
func NewService(gateway *Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, logger: logger}
}

// Get returns the order with id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Order, error) {
	agg, err := s.gateway.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return agg.Root(), nil
}

// Create places a new order.
func (s *Service) Create(ctx context.Context, in CreateInput) (SaveResult, error) {
	o := &models.Order{
		Status:          models.StatusCreated,
		Consignee:       in.Consignee,
		CouponID:        in.CouponID,
		DeductionPoints: in.DeductionPoints,
		SubmitUserID:    in.SubmitUserID,
		SellerID:        in.SellerID,
	}
	if len(in.Items) == 0 {
		return SaveResult{}, errs.New(errs.CodeInvalidArgument, "order.Create", "an order needs at least one item")
	}
	for _, it := range in.Items {
		if it.ID != 0 {
			return SaveResult{}, errs.New(errs.CodeInvalidArgument, "order.Create", "new items must not carry an id")
		}
		if _, err := o.AddItem(it.GoodsID, it.GoodsName, it.Amount, it.Price); err != nil {
			return SaveResult{}, err
		}
	}
	if err := o.Validate(); err != nil {
		return SaveResult{}, err
	}

	agg, err := s.gateway.New(o)
	if err != nil {
		return SaveResult{}, err
	}
	res, err := s.gateway.Save(ctx, agg)
	if err != nil {
		return SaveResult{}, err
	}
	s.logger.Info("Order created", zap.Int64("id", res.ID), zap.Int("items", len(o.Items)))
	return SaveResult{Order: o, Outcome: res.Outcome}, nil
}

// Update loads the order, checks the caller saw the current version, applies
// mutate and saves. A zero expected version skips the check.
func (s *Service) Update(ctx context.Context, id, expected int64, mutate func(*models.Order) error) (SaveResult, error) {
	const op = "order.Update"
	agg, err := s.gateway.Get(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}
	o := agg.Root()
	if expected > 0 && o.Version != expected {
		return SaveResult{}, errs.Newf(errs.CodeOptimisticLock, op, "order %d is at version %d, not %d", id, o.Version, expected)
	}
	if err := mutate(o); err != nil {
		return SaveResult{}, err
	}
	o.Recalculate()
	if err := o.Validate(); err != nil {
		return SaveResult{}, err
	}

	res, err := s.gateway.Save(ctx, agg)
	if err != nil {
		return SaveResult{}, err
	}
	s.logger.Info("Order saved", zap.Int64("id", id), zap.String("outcome", string(res.Outcome)), zap.Int64("version", o.Version))
	return SaveResult{Order: o, Outcome: res.Outcome}, nil
}

// Apply changes o as described by in. It fits Service.Update.
func (in UpdateInput) Apply(o *models.Order) error {
	const op = "order.Apply"
	if in.Consignee != nil {
		o.Consignee = *in.Consignee
	}
	if in.DeductionPoints != nil {
		o.DeductionPoints = *in.DeductionPoints
	}
	if in.Status != nil {
		if err := o.ChangeStatus(*in.Status); err != nil {
			return err
		}
	}
	if in.Items == nil {
		return nil
	}

	next := make([]*models.OrderItem, 0, len(*in.Items))
	seen := make(map[int64]bool, len(*in.Items))
	for _, it := range *in.Items {
		if it.ID == 0 {
			next = append(next, &models.OrderItem{OrderID: o.ID, GoodsID: it.GoodsID, GoodsName: it.GoodsName, Amount: it.Amount, Price: it.Price})
			continue
		}
		if seen[it.ID] {
			return errs.Newf(errs.CodeDuplicateID, op, "item %d listed twice", it.ID)
		}
		seen[it.ID] = true
		cur, ok := o.Item(it.ID)
		if !ok {
			return errs.Newf(errs.CodeNotFound, op, "order %d has no item %d", o.ID, it.ID)
		}
		cur.GoodsID, cur.GoodsName, cur.Amount, cur.Price = it.GoodsID, it.GoodsName, it.Amount, it.Price
		next = append(next, cur)
	}
	if len(next) == 0 {
		return errs.New(errs.CodeInvalidArgument, op, "an order needs at least one item")
	}
	o.Items = next
	return nil
}
