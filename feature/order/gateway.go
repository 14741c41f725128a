package order

import (
	"context"
	"errors"

	"aggregate-persistence/core/aggregate"
	"aggregate-persistence/core/copier"
	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/engine/gormengine"
	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/journal"
	"aggregate-persistence/core/optlock"
	"aggregate-persistence/core/repository"
	"aggregate-persistence/feature/order/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AggregateName names orders in logs and journal records.
const AggregateName = "order"

// Aggregate is a tracked order.
type Aggregate = aggregate.Aggregate[int64, *models.Order]

// Gateway loads and saves order aggregates.
type Gateway struct {
	db     *gorm.DB
	cfg    repository.Config
	copier copier.DeepCopier
	sink   journal.Sink
	logger *zap.Logger
}

// NewGateway creates a gateway. A nil sink disables the journal.
func NewGateway(db *gorm.DB, cfg repository.Config, sink journal.Sink, logger *zap.Logger) (*Gateway, error) {
	if db == nil {
		return nil, errs.New(errs.CodeNullArgument, "order.NewGateway", "database is required")
	}
	cp, err := cfg.NewCopier()
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = journal.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{db: db, cfg: cfg, copier: cp, sink: sink, logger: logger.With(zap.String("aggregate", AggregateName))}, nil
}

// Migrate creates or updates the order tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderPO{}, &models.OrderItemPO{})
}

// Verify checks the live tables against the mapped rows.
func (g *Gateway) Verify(ctx context.Context) error {
	if err := gormengine.New[int64, *models.OrderPO](g.db).Verify(ctx); err != nil {
		return err
	}
	return gormengine.New[int64, *models.OrderItemPO](g.db).Verify(ctx)
}

// New starts tracking a freshly built order.
func (g *Gateway) New(o *models.Order) (*Aggregate, error) {
	return aggregate.New[int64](o, aggregate.WithCopier(g.copier))
}

// Get loads the order with id and its items.
func (g *Gateway) Get(ctx context.Context, id int64) (*Aggregate, error) {
	const op = "order.Get"
	db := g.db.WithContext(ctx)

	var po models.OrderPO
	if err := db.First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.CodeNotFound, op, "order %d is not found", id)
		}
		return nil, errs.FromStorage(op, err)
	}
	var items []models.OrderItemPO
	if err := db.Where("order_id = ?", id).Order("id").Find(&items).Error; err != nil {
		return nil, errs.FromStorage(op, err)
	}
	return g.New(fromPO(&po, items))
}

// Save writes agg in one transaction: new orders are created, unchanged
// ones are left alone and changed ones are updated under the version
// loaded. When neither the order row nor any item could be written the
// save fails with an optimistic lock conflict and nothing is kept.
func (g *Gateway) Save(ctx context.Context, agg *Aggregate) (repository.Result[int64], error) {
	var (
		res      repository.Result[int64]
		fields   diff.FieldSet
		children repository.ListOutcome
	)
	if agg == nil {
		return res, errs.New(errs.CodeNullArgument, "order.Save", "aggregate is nil")
	}
	saved := captureKeys(agg.Root())
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders, items, err := g.tables(tx)
		if err != nil {
			return err
		}
		ops := repository.Operations[*models.Order]{
			Create: func(ctx context.Context, o *models.Order) error {
				if err := orders.Insert(ctx, o); err != nil {
					return err
				}
				adopt(o)
				if err := items.InsertAll(ctx, o.Items); err != nil {
					return err
				}
				children.Inserted = len(o.Items)
				return nil
			},
			Update: func(ctx context.Context, o, snapshot *models.Order) (bool, error) {
				changed, err := diff.FindChangedFields(toOrderPO(o), toOrderPO(snapshot), diff.NamingField)
				if err != nil {
					return false, err
				}
				fields = changed.Without(optlock.VersionField)

				rootOK, err := orders.SafeUpdate(ctx, o, snapshot)
				if err != nil {
					return false, err
				}
				adopt(o)
				children, err = items.ListUpdate(ctx, o.Items, snapshot.Items)
				if err != nil {
					return false, err
				}
				return rootOK || children.Affected(), nil
			},
		}
		res, err = repository.Save[int64](ctx, agg, ops)
		return err
	})
	if err != nil {
		// The rows were rolled back, so the ids and versions written onto the order must be too.
		saved.restore(agg.Root())
		g.logger.Debug("Save failed", zap.Int64("id", agg.ID()), zap.Error(err))
		return res, err
	}

	if res.Outcome != repository.OutcomeUnchanged {
		rec := journal.NewRecord(AggregateName, res.ID, res.Outcome, agg.Root().Version)
		rec.Fields = fields
		journal.Emit(ctx, g.sink, rec.WithChildren("items", children), g.logger)
	}
	return res, nil
}

func (g *Gateway) tables(tx *gorm.DB) (*repository.Table[int64, *models.Order, *models.OrderPO], *repository.Table[int64, *models.OrderItem, *models.OrderItemPO], error) {
	opts := []gormengine.Option{
		gormengine.WithBatchSize(g.cfg.EffectiveBatchSize()),
		gormengine.WithLogger(g.logger),
	}
	orders, err := repository.NewTable[int64]("demo_order",
		repository.Engine[int64, *models.OrderPO](gormengine.New[int64, *models.OrderPO](tx, opts...)),
		toOrderPO, g.logger)
	if err != nil {
		return nil, nil, err
	}
	items, err := repository.NewTable[int64]("demo_order_item",
		repository.Engine[int64, *models.OrderItemPO](gormengine.New[int64, *models.OrderItemPO](tx, opts...)),
		toOrderItemPO, g.logger)
	if err != nil {
		return nil, nil, err
	}
	return orders, items, nil
}

// adopt points every item at its order.
func adopt(o *models.Order) {
	for _, it := range o.Items {
		it.OrderID = o.ID
	}
}

// keys are the generated values a save writes back onto an order.
type keys struct {
	id      int64
	version int64
	items   map[*models.OrderItem]itemKeys
}

type itemKeys struct {
	id      int64
	orderID int64
}

func captureKeys(o *models.Order) keys {
	k := keys{id: o.ID, version: o.Version, items: make(map[*models.OrderItem]itemKeys, len(o.Items))}
	for _, it := range o.Items {
		if it != nil {
			k.items[it] = itemKeys{id: it.ID, orderID: it.OrderID}
		}
	}
	return k
}

func (k keys) restore(o *models.Order) {
	o.ID, o.Version = k.id, k.version
	for it, ik := range k.items {
		it.ID, it.OrderID = ik.id, ik.orderID
	}
}
