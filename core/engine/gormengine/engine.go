package gormengine

import (
	"context"
	"reflect"
	"strings"

	"aggregate-persistence/core/database"
	"aggregate-persistence/core/entity"
	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/optlock"
	"aggregate-persistence/core/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Engine implements repository.Engine over gorm. T must be a pointer to a gorm model.
type Engine[K comparable, T entity.Identifiable[K]] struct {
	db           *gorm.DB
	batchSize    int
	versionField string
	logger       *zap.Logger
}

// Option customizes an Engine.
type Option func(*settings)

type settings struct {
	batchSize    int
	versionField string
	logger       *zap.Logger
}

// WithBatchSize overrides the batch insert limit.
func WithBatchSize(n int) Option {
	return func(s *settings) { s.batchSize = n }
}

// WithVersionField names the field holding the lock token. Defaults to Version.
func WithVersionField(name string) Option {
	return func(s *settings) { s.versionField = name }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// New returns an engine bound to db.
func New[K comparable, T entity.Identifiable[K]](db *gorm.DB, opts ...Option) *Engine[K, T] {
	s := settings{
		batchSize:    repository.DefaultBatchSize,
		versionField: optlock.VersionField,
		logger:       zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&s)
	}
	if s.batchSize <= 0 {
		s.batchSize = repository.DefaultBatchSize
	}
	return &Engine[K, T]{
		db:           db,
		batchSize:    s.batchSize,
		versionField: s.versionField,
		logger:       s.logger,
	}
}

// WithTx returns a copy of the engine running on tx.
func (e *Engine[K, T]) WithTx(tx *gorm.DB) *Engine[K, T] {
	cp := *e
	cp.db = tx
	return &cp
}

// BatchSize implements repository.Engine.
func (e *Engine[K, T]) BatchSize() int { return e.batchSize }

// Insert implements repository.Engine.
func (e *Engine[K, T]) Insert(ctx context.Context, item T) (bool, error) {
	if entity.IsNil(item) {
		return false, errs.New(errs.CodeNullArgument, "gormengine.Insert", "item is nil")
	}
	res := e.db.WithContext(ctx).Create(item)
	if res.Error != nil {
		return false, errs.FromStorage("gormengine.Insert", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// InsertBatch implements repository.Engine.
func (e *Engine[K, T]) InsertBatch(ctx context.Context, items []T) (bool, error) {
	const op = "gormengine.InsertBatch"
	if len(items) > e.batchSize {
		return false, errs.Newf(errs.CodeBatchLimit, op, "%d items exceed the limit of %d", len(items), e.batchSize)
	}
	if len(items) == 0 {
		return true, nil
	}
	res := e.db.WithContext(ctx).CreateInBatches(items, e.batchSize)
	if res.Error != nil {
		return false, errs.FromStorage(op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Update implements repository.Engine. Fields are Go field or column names of T;
// when the guard carries a version the statement is conditioned on it and
// moves it to the next value.
func (e *Engine[K, T]) Update(ctx context.Context, req optlock.Request[K, T]) (bool, error) {
	const op = "gormengine.Update"
	sch, err := e.schemaOf(req.Entity)
	if err != nil {
		return false, err
	}

	target := reflect.ValueOf(req.Entity)
	updates := make(map[string]any, req.Fields.Len()+1)
	var keys []string
	for _, name := range req.Fields.Names() {
		f := sch.LookUpField(name)
		if f == nil || f.DBName == "" {
			return false, errs.Newf(errs.CodeFieldAccess, op, "%s has no column for %s", sch.Name, name)
		}
		if f.PrimaryKey {
			keys = append(keys, name)
			continue
		}
		v, _ := f.ValueOf(ctx, target)
		updates[f.DBName] = v
	}

	tx := e.db.WithContext(ctx).Model(req.Entity)
	if req.Guard.Guarded() {
		vf := sch.LookUpField(e.versionField)
		if vf == nil || vf.DBName == "" {
			return false, errs.Newf(errs.CodeFieldAccess, op, "%s has no version column %s", sch.Name, e.versionField)
		}
		updates[vf.DBName] = req.Guard.Next()
		tx = tx.Where(clauseColumn(sch, vf)+" = ?", req.Guard.Version)
	}
	if len(updates) == 0 {
		// Nothing was asked for. A request naming only key columns cannot be applied.
		if len(keys) > 0 {
			return false, errs.Newf(errs.CodeInvalidState, op, "%s: primary key %s cannot be updated", sch.Name, strings.Join(keys, ", "))
		}
		return true, nil
	}

	res := tx.Updates(updates)
	if res.Error != nil {
		return false, errs.FromStorage(op, res.Error)
	}
	if res.RowsAffected == 0 {
		e.logger.Debug("Conditional update matched no row",
			zap.String("table", sch.Table),
			zap.Any("id", req.Guard.ID),
			zap.Int64("version", req.Guard.Version),
		)
		return false, nil
	}
	return true, nil
}

// DeleteBatch implements repository.Engine.
func (e *Engine[K, T]) DeleteBatch(ctx context.Context, items []T) (bool, error) {
	const op = "gormengine.DeleteBatch"
	if len(items) == 0 {
		return true, nil
	}
	sch, err := e.schemaOf(items[0])
	if err != nil {
		return false, err
	}
	pk := sch.PrioritizedPrimaryField
	if pk == nil {
		return false, errs.Newf(errs.CodeFieldAccess, op, "%s has no primary key", sch.Name)
	}

	ids := make([]K, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.GetID())
	}
	model := reflect.New(sch.ModelType).Interface()
	res := e.db.WithContext(ctx).Where(clauseColumn(sch, pk)+" IN ?", ids).Delete(model)
	if res.Error != nil {
		return false, errs.FromStorage(op, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Verify checks that every mapped column of T exists in the live table.
func (e *Engine[K, T]) Verify(ctx context.Context) error {
	const op = "gormengine.Verify"
	var zero T
	model := reflect.New(reflect.TypeOf(zero).Elem()).Interface()
	sch, err := e.schemaOf(model)
	if err != nil {
		return err
	}
	columns, err := database.GetTableColumns(e.db.WithContext(ctx), sch.Table)
	if err != nil {
		return errs.FromStorage(op, err)
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.ToLower(c.Field)] = true
	}
	var missing []string
	for _, name := range sch.DBNames {
		if !present[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errs.Newf(errs.CodeFieldAccess, op, "table %s lacks columns %s", sch.Table, strings.Join(missing, ", "))
	}
	return nil
}

func (e *Engine[K, T]) schemaOf(model any) (*schema.Schema, error) {
	if entity.IsNil(model) {
		return nil, errs.New(errs.CodeNullArgument, "gormengine.schema", "model is nil")
	}
	stmt := &gorm.Statement{DB: e.db}
	if err := stmt.Parse(model); err != nil {
		return nil, errs.Wrap(errs.CodeFieldAccess, "gormengine.schema", err)
	}
	return stmt.Schema, nil
}

func clauseColumn(sch *schema.Schema, f *schema.Field) string {
	return sch.Table + "." + f.DBName
}
