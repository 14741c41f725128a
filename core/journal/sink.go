package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	SinkLog    = "log"
	SinkObject = "object"
	SinkNone   = "none"
)

// Config selects where records go.
type Config struct {
	// Sink is log, object or none.
	Sink string `mapstructure:"sink" default:"log"`
	// Prefix is the object key prefix for the object sink.
	Prefix string `mapstructure:"prefix" default:"journal"`
}

// Sink receives records after a save committed.
type Sink interface {
	Write(ctx context.Context, r Record) error
}

// NewSink builds the configured sink. client and bucket are only used by the object sink.
func NewSink(cfg Config, log *zap.Logger, client storage.Client, bucket string) (Sink, error) {
	const op = "journal.NewSink"
	switch cfg.Sink {
	case SinkLog, "":
		return NewLogSink(log), nil
	case SinkObject:
		if client == nil {
			return nil, errs.New(errs.CodeNullArgument, op, "object sink needs a storage client")
		}
		if bucket == "" {
			return nil, errs.New(errs.CodeInvalidArgument, op, "object sink needs a bucket")
		}
		return NewObjectSink(client, bucket, cfg.Prefix), nil
	case SinkNone:
		return Nop{}, nil
	default:
		return nil, errs.Newf(errs.CodeInvalidArgument, op, "unknown journal sink %q", cfg.Sink)
	}
}

// Emit writes r to s. A failing sink is logged and otherwise ignored, the
// save it describes has already committed.
func Emit(ctx context.Context, s Sink, r Record, log *zap.Logger) {
	if s == nil {
		return
	}
	if err := s.Write(ctx, r); err != nil && log != nil {
		log.Warn("Failed to write journal record",
			zap.String("aggregate", r.Aggregate),
			zap.String("root_id", r.RootID),
			zap.Error(err),
		)
	}
}

// Nop discards records.
type Nop struct{}

func (Nop) Write(context.Context, Record) error { return nil }

// LogSink writes records as structured log lines.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink logging through l.
func NewLogSink(l *zap.Logger) *LogSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogSink{logger: l.Named("journal")}
}

func (s *LogSink) Write(_ context.Context, r Record) error {
	fields := []zap.Field{
		zap.String("record_id", r.ID.String()),
		zap.String("aggregate", r.Aggregate),
		zap.String("root_id", r.RootID),
		zap.String("outcome", string(r.Outcome)),
		zap.Int64("version", r.Version),
		zap.Strings("fields", r.Fields.Names()),
		zap.Time("recorded_at", r.RecordedAt),
	}
	for name, out := range r.Summary {
		fields = append(fields, zap.Stringer(name, out))
	}
	s.logger.Info("Aggregate saved", fields...)
	return nil
}

// ObjectSink stores records as JSON objects keyed
// <prefix>/<aggregate>/<root>/<version>-<id>.json.
type ObjectSink struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectSink returns a sink writing to bucket under prefix.
func NewObjectSink(client storage.Client, bucket, prefix string) *ObjectSink {
	return &ObjectSink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object key of r.
func (s *ObjectSink) Key(r Record) string {
	return path.Join(s.rootDir(r.Aggregate, r.RootID), fmt.Sprintf("%d-%s.json", r.Version, r.ID))
}

func (s *ObjectSink) rootDir(aggregate, rootID string) string {
	return path.Join(s.prefix, aggregate, rootID)
}

func (s *ObjectSink) Write(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errs.Wrap(errs.CodeInvalidArgument, "journal.ObjectSink.Write", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.Key(r), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return errs.Wrap(errs.CodeStorage, "journal.ObjectSink.Write", err)
	}
	return nil
}

// History reads back the records of one root ordered by version then time.
func (s *ObjectSink) History(ctx context.Context, aggregate, rootID string) ([]Record, error) {
	const op = "journal.ObjectSink.History"
	opts := minio.ListObjectsOptions{Prefix: s.rootDir(aggregate, rootID) + "/", Recursive: true}
	var records []Record
	for info := range s.client.ListObjects(ctx, s.bucket, opts) {
		if info.Err != nil {
			return nil, errs.Wrap(errs.CodeStorage, op, info.Err)
		}
		r, err := s.read(ctx, info.Key)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Version != records[j].Version {
			return records[i].Version < records[j].Version
		}
		return records[i].RecordedAt.Before(records[j].RecordedAt)
	})
	return records, nil
}

func (s *ObjectSink) read(ctx context.Context, key string) (Record, error) {
	const op = "journal.ObjectSink.History"
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Record{}, errs.Wrap(errs.CodeStorage, op, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return Record{}, errs.Wrap(errs.CodeStorage, op, err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, errs.Wrap(errs.CodeStorage, op, fmt.Errorf("decode %s: %w", key, err))
	}
	return r, nil
}
