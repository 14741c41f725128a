package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/repository"
	"aggregate-persistence/core/storage"
	"aggregate-persistence/core/storage/mocks"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleRecord() Record {
	r := NewRecord("order", int64(1), repository.OutcomeUpdated, 4)
	r.Fields = diff.NewFieldSet("ActualPayMoney")
	return r.WithChildren("items", repository.ListOutcome{Inserted: 1, Deleted: 1})
}

func TestNewRecord(t *testing.T) {
	r := sampleRecord()
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "1", r.RootID)
	assert.False(t, r.RecordedAt.IsZero())
	assert.Equal(t, 1, r.Summary["items"].Inserted)
}

func TestNewSink(t *testing.T) {
	client := new(mocks.Client)
	tests := []struct {
		name    string
		cfg     Config
		client  storage.Client
		bucket  string
		want    any
		errCode errs.Code
	}{
		{"Default", Config{}, nil, "", &LogSink{}, ""},
		{"Log", Config{Sink: SinkLog}, nil, "", &LogSink{}, ""},
		{"None", Config{Sink: SinkNone}, nil, "", Nop{}, ""},
		{"Object", Config{Sink: SinkObject, Prefix: "journal"}, client, "b", &ObjectSink{}, ""},
		{"Object Without Client", Config{Sink: SinkObject}, nil, "b", nil, errs.CodeNullArgument},
		{"Object Without Bucket", Config{Sink: SinkObject}, client, "", nil, errs.CodeInvalidArgument},
		{"Unknown", Config{Sink: "kafka"}, nil, "", nil, errs.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := NewSink(tt.cfg, zap.NewNop(), tt.client, tt.bucket)
			if tt.errCode != "" {
				assert.True(t, errs.IsCode(err, tt.errCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, sink)
		})
	}
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Write(context.Background(), sampleRecord()))
	entries := logs.FilterMessage("Aggregate saved").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "order", ctx["aggregate"])
	assert.Equal(t, int64(4), ctx["version"])
	assert.Equal(t, "inserted=1 updated=0 deleted=1 conflicts=0", ctx["items"])
}

func TestObjectSink_WriteAndHistory(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	sink := NewObjectSink(client, "bucket", "/journal/")

	rec := sampleRecord()
	key := sink.Key(rec)
	assert.Equal(t, "journal/order/1/4-"+rec.ID.String()+".json", key)

	var stored []byte
	client.On("PutObject", ctx, "bucket", key, mock.Anything, mock.AnythingOfType("int64"), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "application/json"
	})).Run(func(args mock.Arguments) {
		stored, _ = io.ReadAll(args.Get(3).(io.Reader))
	}).Return(minio.UploadInfo{Key: key}, nil).Once()

	require.NoError(t, sink.Write(ctx, rec))
	require.NotEmpty(t, stored)

	older := NewRecord("order", 1, repository.OutcomeCreated, 1)
	olderData, err := json.Marshal(older)
	require.NoError(t, err)
	olderKey := sink.Key(older)

	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: key}
	ch <- minio.ObjectInfo{Key: olderKey}
	close(ch)
	var listing <-chan minio.ObjectInfo = ch
	client.On("ListObjects", ctx, "bucket", minio.ListObjectsOptions{Prefix: "journal/order/1/", Recursive: true}).Return(listing)
	client.On("GetObject", ctx, "bucket", key, minio.GetObjectOptions{}).Return(io.NopCloser(bytes.NewReader(stored)), nil)
	client.On("GetObject", ctx, "bucket", olderKey, minio.GetObjectOptions{}).Return(io.NopCloser(bytes.NewReader(olderData)), nil)

	history, err := sink.History(ctx, "order", "1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, repository.OutcomeCreated, history[0].Outcome)
	assert.Equal(t, rec.ID, history[1].ID)
	assert.True(t, history[1].Fields.Has("ActualPayMoney"))
	assert.Equal(t, 1, history[1].Summary["items"].Deleted)
	client.AssertExpectations(t)
}

func TestObjectSink_Failures(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	sink := NewObjectSink(client, "bucket", "journal")

	client.On("PutObject", ctx, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("offline"))
	err := sink.Write(ctx, sampleRecord())
	assert.True(t, errs.IsCode(err, errs.CodeStorage))

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("denied")}
	close(ch)
	var listing <-chan minio.ObjectInfo = ch
	client.On("ListObjects", ctx, "bucket", mock.Anything).Return(listing)
	_, err = sink.History(ctx, "order", "2")
	assert.True(t, errs.IsCode(err, errs.CodeStorage))
}

type failingSink struct{}

func (failingSink) Write(context.Context, Record) error { return errors.New("boom") }

func TestEmit(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	Emit(context.Background(), failingSink{}, sampleRecord(), zap.New(core))
	Emit(context.Background(), nil, sampleRecord(), zap.New(core))
	Emit(context.Background(), Nop{}, sampleRecord(), zap.New(core))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Failed to write journal record", entries[0].Message)
}
