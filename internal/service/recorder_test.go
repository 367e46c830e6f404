package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recorderTestDeps struct {
	recorder *paymentRecorder
	repo     *mocks.MockPaymentRepository
	cache    *mocks.MockProcessedCache
}

func setupRecorder(t *testing.T) *recorderTestDeps {
	ctrl := gomock.NewController(t)
	d := &recorderTestDeps{
		repo:  mocks.NewMockPaymentRepository(ctrl),
		cache: mocks.NewMockProcessedCache(ctrl),
	}
	d.recorder = NewPaymentRecorder(d.repo, d.cache, time.Second, newTestLogger()).(*paymentRecorder)
	return d
}

func capturedEvent(id string) *domain.PaymentEvent {
	amt := domain.MinorUnits(89900)
	email := "payer@example.com"
	return &domain.PaymentEvent{
		Kind:       domain.EventPaymentCaptured,
		PaymentID:  id,
		Amount:     &amt,
		Currency:   "INR",
		Status:     "captured",
		PayerEmail: &email,
		Raw:        []byte(`{"event":"payment.captured"}`),
	}
}

func TestPaymentRecorder_Inserted(t *testing.T) {
	d := setupRecorder(t)
	ctx := context.Background()

	d.cache.EXPECT().IsProcessed(ctx, "pay_1").Return(false, nil)
	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.PaymentRecord) (bool, error) {
			assert.Equal(t, "pay_1", rec.PaymentID)
			require.NotNil(t, rec.Amount)
			assert.Equal(t, int64(89900), *rec.Amount)
			assert.JSONEq(t, `{"event":"payment.captured"}`, string(rec.RawPayload))
			return true, nil
		},
	)
	d.cache.EXPECT().MarkProcessed(gomock.Any(), "pay_1", processedTTL).Return(nil)

	out := d.recorder.Record(ctx, capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordInserted, out.Status)
	assert.NoError(t, out.Err)
}

func TestPaymentRecorder_ConflictIsAlreadyExists(t *testing.T) {
	d := setupRecorder(t)
	ctx := context.Background()

	d.cache.EXPECT().IsProcessed(ctx, "pay_1").Return(false, nil)
	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, nil)
	d.cache.EXPECT().MarkProcessed(gomock.Any(), "pay_1", processedTTL).Return(nil)

	out := d.recorder.Record(ctx, capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordAlreadyExists, out.Status)
}

func TestPaymentRecorder_CacheHitSkipsStore(t *testing.T) {
	d := setupRecorder(t)
	ctx := context.Background()

	d.cache.EXPECT().IsProcessed(ctx, "pay_1").Return(true, nil)

	out := d.recorder.Record(ctx, capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordAlreadyExists, out.Status)
}

func TestPaymentRecorder_CacheErrorFallsThrough(t *testing.T) {
	d := setupRecorder(t)
	ctx := context.Background()

	d.cache.EXPECT().IsProcessed(ctx, "pay_1").Return(false, errors.New("redis down"))
	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(true, nil)
	d.cache.EXPECT().MarkProcessed(gomock.Any(), "pay_1", processedTTL).Return(errors.New("redis down"))

	out := d.recorder.Record(ctx, capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordInserted, out.Status)
}

func TestPaymentRecorder_StoreFailure(t *testing.T) {
	d := setupRecorder(t)
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	d.cache.EXPECT().IsProcessed(ctx, "pay_1").Return(false, nil)
	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, storeErr)

	out := d.recorder.Record(ctx, capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordFailed, out.Status)
	assert.ErrorIs(t, out.Err, storeErr)
}

func TestPaymentRecorder_MissingPaymentID(t *testing.T) {
	d := setupRecorder(t)

	out := d.recorder.Record(context.Background(), capturedEvent(""))
	assert.Equal(t, domain.RecordFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrMissingPaymentID)
}

func TestPaymentRecorder_WriteSurvivesCallerCancel(t *testing.T) {
	d := setupRecorder(t)
	ctx, cancel := context.WithCancel(context.Background())

	d.cache.EXPECT().IsProcessed(gomock.Any(), "pay_1").DoAndReturn(
		func(context.Context, string) (bool, error) {
			cancel()
			return false, nil
		},
	)
	d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(wctx context.Context, _ *domain.PaymentRecord) (bool, error) {
			assert.NoError(t, wctx.Err())
			_, hasDeadline := wctx.Deadline()
			assert.True(t, hasDeadline)
			return true, nil
		},
	)
	d.cache.EXPECT().MarkProcessed(gomock.Any(), "pay_1", processedTTL).Return(nil)

	out := d.recorder.Record(ctx, capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordInserted, out.Status)
}

func TestPaymentRecorder_NilCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentRepository(ctrl)
	rec := NewPaymentRecorder(repo, nil, 0, newTestLogger())

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(true, nil)

	out := rec.Record(context.Background(), capturedEvent("pay_1"))
	assert.Equal(t, domain.RecordInserted, out.Status)
}
