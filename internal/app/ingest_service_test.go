package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/mocks"
)

type stubRefresher struct {
	err   error
	calls int
}

func (s *stubRefresher) Refresh(context.Context) (*RefreshResult, error) {
	s.calls++

	return &RefreshResult{}, s.err
}

func batch() []domain.Product {
	return []domain.Product{
		{ProductID: "p-1", ProductName: "Desert Safari"},
		{ProductID: "p-2", ProductName: "Dhow Cruise"},
	}
}

func TestIngestService_Ingest(t *testing.T) {
	store := mocks.NewMockProductStore(t)
	store.On("Validate", batch()).Return(nil)
	store.On("Upsert", mock.Anything, batch()).Return(2, nil)
	store.On("Load", mock.Anything).Return(append([]domain.Product{{ProductID: "old"}}, batch()...), nil)
	store.On("CleanupBackups", mock.Anything).Return(1, nil)

	refresher := &stubRefresher{}
	svc := NewIngestService(IngestServiceConfig{Store: store, Refresher: refresher, Logger: discardLogger()})

	result, err := svc.Ingest(context.Background(), batch())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Written)
	assert.Equal(t, []string{"p-1", "p-2"}, result.ProductIDs)
	assert.Equal(t, 1, result.BackupsRemoved)
	assert.True(t, result.Refreshed)
	assert.Equal(t, 1, refresher.calls)
}

func TestIngestService_Ingest_Failures(t *testing.T) {
	tests := []struct {
		name      string
		input     []domain.Product
		setupMock func(*mocks.MockProductStore)
		stage     Stage
		errCheck  func(error) bool
	}{
		{
			name:      "empty batch",
			input:     nil,
			setupMock: func(*mocks.MockProductStore) {},
			stage:     StageValidate,
			errCheck:  domain.IsValidation,
		},
		{
			name:  "invalid record",
			input: batch(),
			setupMock: func(m *mocks.MockProductStore) {
				m.On("Validate", batch()).Return(&domain.RecordValidationError{
					Record: "p-2", Fields: map[string]string{"pricing[0].price_aed": "must be >= 0"},
				})
			},
			stage:    StageValidate,
			errCheck: domain.IsValidation,
		},
		{
			name:  "locked store",
			input: batch(),
			setupMock: func(m *mocks.MockProductStore) {
				m.On("Validate", batch()).Return(nil)
				m.On("Upsert", mock.Anything, batch()).Return(0, domain.NewConflictError("product store", "locked"))
			},
			stage:    StagePerform,
			errCheck: domain.IsConflict,
		},
		{
			name:  "product missing after write",
			input: batch(),
			setupMock: func(m *mocks.MockProductStore) {
				m.On("Validate", batch()).Return(nil)
				m.On("Upsert", mock.Anything, batch()).Return(2, nil)
				m.On("Load", mock.Anything).Return(batch()[:1], nil)
			},
			stage: StageVerify,
			errCheck: func(err error) bool {
				return err != nil && errors.Unwrap(err) != nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockProductStore(t)
			tt.setupMock(store)

			svc := NewIngestService(IngestServiceConfig{Store: store, Logger: discardLogger()})

			_, err := svc.Ingest(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, tt.errCheck(err))

			stage, ok := FailedStage(err)
			require.True(t, ok)
			assert.Equal(t, tt.stage, stage)
		})
	}
}

func TestIngestService_RefreshFailureIsNotFatal(t *testing.T) {
	store := mocks.NewMockProductStore(t)
	store.On("Validate", batch()).Return(nil)
	store.On("Upsert", mock.Anything, batch()).Return(2, nil)
	store.On("Load", mock.Anything).Return(batch(), nil)
	store.On("CleanupBackups", mock.Anything).Return(0, nil)

	svc := NewIngestService(IngestServiceConfig{
		Store:     store,
		Refresher: &stubRefresher{err: errors.New("supplier down")},
		Logger:    discardLogger(),
	})

	result, err := svc.Ingest(context.Background(), batch())
	require.NoError(t, err)
	assert.False(t, result.Refreshed)
}
