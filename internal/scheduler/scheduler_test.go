package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whatsapp_dashboard/internal/mocks"
	"whatsapp_dashboard/internal/models"
)

func TestNewValidatesSpec(t *testing.T) {
	_, err := New(new(mocks.FallbackServiceMock), "every now and then")
	assert.Error(t, err)

	s, err := New(new(mocks.FallbackServiceMock), "")
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	s.Start(context.Background())
	s.Stop()
}

func TestRunOnce(t *testing.T) {
	syncer := new(mocks.FallbackServiceMock)
	syncer.On("Sync", mock.Anything).Return(&models.SyncReport{Synced: 2}, nil).Once()
	syncer.On("Sync", mock.Anything).Return(nil, errors.New("postgres down")).Once()

	s, err := New(syncer, "@every 5m")
	require.NoError(t, err)
	assert.True(t, s.Enabled())

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	syncer.AssertExpectations(t)
}

func TestScheduleRuns(t *testing.T) {
	syncer := new(mocks.FallbackServiceMock)
	ran := make(chan struct{}, 10)
	syncer.On("Sync", mock.Anything).
		Run(func(mock.Arguments) { ran <- struct{}{} }).
		Return(&models.SyncReport{}, nil)

	s, err := New(syncer, "@every 1s")
	require.NoError(t, err)
	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("sync did not run")
	}
}
