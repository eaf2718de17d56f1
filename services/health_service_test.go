package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/comment-board/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	err error
}

func (s stubStore) Check(context.Context) error {
	return s.err
}

func TestNewHealthService(t *testing.T) {
	service := NewHealthService(nil, nil, "1.0.0")

	assert.NotNil(t, service)
	assert.Equal(t, "1.0.0", service.version)
	assert.NotNil(t, service.log)
	assert.True(t, time.Since(service.startTime) < time.Second)
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		stores         map[string]StoreChecker
		withRedis      bool
		redisErr       error
		expectedStatus types.HealthStatus
		expectedDown   []string
	}{
		{
			name:           "all stores healthy without redis",
			stores:         map[string]StoreChecker{"comments_store": stubStore{}, "feedback_store": stubStore{}},
			expectedStatus: types.HealthStatusUp,
		},
		{
			name:           "corrupt store takes service down",
			stores:         map[string]StoreChecker{"comments_store": stubStore{err: errors.New("corrupt")}, "feedback_store": stubStore{}},
			expectedStatus: types.HealthStatusDown,
			expectedDown:   []string{"comments_store"},
		},
		{
			name:           "redis healthy",
			stores:         map[string]StoreChecker{"comments_store": stubStore{}},
			withRedis:      true,
			expectedStatus: types.HealthStatusUp,
		},
		{
			name:           "redis down degrades service",
			stores:         map[string]StoreChecker{"comments_store": stubStore{}},
			withRedis:      true,
			redisErr:       errors.New("connection refused"),
			expectedStatus: types.HealthStatusDegraded,
			expectedDown:   []string{"redis"},
		},
		{
			name:           "store down wins over redis down",
			stores:         map[string]StoreChecker{"comments_store": stubStore{err: errors.New("eio")}},
			withRedis:      true,
			redisErr:       errors.New("connection refused"),
			expectedStatus: types.HealthStatusDown,
			expectedDown:   []string{"comments_store", "redis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var service *HealthService
			if tt.withRedis {
				db, mock := redismock.NewClientMock()
				defer db.Close()
				if tt.redisErr != nil {
					mock.ExpectPing().SetErr(tt.redisErr)
				} else {
					mock.ExpectPing().SetVal("PONG")
				}
				service = NewHealthService(tt.stores, db, "test")
			} else {
				service = NewHealthService(tt.stores, nil, "test")
			}

			health := service.CheckHealth(context.Background())

			assert.Equal(t, tt.expectedStatus, health.Status)
			assert.Equal(t, "test", health.Version)
			assert.NotEmpty(t, health.Timestamp)
			for _, name := range tt.expectedDown {
				require.Contains(t, health.Components, name)
				assert.Equal(t, types.HealthStatusDown, health.Components[name].Status)
			}
			if !tt.withRedis {
				assert.NotContains(t, health.Components, "redis")
			}
		})
	}
}
