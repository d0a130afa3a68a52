package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/queue"
	"whatsapp_dashboard/pkg/evolution"
)

// EvolutionMock stands in for the Evolution API client.
type EvolutionMock struct {
	mock.Mock
}

func (m *EvolutionMock) FetchInstances(ctx context.Context) ([]evolution.Instance, error) {
	args := m.Called(ctx)
	var list []evolution.Instance
	if val := args.Get(0); val != nil {
		list = val.([]evolution.Instance)
	}
	return list, args.Error(1)
}

func (m *EvolutionMock) FetchAllGroups(ctx context.Context, instance string, withParticipants bool) ([]evolution.Group, error) {
	args := m.Called(ctx, instance, withParticipants)
	var list []evolution.Group
	if val := args.Get(0); val != nil {
		list = val.([]evolution.Group)
	}
	return list, args.Error(1)
}

func (m *EvolutionMock) FindGroup(ctx context.Context, instance, groupJID string) (*evolution.Group, error) {
	args := m.Called(ctx, instance, groupJID)
	var g *evolution.Group
	if val := args.Get(0); val != nil {
		g = val.(*evolution.Group)
	}
	return g, args.Error(1)
}

func (m *EvolutionMock) Participants(ctx context.Context, instance, groupJID string) ([]evolution.Participant, error) {
	args := m.Called(ctx, instance, groupJID)
	var list []evolution.Participant
	if val := args.Get(0); val != nil {
		list = val.([]evolution.Participant)
	}
	return list, args.Error(1)
}

func (m *EvolutionMock) CreateGroup(ctx context.Context, instance, subject, description string, participants []string) (*evolution.Group, error) {
	args := m.Called(ctx, instance, subject, description, participants)
	var g *evolution.Group
	if val := args.Get(0); val != nil {
		g = val.(*evolution.Group)
	}
	return g, args.Error(1)
}

func (m *EvolutionMock) UpdateSubject(ctx context.Context, instance, groupJID, subject string) error {
	return m.Called(ctx, instance, groupJID, subject).Error(0)
}

func (m *EvolutionMock) UpdateDescription(ctx context.Context, instance, groupJID, description string) error {
	return m.Called(ctx, instance, groupJID, description).Error(0)
}

func (m *EvolutionMock) UpdateSetting(ctx context.Context, instance, groupJID, action string) error {
	return m.Called(ctx, instance, groupJID, action).Error(0)
}

func (m *EvolutionMock) UpdateParticipants(ctx context.Context, instance, groupJID, action string, participants []string) error {
	return m.Called(ctx, instance, groupJID, action, participants).Error(0)
}

func (m *EvolutionMock) InviteCode(ctx context.Context, instance, groupJID string) (*evolution.InviteCode, error) {
	args := m.Called(ctx, instance, groupJID)
	var code *evolution.InviteCode
	if val := args.Get(0); val != nil {
		code = val.(*evolution.InviteCode)
	}
	return code, args.Error(1)
}

func (m *EvolutionMock) LeaveGroup(ctx context.Context, instance, groupJID string) error {
	return m.Called(ctx, instance, groupJID).Error(0)
}

func (m *EvolutionMock) SendText(ctx context.Context, instance, number, text string, delayMs int) (*evolution.SendResponse, error) {
	args := m.Called(ctx, instance, number, text, delayMs)
	var resp *evolution.SendResponse
	if val := args.Get(0); val != nil {
		resp = val.(*evolution.SendResponse)
	}
	return resp, args.Error(1)
}

func (m *EvolutionMock) SendMedia(ctx context.Context, instance, number, mediaType, mediaURL, caption, fileName string, delayMs int) (*evolution.SendResponse, error) {
	args := m.Called(ctx, instance, number, mediaType, mediaURL, caption, fileName, delayMs)
	var resp *evolution.SendResponse
	if val := args.Get(0); val != nil {
		resp = val.(*evolution.SendResponse)
	}
	return resp, args.Error(1)
}

func (m *EvolutionMock) SendAudio(ctx context.Context, instance, number, audioURL string, delayMs int) (*evolution.SendResponse, error) {
	args := m.Called(ctx, instance, number, audioURL, delayMs)
	var resp *evolution.SendResponse
	if val := args.Get(0); val != nil {
		resp = val.(*evolution.SendResponse)
	}
	return resp, args.Error(1)
}

// RedisMock covers sessions and the cache.
type RedisMock struct {
	mock.Mock
}

func (m *RedisMock) SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	return m.Called(ctx, session, ttl).Error(0)
}

func (m *RedisMock) GetSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	var s *models.Session
	if val := args.Get(0); val != nil {
		s = val.(*models.Session)
	}
	return s, args.Error(1)
}

func (m *RedisMock) DeleteSession(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *RedisMock) SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

// GetCache leaves dest untouched; tests fill it with a Run hook.
func (m *RedisMock) GetCache(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *RedisMock) DeleteCache(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *RedisMock) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, job queue.Job) error {
	return m.Called(ctx, job).Error(0)
}
