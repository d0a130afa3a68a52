package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/services"
	"whatsapp_dashboard/internal/storage"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	var res *services.LoginResult
	if val := args.Get(0); val != nil {
		res = val.(*services.LoginResult)
	}
	return res, args.Error(1)
}

func (m *AuthServiceMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *AuthServiceMock) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	var s *models.Session
	if val := args.Get(0); val != nil {
		s = val.(*models.Session)
	}
	return s, args.Error(1)
}

type GroupServiceMock struct {
	mock.Mock
}

func (m *GroupServiceMock) List(ctx context.Context, owner models.Owner, instance string) ([]models.Group, error) {
	args := m.Called(ctx, owner, instance)
	var list []models.Group
	if val := args.Get(0); val != nil {
		list = val.([]models.Group)
	}
	return list, args.Error(1)
}

func (m *GroupServiceMock) Get(ctx context.Context, owner models.Owner, instance, groupID string) (*models.Group, error) {
	args := m.Called(ctx, owner, instance, groupID)
	var g *models.Group
	if val := args.Get(0); val != nil {
		g = val.(*models.Group)
	}
	return g, args.Error(1)
}

func (m *GroupServiceMock) Create(ctx context.Context, owner models.Owner, instance, name, description, rawParticipants string) (*models.Group, error) {
	args := m.Called(ctx, owner, instance, name, description, rawParticipants)
	var g *models.Group
	if val := args.Get(0); val != nil {
		g = val.(*models.Group)
	}
	return g, args.Error(1)
}

func (m *GroupServiceMock) Update(ctx context.Context, owner models.Owner, instance, groupID string, update models.GroupUpdate) error {
	return m.Called(ctx, owner, instance, groupID, update).Error(0)
}

func (m *GroupServiceMock) Delete(ctx context.Context, owner models.Owner, instance, groupID string) error {
	return m.Called(ctx, owner, instance, groupID).Error(0)
}

func (m *GroupServiceMock) InviteCode(ctx context.Context, owner models.Owner, instance, groupID string) (string, error) {
	args := m.Called(ctx, owner, instance, groupID)
	return args.String(0), args.Error(1)
}

func (m *GroupServiceMock) Participants(ctx context.Context, owner models.Owner, instance, groupID string) ([]models.Participant, error) {
	args := m.Called(ctx, owner, instance, groupID)
	var list []models.Participant
	if val := args.Get(0); val != nil {
		list = val.([]models.Participant)
	}
	return list, args.Error(1)
}

func (m *GroupServiceMock) ApplyParticipantAction(ctx context.Context, owner models.Owner, instance, groupID string, action models.ParticipantAction, raw string) ([]string, error) {
	args := m.Called(ctx, owner, instance, groupID, action, raw)
	var list []string
	if val := args.Get(0); val != nil {
		list = val.([]string)
	}
	return list, args.Error(1)
}

func (m *GroupServiceMock) RemoveAllParticipants(ctx context.Context, owner models.Owner, instance, groupID string) (int, error) {
	args := m.Called(ctx, owner, instance, groupID)
	return args.Int(0), args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

func (m *NotificationServiceMock) List(ctx context.Context, owner models.Owner) ([]models.NotificationRule, error) {
	args := m.Called(ctx, owner)
	var list []models.NotificationRule
	if val := args.Get(0); val != nil {
		list = val.([]models.NotificationRule)
	}
	return list, args.Error(1)
}

func (m *NotificationServiceMock) Get(ctx context.Context, owner models.Owner, id string) (*models.NotificationRule, error) {
	args := m.Called(ctx, owner, id)
	var r *models.NotificationRule
	if val := args.Get(0); val != nil {
		r = val.(*models.NotificationRule)
	}
	return r, args.Error(1)
}

func (m *NotificationServiceMock) Save(ctx context.Context, owner models.Owner, input models.NotificationInput) (*models.NotificationRule, error) {
	args := m.Called(ctx, owner, input)
	var r *models.NotificationRule
	if val := args.Get(0); val != nil {
		r = val.(*models.NotificationRule)
	}
	return r, args.Error(1)
}

func (m *NotificationServiceMock) Delete(ctx context.Context, owner models.Owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *NotificationServiceMock) AddMessage(ctx context.Context, owner models.Owner, id string, msg models.Message) (*models.NotificationRule, error) {
	args := m.Called(ctx, owner, id, msg)
	var r *models.NotificationRule
	if val := args.Get(0); val != nil {
		r = val.(*models.NotificationRule)
	}
	return r, args.Error(1)
}

func (m *NotificationServiceMock) RemoveMessage(ctx context.Context, owner models.Owner, id, messageID string) (*models.NotificationRule, error) {
	args := m.Called(ctx, owner, id, messageID)
	var r *models.NotificationRule
	if val := args.Get(0); val != nil {
		r = val.(*models.NotificationRule)
	}
	return r, args.Error(1)
}

func (m *NotificationServiceMock) MoveMessage(ctx context.Context, owner models.Owner, id string, from, to int) (*models.NotificationRule, error) {
	args := m.Called(ctx, owner, id, from, to)
	var r *models.NotificationRule
	if val := args.Get(0); val != nil {
		r = val.(*models.NotificationRule)
	}
	return r, args.Error(1)
}

func (m *NotificationServiceMock) SendTest(ctx context.Context, owner models.Owner, id, phone string) error {
	return m.Called(ctx, owner, id, phone).Error(0)
}

func (m *NotificationServiceMock) WebhookURL(event models.EventType, role models.UserRole, scope string) (string, error) {
	args := m.Called(event, role, scope)
	return args.String(0), args.Error(1)
}

type TutorialServiceMock struct {
	mock.Mock
}

func (m *TutorialServiceMock) List(ctx context.Context) ([]models.Tutorial, *models.TutorialsMetadata, error) {
	args := m.Called(ctx)
	var list []models.Tutorial
	if val := args.Get(0); val != nil {
		list = val.([]models.Tutorial)
	}
	var meta *models.TutorialsMetadata
	if val := args.Get(1); val != nil {
		meta = val.(*models.TutorialsMetadata)
	}
	return list, meta, args.Error(2)
}

func (m *TutorialServiceMock) Get(ctx context.Context, id string) (*models.Tutorial, error) {
	args := m.Called(ctx, id)
	var t *models.Tutorial
	if val := args.Get(0); val != nil {
		t = val.(*models.Tutorial)
	}
	return t, args.Error(1)
}

func (m *TutorialServiceMock) Create(ctx context.Context, actor models.Owner, t *models.Tutorial) (*models.Tutorial, error) {
	args := m.Called(ctx, actor, t)
	var out *models.Tutorial
	if val := args.Get(0); val != nil {
		out = val.(*models.Tutorial)
	}
	return out, args.Error(1)
}

func (m *TutorialServiceMock) Update(ctx context.Context, actor models.Owner, t *models.Tutorial) (*models.Tutorial, error) {
	args := m.Called(ctx, actor, t)
	var out *models.Tutorial
	if val := args.Get(0); val != nil {
		out = val.(*models.Tutorial)
	}
	return out, args.Error(1)
}

func (m *TutorialServiceMock) Delete(ctx context.Context, actor models.Owner, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type CampaignServiceMock struct {
	mock.Mock
}

func (m *CampaignServiceMock) Start(ctx context.Context, owner models.Owner, input models.CampaignInput) (*models.Campaign, error) {
	args := m.Called(ctx, owner, input)
	var c *models.Campaign
	if val := args.Get(0); val != nil {
		c = val.(*models.Campaign)
	}
	return c, args.Error(1)
}

func (m *CampaignServiceMock) List(ctx context.Context, owner models.Owner) ([]models.Campaign, error) {
	args := m.Called(ctx, owner)
	var list []models.Campaign
	if val := args.Get(0); val != nil {
		list = val.([]models.Campaign)
	}
	return list, args.Error(1)
}

func (m *CampaignServiceMock) Get(ctx context.Context, owner models.Owner, id string) (*models.Campaign, error) {
	args := m.Called(ctx, owner, id)
	var c *models.Campaign
	if val := args.Get(0); val != nil {
		c = val.(*models.Campaign)
	}
	return c, args.Error(1)
}

func (m *CampaignServiceMock) Cancel(ctx context.Context, owner models.Owner, id string) (*models.Campaign, error) {
	args := m.Called(ctx, owner, id)
	var c *models.Campaign
	if val := args.Get(0); val != nil {
		c = val.(*models.Campaign)
	}
	return c, args.Error(1)
}

func (m *CampaignServiceMock) UpdateProgress(ctx context.Context, c *models.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

type ContactServiceMock struct {
	mock.Mock
}

func (m *ContactServiceMock) List(ctx context.Context, owner models.Owner) ([]models.Contact, error) {
	args := m.Called(ctx, owner)
	var list []models.Contact
	if val := args.Get(0); val != nil {
		list = val.([]models.Contact)
	}
	return list, args.Error(1)
}

func (m *ContactServiceMock) Import(ctx context.Context, owner models.Owner, raw string, tags []string) (*services.ImportResult, error) {
	args := m.Called(ctx, owner, raw, tags)
	var res *services.ImportResult
	if val := args.Get(0); val != nil {
		res = val.(*services.ImportResult)
	}
	return res, args.Error(1)
}

func (m *ContactServiceMock) Delete(ctx context.Context, owner models.Owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

type InstanceServiceMock struct {
	mock.Mock
}

func (m *InstanceServiceMock) List(ctx context.Context, owner models.Owner) ([]models.Instance, error) {
	args := m.Called(ctx, owner)
	var list []models.Instance
	if val := args.Get(0); val != nil {
		list = val.([]models.Instance)
	}
	return list, args.Error(1)
}

type DashboardServiceMock struct {
	mock.Mock
}

func (m *DashboardServiceMock) Stats(ctx context.Context, owner models.Owner) (*models.DashboardStats, error) {
	args := m.Called(ctx, owner)
	var s *models.DashboardStats
	if val := args.Get(0); val != nil {
		s = val.(*models.DashboardStats)
	}
	return s, args.Error(1)
}

type FallbackServiceMock struct {
	mock.Mock
}

func (m *FallbackServiceMock) Enqueue(ctx context.Context, entry *models.FallbackEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *FallbackServiceMock) Pending(ctx context.Context, owner models.Owner) ([]models.FallbackEntry, error) {
	args := m.Called(ctx, owner)
	var list []models.FallbackEntry
	if val := args.Get(0); val != nil {
		list = val.([]models.FallbackEntry)
	}
	return list, args.Error(1)
}

func (m *FallbackServiceMock) All(ctx context.Context, owner models.Owner) ([]models.FallbackEntry, error) {
	args := m.Called(ctx, owner)
	var list []models.FallbackEntry
	if val := args.Get(0); val != nil {
		list = val.([]models.FallbackEntry)
	}
	return list, args.Error(1)
}

func (m *FallbackServiceMock) Sync(ctx context.Context) (*models.SyncReport, error) {
	args := m.Called(ctx)
	var r *models.SyncReport
	if val := args.Get(0); val != nil {
		r = val.(*models.SyncReport)
	}
	return r, args.Error(1)
}

func (m *FallbackServiceMock) ClearAll(ctx context.Context, owner models.Owner) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

type UploadServiceMock struct {
	mock.Mock
}

func (m *UploadServiceMock) Upload(ctx context.Context, folder, fileName, contentType string, size int64, r io.Reader) (*storage.Object, error) {
	args := m.Called(ctx, folder, fileName, contentType, size, r)
	var obj *storage.Object
	if val := args.Get(0); val != nil {
		obj = val.(*storage.Object)
	}
	return obj, args.Error(1)
}

func (m *UploadServiceMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
