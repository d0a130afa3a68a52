package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/queue"
	"whatsapp_dashboard/internal/repository"
)

type CampaignService interface {
	// Start logs the campaign and queues it for sending.
	Start(ctx context.Context, owner models.Owner, input models.CampaignInput) (*models.Campaign, error)
	List(ctx context.Context, owner models.Owner) ([]models.Campaign, error)
	Get(ctx context.Context, owner models.Owner, id string) (*models.Campaign, error)
	Cancel(ctx context.Context, owner models.Owner, id string) (*models.Campaign, error)
	UpdateProgress(ctx context.Context, c *models.Campaign) error
}

type campaignService struct {
	campaigns repository.CampaignRepository
	publisher queue.Publisher
}

func NewCampaignService(campaigns repository.CampaignRepository, publisher queue.Publisher) CampaignService {
	return &campaignService{campaigns: campaigns, publisher: publisher}
}

func (s *campaignService) Start(ctx context.Context, owner models.Owner, input models.CampaignInput) (*models.Campaign, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.InstanceID) == "" {
		return nil, fmt.Errorf("%w: name and instance are required", ErrInvalidInput)
	}
	recipients := NormalizeParticipants(input.Recipients)
	if len(recipients) == 0 {
		return nil, ErrNoParticipants
	}
	msgs, err := validateMessages(input.Messages)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		Name:       name,
		InstanceID: strings.TrimSpace(input.InstanceID),
		Recipients: recipients,
		Messages:   msgs,
		Status:     models.CampaignStarted,
		Total:      len(recipients),
		Owner:      owner,
	}

	saved, err := s.campaigns.Create(ctx, campaign, owner)
	saved, err = savedOrQueued(saved, campaign, err)
	if saved == nil {
		return nil, err
	}
	// a queued log has no id yet, so the job runs without progress tracking
	if errors.Is(err, ErrStoredLocally) {
		slog.Warn("campaign log queued, sending without progress tracking", "name", saved.Name)
	}

	job := queue.Job{
		Kind:       queue.JobCampaign,
		CampaignID: saved.ID,
		Instance:   saved.InstanceID,
		Recipients: recipients,
		Messages:   msgs,
	}
	if pubErr := s.publisher.Publish(ctx, job); pubErr != nil {
		if saved.ID != "" {
			saved.Error = pubErr.Error()
			if tErr := saved.TransitionTo(models.CampaignError, timeNow()); tErr == nil {
				if uErr := s.campaigns.UpdateProgress(ctx, saved); uErr != nil {
					slog.Error("failed to mark campaign as failed", "campaign_id", saved.ID, "error", uErr)
				}
			}
		}
		return nil, fmt.Errorf("failed to queue campaign: %w", pubErr)
	}
	return saved, err
}

func (s *campaignService) List(ctx context.Context, owner models.Owner) ([]models.Campaign, error) {
	return s.campaigns.ListByOwner(ctx, owner)
}

func (s *campaignService) Get(ctx context.Context, owner models.Owner, id string) (*models.Campaign, error) {
	return s.campaigns.GetOwned(ctx, id, owner)
}

func (s *campaignService) Cancel(ctx context.Context, owner models.Owner, id string) (*models.Campaign, error) {
	c, err := s.campaigns.GetOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if err := c.TransitionTo(models.CampaignCancelled, timeNow()); err != nil {
		return nil, err
	}
	if err := s.campaigns.UpdateProgress(ctx, c); err != nil && !errors.Is(err, ErrStoredLocally) {
		return nil, err
	}
	return c, nil
}

func (s *campaignService) UpdateProgress(ctx context.Context, c *models.Campaign) error {
	return s.campaigns.UpdateProgress(ctx, c)
}
