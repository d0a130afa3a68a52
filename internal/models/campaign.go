package models

import (
	"fmt"
	"time"
)

type CampaignStatus string

const (
	CampaignStarted   CampaignStatus = "iniciado"
	CampaignSending   CampaignStatus = "enviando"
	CampaignDone      CampaignStatus = "concluido"
	CampaignError     CampaignStatus = "erro"
	CampaignCancelled CampaignStatus = "cancelado"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStarted: {CampaignSending, CampaignCancelled, CampaignError},
	CampaignSending: {CampaignDone, CampaignError, CampaignCancelled},
}

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStarted, CampaignSending, CampaignDone, CampaignError, CampaignCancelled:
		return true
	}
	return false
}

func (s CampaignStatus) Terminal() bool {
	return s == CampaignDone || s == CampaignError || s == CampaignCancelled
}

func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	InstanceID string         `json:"instance_id"`
	Recipients []string       `json:"recipients"`
	Messages   []Message      `json:"messages"`
	Status     CampaignStatus `json:"status"`
	Total      int            `json:"total"`
	Sent       int            `json:"sent"`
	Failed     int            `json:"failed"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Error      string         `json:"error,omitempty"`

	// Owner comes from the row's owner columns and is not serialised.
	Owner Owner `json:"-"`
}

// TransitionTo moves the campaign to next, stamping FinishedAt on terminal states.
func (c *Campaign) TransitionTo(next CampaignStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, c.Status, next)
	}
	c.Status = next
	if next == CampaignSending && c.StartedAt == nil {
		c.StartedAt = &now
	}
	if next.Terminal() {
		c.FinishedAt = &now
	}
	return nil
}

type CampaignInput struct {
	Name       string    `json:"name" binding:"required,max=120"`
	InstanceID string    `json:"instance_id" binding:"required"`
	Recipients string    `json:"recipients" binding:"required"`
	Messages   []Message `json:"messages" binding:"required,min=1,max=5,dive"`
}
