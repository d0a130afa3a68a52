package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/observability"
	"whatsapp_dashboard/internal/queue"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/pkg/evolution"
)

var timeNow = time.Now

// MessageSender is the slice of the Evolution API used for outbound messages.
type MessageSender interface {
	SendText(ctx context.Context, instance, number, text string, delayMs int) (*evolution.SendResponse, error)
	SendMedia(ctx context.Context, instance, number, mediaType, mediaURL, caption, fileName string, delayMs int) (*evolution.SendResponse, error)
	SendAudio(ctx context.Context, instance, number, audioURL string, delayMs int) (*evolution.SendResponse, error)
}

// Dispatcher consumes dispatch jobs and delivers their messages in order.
type Dispatcher struct {
	sender    MessageSender
	campaigns repository.CampaignRepository
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(sender MessageSender, campaigns repository.CampaignRepository) *Dispatcher {
	return &Dispatcher{sender: sender, campaigns: campaigns, sleep: sleepContext}
}

// Handle is a queue.Handler.
func (d *Dispatcher) Handle(ctx context.Context, job queue.Job) error {
	switch job.Kind {
	case queue.JobCampaign:
		if job.CampaignID == "" {
			return d.sendUntracked(ctx, job)
		}
		return d.runCampaign(ctx, job)
	case queue.JobNotificationTest:
		return d.sendUntracked(ctx, job)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

func (d *Dispatcher) sendUntracked(ctx context.Context, job queue.Job) error {
	var errs []error
	for _, r := range job.Recipients {
		if err := d.sendAll(ctx, job.Instance, r, job.Messages); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r, err))
		}
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) runCampaign(ctx context.Context, job queue.Job) error {
	c, err := d.campaigns.Get(ctx, job.CampaignID)
	if err != nil {
		return err
	}
	if c.Status != models.CampaignStarted {
		slog.Info("campaign not pending, skipping", "campaign_id", c.ID, "status", c.Status)
		return nil
	}
	if err := c.TransitionTo(models.CampaignSending, timeNow()); err != nil {
		return err
	}
	c.Total = len(job.Recipients)
	if err := d.campaigns.UpdateProgress(ctx, c); err != nil {
		slog.Error("failed to update campaign progress", "campaign_id", c.ID, "error", err)
	}

	for _, r := range job.Recipients {
		if ctx.Err() != nil {
			c.Error = "dispatch interrupted"
			return d.finish(context.WithoutCancel(ctx), c, models.CampaignError)
		}

		if err := d.sendAll(ctx, job.Instance, r, job.Messages); err != nil {
			c.Failed++
			c.Error = err.Error()
			slog.Warn("campaign send failed", "campaign_id", c.ID, "recipient", r, "error", err)
		} else {
			c.Sent++
		}

		// the status is re-read before every write so a cancel is never overwritten
		if cancelled, err := d.cancelled(ctx, c.ID); err != nil {
			slog.Error("failed to check campaign status", "campaign_id", c.ID, "error", err)
		} else if cancelled {
			slog.Info("campaign cancelled", "campaign_id", c.ID, "sent", c.Sent, "failed", c.Failed)
			return nil
		}
		if err := d.campaigns.UpdateProgress(ctx, c); err != nil {
			slog.Error("failed to update campaign progress", "campaign_id", c.ID, "error", err)
		}
	}

	final := models.CampaignDone
	if c.Sent == 0 && c.Failed > 0 {
		final = models.CampaignError
	} else {
		c.Error = ""
	}
	return d.finish(ctx, c, final)
}

func (d *Dispatcher) finish(ctx context.Context, c *models.Campaign, status models.CampaignStatus) error {
	// a cancel that landed after the last progress write wins over the final status
	if cancelled, err := d.cancelled(ctx, c.ID); err != nil {
		slog.Error("failed to check campaign status", "campaign_id", c.ID, "error", err)
	} else if cancelled {
		slog.Info("campaign cancelled", "campaign_id", c.ID, "sent", c.Sent, "failed", c.Failed)
		return nil
	}
	if err := c.TransitionTo(status, timeNow()); err != nil {
		return err
	}
	slog.Info("campaign finished", "campaign_id", c.ID, "status", c.Status, "sent", c.Sent, "failed", c.Failed)
	return d.campaigns.UpdateProgress(ctx, c)
}

func (d *Dispatcher) cancelled(ctx context.Context, id string) (bool, error) {
	latest, err := d.campaigns.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return latest.Status == models.CampaignCancelled, nil
}

// sendAll sends msgs to one recipient in order, waiting each message's delay before it.
func (d *Dispatcher) sendAll(ctx context.Context, instance, recipient string, msgs []models.Message) error {
	number := phoneFromJID(recipient)
	for i, m := range msgs {
		if m.Delay > 0 {
			if err := d.sleep(ctx, time.Duration(m.Delay)*time.Second); err != nil {
				return err
			}
		}
		if err := d.send(ctx, instance, number, m); err != nil {
			observability.IncMessage(string(m.Type), "failed")
			return fmt.Errorf("message %d: %w", i+1, err)
		}
		observability.IncMessage(string(m.Type), "sent")
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, instance, number string, m models.Message) error {
	var err error
	switch m.Type {
	case models.MessageText:
		_, err = d.sender.SendText(ctx, instance, number, m.Content, 0)
	case models.MessageAudio:
		_, err = d.sender.SendAudio(ctx, instance, number, m.FileURL, 0)
	case models.MessageImage, models.MessageVideo:
		_, err = d.sender.SendMedia(ctx, instance, number, string(m.Type), m.FileURL, m.Content, "", 0)
	case models.MessageDocument:
		_, err = d.sender.SendMedia(ctx, instance, number, string(m.Type), m.FileURL, m.Content, path.Base(m.FileURL), 0)
	default:
		err = fmt.Errorf("unsupported message type %q", m.Type)
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
