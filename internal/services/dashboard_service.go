package services

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/repository"
)

type DashboardService interface {
	Stats(ctx context.Context, owner models.Owner) (*models.DashboardStats, error)
}

type dashboardService struct {
	rules     repository.NotificationRepository
	campaigns repository.CampaignRepository
	tutorials TutorialService
	instances InstanceService
}

func NewDashboardService(rules repository.NotificationRepository, campaigns repository.CampaignRepository, tutorials TutorialService, instances InstanceService) DashboardService {
	return &dashboardService{rules: rules, campaigns: campaigns, tutorials: tutorials, instances: instances}
}

// Stats never fails on a single source: its fields stay zero and Partial is set.
func (s *dashboardService) Stats(ctx context.Context, owner models.Owner) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		RulesByEvent:      map[models.EventType]int{},
		CampaignsByStatus: map[models.CampaignStatus]int{},
	}
	var partial atomic.Bool

	// each goroutine writes only its own fields
	g, gctx := errgroup.WithContext(ctx)
	soft := func(source string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				slog.Warn("dashboard source failed", "source", source, "error", err)
				partial.Store(true)
			}
			return nil
		})
	}

	soft("rules", func(ctx context.Context) error {
		rules, err := s.rules.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		stats.Rules = len(rules)
		for _, r := range rules {
			stats.RulesByEvent[r.EventType]++
		}
		return nil
	})
	soft("campaigns", func(ctx context.Context) error {
		campaigns, err := s.campaigns.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		stats.Campaigns = len(campaigns)
		for _, c := range campaigns {
			stats.CampaignsByStatus[c.Status]++
			stats.MessagesSent += c.Sent
			stats.MessagesFailed += c.Failed
		}
		return nil
	})
	soft("tutorials", func(ctx context.Context) error {
		tutorials, _, err := s.tutorials.List(ctx)
		if err != nil {
			return err
		}
		stats.Tutorials = len(tutorials)
		return nil
	})
	soft("instances", func(ctx context.Context) error {
		instances, err := s.instances.List(ctx, owner)
		if err != nil {
			return err
		}
		stats.Instances = len(instances)
		for _, i := range instances {
			if i.Connected() {
				stats.ConnectedInstances++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	stats.Partial = partial.Load()
	return stats, nil
}
