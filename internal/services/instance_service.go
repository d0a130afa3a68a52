package services

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/pkg/evolution"
)

const instanceStatusUnknown = "unknown"

type InstanceLister interface {
	FetchInstances(ctx context.Context) ([]evolution.Instance, error)
}

type InstanceService interface {
	List(ctx context.Context, owner models.Owner) ([]models.Instance, error)
}

type instanceService struct {
	instances repository.InstanceRepository
	gateway   InstanceLister
}

func NewInstanceService(instances repository.InstanceRepository, gateway InstanceLister) InstanceService {
	return &instanceService{instances: instances, gateway: gateway}
}

// List returns the owner's instances with their live connection status. When the gateway
// cannot be reached every status is unknown.
func (s *instanceService) List(ctx context.Context, owner models.Owner) ([]models.Instance, error) {
	owned, err := s.instances.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	live, err := s.gateway.FetchInstances(ctx)
	if err != nil {
		slog.Warn("failed to fetch instance status", "error", err)
	}
	byName := lo.KeyBy(live, func(i evolution.Instance) string { return i.Name })

	return lo.Map(owned, func(i models.Instance, _ int) models.Instance {
		i.ConnectionStatus = instanceStatusUnknown
		if l, ok := byName[i.Name]; ok {
			i.ConnectionStatus = l.ConnectionStatus
			i.ProfileName = l.ProfileName
			i.Number = l.Number
		}
		return i
	}), nil
}
