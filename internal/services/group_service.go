package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/pkg/evolution"
)

// GroupGateway is the slice of the Evolution API used for group management.
type GroupGateway interface {
	FetchAllGroups(ctx context.Context, instance string, withParticipants bool) ([]evolution.Group, error)
	FindGroup(ctx context.Context, instance, groupJID string) (*evolution.Group, error)
	Participants(ctx context.Context, instance, groupJID string) ([]evolution.Participant, error)
	CreateGroup(ctx context.Context, instance, subject, description string, participants []string) (*evolution.Group, error)
	UpdateSubject(ctx context.Context, instance, groupJID, subject string) error
	UpdateDescription(ctx context.Context, instance, groupJID, description string) error
	UpdateSetting(ctx context.Context, instance, groupJID, action string) error
	UpdateParticipants(ctx context.Context, instance, groupJID, action string, participants []string) error
	InviteCode(ctx context.Context, instance, groupJID string) (*evolution.InviteCode, error)
	LeaveGroup(ctx context.Context, instance, groupJID string) error
}

// PermissionError lists the participants an action may not be applied to.
type PermissionError struct {
	Action       models.ParticipantAction
	Participants []string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot %s participants: %s", e.Action, strings.Join(e.Participants, ", "))
}

func (e *PermissionError) Unwrap() error { return ErrForbidden }

type GroupService interface {
	List(ctx context.Context, owner models.Owner, instance string) ([]models.Group, error)
	Get(ctx context.Context, owner models.Owner, instance, groupID string) (*models.Group, error)
	Create(ctx context.Context, owner models.Owner, instance, name, description, rawParticipants string) (*models.Group, error)
	Update(ctx context.Context, owner models.Owner, instance, groupID string, update models.GroupUpdate) error
	Delete(ctx context.Context, owner models.Owner, instance, groupID string) error
	InviteCode(ctx context.Context, owner models.Owner, instance, groupID string) (string, error)
	Participants(ctx context.Context, owner models.Owner, instance, groupID string) ([]models.Participant, error)
	ApplyParticipantAction(ctx context.Context, owner models.Owner, instance, groupID string, action models.ParticipantAction, raw string) ([]string, error)
	RemoveAllParticipants(ctx context.Context, owner models.Owner, instance, groupID string) (int, error)
}

type groupService struct {
	gateway   GroupGateway
	instances repository.InstanceRepository
}

// NewGroupService checks instance ownership against instances when it is non-nil.
func NewGroupService(gateway GroupGateway, instances repository.InstanceRepository) GroupService {
	return &groupService{gateway: gateway, instances: instances}
}

func (s *groupService) List(ctx context.Context, owner models.Owner, instance string) ([]models.Group, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return nil, err
	}
	groups, err := s.gateway.FetchAllGroups(ctx, instance, false)
	if err != nil {
		return nil, err
	}
	return lo.Map(groups, func(g evolution.Group, _ int) models.Group {
		return groupFromGateway(g)
	}), nil
}

func (s *groupService) Get(ctx context.Context, owner models.Owner, instance, groupID string) (*models.Group, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return nil, err
	}
	g, err := s.gateway.FindGroup(ctx, instance, groupID)
	if err != nil {
		return nil, err
	}
	group := groupFromGateway(*g)
	return &group, nil
}

func (s *groupService) Create(ctx context.Context, owner models.Owner, instance, name, description, rawParticipants string) (*models.Group, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	participants := NormalizeParticipants(rawParticipants)
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	g, err := s.gateway.CreateGroup(ctx, instance, name, strings.TrimSpace(description), participants)
	if err != nil {
		return nil, err
	}
	group := groupFromGateway(*g)
	return &group, nil
}

func (s *groupService) Update(ctx context.Context, owner models.Owner, instance, groupID string, update models.GroupUpdate) error {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return err
	}
	if update.Empty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if update.Name != nil {
		if err := s.gateway.UpdateSubject(ctx, instance, groupID, strings.TrimSpace(*update.Name)); err != nil {
			return err
		}
	}
	if update.Description != nil {
		if err := s.gateway.UpdateDescription(ctx, instance, groupID, *update.Description); err != nil {
			return err
		}
	}
	if update.IsAnnounce != nil {
		action := evolution.SettingNotAnnouncement
		if *update.IsAnnounce {
			action = evolution.SettingAnnouncement
		}
		if err := s.gateway.UpdateSetting(ctx, instance, groupID, action); err != nil {
			return err
		}
	}
	if update.IsRestricted != nil {
		action := evolution.SettingUnlocked
		if *update.IsRestricted {
			action = evolution.SettingLocked
		}
		if err := s.gateway.UpdateSetting(ctx, instance, groupID, action); err != nil {
			return err
		}
	}
	return nil
}

func (s *groupService) Delete(ctx context.Context, owner models.Owner, instance, groupID string) error {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return err
	}
	return s.gateway.LeaveGroup(ctx, instance, groupID)
}

func (s *groupService) InviteCode(ctx context.Context, owner models.Owner, instance, groupID string) (string, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return "", err
	}
	code, err := s.gateway.InviteCode(ctx, instance, groupID)
	if err != nil {
		return "", err
	}
	if code.InviteURL != "" {
		return code.InviteURL, nil
	}
	return "https://chat.whatsapp.com/" + code.InviteCode, nil
}

func (s *groupService) Participants(ctx context.Context, owner models.Owner, instance, groupID string) ([]models.Participant, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return nil, err
	}
	return s.participants(ctx, instance, groupID)
}

func (s *groupService) participants(ctx context.Context, instance, groupID string) ([]models.Participant, error) {
	ps, err := s.gateway.Participants(ctx, instance, groupID)
	if err != nil {
		return nil, err
	}
	return lo.Map(ps, func(p evolution.Participant, _ int) models.Participant {
		return participantFromGateway(p)
	}), nil
}

// ApplyParticipantAction adds, removes, promotes or demotes the participants parsed from raw
// and returns the JIDs sent to the gateway.
func (s *groupService) ApplyParticipantAction(ctx context.Context, owner models.Owner, instance, groupID string, action models.ParticipantAction, raw string) ([]string, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return nil, err
	}
	targets := NormalizeParticipants(raw)
	if len(targets) == 0 {
		return nil, ErrNoParticipants
	}

	var gatewayAction string
	switch action {
	case models.ParticipantAdd:
		gatewayAction = evolution.ParticipantAdd
	case models.ParticipantRemove:
		gatewayAction = evolution.ParticipantRemove
	case models.ParticipantPromote:
		gatewayAction = evolution.ParticipantPromote
	case models.ParticipantDemote:
		gatewayAction = evolution.ParticipantDemote
	default:
		return nil, fmt.Errorf("%w: unknown participant action %q", ErrInvalidInput, action)
	}

	if action != models.ParticipantAdd {
		current, err := s.participants(ctx, instance, groupID)
		if err != nil {
			return nil, err
		}
		if err := checkParticipantPermissions(action, targets, current); err != nil {
			return nil, err
		}
	}

	if err := s.gateway.UpdateParticipants(ctx, instance, groupID, gatewayAction, targets); err != nil {
		return nil, err
	}
	return targets, nil
}

func (s *groupService) RemoveAllParticipants(ctx context.Context, owner models.Owner, instance, groupID string) (int, error) {
	if err := s.checkInstance(ctx, owner, instance); err != nil {
		return 0, err
	}
	current, err := s.participants(ctx, instance, groupID)
	if err != nil {
		return 0, err
	}
	targets := lo.FilterMap(current, func(p models.Participant, _ int) (string, bool) {
		return p.ID, !p.IsSuperAdmin
	})
	if len(targets) == 0 {
		return 0, nil
	}
	if err := s.gateway.UpdateParticipants(ctx, instance, groupID, evolution.ParticipantRemove, targets); err != nil {
		return 0, err
	}
	return len(targets), nil
}

func (s *groupService) checkInstance(ctx context.Context, owner models.Owner, instance string) error {
	if strings.TrimSpace(instance) == "" {
		return fmt.Errorf("%w: instance is required", ErrInvalidInput)
	}
	if s.instances == nil {
		return nil
	}
	owned, err := s.instances.ListByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if !lo.ContainsBy(owned, func(i models.Instance) bool { return i.Name == instance }) {
		return fmt.Errorf("%w: instance %s", ErrForbidden, instance)
	}
	return nil
}

// checkParticipantPermissions rejects promotes of admins, demotes of non-admins or super-admins,
// removals of super-admins and any target that is not a member.
func checkParticipantPermissions(action models.ParticipantAction, targets []string, current []models.Participant) error {
	byID := lo.KeyBy(current, func(p models.Participant) string { return p.ID })

	offending := lo.Filter(targets, func(jid string, _ int) bool {
		p, ok := byID[jid]
		if !ok {
			return true
		}
		switch action {
		case models.ParticipantPromote:
			return p.IsAdmin
		case models.ParticipantDemote:
			return !p.IsAdmin || p.IsSuperAdmin
		case models.ParticipantRemove:
			return p.IsSuperAdmin
		}
		return false
	})
	if len(offending) > 0 {
		return &PermissionError{Action: action, Participants: offending}
	}
	return nil
}

func groupFromGateway(g evolution.Group) models.Group {
	size := g.Size
	if size == 0 {
		size = len(g.Participants)
	}
	return models.Group{
		ID:           g.ID,
		Name:         g.Subject,
		Description:  g.Description,
		Size:         size,
		IsAnnounce:   g.Announce,
		IsRestricted: g.Restrict,
		Participants: lo.Map(g.Participants, func(p evolution.Participant, _ int) models.Participant {
			return participantFromGateway(p)
		}),
	}
}

func participantFromGateway(p evolution.Participant) models.Participant {
	superAdmin := p.Admin == "superadmin"
	return models.Participant{
		ID:           p.ID,
		Name:         p.Name,
		PhoneNumber:  phoneFromJID(p.ID),
		IsAdmin:      superAdmin || p.Admin == "admin",
		IsSuperAdmin: superAdmin,
	}
}

// IsPermissionError reports whether err came from a participant permission check.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
