package evolution

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type Group struct {
	ID           string        `json:"id"`
	Subject      string        `json:"subject"`
	Description  string        `json:"desc"`
	Size         int           `json:"size"`
	Owner        string        `json:"owner"`
	PictureURL   string        `json:"pictureUrl"`
	Announce     bool          `json:"announce"`
	Restrict     bool          `json:"restrict"`
	Creation     int64         `json:"creation"`
	Participants []Participant `json:"participants"`
}

// Participant.Admin is "admin", "superadmin" or empty.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Admin string `json:"admin"`
}

const (
	SettingAnnouncement    = "announcement"
	SettingNotAnnouncement = "not_announcement"
	SettingLocked          = "locked"
	SettingUnlocked        = "unlocked"
)

const (
	ParticipantAdd     = "add"
	ParticipantRemove  = "remove"
	ParticipantPromote = "promote"
	ParticipantDemote  = "demote"
)

type InviteCode struct {
	InviteURL  string `json:"inviteUrl"`
	InviteCode string `json:"inviteCode"`
}

func (c *Client) FetchAllGroups(ctx context.Context, instance string, withParticipants bool) ([]Group, error) {
	var groups []Group
	q := url.Values{"getParticipants": {strconv.FormatBool(withParticipants)}}
	if err := c.do(ctx, http.MethodGet, instancePath("/group/fetchAllGroups", instance), q, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) FindGroup(ctx context.Context, instance, groupJID string) (*Group, error) {
	var group Group
	if err := c.do(ctx, http.MethodGet, instancePath("/group/findGroupInfos", instance), groupQuery(groupJID), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) Participants(ctx context.Context, instance, groupJID string) ([]Participant, error) {
	var resp struct {
		Participants []Participant `json:"participants"`
	}
	if err := c.do(ctx, http.MethodGet, instancePath("/group/participants", instance), groupQuery(groupJID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

// CreateGroup takes participants as bare numbers or JIDs.
func (c *Client) CreateGroup(ctx context.Context, instance, subject, description string, participants []string) (*Group, error) {
	body := map[string]any{
		"subject":      subject,
		"participants": participants,
	}
	if description != "" {
		body["description"] = description
	}
	var group Group
	if err := c.do(ctx, http.MethodPost, instancePath("/group/create", instance), nil, body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateSubject(ctx context.Context, instance, groupJID, subject string) error {
	return c.do(ctx, http.MethodPost, instancePath("/group/updateGroupSubject", instance), groupQuery(groupJID),
		map[string]string{"subject": subject}, nil)
}

func (c *Client) UpdateDescription(ctx context.Context, instance, groupJID, description string) error {
	return c.do(ctx, http.MethodPost, instancePath("/group/updateGroupDescription", instance), groupQuery(groupJID),
		map[string]string{"description": description}, nil)
}

func (c *Client) UpdateSetting(ctx context.Context, instance, groupJID, action string) error {
	return c.do(ctx, http.MethodPost, instancePath("/group/updateSetting", instance), groupQuery(groupJID),
		map[string]string{"action": action}, nil)
}

func (c *Client) UpdateParticipants(ctx context.Context, instance, groupJID, action string, participants []string) error {
	return c.do(ctx, http.MethodPost, instancePath("/group/updateParticipant", instance), groupQuery(groupJID),
		map[string]any{"action": action, "participants": participants}, nil)
}

func (c *Client) InviteCode(ctx context.Context, instance, groupJID string) (*InviteCode, error) {
	var code InviteCode
	if err := c.do(ctx, http.MethodGet, instancePath("/group/inviteCode", instance), groupQuery(groupJID), nil, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (c *Client) LeaveGroup(ctx context.Context, instance, groupJID string) error {
	return c.do(ctx, http.MethodDelete, instancePath("/group/leaveGroup", instance), groupQuery(groupJID), nil, nil)
}
