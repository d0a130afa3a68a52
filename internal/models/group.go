package models

type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Size         int           `json:"size"`
	IsAnnounce   bool          `json:"is_announce"`
	IsRestricted bool          `json:"is_restricted"`
	InviteCode   string        `json:"invite_code,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

type Participant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// GroupUpdate carries only the fields to change.
type GroupUpdate struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=2048"`
	IsAnnounce   *bool   `json:"is_announce"`
	IsRestricted *bool   `json:"is_restricted"`
}

func (u GroupUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.IsAnnounce == nil && u.IsRestricted == nil
}

type ParticipantAction string

const (
	ParticipantAdd     ParticipantAction = "add"
	ParticipantRemove  ParticipantAction = "remove"
	ParticipantPromote ParticipantAction = "promote"
	ParticipantDemote  ParticipantAction = "demote"
)
