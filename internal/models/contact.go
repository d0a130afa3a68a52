package models

type Contact struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags,omitempty"`
}

type Instance struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ConnectionStatus string `json:"connection_status"`
	ProfileName      string `json:"profile_name,omitempty"`
	Number           string `json:"number,omitempty"`
}

// Connected reports whether the gateway has an open WhatsApp session.
func (i Instance) Connected() bool {
	return i.ConnectionStatus == "open"
}
