package evolution

import (
	"context"
	"encoding/json"
	"net/http"
)

type Instance struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ConnectionStatus string `json:"connectionStatus"`
	OwnerJID         string `json:"ownerJid"`
	ProfileName      string `json:"profileName"`
	ProfilePicURL    string `json:"profilePicUrl"`
	Integration      string `json:"integration"`
	Number           string `json:"number"`
}

// UnmarshalJSON also accepts the v1 shape {"instance":{"instanceName":..,"status":..}}.
func (i *Instance) UnmarshalJSON(data []byte) error {
	type plain Instance
	var v2 plain
	if err := json.Unmarshal(data, &v2); err != nil {
		return err
	}
	*i = Instance(v2)
	if i.Name != "" {
		return nil
	}

	var v1 struct {
		Instance struct {
			InstanceID   string `json:"instanceId"`
			InstanceName string `json:"instanceName"`
			Owner        string `json:"owner"`
			ProfileName  string `json:"profileName"`
			Status       string `json:"status"`
		} `json:"instance"`
	}
	if err := json.Unmarshal(data, &v1); err != nil {
		return err
	}
	i.ID = v1.Instance.InstanceID
	i.Name = v1.Instance.InstanceName
	i.OwnerJID = v1.Instance.Owner
	i.ProfileName = v1.Instance.ProfileName
	i.ConnectionStatus = v1.Instance.Status
	return nil
}

func (c *Client) FetchInstances(ctx context.Context) ([]Instance, error) {
	var instances []Instance
	if err := c.do(ctx, http.MethodGet, "/instance/fetchInstances", nil, nil, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}
