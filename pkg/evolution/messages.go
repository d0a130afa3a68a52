package evolution

import (
	"context"
	"net/http"
)

type SendResponse struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

// SendText sends a text message. delayMs makes the gateway show "typing" for that long first.
func (c *Client) SendText(ctx context.Context, instance, number, text string, delayMs int) (*SendResponse, error) {
	body := map[string]any{
		"number": number,
		"text":   text,
	}
	if delayMs > 0 {
		body["delay"] = delayMs
	}
	var resp SendResponse
	if err := c.do(ctx, http.MethodPost, instancePath("/message/sendText", instance), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMedia sends an image, video or document by URL.
func (c *Client) SendMedia(ctx context.Context, instance, number, mediaType, mediaURL, caption, fileName string, delayMs int) (*SendResponse, error) {
	body := map[string]any{
		"number":    number,
		"mediatype": mediaType,
		"media":     mediaURL,
	}
	if caption != "" {
		body["caption"] = caption
	}
	if fileName != "" {
		body["fileName"] = fileName
	}
	if delayMs > 0 {
		body["delay"] = delayMs
	}
	var resp SendResponse
	if err := c.do(ctx, http.MethodPost, instancePath("/message/sendMedia", instance), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendAudio sends a voice note by URL.
func (c *Client) SendAudio(ctx context.Context, instance, number, audioURL string, delayMs int) (*SendResponse, error) {
	body := map[string]any{
		"number": number,
		"audio":  audioURL,
	}
	if delayMs > 0 {
		body["delay"] = delayMs
	}
	var resp SendResponse
	if err := c.do(ctx, http.MethodPost, instancePath("/message/sendWhatsAppAudio", instance), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
