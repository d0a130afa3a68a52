package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageListNeverExceedsFive(t *testing.T) {
	l, err := MessageListOf([]Message{{Type: MessageText}})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Add(Message{Type: MessageText, Content: "oi"}))
	}
	assert.Equal(t, 5, l.Len())
	assert.ErrorIs(t, l.Add(Message{Type: MessageText}), ErrMessageLimit)
	assert.Equal(t, 5, l.Len())
}

func TestMessageListNeverDropsBelowOne(t *testing.T) {
	l, err := MessageListOf([]Message{{Type: MessageText}})
	require.NoError(t, err)
	only := l.Items()[0]
	assert.ErrorIs(t, l.Remove(only.ID), ErrMessageMinimum)
	assert.Equal(t, 1, l.Len())

	require.NoError(t, l.Add(Message{ID: "second", Type: MessageText}))
	require.NoError(t, l.Remove(only.ID))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "second", l.Items()[0].ID)
	assert.ErrorIs(t, l.Remove("second"), ErrMessageMinimum)
}

func TestMessageListMove(t *testing.T) {
	l, err := MessageListOf([]Message{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	require.NoError(t, err)

	require.NoError(t, l.Move(0, 2))
	ids := []string{}
	for _, m := range l.Items() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
	assert.ErrorIs(t, l.Move(0, 3), ErrMessageIndex)
}

func TestMessageListOfBounds(t *testing.T) {
	_, err := MessageListOf(nil)
	assert.ErrorIs(t, err, ErrMessageMinimum)

	_, err = MessageListOf(make([]Message, 6))
	assert.ErrorIs(t, err, ErrMessageLimit)

	l, err := MessageListOf([]Message{{Type: MessageText}})
	require.NoError(t, err)
	assert.NotEmpty(t, l.Items()[0].ID)
}

func TestMessageHasPayload(t *testing.T) {
	assert.True(t, Message{Type: MessageText, Content: "x"}.HasPayload())
	assert.False(t, Message{Type: MessageText}.HasPayload())
	assert.False(t, Message{Type: MessageImage, Content: "caption"}.HasPayload())
	assert.True(t, Message{Type: MessageImage, FileURL: "http://x/y.png"}.HasPayload())
}

func TestCampaignTransitions(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &Campaign{Status: CampaignStarted}

	require.NoError(t, c.TransitionTo(CampaignSending, now))
	require.NotNil(t, c.StartedAt)
	assert.Nil(t, c.FinishedAt)

	require.NoError(t, c.TransitionTo(CampaignDone, now))
	require.NotNil(t, c.FinishedAt)

	err := c.TransitionTo(CampaignSending, now)
	assert.True(t, errors.Is(err, ErrInvalidStatusTransition))
	assert.Equal(t, CampaignDone, c.Status)
}

func TestCampaignStatusValid(t *testing.T) {
	for _, s := range []CampaignStatus{CampaignStarted, CampaignSending, CampaignDone, CampaignError, CampaignCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, CampaignStatus("pausado").Valid())
	assert.False(t, CampaignStarted.CanTransitionTo(CampaignDone))
}

func TestUserOwnerDerivesClientID(t *testing.T) {
	u := &User{ID: "42"}
	assert.Equal(t, Owner{UserID: "42", ClientID: "client_42"}, u.Owner())

	u.ClientID = "acme"
	assert.Equal(t, Owner{UserID: "42", ClientID: "acme"}, u.Owner())
}
