// Package chat keeps message channels in sync with the shared store: one
// general channel everyone sees, and private channels addressed by the
// derived pair id. Sends are appends; views are live subscriptions that
// replace their whole contents on every store notification.
package chat

import (
	"context"
	"strings"

	"teamsync/identity"
	"teamsync/models"
	"teamsync/store"
	"teamsync/utils"
)

const (
	GeneralCollection = "generalChat"
	PrivatePrefix     = "privateChats/"
	RosterCollection  = "members"
)

type Engine struct {
	store store.Store
	id    *identity.Context
}

func NewEngine(st store.Store, id *identity.Context) *Engine {
	return &Engine{store: st, id: id}
}

// SendGeneral appends a message to the shared channel.
func (e *Engine) SendGeneral(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ValidationError("message cannot be empty")
	}

	user := e.id.Current()
	return e.store.Append(ctx, GeneralCollection, models.ChatMessage{
		Author:     user.Name,
		AuthorCode: user.Code,
		Text:       text,
		Timestamp:  utils.Timestamp(),
		Type:       "general",
	})
}

// ObserveGeneral opens a live view of the shared channel. The first batch is
// the current history; every later batch replaces it entirely.
func (e *Engine) ObserveGeneral() (*View[models.ChatMessage], error) {
	return observe[models.ChatMessage](e.store, GeneralCollection,
		func(m models.ChatMessage) string { return m.Timestamp })
}

// SendPrivate appends a message to the pair channel shared with peerCode.
// The channel id is derived, never taken from the caller.
func (e *Engine) SendPrivate(ctx context.Context, peerCode, peerName, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ValidationError("message cannot be empty")
	}

	user := e.id.Current()
	channelID := identity.ChannelID(user.Code, peerCode)
	return e.store.Append(ctx, PrivatePrefix+channelID, models.PrivateMessage{
		Sender:     user.Name,
		SenderCode: user.Code,
		Receiver:   peerName,
		Text:       text,
		Timestamp:  utils.Timestamp(),
		ChannelID:  channelID,
	})
}

// ChannelWith returns the derived id of the pair channel shared with peer.
func (e *Engine) ChannelWith(peerCode string) string {
	return identity.ChannelID(e.id.Current().Code, peerCode)
}

// ObservePrivate opens a live view of one pair channel.
func (e *Engine) ObservePrivate(channelID string) (*View[models.PrivateMessage], error) {
	return observe[models.PrivateMessage](e.store, PrivatePrefix+channelID,
		func(m models.PrivateMessage) string { return m.Timestamp })
}

// SearchPeers matches the roster by case-insensitive name or code substring,
// excluding the current user. The bool reports whether a search ran at all:
// a blank query returns (nil, false, nil) so callers can tell "nothing
// typed" from "no matches".
func (e *Engine) SearchPeers(ctx context.Context, query string) ([]models.Member, bool, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, false, nil
	}

	snap, err := e.store.ReadAll(ctx, RosterCollection)
	if err != nil {
		return nil, false, err
	}

	self := e.id.Current().Code
	matches := []models.Member{}
	for _, member := range decodeMembers(snap) {
		if member.Code == self {
			continue
		}
		if strings.Contains(strings.ToLower(member.Name), query) ||
			strings.Contains(strings.ToLower(member.Code), query) {
			member.CodeHash = ""
			matches = append(matches, member)
		}
	}
	return matches, true, nil
}
