package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"teamsync/chat"
	"teamsync/models"
	"teamsync/store"
)

var (
	upgrader  = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	clientsMu sync.Mutex
	clients   = make(map[*websocket.Conn]*wsClient)
)

// wsClient is one connected browser. Its general-channel view is opened once
// for the connection lifetime; private-channel views are opened and closed by
// client commands, at most one per channel id.
type wsClient struct {
	conn   *websocket.Conn
	user   models.User
	engine *chat.Engine

	writeMu sync.Mutex

	viewMu       sync.Mutex
	generalView  *chat.View[models.ChatMessage]
	privateViews map[string]*chat.View[models.PrivateMessage]
}

func (c *wsClient) sendJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// wsRequest is the envelope for every client command.
type wsRequest struct {
	Action   string `json:"action"`
	Text     string `json:"text"`
	PeerCode string `json:"peerCode"`
	PeerName string `json:"peerName"`
}

// Command dispatch table, keyed by action name.
var wsActions = map[string]func(ctx context.Context, c *wsClient, req wsRequest) error{
	"send_general":  doSendGeneral,
	"send_private":  doSendPrivate,
	"open_private":  doOpenPrivate,
	"close_private": doClosePrivate,
}

func HandleConnections(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := RequireLogin(r)
	if !loggedIn {
		http.Error(w, "Unauthorized access. Please log in.", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	client := &wsClient{
		conn:         conn,
		user:         user,
		engine:       chatEngine(user),
		privateViews: make(map[string]*chat.View[models.PrivateMessage]),
	}

	view, err := client.engine.ObserveGeneral()
	if err != nil {
		log.Printf("Error subscribing %s to general chat: %v", user.Code, err)
		conn.WriteJSON(map[string]string{"type": "error", "error": "Could not open the team chat."})
		return
	}
	client.generalView = view
	go func() {
		for batch := range view.C {
			if err := client.sendJSON(map[string]interface{}{
				"type":     "generalChat",
				"messages": batch,
			}); err != nil {
				log.Printf("Error pushing general chat to %s: %v", user.Code, err)
				return
			}
		}
	}()

	clientsMu.Lock()
	clients[conn] = client
	broadcastOnlineMembers()
	clientsMu.Unlock()

	defer cleanupClient(client)

	ctx := r.Context()
	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			log.Println("Error reading message:", err)
			break
		}

		action, ok := wsActions[req.Action]
		if !ok {
			client.sendJSON(map[string]string{"type": "error", "error": "Unknown action: " + req.Action})
			continue
		}

		if err := action(ctx, client, req); err != nil {
			client.sendJSON(map[string]string{"type": "error", "error": userFacing(err)})
		}
	}
}

// userFacing reduces an engine failure to the one message the client sees.
func userFacing(err error) string {
	if models.IsValidation(err) {
		return err.Error()
	}
	log.Printf("Store error: %v", err)
	if errors.Is(err, store.ErrUnavailable) {
		return "The server could not reach the data store. Please try again."
	}
	return "Something went wrong. Please try again."
}

func doSendGeneral(ctx context.Context, c *wsClient, req wsRequest) error {
	return c.engine.SendGeneral(ctx, req.Text)
}

func doSendPrivate(ctx context.Context, c *wsClient, req wsRequest) error {
	return c.engine.SendPrivate(ctx, req.PeerCode, req.PeerName, req.Text)
}

// doOpenPrivate opens a live view of the pair channel with the requested
// peer. Opening an already-open channel is a no-op, so re-entrant UI setup
// cannot double-subscribe.
func doOpenPrivate(ctx context.Context, c *wsClient, req wsRequest) error {
	channelID := c.engine.ChannelWith(req.PeerCode)

	c.viewMu.Lock()
	if _, open := c.privateViews[channelID]; open {
		c.viewMu.Unlock()
		return nil
	}
	view, err := c.engine.ObservePrivate(channelID)
	if err != nil {
		c.viewMu.Unlock()
		return err
	}
	c.privateViews[channelID] = view
	c.viewMu.Unlock()

	go func() {
		for batch := range view.C {
			if err := c.sendJSON(map[string]interface{}{
				"type":     "privateChat",
				"chatId":   channelID,
				"peerName": req.PeerName,
				"messages": batch,
			}); err != nil {
				log.Printf("Error pushing private chat %s to %s: %v", channelID, c.user.Code, err)
				return
			}
		}
	}()
	return nil
}

func doClosePrivate(ctx context.Context, c *wsClient, req wsRequest) error {
	channelID := c.engine.ChannelWith(req.PeerCode)

	c.viewMu.Lock()
	view, open := c.privateViews[channelID]
	delete(c.privateViews, channelID)
	c.viewMu.Unlock()

	if open {
		view.Close()
	}
	return nil
}

func cleanupClient(c *wsClient) {
	clientsMu.Lock()
	delete(clients, c.conn)
	broadcastOnlineMembers()
	clientsMu.Unlock()

	c.generalView.Close()

	c.viewMu.Lock()
	views := c.privateViews
	c.privateViews = make(map[string]*chat.View[models.PrivateMessage])
	c.viewMu.Unlock()
	for _, view := range views {
		view.Close()
	}
}

// broadcastOnlineMembers pushes the connected-member list to every client.
// Callers hold clientsMu.
func broadcastOnlineMembers() {
	memberList := make([]map[string]string, 0, len(clients))
	for _, client := range clients {
		memberList = append(memberList, map[string]string{
			"code": client.user.Code,
			"name": client.user.Name,
		})
	}

	message := map[string]interface{}{
		"type":    "onlineMembers",
		"members": memberList,
	}

	for conn, client := range clients {
		if err := client.sendJSON(message); err != nil {
			log.Println("Error sending member list:", err)
			client.conn.Close()
			delete(clients, conn)
		}
	}
}
