package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"icebreaker-service/internal/app"
	"icebreaker-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	gate     *app.Gate
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, gate *app.Gate) *WSHandler {
	return &WSHandler{
		service: service,
		gate:    gate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectGroupPayload struct {
	Group string `json:"group"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS checks the quiz passcode, upgrades the connection and runs one quiz
// session for its lifetime.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Navigate(domain.ViewQuiz, r.URL.Query().Get("passcode")); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	state := h.service.Open(ctx)
	sessionID := state.SessionID
	defer h.service.Close(ctx, sessionID)

	if err := conn.WriteJSON(outboundMessage[domain.SessionState]{Type: "state", Payload: state}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		state, err := h.dispatch(r, sessionID, inbound)
		var out any
		if err != nil {
			out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		} else {
			out = outboundMessage[domain.SessionState]{Type: "state", Payload: state}
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

var errUnsupportedMessage = errors.New("unsupported message type")

func (h *WSHandler) dispatch(r *http.Request, sessionID string, msg inboundMessage) (domain.SessionState, error) {
	ctx := r.Context()
	switch msg.Type {
	case "selectGroup":
		var payload selectGroupPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return domain.SessionState{}, errors.New("invalid selectGroup payload")
		}
		return h.service.SelectGroup(ctx, sessionID, payload.Group)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return domain.SessionState{}, errors.New("invalid answer payload")
		}
		return h.service.SubmitAnswer(ctx, sessionID, payload.Choice)
	case "hint":
		return h.service.RevealHint(ctx, sessionID)
	case "skip":
		return h.service.Skip(ctx, sessionID)
	case "next":
		return h.service.Next(ctx, sessionID)
	case "changeGroup":
		return h.service.ChangeGroup(ctx, sessionID)
	}
	return domain.SessionState{}, errUnsupportedMessage
}
