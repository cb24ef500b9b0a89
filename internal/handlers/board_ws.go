package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vancomm/mazeboard/internal/repository"
)

type wsCommand string

const (
	wsGet        wsCommand = "g"
	wsRegenerate wsCommand = "r"
	wsSave       wsCommand = "s"
	wsLoad       wsCommand = "l"
)

var commandNargs = map[wsCommand]int{
	wsGet:        0,
	wsRegenerate: 0,
	wsSave:       1,
	wsLoad:       1,
}

type wsReply struct {
	Command string               `json:"command"`
	Board   *BoardDTO            `json:"board,omitempty"`
	Slot    *repository.SlotInfo `json:"slot,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func (h BoardHandler) execute(ctx context.Context, id uuid.UUID, line string) wsReply {
	reply := wsReply{Command: line}

	parts := strings.Fields(line)
	cmd := wsCommand(parts[0])
	nargs, ok := commandNargs[cmd]
	if !ok {
		reply.Error = "unknown command"
		return reply
	}
	if nargs != len(parts)-1 {
		reply.Error = fmt.Sprintf("%s takes %d argument(s)", cmd, nargs)
		return reply
	}

	var err error
	switch cmd {
	case wsGet:
		session, b, e := h.current(ctx, id)
		if err = e; err == nil {
			reply.Board = NewBoardDTO(id.String(), session.Seed, b)
		}
	case wsRegenerate:
		reply.Board, err = h.regenerate(ctx, id)
	case wsSave:
		reply.Slot, err = h.save(ctx, id, parts[1])
	case wsLoad:
		reply.Board, err = h.load(ctx, id, parts[1])
	}

	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			h.logger.Error("unable to process command", slog.String("command", line), slog.Any("error", err))
		}
		reply.Error = publicError(err).Error()
	}
	return reply
}

// ConnectWS serves the board command loop. Every line of a text message is
// one command; each gets exactly one reply, and failed commands leave the
// session as it was.
func (h BoardHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := sessionFromRequest(r, true)
	if err != nil {
		h.fail(w, "bad connect request", err)
		return
	}
	if _, _, err := h.current(r.Context(), id); err != nil {
		h.fail(w, "unable to fetch board session", err)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()
	c.SetReadLimit(h.ws.ReadLimit)

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		for _, line := range strings.Split(string(message), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			h.logger.Debug("\t> " + line)

			reply := h.execute(r.Context(), id, line)
			c.SetWriteDeadline(time.Now().Add(h.ws.WriteTimeout))
			if err := c.WriteJSON(reply); err != nil {
				h.logger.Error("unable to write json", slog.Any("error", err))
				return
			}
		}
	}
}
