package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/world"
)

type Server struct {
	world  *world.World
	log    *log.Logger
	outbox int

	upgrader websocket.Upgrader
}

// NewServer serves operator connections for w. outbox caps the per-operator
// send queue; a client may ask for less in HELLO.
func NewServer(w *world.World, logger *log.Logger, outbox int) *Server {
	if outbox <= 0 {
		outbox = 256
	}
	s := &Server{
		world:  w,
		log:    logger,
		outbox: outbox,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		operatorID, out := s.handshake(conn)
		if operatorID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine. out is never closed; the world may still hold it
		// until the leave is processed.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			in, code, reason := decodeInput(msg)
			if code != "" {
				s.reject(out, code, reason)
				continue
			}
			s.world.Inbox() <- world.Input{OperatorID: operatorID, Msg: in}
		}

		s.world.Leave() <- operatorID
		if s.log != nil {
			s.log.Printf("operator disconnected id=%s", operatorID)
		}
	}
}

// decodeInput maps a raw operator frame to its typed message. A non-empty
// code describes why the frame was rejected.
func decodeInput(msg []byte) (in any, code, reason string) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return nil, protocol.ErrProtoBadRequest, "malformed json"
	}
	if base.ProtocolVersion != protocol.Version {
		return nil, protocol.ErrProtoBadRequest, "bad protocol_version"
	}
	switch base.Type {
	case protocol.TypeCommand:
		var m protocol.CommandMsg
		err = json.Unmarshal(msg, &m)
		in = m
	case protocol.TypeTarget:
		var m protocol.TargetMsg
		err = json.Unmarshal(msg, &m)
		in = m
	case protocol.TypeConfirm:
		var m protocol.ConfirmMsg
		err = json.Unmarshal(msg, &m)
		in = m
	case protocol.TypeGumpReply:
		var m protocol.GumpReplyMsg
		err = json.Unmarshal(msg, &m)
		in = m
	default:
		return nil, protocol.ErrProtoBadRequest, "unsupported type " + base.Type
	}
	if err != nil {
		return nil, protocol.ErrProtoBadRequest, err.Error()
	}
	return in, "", ""
}

func (s *Server) reject(out chan []byte, code, reason string) {
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Tick:            s.world.CurrentTick(),
		Code:            code,
		Message:         reason,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func (s *Server) handshake(conn *websocket.Conn) (operatorID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}

	maxQ := s.outbox
	if hello.MaxQueue > 0 && hello.MaxQueue < maxQ {
		maxQ = hello.MaxQueue
	}
	out = make(chan []byte, maxQ)

	respCh := make(chan world.JoinResponse, 1)
	s.world.Join() <- world.JoinRequest{
		Name:  strings.TrimSpace(hello.OperatorName),
		Token: strings.TrimSpace(hello.Token),
		Out:   out,
		Resp:  respCh,
	}
	resp := <-respCh

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		OperatorID:      resp.OperatorID,
		AccessLevel:     resp.AccessLevel.String(),
		TickRateHz:      s.world.TickRateHz(),
		Tick:            s.world.CurrentTick(),
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.world.Leave() <- resp.OperatorID
		return "", nil
	}
	if s.log != nil {
		s.log.Printf("operator connected id=%s name=%q access=%s", resp.OperatorID, hello.OperatorName, resp.AccessLevel)
	}
	return resp.OperatorID, out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
