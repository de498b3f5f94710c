package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"platformer/game"
	"platformer/protocol"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1 << 20 // 1MB
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrSendQueueFull = errors.New("send queue full")
)

// ClientConn WebSocket 会话：Send 入队，writePump 写出，readPump 将上行帧转为房间输入
type ClientConn struct {
	ws    *websocket.Conn
	codec protocol.Codec

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClientConn(ws *websocket.Conn, codec protocol.Codec, queue int) *ClientConn {
	if queue <= 0 {
		queue = 64
	}
	return &ClientConn{
		ws:    ws,
		codec: codec,
		send:  make(chan []byte, queue),
	}
}

func (c *ClientConn) Codec() protocol.Codec { return c.codec }

// Send 非阻塞入队，满则丢弃（下一帧快照会覆盖）
func (c *ClientConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrSessionClosed
	}
	select {
	case c.send <- b:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close 关闭发送队列以结束写协程，可重复调用
func (c *ClientConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.send)
	return nil
}

func (c *ClientConn) messageType() int {
	if c.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// writePump 独立协程，从 send 队列写出到 WS，并定时 ping 保活
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(c.messageType(), msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端输入注入房间，退出时通知房间移除该玩家
func (c *ClientConn) readPump(ctx context.Context, room *Room, playerID string) {
	defer func() {
		_ = c.ws.Close()
		if err := room.RequestLeave(ctx, playerID, c); err != nil {
			room.log.Debugw("leave not queued", "player", playerID, "error", err)
		}
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				room.log.Debugw("read error", "player", playerID, "error", err)
			}
			return
		}
		codec := protocol.JSON
		if mt == websocket.BinaryMessage {
			codec = protocol.MsgPack
		}
		msg, err := protocol.DecodeInput(codec, payload)
		if err != nil {
			room.metrics.IncMalformed()
			continue
		}
		room.OnInput(playerID, game.ParseAction(msg.Action))
	}
}

// HandleWS WebSocket 接入：/ws/{player} 或 /ws?player=alice&name=Alice&codec=msgpack
// 未提供 id 时由服务端分配
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playerID := r.PathValue("player")
	if playerID == "" {
		playerID = q.Get("player")
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}
	codec, err := protocol.CodecByName(q.Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("upgrade error", "error", err)
		return
	}

	client := NewClientConn(ws, codec, s.sendQueue)
	if prev := s.room.Sessions().Add(playerID, client); prev != nil {
		_ = prev.Close()
		s.log.Infow("session replaced", "player", playerID)
	}
	if err := s.room.RequestJoin(s.ctx, playerID, q.Get("name")); err != nil {
		s.room.Sessions().Remove(playerID, client)
		_ = client.Close()
		_ = ws.Close()
		return
	}

	s.log.Debugw("session opened", "player", playerID, "codec", codec.Name(), "remote", r.RemoteAddr)
	go client.writePump()
	go client.readPump(s.ctx, s.room, playerID)
}
