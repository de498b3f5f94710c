package server

import (
	"sync"

	"platformer/protocol"
)

// Session 单个客户端的下行通道，Send 不得阻塞
type Session interface {
	Send(frame []byte) error
	Codec() protocol.Codec
	Close() error
}

// Registry 记录每个在线玩家当前的会话
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRegistry 创建空的会话表
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Add 为 id 登记 s，返回被替换的旧会话（如有）
func (g *Registry) Add(id string, s Session) Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	prev := g.sessions[id]
	g.sessions[id] = s
	return prev
}

// Remove 仅当 id 当前会话为 s 时注销；s 为 nil 时无条件注销
// 返回是否有会话被移除
func (g *Registry) Remove(id string, s Session) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.sessions[id]
	if !ok || (s != nil && cur != s) {
		return false
	}
	delete(g.sessions, id)
	return true
}

// Get 返回 id 对应的会话
func (g *Registry) Get(id string) (Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.sessions[id]
	return s, ok
}

// Len 当前会话数
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

type registered struct {
	id      string
	session Session
}

// list 复制会话表，发送时无需持锁
func (g *Registry) list() []registered {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]registered, 0, len(g.sessions))
	for id, s := range g.sessions {
		out = append(out, registered{id: id, session: s})
	}
	return out
}
