package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"platformer/config"
	"platformer/game"
	"platformer/protocol"
)

const queryTimeout = 2 * time.Second

// Server 通过 HTTP 与 WebSocket 对外暴露房间
type Server struct {
	room      *Room
	ctx       context.Context
	upgrader  websocket.Upgrader
	sendQueue int
	staticDir string
	log       *zap.SugaredLogger
}

// NewServer 创建房间的 HTTP 入口，ctx 约束所有会话的生命周期，关闭时取消
func NewServer(ctx context.Context, room *Room, cfg config.ServerConfig, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = Log
	}
	return &Server{
		room:      room,
		ctx:       ctx,
		sendQueue: cfg.SendQueue,
		staticDir: cfg.StaticDir,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 允许所有来源
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes 注册路由并返回 handler
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.HandleWS)
	mux.HandleFunc("GET /ws/{player}", s.HandleWS)
	mux.HandleFunc("GET /snapshot", s.HandleSnapshot)
	mux.HandleFunc("/admin/config", s.HandleAdminConfig)
	mux.HandleFunc("GET /metrics", s.HandleMetrics)
	mux.HandleFunc("GET /protocol/schema", s.HandleSchema)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleAdminConfig 物理参数的读取与热更新
// GET  /admin/config  返回当前参数
// POST /admin/config  以 JSON 载荷更新部分字段
func (s *Server) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		t, err := s.room.Tuning(ctx)
		if err != nil {
			http.Error(w, "room unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, t)
	case http.MethodPost:
		var patch game.TuningPatch
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if patch.Empty() {
			http.Error(w, "no fields to update", http.StatusBadRequest)
			return
		}
		t, err := s.room.UpdateTuning(ctx, patch)
		if err != nil {
			http.Error(w, "room unavailable", http.StatusServiceUnavailable)
			return
		}
		s.log.Infow("config updated", "room", s.room.ID, "gravity", t.Gravity, "move_speed", t.MoveSpeed,
			"jump_impulse", t.JumpImpulse, "enemy_speed", t.EnemySpeed)
		writeJSON(w, http.StatusOK, t)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出房间运行指标
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"room":      s.room.ID,
		"tick":      s.room.TickSeq(),
		"tick_rate": s.room.TickRate(),
		"sessions":  s.room.Sessions().Len(),
		"metrics":   s.room.Metrics().Snapshot(),
	})
}

// HandleSnapshot 返回与 WebSocket 客户端一致的世界快照
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	snap, err := s.room.Snapshot(ctx)
	if err != nil {
		http.Error(w, "room unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSchema 输出 WebSocket 协议的 JSON Schema
func (s *Server) HandleSchema(w http.ResponseWriter, r *http.Request) {
	data, err := protocol.MarshalSchemas()
	if err != nil {
		s.log.Errorw("schema generation failed", "error", err)
		http.Error(w, "schema unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}
