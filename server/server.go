// server/server.go
package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/wfunc/quizboard/broadcast"
	"github.com/wfunc/quizboard/config"
	"github.com/wfunc/quizboard/game"
	"github.com/wfunc/quizboard/logger"
	"github.com/wfunc/quizboard/monitor"
	"github.com/wfunc/quizboard/network"
	"github.com/wfunc/quizboard/persistence"
	"github.com/wfunc/quizboard/questions"
	quizboard_rpc "github.com/wfunc/quizboard/rpc"
	"github.com/wfunc/quizboard/services"
	"github.com/wfunc/quizboard/session"
	"github.com/wfunc/quizboard/timer"
)

const (
	ReleaseVersion = "0.1.0"

	sessionCookie = "quizboard_session"
	sweepInterval = time.Minute
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	scoreService   *services.ScoreService
	watcherHub     *broadcast.WatcherHub
	monitor        *monitor.Monitor
	rpcServer      *quizboard_rpc.Server
	timerManager   *timer.Manager
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	hub := broadcast.NewWatcherHub()
	scoreService := services.NewScoreService(db).WithBroadcaster(hub)

	newGame := func() *game.Game {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		bank := questions.NewBankWithCap(rng, cfg.Game.QuestionCap)
		return game.New(rng, bank, scoreService, cfg.Game.BoardSize, cfg.Game.MaxPlayers)
	}

	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(newGame),
		scoreService:   scoreService,
		watcherHub:     hub,
		monitor:        monitor.NewMonitor("quizboard"),
		timerManager:   timer.NewManager(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化RPC服务器
	rpcServer, err := quizboard_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	scoreboardService := quizboard_rpc.NewScoreboardService(scoreService)
	rpc.Register(scoreboardService)

	// 定时清理空闲会话
	s.timerManager.Schedule(sweepInterval, sweepInterval, func() {
		removed := s.sessionManager.SweepIdle(cfg.Server.SessionTimeout)
		if removed > 0 {
			logger.Log.Infof("Swept %d idle sessions", removed)
		}
		s.monitor.SetActiveSessions(s.sessionManager.Count())
	})

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	router := s.routes()
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)

	srv := &http.Server{
		Addr:              s.cfg.Server.HTTPAddress,
		Handler:           router,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *GameServer) Shutdown() {
	s.timerManager.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) routes() *httprouter.Router {
	router := httprouter.New()

	router.GET("/", s.handleIndex)
	router.POST("/setup", s.handleSetup)
	router.POST("/roll", s.handleRoll)
	router.POST("/answer", s.handleAnswer)
	router.POST("/reset", s.handleReset)
	router.POST("/upload_questions", s.handleUploadQuestions)
	router.GET("/export_scoreboard.csv", s.handleExportScoreboard)

	router.GET("/admin/reset", s.handleAdminReset)
	router.GET("/admin/delete_player", s.handleAdminDeletePlayer)
	router.POST("/admin/import_scoreboard", s.handleAdminImportScoreboard)

	router.GET("/healthz", s.handleHealthCheck)
	router.GET("/version", s.handleVersion)
	router.GET("/ws", s.handleWatcherSocket)

	return router
}

// currentSession resolves the browser session from the cookie, creating
// one (and setting the cookie) as needed.
func (s *GameServer) currentSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sessionID = cookie.Value
	}

	sess, created := s.sessionManager.GetOrCreate(sessionID)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		s.monitor.SetActiveSessions(s.sessionManager.Count())
	}
	sess.Touch()
	return sess
}

// handleWatcherSocket upgrades a scoreboard watcher connection and
// keeps it registered until it drops. Watchers only receive pushes;
// the sole packet they send is the heartbeat.
func (s *GameServer) handleWatcherSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := network.NewWSConnection(conn)
	watcherID := uuid.New().String()
	s.watcherHub.Add(watcherID, wsConn)
	s.monitor.SetWatcherCount(s.watcherHub.Count())

	logger.Log.Infof("New scoreboard watcher from %s, ID: %s", wsConn.RemoteAddr(), watcherID)

	defer func() {
		logger.Log.Infof("Scoreboard watcher disconnected: %s", watcherID)
		s.watcherHub.Remove(watcherID)
		s.monitor.SetWatcherCount(s.watcherHub.Count())
		wsConn.Close()
	}()

	// 推送当前排行榜快照
	if entries, err := s.scoreService.TopScoreboard(50); err == nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := wsConn.Send(network.MsgTypeScoreboard, data); err != nil {
				logger.Log.Warnf("Failed to push scoreboard snapshot: %v", err)
			}
		}
	}

	for {
		packet, err := wsConn.ReadPacket()
		if err != nil {
			return
		}
		if packet.MsgID != network.MsgTypeHeartbeat {
			logger.Log.Infof("Unexpected message type from watcher %s: %d", watcherID, packet.MsgID)
		}
	}
}
