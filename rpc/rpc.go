// rpc/rpc.go
package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/quizboard/logger"
	"github.com/wfunc/quizboard/models"
	"github.com/wfunc/quizboard/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// ScoreboardService exposes scoreboard queries over net/rpc. Methods
// follow the net/rpc signature: exported method, exported argument
// types, pointer reply, error return.
type ScoreboardService struct {
	scoreService *services.ScoreService
}

func NewScoreboardService(ss *services.ScoreService) *ScoreboardService {
	return &ScoreboardService{scoreService: ss}
}

type TopArgs struct {
	Limit int
}

type TopReply struct {
	Entries []models.ScoreboardEntry
}

// Top returns the ranked standings, truncated to args.Limit.
func (s *ScoreboardService) Top(args *TopArgs, reply *TopReply) error {
	limit := args.Limit
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.scoreService.TopScoreboard(limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}
