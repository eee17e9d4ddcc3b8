// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/wfunc/quizboard/models"
	"github.com/wfunc/quizboard/network"
)

// Broadcaster pushes scoreboard updates to connected watchers.
type Broadcaster interface {
	BroadcastScoreboard(entries []models.ScoreboardEntry) error
	BroadcastGameEnd(result models.GameResult) error
}

// WatcherHub 排行榜观察者连接集合
//
// Watchers are read-only observers of the scoreboard feed; they never
// act on a game.
type WatcherHub struct {
	watchers map[string]network.Connection
	mutex    sync.RWMutex
}

func NewWatcherHub() *WatcherHub {
	return &WatcherHub{
		watchers: make(map[string]network.Connection),
	}
}

func (h *WatcherHub) Add(id string, conn network.Connection) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.watchers[id] = conn
}

func (h *WatcherHub) Remove(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.watchers, id)
}

func (h *WatcherHub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.watchers)
}

func (h *WatcherHub) broadcast(msgID uint16, data []byte) error {
	h.mutex.RLock()
	conns := make(map[string]network.Connection, len(h.watchers))
	for id, conn := range h.watchers {
		conns[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range conns {
		if err := conn.Send(msgID, data); err != nil {
			// 发送失败则移除观察者
			h.Remove(id)
			conn.Close()
		}
	}
	return nil
}

// BroadcastScoreboard pushes the current standings to every watcher.
func (h *WatcherHub) BroadcastScoreboard(entries []models.ScoreboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return h.broadcast(network.MsgTypeScoreboard, data)
}

// BroadcastGameEnd announces a completed game to every watcher.
func (h *WatcherHub) BroadcastGameEnd(result models.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return h.broadcast(network.MsgTypeGameEnd, data)
}
