// Command client tails the quizboard scoreboard feed and prints
// standings as games complete.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

const (
	msgTypeHeartbeat  = 1
	msgTypeScoreboard = 301
	msgTypeGameEnd    = 305
)

type scoreboardEntry struct {
	Name        string  `json:"name"`
	Wins        int     `json:"wins"`
	GamesPlayed int     `json:"games_played"`
	WinRate     float64 `json:"win_rate"`
}

type gameResult struct {
	Winner       string   `json:"winner"`
	Participants []string `json:"participants"`
}

// decode splits a framed packet into msg id and payload, honoring the
// declared length.
func decode(message []byte) (uint16, []byte, bool) {
	if len(message) < 4 {
		return 0, nil, false
	}
	msgID := binary.BigEndian.Uint16(message[0:2])
	length := binary.BigEndian.Uint16(message[2:4])
	if len(message) < int(4+length) {
		return 0, nil, false
	}
	return msgID, message[4 : 4+length], true
}

// send frames and sends a packet: 2-byte msg id + 2-byte length + data.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "quizboard server address")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			msgID, data, ok := decode(message)
			if !ok {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}

			switch msgID {
			case msgTypeScoreboard:
				var entries []scoreboardEntry
				if err := json.Unmarshal(data, &entries); err != nil {
					log.Printf("Bad scoreboard payload: %v", err)
					continue
				}
				log.Println("Scoreboard:")
				for i, e := range entries {
					log.Printf("  %2d. %-20s wins=%d played=%d rate=%.1f%%",
						i+1, e.Name, e.Wins, e.GamesPlayed, e.WinRate)
				}
			case msgTypeGameEnd:
				var result gameResult
				if err := json.Unmarshal(data, &result); err != nil {
					log.Printf("Bad game end payload: %v", err)
					continue
				}
				log.Printf("Game over: %s won (players: %v)", result.Winner, result.Participants)
			default:
				log.Printf("Unknown message type: %d", msgID)
			}
		}
	}()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			return
		case <-heartbeat.C:
			if err := send(c, msgTypeHeartbeat, nil); err != nil {
				log.Println("Write error:", err)
				return
			}
		case <-interrupt:
			log.Println("Interrupted, closing connection")
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
