package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/repository"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamMessage wraps a snapshot for the wire
type streamMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StreamHandler pushes full watchlist snapshots over a websocket. Every
// mutation produces a fresh snapshot message; clients replace their state
// with the payload rather than applying deltas.
type StreamHandler struct {
	movies *repository.MovieRepository
	series *repository.SeriesRepository
	logger *logrus.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(movies *repository.MovieRepository, series *repository.SeriesRepository, logger *logrus.Logger) *StreamHandler {
	return &StreamHandler{
		movies: movies,
		series: series,
		logger: logger,
	}
}

// ServeHTTP handles GET /api/ws
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	movieCh, cancelMovies := h.movies.Subscribe()
	defer cancelMovies()
	seriesCh, cancelSeries := h.series.Subscribe()
	defer cancelSeries()

	// Reader goroutine: we never expect application messages, but control
	// frames must be consumed for pong handling and close detection
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.sendInitialSnapshots(conn); err != nil {
		h.logger.WithError(err).Debug("Failed to send initial snapshots")
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case movies, ok := <-movieCh:
			if !ok {
				return
			}
			if err := h.send(conn, "movies", movies); err != nil {
				return
			}
		case series, ok := <-seriesCh:
			if !ok {
				return
			}
			if err := h.send(conn, "series", series); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *StreamHandler) sendInitialSnapshots(conn *websocket.Conn) error {
	movies, err := h.movies.List()
	if err != nil {
		return err
	}
	if err := h.send(conn, "movies", movies); err != nil {
		return err
	}

	series, err := h.series.ListWithProgress()
	if err != nil {
		return err
	}
	return h.send(conn, "series", series)
}

func (h *StreamHandler) send(conn *websocket.Conn, messageType string, payload interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(streamMessage{Type: messageType, Payload: payload})
}
