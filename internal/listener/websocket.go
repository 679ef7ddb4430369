package listener

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketListener serves the same line-oriented sessions as the telnet and
// ssh listeners, over websocket text frames. Each inbound frame is treated as
// one line of input; each write becomes one text frame.
type WebsocketListener struct {
	port uint16
	path string
	cm   *ConnectionManager
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = "/play"
	}
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	upgrader := websocket.Upgrader{
		// The game client may be served from anywhere; transport auth is the
		// login flow's job.
		CheckOrigin: func(*http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc(l.path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.ErrorContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			l.cm.AcceptConnection(connCtx, newWsReadWriter(conn))
		}()
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		cancelConns()
	}()

	slog.InfoContext(ctx, "listening for websocket", "port", l.port, "path", l.path)

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		wg.Wait()
		return nil
	}
	return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
}

// wsReadWriter adapts a websocket connection to the io.ReadWriter the
// connection manager expects. Reads append a newline per text frame so the
// session's line scanner sees frame boundaries as line breaks.
type wsReadWriter struct {
	conn *websocket.Conn
	buf  []byte
}

func newWsReadWriter(conn *websocket.Conn) *wsReadWriter {
	return &wsReadWriter{conn: conn}
}

func (w *wsReadWriter) Read(p []byte) (int, error) {
	if len(w.buf) == 0 {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, io.EOF
		}
		w.buf = append(data, '\n')
	}

	n := copy(p, w.buf)
	w.buf = w.buf[n:]
	return n, nil
}

func (w *wsReadWriter) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
