package viewsync

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

// Client is one websocket connection watching a set of views.
type Client struct {
	Conn  *websocket.Conn
	Send  chan []byte
	Rooms []string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans rendered frames out to the websocket clients watching each
// view. It implements Sink.
type Hub struct {
	rooms      map[string]map[*Client]bool
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	done       chan struct{}
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewHub builds a hub. checkOrigin may be nil to accept any origin.
func NewHub(checkOrigin func(r *http.Request) bool, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
		upgrader:   websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// Run owns the room table until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			for _, room := range c.Rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[*Client]bool)
				}
				h.rooms[room][c] = true
			}

		case c := <-h.unregister:
			h.drop(c)

		case m := <-h.broadcast:
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					h.logger.Warn("dropping slow client", "view", m.Room)
					h.drop(c)
				}
			}

		case <-h.quit:
			for c := range h.clients {
				h.drop(c)
			}
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for _, room := range c.Rooms {
		if conns := h.rooms[room]; conns != nil {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(c.Send)
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// Publish sends frame to everyone watching view.
func (h *Hub) Publish(view string, frame []byte) {
	select {
	case h.broadcast <- broadcastMsg{Room: view, Data: frame}:
	case <-h.quit:
	}
}

func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// ServeWS upgrades the request and streams the given views. initial, when
// set, supplies the last frame of each view so a new client starts with
// current data.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, rooms []string, initial func(view string) ([]byte, bool)) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer+len(rooms)),
		Rooms: rooms,
	}
	if initial != nil {
		for _, room := range rooms {
			if frame, ok := initial(room); ok {
				client.Send <- frame
			}
		}
	}
	if !h.Register(client) {
		conn.Close()
		return nil
	}
	go writePump(client)
	go readPump(client, h)
	return nil
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump only watches for the client going away. Views are read-only.
func readPump(c *Client, h *Hub) {
	defer func() {
		h.Unregister(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
