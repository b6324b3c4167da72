// Package ws рассылает изменения корзины и уведомления в открытые вкладки владельца.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	v1Http "github.com/DRSN-tech/futburguer-cart/internal/delivery/v1/http"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod   = 30 * time.Second
	pongWait     = pingPeriod + 10*time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 16
	maxReadBytes = 512
)

type client struct {
	owner string
	conn  *websocket.Conn
	send  chan []byte

	mu      sync.Mutex
	closed  bool
	ready   bool
	pending [][]byte
}

func newClient(owner string) *client {
	return &client{owner: owner, send: make(chan []byte, sendBuffer)}
}

// offer кладёт кадр в очередь клиента; false, если очередь переполнена.
// До activate кадры копятся в pending, чтобы не обогнать снимок корзины.
func (c *client) offer(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	if !c.ready {
		if len(c.pending) >= sendBuffer {
			return false
		}
		c.pending = append(c.pending, data)
		return true
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// activate ставит снимок первым в очередь и досылает накопленные кадры
func (c *client) activate(snapshot []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	c.ready = true
	frames := append([][]byte{snapshot}, c.pending...)
	c.pending = nil

	for _, data := range frames {
		select {
		case c.send <- data:
		default:
			return false
		}
	}

	return true
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub держит WebSocket-подключения, сгруппированные по владельцу корзины.
type Hub struct {
	upgrader      websocket.Upgrader
	cart          usecase.CartUC
	notifications v1Http.NotificationSource
	logger        logger.Logger

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub(cart usecase.CartUC, notifications v1Http.NotificationSource, logger logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		cart:          cart,
		notifications: notifications,
		logger:        logger,
		clients:       make(map[string]map[*client]struct{}),
	}
}

// ServeHTTP поднимает подключение и сразу отправляет текущее состояние корзины.
// Клиент регистрируется до чтения корзины, поэтому изменения между чтением и подключением не теряются.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	owner := v1Http.OwnerFromCtx(r.Context())

	c := newClient(owner)
	h.register(c)

	cart, err := h.cart.GetCart(r.Context(), owner)
	if err != nil {
		h.unregister(c)
		v1Http.WriteError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.unregister(c)
		h.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	c.conn = conn

	h.start(c, newCartFrame(cart))
	if n, ok := h.notifications.Current(owner); ok {
		h.push(c, newNotificationFrame(n))
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) start(c *client, snapshot any) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Errorf(err, "failed to encode websocket frame")
		h.unregister(c)
		return
	}

	if !c.activate(data) {
		h.logger.Warnf("websocket client of %q is too slow, disconnecting", c.owner)
		h.unregister(c)
	}
}

// HandleCartChanged подписывается на шину изменений корзины
func (h *Hub) HandleCartChanged(_ context.Context, ev domain.CartChanged) {
	h.broadcast(ev.Owner, newCartFrame(ev.Cart))
}

// HandleNotification подписывается на шину уведомлений
func (h *Hub) HandleNotification(_ context.Context, n domain.Notification) {
	h.broadcast(n.Owner, newNotificationFrame(n))
}

// Connections возвращает число подключений владельца
func (h *Hub) Connections(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[owner])
}

// Close закрывает все подключения
func (h *Hub) Close(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for owner, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, owner)
	}

	return nil
}

func (h *Hub) broadcast(owner string, frame any) {
	h.mu.RLock()
	set := make([]*client, 0, len(h.clients[owner]))
	for c := range h.clients[owner] {
		set = append(set, c)
	}
	h.mu.RUnlock()

	for _, c := range set {
		h.push(c, frame)
	}
}

// push не блокирует издателя: медленный клиент отключается
func (h *Hub) push(c *client, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Errorf(err, "failed to encode websocket frame")
		return
	}

	if !c.offer(data) {
		h.logger.Warnf("websocket client of %q is too slow, disconnecting", c.owner)
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.owner]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.owner] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.owner]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.owner)
		}
	}
	h.mu.Unlock()

	c.close()
}

func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxReadBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugf("websocket of %q closed: %v", c.owner, err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
