// Package telemetry 通过 websocket 向旁观者推送波次导演的事件流
//
// Hub 作为 WaveListener 注册到 WaveDirector；每个事件附带一份导演快照，
// 以 JSON 文本帧广播给所有已连接的客户端。
package telemetry

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/decker502/holdout/pkg/systems"
	"github.com/gorilla/websocket"
)

const (
	// writeWait 单帧写超时
	writeWait = 2 * time.Second
	// sendBuffer 每个客户端的待发送队列长度，满时丢弃新消息
	sendBuffer = 64
)

// 消息类型
const (
	MessageSnapshot    = "snapshot"
	MessageEnemyKilled = "enemyKilled"
	MessageWaveChanged = "waveChanged"
	MessageFinalWave   = "finalWaveReached"
	MessageNoMoreWaves = "noMoreWaves"
)

// SnapshotSource 快照来源（由 systems.WaveDirector 实现）
type SnapshotSource interface {
	Snapshot() systems.DirectorSnapshot
}

// Message 推送给客户端的 JSON 消息
type Message struct {
	Type     string                    `json:"type"`
	Wave     int                       `json:"wave,omitempty"`
	Reward   int                       `json:"reward,omitempty"`
	EnemyID  uint64                    `json:"enemyId,omitempty"`
	Snapshot *systems.DirectorSnapshot `json:"snapshot,omitempty"`
}

// client 一个已连接的旁观者
type client struct {
	conn *websocket.Conn
	send chan Message
}

// Hub 遥测广播中心，实现 http.Handler 与 systems.WaveListener
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	source   SnapshotSource
	upgrader websocket.Upgrader
	dropped  int
}

// NewHub 创建广播中心
// source 为 nil 时消息不附带快照
func NewHub(source SnapshotSource) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		source:  source,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP 升级为 websocket 连接并推送事件，直到客户端断开
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[TelemetryHub] upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	c.send <- h.newMessage(MessageSnapshot)
	h.register(c)
	log.Printf("[TelemetryHub] Client connected from %s", r.RemoteAddr)

	go h.writeLoop(c)

	// 只读取以检测断开，客户端消息被忽略
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	conn.Close()
	log.Printf("[TelemetryHub] Client disconnected from %s", r.RemoteAddr)
}

// writeLoop 把队列中的消息写到连接，send 关闭时退出
func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("[TelemetryHub] write: %v", err)
			c.conn.Close()
			// 继续消费直到 unregister 关闭队列
			for range c.send {
			}
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount 返回当前连接数
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped 返回因客户端队列已满而丢弃的消息数
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Broadcast 向所有客户端发送消息，不阻塞帧循环
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
		}
	}
}

// Close 断开所有客户端
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

// newMessage 创建附带当前快照的消息
func (h *Hub) newMessage(kind string) Message {
	msg := Message{Type: kind}
	if h.source != nil {
		snap := h.source.Snapshot()
		msg.Snapshot = &snap
	}
	return msg
}

// OnEnemyKilled 实现 systems.WaveListener
func (h *Hub) OnEnemyKilled(agent systems.EnemyAgent, reward int) {
	msg := h.newMessage(MessageEnemyKilled)
	msg.Reward = reward
	msg.EnemyID = uint64(agent.ID())
	h.Broadcast(msg)
}

// OnWaveChanged 实现 systems.WaveListener
func (h *Hub) OnWaveChanged(waveNumber int) {
	msg := h.newMessage(MessageWaveChanged)
	msg.Wave = waveNumber
	h.Broadcast(msg)
}

// OnNoMoreWaves 实现 systems.WaveListener
func (h *Hub) OnNoMoreWaves() {
	h.Broadcast(h.newMessage(MessageNoMoreWaves))
}

// OnFinalWaveReached 实现 systems.WaveListener
func (h *Hub) OnFinalWaveReached() {
	h.Broadcast(h.newMessage(MessageFinalWave))
}
