package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event 是廣播給房間內所有連線的即時事件
type Event struct {
	Type      string      `json:"type"`
	RoomID    uint        `json:"room_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// 即時事件的類型
const (
	EventNewTurn           = "new_turn"
	EventRoundComplete     = "round_complete"
	EventDebateStatus      = "debate_status"
	EventParticipantUpdate = "participant_update"
	EventNewReaction       = "new_reaction"
)

// Broadcaster 是核心服務對外發布事件的介面
// 發布是盡力而為，不保證送達，也不會讓呼叫端失敗
type Broadcaster interface {
	Publish(roomID uint, event Event)
}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn // WebSocket 連接
	UserID   uint            // 用戶 ID
	RoomID   uint            // 房間 ID
	Role     string          // 用戶角色 (debater/spectator/host)
	SendChan chan Event      // 事件發送通道，用於異步傳送
}

// WebSocketManager 管理所有的 WebSocket 連接和事件傳遞
type WebSocketManager struct {
	clients    map[uint]map[*Client]bool // 兩層 map: roomID -> client -> bool
	clientsMux sync.RWMutex              // 用於保護 clients map 的讀寫鎖
	logger     *zap.SugaredLogger
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager(logger *zap.SugaredLogger) *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[uint]map[*Client]bool),
		logger:  logger,
	}
}

// HandleConnection 處理新的 WebSocket 連接請求
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn, roomID, userID uint, role string) {
	client := &Client{
		Conn:     conn,
		UserID:   userID,
		RoomID:   roomID,
		Role:     role,
		SendChan: make(chan Event, 256),
	}

	m.addClient(client)

	// 確保連接關閉時清理資源，SendChan 由 removeClient 負責關閉
	defer func() {
		m.removeClient(client)
		conn.Close()
	}()

	go m.writePump(client)
	m.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的事件
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096) // 設置最大消息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warnw("websocket unexpected close", "error", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			m.logger.Warnw("websocket event parse error", "error", err)
			continue
		}

		// 客戶端送來的事件（例如觀眾反應）轉發給同房間的所有人
		event.RoomID = client.RoomID
		event.Timestamp = time.Now()
		m.Publish(client.RoomID, event)
	}
}

// writePump 處理向客戶端發送事件的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				m.logger.Warnw("websocket event encoding error", "error", err)
				continue
			}

			if _, err := w.Write(payload); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish 向房間內的所有客戶端廣播事件
func (m *WebSocketManager) Publish(roomID uint, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.RoomID = roomID

	// 整個迭代都持有讀鎖：removeClient 在寫鎖內關閉 SendChan，
	// 所以讀鎖未釋放前通道一定還開著，不會送進已關閉的通道
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	for client := range m.clients[roomID] {
		select {
		case client.SendChan <- event:
			// 事件成功加入發送隊列
		default:
			// 客戶端隊列已滿，丟棄這則事件；慢客戶端由心跳超時自然淘汰
			m.logger.Warnw("websocket send buffer full, event dropped",
				"room_id", roomID, "user_id", client.UserID, "type", event.Type)
		}
	}
}

// addClient 安全地添加新的客戶端連接
func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[*Client]bool)
	}
	m.clients[client.RoomID][client] = true
	m.clientsMux.Unlock()

	m.Publish(client.RoomID, Event{
		Type: EventParticipantUpdate,
		Data: map[string]interface{}{"action": "connected", "user_id": client.UserID, "role": client.Role},
	})
}

// removeClient 安全地移除客戶端連接
// SendChan 只會在這裡關閉，以 map 中是否還有該客戶端保證恰好關閉一次
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	clients, ok := m.clients[client.RoomID]
	if !ok {
		return
	}
	if _, registered := clients[client]; !registered {
		return
	}
	delete(clients, client)
	close(client.SendChan)
	// 如果房間空了，刪除房間
	if len(clients) == 0 {
		delete(m.clients, client.RoomID)
	}
}

// RoomClientCount 獲取指定房間的在線客戶端數量
func (m *WebSocketManager) RoomClientCount(roomID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[roomID])
}
