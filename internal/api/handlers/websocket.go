package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"oratio/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsManager   *service.WebSocketManager
	roomService *service.RoomService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsManager *service.WebSocketManager, roomService *service.RoomService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		roomService: roomService,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
// 角色從參與記錄查出來，沒加入房間的用戶拿不到連接
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	role, ok := h.resolveRole(room.ID, room.HostID, userID)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "用戶未加入此房間"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	// HandleConnection 會阻塞到連接關閉，並負責清理
	h.wsManager.HandleConnection(conn, roomID, userID, role)
}

// resolveRole 確定用戶在房間中的角色
func (h *WebSocketHandler) resolveRole(roomID, hostID, userID uint) (string, bool) {
	if userID == hostID {
		return "host", true
	}

	participants, err := h.roomService.ListParticipants(roomID)
	if err != nil {
		return "", false
	}
	for _, p := range participants {
		if p.UserID == userID {
			return string(p.Role), true
		}
	}
	return "", false
}
