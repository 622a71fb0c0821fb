package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"oratio/internal/models"
	"oratio/internal/service"
)

// RoomHandler 處理與辯論房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Topic         string    `json:"topic" binding:"required"`
		Description   string    `json:"description"`
		Format        string    `json:"format" binding:"omitempty,oneof=individual team"`
		Rounds        int       `json:"rounds"`
		ScheduledTime time.Time `json:"scheduled_time"`
		DurationMin   int       `json:"duration_min"`
		Visibility    string    `json:"visibility" binding:"omitempty,oneof=public private"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(currentUserID(c), service.CreateRoomInput{
		Topic:         input.Topic,
		Description:   input.Description,
		Format:        models.DebateFormat(input.Format),
		Rounds:        input.Rounds,
		ScheduledTime: input.ScheduledTime,
		DurationMin:   input.DurationMin,
		Visibility:    input.Visibility,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建房間失敗"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms 處理獲取房間列表的請求，可用 status 和 limit 過濾
func (h *RoomHandler) ListRooms(c *gin.Context) {
	status := models.RoomStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	rooms, err := h.roomService.ListRooms(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋房間列表"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// UpdateRoom 處理主持人修改房間設定的請求
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Topic       *string `json:"topic"`
		Description *string `json:"description"`
		Rounds      *int    `json:"rounds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.UpdateRoom(roomID, currentUserID(c), service.UpdateRoomInput{
		Topic:       input.Topic,
		Description: input.Description,
		Rounds:      input.Rounds,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom 處理主持人刪除房間的請求
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(roomID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "房間已刪除"})
}

// JoinRoom 處理用邀請碼加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input struct {
		RoomCode string `json:"room_code" binding:"required,len=6"`
		Role     string `json:"role" binding:"omitempty,oneof=debater spectator"`
		Team     string `json:"team"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var participant *models.Participant
	var err error
	if input.Role == string(models.RoleSpectator) {
		participant, err = h.roomService.JoinAsSpectator(input.RoomCode, currentUserID(c))
	} else {
		participant, err = h.roomService.JoinRoom(input.RoomCode, currentUserID(c), input.Team)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participant)
}

// ListParticipants 處理獲取房間參與者列表的請求
func (h *RoomHandler) ListParticipants(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participants, err := h.roomService.ListParticipants(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participants)
}

// Ready 處理參與者標記準備完成的請求
func (h *RoomHandler) Ready(c *gin.Context) {
	participantID, ok := parseIDParam(c, "participantId")
	if !ok {
		return
	}

	participant, err := h.roomService.MarkReady(participantID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participant)
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	participantID, ok := parseIDParam(c, "participantId")
	if !ok {
		return
	}

	if err := h.roomService.Leave(participantID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功離開房間"})
}
