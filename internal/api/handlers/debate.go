package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oratio/internal/service"
	"oratio/pkg/config"
)

// DebateHandler 處理發言提交和辯論進行中的查詢
type DebateHandler struct {
	debateService *service.DebateService
	upload        config.UploadConfig
}

func NewDebateHandler(debateService *service.DebateService, upload config.UploadConfig) *DebateHandler {
	return &DebateHandler{debateService: debateService, upload: upload}
}

// SubmitTurn 處理文字發言的提交
func (h *DebateHandler) SubmitTurn(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Content     string `json:"content" binding:"required"`
		RoundNumber int    `json:"round_number" binding:"required,min=1"`
		TurnNumber  int    `json:"turn_number"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	turn, err := h.debateService.SubmitTurn(
		c.Request.Context(), roomID, currentUserID(c),
		input.Content, input.RoundNumber, input.TurnNumber,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, turn)
}

// SubmitAudioTurn 處理語音發言的提交
// 音檔先存到上傳目錄再轉寫，檔名用 UUID 避免互相覆蓋
func (h *DebateHandler) SubmitAudioTurn(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roundNumber, err := strconv.Atoi(c.PostForm("round_number"))
	if err != nil || roundNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的回合數"})
		return
	}
	turnNumber, _ := strconv.Atoi(c.PostForm("turn_number"))

	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少音檔"})
		return
	}
	if file.Size > int64(h.upload.MaxFileSizeMB)*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "音檔超過大小上限"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".mp3", ".wav", ".m4a", ".webm", ".ogg":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支援的音檔格式"})
		return
	}

	audioPath := filepath.Join(h.upload.Dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, audioPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "儲存音檔失敗"})
		return
	}

	turn, err := h.debateService.SubmitAudioTurn(
		c.Request.Context(), roomID, currentUserID(c),
		audioPath, roundNumber, turnNumber,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, turn)
}

// GetTranscript 處理獲取完整逐字稿的請求
func (h *DebateHandler) GetTranscript(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	turns, err := h.debateService.GetTranscript(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, turns)
}

// GetStatus 處理獲取房間現況的請求
func (h *DebateHandler) GetStatus(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	snapshot, err := h.debateService.GetStatus(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// EndDebate 處理主持人明確結束辯論的請求，回應帶上結算結果
func (h *DebateHandler) EndDebate(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.debateService.EndDebate(c.Request.Context(), roomID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult 處理獲取辯論結果的請求
func (h *DebateHandler) GetResult(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.debateService.GetResult(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
