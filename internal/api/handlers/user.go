package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"oratio/internal/service"
)

// UserHandler 處理排行榜和用戶戰績的查詢
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Leaderboard 處理獲取經驗值排行榜的請求
func (h *UserHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.userService.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋排行榜"})
		return
	}

	c.JSON(http.StatusOK, users)
}

type feedbackRequest struct {
	Category string `json:"category"`
	Message  string `json:"message" binding:"required"`
}

// SubmitFeedback 處理提交平台意見回饋的請求
func (h *UserHandler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的請求格式"})
		return
	}

	feedback, err := h.userService.SubmitFeedback(currentUserID(c), req.Category, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"feedback_id": feedback.ID,
		"category":    feedback.Category,
	})
}

// Stats 處理獲取指定用戶戰績的請求
func (h *UserHandler) Stats(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.userService.Stats(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用戶不存在"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
