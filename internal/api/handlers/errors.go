package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"oratio/internal/service"
)

// respondServiceError 把服務層的哨兵錯誤翻譯成對應的 HTTP 狀態碼
// 沒對上的一律當 500，不把內部錯誤細節洩漏給客戶端
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "內部伺服器錯誤"

	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrNoResult):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrNotHost):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrNotParticipant):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrRoundFull),
		errors.Is(err, service.ErrConsecutiveTurn),
		errors.Is(err, service.ErrRoomNotOngoing),
		errors.Is(err, service.ErrRoomNotOpen),
		errors.Is(err, service.ErrDebaterInMatch):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, service.ErrInvalidRound),
		errors.Is(err, service.ErrFeedbackEmpty),
		errors.Is(err, service.ErrFeedbackTooLong):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, gin.H{"error": message})
}

// currentUserID 取出認證中間件放進上下文的用戶 ID
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	id, _ := userID.(uint)
	return id
}

// parseIDParam 解析路徑中的數字 ID，失敗時回 400 並回報 false
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的 " + name})
		return 0, false
	}
	return uint(id), true
}
