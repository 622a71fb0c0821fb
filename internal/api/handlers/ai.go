package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oratio/internal/ai"
)

// AIHandler 處理直接呼叫 AI 輔助功能的請求
type AIHandler struct {
	factChecker *ai.FactChecker
}

func NewAIHandler(factChecker *ai.FactChecker) *AIHandler {
	return &AIHandler{factChecker: factChecker}
}

// FactCheck 處理查證單一論述的請求
func (h *AIHandler) FactCheck(c *gin.Context) {
	var input struct {
		Statement string `json:"statement" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.factChecker.Check(c.Request.Context(), input.Statement)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "查證服務暫時不可用"})
		return
	}

	c.JSON(http.StatusOK, result)
}
