package handlers

import (
	"net/http"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/assistant"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	advisor *assistant.Advisor
}

func NewAssistantHandler(advisor *assistant.Advisor) *AssistantHandler {
	return &AssistantHandler{advisor: advisor}
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func (h *AssistantHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	answer, err := h.advisor.Ask(c.Request.Context(), req.Question, service.RangeQuery{Start: req.Start, End: req.End})
	if err != nil {
		respondError(c, err, "failed to answer question")
		return
	}
	c.JSON(http.StatusOK, answer)
}
