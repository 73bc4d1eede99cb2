// README: Concierge handler (free-text transfer requests).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"transferhub/internal/service"
)

type ConciergeHandler struct {
	concierge *service.Concierge
}

func NewConciergeHandler(svc *service.Concierge) *ConciergeHandler {
	return &ConciergeHandler{concierge: svc}
}

type conciergeReq struct {
	Message string `json:"message"`
}

type conciergeResp struct {
	Reply  string           `json:"reply"`
	Intent string           `json:"intent"`
	Result *quoteSearchResp `json:"result,omitempty"`
}

// Message handles POST /api/concierge/message.
func (h *ConciergeHandler) Message(c *gin.Context) {
	var req conciergeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	resp, err := h.concierge.Handle(ctx, req.Message)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	out := conciergeResp{Reply: resp.Reply, Intent: resp.Intent}
	if resp.Result != nil {
		r := toSearchResp(*resp.Result)
		out.Result = &r
	}
	writeJSON(c, http.StatusOK, out)
}
