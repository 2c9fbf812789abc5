package emaillog

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/pkg/response"
)

// Handler exposes the email delivery audit log to the starosta.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an email log handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/email-logs?limit=N.
func (h *Handler) List(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	list, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list email logs", zap.Error(err))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	if list == nil {
		list = []models.EmailLog{}
	}
	response.OK(c, list)
}
