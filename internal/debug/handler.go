// Package debug exposes a diagnostics router that dumps configuration and
// database contents. It leaks secrets and must only be mounted when the
// DEBUG toggle is on.
package debug

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/config"
	"github.com/uni-zapisy/backend/pkg/response"
)

// Handler serves the DEBUG-gated diagnostics endpoints.
type Handler struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewHandler creates a debug handler.
func NewHandler(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, pool: pool, logger: logger}
}

// Info handles GET /debug/info. Dumps the effective configuration,
// secrets included.
func (h *Handler) Info(c *gin.Context) {
	response.OK(c, gin.H{
		"DATABASE_URL":         h.cfg.Database.DSN(),
		"SECRET_KEY":           h.cfg.JWT.Secret,
		"SESSION_EXPIRE_HOURS": h.cfg.JWT.SessionExpireHours,
		"TOKEN_EXPIRE_MINUTES": h.cfg.Auth.TokenExpireMinutes,
		"ALLOWED_DOMAINS":      strings.Join(h.cfg.Auth.AllowedDomains, ","),
		"REDIS_ADDR":           h.cfg.Redis.Addr,
		"SMTP_HOST":            h.cfg.SMTP.Host,
		"SMTP_PORT":            h.cfg.SMTP.Port,
		"SMTP_USER":            h.cfg.SMTP.User,
		"SMTP_PASSWORD":        h.cfg.SMTP.Password,
		"SMTP_FROM":            h.cfg.SMTP.From,
		"APP_NAME":             h.cfg.App.Name,
		"BACKEND_URL":          h.cfg.App.BackendURL,
		"FRONTEND_URL":         h.cfg.App.FrontendURL,
	})
}

// DB handles GET /debug/db. Dumps row counts for every application table.
func (h *Handler) DB(c *gin.Context) {
	tables := []string{
		"study_programs", "users", "user_campaigns", "invitations",
		"auth_tokens", "registration_campaigns", "registration_groups",
		"registrations", "email_logs",
	}
	counts := gin.H{}
	for _, t := range tables {
		var n int64
		if err := h.pool.QueryRow(c.Request.Context(), "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			h.logger.Error("debug count", zap.String("table", t), zap.Error(err))
			response.Internal(c, "Błąd zapisu bazy danych.")
			return
		}
		counts[t] = n
	}
	response.OK(c, counts)
}
