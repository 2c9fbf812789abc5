package users

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/internal/campaigns"
	"github.com/uni-zapisy/backend/internal/middleware"
	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/pkg/response"
)

// Handler handles user-facing profile and catalog endpoints.
type Handler struct {
	repo         *Repository
	campaignRepo *campaigns.Repository
	logger       *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, campaignRepo *campaigns.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, campaignRepo: campaignRepo, logger: logger}
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	allowed, err := h.repo.AllowedCampaignIDs(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("allowed campaigns", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	if allowed == nil {
		allowed = []int64{}
	}

	response.OK(c, gin.H{
		"id":                   user.ID,
		"email":                user.Email,
		"role":                 user.Role,
		"study_program_id":     user.StudyProgramID,
		"allowed_campaign_ids": allowed,
	})
}

// Dashboard handles GET /users/dashboard. The payload depends on the role.
func (h *Handler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	base := gin.H{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}

	switch user.Role {
	case models.RoleAdmin:
		count, err := h.repo.CountCreatedCampaigns(c.Request.Context(), user.ID)
		if err != nil {
			h.logger.Error("count campaigns", zap.Error(err), zap.Int64("user_id", user.ID))
			response.Internal(c, "Błąd zapisu bazy danych.")
			return
		}
		base["dashboard_type"] = "ADMIN"
		base["active_campaigns"] = count
		base["actions"] = []string{"create_campaign", "view_stats", "manage_groups"}
	default:
		count, err := h.repo.CountRegistrations(c.Request.Context(), user.ID)
		if err != nil {
			h.logger.Error("count registrations", zap.Error(err), zap.Int64("user_id", user.ID))
			response.Internal(c, "Błąd zapisu bazy danych.")
			return
		}
		status := "Niezapisany"
		if count > 0 {
			status = "Zapisany"
		}
		base["dashboard_type"] = "STUDENT"
		base["my_registrations_count"] = count
		base["status"] = status
		base["actions"] = []string{"join_group"}
	}

	response.OK(c, base)
}

// AvailableCampaigns handles GET /users/available-campaigns. Returns the
// campaigns the user may access, each with a derived window status and
// per-group seat and demand counts.
func (h *Handler) AvailableCampaigns(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	list, err := h.campaignRepo.ListAllowedForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list allowed campaigns", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	now := time.Now()
	out := make([]gin.H, 0, len(list))
	for i := range list {
		campaign := &list[i]
		stats, err := h.campaignRepo.GroupStatsByCampaign(c.Request.Context(), campaign.ID)
		if err != nil {
			h.logger.Error("group stats", zap.Error(err), zap.Int64("campaign_id", campaign.ID))
			response.Internal(c, "Błąd zapisu bazy danych.")
			return
		}
		out = append(out, gin.H{
			"id":        campaign.ID,
			"title":     campaign.Title,
			"starts_at": campaign.StartsAt,
			"ends_at":   campaign.EndsAt,
			"status":    campaign.Status(now),
			"groups":    stats,
		})
	}
	response.OK(c, gin.H{"campaigns": out})
}
