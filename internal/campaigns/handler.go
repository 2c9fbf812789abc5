package campaigns

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/internal/middleware"
	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/pkg/response"
)

// CreateCampaignRequest is the body for POST /admin/campaigns.
type CreateCampaignRequest struct {
	Title    string       `json:"title" binding:"required"`
	StartsAt time.Time    `json:"starts_at" binding:"required"`
	EndsAt   time.Time    `json:"ends_at" binding:"required"`
	Groups   []GroupInput `json:"groups" binding:"required,min=1,dive"`
}

// UpdateGroupLimitRequest is the body for PATCH /admin/campaigns/:id/groups/:groupID.
type UpdateGroupLimitRequest struct {
	SeatLimit int `json:"seat_limit" binding:"required,min=1"`
}

// Handler handles campaign management endpoints for the starosta.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a campaigns handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /admin/campaigns. Creates a time-windowed campaign
// with its capacity-limited groups; the creator is granted access.
func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nieprawidłowe dane żądania: "+err.Error())
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		response.BadRequest(c, "Data zakończenia musi być późniejsza niż data rozpoczęcia.")
		return
	}

	campaign := &models.Campaign{
		CreatorID:      &user.ID,
		StudyProgramID: user.StudyProgramID,
		Title:          req.Title,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
	}
	if err := h.repo.Create(c.Request.Context(), campaign, req.Groups); err != nil {
		h.logger.Error("create campaign", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	groups, err := h.repo.GroupsByCampaign(c.Request.Context(), campaign.ID)
	if err != nil {
		h.logger.Error("load campaign groups", zap.Error(err), zap.Int64("campaign_id", campaign.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	response.Created(c, gin.H{
		"campaign": campaign,
		"groups":   groups,
		"status":   campaign.Status(time.Now()),
	})
}

// ListMine handles GET /admin/campaigns. Returns the caller's campaigns
// with per-group occupancy.
func (h *Handler) ListMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	list, err := h.repo.ListByCreator(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list campaigns", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	now := time.Now()
	out := make([]gin.H, 0, len(list))
	for i := range list {
		campaign := &list[i]
		stats, err := h.repo.GroupStatsByCampaign(c.Request.Context(), campaign.ID)
		if err != nil {
			h.logger.Error("group stats", zap.Error(err), zap.Int64("campaign_id", campaign.ID))
			response.Internal(c, "Błąd zapisu bazy danych.")
			return
		}
		out = append(out, gin.H{
			"campaign": campaign,
			"status":   campaign.Status(now),
			"groups":   stats,
		})
	}
	response.OK(c, out)
}

// Stats handles GET /admin/campaigns/:id/stats. Per group: seat limit,
// assigned count and first-choice demand.
func (h *Handler) Stats(c *gin.Context) {
	campaign, ok := h.ownCampaign(c)
	if !ok {
		return
	}

	stats, err := h.repo.GroupStatsByCampaign(c.Request.Context(), campaign.ID)
	if err != nil {
		h.logger.Error("group stats", zap.Error(err), zap.Int64("campaign_id", campaign.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	response.OK(c, gin.H{
		"campaign": campaign.Title,
		"status":   campaign.Status(time.Now()),
		"groups":   stats,
	})
}

// UpdateGroupLimit handles PATCH /admin/campaigns/:id/groups/:groupID.
func (h *Handler) UpdateGroupLimit(c *gin.Context) {
	campaign, ok := h.ownCampaign(c)
	if !ok {
		return
	}
	groupID, err := strconv.ParseInt(c.Param("groupID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Nieprawidłowy identyfikator grupy.")
		return
	}

	var req UpdateGroupLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nieprawidłowe dane żądania: "+err.Error())
		return
	}

	if err := h.repo.UpdateGroupLimit(c.Request.Context(), campaign.ID, groupID, req.SeatLimit); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Grupa nie istnieje w tej kampanii.")
			return
		}
		h.logger.Error("update group limit", zap.Error(err), zap.Int64("group_id", groupID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	response.OK(c, gin.H{"message": "Zaktualizowano limit miejsc.", "group_id": groupID, "seat_limit": req.SeatLimit})
}

// Deactivate handles POST /admin/campaigns/:id/deactivate.
func (h *Handler) Deactivate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}
	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Nieprawidłowy identyfikator kampanii.")
		return
	}

	if err := h.repo.Deactivate(c.Request.Context(), campaignID, user.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Kampania nie istnieje albo nie jesteś jej twórcą.")
			return
		}
		h.logger.Error("deactivate campaign", zap.Error(err), zap.Int64("campaign_id", campaignID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	response.OK(c, gin.H{"message": "Kampania została zamknięta.", "campaign_id": campaignID})
}

// ownCampaign resolves the :id param to a campaign owned by the caller.
func (h *Handler) ownCampaign(c *gin.Context) (*models.Campaign, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return nil, false
	}
	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Nieprawidłowy identyfikator kampanii.")
		return nil, false
	}
	campaign, err := h.repo.GetByID(c.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Kampania nie istnieje.")
			return nil, false
		}
		h.logger.Error("get campaign", zap.Error(err), zap.Int64("campaign_id", campaignID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return nil, false
	}
	if campaign.CreatorID == nil || *campaign.CreatorID != user.ID {
		response.Forbidden(c, "Nie jesteś twórcą tej kampanii.")
		return nil, false
	}
	return campaign, true
}
