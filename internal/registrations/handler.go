package registrations

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/internal/campaigns"
	"github.com/uni-zapisy/backend/internal/invites"
	"github.com/uni-zapisy/backend/internal/middleware"
	"github.com/uni-zapisy/backend/internal/users"
	"github.com/uni-zapisy/backend/pkg/response"
)

// SubmitRequest is the body for POST /student/register. The campaign is
// addressed through the invitation code the student registered with.
type SubmitRequest struct {
	Invite      string       `json:"invite" binding:"required"`
	Preferences []Preference `json:"preferences" binding:"omitempty,dive"`
}

// Handler handles preference submission endpoints.
type Handler struct {
	repo         *Repository
	inviteRepo   *invites.Repository
	campaignRepo *campaigns.Repository
	userRepo     *users.Repository
	logger       *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(repo *Repository, inviteRepo *invites.Repository, campaignRepo *campaigns.Repository, userRepo *users.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, inviteRepo: inviteRepo, campaignRepo: campaignRepo, userRepo: userRepo, logger: logger}
}

// Submit handles POST /student/register. Validates the full ranking and
// atomically replaces any prior submission for the campaign.
func (h *Handler) Submit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nieprawidłowe dane żądania: "+err.Error())
		return
	}
	if len(req.Preferences) == 0 {
		response.BadRequest(c, "Lista preferencji jest pusta.")
		return
	}

	ctx := c.Request.Context()

	invite, err := h.inviteRepo.GetByToken(ctx, req.Invite)
	if err != nil {
		if errors.Is(err, invites.ErrNotFound) {
			response.NotFound(c, "Nieprawidłowy kod zaproszenia.")
			return
		}
		h.logger.Error("get invitation", zap.Error(err))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	if invite.TargetCampaignID == nil {
		response.NotFound(c, "Zaproszenie nie jest przypisane do kampanii.")
		return
	}

	campaign, err := h.campaignRepo.GetByID(ctx, *invite.TargetCampaignID)
	if err != nil {
		if errors.Is(err, campaigns.ErrNotFound) {
			response.NotFound(c, "Kampania z zaproszenia już nie istnieje.")
			return
		}
		h.logger.Error("get campaign", zap.Error(err), zap.Int64("campaign_id", *invite.TargetCampaignID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	groups, err := h.campaignRepo.GroupsByCampaign(ctx, campaign.ID)
	if err != nil {
		h.logger.Error("get campaign groups", zap.Error(err), zap.Int64("campaign_id", campaign.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	groupIDs := make([]int64, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
	}

	if err := ValidateRanking(groupIDs, req.Preferences); err != nil {
		switch {
		case errors.Is(err, ErrEmptyRanking):
			response.BadRequest(c, "Lista preferencji jest pusta.")
		default:
			response.BadRequest(c, "Musisz ustawić priorytet dla WSZYSTKICH dostępnych grup w kampanii.")
		}
		return
	}

	allowed, err := h.userRepo.HasCampaignAccess(ctx, user.ID, campaign.ID)
	if err != nil {
		h.logger.Error("check campaign access", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	if !allowed {
		response.Forbidden(c, "Nie masz uprawnień do zapisu w tej kampanii.")
		return
	}

	if !campaign.WindowOpen(time.Now()) {
		response.BadRequest(c, "Termin składania wniosków minął lub jeszcze się nie zaczął.")
		return
	}

	replaced, err := h.repo.ReplaceForCampaign(ctx, user.ID, campaign.ID, req.Preferences)
	if err != nil {
		h.logger.Error("replace submission", zap.Error(err),
			zap.Int64("user_id", user.ID), zap.Int64("campaign_id", campaign.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	message := "Wniosek przyjęty."
	if replaced {
		message = "Wniosek nadpisany."
	}
	response.OK(c, gin.H{
		"message":         message,
		"campaign":        campaign.Title,
		"submitted_count": len(req.Preferences),
	})
}

// MyGroups handles GET /student/my-groups.
func (h *Handler) MyGroups(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	list, err := h.repo.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list my groups", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	if list == nil {
		list = []MyGroup{}
	}
	response.OK(c, list)
}
