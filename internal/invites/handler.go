package invites

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/internal/campaigns"
	"github.com/uni-zapisy/backend/internal/middleware"
	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/pkg/response"
)

// CreateStudentInviteRequest is the body for POST /admin/create-student-invite.
type CreateStudentInviteRequest struct {
	MaxUses    int    `json:"max_uses"`
	DaysValid  int    `json:"days_valid"`
	CampaignID *int64 `json:"campaign_id,omitempty"`
}

// InvitationLinkResponse is returned to the starosta after issuing a code.
type InvitationLinkResponse struct {
	InviteLink string    `json:"invite_link"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
	MaxUses    int       `json:"max_uses"`
}

// Handler handles invitation management endpoints for the starosta.
type Handler struct {
	repo         *Repository
	campaignRepo *campaigns.Repository
	frontendURL  string
	logger       *zap.Logger
}

// NewHandler creates an invites handler.
func NewHandler(repo *Repository, campaignRepo *campaigns.Repository, frontendURL string, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, campaignRepo: campaignRepo, frontendURL: frontendURL, logger: logger}
}

// CreateStudentInvite handles POST /admin/create-student-invite.
// Issues a capped, expiring student invitation, optionally bound to one of
// the caller's campaigns.
func (h *Handler) CreateStudentInvite(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	req := CreateStudentInviteRequest{MaxUses: 100, DaysValid: 7}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nieprawidłowe dane żądania: "+err.Error())
		return
	}
	if req.MaxUses < 1 || req.DaysValid < 1 {
		response.BadRequest(c, "max_uses i days_valid muszą być dodatnie.")
		return
	}

	if req.CampaignID != nil {
		campaign, err := h.campaignRepo.GetByID(c.Request.Context(), *req.CampaignID)
		if err != nil {
			if errors.Is(err, campaigns.ErrNotFound) {
				response.NotFound(c, "Kampania nie istnieje.")
				return
			}
			response.Internal(c, "Błąd zapisu bazy danych.")
			return
		}
		if campaign.CreatorID == nil || *campaign.CreatorID != user.ID {
			response.Forbidden(c, "Możesz zapraszać tylko do własnych kampanii.")
			return
		}
	} else if user.StudyProgramID == nil {
		response.BadRequest(c, "Nie jesteś przypisany do żadnego rocznika, więc nie możesz zapraszać.")
		return
	}

	token, err := GenerateInviteToken()
	if err != nil {
		h.logger.Error("generate invite token", zap.Error(err))
		response.Internal(c, "Nie udało się wygenerować kodu zaproszenia.")
		return
	}

	inv := &models.Invitation{
		Token:                token,
		TargetRole:           models.RoleStudent,
		TargetStudyProgramID: user.StudyProgramID,
		TargetCampaignID:     req.CampaignID,
		MaxUses:              req.MaxUses,
		ExpiresAt:            time.Now().Add(time.Duration(req.DaysValid) * 24 * time.Hour),
		CreatedBy:            &user.ID,
	}
	if err := h.repo.Create(c.Request.Context(), inv); err != nil {
		h.logger.Error("create invitation", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	response.Created(c, InvitationLinkResponse{
		InviteLink: h.frontendURL + "/?invite=" + inv.Token,
		Code:       inv.Token,
		ExpiresAt:  inv.ExpiresAt,
		MaxUses:    inv.MaxUses,
	})
}

// List handles GET /admin/invites. Returns invitations issued by the
// caller with remaining uses.
func (h *Handler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Nieprawidłowe dane uwierzytelniające (Token nieważny)")
		return
	}

	list, err := h.repo.ListByCreator(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list invitations", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	now := time.Now()
	out := make([]gin.H, 0, len(list))
	for i := range list {
		inv := &list[i]
		out = append(out, gin.H{
			"code":           inv.Token,
			"campaign_id":    inv.TargetCampaignID,
			"max_uses":       inv.MaxUses,
			"current_uses":   inv.CurrentUses,
			"remaining_uses": inv.RemainingUses(),
			"expires_at":     inv.ExpiresAt,
			"valid":          inv.Valid(now),
		})
	}
	response.OK(c, out)
}
