package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uni-zapisy/backend/config"
	"github.com/uni-zapisy/backend/internal/campaigns"
	"github.com/uni-zapisy/backend/internal/emaillog"
	"github.com/uni-zapisy/backend/internal/invites"
	"github.com/uni-zapisy/backend/internal/mailer"
	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/internal/users"
	"github.com/uni-zapisy/backend/pkg/response"
)

// RegisterWithInviteRequest is the body for POST /auth/register-with-invite.
type RegisterWithInviteRequest struct {
	Email      string `json:"email" binding:"required,email"`
	InviteCode string `json:"invite_code" binding:"required"`
}

// EmailRequest is the body for POST /auth/request-magic-link.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MagicLinkResponse confirms that a login email went out.
type MagicLinkResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Handler handles authentication endpoints: invite redemption, magic-link
// issuance and magic-link verification.
type Handler struct {
	repo         *Repository
	userRepo     *users.Repository
	inviteRepo   *invites.Repository
	campaignRepo *campaigns.Repository
	emailLog     *emaillog.Repository
	jwt          *JWTService
	mail         *mailer.Mailer
	limiter      *MagicLinkLimiter
	authCfg      config.AuthConfig
	frontendURL  string
	logger       *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(
	repo *Repository,
	userRepo *users.Repository,
	inviteRepo *invites.Repository,
	campaignRepo *campaigns.Repository,
	emailLog *emaillog.Repository,
	jwt *JWTService,
	mail *mailer.Mailer,
	limiter *MagicLinkLimiter,
	authCfg config.AuthConfig,
	frontendURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		repo:         repo,
		userRepo:     userRepo,
		inviteRepo:   inviteRepo,
		campaignRepo: campaignRepo,
		emailLog:     emailLog,
		jwt:          jwt,
		mail:         mail,
		limiter:      limiter,
		authCfg:      authCfg,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// RegisterWithInvite handles POST /auth/register-with-invite. Redeems an
// invitation (creating the account or extending its campaign grants) and
// emails a magic link. The usage counter and the user mutation commit in
// one transaction.
func (h *Handler) RegisterWithInvite(c *gin.Context) {
	var req RegisterWithInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nieprawidłowe dane żądania: "+err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	if !AllowedDomain(email, h.authCfg.AllowedDomains) {
		response.BadRequest(c, "Wymagany mail w domenie "+strings.Join(h.authCfg.AllowedDomains, ", "))
		return
	}

	invite, err := h.inviteRepo.GetByToken(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, invites.ErrNotFound) {
			response.NotFound(c, "Nieprawidłowy kod zaproszenia.")
			return
		}
		h.logger.Error("get invitation", zap.Error(err))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}
	if !invite.Valid(time.Now()) {
		response.BadRequest(c, "Ten kod zaproszenia wygasł lub został w pełni wykorzystany.")
		return
	}

	if invite.TargetCampaignID != nil {
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
		if !campaign.IsActive {
			response.BadRequest(c, "Kampania jeszcze się nie zaczęła albo już się skończyła.")
			return
		}
	}

	if !h.allowMagicLink(c, email) {
		return
	}

	res, err := h.inviteRepo.Redeem(ctx, req.InviteCode, email)
	if err != nil {
		switch {
		case errors.Is(err, invites.ErrNotFound):
			response.NotFound(c, "Nieprawidłowy kod zaproszenia.")
		case errors.Is(err, invites.ErrExpired), errors.Is(err, invites.ErrExhausted):
			response.BadRequest(c, "Ten kod zaproszenia wygasł lub został w pełni wykorzystany.")
		default:
			h.logger.Error("redeem invitation", zap.Error(err))
			response.Internal(c, "Błąd zapisu bazy danych.")
		}
		return
	}

	var detail string
	switch {
	case res.CreatedUser:
		detail = "Konto utworzone pomyślnie!"
	case res.GrantedCampaign:
		detail = "Zaktualizowano Twoje konto o dostęp do nowego rocznika."
	case invite.TargetCampaignID != nil:
		detail = "Masz już dostęp do tej kampanii. Logowanie..."
	default:
		detail = "Konto już istnieje. Logowanie..."
	}

	// A freshly created starosta logs in without the invite passthrough,
	// landing on the admin panel instead of the invite flow.
	inviteParam := req.InviteCode
	if res.CreatedUser && invite.TargetRole == models.RoleAdmin {
		inviteParam = ""
	}

	if !h.issueMagicLink(c, email, inviteParam) {
		return
	}

	response.OK(c, MagicLinkResponse{
		Message: "Sukces!",
		Detail:  fmt.Sprintf("%s Na adres %s wysłaliśmy link logujący.", detail, email),
	})
}

// RequestMagicLink handles POST /auth/request-magic-link. Login path for
// existing accounts; an unknown email creates no token.
func (h *Handler) RequestMagicLink(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nieprawidłowe dane żądania: "+err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.userRepo.GetByEmail(c.Request.Context(), email); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			response.NotFound(c, "Taki użytkownik nie istnieje. Jeśli masz kod od starosty, użyj rejestracji z kodem.")
			return
		}
		h.logger.Error("get user", zap.Error(err))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return
	}

	if !h.allowMagicLink(c, email) {
		return
	}
	if !h.issueMagicLink(c, email, "") {
		return
	}

	response.OK(c, MagicLinkResponse{
		Message: "Sprawdź skrzynkę",
		Detail:  fmt.Sprintf("Wysłano link logowania na adres %s.", email),
	})
}

// Verify handles GET /auth/verify?token=...&invite=.... Redeems the
// single-use magic link, sets the session cookie and redirects to the
// frontend. A second call with the same token always fails.
func (h *Handler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Brak tokenu.")
		return
	}

	user, err := h.repo.RedeemToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenInvalid):
			response.Unauthorized(c, "Link jest nieważny lub wygasł.")
		case errors.Is(err, ErrUserVanished):
			response.NotFound(c, "Użytkownik nie istnieje.")
		default:
			h.logger.Error("redeem magic token", zap.Error(err))
			response.Internal(c, "Błąd zapisu bazy danych.")
		}
		return
	}

	session, err := h.jwt.Generate(user.ID)
	if err != nil {
		h.logger.Error("generate session token", zap.Error(err), zap.Int64("user_id", user.ID))
		response.Internal(c, "Nie udało się wygenerować tokenu sesji.")
		return
	}

	redirect := h.frontendURL + "/"
	if invite := c.Query("invite"); invite != "" {
		redirect = h.frontendURL + "/?invite=" + invite
	} else if user.Role == models.RoleAdmin {
		redirect = h.frontendURL + "/pages/PanelStarosty.html"
	} else {
		redirect = h.frontendURL + "/pages/StudentPanel.html"
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("access_token", session, int(h.jwt.SessionTTL().Seconds()), "/", "", true, true)
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// allowMagicLink applies the per-email cooldown. Replies 429 and returns
// false when the caller must wait.
func (h *Handler) allowMagicLink(c *gin.Context, email string) bool {
	allowed, err := h.limiter.Allow(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("magic link limiter", zap.Error(err))
		response.Internal(c, "Błąd wewnętrzny serwera.")
		return false
	}
	if !allowed {
		response.TooManyRequests(c, "Zbyt wiele próśb o link logowania. Spróbuj ponownie za chwilę.")
		return false
	}
	return true
}

// issueMagicLink persists a fresh token and sends it. Replies 500 and
// returns false on failure; every delivery attempt lands in the audit log.
func (h *Handler) issueMagicLink(c *gin.Context, email, invite string) bool {
	ctx := c.Request.Context()

	token, err := GenerateMagicToken()
	if err != nil {
		h.logger.Error("generate magic token", zap.Error(err))
		response.Internal(c, "Nie udało się wygenerować tokenu logowania.")
		return false
	}
	expiresAt := time.Now().Add(time.Duration(h.authCfg.TokenExpireMinutes) * time.Minute)
	if err := h.repo.CreateToken(ctx, email, token, expiresAt); err != nil {
		h.logger.Error("persist magic token", zap.Error(err))
		response.Internal(c, "Błąd zapisu bazy danych.")
		return false
	}

	if err := h.mail.SendMagicLink(email, token, invite); err != nil {
		h.logger.Error("send magic link", zap.Error(err), zap.String("email", email))
		if logErr := h.emailLog.Record(ctx, models.EmailTypeMagicLink, email, h.mail.Subject(), models.EmailStatusFailed, err.Error()); logErr != nil {
			h.logger.Error("record email log", zap.Error(logErr))
		}
		response.Internal(c, "Błąd wysyłania emaila: "+err.Error())
		return false
	}
	if err := h.emailLog.Record(ctx, models.EmailTypeMagicLink, email, h.mail.Subject(), models.EmailStatusSent, ""); err != nil {
		h.logger.Error("record email log", zap.Error(err))
	}
	return true
}
