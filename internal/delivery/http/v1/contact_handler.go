package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/mailer"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required).
// The rate limiter runs before body binding: every attempt consumes a slot,
// valid or not.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, rateLimit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", rateLimit, handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Send a message through the contact form. This is a public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validation.Details(err); details != nil {
			c.Error(apperror.ValidationFailed(details))
			return
		}
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	meta := domain.RequestMeta{
		ClientIP:  middleware.ClientIdentity(c),
		UserAgent: c.GetHeader("User-Agent"),
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req, meta); err != nil {
		c.Error(mapContactError(err))
		return
	}

	response.Success(c, http.StatusOK, "Thank you! Your message has been sent successfully. I'll get back to you soon!")
}

// mapContactError translates pipeline failures into user-facing errors.
// Auth and connection transport failures share one generic message; the
// code only appears in server logs.
func mapContactError(err error) *apperror.AppError {
	if errors.Is(err, domain.ErrMailNotConfigured) {
		return apperror.ServiceUnavailable("Email service is not configured. Please try again later.", err)
	}
	var terr *mailer.TransportError
	if errors.As(err, &terr) {
		return apperror.ServiceUnavailable("Email service is temporarily unavailable. Please try again later.", err)
	}
	return apperror.Internal(err)
}
