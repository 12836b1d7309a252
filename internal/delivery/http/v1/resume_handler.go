package v1

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumePath string
}

// NewResumeHandler registers the resume download route
func NewResumeHandler(public *gin.RouterGroup, resumePath string) {
	handler := &ResumeHandler{
		resumePath: resumePath,
	}

	public.GET("/resume", handler.DownloadResume)
}

// DownloadResume godoc
// @Summary      Download Resume
// @Description  Streams the resume PDF with download headers.
// @Tags         resume
// @Produce      application/pdf
// @Success      200
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /resume [get]
func (h *ResumeHandler) DownloadResume(c *gin.Context) {
	if _, err := os.Stat(h.resumePath); err != nil {
		c.Error(apperror.NotFound("Resume not found"))
		return
	}

	data, err := os.ReadFile(h.resumePath)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	if logger.Log != nil {
		logger.Log.Info("Resume downloaded",
			"ip", middleware.ClientIdentity(c),
			"user_agent", c.GetHeader("User-Agent"),
			"referer", c.GetHeader("Referer"),
		)
	}

	filename := filepath.Base(h.resumePath)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	// Resume changes rarely; let browsers and CDNs cache for a year
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Data(http.StatusOK, "application/pdf", data)
}
