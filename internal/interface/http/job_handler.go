package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/response"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/validation"
)

type JobHandler struct {
	Svc    *application.JobService
	Logger *logrus.Logger
}

func NewJobHandler(svc *application.JobService, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

type createJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	SalaryMin   *int64  `json:"salaryMin"`
	SalaryMax   *int64  `json:"salaryMax"`
}

type applyRequest struct {
	CoverLetter *string `json:"coverLetter" binding:"omitempty,max=5000"`
}

// Create POST /api/jobs
func (h *JobHandler) Create(c *gin.Context, p application.Principal) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	j, err := h.Svc.CreateJob(c.Request.Context(), p, application.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, j, "job created", nil)
}

// List GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	var raw jobsearch.RawParams
	// every field is a string, so binding cannot fail on content
	_ = c.ShouldBindQuery(&raw)

	res, err := h.Svc.Search(c.Request.Context(), jobsearch.ParseParams(raw))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "jobs", nil)
}

// Get GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrJobNotFound)
		return
	}
	j, err := h.Svc.GetJob(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, j, "job", nil)
}

// Delete DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context, p application.Principal) {
	id, ok := jobID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrJobNotFound)
		return
	}
	if err := h.Svc.DeleteJob(c.Request.Context(), p, id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "job post deleted successfully", nil)
}

// Apply POST /api/jobs/:id/applications
func (h *JobHandler) Apply(c *gin.Context, p application.Principal) {
	id, ok := jobID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrJobNotFound)
		return
	}
	var req applyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	a, err := h.Svc.Apply(c.Request.Context(), p, id, req.CoverLetter)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, a, "application submitted", nil)
}

// jobID parses :id. Ids that can never exist are reported as not found.
func jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
