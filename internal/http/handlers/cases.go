package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
	"github.com/yungbote/intervention-backend/internal/http/middleware"
	"github.com/yungbote/intervention-backend/internal/http/response"
	"github.com/yungbote/intervention-backend/internal/platform/logger"
	"github.com/yungbote/intervention-backend/internal/services"
)

type CaseHandler struct {
	log   *logger.Logger
	cases services.CaseService
}

func NewCaseHandler(baseLog *logger.Logger, cases services.CaseService) *CaseHandler {
	return &CaseHandler{log: baseLog.With("handler", "CaseHandler"), cases: cases}
}

var errInvalidCaseID = errors.New("case id must be a positive integer")

func caseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.RespondValidation(c, errInvalidCaseID)
		return 0, false
	}
	return uint(id), true
}

// POST /api/cases
func (h *CaseHandler) Create(c *gin.Context) {
	var in domainagg.CreateCaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondValidation(c, err)
		return
	}
	out, err := h.cases.Create(c.Request.Context(), c.GetHeader("Idempotency-Key"), in)
	if err != nil {
		h.log.Warn("create case failed", "code", domainagg.CodeOf(err), "error", err)
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, out.Result, middleware.HeaderIdempotentReplay, out.Replayed)
}

// GET /api/cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := caseIDParam(c)
	if !ok {
		return
	}
	includeDeleted := false
	if raw := c.Query("includeDeleted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondValidation(c, err)
			return
		}
		includeDeleted = v
	}
	cs, err := h.cases.Get(c.Request.Context(), id, includeDeleted)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"case": cs})
}

// PATCH /api/cases/:id
func (h *CaseHandler) Patch(c *gin.Context) {
	id, ok := caseIDParam(c)
	if !ok {
		return
	}
	var in domainagg.PatchCaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in.CaseID = id
	res, err := h.cases.Patch(c.Request.Context(), in)
	if err != nil {
		h.log.Warn("patch case failed", "case_id", id, "code", domainagg.CodeOf(err), "error", err)
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *CaseHandler) transition(tr domainagg.Transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := caseIDParam(c)
		if !ok {
			return
		}
		cs, err := h.cases.Transition(c.Request.Context(), id, tr)
		if err != nil {
			response.RespondAggregateError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"case": cs})
	}
}

// POST /api/cases/:id/close
func (h *CaseHandler) Close(c *gin.Context) { h.transition(domainagg.TransitionClose)(c) }

// POST /api/cases/:id/archive
func (h *CaseHandler) Archive(c *gin.Context) { h.transition(domainagg.TransitionArchive)(c) }

// POST /api/cases/:id/reactivate
func (h *CaseHandler) Reactivate(c *gin.Context) { h.transition(domainagg.TransitionReactivate)(c) }

// DELETE /api/cases/:id
func (h *CaseHandler) Delete(c *gin.Context) { h.transition(domainagg.TransitionDelete)(c) }
