package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/fitpal-go-api/narrative"
	"lg/fitpal-go-api/plan"
)

// createPlan handles POST /api/plan[?narrative=true].
// Validates the goal, evaluates it synchronously and, for feasible plans when asked,
// attaches a generated diet/training narrative. A narrative failure never changes the
// plan: it is reported in ai_plan_error alongside a 200.
func (h *Handler) createPlan(c *gin.Context) {
	withNarrative, err := strconv.ParseBool(c.DefaultQuery("narrative", "false"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "narrative must be true or false")
		return
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, bindingErrorMessage(err))
		return
	}
	if req.TargetDate.IsZero() {
		apiError(c, http.StatusBadRequest, "target_date is required")
		return
	}

	in, err := req.goalInput()
	if err == nil {
		err = in.Validate(h.evaluator.Today())
	}
	if err != nil {
		apiError(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), plan.ErrInvalidInput.Error()+": "))
		return
	}

	result, err := h.evaluator.Evaluate(in)
	if err != nil {
		log.Printf("[plan] rid=%s evaluate error: %v", c.GetString("request_id"), err)
		apiError(c, http.StatusInternalServerError, "failed to evaluate plan")
		return
	}

	resp := planResponse{Result: result}
	if result.Feasible && withNarrative {
		resp.AIPlan, resp.AIPlanError = h.attachNarrative(c, result)
	}
	c.JSON(http.StatusOK, resp)
}

// attachNarrative returns the generated plan, or a client-facing reason it is missing.
// Upstream details stay in the log.
func (h *Handler) attachNarrative(c *gin.Context, result plan.Result) (*narrative.Plan, string) {
	if h.enricher == nil {
		return nil, "narrative generation is not configured"
	}
	p, err := h.enricher.Enrich(c.Request.Context(), result)
	if err == nil {
		return p, ""
	}

	log.Printf("[plan] rid=%s narrative error: %v", c.GetString("request_id"), err)
	switch {
	case errors.Is(err, narrative.ErrDisabled):
		return nil, "narrative generation is not configured"
	case errors.Is(err, narrative.ErrInvalidContent):
		return nil, "the model did not return a valid plan"
	default:
		return nil, "narrative generation failed"
	}
}

// healthz handles GET /api/healthz.
func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
