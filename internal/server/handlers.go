package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/chat"
	"github.com/abhisek/careerpath/internal/planner"
	"github.com/abhisek/careerpath/internal/plans"
)

// errNoPlanner is returned by plan generation without an LLM provider.
var errNoPlanner = errors.New("no LLM provider configured: set GROQ_API_KEY or llm.provider")

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type progressResponse struct {
	Progress plans.Progress `json:"progress"`
	Stats    *plans.Stats   `json:"stats,omitempty"`
}

func (h *handlers) root(c *gin.Context) {
	respondOK(c, gin.H{"message": "Plan Carrera API", "health": "/health"})
}

func (h *handlers) health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

func (h *handlers) generatePlan(c *gin.Context) {
	if h.deps.Planner == nil {
		respondError(c, http.StatusServiceUnavailable, "llm_not_configured", errNoPlanner)
		return
	}
	var answers planner.Answers
	if err := c.ShouldBindJSON(&answers); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	answers = answers.WithDefaults()

	gen, err := h.deps.Planner.FromAnswers(c.Request.Context(), answers)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "generation_failed", err)
		return
	}
	plan, err := planner.Save(c.Request.Context(), h.deps.Plans, userID(c), gen, answers.Goal, answers)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *handlers) generatePlanFromChat(c *gin.Context) {
	if h.deps.Planner == nil {
		respondError(c, http.StatusServiceUnavailable, "llm_not_configured", errNoPlanner)
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	gen, err := h.deps.Planner.FromMessage(c.Request.Context(), req.Message)
	if errors.Is(err, planner.ErrEmptyMessage) {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "generation_failed", err)
		return
	}
	plan, err := planner.Save(c.Request.Context(), h.deps.Plans, userID(c), gen, strings.TrimSpace(req.Message), gin.H{"message": req.Message})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *handlers) chatMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	user := userID(c)

	uc, err := h.userContext(c, user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "context_failed", err)
		return
	}

	reply, err := h.deps.Chat.Send(ctx, user, req.Message, uc)
	if errors.Is(err, chat.ErrEmptyMessage) {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "chat_failed", err)
		return
	}
	respondOK(c, chatResponse{Message: reply.Content, Timestamp: reply.CreatedAt})
}

// userContext describes the user's primary plan to the mentor.
func (h *handlers) userContext(c *gin.Context, user string) (chat.UserContext, error) {
	ctx := c.Request.Context()
	primary, err := h.deps.Plans.PrimaryPlan(ctx, user)
	if err != nil {
		return chat.UserContext{}, err
	}
	if primary == nil {
		return chat.UserContext{PlanTitle: "Sin plan aún"}, nil
	}
	cat, err := primary.Catalog()
	if err != nil {
		return chat.UserContext{}, err
	}
	p, err := h.deps.Plans.GetProgress(ctx, user, primary.ID)
	if err != nil {
		return chat.UserContext{}, err
	}
	return chat.ContextFor(cat, p.State()), nil
}

func (h *handlers) chatHistory(c *gin.Context) {
	msgs, err := h.deps.Chat.History(c.Request.Context(), userID(c), 0)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	respondOK(c, gin.H{"messages": msgs})
}

func (h *handlers) clearChat(c *gin.Context) {
	if err := h.deps.Chat.Clear(c.Request.Context(), userID(c)); err != nil {
		respondError(c, http.StatusInternalServerError, "clear_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listPlans(c *gin.Context) {
	list, err := h.deps.Plans.ListPlans(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	if list == nil {
		list = []plans.Plan{}
	}
	respondOK(c, gin.H{"plans": list})
}

// ownedPlan loads the plan in the route and checks it belongs to the caller.
func (h *handlers) ownedPlan(c *gin.Context) (plans.Plan, bool) {
	plan, err := h.deps.Plans.GetPlan(c.Request.Context(), c.Param("planID"))
	switch {
	case errors.Is(err, plans.ErrPlanNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
		return plans.Plan{}, false
	case err != nil:
		respondError(c, http.StatusInternalServerError, "get_failed", err)
		return plans.Plan{}, false
	case plan.UserID != userID(c) || plan.Status != plans.StatusActive:
		respondError(c, http.StatusNotFound, "not_found", plans.ErrPlanNotFound)
		return plans.Plan{}, false
	}
	return plan, true
}

func (h *handlers) getPlan(c *gin.Context) {
	plan, ok := h.ownedPlan(c)
	if !ok {
		return
	}
	respondOK(c, plan)
}

func (h *handlers) deletePlan(c *gin.Context) {
	plan, ok := h.ownedPlan(c)
	if !ok {
		return
	}
	if err := h.deps.Plans.DeletePlan(c.Request.Context(), plan.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) setPrimary(c *gin.Context) {
	plan, ok := h.ownedPlan(c)
	if !ok {
		return
	}
	if err := h.deps.Plans.SetPrimaryPlan(c.Request.Context(), plan.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "update_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) planStats(c *gin.Context) {
	plan, ok := h.ownedPlan(c)
	if !ok {
		return
	}
	stats, err := h.deps.Plans.Stats(c.Request.Context(), userID(c), plan.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	respondOK(c, stats)
}

func (h *handlers) getProgress(c *gin.Context) {
	p, err := h.deps.Plans.GetProgress(c.Request.Context(), userID(c), c.Param("planID"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	respondOK(c, h.withStats(c, p))
}

func (h *handlers) putProgress(c *gin.Context) {
	var p plans.Progress
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	user, planID := userID(c), c.Param("planID")

	if err := h.deps.Plans.SaveProgress(ctx, user, planID, p); err != nil {
		respondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}
	saved, err := h.deps.Plans.GetProgress(ctx, user, planID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	respondOK(c, h.withStats(c, saved))
}

// withStats attaches stats when the progress belongs to a stored plan.
func (h *handlers) withStats(c *gin.Context, p plans.Progress) progressResponse {
	resp := progressResponse{Progress: p}
	stats, err := h.deps.Plans.Stats(c.Request.Context(), userID(c), c.Param("planID"))
	if err == nil {
		resp.Stats = &stats
	} else if !errors.Is(err, plans.ErrPlanNotFound) {
		h.logger.Warn("progress stats failed", zap.Error(err))
	}
	return resp
}
