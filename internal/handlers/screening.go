package handlers

import (
	"errors"
	"net/http"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// runIDKey is the cookie-session key binding a browser to the active
// screening run.
const runIDKey = "screeningRunID"

type ScreeningHandler struct {
	log     *zap.Logger
	manager *session.Manager
}

func NewScreeningHandler(log *zap.Logger, manager *session.Manager) *ScreeningHandler {
	return &ScreeningHandler{log: log, manager: manager}
}

// Start moves landing -> permissions and binds the run to the caller.
func (h *ScreeningHandler) Start(c *gin.Context) {
	if err := h.manager.StartScreening(); err != nil {
		conflict(c, err)
		return
	}

	snap := h.manager.Snapshot()
	sess := sessions.Default(c)
	sess.Set(runIDKey, snap.SessionID)
	if err := sess.Save(); err != nil {
		h.log.Error("Failed to save session cookie", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session_cookie"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Begin moves permissions -> testing once devices are acquired.
func (h *ScreeningHandler) Begin(c *gin.Context) {
	if !h.boundToRun(c) {
		return
	}
	if err := h.manager.BeginTesting(); err != nil {
		conflict(c, err)
		return
	}
	c.JSON(http.StatusOK, h.manager.Snapshot())
}

type transcriptRequest struct {
	Text   string `json:"text"`
	Append bool   `json:"append"`
}

// Transcript pushes recognizer output into the pending buffer.
func (h *ScreeningHandler) Transcript(c *gin.Context) {
	if !h.boundToRun(c) {
		return
	}
	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if err := h.manager.UpdateTranscript(req.Text, req.Append); err != nil {
		conflict(c, err)
		return
	}
	c.JSON(http.StatusOK, h.manager.Snapshot())
}

type answerRequest struct {
	Transcript string `json:"transcript"`
}

// Answer submits the current question's answer. An empty transcript in the
// body falls back to the pending buffer.
func (h *ScreeningHandler) Answer(c *gin.Context) {
	if !h.boundToRun(c) {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	answer, err := h.manager.SubmitAnswer(c.Request.Context(), req.Transcript)
	switch {
	case errors.Is(err, session.ErrEmptyTranscript):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "empty_transcript",
			"message": "An answer is required before continuing.",
		})
		return
	case errors.Is(err, session.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "submission_in_flight"})
		return
	case err != nil:
		conflict(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":  answer,
		"session": h.manager.Snapshot(),
	})
}

// Emotion accepts one affect sample from the camera collaborator. Always
// 202: acceptance into the timeline is the sampler's decision, and the
// per-frame producer has nothing useful to do with a rejection.
func (h *ScreeningHandler) Emotion(c *gin.Context) {
	var sample models.EmotionSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	h.manager.Offer(sample)
	c.Status(http.StatusAccepted)
}

// Show returns the session snapshot.
func (h *ScreeningHandler) Show(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Snapshot())
}

// Restart discards the run and returns to the landing stage.
func (h *ScreeningHandler) Restart(c *gin.Context) {
	if !h.boundToRun(c) {
		return
	}
	h.manager.Restart()

	sess := sessions.Default(c)
	sess.Delete(runIDKey)
	_ = sess.Save()

	c.JSON(http.StatusOK, h.manager.Snapshot())
}

// boundToRun verifies the caller's cookie matches the active run. Writes
// the error response itself and reports whether to continue.
func (h *ScreeningHandler) boundToRun(c *gin.Context) bool {
	sess := sessions.Default(c)
	id, ok := sess.Get(runIDKey).(string)
	if !ok || id != h.manager.Snapshot().SessionID {
		c.JSON(http.StatusConflict, gin.H{"error": "stale_session"})
		return false
	}
	return true
}

func conflict(c *gin.Context, err error) {
	if errors.Is(err, session.ErrInvalidStage) {
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_stage"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
}
