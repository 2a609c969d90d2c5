package endpoint

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxalign/engine"
	apperrors "github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/server"
	"github.com/kbukum/voxalign/server/middleware"
	"github.com/kbukum/voxalign/transcript"
	"github.com/kbukum/voxalign/transcription"
	"github.com/kbukum/voxalign/util"
	"github.com/kbukum/voxalign/validation"
)

// ChannelPayload is one channel of a session: the audio file name and the
// provider payload for it, in the shape transcription.Decode accepts.
type ChannelPayload struct {
	FileName   string          `json:"file_name" validate:"required"`
	Transcript json.RawMessage `json:"transcript" validate:"required"`
}

// SessionRequest is the body of both attribution endpoints.
type SessionRequest struct {
	Channels    []ChannelPayload  `json:"channels" validate:"required,min=1,dive"`
	Assignments map[string]string `json:"assignments"`
}

// input validates the request and turns it into an engine input. Payloads
// are decoded lazily, so a bad transcript only fails its own channel.
func (r *SessionRequest) input() (engine.Input, error) {
	if err := validation.ValidateRequest(r); err != nil {
		return engine.Input{}, err
	}
	assignments, err := transcript.ParseAssignments(r.Assignments)
	if err != nil {
		return engine.Input{}, apperrors.New(apperrors.ErrCodeInvalidPayload, err.Error(), http.StatusBadRequest).
			WithDetail("field", "assignments")
	}

	sources := make([]transcript.Source, 0, len(r.Channels))
	for _, ch := range r.Channels {
		sources = append(sources, transcription.NewJSONSource(util.SanitizeString(ch.FileName), ch.Transcript))
	}
	return engine.Input{Sources: sources, Assignments: assignments}, nil
}

// Attribution serves the session endpoints on top of an engine.
type Attribution struct {
	engine *engine.Engine
	log    *logger.Logger
}

// NewAttribution creates the attribution handlers.
func NewAttribution(eng *engine.Engine, log *logger.Logger) *Attribution {
	return &Attribution{engine: eng, log: logger.OrNop(log).WithComponent("endpoint")}
}

// Diagnose handles POST /v1/diagnose.
func (a *Attribution) Diagnose(c *gin.Context) {
	in, ok := a.bind(c)
	if !ok {
		return
	}
	rep, err := a.engine.Diagnose(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rep)
}

// Attribute handles POST /v1/attribute. A run that could not attribute the
// master channel still answers 200 with success=false in the result.
func (a *Attribution) Attribute(c *gin.Context) {
	in, ok := a.bind(c)
	if !ok {
		return
	}
	res, err := a.engine.Run(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	a.log.Debug("session attributed", logger.Fields(
		logger.FieldRunID, res.RunID,
		logger.FieldRequestID, c.GetHeader(middleware.HeaderRequestID),
		"success", res.Success,
	))
	server.RespondOK(c, res)
}

func (a *Attribution) bind(c *gin.Context) (engine.Input, bool) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.New(apperrors.ErrCodeInvalidPayload, "request body is not valid JSON", http.StatusBadRequest).WithCause(err))
		return engine.Input{}, false
	}
	in, err := req.input()
	if err != nil {
		server.RespondWithError(c, err)
		return engine.Input{}, false
	}
	return in, true
}
