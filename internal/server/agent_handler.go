package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
)

type generateRequest struct {
	Prompt   string `json:"prompt"`
	ThreadID string `json:"thread_id"`
}

type generateResponse struct {
	Response string `json:"response"`
	ThreadID string `json:"thread_id"`
}

// AgentHandler exposes the conversational assistant. A missing thread_id
// starts a fresh thread; the generated id is returned so the caller can
// continue the conversation.
type AgentHandler struct {
	assistant contractx.Assistant
}

func NewAgentHandler(assistant contractx.Assistant) *AgentHandler {
	return &AgentHandler{assistant: assistant}
}

func (ah *AgentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		recordAgentTurn("rejected")
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		recordAgentTurn("rejected")
		respondErr(w, http.StatusBadRequest, errors.New("prompt is required"))
		return
	}

	threadID := strings.TrimSpace(req.ThreadID)
	if threadID == "" {
		threadID = uuid.NewString()
	}

	reply, err := ah.assistant.Generate(r.Context(), threadID, req.Prompt)
	if err != nil {
		log.Error().Err(err).Str("thread_id", threadID).Msg("agent generate")
		recordAgentTurn("error")
		switch {
		case errors.Is(err, contractx.ErrPromptMissing), errors.Is(err, contractx.ErrValidation):
			respondErr(w, http.StatusBadRequest, err)
		default:
			respondErr(w, http.StatusInternalServerError, err)
		}
		return
	}

	recordAgentTurn("ok")
	respond(w, http.StatusOK, generateResponse{
		Response: reply,
		ThreadID: threadID,
	})
}
