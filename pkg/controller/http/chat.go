package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/usecase"
	"github.com/bizmate-ai/bizmate/pkg/utils/errutil"
	"github.com/bizmate-ai/bizmate/pkg/utils/safe"
)

// chatRequest is the wire shape of one turn request. Field names follow
// the dashboard client's existing contract, which mixes snake_case and
// camelCase.
type chatRequest struct {
	UserID      string       `json:"user_id"`
	Message     string       `json:"message"`
	Type        string       `json:"type,omitempty"` // explicit intent override
	ThreadID    string       `json:"threadId,omitempty"`
	BusinessID  string       `json:"business_id,omitempty"`
	ParsedInput *parsedInput `json:"parsedInput,omitempty"`
}

// parsedInput carries hints the client already extracted on its side
type parsedInput struct {
	Entities map[string]string `json:"entities,omitempty"`
	Flags    struct {
		BadNews     bool `json:"bad_news,omitempty"`
		Celebration bool `json:"celebration,omitempty"`
		Quick       bool `json:"quick,omitempty"`
		DeepDive    bool `json:"deep_dive,omitempty"`
	} `json:"flags,omitempty"`
	Depth string `json:"depth,omitempty"`
	Style string `json:"style,omitempty"`
}

type webLookupMeta struct {
	Used          bool `json:"used"`
	LimitReached  bool `json:"limit_reached"`
	NotConfigured bool `json:"not_configured"`
}

type chatMeta struct {
	Intent    string        `json:"intent,omitempty"`
	ThreadID  string        `json:"thread_id,omitempty"`
	ElapsedMS int64         `json:"elapsed_ms"`
	Model     string        `json:"model,omitempty"`
	Stub      bool          `json:"stub,omitempty"`
	WebLookup webLookupMeta `json:"web_lookup"`
	Error     string        `json:"error,omitempty"`
}

type chatResponse struct {
	ResponseText     string   `json:"responseText"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
	FollowUpPrompt   string   `json:"followUpPrompt,omitempty"`
	Meta             chatMeta `json:"meta"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	defer safe.Close(r.Context(), r.Body)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
		return
	}

	output := s.chatUC.Chat(r.Context(), req.toInput())

	resp := chatResponse{
		ResponseText:     output.ResponseText,
		SuggestedActions: output.SuggestedActions,
		FollowUpPrompt:   output.FollowUpPrompt,
		Meta: chatMeta{
			Intent:    string(output.Meta.Intent),
			ThreadID:  string(output.Meta.ThreadID),
			ElapsedMS: output.Meta.Elapsed.Milliseconds(),
			Model:     output.Meta.Model,
			Stub:      output.Meta.Stub,
			WebLookup: webLookupMeta{
				Used:          output.Meta.Web.Used,
				LimitReached:  output.Meta.Web.LimitReached,
				NotConfigured: output.Meta.Web.NotConfigured,
			},
			Error: output.Meta.Error,
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal chat response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}

func (req *chatRequest) toInput() *usecase.ChatInput {
	input := &usecase.ChatInput{
		UserID:     types.UserID(req.UserID),
		Message:    req.Message,
		Intent:     types.Intent(req.Type),
		ThreadID:   types.ThreadID(req.ThreadID),
		BusinessID: types.BusinessID(req.BusinessID),
	}

	if pi := req.ParsedInput; pi != nil {
		input.Flags = model.TurnFlags{
			BadNews:     pi.Flags.BadNews,
			Celebration: pi.Flags.Celebration,
			Quick:       pi.Flags.Quick,
			DeepDive:    pi.Flags.DeepDive,
		}
		input.Depth = model.Depth(pi.Depth)
		input.Style = model.RenderStyle(pi.Style)
		if len(pi.Entities) > 0 {
			input.Bundle = &model.ContextBundle{Entities: pi.Entities}
		}
	}

	return input
}
