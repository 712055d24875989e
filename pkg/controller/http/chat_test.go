package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/bizmate-ai/bizmate/pkg/controller/http"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/usecase"
)

type mockChatUC struct {
	lastInput *usecase.ChatInput
	output    *usecase.ChatOutput
}

func (m *mockChatUC) Chat(ctx context.Context, input *usecase.ChatInput) *usecase.ChatOutput {
	m.lastInput = input
	return m.output
}

func TestHandleChat(t *testing.T) {
	t.Run("contract round trip", func(t *testing.T) {
		uc := &mockChatUC{
			output: &usecase.ChatOutput{
				ResponseText:     "You can cover that from August profit.",
				SuggestedActions: []string{"Review payment terms"},
				FollowUpPrompt:   "Want the cash flow impact?",
				Meta: usecase.TurnMeta{
					Intent:   types.IntentAffordability,
					ThreadID: "thread-123",
					Elapsed:  1500 * time.Millisecond,
					Model:    "gemini-2.0-flash",
					Web:      usecase.WebMeta{Used: true},
				},
			},
		}
		server := httpctrl.New(uc)

		body := `{
			"user_id": "user-001",
			"message": "Can I afford a new compressor?",
			"type": "affordability",
			"threadId": "thread-123",
			"business_id": "biz-001",
			"parsedInput": {
				"entities": {"amount": "4000"},
				"flags": {"quick": true},
				"depth": "brief"
			}
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusOK)

		// Request fields reached the usecase input
		gt.Value(t, uc.lastInput.UserID).Equal(types.UserID("user-001"))
		gt.Value(t, uc.lastInput.Intent).Equal(types.IntentAffordability)
		gt.Value(t, uc.lastInput.ThreadID).Equal(types.ThreadID("thread-123"))
		gt.Value(t, uc.lastInput.BusinessID).Equal(types.BusinessID("biz-001"))
		gt.Bool(t, uc.lastInput.Flags.Quick).True()
		gt.Value(t, uc.lastInput.Bundle.Entities["amount"]).Equal("4000")

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp["responseText"]).Equal("You can cover that from August profit.")
		gt.Value(t, resp["followUpPrompt"]).Equal("Want the cash flow impact?")

		meta := resp["meta"].(map[string]any)
		gt.Value(t, meta["intent"]).Equal("affordability")
		gt.Value(t, meta["thread_id"]).Equal("thread-123")
		gt.Value(t, meta["elapsed_ms"]).Equal(float64(1500))
		gt.Value(t, meta["model"]).Equal("gemini-2.0-flash")

		web := meta["web_lookup"].(map[string]any)
		gt.Value(t, web["used"]).Equal(true)
	})

	t.Run("validation failures are structured responses", func(t *testing.T) {
		uc := &mockChatUC{
			output: &usecase.ChatOutput{
				ResponseText: "I can't process that request: user_id is required.",
				Meta:         usecase.TurnMeta{Error: "validation"},
			},
		}
		server := httpctrl.New(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(`{"message": "hi"}`))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		meta := resp["meta"].(map[string]any)
		gt.Value(t, meta["error"]).Equal("validation")
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		server := httpctrl.New(&mockChatUC{output: &usecase.ChatOutput{}})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(`{not json`))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestHealth(t *testing.T) {
	server := httpctrl.New(&mockChatUC{output: &usecase.ChatOutput{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal(`{"status":"ok"}`)
}
