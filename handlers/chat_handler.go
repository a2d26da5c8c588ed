package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/app"
	"github.com/opsdesk/aws-agent/services/agent"
	"github.com/opsdesk/aws-agent/utils"
)

// ChatMessage is one message in an OpenAI-style conversation
type ChatMessage struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-compatible request body
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Stream   bool          `json:"stream"`
}

// ChatCompletionChoice is one completion alternative
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionUsage reports token counts for the exchange
type ChatCompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the OpenAI-compatible response body
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   ChatCompletionUsage    `json:"usage"`
}

const defaultModel = "aws-agent"

// ChatCompletionHandler serves POST /v1/chat/completions. The newest user
// message is treated as the operator's query; the answer comes back as a
// single assistant message.
func ChatCompletionHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			deps.Logger.Warn("invalid request body",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid JSON in request body", nil)
			return
		}

		if err := utils.ValidateStruct(&req); err != nil {
			deps.Logger.Warn("request validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			details := map[string]interface{}{}
			for field, msg := range utils.GetValidationFields(err) {
				details[field] = msg
			}
			_ = utils.WriteBadRequest(w, "Validation failed", details)
			return
		}

		query := lastUserMessage(req.Messages)
		if query == "" {
			_ = utils.WriteBadRequest(w, "No user message found in messages", nil)
			return
		}

		meta := agent.RequestMeta{
			RequestID: requestID,
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		}

		result, err := deps.Agent.ProcessQuery(ctx, query, meta)
		if err != nil {
			HandleServiceError(w, deps.Logger, requestID, err)
			return
		}

		model := req.Model
		if model == "" {
			model = defaultModel
		}

		resp := ChatCompletionResponse{
			ID:      "chatcmpl-" + uuid.New().String(),
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   model,
			Choices: []ChatCompletionChoice{
				{
					Index:        0,
					Message:      ChatMessage{Role: "assistant", Content: result.Text},
					FinishReason: "stop",
				},
			},
			Usage: ChatCompletionUsage{
				PromptTokens:     countTokens(query),
				CompletionTokens: countTokens(result.Text),
				TotalTokens:      countTokens(query) + countTokens(result.Text),
			},
		}

		_ = utils.WriteJSON(w, http.StatusOK, resp)
	}
}

// lastUserMessage returns the content of the newest message with role "user"
func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}

// countTokens approximates token usage as whitespace-separated words
func countTokens(s string) int {
	return len(strings.Fields(s))
}
