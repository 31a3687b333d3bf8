package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/analysis/confidence"
	"github.com/issa-compass/backend/internal/analysis/sentiment"
	"github.com/issa-compass/backend/internal/metrics"
	"github.com/issa-compass/backend/internal/store/activitylog"
	"github.com/issa-compass/backend/internal/store/models"
	"github.com/issa-compass/backend/internal/store/promptstore"
	"github.com/issa-compass/backend/pkg/logger"
)

// Gateway is the slice of the LLM layer the service depends on.
type Gateway interface {
	Call(ctx context.Context, system, userMessage, provider string) (map[string]any, error)
	Resolve(provider string) string
}

// Rough token/cost estimates per whitespace-delimited reply word.
const (
	tokensPerWord = 1.3
	costPerWord   = 0.000002
)

type Message struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ReplyRequest struct {
	ClientSequence   []string
	ChatHistory      []Message
	Provider         string
	IncludeAnalytics bool
}

type ReplyResult struct {
	Reply        string
	ResponseTime float64
	Provider     string
	Sentiment    *models.SentimentResult
	Confidence   *models.ConfidenceResult
}

// Service composes the prompt store, gateway and scorers into the reply
// generation and prompt improvement workflows.
type Service struct {
	prompts      *promptstore.Store
	activity     *activitylog.Log
	gateway      Gateway
	confidence   *confidence.Scorer
	editorPrompt string
}

func NewService(prompts *promptstore.Store, activity *activitylog.Log, gateway Gateway, editorPrompt string) *Service {
	if editorPrompt == "" {
		editorPrompt = DefaultEditorPrompt
	}

	return &Service{
		prompts:      prompts,
		activity:     activity,
		gateway:      gateway,
		confidence:   confidence.NewScorer(gateway),
		editorPrompt: editorPrompt,
	}
}

// GenerateReply answers one client sequence using the prompt current at
// call start. A gateway fault propagates; analytics bookkeeping is
// advisory and never affects the returned reply.
func (s *Service) GenerateReply(ctx context.Context, req ReplyRequest) (*ReplyResult, error) {
	start := time.Now()
	provider := s.gateway.Resolve(req.Provider)

	systemPrompt := s.prompts.Current()
	historyFormatted := FormatChatHistory(req.ChatHistory)
	clientFormatted := FormatClientSequence(req.ClientSequence)

	userMessage := fmt.Sprintf(`CHAT HISTORY:
%s

CLIENT SEQUENCE:
%s

Generate response in JSON with "reply" field only.
`, historyFormatted, clientFormatted)

	response, err := s.gateway.Call(ctx, systemPrompt, userMessage, provider)
	if err != nil {
		metrics.ReplyTotal.WithLabelValues(provider, "error").Inc()
		return nil, err
	}

	reply, _ := response["reply"].(string)
	responseTime := time.Since(start).Seconds()

	metrics.ReplyTotal.WithLabelValues(provider, "success").Inc()
	metrics.ReplyDuration.WithLabelValues(provider).Observe(responseTime)

	result := &ReplyResult{
		Reply:        reply,
		ResponseTime: round3(responseTime),
		Provider:     provider,
	}

	if req.IncludeAnalytics {
		s.recordAnalytics(ctx, result, clientFormatted, responseTime)
	}

	return result, nil
}

func (s *Service) recordAnalytics(ctx context.Context, result *ReplyResult, clientMessage string, responseTime float64) {
	sent := sentiment.Analyze(clientMessage)
	conf := s.confidence.Score(ctx, result.Reply, result.Provider)

	result.Sentiment = &sent
	result.Confidence = &conf

	words := float64(len(strings.Fields(result.Reply)))
	tokens := words * tokensPerWord
	cost := words * costPerWord

	metrics.SentimentTotal.WithLabelValues(string(sent.Sentiment)).Inc()
	metrics.ConfidenceScore.Observe(conf.Score)
	metrics.LLMTokensUsed.WithLabelValues(result.Provider).Add(tokens)
	metrics.LLMCost.WithLabelValues(result.Provider).Add(cost)

	s.activity.RecordPerformance(models.PerformanceSample{
		Endpoint:      "generate_reply",
		ResponseTime:  responseTime,
		TokensUsed:    tokens,
		EstimatedCost: cost,
		Provider:      result.Provider,
	})

	stored := s.activity.RecordConversation(models.Conversation{
		ClientMessage: clientMessage,
		AIReply:       result.Reply,
		Sentiment:     sent,
		Confidence:    conf,
		ResponseTime:  responseTime,
		Provider:      result.Provider,
	})

	logger.Debug("Conversation recorded",
		zap.Int("conversation_id", stored.ID),
		zap.String("sentiment", string(sent.Sentiment)),
		zap.Float64("confidence", conf.Score),
	)
}

// FormatChatHistory renders prior turns as "[ROLE] message" lines.
func FormatChatHistory(history []Message) string {
	if len(history) == 0 {
		return "(No previous conversation)"
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(msg.Role), msg.Message))
	}
	return strings.Join(lines, "\n")
}

// FormatClientSequence joins consecutive client turns into one block.
func FormatClientSequence(sequence []string) string {
	return strings.Join(sequence, "\n")
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
