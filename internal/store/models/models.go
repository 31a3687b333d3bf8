package models

import "time"

// PromptVersion is one entry in the prompt improvement history. The entry
// tagged with version N holds the text that was current during version N,
// not the text that replaced it.
type PromptVersion struct {
	Version   int            `json:"version"`
	Prompt    string         `json:"prompt"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

// PromptUpdate is returned by the Version Store after installing new text.
type PromptUpdate struct {
	Version         int       `json:"version"`
	PreviousVersion int       `json:"previous_version"`
	UpdatedAt       time.Time `json:"updated_at"`
	OldPrompt       string    `json:"old_prompt"`
	NewPrompt       string    `json:"new_prompt"`
}

type Conversation struct {
	ID            int              `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	ClientMessage string           `json:"client_message"`
	AIReply       string           `json:"ai_reply"`
	Sentiment     SentimentResult  `json:"sentiment"`
	Confidence    ConfidenceResult `json:"confidence"`
	ResponseTime  float64          `json:"response_time"`
	Provider      string           `json:"provider"`
}

type PerformanceSample struct {
	Timestamp     time.Time `json:"timestamp"`
	Endpoint      string    `json:"endpoint"`
	ResponseTime  float64   `json:"response_time"`
	TokensUsed    float64   `json:"tokens_used"`
	EstimatedCost float64   `json:"estimated_cost"`
	Provider      string    `json:"provider"`
}

type PerformanceSummary struct {
	TotalRequests       int     `json:"total_requests"`
	AvgResponseTime     float64 `json:"avg_response_time"`
	TotalTokens         float64 `json:"total_tokens"`
	AvgTokensPerRequest float64 `json:"avg_tokens_per_request"`
	TotalCost           float64 `json:"total_cost"`
}

type Document struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	Size        int       `json:"size"`
	Fingerprint string    `json:"fingerprint"`
	Analysis    any       `json:"analysis"`
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// SentimentResult is a heuristic classification, recomputed per call and
// persisted only as part of a Conversation.
type SentimentResult struct {
	Sentiment   Sentiment `json:"sentiment"`
	Score       float64   `json:"score"`
	PosHits     int       `json:"pos_hits"`
	NegHits     int       `json:"neg_hits"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	Error       string    `json:"error,omitempty"`
}

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ConfidenceResult is a self-assessed reliability estimate for a generated
// reply. Score is nominally in [0,1] but is not a calibrated probability.
type ConfidenceResult struct {
	Score        float64         `json:"score"`
	Level        ConfidenceLevel `json:"level"`
	Color        string          `json:"color"`
	Reasoning    string          `json:"reasoning"`
	Flags        []string        `json:"flags"`
	ShouldReview bool            `json:"should_review"`
	Error        string          `json:"error,omitempty"`
}
