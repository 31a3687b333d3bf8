package activitylog

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/issa-compass/backend/internal/store/models"
)

// Log keeps the in-process activity records: completed conversations,
// performance samples and uploaded documents. Each list is append-only;
// ids are assigned under the lock so no two records share one.
type Log struct {
	mu            sync.RWMutex
	conversations []models.Conversation
	performance   []models.PerformanceSample
	documents     []models.Document
}

func New() *Log {
	return &Log{}
}

func (l *Log) RecordConversation(conv models.Conversation) models.Conversation {
	l.mu.Lock()
	defer l.mu.Unlock()

	conv.ID = len(l.conversations) + 1
	conv.Timestamp = time.Now()
	l.conversations = append(l.conversations, conv)
	return conv
}

// Conversations returns the slice [offset, offset+limit) in insertion
// order. An out-of-range offset yields an empty result, not an error.
func (l *Log) Conversations(limit, offset int) []models.Conversation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if offset < 0 || offset >= len(l.conversations) || limit <= 0 {
		return []models.Conversation{}
	}

	end := offset + limit
	if end > len(l.conversations) {
		end = len(l.conversations)
	}

	out := make([]models.Conversation, end-offset)
	copy(out, l.conversations[offset:end])
	return out
}

func (l *Log) ConversationCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.conversations)
}

// SearchConversations matches query case-insensitively against the client
// message or the AI reply. An empty query matches every record.
func (l *Log) SearchConversations(query string) []models.Conversation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q := strings.ToLower(query)
	out := []models.Conversation{}
	for _, conv := range l.conversations {
		if strings.Contains(strings.ToLower(conv.ClientMessage), q) ||
			strings.Contains(strings.ToLower(conv.AIReply), q) {
			out = append(out, conv)
		}
	}
	return out
}

func (l *Log) RecordPerformance(sample models.PerformanceSample) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sample.Timestamp = time.Now()
	l.performance = append(l.performance, sample)
}

// Performance returns the last limit samples in insertion order.
func (l *Log) Performance(limit int) []models.PerformanceSample {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || len(l.performance) == 0 {
		return []models.PerformanceSample{}
	}

	start := len(l.performance) - limit
	if start < 0 {
		start = 0
	}

	out := make([]models.PerformanceSample, len(l.performance)-start)
	copy(out, l.performance[start:])
	return out
}

// PerformanceSummary aggregates over the full sample log. Response time is
// rounded to 3 decimals, cost to 4, average tokens to the nearest whole
// token. An empty log yields an all-zero summary.
func (l *Log) PerformanceSummary() models.PerformanceSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.performance) == 0 {
		return models.PerformanceSummary{}
	}

	var totalTime, totalTokens, totalCost float64
	for _, s := range l.performance {
		totalTime += s.ResponseTime
		totalTokens += s.TokensUsed
		totalCost += s.EstimatedCost
	}

	n := len(l.performance)
	return models.PerformanceSummary{
		TotalRequests:       n,
		AvgResponseTime:     round(totalTime/float64(n), 3),
		TotalTokens:         totalTokens,
		AvgTokensPerRequest: math.Round(totalTokens / float64(n)),
		TotalCost:           round(totalCost, 4),
	}
}

func (l *Log) RecordDocument(doc models.Document) models.Document {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc.ID = len(l.documents) + 1
	doc.Timestamp = time.Now()
	l.documents = append(l.documents, doc)
	return doc
}

func (l *Log) Documents() []models.Document {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Document, len(l.documents))
	copy(out, l.documents)
	return out
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
