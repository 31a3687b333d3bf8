package activitylog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/issa-compass/backend/internal/store/models"
)

func seedConversations(l *Log, n int) {
	for i := 1; i <= n; i++ {
		l.RecordConversation(models.Conversation{
			ClientMessage: fmt.Sprintf("client message %d", i),
			AIReply:       fmt.Sprintf("ai reply %d", i),
		})
	}
}

func TestRecordConversationAssignsSequentialIDs(t *testing.T) {
	l := New()

	first := l.RecordConversation(models.Conversation{ClientMessage: "hello"})
	second := l.RecordConversation(models.Conversation{ClientMessage: "world"})

	require.Equal(t, 1, first.ID)
	require.Equal(t, 2, second.ID)
	require.False(t, first.Timestamp.IsZero())
	require.Equal(t, 2, l.ConversationCount())
}

func TestConversationsPagination(t *testing.T) {
	l := New()
	seedConversations(l, 5)

	page := l.Conversations(2, 1)
	require.Len(t, page, 2)
	require.Equal(t, 2, page[0].ID)
	require.Equal(t, 3, page[1].ID)

	tail := l.Conversations(10, 3)
	require.Len(t, tail, 2)
	require.Equal(t, 4, tail[0].ID)
}

func TestConversationsOutOfRangeOffset(t *testing.T) {
	l := New()
	seedConversations(l, 3)

	require.Empty(t, l.Conversations(10, 3))
	require.Empty(t, l.Conversations(10, 100))
	require.Empty(t, l.Conversations(10, -1))
	require.Empty(t, l.Conversations(0, 0))
}

func TestSearchConversations(t *testing.T) {
	l := New()
	l.RecordConversation(models.Conversation{ClientMessage: "I need a VISA extension", AIReply: "Sure thing"})
	l.RecordConversation(models.Conversation{ClientMessage: "hello", AIReply: "Your visa is ready"})
	l.RecordConversation(models.Conversation{ClientMessage: "what about taxes", AIReply: "Taxes are separate"})

	matches := l.SearchConversations("visa")
	require.Len(t, matches, 2)

	all := l.SearchConversations("")
	require.Len(t, all, 3)

	require.Empty(t, l.SearchConversations("passport"))
}

func TestPerformanceReturnsLastN(t *testing.T) {
	l := New()
	for i := 1; i <= 5; i++ {
		l.RecordPerformance(models.PerformanceSample{ResponseTime: float64(i)})
	}

	last := l.Performance(2)
	require.Len(t, last, 2)
	require.Equal(t, 4.0, last[0].ResponseTime)
	require.Equal(t, 5.0, last[1].ResponseTime)

	require.Len(t, l.Performance(100), 5)
	require.Empty(t, l.Performance(0))
}

func TestPerformanceSummaryRounding(t *testing.T) {
	l := New()
	l.RecordPerformance(models.PerformanceSample{
		ResponseTime:  0.12345,
		TokensUsed:    10.4,
		EstimatedCost: 0.00123,
	})
	l.RecordPerformance(models.PerformanceSample{
		ResponseTime:  0.54321,
		TokensUsed:    20.4,
		EstimatedCost: 0.00234,
	})

	summary := l.PerformanceSummary()

	require.Equal(t, 2, summary.TotalRequests)
	require.InDelta(t, 0.333, summary.AvgResponseTime, 1e-9)
	require.InDelta(t, 30.8, summary.TotalTokens, 1e-9)
	require.InDelta(t, 15.0, summary.AvgTokensPerRequest, 1e-9)
	require.InDelta(t, 0.0036, summary.TotalCost, 1e-9)
}

func TestPerformanceSummaryEmpty(t *testing.T) {
	l := New()

	summary := l.PerformanceSummary()
	require.Equal(t, models.PerformanceSummary{}, summary)
}

func TestRecordDocument(t *testing.T) {
	l := New()

	doc := l.RecordDocument(models.Document{Filename: "statement.pdf", Size: 1024})
	require.Equal(t, 1, doc.ID)
	require.False(t, doc.Timestamp.IsZero())

	docs := l.Documents()
	require.Len(t, docs, 1)
	require.Equal(t, "statement.pdf", docs[0].Filename)
}
