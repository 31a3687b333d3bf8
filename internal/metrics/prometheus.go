package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReplyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compass_reply_duration_seconds",
			Help:    "Reply generation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	ReplyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_reply_total",
			Help: "Total replies generated",
		},
		[]string{"provider", "status"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_llm_tokens_used",
			Help: "Estimated LLM tokens used",
		},
		[]string{"provider"},
	)

	LLMCost = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_llm_cost_usd",
			Help: "Estimated LLM API cost in USD",
		},
		[]string{"provider"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compass_confidence_score",
			Help:    "Reply confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	SentimentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_sentiment_total",
			Help: "Client message sentiment classifications",
		},
		[]string{"sentiment"},
	)

	PromptVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "compass_prompt_version",
			Help: "Current prompt version number",
		},
	)

	ImprovementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_prompt_improvements_total",
			Help: "Total prompt improvement operations",
		},
		[]string{"mode"},
	)

	DocumentsAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_documents_analyzed_total",
			Help: "Total documents analyzed",
		},
		[]string{"type"},
	)
)

func Init() {
	prometheus.MustRegister(ReplyDuration)
	prometheus.MustRegister(ReplyTotal)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(LLMCost)
	prometheus.MustRegister(ConfidenceScore)
	prometheus.MustRegister(SentimentTotal)
	prometheus.MustRegister(PromptVersion)
	prometheus.MustRegister(ImprovementsTotal)
	prometheus.MustRegister(DocumentsAnalyzed)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
