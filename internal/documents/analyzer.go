package documents

import (
	"bytes"
	"image"
	"regexp"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	prose "github.com/jdkato/prose/v2"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/metrics"
	"github.com/issa-compass/backend/pkg/logger"
)

const previewLength = 500

var amountPattern = regexp.MustCompile(`\$?[\d,]+\.?\d*`)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

type Analysis struct {
	Type          string             `json:"type"`
	Pages         int                `json:"pages,omitempty"`
	TextLength    int                `json:"text_length,omitempty"`
	WordCount     int                `json:"word_count,omitempty"`
	SentenceCount int                `json:"sentence_count,omitempty"`
	Preview       string             `json:"preview,omitempty"`
	Statement     *StatementAnalysis `json:"analysis,omitempty"`
	Image         *ImageInfo         `json:"image,omitempty"`
	Message       string             `json:"message,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type StatementAnalysis struct {
	Checks          StatementChecks `json:"checks"`
	Recommendations []string        `json:"recommendations"`
	Confidence      string          `json:"confidence"`
}

type StatementChecks struct {
	AppearsToBeBankStatement bool     `json:"appears_to_be_bank_statement"`
	HasBalanceField          bool     `json:"has_balance_field"`
	HasDateInformation       bool     `json:"has_date_information"`
	HasAccountNumber         bool     `json:"has_account_number"`
	PotentialBalances        []string `json:"potential_balances"`
}

type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Analyze inspects an uploaded file. Failures are reported inside the
// result rather than as errors; an upload never fails outright on a
// malformed document.
func Analyze(content []byte, filename, fileType string) Analysis {
	switch {
	case fileType == "application/pdf":
		a := analyzePDF(content)
		metrics.DocumentsAnalyzed.WithLabelValues("pdf").Inc()
		return a
	case strings.HasPrefix(fileType, "image/"):
		a := analyzeImage(content)
		metrics.DocumentsAnalyzed.WithLabelValues("image").Inc()
		return a
	default:
		logger.Warn("Unsupported document type",
			zap.String("filename", filename),
			zap.String("file_type", fileType),
		)
		return Analysis{
			Type:    "unsupported",
			Error:   "Unsupported file type",
			Message: "Supported types: PDF, PNG, JPG, JPEG",
		}
	}
}

func analyzePDF(content []byte) Analysis {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Analysis{Type: "pdf", Error: err.Error()}
	}

	pages := reader.NumPage()

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}

	text := sb.String()

	analysis := Analysis{
		Type:       "pdf",
		Pages:      pages,
		TextLength: len(text),
		Preview:    preview(text),
		Statement:  AnalyzeStatement(text),
	}

	if doc, err := prose.NewDocument(text); err == nil {
		analysis.WordCount = len(doc.Tokens())
		analysis.SentenceCount = len(doc.Sentences())
	}

	return analysis
}

func analyzeImage(content []byte) Analysis {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return Analysis{Type: "image", Error: err.Error()}
	}

	return Analysis{
		Type: "image",
		Image: &ImageInfo{
			Format: format,
			Width:  cfg.Width,
			Height: cfg.Height,
		},
		Message: "Image uploaded successfully. Use OCR for text extraction.",
	}
}

// AnalyzeStatement runs the bank-statement checks over extracted text.
func AnalyzeStatement(text string) *StatementAnalysis {
	lower := strings.ToLower(text)

	hasBalance := strings.Contains(lower, "balance") || strings.Contains(lower, "available")
	hasAccount := strings.Contains(lower, "account")

	hasDates := false
	for _, month := range monthNames {
		if strings.Contains(lower, month) {
			hasDates = true
			break
		}
	}

	var largeNumbers []string
	for _, n := range amountPattern.FindAllString(text, -1) {
		digits := strings.NewReplacer(",", "", ".", "", "$", "").Replace(n)
		if len(digits) >= 4 {
			largeNumbers = append(largeNumbers, n)
		}
		if len(largeNumbers) == 5 {
			break
		}
	}
	if largeNumbers == nil {
		largeNumbers = []string{}
	}

	checks := StatementChecks{
		AppearsToBeBankStatement: hasBalance && hasDates && hasAccount,
		HasBalanceField:          hasBalance,
		HasDateInformation:       hasDates,
		HasAccountNumber:         hasAccount,
		PotentialBalances:        largeNumbers,
	}

	var recommendations []string
	if !checks.AppearsToBeBankStatement {
		recommendations = append(recommendations, "⚠️ This may not be a bank statement")
	}
	if !checks.HasBalanceField {
		recommendations = append(recommendations, "⚠️ No clear balance information found")
	}
	if !checks.HasDateInformation {
		recommendations = append(recommendations, "⚠️ No date information found - need 3-month period")
	}
	if checks.AppearsToBeBankStatement {
		recommendations = append(recommendations,
			"✅ Looks like a valid bank statement",
			"ℹ️ Please verify balance meets 500,000 THB requirement",
			"ℹ️ Ensure statement covers 3-month period",
		)
	}

	confidence := "low"
	if checks.AppearsToBeBankStatement {
		confidence = "high"
	}

	return &StatementAnalysis{
		Checks:          checks,
		Recommendations: recommendations,
		Confidence:      confidence,
	}
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	return text[:previewLength]
}
