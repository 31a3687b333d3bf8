package documents

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

const statementText = `Bangkok Bank Statement
Account: 123-4-56789-0
Period: January - March 2026
Available balance: 512,345.67 THB`

func TestAnalyzeStatementValid(t *testing.T) {
	result := AnalyzeStatement(statementText)

	require.True(t, result.Checks.AppearsToBeBankStatement)
	require.True(t, result.Checks.HasBalanceField)
	require.True(t, result.Checks.HasDateInformation)
	require.True(t, result.Checks.HasAccountNumber)
	require.Equal(t, "high", result.Confidence)
	require.NotEmpty(t, result.Checks.PotentialBalances)

	for _, rec := range result.Recommendations {
		require.NotContains(t, rec, "⚠️")
	}
}

func TestAnalyzeStatementNotAStatement(t *testing.T) {
	result := AnalyzeStatement("just a grocery list: milk, eggs, bread")

	require.False(t, result.Checks.AppearsToBeBankStatement)
	require.Equal(t, "low", result.Confidence)
	require.NotEmpty(t, result.Recommendations)
	require.Empty(t, result.Checks.PotentialBalances)
}

func TestAnalyzeStatementCapsBalances(t *testing.T) {
	text := "balance 1000 2000 3000 4000 5000 6000 7000 account january"

	result := AnalyzeStatement(text)
	require.Len(t, result.Checks.PotentialBalances, 5)
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	result := Analyze([]byte("plain text"), "notes.txt", "text/plain")

	require.Equal(t, "unsupported", result.Type)
	require.NotEmpty(t, result.Error)
}

func TestAnalyzeImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))))

	result := Analyze(buf.Bytes(), "photo.png", "image/png")

	require.Equal(t, "image", result.Type)
	require.NotNil(t, result.Image)
	require.Equal(t, "png", result.Image.Format)
	require.Equal(t, 8, result.Image.Width)
	require.Equal(t, 4, result.Image.Height)
}

func TestAnalyzeCorruptImage(t *testing.T) {
	result := Analyze([]byte("not an image"), "photo.png", "image/png")

	require.Equal(t, "image", result.Type)
	require.NotEmpty(t, result.Error)
}

func TestAnalyzeCorruptPDF(t *testing.T) {
	result := Analyze([]byte("not a pdf"), "doc.pdf", "application/pdf")

	require.Equal(t, "pdf", result.Type)
	require.NotEmpty(t, result.Error)
}
