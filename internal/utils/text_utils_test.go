package utils_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/utils"
)

func TestTruncateText_KeepsValidUTF8(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	// "héllo" truncated mid-rune must back off to a valid boundary.
	text := "h\xc3\xa9llo"
	out := tp.TruncateText(text, 2)
	require.True(t, utf8.ValidString(out))
	require.Equal(t, "h", out)
}

func TestTruncateText_NoOpWithinLimit(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	require.Equal(t, "short", tp.TruncateText("short", 100))
	require.Equal(t, "unbounded", tp.TruncateText("unbounded", 0))
}

func TestSanitizeUTF8_DropsInvalidSequences(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	out := tp.SanitizeUTF8("ok\xffgood")
	require.True(t, utf8.ValidString(out))
	require.Equal(t, "okgood", out)
}

func TestProcessText(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	long := strings.Repeat("a", 50)
	require.Equal(t, strings.Repeat("a", 10), tp.ProcessText(long, 10))
}
