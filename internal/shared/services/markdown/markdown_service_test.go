package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLSanitized(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("**Reason**: wilted\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Reason</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestPlainText(t *testing.T) {
	svc := NewMarkdownService()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "lettuce arrived wilted", "lettuce arrived wilted"},
		{"tags stripped", "<b>bruised</b> tomatoes", "bruised tomatoes"},
		{"script removed", "<script>x()</script>ok", "ok"},
		{"whitespace trimmed", "  late  ", "late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.PlainText(tt.input))
		})
	}
}
