package markdown

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderer_BasicMarkdown(t *testing.T) {
	r := NewRenderer()

	html := r.Render("## Take a breath\n\nThat sounds *hard*.")

	require.Contains(t, html, "<h2>Take a breath</h2>")
	require.Contains(t, html, "<em>hard</em>")
}

func TestRenderer_Deterministic(t *testing.T) {
	r := NewRenderer()
	input := "- one\n- two\n\n> be kind to yourself"

	first := r.Render(input)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, r.Render(input))
	}
}

func TestRenderer_SanitizesScript(t *testing.T) {
	r := NewRenderer()

	html := r.Render("hello <script>alert(1)</script> world")

	require.NotContains(t, html, "<script>")
	require.Contains(t, html, "hello")
}

func TestRenderer_StripsEventHandlers(t *testing.T) {
	r := NewRenderer()

	html := r.Render(`<a href="https://example.com" onclick="steal()">link</a>`)

	require.NotContains(t, html, "onclick")
}

func TestRenderer_FallbackOnConvertError(t *testing.T) {
	r := NewRenderer()
	r.convert = func(_ []byte, _ io.Writer) error {
		return errors.New("renderer exploded")
	}

	got := r.Render("## perfectly valid markdown")

	require.Equal(t, FallbackHTML, got)
}

func TestRenderer_EmptyInput(t *testing.T) {
	r := NewRenderer()

	require.Equal(t, "", strings.TrimSpace(r.Render("")))
}
