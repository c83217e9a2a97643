package markdown

import (
	"bytes"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// FallbackHTML is shown inline when rendering fails. A broken renderer never
// surfaces as a top-level error.
const FallbackHTML = "<p>Error rendering response. Please try again.</p>"

// Renderer converts markdown to sanitized HTML.
type Renderer struct {
	policy  *bluemonday.Policy
	convert func(source []byte, w io.Writer) error
}

func NewRenderer() *Renderer {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return &Renderer{
		policy: bluemonday.UGCPolicy(),
		convert: func(source []byte, w io.Writer) error {
			return md.Convert(source, w)
		},
	}
}

// Render is deterministic: the same markdown always yields the same markup.
func (r *Renderer) Render(text string) string {
	var buf bytes.Buffer
	if err := r.convert([]byte(text), &buf); err != nil {
		return FallbackHTML
	}
	return r.policy.Sanitize(buf.String())
}
