package common

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapcheck/internal/ui/resources"
)

// DatastarScript is the client bundle driving live updates.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Layout renders a full HTML document. The body opens a long-lived SSE
// connection to updatesPath and content is rendered inside it.
func Layout(title, updatesPath string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw("<title>")
		hw.Text(title)
		hw.Raw(" - leapcheck</title>")
		hw.Raw(`<link rel="stylesheet"`)
		hw.Attr("href", resources.StaticPath("leapcheck.css"))
		hw.Raw(">")
		hw.Raw(`<script type="module"`)
		hw.Attr("src", DatastarScript)
		hw.Raw("></script></head>")
		hw.Raw("<body")
		hw.Attr("data-init", "@get('"+updatesPath+"')")
		hw.Raw(`><header class="topbar"><a href="/" class="brand">leapcheck</a></header><main>`)
		if err := hw.Err(); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		hw.Raw("</main></body></html>")
		return hw.Err()
	})
}
