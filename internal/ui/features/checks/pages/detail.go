package pages

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/ui/features/common"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// CheckUpdatesPath returns the SSE endpoint of a check page.
func CheckUpdatesPath(name string) string {
	return ListUpdatesPath + "/" + url.PathEscape(name)
}

// CheckPage renders the full document of one check.
func CheckPage(record display.Record, history []core.StoredResult) templ.Component {
	return common.Layout(record.Name, CheckUpdatesPath(record.Name), CheckDetail(record, history))
}

// CheckDetail renders one check with its queries, example row and recent
// history. The root element id is the SSE patch target.
func CheckDetail(r display.Record, history []core.StoredResult) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Raw(`<section id="check"><h1>`)
		hw.Text(r.Name)
		hw.Raw(" ")
		badge(hw, r.Status)
		hw.Raw("</h1><dl class=\"facts\">")

		fact(hw, "Count", common.Number(r.Count))
		fact(hw, "Time (s)", r.TimeS)
		fact(hw, "Warn", r.WarnS)
		fact(hw, "Alert", r.AlertS)
		hw.Raw("</dl>")

		block(hw, "Check query", r.QueryCheck)
		if r.QueryExample != "" {
			block(hw, "Example query", r.QueryExample)
		}
		if r.HasResult {
			block(hw, "Example", r.ExampleS)
		} else {
			hw.Raw(`<p class="empty">This check has not run yet.</p>`)
		}

		if len(history) > 0 {
			historyTable(hw, history)
		}

		hw.Raw(`<p><a href="/">All checks</a></p></section>`)
		return hw.Err()
	})
}

func fact(hw *common.Writer, label, value string) {
	hw.Raw("<dt>")
	hw.Text(label)
	hw.Raw("</dt><dd>")
	if value == "" {
		value = core.NoBoundLabel
	}
	hw.Text(value)
	hw.Raw("</dd>")
}

func block(hw *common.Writer, title, body string) {
	hw.Raw("<h2>")
	hw.Text(title)
	hw.Raw("</h2><pre><code>")
	hw.Text(body)
	hw.Raw("</code></pre>")
}

func historyTable(hw *common.Writer, history []core.StoredResult) {
	hw.Raw(`<h2>Recent runs</h2><table class="history"><thead><tr>`,
		`<th>Recorded</th><th>Status</th><th class="num">Count</th><th class="num">Time (s)</th>`,
		`</tr></thead><tbody>`)
	for _, h := range history {
		hw.Raw("<tr><td>")
		hw.Text(h.RecordedAt.UTC().Format(time.DateTime))
		hw.Raw("</td><td>")
		badge(hw, h.Status)
		hw.Raw(`</td><td class="num">`)
		hw.Text(core.FormatNumber(h.Count))
		hw.Raw(`</td><td class="num">`)
		hw.Text(core.FormatNumber(roundSeconds(h.Time)))
		hw.Raw("</td></tr>")
	}
	hw.Raw("</tbody></table>")
}

func roundSeconds(s float64) float64 {
	return float64(int64(s*100+0.5)) / 100
}
