// Package pages renders the check list and check detail views.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/ui/features/common"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// ListUpdatesPath is the SSE endpoint of the check list.
const ListUpdatesPath = "/_/updates"

// ListPage renders the full check list document.
func ListPage(records []display.Record) templ.Component {
	return common.Layout("Checks", ListUpdatesPath, CheckList(records))
}

// CheckList renders the summary and the ordered check table. The root
// element id is the SSE patch target.
func CheckList(records []display.Record) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Raw(`<section id="checks">`)
		summary(hw, records)

		if len(records) == 0 {
			hw.Raw(`<p class="empty">No checks defined.</p></section>`)
			return hw.Err()
		}

		hw.Raw(`<table class="checks"><thead><tr>`,
			`<th>Status</th><th>Name</th><th class="num">Count</th>`,
			`<th>Warn</th><th>Alert</th><th class="num">Time (s)</th>`,
			`</tr></thead><tbody>`)
		for _, r := range records {
			hw.Raw("<tr")
			hw.Attr("class", "row-"+r.Status.String())
			hw.Raw("><td>")
			badge(hw, r.Status)
			hw.Raw("</td><td><a")
			hw.Attr("href", common.CheckPath(r.Name))
			hw.Raw(">")
			hw.Text(r.Name)
			hw.Raw(`</a></td><td class="num">`)
			hw.Text(common.Number(r.Count))
			hw.Raw("</td><td>")
			hw.Text(r.WarnS)
			hw.Raw("</td><td>")
			hw.Text(r.AlertS)
			hw.Raw(`</td><td class="num">`)
			hw.Text(r.TimeS)
			hw.Raw("</td></tr>")
		}
		hw.Raw("</tbody></table></section>")
		return hw.Err()
	})
}

func summary(hw *common.Writer, records []display.Record) {
	counts := display.Counts(records)
	hw.Raw(`<p class="summary">`)
	for i, s := range []core.Status{core.StatusError, core.StatusWarning, core.StatusOK, core.StatusPending} {
		if i > 0 {
			hw.Raw(" ")
		}
		hw.Raw("<span")
		hw.Attr("class", common.StatusClass(s))
		hw.Raw(">")
		hw.Text(fmt.Sprintf("%d %s", counts[s], s))
		hw.Raw("</span>")
	}
	hw.Raw("</p>")
}

func badge(hw *common.Writer, s core.Status) {
	hw.Raw("<span")
	hw.Attr("class", common.StatusClass(s))
	hw.Raw(">")
	hw.Text(s.String())
	hw.Raw("</span>")
}
