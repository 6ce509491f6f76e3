package cart

import (
	"github.com/angelmondragon/tastetrack-storefront/internal/cart"
	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/pricing"
)

// View is the cart as the UI renders it.
type View struct {
	SessionID string          `json:"session_id"`
	Lines     []LineView      `json:"lines"`
	Summary   pricing.Display `json:"summary"`
}

type LineView struct {
	Item      catalog.MenuItem `json:"item"`
	Quantity  int              `json:"quantity"`
	LineTotal string           `json:"line_total"`
}

func newView(sessionID string, store *cart.Store) View {
	lines := store.Lines()
	out := make([]LineView, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineView{
			Item:      line.Item,
			Quantity:  line.Quantity,
			LineTotal: line.Total().StringFixed(2),
		})
	}
	return View{
		SessionID: sessionID,
		Lines:     out,
		Summary:   pricing.Quote(store).Display(),
	}
}
