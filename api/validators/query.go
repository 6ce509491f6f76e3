package validators

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
)

// ParseQueryString returns a trimmed query value capped at maxLen bytes.
func ParseQueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseQueryOrderStatus reads an optional order status filter.
func ParseQueryOrderStatus(r *http.Request, key string) (*enums.OrderStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(map[string]any{"field": key, "value": raw})
	}
	return &status, nil
}
