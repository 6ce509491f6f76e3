package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart, coupon, guard and upstream activity.
type Storefront struct {
	cartMutations *prometheus.CounterVec
	coupons       *prometheus.CounterVec
	guard         *prometheus.CounterVec
	upstream      *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tastetrack",
		Name:      "cart_mutations_total",
		Help:      "Cart mutations by operation.",
	}, []string{"op"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tastetrack",
		Name:      "coupon_applications_total",
		Help:      "Coupon application attempts by result.",
	}, []string{"result"})
	guard := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tastetrack",
		Name:      "access_guard_decisions_total",
		Help:      "Access guard decisions by requirement and outcome.",
	}, []string{"requirement", "outcome"})
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tastetrack",
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of calls to the TasteTrack REST API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	reg.MustRegister(cartMutations, coupons, guard, upstream)
	return &Storefront{
		cartMutations: cartMutations,
		coupons:       coupons,
		guard:         guard,
		upstream:      upstream,
	}
}

func (s *Storefront) IncCartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCouponResult counts an apply attempt; result is "applied" or a rejection reason.
func (s *Storefront) IncCouponResult(result string) {
	if s == nil || s.coupons == nil {
		return
	}
	s.coupons.WithLabelValues(normalizeLabel(result)).Inc()
}

func (s *Storefront) IncGuardDecision(requirement string, allowed bool) {
	if s == nil || s.guard == nil {
		return
	}
	outcome := "redirect"
	if allowed {
		outcome = "allow"
	}
	s.guard.WithLabelValues(normalizeLabel(requirement), outcome).Inc()
}

// ObserveUpstream records one upstream call.
func (s *Storefront) ObserveUpstream(operation string, duration time.Duration, err error) {
	if s == nil || s.upstream == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.upstream.WithLabelValues(normalizeLabel(operation), outcome).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
