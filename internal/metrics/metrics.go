package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the auction house. A nil
// *Metrics is valid and records nothing, which keeps tests free of registry
// setup.
type Metrics struct {
	bidsPlaced           prometheus.Counter
	bidsRejected         *prometheus.CounterVec
	cascadeRounds        prometheus.Histogram
	proxyBidsDeactivated prometheus.Counter
	auctionsFinalized    *prometheus.CounterVec
	walletOps            *prometheus.CounterVec
}

// New registers the instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		bidsPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "auction_bids_placed_total",
			Help: "Number of accepted bids.",
		}),
		bidsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_bids_rejected_total",
			Help: "Number of rejected bids by reason.",
		}, []string{"reason"}),
		cascadeRounds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "auction_cascade_rounds",
			Help:    "Proxy bid cascade rounds run per triggering bid.",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		}),
		proxyBidsDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "auction_proxy_bids_deactivated_total",
			Help: "Number of proxy bids deactivated by the cascade.",
		}),
		auctionsFinalized: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_finalized_total",
			Help: "Number of finalized auctions by outcome.",
		}, []string{"outcome"}),
		walletOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_operations_total",
			Help: "Number of wallet ledger operations by kind.",
		}, []string{"kind"}),
	}
}

// BidPlaced records an accepted bid.
func (m *Metrics) BidPlaced() {
	if m == nil {
		return
	}
	m.bidsPlaced.Inc()
}

// BidRejected records a rejected bid with its reason label.
func (m *Metrics) BidRejected(reason string) {
	if m == nil {
		return
	}
	m.bidsRejected.WithLabelValues(reason).Inc()
}

// CascadeRounds records how many rounds a cascade ran.
func (m *Metrics) CascadeRounds(rounds int) {
	if m == nil {
		return
	}
	m.cascadeRounds.Observe(float64(rounds))
}

// ProxyBidDeactivated records one deactivated proxy bid.
func (m *Metrics) ProxyBidDeactivated() {
	if m == nil {
		return
	}
	m.proxyBidsDeactivated.Inc()
}

// AuctionFinalized records a finalized auction. Outcome is "sold", "no_bids"
// or "capture_failed".
func (m *Metrics) AuctionFinalized(outcome string) {
	if m == nil {
		return
	}
	m.auctionsFinalized.WithLabelValues(outcome).Inc()
}

// WalletOp records one ledger operation by kind.
func (m *Metrics) WalletOp(kind string) {
	if m == nil {
		return
	}
	m.walletOps.WithLabelValues(kind).Inc()
}
