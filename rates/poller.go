package rates

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
)

// Source produces a complete rate table on demand.
type Source interface {
	Fetch() ([]models.ExchangeRate, error)
}

// Fetch lets a StaticProvider act as a poller source.
func (p *StaticProvider) Fetch() ([]models.ExchangeRate, error) {
	return p.Rates(), nil
}

// Poller refreshes a rate snapshot from a Source on a fixed interval.
// The snapshot is replaced whole on each successful fetch, never merged,
// so readers always see a consistent table. A failed fetch keeps the
// previous snapshot.
type Poller struct {
	source   Source
	interval time.Duration

	mu       sync.RWMutex
	snapshot map[string]models.ExchangeRate

	stop chan struct{}
	once sync.Once
}

func NewPoller(source Source, interval time.Duration) *Poller {
	return &Poller{
		source:   source,
		interval: interval,
		snapshot: make(map[string]models.ExchangeRate),
		stop:     make(chan struct{}),
	}
}

// Start fetches once synchronously, then refreshes in the background
// until Stop is called.
func (p *Poller) Start() {
	p.Refresh()
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Refresh()
			case <-p.stop:
				return
			}
		}
	}()
}

func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stop) })
}

// Refresh pulls a fresh table and swaps it in.
func (p *Poller) Refresh() {
	table, err := p.source.Fetch()
	if err != nil {
		logrus.WithError(err).Warn("rate refresh failed, keeping previous snapshot")
		return
	}

	next := make(map[string]models.ExchangeRate, len(table))
	for _, r := range table {
		next[pairKey(r.FromAsset, r.ToCurrency)] = r
	}

	p.mu.Lock()
	p.snapshot = next
	p.mu.Unlock()
}

func (p *Poller) GetRate(fromAsset, toCurrency string) (decimal.Decimal, error) {
	p.mu.RLock()
	r, ok := p.snapshot[pairKey(fromAsset, toCurrency)]
	p.mu.RUnlock()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", engine.ErrRateUnavailable, fromAsset, toCurrency)
	}
	return r.Rate, nil
}

func (p *Poller) Rates() []models.ExchangeRate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.ExchangeRate, 0, len(p.snapshot))
	for _, r := range p.snapshot {
		out = append(out, r)
	}
	return out
}
