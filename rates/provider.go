// Package rates supplies crypto→fiat exchange rates. The engine treats a
// missing pair as unavailable; nothing downstream ever computes with a
// defaulted zero rate.
package rates

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
)

// Provider resolves the rate for one (fromAsset, toCurrency) pair.
type Provider interface {
	GetRate(fromAsset, toCurrency string) (decimal.Decimal, error)
	Rates() []models.ExchangeRate
}

func pairKey(from, to string) string {
	return strings.ToUpper(from) + "/" + strings.ToUpper(to)
}

// StaticProvider serves a fixed rate table. It backs local development and
// tests; production wires the poller to an HTTP provider instead.
type StaticProvider struct {
	table map[string]models.ExchangeRate
}

func NewStaticProvider(rates []models.ExchangeRate) *StaticProvider {
	table := make(map[string]models.ExchangeRate, len(rates))
	for _, r := range rates {
		table[pairKey(r.FromAsset, r.ToCurrency)] = r
	}
	return &StaticProvider{table: table}
}

// DefaultRates mirrors the launch market pairs for KSH, TZS and NGN.
func DefaultRates() []models.ExchangeRate {
	now := time.Now()
	mk := func(from, to, rate string) models.ExchangeRate {
		return models.ExchangeRate{
			FromAsset:  from,
			ToCurrency: to,
			Rate:       decimal.RequireFromString(rate),
			ObservedAt: now,
		}
	}
	return []models.ExchangeRate{
		mk("USDC", "KSH", "129.50"),
		mk("USDT", "KSH", "129.45"),
		mk("ETH", "KSH", "324500.00"),
		mk("BTC", "KSH", "6820000.00"),
		mk("USDC", "TZS", "2650.00"),
		mk("USDT", "TZS", "2649.50"),
		mk("ETH", "TZS", "6634000.00"),
		mk("BTC", "TZS", "139500000.00"),
		mk("USDC", "NGN", "1650.00"),
		mk("USDT", "NGN", "1649.50"),
		mk("ETH", "NGN", "4125000.00"),
		mk("BTC", "NGN", "86700000.00"),
	}
}

func (p *StaticProvider) GetRate(fromAsset, toCurrency string) (decimal.Decimal, error) {
	r, ok := p.table[pairKey(fromAsset, toCurrency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", engine.ErrRateUnavailable, fromAsset, toCurrency)
	}
	return r.Rate, nil
}

func (p *StaticProvider) Rates() []models.ExchangeRate {
	out := make([]models.ExchangeRate, 0, len(p.table))
	for _, r := range p.table {
		out = append(out, r)
	}
	return out
}

// HTTPProvider fetches simple-price quotes from a CoinGecko-style endpoint.
type HTTPProvider struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	pairs   [][2]string
}

func NewHTTPProvider(baseURL, apiKey string, pairs [][2]string) *HTTPProvider {
	return &HTTPProvider{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
		apiKey:  apiKey,
		pairs:   pairs,
	}
}

// assetID maps a ticker symbol to the API's asset identifier.
func assetID(symbol string) string {
	switch strings.ToUpper(symbol) {
	case "USDT":
		return "tether"
	case "USDC":
		return "usd-coin"
	case "BTC":
		return "bitcoin"
	case "ETH":
		return "ethereum"
	default:
		return strings.ToLower(symbol)
	}
}

// Fetch pulls a full table for the configured pairs. Pairs the API does
// not quote are simply absent from the result.
func (p *HTTPProvider) Fetch() ([]models.ExchangeRate, error) {
	ids := make([]string, 0, len(p.pairs))
	vs := make([]string, 0, len(p.pairs))
	for _, pair := range p.pairs {
		ids = append(ids, assetID(pair[0]))
		vs = append(vs, strings.ToLower(pair[1]))
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		p.baseURL, strings.Join(ids, ","), strings.Join(vs, ","))

	resp, err := p.client.R().
		SetHeader("x-cg-demo-api-key", p.apiKey).
		SetHeader("Accept", "application/json").
		SetResult(map[string]map[string]float64{}).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("rate fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("rate fetch failed: status %d", resp.StatusCode())
	}

	data := *resp.Result().(*map[string]map[string]float64)
	now := time.Now()
	out := make([]models.ExchangeRate, 0, len(p.pairs))
	for _, pair := range p.pairs {
		rate, ok := data[assetID(pair[0])][strings.ToLower(pair[1])]
		if !ok || rate <= 0 {
			continue
		}
		out = append(out, models.ExchangeRate{
			FromAsset:  strings.ToUpper(pair[0]),
			ToCurrency: strings.ToUpper(pair[1]),
			Rate:       decimal.NewFromFloat(rate),
			ObservedAt: now,
		})
	}
	return out, nil
}
