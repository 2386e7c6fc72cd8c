// Package price polls public exchanges for the bitcoin spot price so
// the overlay can show an approximate fiat value next to the sat
// total.
package price

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

type PriceWatcher struct {
	client         *http.Client
	UpdateInterval time.Duration
	Currency       string
	Exchanges      map[string]func(string) (float64, error)

	mu    sync.RWMutex
	price float64
}

func NewPriceWatcher(currency string) *PriceWatcher {
	pricewatcher := &PriceWatcher{
		client: &http.Client{
			Timeout: time.Second * time.Duration(5),
		},
		Currency:       strings.ToUpper(currency),
		Exchanges:      make(map[string]func(string) (float64, error), 0),
		UpdateInterval: time.Second * time.Duration(30),
	}
	pricewatcher.Exchanges["coinbase"] = pricewatcher.GetCoinbasePrice
	pricewatcher.Exchanges["bitfinex"] = pricewatcher.GetBitfinexPrice
	log.Infof("[PriceWatcher] Watcher started")
	return pricewatcher
}

func (p *PriceWatcher) Start(ctx context.Context) {
	go p.watch(ctx)
}

func (p *PriceWatcher) watch(ctx context.Context) {
	p.update()
	ticker := time.NewTicker(p.UpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.update()
		case <-ctx.Done():
			return
		}
	}
}

func (p *PriceWatcher) update() {
	avg_price := 0.0
	n_responses := 0
	for exchange, getPrice := range p.Exchanges {
		fprice, err := getPrice(p.Currency)
		if err != nil {
			log.Error(err)
			// if one exchange is down, use the next
			continue
		}
		n_responses++
		avg_price += fprice
		log.Debugf("[PriceWatcher] %s %s price: %f", exchange, p.Currency, fprice)
	}
	if n_responses == 0 {
		return
	}
	p.mu.Lock()
	p.price = avg_price / float64(n_responses)
	p.mu.Unlock()
	log.Debugf("[PriceWatcher] Average %s price: %f", p.Currency, p.Price())
}

func (p *PriceWatcher) Price() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.price
}

// FiatValue converts sats at the last known price. ok is false until
// the first successful poll.
func (p *PriceWatcher) FiatValue(sats int64) (float64, bool) {
	price := p.Price()
	if price == 0 {
		return 0, false
	}
	return float64(sats) / 1e8 * price, true
}

func (p *PriceWatcher) GetCoinbasePrice(currency string) (float64, error) {
	coinbaseEndpoint, err := url.Parse(fmt.Sprintf("https://api.coinbase.com/v2/prices/spot?currency=%s", currency))
	if err != nil {
		return 0, err
	}
	response, err := p.client.Get(coinbaseEndpoint.String())
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, err
	}
	price := gjson.Get(string(bodyBytes), "data.amount")
	fprice, err := strconv.ParseFloat(strings.TrimSpace(price.String()), 64)
	if err != nil {
		return 0, err
	}
	return fprice, nil
}

func (p *PriceWatcher) GetBitfinexPrice(currency string) (float64, error) {
	var bitfinexCurrencyToPair = map[string]string{"USD": "btcusd", "EUR": "btceur"}
	pair, ok := bitfinexCurrencyToPair[currency]
	if !ok {
		return 0, fmt.Errorf("no bitfinex pair for %s", currency)
	}
	bitfinexEndpoint, err := url.Parse(fmt.Sprintf("https://api.bitfinex.com/v1/pubticker/%s", pair))
	if err != nil {
		return 0, err
	}
	response, err := p.client.Get(bitfinexEndpoint.String())
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, err
	}
	price := gjson.Get(string(bodyBytes), "last_price")
	fprice, err := strconv.ParseFloat(strings.TrimSpace(price.String()), 64)
	if err != nil {
		return 0, err
	}
	return fprice, nil
}
