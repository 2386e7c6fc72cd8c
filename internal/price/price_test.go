package price

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateAveragesExchanges(t *testing.T) {
	p := NewPriceWatcher("USD")
	p.Exchanges = map[string]func(string) (float64, error){
		"a": func(string) (float64, error) { return 50000, nil },
		"b": func(string) (float64, error) { return 70000, nil },
	}
	p.update()
	assert.Equal(t, 60000.0, p.Price())
}

func TestUpdateSkipsFailingExchange(t *testing.T) {
	p := NewPriceWatcher("EUR")
	p.Exchanges = map[string]func(string) (float64, error){
		"up":   func(string) (float64, error) { return 40000, nil },
		"down": func(string) (float64, error) { return 0, fmt.Errorf("unreachable") },
	}
	p.update()
	assert.Equal(t, 40000.0, p.Price())
}

func TestUpdateKeepsLastPriceWhenAllExchangesFail(t *testing.T) {
	p := NewPriceWatcher("USD")
	p.Exchanges = map[string]func(string) (float64, error){
		"a": func(string) (float64, error) { return 30000, nil },
	}
	p.update()
	p.Exchanges["a"] = func(string) (float64, error) { return 0, fmt.Errorf("down") }
	p.update()
	assert.Equal(t, 30000.0, p.Price())
}

func TestFiatValue(t *testing.T) {
	p := NewPriceWatcher("USD")

	_, ok := p.FiatValue(2000)
	assert.False(t, ok, "no value before the first poll")

	p.Exchanges = map[string]func(string) (float64, error){
		"a": func(string) (float64, error) { return 100000, nil },
	}
	p.update()
	value, ok := p.FiatValue(2000)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, value, 1e-9)
}
