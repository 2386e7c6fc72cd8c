package internal

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jinzhu/configor"
	"github.com/massmux/ZapWall/internal/str"
)

var defaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.nostr.band",
}

type Configuration struct {
	Lnbits LnbitsConfiguration `yaml:"lnbits"`
	Nostr  NostrConfiguration  `yaml:"nostr"`
	Wall   WallConfiguration   `yaml:"wall"`
}

type LnbitsConfiguration struct {
	// Endpoint is either a wss:// payment notification socket or an
	// http(s):// payments SSE stream.
	Endpoint         string `yaml:"endpoint"`
	InvoiceKey       string `yaml:"invoice_key"`
	DisableReconnect bool   `yaml:"disable_reconnect"`
	VerboseRaw       bool   `yaml:"verbose_raw"`
}

type NostrConfiguration struct {
	Relays         []string `yaml:"relays"`
	ProfileTimeout int64    `yaml:"profile_timeout" default:"4"`
	VerboseRelay   bool     `yaml:"verbose_relay"`
}

type WallConfiguration struct {
	MaxComments      int    `yaml:"max_comments" default:"6"`
	LogFile          string `yaml:"log_file"`
	LightningAddress string `yaml:"lightning_address"`
	// Currency enables the fiat value next to the sat total, e.g.
	// "USD". Empty disables price polling.
	Currency string `yaml:"currency"`
}

func (n NostrConfiguration) Timeout() time.Duration {
	return time.Duration(n.ProfileTimeout) * time.Second
}

func LoadConfig(path string) (*Configuration, error) {
	configuration := &Configuration{}
	err := configor.Load(configuration, path)
	if err != nil {
		return nil, err
	}
	if err = checkConfiguration(configuration); err != nil {
		return nil, err
	}
	return configuration, nil
}

func checkConfiguration(configuration *Configuration) error {
	if configuration.Lnbits.Endpoint == "" {
		return fmt.Errorf("please configure an lnbits endpoint")
	}
	endpoint, err := url.Parse(configuration.Lnbits.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid lnbits endpoint: %v", err)
	}
	switch endpoint.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return fmt.Errorf("unsupported lnbits endpoint scheme %q", endpoint.Scheme)
	}
	if len(configuration.Nostr.Relays) == 0 {
		configuration.Nostr.Relays = defaultRelays
	}
	// remove trailing / and duplicates
	configuration.Nostr.Relays = str.UniqueSlice(str.CleanUrls(configuration.Nostr.Relays))
	return nil
}
