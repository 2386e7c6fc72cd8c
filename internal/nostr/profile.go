// Package nostr resolves zap sender identities against a set of
// directory relays and decodes zap requests embedded in invoices.
package nostr

import (
	"context"
	"encoding/json"
	"time"

	"github.com/massmux/ZapWall/internal/errors"
	"github.com/nbd-wtf/go-nostr"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

// Metadata is the kind-0 profile content we care about.
type Metadata struct {
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Username    string `json:"username"`
}

// Resolver queries relays for a profile name, one relay at a time in
// fixed priority order. It never fails: exhaustion yields the
// truncated-pubkey fallback. Names are resolved fresh per event, there
// is no cache.
type Resolver struct {
	relays  []string
	timeout time.Duration
	verbose bool
}

func NewResolver(relays []string, timeout time.Duration, verbose bool) *Resolver {
	return &Resolver{
		relays:  relays,
		timeout: timeout,
		verbose: verbose,
	}
}

// FetchProfileName returns the display name of pubkey from the first
// relay that answers, or the truncated pubkey. The caller's ctx bounds
// the whole call; worst case is len(relays) * timeout.
func (r *Resolver) FetchProfileName(ctx context.Context, pubkey string) string {
	if pubkey == "" {
		return FallbackName(pubkey)
	}
	// correlates the SEND/RECV debug lines of one lookup
	reqID := uuid.NewV4().String()[:8]
	filter := nostr.Filter{
		Authors: []string{pubkey},
		Kinds:   []int{nostr.KindSetMetadata},
		Limit:   1,
	}
	for _, relay := range r.relays {
		if ctx.Err() != nil {
			break
		}
		name, err := r.queryRelay(ctx, relay, reqID, filter)
		if err != nil {
			log.Debugf("[Nostr] relay %s error: %s", relay, errors.New(errors.DirectoryQueryError, err).Error())
			continue
		}
		if name != "" {
			log.Debugf("[Nostr] profile found: %s", name)
			return name
		}
	}
	return FallbackName(pubkey)
}

func (r *Resolver) queryRelay(ctx context.Context, url string, reqID string, filter nostr.Filter) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.verbose {
		log.Debugf("[Nostr] connecting to relay %s …", url)
	}
	relay, err := nostr.RelayConnect(cctx, url)
	if err != nil {
		return "", err
	}
	defer relay.Close()

	if r.verbose {
		log.Debugf("[Nostr] → SEND [REQ %s authors=%v kinds=%v limit=%d]", reqID, filter.Authors, filter.Kinds, filter.Limit)
	}
	sub := relay.Subscribe(cctx, nostr.Filters{filter})
	defer sub.Unsub()

	select {
	case ev := <-sub.Events:
		if ev == nil {
			return "", cctx.Err()
		}
		if r.verbose {
			log.Debugf("[Nostr] ← RECV [EVENT %s kind=%d]", reqID, ev.Kind)
		}
		return PickName(ev.Content), nil
	case <-sub.EndOfStoredEvents:
		// a stored event may have raced the EOSE signal
		select {
		case ev := <-sub.Events:
			if ev != nil {
				return PickName(ev.Content), nil
			}
		default:
		}
		if r.verbose {
			log.Debugf("[Nostr] reached EOSE on %s, no profile", url)
		}
		return "", nil
	case <-cctx.Done():
		return "", cctx.Err()
	}
}

// PickName extracts the first usable name from kind-0 content.
func PickName(content string) string {
	var meta Metadata
	if err := json.Unmarshal([]byte(content), &meta); err != nil {
		return ""
	}
	for _, name := range []string{meta.DisplayName, meta.Name, meta.Username} {
		if name != "" {
			return name
		}
	}
	return ""
}

// FallbackName is the deterministic identity used when no relay
// yields a profile.
func FallbackName(pubkey string) string {
	if len(pubkey) > 12 {
		pubkey = pubkey[:12]
	}
	return pubkey + "…"
}
