package nostr

import (
	"encoding/json"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
)

// ParseZapRequest decodes the serialized zap request carried in an
// invoice's extra.nostr field. A request without a pubkey is not
// treated as a zap.
func ParseZapRequest(raw string) (*nostr.Event, error) {
	var event nostr.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, err
	}
	if event.PubKey == "" {
		return nil, fmt.Errorf("zap request without pubkey")
	}
	return &event, nil
}
