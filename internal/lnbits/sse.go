package lnbits

import (
	"context"

	"github.com/r3labs/sse"
	log "github.com/sirupsen/logrus"
)

// SSE consumption of the LNbits payments stream. Used when the
// configured endpoint is http(s) instead of a websocket.
func (l *Listener) listenSSE(ctx context.Context) error {
	client := sse.NewClient(l.endpoint)
	if l.invoiceKey != "" {
		client.Headers = map[string]string{"X-Api-Key": l.invoiceKey}
	}
	log.Debugf("[Feed] subscribing to SSE stream %s", l.endpoint)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Subscribe("", func(msg *sse.Event) {
			if len(msg.Data) == 0 {
				return
			}
			l.handler(msg.Data)
		})
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
