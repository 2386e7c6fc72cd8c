package lnbits

import (
	"context"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	pingInterval = 20 * time.Second
	pongTimeout  = 8 * time.Second
)

// Handler receives one raw feed frame. It is called synchronously from
// the listener goroutine.
type Handler func(raw []byte)

// Listener maintains one long-lived subscription to an LNbits payment
// notification feed and forwards every frame to its handler.
type Listener struct {
	endpoint   string
	handler    Handler
	invoiceKey string
	reconnect  bool
}

type ListenerOption func(*Listener)

func WithReconnect(reconnect bool) ListenerOption {
	return func(l *Listener) {
		l.reconnect = reconnect
	}
}

// WithInvoiceKey sets the X-Api-Key header for the SSE payments stream.
func WithInvoiceKey(key string) ListenerOption {
	return func(l *Listener) {
		l.invoiceKey = key
	}
}

func NewListener(endpoint string, handler Handler, option ...ListenerOption) *Listener {
	listener := &Listener{
		endpoint:  endpoint,
		handler:   handler,
		reconnect: true,
	}
	for _, opt := range option {
		opt(listener)
	}
	return listener
}

// Run blocks until ctx is canceled or, with reconnection disabled, the
// first connection error. Intended to run on its own goroutine; display
// state stays alive even after the feed dies.
func (l *Listener) Run(ctx context.Context) {
	endpoint, err := url.Parse(l.endpoint)
	if err != nil {
		log.Errorf("[Feed] invalid endpoint: %s", err.Error())
		return
	}
	run := l.listenWebsocket
	if endpoint.Scheme == "http" || endpoint.Scheme == "https" {
		run = l.listenSSE
	}

	if !l.reconnect {
		if err := run(ctx); err != nil {
			log.Errorf("[Feed] connection error: %s", err.Error())
		}
		return
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0
	err = backoff.Retry(func() error {
		err := run(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err != nil {
			log.Errorf("[Feed] connection error: %s", err.Error())
		}
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil && ctx.Err() == nil {
		log.Errorf("[Feed] giving up: %s", err.Error())
	}
}

func (l *Listener) listenWebsocket(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Debugf("[Feed] websocket connection to %s opened", l.endpoint)

	conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pongTimeout))
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Debugf("[Feed] websocket closed: %s", err.Error())
			return err
		}
		conn.SetReadDeadline(time.Now().Add(pingInterval + pongTimeout))
		l.handler(raw)
	}
}
