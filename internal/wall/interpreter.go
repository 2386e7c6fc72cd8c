package wall

import (
	"context"
	"fmt"
	"strings"

	decodepay "github.com/fiatjaf/ln-decodepay"
	"github.com/massmux/ZapWall/internal/errors"
	"github.com/massmux/ZapWall/internal/lnbits"
	"github.com/massmux/ZapWall/internal/nostr"
	"github.com/massmux/ZapWall/internal/str"
	log "github.com/sirupsen/logrus"
)

// placeholder shown for zaps that carry no content, so the wall is
// never blank for a zap
const zapGlyph = "⚡️"

// anonymous sender name for non-zap payments
const plainName = "someone"

// NameResolver resolves a pubkey to a display name. It never fails.
type NameResolver interface {
	FetchProfileName(ctx context.Context, pubkey string) string
}

// InvoiceDecoder turns a bolt11 payment request into its decoded form.
type InvoiceDecoder func(bolt11 string) (decodepay.Bolt11, error)

// Interpreter turns raw feed frames into display messages. Every
// failure is terminal to the single frame only; once amount and text
// are known the event always reaches the sink.
type Interpreter struct {
	resolver   NameResolver
	decode     InvoiceDecoder
	out        chan<- Message
	verboseRaw bool
}

type InterpreterOption func(*Interpreter)

// WithInvoiceDecoder overrides the bolt11 decoder.
func WithInvoiceDecoder(decode InvoiceDecoder) InterpreterOption {
	return func(i *Interpreter) {
		i.decode = decode
	}
}

// WithVerboseRaw echoes every raw frame to the debug log.
func WithVerboseRaw(verbose bool) InterpreterOption {
	return func(i *Interpreter) {
		i.verboseRaw = verbose
	}
}

func NewInterpreter(resolver NameResolver, out chan<- Message, option ...InterpreterOption) *Interpreter {
	interpreter := &Interpreter{
		resolver: resolver,
		decode:   decodepay.Decodepay,
		out:      out,
	}
	for _, opt := range option {
		opt(interpreter)
	}
	return interpreter
}

// HandleMessage processes one raw feed frame end to end.
func (i *Interpreter) HandleMessage(ctx context.Context, raw []byte) {
	if i.verboseRaw {
		log.Debugf("[Feed] raw message: %s", str.Truncate(string(raw), 300))
	}

	payment, err := lnbits.ParsePaymentUpdate(raw)
	if err != nil {
		log.Debugf("[Feed] %s → skipping", err.Error())
		return
	}
	if !payment.IsPaid() {
		werr := errors.New(errors.UnpaidInvoiceError, fmt.Errorf("invoice %s not marked as paid", payment.PaymentHash))
		log.Debugf("[Feed] %s → skipping", werr.Error())
		return
	}

	bolt, err := i.decode(payment.Bolt11)
	if err != nil {
		werr := errors.New(errors.InvoiceDecodeError, err)
		log.Debugf("[Feed] bolt11 decode failed: %s", werr.Error())
		return
	}
	sats := bolt.MSatoshi / 1000
	log.Debugf("[Feed] invoice decoded: %d sats", sats)

	var pubkey, content string
	isZap := false
	if payment.NostrRequest != "" {
		zapRequest, err := nostr.ParseZapRequest(payment.NostrRequest)
		if err != nil {
			log.Debugf("[Feed] zap request decode error: %s", err.Error())
		} else {
			isZap = true
			pubkey = zapRequest.PubKey
			content = zapRequest.Content
			log.Debugf("[Feed] zap request pubkey found: %s, content: %s", pubkey, content)
		}
	}

	name := plainName
	if isZap {
		name = i.resolver.FetchProfileName(ctx, pubkey)
	} else {
		// not a zap, fall back through the comment chain
		content = payment.ExtraComment
		if content == "" {
			content = firstNonEmpty(payment.Memo, payment.Comment, bolt.Description)
		}
	}
	if isZap && content == "" {
		content = zapGlyph
	}

	i.emit(ctx, Message{
		Text: fmt.Sprintf("⚡ %d sats from %s\n%s", sats, name, content),
		Sats: sats,
	})
}

func (i *Interpreter) emit(ctx context.Context, msg Message) {
	log.Infof("[Zap] %s", strings.ReplaceAll(msg.Text, "\n", " "))
	select {
	case i.out <- msg:
	case <-ctx.Done():
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
