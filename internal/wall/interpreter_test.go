package wall

import (
	"context"
	"fmt"
	"testing"

	decodepay "github.com/fiatjaf/ln-decodepay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls []string
	name  string
}

func (s *stubResolver) FetchProfileName(_ context.Context, pubkey string) string {
	s.calls = append(s.calls, pubkey)
	if s.name != "" {
		return s.name
	}
	return pubkey[:12] + "…"
}

// stubDecoder returns a fixed msat amount and description for any
// payment request.
func stubDecoder(msat int64, description string) InvoiceDecoder {
	return func(string) (decodepay.Bolt11, error) {
		return decodepay.Bolt11{MSatoshi: msat, Description: description}, nil
	}
}

func failingDecoder(string) (decodepay.Bolt11, error) {
	return decodepay.Bolt11{}, fmt.Errorf("checksum failed")
}

func newTestInterpreter(resolver *stubResolver, decode InvoiceDecoder) (*Interpreter, chan Message) {
	out := make(chan Message, 4)
	return NewInterpreter(resolver, out, WithInvoiceDecoder(decode)), out
}

func collect(out chan Message) []Message {
	var msgs []Message
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestPlainPaymentUsesMemoAndPlaceholderName(t *testing.T) {
	resolver := &stubResolver{}
	interpreter, out := newTestInterpreter(resolver, stubDecoder(2000000, "invoice description"))

	interpreter.HandleMessage(context.Background(), []byte(`{"payment_hash":"h1","bolt11":"lnbc...","paid":true,"memo":"thanks for the show"}`))

	msgs := collect(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(2000), msgs[0].Sats)
	assert.Equal(t, "⚡ 2000 sats from someone\nthanks for the show", msgs[0].Text)
	assert.Empty(t, resolver.calls, "resolver must not run for plain comments")
}

func TestAmountIsFloorDivided(t *testing.T) {
	interpreter, out := newTestInterpreter(&stubResolver{}, stubDecoder(1999, ""))
	interpreter.HandleMessage(context.Background(), []byte(`{"payment_hash":"h","paid":true,"bolt11":"lnbc..."}`))
	msgs := collect(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(1), msgs[0].Sats)
}

func TestUnpaidInvoiceIsDiscarded(t *testing.T) {
	interpreter, out := newTestInterpreter(&stubResolver{}, stubDecoder(1000, ""))
	interpreter.HandleMessage(context.Background(), []byte(`{"paid":false,"bolt11":"lnbc..."}`))
	interpreter.HandleMessage(context.Background(), []byte(`{"payment_hash":"h","paid":false,"status":"pending","bolt11":"lnbc..."}`))
	assert.Empty(t, collect(out))
}

func TestMalformedAndUndecodableFramesAreDiscarded(t *testing.T) {
	interpreter, out := newTestInterpreter(&stubResolver{}, failingDecoder)
	interpreter.HandleMessage(context.Background(), []byte(`garbage`))
	interpreter.HandleMessage(context.Background(), []byte(`{"payment_hash":"h","paid":true,"bolt11":"broken"}`))
	assert.Empty(t, collect(out))
}

func TestNostrZapResolvesNameAndKeepsContent(t *testing.T) {
	resolver := &stubResolver{name: "Alice"}
	interpreter, out := newTestInterpreter(resolver, stubDecoder(21000, ""))

	raw := `{"payment_hash":"h","paid":true,"bolt11":"lnbc...","extra":{"nostr":"{\"pubkey\":\"deadbeef00112233\",\"content\":\"gm!\"}"}}`
	interpreter.HandleMessage(context.Background(), []byte(raw))

	msgs := collect(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, "⚡ 21 sats from Alice\ngm!", msgs[0].Text)
	assert.Equal(t, []string{"deadbeef00112233"}, resolver.calls)
}

func TestNostrZapWithEmptyContentShowsGlyph(t *testing.T) {
	resolver := &stubResolver{name: "Alice"}
	interpreter, out := newTestInterpreter(resolver, stubDecoder(5000, "ignored for zaps"))

	raw := `{"payment_hash":"h","paid":true,"bolt11":"lnbc...","extra":{"nostr":"{\"pubkey\":\"deadbeef00112233\"}"}}`
	interpreter.HandleMessage(context.Background(), []byte(raw))

	msgs := collect(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, "⚡ 5 sats from Alice\n⚡️", msgs[0].Text)
}

func TestBrokenZapRequestFallsBackToCommentChain(t *testing.T) {
	resolver := &stubResolver{}
	interpreter, out := newTestInterpreter(resolver, stubDecoder(3000, "bolt description"))

	// extra.nostr present but unparseable: treated as a plain comment
	raw := `{"payment_hash":"h","paid":true,"bolt11":"lnbc...","extra":{"nostr":"not json"},"comment":"plain comment"}`
	interpreter.HandleMessage(context.Background(), []byte(raw))

	msgs := collect(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, "⚡ 3 sats from someone\nplain comment", msgs[0].Text)
	assert.Empty(t, resolver.calls)
}

func TestCommentChainPriority(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			"extra comment list wins",
			`{"payment_hash":"h","paid":true,"bolt11":"x","extra":{"comment":["from list"]},"memo":"memo","comment":"comment"}`,
			"from list",
		},
		{
			"memo beats comment",
			`{"payment_hash":"h","paid":true,"bolt11":"x","memo":"memo","comment":"comment"}`,
			"memo",
		},
		{
			"comment beats description",
			`{"payment_hash":"h","paid":true,"bolt11":"x","comment":"comment"}`,
			"comment",
		},
		{
			"description is the last resort",
			`{"payment_hash":"h","paid":true,"bolt11":"x"}`,
			"bolt description",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interpreter, out := newTestInterpreter(&stubResolver{}, stubDecoder(1000, "bolt description"))
			interpreter.HandleMessage(context.Background(), []byte(tc.raw))
			msgs := collect(out)
			require.Len(t, msgs, 1)
			assert.Equal(t, "⚡ 1 sats from someone\n"+tc.want, msgs[0].Text)
		})
	}
}

func TestNestedShapeReachesSink(t *testing.T) {
	interpreter, out := newTestInterpreter(&stubResolver{}, stubDecoder(2000000, ""))
	raw := `{"payment":{"payment_hash":"h1","bolt11":"lnbc...","status":"success","memo":"nested"}}`
	interpreter.HandleMessage(context.Background(), []byte(raw))
	msgs := collect(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(2000), msgs[0].Sats)
	assert.Equal(t, "⚡ 2000 sats from someone\nnested", msgs[0].Text)
}
