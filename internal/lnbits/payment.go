// Package lnbits consumes the LNbits payment notification feed and
// normalizes its payloads.
package lnbits

import (
	"fmt"

	"github.com/massmux/ZapWall/internal/errors"
	"github.com/tidwall/gjson"
)

// Payment is a normalized payment record. LNbits has shipped two frame
// shapes over time: the old flat `{payment_hash, ...}` object and the
// new one nested under a `payment` key. Exactly one of the two is
// accepted; anything else is rejected with UnrecognizedShapeError.
type Payment struct {
	PaymentHash string
	Bolt11      string
	Paid        bool
	Status      string
	Memo        string
	Comment     string

	// ExtraComment is extra.comment normalized to a single string. The
	// field arrives either as a string or as a list, in which case the
	// first element wins.
	ExtraComment string

	// NostrRequest is the serialized zap request from extra.nostr,
	// empty when the payment is not a zap.
	NostrRequest string

	// Nested reports which of the two shapes the record was decoded
	// from.
	Nested bool
}

// IsPaid accepts a record marked paid by either schema version. The OR
// between the two indicators is deliberate: old frames carry `paid`,
// new ones carry `status`.
func (p *Payment) IsPaid() bool {
	return p.Paid || p.Status == "success"
}

// ParsePaymentUpdate decodes one raw feed frame into a Payment.
func ParsePaymentUpdate(raw []byte) (*Payment, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New(errors.MalformedPayloadError, fmt.Errorf("invalid json"))
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, errors.New(errors.MalformedPayloadError, fmt.Errorf("payload is not an object"))
	}

	record := root
	nested := false
	if !root.Get("payment_hash").Exists() {
		record = root.Get("payment")
		nested = true
		if !record.IsObject() || !record.Get("payment_hash").Exists() {
			return nil, errors.New(errors.UnrecognizedShapeError, fmt.Errorf("message has no usable payment_hash"))
		}
	}

	payment := &Payment{
		PaymentHash:  record.Get("payment_hash").String(),
		Bolt11:       record.Get("bolt11").String(),
		Paid:         record.Get("paid").Bool(),
		Status:       record.Get("status").String(),
		Memo:         record.Get("memo").String(),
		Comment:      record.Get("comment").String(),
		ExtraComment: extraComment(record.Get("extra.comment")),
		NostrRequest: nostrRequest(record.Get("extra.nostr")),
		Nested:       nested,
	}
	return payment, nil
}

func extraComment(result gjson.Result) string {
	if !result.Exists() {
		return ""
	}
	if result.IsArray() {
		values := result.Array()
		if len(values) == 0 {
			return ""
		}
		return values[0].String()
	}
	if result.Type == gjson.String {
		return result.String()
	}
	return ""
}

func nostrRequest(result gjson.Result) string {
	if !result.Exists() {
		return ""
	}
	// some LNbits versions store the zap request serialized, others as
	// an embedded object
	if result.IsObject() {
		return result.Raw
	}
	return result.String()
}
