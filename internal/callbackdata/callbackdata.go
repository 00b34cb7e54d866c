// Package callbackdata encodes and decodes the inline-button payloads.
// Handlers receive a typed Data value; composite tokens never travel past
// this boundary.
package callbackdata

import (
	"fmt"
	"strings"

	"github.com/studyhub/premium-channel-bot/types"
)

type Kind string

const (
	KindMenu      Kind = "menu"
	KindChannel   Kind = "channel"
	KindSubscribe Kind = "subscribe"
	KindPay       Kind = "pay"
	KindProof     Kind = "proof"
	KindApprove   Kind = "approve"
	KindReject    Kind = "reject"
	KindRenew     Kind = "renew"
)

type Data struct {
	Kind       Kind
	ChannelKey string
	PaymentID  string
	Method     types.PaymentMethod
}

func Menu() string { return string(KindMenu) }

func Channel(key string) string { return string(KindChannel) + ":" + key }

func Subscribe(key string) string { return string(KindSubscribe) + ":" + key }

func Pay(method types.PaymentMethod, paymentID string) string {
	return string(KindPay) + ":" + string(method) + ":" + paymentID
}

func Proof(paymentID string) string { return string(KindProof) + ":" + paymentID }

func Approve(paymentID string) string { return string(KindApprove) + ":" + paymentID }

func Reject(paymentID string) string { return string(KindReject) + ":" + paymentID }

func Renew(channelKey string) string { return string(KindRenew) + ":" + channelKey }

func Parse(data string) (Data, error) {
	parts := strings.Split(strings.TrimSpace(data), ":")
	if len(parts) == 0 || parts[0] == "" {
		return Data{}, fmt.Errorf("empty callback data")
	}

	kind := Kind(parts[0])
	args := parts[1:]

	switch kind {
	case KindMenu:
		if len(args) != 0 {
			return Data{}, fmt.Errorf("invalid callback data: %q", data)
		}
		return Data{Kind: kind}, nil
	case KindChannel, KindSubscribe, KindRenew:
		if len(args) != 1 || args[0] == "" {
			return Data{}, fmt.Errorf("invalid callback data: %q", data)
		}
		return Data{Kind: kind, ChannelKey: args[0]}, nil
	case KindProof, KindApprove, KindReject:
		if len(args) != 1 || args[0] == "" {
			return Data{}, fmt.Errorf("invalid callback data: %q", data)
		}
		return Data{Kind: kind, PaymentID: args[0]}, nil
	case KindPay:
		if len(args) != 2 || args[1] == "" {
			return Data{}, fmt.Errorf("invalid callback data: %q", data)
		}
		method, ok := types.ParsePaymentMethod(args[0])
		if !ok {
			return Data{}, fmt.Errorf("unknown payment method in callback data: %q", data)
		}
		return Data{Kind: kind, Method: method, PaymentID: args[1]}, nil
	default:
		return Data{}, fmt.Errorf("unknown callback data: %q", data)
	}
}
