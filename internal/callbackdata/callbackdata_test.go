package callbackdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/premium-channel-bot/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Data
	}{
		{"menu", Menu(), Data{Kind: KindMenu}},
		{"channel", Channel("study_data_1"), Data{Kind: KindChannel, ChannelKey: "study_data_1"}},
		{"subscribe", Subscribe("study_data_2"), Data{Kind: KindSubscribe, ChannelKey: "study_data_2"}},
		{"renew", Renew("study_data_3"), Data{Kind: KindRenew, ChannelKey: "study_data_3"}},
		{"pay upi", Pay(types.MethodUPI, "pay-1"), Data{Kind: KindPay, Method: types.MethodUPI, PaymentID: "pay-1"}},
		{"pay qr", Pay(types.MethodQR, "pay-1"), Data{Kind: KindPay, Method: types.MethodQR, PaymentID: "pay-1"}},
		{"proof", Proof("pay-1"), Data{Kind: KindProof, PaymentID: "pay-1"}},
		{"approve", Approve("pay-1"), Data{Kind: KindApprove, PaymentID: "pay-1"}},
		{"reject", Reject("pay-1"), Data{Kind: KindReject, PaymentID: "pay-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"unknown kind", "teleport:study_data_1"},
		{"menu with arg", "menu:extra"},
		{"channel without key", "channel"},
		{"channel empty key", "channel:"},
		{"approve without id", "approve"},
		{"pay missing id", "pay:upi"},
		{"pay empty id", "pay:upi:"},
		{"pay bad method", "pay:card:pay-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}
