package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearChannelEnv(t *testing.T) {
	t.Helper()
	for i := 1; i <= len(channelDefs); i++ {
		t.Setenv(fmt.Sprintf("CHANNEL_ID_%d", i), "")
	}
}

func TestLoad(t *testing.T) {
	clearChannelEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "111")
	t.Setenv("CHANNEL_ID_1", "-1001")
	t.Setenv("CHANNEL_ID_3", "-1003")
	t.Setenv("REMINDER_DAYS", "5")
	t.Setenv("UPI_ID", "pay@bank")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(111), cfg.AdminID)
	assert.Equal(t, 5, cfg.ReminderDays)
	assert.Equal(t, "pay@bank", cfg.UPIID)

	// Channels without a configured ID are skipped.
	require.Len(t, cfg.Channels, 2)
	assert.Equal(t, "study_data_1", cfg.Channels[0].Key)
	assert.Equal(t, int64(-1001), cfg.Channels[0].ChannelID)
	assert.Equal(t, int64(499), cfg.Channels[0].Price)
	assert.Equal(t, "study_data_3", cfg.Channels[1].Key)
	assert.Equal(t, 60, cfg.Channels[1].ValidityDays)
}

func TestLoadDefaults(t *testing.T) {
	clearChannelEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "111")
	t.Setenv("CHANNEL_ID_1", "-1001")
	t.Setenv("REMINDER_DAYS", "")
	t.Setenv("UPI_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ReminderDays)
	assert.Equal(t, "example@upi", cfg.UPIID)
}

func TestLoadMissingRequired(t *testing.T) {
	clearChannelEnv(t)
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ADMIN_ID", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ADMIN_ID", "111")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID_1", "")
	_, err = Load()
	require.Error(t, err)
}
