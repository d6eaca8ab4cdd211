package client

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edqe14/hefs/pkg/hefs"
)

type recordingLogger struct {
	hefs.NopLogger

	mutex    sync.Mutex
	messages []string
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.messages = append(l.messages, msg)
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	t.Run("drops entries without identifiers", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}

		configs, err := decodeList([]byte(projectsFixture), "project", projectConfigID, logger)
		require.NoError(t, err)
		require.Len(t, configs, 2)
		assert.Equal(t, hefs.FlexibleID("1"), configs[0].ID)
		assert.Equal(t, hefs.FlexibleID("p2"), configs[1].ID)
		assert.Equal(t, []string{"dropping entry without identifier"}, logger.messages)
	})

	t.Run("drops entries that are not objects", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}

		configs, err := decodeList([]byte(`[{"_id": "g1"}, 42, null, {"_id": ""}]`), "guild", guildConfigID, logger)
		require.NoError(t, err)
		require.Len(t, configs, 1)
		assert.Equal(t, "g1", configs[0].ID)
		assert.Len(t, logger.messages, 3)
	})

	t.Run("rejects a non-array body", func(t *testing.T) {
		t.Parallel()

		_, err := decodeList([]byte(`{"_id": "g1"}`), "guild", guildConfigID, hefs.NopLogger{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing guild list")
	})
}

func TestDecodeOne(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantID  string
		wantErr error
	}{
		{name: "object", body: `{"_id": "s1", "project": 3}`, wantID: "s1"},
		{name: "one element array", body: ` [{"_id": "s2", "project": "p"}]`, wantID: "s2"},
		{name: "empty array", body: `[]`, wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config, err := decodeOne[hefs.SubmissionConfig]([]byte(tt.body), "submission")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, config.ID)
		})
	}

	_, err := decodeOne[hefs.GuildConfig]([]byte(`not json`), "guild")
	require.Error(t, err)
}
