package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/edqe14/hefs/pkg/hefs"
)

// decodeList parses a JSON array and drops entries without an identifier.
// Entries that are not objects of the expected shape are dropped as well.
func decodeList[C any](body []byte, kind string, id func(*C) string, logger hefs.Logger) ([]*C, error) {
	var raw []json.RawMessage

	err := json.Unmarshal(body, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list: %w", kind, err)
	}

	configs := make([]*C, 0, len(raw))

	for i, item := range raw {
		var config C

		err = json.Unmarshal(item, &config)
		if err != nil {
			logger.Debug("dropping malformed entry", map[string]interface{}{
				"kind":  kind,
				"index": i,
				"error": err.Error(),
			})

			continue
		}

		if id(&config) == "" {
			logger.Debug("dropping entry without identifier", map[string]interface{}{
				"kind":  kind,
				"index": i,
			})

			continue
		}

		configs = append(configs, &config)
	}

	return configs, nil
}

// decodeOne parses a single JSON object. A one-element array is accepted
// too, since bulk endpoints answer edits either way.
func decodeOne[C any](body []byte, kind string) (*C, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []C

		err := json.Unmarshal(trimmed, &list)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", kind, err)
		}

		if len(list) == 0 {
			return nil, fmt.Errorf("parsing %s: %w", kind, ErrEmptyResponse)
		}

		return &list[0], nil
	}

	var config C

	err := json.Unmarshal(trimmed, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", kind, err)
	}

	return &config, nil
}

func guildConfigID(c *hefs.GuildConfig) string           { return c.ID }
func projectConfigID(c *hefs.ProjectConfig) string       { return c.ID.String() }
func submissionConfigID(c *hefs.SubmissionConfig) string { return c.ID }
