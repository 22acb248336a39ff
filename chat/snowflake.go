package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Snowflake is the platform's opaque unique identifier for any entity
// (account, guild, channel, role, message). The platform serializes them as
// decimal strings in JSON to avoid precision loss in other clients; the zero
// value means "not set".
type Snowflake uint64

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func ParseSnowflake(raw string) (Snowflake, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", raw, err)
	}
	return Snowflake(v), nil
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = 0
		return nil
	}
	v, err := ParseSnowflake(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
