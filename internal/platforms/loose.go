package platforms

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// looseString decodes a JSON string and treats null or any other type as "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '"' {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = looseString(v)
	return nil
}

// looseCount decodes a counter sent as a number, a numeric string or null.
// Anything else, including values outside the int64 range, decodes as 0.
type looseCount int64

func (c *looseCount) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*c = looseCount(n)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= math.MinInt64 && f < math.MaxInt64 {
		*c = looseCount(int64(f))
		return nil
	}
	*c = 0
	return nil
}
