package settings

import "fmt"

// ConfigError reports a malformed setting value. The operation that hit
// it proceeds on the documented default; the error exists so the fallback
// gets logged.
type ConfigError struct {
	Key   string
	Value string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("malformed setting %s=%q, using default", e.Key, e.Value)
}
