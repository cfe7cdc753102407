package runner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/colorfulnotion/ckbjs/glue"
)

// FixedNowMillis is the script clock. CKB scripts have no wall clock, so
// Date.now() always returns this instant.
const FixedNowMillis = -11504520000

type Config struct {
	Glue glue.Config `json:"glue"`
	// Timeout bounds one Run. Zero means no bound beyond the caller's context.
	Timeout time.Duration `json:"timeout"`
	// TraceName names the span recorded for each run.
	TraceName string `json:"trace_name"`
	NowMillis int64  `json:"now_millis"`
	RandSeed  int64  `json:"rand_seed"`
}

func DefaultConfig() Config {
	return Config{
		Glue:      glue.DefaultConfig(),
		Timeout:   10 * time.Second,
		TraceName: "ckbjs.run",
		NowMillis: FixedNowMillis,
	}
}

func (c Config) String() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling config: %v", err)
	}
	return string(b)
}
