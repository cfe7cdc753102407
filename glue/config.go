package glue

import (
	"encoding/json"
	"fmt"
)

// Config bounds what scripts may ask of the marshaler.
type Config struct {
	// MaxBufferSize caps the size hint of every load. Larger hints are
	// rejected with an argument error before anything is allocated.
	MaxBufferSize uint64 `json:"max_buffer_size"`
	// ConstantsName is the global holding source, field and return code
	// constants. Empty skips it.
	ConstantsName string `json:"constants_name"`
}

func DefaultConfig() Config {
	return Config{
		MaxBufferSize: 4 << 20,
		ConstantsName: "CKB",
	}
}

func (c Config) Validate() error {
	if c.MaxBufferSize == 0 {
		return fmt.Errorf("max_buffer_size must be positive")
	}
	if c.MaxBufferSize > MaxSafeInteger {
		return fmt.Errorf("max_buffer_size %d exceeds %d", c.MaxBufferSize, uint64(MaxSafeInteger))
	}
	return nil
}

func (c Config) String() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling config: %v", err)
	}
	return string(b)
}
