package alarm

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype of AlarmService calls (application/grpc+json).
const CodecName = "json"

//nolint:gochecknoinits // Codecs must be registered before any server or client starts.
func init() {
	encoding.RegisterCodec(codec{})
}

// codec marshals AlarmService messages as JSON.
type codec struct{}

// Marshal encodes v as JSON.
func (codec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal %T: %w", v, err)
	}

	return data, nil
}

// Unmarshal decodes JSON data into v.
func (codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal %T: %w", v, err)
	}

	return nil
}

// Name returns the content-subtype.
func (codec) Name() string {
	return CodecName
}
