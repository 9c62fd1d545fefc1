package session

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
)

// Codec is a Marshal/Unmarshal pair used by stores that persist session
// blobs (file, redis). JSON is the default; Gob keeps Go types such as
// time.Time intact but requires gob.Register for custom variable types.
type Codec struct {
	Marshal   func(any) ([]byte, error)
	Unmarshal func([]byte, any) error
}

var (
	// JSON is a Codec that uses the encoding/json package.
	JSON = Codec{json.Marshal, json.Unmarshal}
	// Gob is a Codec that uses the encoding/gob package.
	Gob = Codec{gobMarshal, gobUnmarshal}
)

func gobMarshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobUnmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
