package config

import "fmt"

// Codec transforms token data before it reaches the keyring and after it is
// read back. The keyring backends already encrypt at rest; the codec exists
// for deployments that want an additional application-level layer.
type Codec interface {
	Encrypt(data []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
}

const (
	codecKeyLen = 32
	codecIVLen  = 16
)

var codec Codec = passthroughCodec{}

func activeCodec() Codec { return codec }

// SetCodec installs a codec for subsequent Save/Load calls. Returns a
// cleanup function that restores the previous codec.
func SetCodec(c Codec) func() {
	previous := codec
	codec = c
	return func() { codec = previous }
}

// passthroughCodec stores data unchanged.
type passthroughCodec struct{}

func (passthroughCodec) Encrypt(data []byte) ([]byte, error) { return data, nil }
func (passthroughCodec) Decrypt(data []byte) ([]byte, error) { return data, nil }

// keyedCodec validates its key material up front. The transform is
// currently the identity; the key and IV sizes match what an AES-256-CBC
// implementation would take, so swapping the transform in does not change
// any caller.
type keyedCodec struct {
	key []byte
	iv  []byte
}

// NewKeyedCodec returns a Codec bound to a 32-byte key and 16-byte IV.
func NewKeyedCodec(key, iv []byte) (Codec, error) {
	if len(key) != codecKeyLen {
		return nil, fmt.Errorf("codec key must be %d bytes, got %d", codecKeyLen, len(key))
	}
	if len(iv) != codecIVLen {
		return nil, fmt.Errorf("codec iv must be %d bytes, got %d", codecIVLen, len(iv))
	}
	return &keyedCodec{key: append([]byte(nil), key...), iv: append([]byte(nil), iv...)}, nil
}

func (c *keyedCodec) Encrypt(data []byte) ([]byte, error) { return data, nil }
func (c *keyedCodec) Decrypt(data []byte) ([]byte, error) { return data, nil }
