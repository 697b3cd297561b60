// Package stormcodec provides alternative Storm codecs backed by ugorji/go/codec.
package stormcodec

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

var (
	// CBOR is a codec that encodes to and decodes from CBOR (Concise Binary Object Representation).
	// http://cbor.io/
	// https://tools.ietf.org/html/rfc7049
	CBOR = &ugorji{name: "cbor", handle: &codec.CborHandle{}}

	// Binc is a codec that encodes to and decodes from Binc.
	// See https://github.com/ugorji/binc
	Binc = &ugorji{name: "binc", handle: &codec.BincHandle{}}
)

type ugorji struct {
	name   string
	handle codec.Handle
}

// Marshal implements storm's codec.MarshalUnmarshaler.
func (c *ugorji) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := codec.NewEncoder(&b, c.handle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal implements storm's codec.MarshalUnmarshaler.
func (c *ugorji) Unmarshal(b []byte, v any) error {
	dec := codec.NewDecoderBytes(b, c.handle)
	return dec.Decode(v)
}

// Name implements storm's codec.MarshalUnmarshaler.
func (c *ugorji) Name() string {
	return c.name
}
