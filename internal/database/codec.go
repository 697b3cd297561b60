package database

import (
	"strings"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/mdouchement/itemlist/pkg/stormcodec"
	"github.com/pkg/errors"
)

// DefaultCodec is the format used to store data in the database when none is given.
var DefaultCodec codec.MarshalUnmarshaler = msgpack.Codec

// CodecByName returns the storage format matching the given name.
// Supported names are msgpack (default), cbor and binc.
// A database must always be opened with the codec it has been created with.
func CodecByName(name string) (codec.MarshalUnmarshaler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DefaultCodec.Name():
		return DefaultCodec, nil
	case stormcodec.CBOR.Name():
		return stormcodec.CBOR, nil
	case stormcodec.Binc.Name():
		return stormcodec.Binc, nil
	default:
		return nil, errors.Errorf("unsupported database codec: %s", name)
	}
}
