package store

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/VoidMesh/cavern/internal/chunk"
)

// Tile blobs are the record's interleaved (id, amount) pairs written as
// signed varints and compressed with zstd. Generated amounts may be
// negative, hence signed.
var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	if encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
		panic(fmt.Sprintf("zstd encoder: %v", err))
	}
	if decoder, err = zstd.NewReader(nil); err != nil {
		panic(fmt.Sprintf("zstd decoder: %v", err))
	}
}

func encodeTiles(flat []int) []byte {
	raw := make([]byte, 0, len(flat)*2)
	for _, v := range flat {
		raw = binary.AppendVarint(raw, int64(v))
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4))
}

func decodeTiles(blob []byte) ([]int, error) {
	raw, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunk.ErrCorruptRecord, err)
	}
	var flat []int
	for len(raw) > 0 {
		v, n := binary.Varint(raw)
		if n <= 0 {
			return nil, fmt.Errorf("%w: bad varint at tile value %d", chunk.ErrCorruptRecord, len(flat))
		}
		flat = append(flat, int(v))
		raw = raw[n:]
	}
	return flat, nil
}
