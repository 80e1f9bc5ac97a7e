package storage

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

// CodecVersion is written with every model payload.
const CodecVersion = 1

// ErrVersionMismatch is returned for payloads written by another codec version.
var ErrVersionMismatch = errors.New("storage: codec version mismatch")

type genomeEnvelope struct {
	Version int           `msgpack:"v"`
	Genome  evolve.Genome `msgpack:"genome"`
}

// EncodeGenome serializes a genome to msgpack.
func EncodeGenome(g *evolve.Genome) ([]byte, error) {
	data, err := msgpack.Marshal(&genomeEnvelope{Version: CodecVersion, Genome: *g})
	if err != nil {
		return nil, fmt.Errorf("storage: encode genome %d: %w", g.ID, err)
	}
	return data, nil
}

// DecodeGenome parses a payload written by EncodeGenome.
func DecodeGenome(data []byte) (*evolve.Genome, error) {
	var env genomeEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("storage: decode genome: %w", err)
	}
	if env.Version != CodecVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrVersionMismatch, env.Version, CodecVersion)
	}
	return &env.Genome, nil
}
