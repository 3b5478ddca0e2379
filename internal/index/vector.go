package index

import (
	"encoding/binary"
	"errors"
	"math"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver.
	vec.Auto()
}

// serializeVector encodes a float32 slice into the little-endian blob format
// sqlite-vec expects.
func serializeVector(vector []float32) ([]byte, error) {
	if len(vector) == 0 {
		return nil, errors.New("empty vector")
	}

	blob := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob, nil
}
