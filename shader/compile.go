package shader

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/naga"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/internal/cache"
)

// Errors returned by the shader package.
var (
	// ErrCompile marks WGSL the compiler rejected.
	ErrCompile = errors.New("shader: compilation failed")

	// ErrUnsupportedLanguage is returned for devices that take neither
	// WGSL nor SPIR-V.
	ErrUnsupportedLanguage = errors.New("shader: device shader language cannot be produced from WGSL")
)

// cacheCapacity bounds the number of compiled modules kept in memory.
const cacheCapacity = 128

var compiled = cache.New[[sha256.Size]byte, []uint32](cacheCapacity)

// CompileWGSL compiles WGSL source to SPIR-V words. Results are cached by
// the hash of the source; callers must not modify the returned slice.
func CompileWGSL(source string) ([]uint32, error) {
	key := sha256.Sum256([]byte(source))
	return compiled.GetOrCreate(key, func() ([]uint32, error) {
		out, err := naga.Compile(source)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "shader: compile WGSL"), ErrCompile)
		}
		words, err := Words(out)
		if err != nil {
			return nil, err
		}
		rhi.Logger().Debug("shader: compiled WGSL", "words", len(words))
		return words, nil
	})
}

// Words converts a little-endian SPIR-V byte stream to words.
func Words(spirv []byte) ([]uint32, error) {
	if len(spirv)%4 != 0 {
		return nil, errors.Newf("shader: SPIR-V length %d is not a multiple of 4", len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	if len(words) == 0 || words[0] != rhi.SPIRVMagic {
		return nil, errors.New("shader: output is not a SPIR-V module")
	}
	return words, nil
}

// CacheStats reports how often compiled modules were reused.
func CacheStats() cache.Stats { return compiled.Stats() }

// ResetCache drops every compiled module.
func ResetCache() { compiled.Clear() }
