package rhi

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// DeviceSpecification selects and configures the backend of a GraphicsDevice.
type DeviceSpecification struct {
	API GraphicsAPI `toml:"api"`
	// DebugLayer enables backend validation layers where available.
	DebugLayer bool `toml:"debug_layer"`
	VSync      bool `toml:"vsync"`
	// PreferredAdapter selects an adapter by name substring. Empty picks
	// the first discrete GPU, then the first adapter.
	PreferredAdapter string `toml:"adapter"`
	// Context carries a backend-specific handle owned by the windowing
	// layer, such as an OpenGL context or a gpucontext.DeviceProvider.
	Context any `toml:"-"`
}

// MarshalText implements encoding.TextMarshaler.
func (a GraphicsAPI) MarshalText() ([]byte, error) {
	if int(a) >= len(graphicsAPINames) {
		return nil, errors.Newf("rhi: unknown graphics API %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *GraphicsAPI) UnmarshalText(text []byte) error {
	api, ok := ParseGraphicsAPI(string(text))
	if !ok {
		return errors.Newf("rhi: unknown graphics API %q", text)
	}
	*a = api
	return nil
}

type configFile struct {
	Device DeviceSpecification `toml:"device"`
}

// ParseDeviceSpecification decodes the [device] table of a TOML document:
//
//	[device]
//	api = "wgpu"
//	debug_layer = true
//	vsync = true
//	adapter = "NVIDIA"
func ParseDeviceSpecification(data []byte) (DeviceSpecification, error) {
	var cfg configFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DeviceSpecification{}, errors.Wrap(err, "rhi: parse device specification")
	}
	return cfg.Device, nil
}

// LoadDeviceSpecification reads a TOML file with ParseDeviceSpecification.
func LoadDeviceSpecification(path string) (DeviceSpecification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceSpecification{}, errors.Wrapf(err, "rhi: read %s", path)
	}
	return ParseDeviceSpecification(data)
}

// EncodeDeviceSpecification renders spec as a TOML document.
func EncodeDeviceSpecification(spec DeviceSpecification) ([]byte, error) {
	data, err := toml.Marshal(configFile{Device: spec})
	if err != nil {
		return nil, errors.Wrap(err, "rhi: encode device specification")
	}
	return data, nil
}
