package rhi

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDeviceSpecification(t *testing.T) {
	spec, err := ParseDeviceSpecification([]byte(`
[device]
api = "opengl"
debug_layer = true
vsync = true
adapter = "Intel"
`))
	if err != nil {
		t.Fatalf("ParseDeviceSpecification() error = %v", err)
	}
	want := DeviceSpecification{API: GraphicsAPIOpenGL, DebugLayer: true, VSync: true, PreferredAdapter: "Intel"}
	if spec != want {
		t.Errorf("ParseDeviceSpecification() = %+v, want %+v", spec, want)
	}
}

func TestParseDeviceSpecificationUnknownAPI(t *testing.T) {
	if _, err := ParseDeviceSpecification([]byte("[device]\napi = \"metal\"\n")); err == nil {
		t.Error("ParseDeviceSpecification(metal) error = nil")
	}
}

func TestDeviceSpecificationRoundTrip(t *testing.T) {
	spec := DeviceSpecification{API: GraphicsAPIWGPU, VSync: true}
	data, err := EncodeDeviceSpecification(spec)
	if err != nil {
		t.Fatalf("EncodeDeviceSpecification() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "device.toml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadDeviceSpecification(path)
	if err != nil {
		t.Fatalf("LoadDeviceSpecification() error = %v", err)
	}
	if got != spec {
		t.Errorf("round trip = %+v, want %+v", got, spec)
	}
	if _, err := LoadDeviceSpecification(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadDeviceSpecification(missing) error = nil")
	}
}
