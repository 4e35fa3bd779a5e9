package wgpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestSelectAdapter(t *testing.T) {
	adapters := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "Software Rasterizer", DeviceType: gputypes.DeviceTypeCPU}},
		{Info: gputypes.AdapterInfo{Name: "Intel UHD 630", DeviceType: gputypes.DeviceTypeIntegratedGPU}},
		{Info: gputypes.AdapterInfo{Name: "NVIDIA RTX 3080", DeviceType: gputypes.DeviceTypeDiscreteGPU}},
	}
	tests := []struct {
		name      string
		preferred string
		want      string
	}{
		{"no preference takes first GPU", "", "Intel UHD 630"},
		{"case-insensitive match", "rtx", "NVIDIA RTX 3080"},
		{"unknown preference falls back", "radeon", "Intel UHD 630"},
		{"software by name", "software", "Software Rasterizer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectAdapter(adapters, tt.preferred).Info.Name; got != tt.want {
				t.Errorf("selectAdapter(%q) = %q, want %q", tt.preferred, got, tt.want)
			}
		})
	}
}

func TestSelectAdapterFallsBackToFirst(t *testing.T) {
	adapters := []hal.ExposedAdapter{
		{Info: gputypes.AdapterInfo{Name: "cpu0", DeviceType: gputypes.DeviceTypeCPU}},
		{Info: gputypes.AdapterInfo{Name: "cpu1", DeviceType: gputypes.DeviceTypeCPU}},
	}
	if got := selectAdapter(adapters, "").Info.Name; got != "cpu0" {
		t.Errorf("selectAdapter() = %q, want cpu0", got)
	}
}

func TestAlign4(t *testing.T) {
	for in, want := range map[uint64]uint64{0: 0, 1: 4, 4: 4, 5: 8, 255: 256} {
		if got := align4(in); got != want {
			t.Errorf("align4(%d) = %d, want %d", in, got, want)
		}
	}
}
