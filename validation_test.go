package rhi

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestValidateForResolveToSwapchainMismatch(t *testing.T) {
	logs := captureLog(t)
	d, _ := newTestDevice(t)
	fb := newTestFramebuffer(t, d, 800, 600, PixelFormatNone)
	sc := &fakeSwapchain{width: 1024, height: 768}

	if ValidateForResolveToSwapchain(ResolveSamplesToSwapchainCommand{Source: fb, Target: sc}) {
		t.Fatal("ValidateForResolveToSwapchain() = true, want false")
	}
	if !strings.Contains(logs.String(), "mismatching widths") {
		t.Errorf("log = %q, want a width mismatch", logs.String())
	}

	sc.width, sc.height = 800, 600
	if !ValidateForResolveToSwapchain(ResolveSamplesToSwapchainCommand{Source: fb, Target: sc}) {
		t.Error("ValidateForResolveToSwapchain() = false for equal sizes")
	}
	if ValidateForResolveToSwapchain(ResolveSamplesToSwapchainCommand{Source: fb, SourceIndex: 1, Target: sc}) {
		t.Error("ValidateForResolveToSwapchain() = true for attachment 1 of 1")
	}
}

func TestValidateForGraphicsCall(t *testing.T) {
	captureLog(t)
	d, _ := newTestDevice(t)
	p := newTestPipeline(t, d, ResourceSetSpecification{
		UniformBuffers: []ResourceBinding{{Name: "MVP"}},
	})
	fb := newTestFramebuffer(t, d, 8, 8, PixelFormatNone)
	vb, _ := d.CreateVertexBuffer(make([]byte, 12), 12)
	rs, _ := d.CreateResourceSet(p)
	ub, _ := d.CreateUniformBuffer(64)

	state := BoundState{}
	if ValidateForGraphicsCall(state) {
		t.Error("empty state accepted")
	}
	state.Pipeline = p
	if ValidateForGraphicsCall(state) {
		t.Error("state without target accepted")
	}
	state.Target = NewFramebufferTarget(fb)
	if ValidateForGraphicsCall(state) {
		t.Error("state without vertex buffer accepted")
	}
	state.VertexBuffers[0] = VertexBufferBinding{Buffer: vb}
	if ValidateForGraphicsCall(state) {
		t.Error("state without resource set accepted")
	}
	state.ResourceSet = rs
	err := checkGraphicsCall(CmdDraw, &state, false)
	if err == nil || err.Slot != "MVP" {
		t.Fatalf("checkGraphicsCall() = %v, want missing slot MVP", err)
	}
	_ = rs.WriteUniformBuffer(ub, "MVP")
	if !ValidateForGraphicsCall(state) {
		t.Error("complete state rejected")
	}
	if ValidateForComputeCall(state) {
		t.Error("graphics pipeline accepted for dispatch")
	}
	if err := checkGraphicsCall(CmdDrawIndexed, &state, true); err == nil {
		t.Error("indexed draw without index buffer accepted")
	}
}

func TestValidateForComputeCall(t *testing.T) {
	captureLog(t)
	d, _ := newTestDevice(t)
	cs, err := d.CreateShaderModuleFromSpirvSource(testSPIRV, "cs", ShaderStageCompute, ResourceSetSpecification{})
	if err != nil {
		t.Fatalf("CreateShaderModuleFromSpirvSource() error = %v", err)
	}
	p, err := d.CreateComputePipeline(ComputePipelineDescription{Name: "reduce", ComputeModule: cs})
	if err != nil {
		t.Fatalf("CreateComputePipeline() error = %v", err)
	}
	fb := newTestFramebuffer(t, d, 8, 8, PixelFormatNone)

	if ValidateForComputeCall(BoundState{Target: NewFramebufferTarget(fb)}) {
		t.Error("dispatch without pipeline accepted")
	}
	if ValidateForComputeCall(BoundState{Pipeline: p}) {
		t.Error("dispatch without target accepted")
	}
	if !ValidateForComputeCall(BoundState{Pipeline: p, Target: NewFramebufferTarget(fb)}) {
		t.Error("valid dispatch rejected")
	}
}

func TestValidateClearViewportScissor(t *testing.T) {
	captureLog(t)
	d, _ := newTestDevice(t)
	fb := newTestFramebuffer(t, d, 100, 50, PixelFormatDepth32Float)
	target := NewFramebufferTarget(fb)
	none := RenderTarget{}
	nan := float32(math.NaN())

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"clear color 0", ValidateForClearColour(target, 0), true},
		{"clear color 1", ValidateForClearColour(target, 1), false},
		{"clear color unbound", ValidateForClearColour(none, 0), false},
		{"clear depth", ValidateForClearDepth(target), true},
		{"clear depth swapchain without depth", ValidateForClearDepth(NewSwapchainTarget(&fakeSwapchain{width: 1, height: 1})), false},
		{"viewport full", ValidateForSetViewport(target, Viewport{Width: 100, Height: 50, MaxDepth: 1}), true},
		{"viewport overflow", ValidateForSetViewport(target, Viewport{X: 10, Width: 100, Height: 50, MaxDepth: 1}), false},
		{"viewport depth range", ValidateForSetViewport(target, Viewport{Width: 10, Height: 10, MinDepth: 0.8, MaxDepth: 0.2}), false},
		{"viewport NaN width", ValidateForSetViewport(target, Viewport{Width: nan, Height: 10, MaxDepth: 1}), false},
		{"viewport NaN height", ValidateForSetViewport(target, Viewport{Width: 10, Height: nan, MaxDepth: 1}), false},
		{"viewport NaN origin", ValidateForSetViewport(target, Viewport{X: nan, Width: 10, Height: 10, MaxDepth: 1}), false},
		{"viewport NaN depth", ValidateForSetViewport(target, Viewport{Width: 10, Height: 10, MinDepth: nan, MaxDepth: 1}), false},
		{"viewport unbound", ValidateForSetViewport(none, Viewport{Width: 1, Height: 1, MaxDepth: 1}), false},
		{"scissor inside", ValidateForSetScissor(target, Scissor{X: 50, Y: 25, Width: 50, Height: 25}), true},
		{"scissor overflow", ValidateForSetScissor(target, Scissor{X: 51, Width: 50, Height: 1}), false},
		{"scissor empty", ValidateForSetScissor(target, Scissor{Width: 0, Height: 10}), false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %t, want %t", tt.name, tt.got, tt.want)
		}
	}

	fb.Destroy()
	if ValidateForClearColour(target, 0) {
		t.Error("clear of a destroyed framebuffer accepted")
	}
}

func TestValidateCopy(t *testing.T) {
	d, _ := newTestDevice(t)
	a, _ := d.CreateUniformBuffer(16)
	b, _ := d.CreateUniformBuffer(8)

	tests := []struct {
		name string
		cmd  CopyBufferToBufferCommand
		ok   bool
	}{
		{"fits", CopyBufferToBufferCommand{Source: a, Destination: b, Size: 8}, true},
		{"zero", CopyBufferToBufferCommand{Source: a, Destination: b}, false},
		{"dst overflow", CopyBufferToBufferCommand{Source: a, Destination: b, DestinationOffset: 4, Size: 8}, false},
		{"overlap", CopyBufferToBufferCommand{Source: a, Destination: a, SourceOffset: 0, DestinationOffset: 4, Size: 8}, false},
		{"disjoint self", CopyBufferToBufferCommand{Source: a, Destination: a, SourceOffset: 0, DestinationOffset: 8, Size: 8}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCommand(tt.cmd) == nil; got != tt.ok {
				t.Errorf("ValidateCommand() ok = %t, want %t", got, tt.ok)
			}
		})
	}
}
