package wgpu

// Stats counts what the wgpu backend encoded and submitted.
type Stats struct {
	Submissions uint64
	// Commands is the number of commands that passed validation.
	Commands uint64
	Rejected uint64

	RenderPasses  uint64
	ComputePasses uint64
	// ClearPasses counts passes opened only to apply clear load ops.
	ClearPasses uint64

	PipelineBinds uint64
	BindGroups    uint64
	Draws         uint64
	IndexedDraws  uint64
	Dispatches    uint64
	Copies        uint64
	Resolves      uint64
}

func (s *Stats) add(o Stats) {
	s.Submissions += o.Submissions
	s.Commands += o.Commands
	s.Rejected += o.Rejected
	s.RenderPasses += o.RenderPasses
	s.ComputePasses += o.ComputePasses
	s.ClearPasses += o.ClearPasses
	s.PipelineBinds += o.PipelineBinds
	s.BindGroups += o.BindGroups
	s.Draws += o.Draws
	s.IndexedDraws += o.IndexedDraws
	s.Dispatches += o.Dispatches
	s.Copies += o.Copies
	s.Resolves += o.Resolves
}
