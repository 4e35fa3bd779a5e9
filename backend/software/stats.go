package software

// Stats counts the native calls the software backend performed.
type Stats struct {
	Submissions uint64
	// Commands is the number of commands that passed validation.
	Commands uint64
	// Rejected is the number of commands skipped by validation.
	Rejected uint64

	PipelineBinds    uint64
	ResourceSetBinds uint64
	Draws            uint64
	IndexedDraws     uint64
	Vertices         uint64
	Instances        uint64
	Dispatches       uint64
	Workgroups       uint64
	Clears           uint64
	Copies           uint64
	CopiedBytes      uint64
	Resolves         uint64
}

// add accumulates the counters of one submission.
func (s *Stats) add(o Stats) {
	s.Submissions += o.Submissions
	s.Commands += o.Commands
	s.Rejected += o.Rejected
	s.PipelineBinds += o.PipelineBinds
	s.ResourceSetBinds += o.ResourceSetBinds
	s.Draws += o.Draws
	s.IndexedDraws += o.IndexedDraws
	s.Vertices += o.Vertices
	s.Instances += o.Instances
	s.Dispatches += o.Dispatches
	s.Workgroups += o.Workgroups
	s.Clears += o.Clears
	s.Copies += o.Copies
	s.CopiedBytes += o.CopiedBytes
	s.Resolves += o.Resolves
}
