package rhi

// Option configures a GraphicsDevice during creation.
//
// Example:
//
//	device, err := rhi.NewGraphicsDevice(spec,
//	    rhi.WithName("editor"),
//	    rhi.WithSubmitHook(func(list *rhi.CommandList, err error) {
//	        stats.Record(list.Len(), err)
//	    }))
type Option func(*deviceOptions)

type deviceOptions struct {
	name            string
	commandCapacity int
	submitHook      func(*CommandList, error)
}

func defaultOptions() deviceOptions {
	return deviceOptions{
		name:            "device",
		commandCapacity: 64,
	}
}

// WithName sets the device's debug name used in log output.
func WithName(name string) Option {
	return func(o *deviceOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithCommandCapacity sets the initial command capacity of new command lists.
func WithCommandCapacity(n int) Option {
	return func(o *deviceOptions) {
		if n > 0 {
			o.commandCapacity = n
		}
	}
}

// WithSubmitHook installs a function called after every submitted list
// with the list and the submission result. The list is still in the
// Submitted state when the hook runs.
func WithSubmitHook(fn func(list *CommandList, err error)) Option {
	return func(o *deviceOptions) {
		o.submitHook = fn
	}
}
