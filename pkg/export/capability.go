package export

import "fmt"

// External targets push tasks into another application instead of writing
// a file. None of them is implemented; they exist so callers can list them
// and report ErrNotImplemented distinctly.
const (
	Google    Format = "google"
	Apple     Format = "apple"
	Microsoft Format = "microsoft"
)

var externalTargets = map[Format]string{
	Google:    "Google Tasks",
	Apple:     "Apple Reminders",
	Microsoft: "Microsoft To Do",
}

// Environment describes the runtime the caller is in. It is passed in
// explicitly so capability checks never read process state themselves.
type Environment struct {
	// GOOS as reported by runtime.GOOS.
	GOOS string
	// GoogleConfigured is true when OAuth client secrets were found.
	GoogleConfigured bool
}

// Availability is the answer to a capability query.
type Availability struct {
	Target      Format
	Description string
	// Available is true when Write can produce output for the target.
	Available bool
	// External targets are application integrations, not file formats.
	External bool
	Reason   string
}

// Capability reports whether target can be exported to in env.
func (r *Registry) Capability(target Format, env Environment) Availability {
	target = normalize(target)
	if name, ok := externalTargets[target]; ok {
		a := Availability{Target: target, Description: name, External: true}
		switch {
		case target == Apple && env.GOOS != "darwin":
			a.Reason = fmt.Sprintf("requires macOS, running on %s", env.GOOS)
		case target == Google && !env.GoogleConfigured:
			a.Reason = "no OAuth client credentials configured; sync not implemented"
		default:
			a.Reason = "sync not implemented"
		}
		return a
	}

	e, err := r.Lookup(target)
	if err != nil {
		return Availability{Target: target, Reason: err.Error()}
	}
	return Availability{
		Target:      target,
		Description: fmt.Sprintf("%s file (.%s)", target, e.Extension()),
		Available:   true,
	}
}

// Capabilities answers Capability for every known target: file formats
// first, then external targets.
func (r *Registry) Capabilities(env Environment) []Availability {
	var out []Availability
	for _, f := range r.Formats() {
		out = append(out, r.Capability(f, env))
	}
	for _, f := range []Format{Google, Apple, Microsoft} {
		out = append(out, r.Capability(f, env))
	}
	return out
}
