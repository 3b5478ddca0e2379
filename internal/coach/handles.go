package coach

import (
	"github.com/smolblud/forge/internal/domain/repositories"
	"github.com/smolblud/forge/internal/domain/services"
)

// Handles tracks the external collaborators initialized once at process
// start. A failed initialization leaves the matching field nil and records
// the error; the service then runs degraded, with every submit reporting the
// initialization failure instead of panicking at call time.
type Handles struct {
	Index     services.SemanticIndex
	Generator services.Generator
	Store     repositories.ConversationStore
	InitErr   error
}

// Available reports whether the full pipeline can serve requests.
func (h *Handles) Available() bool {
	return h != nil && h.InitErr == nil && h.Index != nil && h.Generator != nil && h.Store != nil
}

// Agents reports per-agent readiness for the health endpoint. The planner is
// a pure function and is ready whenever the process is up.
func (h *Handles) Agents() map[string]bool {
	if h == nil {
		return map[string]bool{"planner": false, "librarian": false, "coach": false}
	}
	return map[string]bool{
		"planner":   true,
		"librarian": h.Index != nil,
		"coach":     h.Generator != nil,
	}
}
