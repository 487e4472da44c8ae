package shared

import (
	"fmt"
	"io"

	"github.com/go-ports/ecorewards/internal/entitlement"
)

// PrintState writes an entitlement state as aligned key/value lines.
func PrintState(out io.Writer, st entitlement.State) {
	principal := string(st.Principal)
	if principal == "" {
		principal = "(signed out)"
	}
	fmt.Fprintf(out, "Principal:    %s\n", principal)
	if st.Loading {
		fmt.Fprintln(out, "Status:       loading")
		return
	}
	fmt.Fprintf(out, "Points:       %d\n", st.Snapshot.Points)
	sub := st.Snapshot.Subscription
	if sub == nil {
		fmt.Fprintln(out, "Subscription: none")
		return
	}
	status := "inactive"
	if sub.IsActive {
		status = "active"
	}
	fmt.Fprintf(out, "Subscription: %s (%s)\n", sub.Tier, status)
}
