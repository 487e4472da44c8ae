package shared

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-ports/ecorewards/internal/models"
)

// PrintListings writes a numbered listing block per entry.
func PrintListings(out io.Writer, title string, listings []models.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(out, "No listings found.")
		return
	}
	fmt.Fprintf(out, "\n %s (%d found) \n", title, len(listings))
	for i := range listings {
		l := &listings[i]
		open := "closed"
		if l.IsOpenNow {
			open = "open"
		}
		fmt.Fprintf(out, "\n [%d] %s (%s)\n", i+1, l.Name, l.ID)
		fmt.Fprintf(out, "     %s | %.1f km | rating %.1f | %d pts | %s\n",
			l.Category, l.DistanceKm, l.Rating, l.RewardPoints, open)
		fmt.Fprintf(out, "     %s\n", l.Address)
		fmt.Fprintf(out, "     Accepts: %s\n", strings.Join(l.AcceptedMaterials, ", "))
	}
}
