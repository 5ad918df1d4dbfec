package alarm

import (
	"fmt"
	"strings"
	"time"
)

// listTimeLayout is used for each line of a formatted alarm list.
const listTimeLayout = "2006-01-02 15:04:05"

// FormatList renders entries one per line as "<index>  <time>  <state>",
// with times converted to loc. An empty list renders as "No alarms scheduled".
func FormatList(entries []Entry, loc *time.Location) string {
	if len(entries) == 0 {
		return "No alarms scheduled"
	}

	if loc == nil {
		loc = time.Local
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%d  %s  %s", e.Index, e.Time.In(loc).Format(listTimeLayout), e.State))
	}

	return strings.Join(lines, "\n")
}
