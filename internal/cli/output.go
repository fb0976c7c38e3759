package cli

import (
	"fmt"
	"io"
	"strings"
)

// printRow writes one tab-separated row for a tabwriter
func printRow(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}
