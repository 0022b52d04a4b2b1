package errors

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"mercator-hq/ifccheck/pkg/rdl/ast"
)

// ExtractContext returns the lines of src around location, numbered, with the
// offending line marked and a caret under the offending column.
func ExtractContext(src []byte, location ast.Location, contextLines int) string {
	if !location.IsValid() || len(src) == 0 {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ""
	}

	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}
	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%*d | %s\n", prefix, width, i+1, lines[i]))

		if i == errorLine && location.Column > 0 {
			pad := strings.Repeat(" ", width+5+location.Column-1)
			sb.WriteString(pad + "^\n")
		}
	}

	return sb.String()
}
