// Package recap parses the PLAY RECAP block of ansible-playbook output.
package recap

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Counters maps counter names (ok, changed, unreachable, failed,
// skipped, rescued, ignored, or anything else the tool emits) to
// non-negative values.
type Counters map[string]int

// Summary maps host names, as they appear in recap lines, to their
// counters.
type Summary map[string]Counters

// counterPattern matches a single name=integer token in a recap line
var counterPattern = regexp.MustCompile(`(\w+)=(\d+)`)

// recapMarker starts the end-of-run summary block
const recapMarker = "PLAY RECAP"

// Parse scans stdout for a PLAY RECAP block and extracts per-host
// counters. The body runs from the marker line to the first blank line
// or end of input. Each body line splits on the first colon into host
// and counters; every name=integer token in the remainder is kept, so
// the parser stays schema-agnostic against the tool's unstable console
// format. Lines with no colon are skipped. An absent marker or empty
// stdout yields an empty, non-nil Summary, never an error.
func Parse(stdout string) Summary {
	summary := make(Summary)
	if stdout == "" {
		return summary
	}

	scanner := bufio.NewScanner(strings.NewReader(stdout))
	inRecap := false

	for scanner.Scan() {
		line := scanner.Text()

		if !inRecap {
			if strings.HasPrefix(strings.TrimSpace(line), recapMarker) {
				inRecap = true
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			break
		}

		host, counters, ok := parseRecapLine(line)
		if !ok {
			continue
		}
		summary[host] = counters
	}

	return summary
}

// parseRecapLine extracts the host name and counters from one recap
// body line of the shape "<host> : <key>=<value> <key>=<value> ...".
func parseRecapLine(line string) (string, Counters, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", nil, false
	}

	host := strings.TrimSpace(line[:idx])
	if host == "" {
		return "", nil, false
	}

	counters := make(Counters)
	for _, match := range counterPattern.FindAllStringSubmatch(line[idx+1:], -1) {
		value, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		counters[match[1]] = value
	}

	return host, counters, true
}
