// Package target provides host validation and parsing for platformapi.
package target

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ValidateIPv4 reports whether s is a well-formed dotted-decimal IPv4
// address: exactly four dot-separated base-10 segments, each in [0,255].
// Leading zeros are accepted ("192.168.01.1" parses the same as
// "192.168.1.1"). No semantic checks are made (loopback, broadcast and
// private ranges all pass).
func ValidateIPv4(s string) bool {
	segments := strings.Split(s, ".")
	if len(segments) != 4 {
		return false
	}

	for _, segment := range segments {
		if segment == "" {
			return false
		}
		octet, err := strconv.Atoi(segment)
		if err != nil {
			return false
		}
		if octet < 0 || octet > 255 {
			return false
		}
	}

	return true
}

// FilterValid returns the order-preserving subset of hosts that pass
// ValidateIPv4. Duplicates are preserved verbatim.
func FilterValid(hosts []string) []string {
	valid := make([]string, 0, len(hosts))
	for _, host := range hosts {
		host = strings.TrimSpace(host)
		if ValidateIPv4(host) {
			valid = append(valid, host)
		}
	}
	return valid
}

// ParseHostsString splits a comma-separated host list, trimming
// whitespace and skipping empty entries. No validation is performed.
func ParseHostsString(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hosts = append(hosts, part)
	}
	return hosts
}

// ParseHostLines reads host entries from r, one per line. Empty lines
// and '#' comments are skipped.
func ParseHostLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	hosts := make([]string, 0)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading hosts: %w", err)
	}

	return hosts, nil
}

// ParseHostFile reads host entries from a file, one per line.
func ParseHostFile(filename string) ([]string, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open host file '%s': %w", filename, err)
	}
	defer file.Close()

	return ParseHostLines(file)
}
