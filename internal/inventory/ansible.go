package inventory

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ansibleInventoryData represents the structure of a YAML Ansible inventory
type ansibleInventoryData struct {
	All struct {
		Children map[string]*ansibleGroup `yaml:"children"`
		Hosts    map[string]*ansibleHost  `yaml:"hosts"`
	} `yaml:"all"`
	Groups map[string]*ansibleGroup `yaml:",inline"`
}

// ansibleGroup represents an Ansible inventory group
type ansibleGroup struct {
	Hosts    map[string]*ansibleHost  `yaml:"hosts"`
	Children map[string]*ansibleGroup `yaml:"children"`
}

// ansibleHost represents an Ansible inventory host entry
type ansibleHost struct {
	AnsibleHost string `yaml:"ansible_host"`
}

// LoadDefaultHosts reads host addresses from a YAML Ansible inventory
// file, so operators can point the service at an existing inventory
// instead of listing default hosts inline. An entry's ansible_host
// variable wins over its inventory name when present. Hosts are
// returned sorted for a stable default list.
func LoadDefaultHosts(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var data ansibleInventoryData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse inventory file: %w", err)
	}

	seen := make(map[string]bool)
	var hosts []string

	collect := func(name string, host *ansibleHost) {
		address := name
		if host != nil && host.AnsibleHost != "" {
			address = host.AnsibleHost
		}
		if !seen[address] {
			seen[address] = true
			hosts = append(hosts, address)
		}
	}

	for name, host := range data.All.Hosts {
		collect(name, host)
	}
	for _, group := range data.All.Children {
		collectGroup(group, collect)
	}
	for _, group := range data.Groups {
		collectGroup(group, collect)
	}

	sort.Strings(hosts)
	return hosts, nil
}

// collectGroup recursively walks an inventory group
func collectGroup(group *ansibleGroup, collect func(string, *ansibleHost)) {
	if group == nil {
		return
	}
	for name, host := range group.Hosts {
		collect(name, host)
	}
	for _, child := range group.Children {
		collectGroup(child, collect)
	}
}
