// Package catalog holds the static provisioning presets offered by the
// console: VM templates, VM sizes and guest OS types.
//
// The tables are compiled into the program and never change at runtime.
// Every lookup goes through Normalize, so selector matching follows one
// policy for all three tables: surrounding whitespace is ignored and
// names match case-insensitively. Sizes can be selected by name
// ("Medium") or by selector code ("2").
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a selector does not match any catalog entry.
var ErrNotFound = errors.New("catalog entry not found")

// Template is a VM template that deployments clone from.
type Template struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Template    string `json:"template" yaml:"template"` // Template object name in vCenter
	Description string `json:"description" yaml:"description"`
}

// OSType is a guest OS preset for blank VMs.
type OSType struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	GuestID     string `json:"guestId" yaml:"guestId"` // vSphere guest identifier
	Description string `json:"description" yaml:"description"`
}

// Size is a VM resource preset.
type Size struct {
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	CPU      int    `json:"cpu" yaml:"cpu"`
	MemoryGB int    `json:"memoryGb" yaml:"memoryGb"`
	DiskGB   int    `json:"diskGb" yaml:"diskGb"`
}

// String renders the size the way menus list it.
func (s Size) String() string {
	return fmt.Sprintf("%s: %d vCPU, %d GB RAM, %d GB Disk", s.Name, s.CPU, s.MemoryGB, s.DiskGB)
}

var templates = []Template{
	{Code: "1", Name: "Splunk", Template: "template-splunk-enterprise", Description: "Splunk Enterprise Server"},
	{Code: "2", Name: "Cribl", Template: "template-cribl-stream", Description: "Cribl Stream/Edge"},
	{Code: "3", Name: "Forescout", Template: "template-forescout", Description: "Forescout CounterACT"},
	{Code: "4", Name: "Windows Server", Template: "template-windows-2022", Description: "Windows Server 2022"},
	{Code: "5", Name: "RHEL 9", Template: "template-rhel9", Description: "Red Hat Enterprise Linux 9"},
	{Code: "6", Name: "Ubuntu 22.04", Template: "template-ubuntu-2204", Description: "Ubuntu Server 22.04 LTS"},
}

var sizes = []Size{
	{Code: "1", Name: "Small", CPU: 2, MemoryGB: 4, DiskGB: 50},
	{Code: "2", Name: "Medium", CPU: 4, MemoryGB: 8, DiskGB: 100},
	{Code: "3", Name: "Large", CPU: 8, MemoryGB: 16, DiskGB: 200},
	{Code: "4", Name: "XLarge", CPU: 16, MemoryGB: 32, DiskGB: 500},
}

var osTypes = []OSType{
	{Code: "1", Name: "RHEL", GuestID: "rhel9_64Guest", Description: "Red Hat Enterprise Linux"},
	{Code: "2", Name: "Ubuntu", GuestID: "ubuntu64Guest", Description: "Ubuntu Linux"},
	{Code: "3", Name: "Windows", GuestID: "windows2019srv_64Guest", Description: "Windows Server"},
	{Code: "4", Name: "CentOS", GuestID: "centos9_64Guest", Description: "CentOS Stream"},
	{Code: "5", Name: "Debian", GuestID: "debian11_64Guest", Description: "Debian Linux"},
}

const (
	// DefaultTemplateSize is offered when deploying from a template.
	DefaultTemplateSize = "Medium"
	// DefaultStandardSize is offered when deploying a blank VM.
	DefaultStandardSize = "Small"
	// DefaultOSType is the selector offered for blank VMs.
	DefaultOSType = "1"
)

// Normalize is the single selector normalization policy.
func Normalize(selector string) string {
	return strings.ToLower(strings.TrimSpace(selector))
}

// ResolveTemplate looks up a template by selector code.
func ResolveTemplate(code string) (Template, error) {
	key := Normalize(code)
	for _, t := range templates {
		if Normalize(t.Code) == key {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("template %q: %w", code, ErrNotFound)
}

// ResolveOSType looks up an OS type by selector code.
func ResolveOSType(code string) (OSType, error) {
	key := Normalize(code)
	for _, o := range osTypes {
		if Normalize(o.Code) == key {
			return o, nil
		}
	}
	return OSType{}, fmt.Errorf("OS type %q: %w", code, ErrNotFound)
}

// ResolveSize looks up a size by name or selector code.
func ResolveSize(selector string) (Size, error) {
	key := Normalize(selector)
	for _, s := range sizes {
		if Normalize(s.Name) == key || Normalize(s.Code) == key {
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("size %q: %w", selector, ErrNotFound)
}

// Templates returns all templates in selector order.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// Sizes returns all sizes in selector order.
func Sizes() []Size {
	return append([]Size(nil), sizes...)
}

// OSTypes returns all OS types in selector order.
func OSTypes() []OSType {
	return append([]OSType(nil), osTypes...)
}
