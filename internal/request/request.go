// Package request turns an operator's menu selection, their answers and a
// freshly loaded configuration document into a fully resolved request.
//
// Requests are value objects. A request is either complete or not built at
// all; the first failed validation discards everything gathered so far.
package request

import (
	"fmt"

	"github.com/jbweber/ecst/internal/catalog"
	"github.com/jbweber/ecst/internal/ui"
)

// Kind identifies an operation.
type Kind string

const (
	KindDeployVCSA           Kind = "deploy-vcsa"
	KindDeployInfrastructure Kind = "deploy-infrastructure"
	KindDeployDatacenter     Kind = "deploy-datacenter"
	KindDeployCluster        Kind = "deploy-cluster"
	KindConfigureVSAN        Kind = "configure-vsan"
	KindConfigureVDS         Kind = "configure-vds"
	KindConfigureVMotion     Kind = "configure-vmotion"
	KindConfigureServices    Kind = "configure-services"
	KindConfigureSecurity    Kind = "configure-security"
	KindConfigureAll         Kind = "configure-all"
	KindDeployTemplateVM     Kind = "deploy-template-vm"
	KindDeployStandardVM     Kind = "deploy-standard-vm"
	KindStatus               Kind = "status"
)

// Mutating reports whether the operation changes the platform and must be
// confirmed before it runs.
func (k Kind) Mutating() bool {
	return k != KindStatus
}

// Known reports whether k is one of the operations the console offers.
func (k Kind) Known() bool {
	_, ok := descriptors[k]
	return ok
}

// Title is the header shown when the operation starts.
func (k Kind) Title() string {
	if d, ok := descriptors[k]; ok {
		return d.title
	}
	return string(k)
}

type descriptor struct {
	title     string
	question  string
	cancelled string
	succeeded string
	failed    string
}

var descriptors = map[Kind]descriptor{
	KindDeployVCSA: {
		title:     "Deploy vCenter Server Appliance (VCSA)",
		question:  "Do you want to proceed with VCSA deployment?",
		cancelled: "VCSA deployment cancelled.",
		succeeded: "VCSA deployment preparation completed!",
		failed:    "VCSA deployment failed",
	},
	KindDeployInfrastructure: {
		title:     "Deploy Full Infrastructure",
		question:  "Do you want to proceed with full infrastructure deployment?",
		cancelled: "Infrastructure deployment cancelled.",
		succeeded: "Infrastructure deployment completed!",
		failed:    "Infrastructure deployment failed",
	},
	KindDeployDatacenter: {
		title:     "Deploy Datacenter",
		question:  "Create this datacenter?",
		cancelled: "Datacenter creation cancelled.",
		succeeded: "Datacenter created successfully!",
		failed:    "Datacenter creation failed",
	},
	KindDeployCluster: {
		title:     "Deploy Cluster",
		question:  "Create this cluster?",
		cancelled: "Cluster creation cancelled.",
		succeeded: "Cluster created successfully!",
		failed:    "Cluster creation failed",
	},
	KindConfigureVSAN: {
		title:     "Configure vSAN",
		question:  "Configure vSAN with these settings?",
		cancelled: "vSAN configuration cancelled.",
		succeeded: "vSAN configured successfully!",
		failed:    "vSAN configuration failed",
	},
	KindConfigureVDS: {
		title:     "Configure Distributed Switch (VDS)",
		question:  "Configure VDS with these settings?",
		cancelled: "VDS configuration cancelled.",
		succeeded: "VDS configured successfully!",
		failed:    "VDS configuration failed",
	},
	KindConfigureVMotion: {
		title:     "Configure vMotion",
		question:  "Configure vMotion with these settings?",
		cancelled: "vMotion configuration cancelled.",
		succeeded: "vMotion configured successfully!",
		failed:    "vMotion configuration failed",
	},
	KindConfigureServices: {
		title:     "Configure Host Services (NTP/DNS/Syslog)",
		question:  "Configure services with these settings?",
		cancelled: "Service configuration cancelled.",
		succeeded: "Host services configured successfully!",
		failed:    "Service configuration failed",
	},
	KindConfigureSecurity: {
		title:     "Configure Security Settings",
		question:  "Apply these security settings?",
		cancelled: "Security configuration cancelled.",
		succeeded: "Security settings applied successfully!",
		failed:    "Security configuration failed",
	},
	KindConfigureAll: {
		title:     "Configure All Infrastructure",
		question:  "Proceed with full infrastructure configuration?",
		cancelled: "Full configuration cancelled.",
		succeeded: "Full infrastructure configuration completed!",
		failed:    "Configuration failed",
	},
	KindDeployTemplateVM: {
		title:     "Deploy VM from Template",
		question:  "Deploy this VM?",
		cancelled: "VM deployment cancelled.",
		succeeded: "VM '%s' deployed from template!",
		failed:    "VM deployment failed",
	},
	KindDeployStandardVM: {
		title:     "Deploy Standard Virtual Machine",
		question:  "Create this VM?",
		cancelled: "VM creation cancelled.",
		succeeded: "Standard VM '%s' created successfully!",
		failed:    "VM creation failed",
	},
	KindStatus: {
		title:     "Infrastructure Status",
		succeeded: "Status query completed.",
		failed:    "Status query failed",
	},
}

// Request is a fully resolved operation ready to be rendered for the backend.
type Request interface {
	Kind() Kind
	Summary() *Summary
}

// Field is one labelled value of a summary.
type Field struct {
	Label string
	Value string
}

// Section groups summary fields under an optional title.
type Section struct {
	Title  string
	Fields []Field
	Items  []string
}

// Summary is what the operator reviews before confirming, plus the
// messages reported for each outcome.
type Summary struct {
	Header    string
	Sections  []Section
	Question  string
	Cancelled string
	Succeeded string
	Failed    string
}

func newSummary(kind Kind, args ...any) *Summary {
	d := descriptors[kind]
	succeeded := d.succeeded
	if len(args) > 0 {
		succeeded = fmt.Sprintf(d.succeeded, args...)
	}
	return &Summary{
		Question:  d.question,
		Cancelled: d.cancelled,
		Succeeded: succeeded,
		Failed:    d.failed,
	}
}

// Render prints the summary sections.
func (s *Summary) Render(c *ui.Console) {
	if s.Header != "" {
		c.Header(s.Header)
	}
	for _, section := range s.Sections {
		if section.Title != "" {
			c.Println(section.Title)
		}
		width := labelWidth(section.Fields)
		for _, f := range section.Fields {
			c.Field(f.Label, f.Value, width)
		}
		for _, item := range section.Items {
			c.Bullet(item)
		}
		c.Println()
	}
}

func labelWidth(fields []Field) int {
	width := 0
	for _, f := range fields {
		if len(f.Label)+1 > width {
			width = len(f.Label) + 1
		}
	}
	return width
}

// Network holds the network answers of a template deployment.
type Network struct {
	IP         string
	SubnetMask string
	Gateway    string
}

// TemplateDeploymentRequest clones a VM from a catalog template.
type TemplateDeploymentRequest struct {
	VMName        string
	Template      catalog.Template
	Size          catalog.Size
	Network       Network
	Tag           string
	VCenterServer string
	Cluster       string
}

// Kind implements Request.
func (r *TemplateDeploymentRequest) Kind() Kind { return KindDeployTemplateVM }

// Summary implements Request.
func (r *TemplateDeploymentRequest) Summary() *Summary {
	s := newSummary(KindDeployTemplateVM, r.VMName)
	s.Header = "VM Deployment Summary"
	s.Sections = []Section{{
		Fields: []Field{
			{"VM Name", r.VMName},
			{"Template", r.Template.Name},
			{"Size", fmt.Sprintf("%s (%d vCPU, %d GB RAM)", r.Size.Name, r.Size.CPU, r.Size.MemoryGB)},
			{"IP Address", r.Network.IP},
			{"Subnet Mask", r.Network.SubnetMask},
			{"Gateway", r.Network.Gateway},
			{"Tag", r.Tag},
		},
	}}
	return s
}

// StandardDeploymentRequest creates a blank VM for a guest OS type.
type StandardDeploymentRequest struct {
	VMName        string
	OSType        catalog.OSType
	Size          catalog.Size
	IP            string
	Tag           string
	VCenterServer string
	Cluster       string
}

// Kind implements Request.
func (r *StandardDeploymentRequest) Kind() Kind { return KindDeployStandardVM }

// Summary implements Request.
func (r *StandardDeploymentRequest) Summary() *Summary {
	s := newSummary(KindDeployStandardVM, r.VMName)
	s.Header = "VM Deployment Summary"
	s.Sections = []Section{{
		Fields: []Field{
			{"VM Name", r.VMName},
			{"OS Type", fmt.Sprintf("%s (%s)", r.OSType.Name, r.OSType.Description)},
			{"Size", r.Size.Name},
			{"vCPU", fmt.Sprint(r.Size.CPU)},
			{"Memory", fmt.Sprintf("%d GB", r.Size.MemoryGB)},
			{"Disk", fmt.Sprintf("%d GB", r.Size.DiskGB)},
			{"IP Address", r.IP},
			{"Tag", r.Tag},
		},
	}}
	return s
}

// InfrastructureRequest is an operation whose parameters all come from the
// configuration document.
type InfrastructureRequest struct {
	kind    Kind
	summary *Summary
}

// Kind implements Request.
func (r *InfrastructureRequest) Kind() Kind { return r.kind }

// Summary implements Request.
func (r *InfrastructureRequest) Summary() *Summary { return r.summary }

// StatusRequest queries the current inventory. It changes nothing.
type StatusRequest struct {
	VCenterServer string
}

// Kind implements Request.
func (r *StatusRequest) Kind() Kind { return KindStatus }

// Summary implements Request.
func (r *StatusRequest) Summary() *Summary {
	s := newSummary(KindStatus)
	s.Sections = []Section{{Fields: []Field{{"vCenter", r.VCenterServer}}}}
	return s
}
