package request

import (
	"fmt"

	"github.com/jbweber/ecst/internal/catalog"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/ui"
)

const (
	// DefaultSubnetMask is offered for template deployments.
	DefaultSubnetMask = "255.255.255.0"
	// DefaultGateway is offered for template deployments.
	DefaultGateway = "192.168.1.1"
)

// Builder drives the prompt sequence of each operation.
type Builder struct {
	prompter prompt.Prompter
	console  *ui.Console
}

// NewBuilder creates a builder asking through p and printing to console.
func NewBuilder(p prompt.Prompter, console *ui.Console) *Builder {
	return &Builder{prompter: p, console: console}
}

// TemplateDeployment builds a template deployment for the template selected
// by code. Answers are validated as they are given.
func (b *Builder) TemplateDeployment(doc *config.Document, code string) (*TemplateDeploymentRequest, error) {
	tmpl, err := catalog.ResolveTemplate(code)
	if err != nil {
		return nil, invalidSelection("template", "template", err)
	}

	server, cluster, err := placement(doc)
	if err != nil {
		return nil, err
	}

	b.console.Println()
	b.console.Highlight("Selected Template", tmpl.Name, 18)
	b.console.Field("Template Name", tmpl.Template, 18)
	b.console.Println()

	name, err := b.ask("Enter VM Name (e.g., splunk-prod-01)", "", func(v string) error {
		return ValidateName("vmName", "VM name", v)
	})
	if err != nil {
		return nil, err
	}

	size, err := b.size(catalog.DefaultTemplateSize)
	if err != nil {
		return nil, err
	}

	ip, err := b.ask("Enter IP Address (e.g., 192.168.1.100)", "", func(v string) error {
		return ValidateIPv4("ip", "IP address", v)
	})
	if err != nil {
		return nil, err
	}

	mask, err := b.ask("Enter Subnet Mask", DefaultSubnetMask, func(v string) error {
		return ValidateSubnetMask("subnetMask", "Subnet mask", v)
	})
	if err != nil {
		return nil, err
	}

	gateway, err := b.ask("Enter Gateway", DefaultGateway, func(v string) error {
		return ValidateIPv4("gateway", "Gateway", v)
	})
	if err != nil {
		return nil, err
	}

	tag, err := b.ask("Enter Tag Name (e.g., Production-App)", "", func(v string) error {
		return ValidateTag("tag", "Tag name", v)
	})
	if err != nil {
		return nil, err
	}

	return &TemplateDeploymentRequest{
		VMName:        name,
		Template:      tmpl,
		Size:          size,
		Network:       Network{IP: ip, SubnetMask: mask, Gateway: gateway},
		Tag:           tag,
		VCenterServer: server,
		Cluster:       cluster,
	}, nil
}

// StandardDeployment builds a blank VM deployment.
func (b *Builder) StandardDeployment(doc *config.Document) (*StandardDeploymentRequest, error) {
	server, cluster, err := placement(doc)
	if err != nil {
		return nil, err
	}

	name, err := b.ask("Enter VM Name (e.g., rhel-web-01)", "", func(v string) error {
		return ValidateName("vmName", "VM name", v)
	})
	if err != nil {
		return nil, err
	}

	b.console.Println()
	b.console.Println("Available OS Types:")
	for _, o := range catalog.OSTypes() {
		b.console.Item(o.Code, fmt.Sprintf("%-10s - %s", o.Name, o.Description))
	}

	code, err := b.prompter.Input("Select OS Type", catalog.DefaultOSType)
	if err != nil {
		return nil, err
	}
	osType, err := catalog.ResolveOSType(code)
	if err != nil {
		return nil, invalidSelection("osType", "OS type", err)
	}

	size, err := b.size(catalog.DefaultStandardSize)
	if err != nil {
		return nil, err
	}

	ip, err := b.ask("Enter IP Address (e.g., 192.168.1.100)", "", func(v string) error {
		return ValidateIPv4("ip", "IP address", v)
	})
	if err != nil {
		return nil, err
	}

	tag, err := b.ask("Enter Tag Name (e.g., WebApp-Linux)", "", func(v string) error {
		return ValidateTag("tag", "Tag name", v)
	})
	if err != nil {
		return nil, err
	}

	return &StandardDeploymentRequest{
		VMName:        name,
		OSType:        osType,
		Size:          size,
		IP:            ip,
		Tag:           tag,
		VCenterServer: server,
		Cluster:       cluster,
	}, nil
}

// Status builds the read-only inventory query.
func (b *Builder) Status(doc *config.Document) (*StatusRequest, error) {
	server, err := doc.String("vcenter", "server")
	if err != nil {
		return nil, err
	}
	return &StatusRequest{VCenterServer: server}, nil
}

func (b *Builder) ask(label, def string, validate func(string) error) (string, error) {
	answer, err := b.prompter.Input(label, def)
	if err != nil {
		return "", err
	}
	if err := validate(answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (b *Builder) size(def string) (catalog.Size, error) {
	b.console.Println()
	b.console.Println("Available Sizes:")
	for _, s := range catalog.Sizes() {
		b.console.Item(s.Code, s.String())
	}

	answer, err := b.prompter.Input("Enter Size", def)
	if err != nil {
		return catalog.Size{}, err
	}
	size, err := catalog.ResolveSize(answer)
	if err != nil {
		return catalog.Size{}, invalidSelection("size", "size", err)
	}
	return size, nil
}

// placement reads where VMs are created.
func placement(doc *config.Document) (server, cluster string, err error) {
	if server, err = doc.String("vcenter", "server"); err != nil {
		return "", "", err
	}
	if cluster, err = doc.String("cluster", "name"); err != nil {
		return "", "", err
	}
	return server, cluster, nil
}
