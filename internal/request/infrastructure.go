package request

import (
	"fmt"

	"github.com/jbweber/ecst/internal/config"
)

// Infrastructure builds an operation whose parameters come entirely from the
// document. Every field the summary shows must be present.
func (b *Builder) Infrastructure(doc *config.Document, kind Kind) (*InfrastructureRequest, error) {
	build, ok := infrastructureSummaries[kind]
	if !ok {
		return nil, fmt.Errorf("%s is not an infrastructure operation", kind)
	}

	sections, err := build(doc)
	if err != nil {
		return nil, err
	}

	summary := newSummary(kind)
	summary.Sections = sections
	return &InfrastructureRequest{kind: kind, summary: summary}, nil
}

var infrastructureSummaries = map[Kind]func(*config.Document) ([]Section, error){
	KindDeployVCSA:           vcsaSummary,
	KindDeployInfrastructure: infrastructureSummary,
	KindDeployDatacenter:     datacenterSummary,
	KindDeployCluster:        clusterSummary,
	KindConfigureVSAN:        vsanSummary,
	KindConfigureVDS:         vdsSummary,
	KindConfigureVMotion:     vmotionSummary,
	KindConfigureServices:    servicesSummary,
	KindConfigureSecurity:    securitySummary,
	KindConfigureAll:         configureAllSummary,
}

// fieldReader collects text fields from one section and keeps the first error.
type fieldReader struct {
	section config.Section
	err     error
}

func (r *fieldReader) text(label string, path ...string) Field {
	if r.err != nil {
		return Field{Label: label}
	}
	v, err := r.section.Text(path...)
	if err != nil {
		r.err = err
	}
	return Field{Label: label, Value: v}
}

func vcsaSummary(doc *config.Document) ([]Section, error) {
	vcsa, err := doc.Sub("vcenter", "vcsa")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: vcsa}
	fields := []Field{
		r.text("Target ESXi Host", "targetEsxiHost"),
		r.text("VCSA Hostname", "hostname"),
		r.text("VCSA IP", "ip"),
		r.text("Deployment Size", "deploymentSize"),
		r.text("SSO Domain", "ssoDomain"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return []Section{{Title: "VCSA Deployment Configuration:", Fields: fields}}, nil
}

func infrastructureSummary(doc *config.Document) ([]Section, error) {
	r := &fieldReader{section: doc.Section}
	dc := r.text("", "datacenter", "name")
	cluster := r.text("", "cluster", "name")
	vds := r.text("", "networking", "vds", "name")
	if r.err != nil {
		return nil, r.err
	}

	hosts, err := doc.Records("esxiHosts")
	if err != nil {
		return nil, err
	}
	vsan, err := doc.Bool("storage", "vsan", "enabled")
	if err != nil {
		return nil, err
	}

	return []Section{{
		Title: "This will deploy the following components:",
		Items: []string{
			"Datacenter: " + dc.Value,
			"Cluster:    " + cluster.Value,
			fmt.Sprintf("Hosts:      %d ESXi hosts", len(hosts)),
			"VDS:        " + vds.Value,
			"vSAN:       " + enabledText(vsan),
		},
	}}, nil
}

func datacenterSummary(doc *config.Document) ([]Section, error) {
	name, err := doc.String("datacenter", "name")
	if err != nil {
		return nil, err
	}
	return []Section{{Title: "Datacenter to create: " + name}}, nil
}

func clusterSummary(doc *config.Document) ([]Section, error) {
	cluster, err := doc.Sub("cluster")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: cluster}
	fields := []Field{
		r.text("Name", "name"),
		r.text("HA Enabled", "ha", "enabled"),
		r.text("DRS Enabled", "drs", "enabled"),
		r.text("DRS Level", "drs", "automationLevel"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return []Section{{Title: "Cluster Configuration:", Fields: fields}}, nil
}

func vsanSummary(doc *config.Document) ([]Section, error) {
	vsan, err := doc.Sub("storage", "vsan")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: vsan}
	fields := []Field{
		r.text("Enabled", "enabled"),
		r.text("Claim Mode", "claimMode"),
		r.text("Dedup", "deduplicationEnabled"),
		r.text("Compression", "compressionEnabled"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return []Section{{Title: "vSAN Configuration:", Fields: fields}}, nil
}

func vdsSummary(doc *config.Document) ([]Section, error) {
	vds, err := doc.Sub("networking", "vds")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: vds}
	fields := []Field{
		r.text("Name", "name"),
		r.text("Version", "version"),
		r.text("MTU", "mtu"),
		r.text("Uplinks", "uplinks"),
		r.text("Load Balancing", "loadBalancing"),
	}
	if r.err != nil {
		return nil, r.err
	}

	groups, err := doc.Records("networking", "portGroups")
	if err != nil {
		return nil, err
	}
	items := make([]string, 0, len(groups))
	for _, pg := range groups {
		pr := &fieldReader{section: pg}
		name := pr.text("", "name")
		vlan := pr.text("", "vlanId")
		typ := pr.text("", "type")
		if pr.err != nil {
			return nil, pr.err
		}
		items = append(items, fmt.Sprintf("%s (VLAN %s) - %s", name.Value, vlan.Value, typ.Value))
	}

	return []Section{
		{Title: "VDS Configuration:", Fields: fields},
		{Title: "Port Groups:", Items: items},
	}, nil
}

func vmotionSummary(doc *config.Document) ([]Section, error) {
	stack, err := doc.Sub("networking", "vmotionTcpIpStack")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: stack}
	fields := []Field{
		r.text("Enabled", "enabled"),
		r.text("Gateway", "gateway"),
		r.text("Subnet Mask", "subnetMask"),
	}
	if r.err != nil {
		return nil, r.err
	}

	hosts, err := doc.Records("esxiHosts")
	if err != nil {
		return nil, err
	}
	items := make([]string, 0, len(hosts))
	for _, host := range hosts {
		hr := &fieldReader{section: host}
		name := hr.text("", "hostname")
		ip := hr.text("", "vmotionIp")
		if hr.err != nil {
			return nil, hr.err
		}
		items = append(items, name.Value+": "+ip.Value)
	}

	return []Section{
		{Title: "vMotion Configuration:", Fields: fields},
		{Title: "Host vMotion IPs:", Items: items},
	}, nil
}

func servicesSummary(doc *config.Document) ([]Section, error) {
	services, err := doc.Sub("services")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: services}
	sections := []Section{
		{Title: "NTP Configuration:", Fields: []Field{
			r.text("Servers", "ntp", "servers"),
			r.text("Policy", "ntp", "policy"),
		}},
		{Title: "DNS Configuration:", Fields: []Field{
			r.text("Servers", "dns", "servers"),
			r.text("Search", "dns", "searchDomains"),
		}},
		{Title: "Syslog Configuration:", Fields: []Field{
			r.text("Server", "syslog", "server"),
			r.text("Port", "syslog", "port"),
			r.text("Protocol", "syslog", "protocol"),
		}},
	}
	if r.err != nil {
		return nil, r.err
	}
	return sections, nil
}

func securitySummary(doc *config.Document) ([]Section, error) {
	security, err := doc.Sub("security")
	if err != nil {
		return nil, err
	}
	r := &fieldReader{section: security}
	fields := []Field{
		r.text("Lockdown Mode", "lockdownMode"),
		r.text("SSH Enabled", "sshEnabled"),
		r.text("Shell Timeout", "shellTimeout"),
		r.text("Firewall Rules", "firewallRulesetsEnabled"),
	}
	if r.err != nil {
		return nil, r.err
	}
	fields[2].Value += " seconds"
	return []Section{{Title: "Security Configuration:", Fields: fields}}, nil
}

func configureAllSummary(*config.Document) ([]Section, error) {
	return []Section{{
		Title: "This will configure:",
		Items: []string{
			"vSAN Storage",
			"Distributed Switch (VDS)",
			"vMotion Networking",
			"NTP, DNS, Syslog Services",
			"Security Settings",
		},
	}}, nil
}

func enabledText(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
