package request

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/ui"
)

func renderSummary(t *testing.T, kind Kind, doc *config.Document) string {
	t.Helper()
	b, p, _ := newTestBuilder()

	req, err := b.Infrastructure(doc, kind)
	require.NoError(t, err)
	assert.Equal(t, kind, req.Kind())
	assert.Empty(t, p.labels, "infrastructure operations ask no questions")

	var out bytes.Buffer
	req.Summary().Render(ui.NewConsole(&out, false))
	return out.String()
}

func TestInfrastructure_Summaries(t *testing.T) {
	tests := []struct {
		kind Kind
		want []string
	}{
		{KindDeployVCSA, []string{
			"VCSA Deployment Configuration:",
			"Target ESXi Host: esx01.lab.local",
			"SSO Domain:       vsphere.local",
		}},
		{KindDeployInfrastructure, []string{
			"• Datacenter: DC-Lab",
			"• Hosts:      2 ESXi hosts",
			"• vSAN:       Enabled",
		}},
		{KindDeployDatacenter, []string{"Datacenter to create: DC-Lab"}},
		{KindDeployCluster, []string{
			"Name:        CL-Compute",
			"DRS Level:   FullyAutomated",
		}},
		{KindConfigureVSAN, []string{
			"Claim Mode:  Automatic",
			"Dedup:       false",
			"Compression: true",
		}},
		{KindConfigureVDS, []string{
			"MTU:            9000",
			"Port Groups:",
			"• PG-Management (VLAN 10) - management",
			"• PG-VMTraffic (VLAN 40) - vm",
		}},
		{KindConfigureVMotion, []string{
			"Gateway:     192.168.20.1",
			"• esx02.lab.local: 192.168.20.12",
		}},
		{KindConfigureServices, []string{
			"Servers: 0.pool.ntp.org, 1.pool.ntp.org",
			"Search:  lab.local",
			"Port:     514",
		}},
		{KindConfigureSecurity, []string{
			"Shell Timeout:  900 seconds",
			"Firewall Rules: sshServer, ntpClient",
		}},
		{KindConfigureAll, []string{
			"This will configure:",
			"• NTP, DNS, Syslog Services",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			text := renderSummary(t, tt.kind, fixtureDocument(t))
			for _, want := range tt.want {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestInfrastructure_MissingFieldIsHardFailure(t *testing.T) {
	tests := []struct {
		kind     Kind
		drop     func(doc *config.Document)
		wantPath string
	}{
		{
			kind: KindDeployCluster,
			drop: func(doc *config.Document) {
				drs, _ := doc.Sub("cluster", "drs")
				delete(drs.Data(), "automationLevel")
			},
			wantPath: "cluster.drs.automationLevel",
		},
		{
			kind: KindConfigureVDS,
			drop: func(doc *config.Document) {
				groups, _ := doc.Records("networking", "portGroups")
				delete(groups[1].Data(), "vlanId")
			},
			wantPath: "networking.portGroups.[1].vlanId",
		},
		{
			kind: KindConfigureSecurity,
			drop: func(doc *config.Document) {
				delete(doc.Data(), "security")
			},
			wantPath: "security",
		},
		{
			kind: KindDeployInfrastructure,
			drop: func(doc *config.Document) {
				vsan, _ := doc.Sub("storage", "vsan")
				delete(vsan.Data(), "enabled")
			},
			wantPath: "storage.vsan.enabled",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			doc := fixtureDocument(t)
			tt.drop(doc)

			b, _, _ := newTestBuilder()
			req, err := b.Infrastructure(doc, tt.kind)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.ErrorIs(t, err, config.ErrFieldMissing)

			var ferr *config.FieldError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.wantPath, ferr.Path)
		})
	}
}

func TestInfrastructure_NoConsistencyChecks(t *testing.T) {
	doc := fixtureDocument(t)
	require.NoError(t, doc.Set(false, "networking", "vmotionTcpIpStack", "enabled"))

	text := renderSummary(t, KindConfigureVMotion, doc)
	assert.Contains(t, text, "Enabled:     false")
	assert.Contains(t, text, "esx01.lab.local: 192.168.20.11")
}

func TestInfrastructure_RejectsOtherKinds(t *testing.T) {
	b, _, _ := newTestBuilder()
	_, err := b.Infrastructure(fixtureDocument(t), KindDeployTemplateVM)
	assert.Error(t, err)
}
