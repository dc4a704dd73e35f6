package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Document {
	t.Helper()
	doc, err := NewStore(copyFixture(t, "config.json"), nil).Load()
	require.NoError(t, err)
	return doc
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"config.json", FormatJSON},
		{"/etc/ecst/config.JSON", FormatJSON},
		{"config.yaml", FormatYAML},
		{"config.YML", FormatYAML},
		{"config", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForPath(tt.path))
		})
	}
}

func TestDocument_TypedAccessors(t *testing.T) {
	doc := loadFixture(t)

	server, err := doc.String("vcenter", "server")
	require.NoError(t, err)
	assert.Equal(t, "vcsa01.lab.local", server)

	ha, err := doc.Bool("cluster", "ha", "enabled")
	require.NoError(t, err)
	assert.True(t, ha)

	mtu, err := doc.Int("networking", "vds", "mtu")
	require.NoError(t, err)
	assert.Equal(t, 9000, mtu)

	ntp, err := doc.Strings("services", "ntp", "servers")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.pool.ntp.org", "1.pool.ntp.org"}, ntp)

	hosts, err := doc.Records("esxiHosts")
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	vmotion, err := hosts[1].String("vmotionIp")
	require.NoError(t, err)
	assert.Equal(t, "192.168.20.12", vmotion)
	assert.Equal(t, "esxiHosts.[1]", hosts[1].Path())

	text, err := doc.Text("security", "firewallRulesetsEnabled")
	require.NoError(t, err)
	assert.Equal(t, "sshServer, ntpClient", text)

	text, err = doc.Text("services", "syslog", "port")
	require.NoError(t, err)
	assert.Equal(t, "514", text)
}

func TestDocument_MissingFieldIsHardFailure(t *testing.T) {
	doc := loadFixture(t)

	tests := []struct {
		name     string
		access   func() error
		wantPath string
	}{
		{
			name: "missing leaf",
			access: func() error {
				_, err := doc.String("cluster", "drs", "threshold")
				return err
			},
			wantPath: "cluster.drs.threshold",
		},
		{
			name: "missing section",
			access: func() error {
				_, err := doc.Bool("backup", "enabled")
				return err
			},
			wantPath: "backup",
		},
		{
			name: "missing field in record",
			access: func() error {
				hosts, err := doc.Records("esxiHosts")
				if err != nil {
					return err
				}
				_, err = hosts[0].String("iloIp")
				return err
			},
			wantPath: "esxiHosts.[0].iloIp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.access()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFieldMissing)

			var ferr *FieldError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.wantPath, ferr.Path)
		})
	}
}

func TestDocument_WrongType(t *testing.T) {
	doc := loadFixture(t)

	_, err := doc.Bool("cluster", "name")
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = doc.Int("vcenter", "server")
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = doc.String("cluster", "name", "deeper")
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = doc.Records("networking", "vds")
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = doc.Text("cluster", "ha")
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestDocument_Set(t *testing.T) {
	doc := loadFixture(t)

	require.NoError(t, doc.Set("DC-Prod", "datacenter", "name"))
	name, err := doc.String("datacenter", "name")
	require.NoError(t, err)
	assert.Equal(t, "DC-Prod", name)

	// Integers are normalized so they read back through Int
	require.NoError(t, doc.Set(1500, "networking", "vds", "mtu"))
	mtu, err := doc.Int("networking", "vds", "mtu")
	require.NoError(t, err)
	assert.Equal(t, 1500, mtu)

	// Parents must exist
	err = doc.Set("x", "nosuch", "field")
	assert.ErrorIs(t, err, ErrFieldMissing)
}

func TestDocument_Records_AppendRemove(t *testing.T) {
	doc := loadFixture(t)

	require.NoError(t, doc.AppendRecord(map[string]any{
		"hostname":     "esx03.lab.local",
		"managementIp": "192.168.10.13",
		"vmotionIp":    "192.168.20.13",
		"vsanIp":       "192.168.30.13",
	}, "esxiHosts"))

	hosts, err := doc.Records("esxiHosts")
	require.NoError(t, err)
	require.Len(t, hosts, 3)

	removed, err := doc.RemoveRecord("hostname", "esx01.lab.local", "esxiHosts")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = doc.RemoveRecord("hostname", "esx99.lab.local", "esxiHosts")
	require.NoError(t, err)
	assert.False(t, removed)

	hosts, err = doc.Records("esxiHosts")
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	first, err := hosts[0].String("hostname")
	require.NoError(t, err)
	assert.Equal(t, "esx02.lab.local", first)
}

func TestParse_NormalizesNumbers(t *testing.T) {
	jsonDoc, err := Parse(FormatJSON, []byte(`{"a": {"n": 8, "f": 1.5}}`))
	require.NoError(t, err)
	yamlDoc, err := Parse(FormatYAML, []byte("a:\n  n: 8\n  f: 1.5\n"))
	require.NoError(t, err)

	assert.Equal(t, jsonDoc.Data(), yamlDoc.Data())

	n, err := yamlDoc.Int("a", "n")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	_, err = jsonDoc.Int("a", "f")
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestParse_TopLevel(t *testing.T) {
	_, err := Parse(FormatJSON, []byte(`[1, 2]`))
	assert.ErrorContains(t, err, "top-level value must be an object, got list")

	_, err = Parse(FormatYAML, []byte(""))
	assert.ErrorContains(t, err, "got null")

	doc, err := Parse(FormatYAML, []byte("1: esx01\n"))
	require.NoError(t, err)
	name, err := doc.String("1")
	require.NoError(t, err)
	assert.Equal(t, "esx01", name)
	assert.Equal(t, FormatYAML, doc.Format())
}
