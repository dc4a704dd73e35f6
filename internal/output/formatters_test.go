package output

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/ecst/internal/config"
)

// createTestDocument creates a small configuration document for testing.
func createTestDocument() *config.Document {
	return config.NewDocument(config.FormatJSON, map[string]any{
		"environment": "lab",
		"vcenter":     map[string]any{"server": "vcsa01.lab.local"},
		"esxiHosts": []any{
			map[string]any{"hostname": "esx01.lab.local", "managementIp": "192.168.10.11"},
			map[string]any{"hostname": "esx02.lab.local", "managementIp": "192.168.10.12"},
		},
		"services": map[string]any{
			"ntp": map[string]any{"servers": []any{"0.pool.ntp.org", "1.pool.ntp.org"}},
		},
		"cluster": map[string]any{"ha": map[string]any{"enabled": true}},
	})
}

func TestTableFormatter_FormatDocument(t *testing.T) {
	formatter := &TableFormatter{}
	output, err := formatter.FormatDocument(createTestDocument())
	if err != nil {
		t.Fatalf("FormatDocument() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if !strings.HasPrefix(lines[0], "KEY") || !strings.Contains(lines[0], "VALUE") {
		t.Errorf("expected header row, got %q", lines[0])
	}

	for _, want := range []string{
		"cluster.ha.enabled",
		"esxiHosts[0].hostname",
		"esxiHosts[1].managementIp",
		"192.168.10.12",
		"0.pool.ntp.org, 1.pool.ntp.org",
		"vcenter.server",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	// Rows are sorted by key
	if strings.Index(output, "cluster.ha.enabled") > strings.Index(output, "environment") {
		t.Error("expected rows in key order")
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	formatter := &TableFormatter{NoHeaders: true}
	output, err := formatter.FormatDocument(createTestDocument())
	if err != nil {
		t.Fatalf("FormatDocument() error = %v", err)
	}
	if strings.HasPrefix(output, "KEY") {
		t.Errorf("expected no header row, got:\n%s", output)
	}
}

func TestTableFormatter_EmptyDocument(t *testing.T) {
	formatter := &TableFormatter{}
	output, err := formatter.FormatDocument(config.NewDocument(config.FormatJSON, nil))
	if err != nil {
		t.Fatalf("FormatDocument() error = %v", err)
	}
	if !strings.Contains(output, "Configuration is empty") {
		t.Errorf("expected empty message, got: %s", output)
	}
}

func TestTableFormatter_FormatCatalog(t *testing.T) {
	formatter := &TableFormatter{}
	output, err := formatter.FormatCatalog(CurrentCatalog())
	if err != nil {
		t.Fatalf("FormatCatalog() error = %v", err)
	}

	for _, want := range []string{
		"TEMPLATES", "SIZES", "OS TYPES",
		"template-splunk-enterprise",
		"XLarge", "32 GB", "500 GB",
		"windows2019srv_64Guest",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestJSONFormatter_FormatDocument(t *testing.T) {
	formatter := &JSONFormatter{}
	output, err := formatter.FormatDocument(createTestDocument())
	if err != nil {
		t.Fatalf("FormatDocument() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["environment"] != "lab" {
		t.Errorf("expected environment lab, got %v", decoded["environment"])
	}
	if !strings.Contains(output, "\n  \"cluster\": {") {
		t.Errorf("expected two-space indentation:\n%s", output)
	}
}

func TestJSONFormatter_FormatCatalog(t *testing.T) {
	formatter := &JSONFormatter{}
	output, err := formatter.FormatCatalog(CurrentCatalog())
	if err != nil {
		t.Fatalf("FormatCatalog() error = %v", err)
	}

	var decoded Catalog
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Templates) != 6 || len(decoded.Sizes) != 4 || len(decoded.OSTypes) != 5 {
		t.Errorf("unexpected catalog sizes: %d templates, %d sizes, %d OS types",
			len(decoded.Templates), len(decoded.Sizes), len(decoded.OSTypes))
	}
	if !strings.Contains(output, `"guestId": "rhel9_64Guest"`) {
		t.Errorf("expected camelCase keys:\n%s", output)
	}
}

func TestYAMLFormatter(t *testing.T) {
	formatter := &YAMLFormatter{}

	output, err := formatter.FormatDocument(createTestDocument())
	if err != nil {
		t.Fatalf("FormatDocument() error = %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["environment"] != "lab" {
		t.Errorf("expected environment lab, got %v", decoded["environment"])
	}

	output, err = formatter.FormatCatalog(CurrentCatalog())
	if err != nil {
		t.Fatalf("FormatCatalog() error = %v", err)
	}
	if !strings.Contains(output, "template: template-cribl-stream") {
		t.Errorf("expected template entries:\n%s", output)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  Format
		wantErr bool
	}{
		{FormatTable, false},
		{FormatYAML, false},
		{FormatJSON, false},
		{Format("xml"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(Options{Format: tt.format})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && f == nil {
				t.Error("expected formatter")
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, valid := range []string{"table", "yaml", "json"} {
		if err := ValidateFormat(valid); err != nil {
			t.Errorf("ValidateFormat(%q) unexpected error: %v", valid, err)
		}
	}
	if err := ValidateFormat("csv"); err == nil {
		t.Error("ValidateFormat(\"csv\") expected error")
	}
}
