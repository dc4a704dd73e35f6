package backend

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jbweber/ecst/internal/request"
)

const (
	// ModulesDir holds the PowerShell modules dot-sourced by inline bodies.
	ModulesDir = "modules"

	vcsaScript           = "Deploy-VCSA.ps1"
	infrastructureScript = "Deploy-Infrastructure.ps1"

	connectModule       = "01-Connect.ps1"
	datacenterModule    = "02-Datacenter.ps1"
	networkingModule    = "04-Networking.ps1"
	storageModule       = "05-Storage.ps1"
	configurationModule = "06-Configuration.ps1"

	credentialMessage = "Enter vCenter Administrator Credentials"

	// VMPortGroup is the port group new VMs are attached to when it exists.
	VMPortGroup = "PG-VMTraffic"
)

// Environment variable names, without EnvPrefix.
const (
	EnvVMName        = "VM_NAME"
	EnvTemplate      = "TEMPLATE"
	EnvCPU           = "CPU"
	EnvMemoryGB      = "MEMORY_GB"
	EnvDiskGB        = "DISK_GB"
	EnvGuestID       = "GUEST_ID"
	EnvIPAddress     = "IP_ADDRESS"
	EnvSubnetMask    = "SUBNET_MASK"
	EnvGateway       = "GATEWAY"
	EnvTag           = "TAG"
	EnvVCenterServer = "VCENTER_SERVER"
	EnvCluster       = "CLUSTER"
)

// Layout locates the files the backend needs.
type Layout struct {
	// BaseDir holds the deployment scripts and the modules directory.
	BaseDir string
	// ConfigPath is the configuration document handed to the scripts.
	ConfigPath string
}

// Script returns the path of a script in the base directory.
func (l Layout) Script(name string) string {
	return filepath.Join(l.BaseDir, name)
}

// Module returns the path of a module.
func (l Layout) Module(name string) string {
	return filepath.Join(l.BaseDir, ModulesDir, name)
}

// Renderer turns requests into invocation specs.
type Renderer struct {
	layout Layout
	newID  func() uuid.UUID
}

// NewRenderer creates a renderer for layout.
func NewRenderer(layout Layout) *Renderer {
	return &Renderer{layout: layout, newID: uuid.New}
}

// Render builds the invocation for req.
func (r *Renderer) Render(req request.Request) (*InvocationSpec, error) {
	var spec *InvocationSpec
	switch req := req.(type) {
	case *request.TemplateDeploymentRequest:
		spec = r.templateVM(req)
	case *request.StandardDeploymentRequest:
		spec = r.standardVM(req)
	case *request.StatusRequest:
		spec = r.status()
	case *request.InfrastructureRequest:
		var err error
		spec, err = r.infrastructure(req.Kind())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no backend rendering for %T", req)
	}

	spec.ID = r.newID()
	spec.Operation = string(req.Kind())
	spec.Mutating = req.Kind().Mutating()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", req.Kind(), err)
	}
	return spec, nil
}

func (r *Renderer) infrastructure(kind request.Kind) (*InvocationSpec, error) {
	configParam := Param{Name: "ConfigPath", Value: r.layout.ConfigPath}

	switch kind {
	case request.KindDeployVCSA:
		return r.script(vcsaScript, configParam), nil
	case request.KindDeployInfrastructure:
		return r.script(infrastructureScript, configParam), nil
	case request.KindConfigureAll:
		return r.script(infrastructureScript, configParam, Param{Name: "SkipVCSA", Value: "$true"}), nil
	}

	var module string
	var commands []string
	switch kind {
	case request.KindDeployDatacenter:
		module, commands = datacenterModule, []string{"New-VsphereDatacenter -Config $config"}
	case request.KindDeployCluster:
		module, commands = datacenterModule, []string{"New-VsphereCluster -Config $config"}
	case request.KindConfigureVSAN:
		module, commands = storageModule, []string{
			"Enable-VsanCluster -Config $config",
			"Configure-VsanDiskGroups -Config $config -AutoClaim",
		}
	case request.KindConfigureVDS:
		module, commands = networkingModule, []string{
			"New-VsphereVDS -Config $config",
			"New-VspherePortGroups -Config $config",
			"Add-HostsToVDS -Config $config",
		}
	case request.KindConfigureVMotion:
		module, commands = networkingModule, []string{"Configure-VMotionStack -Config $config"}
	case request.KindConfigureServices:
		module, commands = configurationModule, []string{
			"Set-HostNtpConfiguration -Config $config",
			"Set-HostDnsConfiguration -Config $config",
			"Set-HostSyslogConfiguration -Config $config",
		}
	case request.KindConfigureSecurity:
		module, commands = configurationModule, []string{"Set-HostSecurityConfiguration -Config $config"}
	default:
		return nil, fmt.Errorf("no backend rendering for %s", kind)
	}

	b := newBody()
	b.line(". " + Quote(r.layout.Module(connectModule)))
	b.line(". " + Quote(r.layout.Module(module)))
	b.blank()
	b.loadConfig(r.layout.ConfigPath)
	b.credential()
	b.blank()
	b.line("Connect-VCenterServer -Server $config.vcenter.server -Credential $cred")
	for _, c := range commands {
		b.line(c)
	}
	b.blank()
	b.disconnect()
	return &InvocationSpec{Mode: ModeInline, Body: b.String()}, nil
}

func (r *Renderer) script(name string, params ...Param) *InvocationSpec {
	return &InvocationSpec{
		Mode:   ModeScript,
		Script: r.layout.Script(name),
		Params: params,
	}
}

func (r *Renderer) templateVM(req *request.TemplateDeploymentRequest) *InvocationSpec {
	env := []Param{
		{EnvVCenterServer, req.VCenterServer},
		{EnvCluster, req.Cluster},
		{EnvVMName, req.VMName},
		{EnvTemplate, req.Template.Template},
		{EnvCPU, strconv.Itoa(req.Size.CPU)},
		{EnvMemoryGB, strconv.Itoa(req.Size.MemoryGB)},
		{EnvIPAddress, req.Network.IP},
		{EnvSubnetMask, req.Network.SubnetMask},
		{EnvGateway, req.Network.Gateway},
		{EnvTag, req.Tag},
	}

	b := newBody()
	b.credential()
	b.blank()
	b.line("Connect-VIServer -Server " + Env(EnvVCenterServer) + " -Credential $cred")
	b.blank()
	b.line("$template = Get-Template -Name " + Env(EnvTemplate) + " -ErrorAction Stop")
	b.line("$cluster = Get-Cluster -Name " + Env(EnvCluster) + " -ErrorAction Stop")
	b.blank()
	b.line("$datastore = Get-Datastore -Location $cluster | Where-Object { $_.Type -eq 'vsan' } | Select-Object -First 1")
	b.line("if (-not $datastore) {")
	b.line("    $datastore = Get-Datastore -Location $cluster | Select-Object -First 1")
	b.line("}")
	b.blank()
	b.portGroup("Get-VirtualPortGroup | Select-Object -First 1")
	b.blank()
	b.line(`Write-Host "Creating VM from template..."`)
	b.line("$vm = New-VM -Name " + Env(EnvVMName) + " `")
	b.line("    -Template $template `")
	b.line("    -ResourcePool $cluster `")
	b.line("    -Datastore $datastore `")
	b.line("    -ErrorAction Stop")
	b.blank()
	b.line(`Write-Host "Configuring VM resources..."`)
	b.line("Set-VM -VM $vm `")
	b.line("    -NumCpu ([int]" + Env(EnvCPU) + ") `")
	b.line("    -MemoryGB ([int]" + Env(EnvMemoryGB) + ") `")
	b.line("    -Confirm:$false")
	b.blank()
	b.line("$adapter = Get-NetworkAdapter -VM $vm")
	b.line("Set-NetworkAdapter -NetworkAdapter $adapter -Portgroup $portGroup -Confirm:$false")
	b.line(`Write-Host "Network: $(` + Env(EnvIPAddress) + `) / $(` + Env(EnvSubnetMask) + `) via $(` + Env(EnvGateway) + `)"`)
	b.blank()
	b.tag()
	b.blank()
	b.line(`Write-Host "VM '$(` + Env(EnvVMName) + `)' created successfully!" -ForegroundColor Green`)
	b.blank()
	b.powerOn()
	b.blank()
	b.disconnect()

	return &InvocationSpec{Mode: ModeInline, Body: b.String(), Env: env}
}

func (r *Renderer) standardVM(req *request.StandardDeploymentRequest) *InvocationSpec {
	env := []Param{
		{EnvVCenterServer, req.VCenterServer},
		{EnvCluster, req.Cluster},
		{EnvVMName, req.VMName},
		{EnvGuestID, req.OSType.GuestID},
		{EnvCPU, strconv.Itoa(req.Size.CPU)},
		{EnvMemoryGB, strconv.Itoa(req.Size.MemoryGB)},
		{EnvDiskGB, strconv.Itoa(req.Size.DiskGB)},
		{EnvIPAddress, req.IP},
		{EnvTag, req.Tag},
	}

	b := newBody()
	b.credential()
	b.blank()
	b.line("Connect-VIServer -Server " + Env(EnvVCenterServer) + " -Credential $cred")
	b.blank()
	b.line("$cluster = Get-Cluster -Name " + Env(EnvCluster) + " -ErrorAction Stop")
	b.blank()
	b.line("$datastore = Get-Datastore -Location $cluster | Where-Object { $_.Type -eq 'vsan' } | Select-Object -First 1")
	b.line("if (-not $datastore) {")
	b.line("    $datastore = Get-Datastore -Location $cluster | Sort-Object FreeSpaceGB -Descending | Select-Object -First 1")
	b.line("}")
	b.blank()
	b.portGroup("Get-VirtualPortGroup | Where-Object { $_.Name -like '*VM*' } | Select-Object -First 1")
	b.blank()
	b.line(`Write-Host "Creating VM '$(` + Env(EnvVMName) + `)'..."`)
	b.line("$vm = New-VM -Name " + Env(EnvVMName) + " `")
	b.line("    -ResourcePool $cluster `")
	b.line("    -Datastore $datastore `")
	b.line("    -NumCpu ([int]" + Env(EnvCPU) + ") `")
	b.line("    -MemoryGB ([int]" + Env(EnvMemoryGB) + ") `")
	b.line("    -DiskGB ([int]" + Env(EnvDiskGB) + ") `")
	b.line("    -DiskStorageFormat Thin `")
	b.line("    -GuestId " + Env(EnvGuestID) + " `")
	b.line("    -NetworkName $portGroup.Name `")
	b.line("    -ErrorAction Stop")
	b.blank()
	b.line(`Write-Host "VM created successfully!" -ForegroundColor Green`)
	b.line(`Write-Host "IP Address: $(` + Env(EnvIPAddress) + `)"`)
	b.blank()
	b.tag()
	b.blank()
	b.line(`Write-Host ""`)
	b.line(`Write-Host "VM Summary:" -ForegroundColor Cyan`)
	b.line("$vm | Select-Object Name, NumCpu, MemoryGB, @{N='DiskGB';E={($_ | Get-HardDisk | Measure-Object -Property CapacityGB -Sum).Sum}}, PowerState | Format-Table")
	b.blank()
	b.powerOn()
	b.blank()
	b.disconnect()

	return &InvocationSpec{Mode: ModeInline, Body: b.String(), Env: env}
}

func (r *Renderer) status() *InvocationSpec {
	b := newBody()
	b.loadConfig(r.layout.ConfigPath)
	b.credential()
	b.blank()
	b.line("try {")
	b.line("    Connect-VIServer -Server $config.vcenter.server -Credential $cred -ErrorAction Stop")
	b.blank()
	b.line(`    Write-Host ""`)
	b.line(`    Write-Host "=== vCenter Connection ===" -ForegroundColor Cyan`)
	b.line(`    Write-Host "Server:  $($global:DefaultVIServer.Name)"`)
	b.line(`    Write-Host "Version: $($global:DefaultVIServer.Version)"`)
	b.blank()
	b.line(`    Write-Host ""`)
	b.line(`    Write-Host "=== Datacenter ===" -ForegroundColor Cyan`)
	b.line("    Get-Datacenter | Format-Table Name, @{N='Clusters';E={($_ | Get-Cluster).Count}}, @{N='Hosts';E={($_ | Get-VMHost).Count}}, @{N='VMs';E={($_ | Get-VM).Count}}")
	b.blank()
	b.line(`    Write-Host "=== Clusters ===" -ForegroundColor Cyan`)
	b.line("    Get-Cluster | Format-Table Name, HAEnabled, DrsEnabled, @{N='Hosts';E={($_ | Get-VMHost).Count}}, @{N='VMs';E={($_ | Get-VM).Count}}")
	b.blank()
	b.line(`    Write-Host "=== ESXi Hosts ===" -ForegroundColor Cyan`)
	b.line("    Get-VMHost | Format-Table Name, ConnectionState, PowerState, Version, @{N='CPU(GHz)';E={[math]::Round($_.CpuTotalMhz/1000,1)}}, @{N='Mem(GB)';E={[math]::Round($_.MemoryTotalGB,0)}}")
	b.blank()
	b.line(`    Write-Host "=== Datastores ===" -ForegroundColor Cyan`)
	b.line("    Get-Datastore | Format-Table Name, Type, @{N='Capacity(GB)';E={[math]::Round($_.CapacityGB,0)}}, @{N='Free(GB)';E={[math]::Round($_.FreeSpaceGB,0)}}, @{N='Used%';E={[math]::Round((1-($_.FreeSpaceGB/$_.CapacityGB))*100,0)}}")
	b.blank()
	b.line(`    Write-Host "=== VDS ===" -ForegroundColor Cyan`)
	b.line("    Get-VDSwitch | Format-Table Name, Version, Mtu, @{N='Hosts';E={($_ | Get-VMHost).Count}}, @{N='PortGroups';E={($_ | Get-VDPortgroup).Count}}")
	b.blank()
	b.line("    Disconnect-VIServer -Server * -Force -Confirm:$false")
	b.line("}")
	b.line("catch {")
	b.line(`    Write-Host "Error: $($_.Exception.Message)" -ForegroundColor Red`)
	b.line("}")
	return &InvocationSpec{Mode: ModeInline, Body: b.String()}
}

// Quote renders s as a PowerShell single-quoted string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Env returns the expression reading environment variable name.
func Env(name string) string {
	return "$env:" + EnvPrefix + name
}

type body struct {
	strings.Builder
}

func newBody() *body {
	return &body{}
}

func (b *body) line(s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func (b *body) blank() {
	b.WriteByte('\n')
}

func (b *body) loadConfig(path string) {
	b.line("$config = Get-Content " + Quote(path) + " -Raw | ConvertFrom-Json")
}

func (b *body) credential() {
	b.line(`$cred = Get-Credential -Message "` + credentialMessage + `"`)
}

func (b *body) portGroup(fallback string) {
	b.line("$portGroup = Get-VDPortgroup -Name " + Quote(VMPortGroup) + " -ErrorAction SilentlyContinue")
	b.line("if (-not $portGroup) {")
	b.line("    $portGroup = " + fallback)
	b.line("}")
}

func (b *body) tag() {
	b.line("$tag = Get-Tag -Name " + Env(EnvTag) + " -ErrorAction SilentlyContinue")
	b.line("if ($tag) {")
	b.line("    New-TagAssignment -Tag $tag -Entity $vm")
	b.line(`    Write-Host "Tag assigned: $(` + Env(EnvTag) + `)" -ForegroundColor Green`)
	b.line("} else {")
	b.line(`    Write-Host "Note: Tag '$(` + Env(EnvTag) + `)' not found, skipping tag assignment" -ForegroundColor Yellow`)
	b.line("}")
}

func (b *body) powerOn() {
	b.line(`$powerOn = Read-Host "Power on the VM? (y/n)"`)
	b.line("if ($powerOn -eq 'y') {")
	b.line("    Start-VM -VM $vm -Confirm:$false")
	b.line(`    Write-Host "VM powered on." -ForegroundColor Green`)
	b.line("}")
}

func (b *body) disconnect() {
	b.line("Disconnect-VIServer -Server * -Force -Confirm:$false")
}
