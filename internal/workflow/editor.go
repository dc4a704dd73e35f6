package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/confirm"
	"github.com/jbweber/ecst/internal/output"
	"github.com/jbweber/ecst/internal/request"
	"github.com/jbweber/ecst/internal/ui"
)

const (
	saveQuestion    = "Save these changes?"
	changesDropped  = "Configuration changes discarded."
	noChanges       = "No changes made."
	notSet          = "(not set)"
	hostsListPath   = "esxiHosts"
	hostnameField   = "hostname"
	mtuMin, mtuMax  = 1280, 9000
)

type fieldKind int

const (
	fieldName fieldKind = iota
	fieldIPv4
	fieldMask
	fieldBool
	fieldInt
	fieldChoice
)

// editField is one editable document field.
type editField struct {
	label    string
	path     []string
	kind     fieldKind
	choices  []string
	min, max int
}

var (
	vcenterFields = []editField{
		{label: "vCenter Server", path: []string{"vcenter", "server"}, kind: fieldName},
		{label: "VCSA Hostname", path: []string{"vcenter", "vcsa", "hostname"}, kind: fieldName},
		{label: "VCSA IP Address", path: []string{"vcenter", "vcsa", "ip"}, kind: fieldIPv4},
		{label: "VCSA Deployment Size", path: []string{"vcenter", "vcsa", "deploymentSize"}, kind: fieldChoice,
			choices: []string{"tiny", "small", "medium", "large", "xlarge"}},
	}

	placementFields = []editField{
		{label: "Datacenter Name", path: []string{"datacenter", "name"}, kind: fieldName},
		{label: "Cluster Name", path: []string{"cluster", "name"}, kind: fieldName},
		{label: "HA Enabled", path: []string{"cluster", "ha", "enabled"}, kind: fieldBool},
		{label: "DRS Enabled", path: []string{"cluster", "drs", "enabled"}, kind: fieldBool},
		{label: "DRS Automation Level", path: []string{"cluster", "drs", "automationLevel"}, kind: fieldChoice,
			choices: []string{"FullyAutomated", "PartiallyAutomated", "Manual"}},
	}

	networkFields = []editField{
		{label: "VDS Name", path: []string{"networking", "vds", "name"}, kind: fieldName},
		{label: "VDS MTU", path: []string{"networking", "vds", "mtu"}, kind: fieldInt, min: mtuMin, max: mtuMax},
		{label: "vMotion Gateway", path: []string{"networking", "vmotionTcpIpStack", "gateway"}, kind: fieldIPv4},
		{label: "vMotion Subnet Mask", path: []string{"networking", "vmotionTcpIpStack", "subnetMask"}, kind: fieldMask},
	}

	vsanFields = []editField{
		{label: "vSAN Enabled", path: []string{"storage", "vsan", "enabled"}, kind: fieldBool},
		{label: "vSAN Claim Mode", path: []string{"storage", "vsan", "claimMode"}, kind: fieldChoice,
			choices: []string{"Automatic", "Manual"}},
	}
)

func (f editField) key() string {
	return strings.Join(f.path, ".")
}

func (f editField) question() string {
	switch f.kind {
	case fieldBool:
		return f.label + " (true/false)"
	case fieldInt:
		return fmt.Sprintf("%s (%d-%d)", f.label, f.min, f.max)
	case fieldChoice:
		return fmt.Sprintf("%s (%s)", f.label, strings.Join(f.choices, "/"))
	default:
		return f.label
	}
}

// parse validates an answer and converts it to the value stored in the document.
func (f editField) parse(answer string) (any, error) {
	switch f.kind {
	case fieldName:
		if err := request.ValidateName(f.key(), f.label, answer); err != nil {
			return nil, err
		}
		return answer, nil
	case fieldIPv4:
		if err := request.ValidateIPv4(f.key(), f.label, answer); err != nil {
			return nil, err
		}
		return answer, nil
	case fieldMask:
		if err := request.ValidateSubnetMask(f.key(), f.label, answer); err != nil {
			return nil, err
		}
		return answer, nil
	case fieldBool:
		switch strings.ToLower(answer) {
		case "true", "yes", "y":
			return true, nil
		case "false", "no", "n":
			return false, nil
		}
		return nil, f.invalid(fmt.Sprintf("%s must be true or false.", f.label), request.ErrInvalidSelection)
	case fieldInt:
		if answer == "" {
			return nil, f.invalid(fmt.Sprintf("%s is required.", f.label), request.ErrRequiredField)
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < f.min || n > f.max {
			return nil, f.invalid(fmt.Sprintf("%s must be a number from %d to %d.", f.label, f.min, f.max), request.ErrUnsafeInput)
		}
		return n, nil
	case fieldChoice:
		for _, c := range f.choices {
			if strings.EqualFold(c, answer) {
				return c, nil
			}
		}
		return nil, f.invalid(fmt.Sprintf("%s must be one of: %s.", f.label, strings.Join(f.choices, ", ")), request.ErrInvalidSelection)
	default:
		return nil, fmt.Errorf("unknown field kind %d", f.kind)
	}
}

func (f editField) invalid(message string, err error) error {
	return &request.ValidationError{Field: f.key(), Message: message, Err: err}
}

// change is one pending edit to the document.
type change struct {
	label  string
	before string
	after  string
	apply  func(doc *config.Document) error
}

// changeSet is what the operator approves before a save. It is both the
// rendered summary and the subject the approval is bound to.
type changeSet struct {
	title   string
	changes []change
}

func (s *changeSet) add(c change) {
	s.changes = append(s.changes, c)
}

// Render prints every change as "before -> after".
func (s *changeSet) Render(c *ui.Console) {
	c.Println()
	c.Title("Pending changes:")
	width := 0
	for _, ch := range s.changes {
		if len(ch.label)+1 > width {
			width = len(ch.label) + 1
		}
	}
	for _, ch := range s.changes {
		c.Field(ch.label, fmt.Sprintf("%s -> %s", orNotSet(ch.before), orNotSet(ch.after)), width)
	}
	c.Println()
}

// Digest fingerprints the pending edits.
func (s *changeSet) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s;", len(s.title), s.title)
	for _, ch := range s.changes {
		for _, v := range []string{ch.label, ch.before, ch.after} {
			fmt.Fprintf(h, "%d:%s;", len(v), v)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *changeSet) apply(doc *config.Document) error {
	for _, ch := range s.changes {
		if err := ch.apply(doc); err != nil {
			return fmt.Errorf("failed to apply %s: %w", ch.label, err)
		}
	}
	return nil
}

func orNotSet(v string) string {
	if v == "" {
		return notSet
	}
	return v
}

// ViewConfig prints the current document as indented JSON.
func (r *Runner) ViewConfig() error {
	defer r.pause()
	r.console.Header("Current Configuration")

	doc, err := r.store.Load()
	if err != nil {
		r.console.Error("%s", ConfigProblem(r.store.Path(), err))
		return err
	}

	formatter, err := output.NewFormatter(output.Options{Format: output.FormatJSON})
	if err != nil {
		return err
	}
	text, err := formatter.FormatDocument(doc)
	if err != nil {
		r.console.Error("Failed to render configuration: %v", err)
		return err
	}
	r.console.Println(strings.TrimRight(text, "\n"))
	return nil
}

// Reload re-reads the document from disk and reports what it describes.
func (r *Runner) Reload() error {
	defer r.pause()
	r.console.Info("Reloading configuration...")

	doc, err := r.store.Load()
	if err != nil {
		r.console.Error("%s", ConfigProblem(r.store.Path(), err))
		return err
	}
	r.logger.Info("configuration reloaded", zap.String("path", r.store.Path()))

	r.console.Success("Configuration reloaded successfully!")
	environment, _ := doc.Text("environment", "name")
	server, _ := doc.Text("vcenter", "server")
	r.console.Println("  Environment: " + environment)
	r.console.Println("  vCenter:     " + server)

	if err := config.Validate(doc); err != nil {
		r.console.Warning("%v", err)
	}
	return nil
}

// EditVCenter edits the vCenter connection and appliance settings.
func (r *Runner) EditVCenter() error {
	return r.edit("Edit vCenter Settings", r.fields(vcenterFields))
}

// EditPlacement edits the datacenter and cluster settings.
func (r *Runner) EditPlacement() error {
	return r.edit("Edit Datacenter/Cluster Settings", r.fields(placementFields))
}

// EditNetwork edits the distributed switch and vMotion settings.
func (r *Runner) EditNetwork() error {
	return r.edit("Edit Network Settings", r.fields(networkFields))
}

// EditVSAN edits the vSAN settings.
func (r *Runner) EditVSAN() error {
	return r.edit("Edit vSAN Settings", r.fields(vsanFields))
}

// EditHosts adds or removes one ESXi host record.
func (r *Runner) EditHosts() error {
	return r.edit("Edit ESXi Hosts", r.hosts)
}

// edit runs one editor: collect changes, confirm them, then save.
func (r *Runner) edit(title string, collect func(doc *config.Document, set *changeSet) error) error {
	defer r.pause()
	r.console.Header(title)
	log := r.logger.With(zap.String("editor", title))

	doc, err := r.store.Load()
	if err != nil {
		r.console.Error("%s", ConfigProblem(r.store.Path(), err))
		return err
	}

	set := &changeSet{title: title}
	if err := collect(doc, set); err != nil {
		if isInterrupted(err) {
			r.console.Warning("%s", cancelledByOperator)
		} else {
			r.console.Error("%s", err.Error())
		}
		log.Info("edit abandoned", zap.Error(err))
		return err
	}
	if len(set.changes) == 0 {
		r.console.Info("%s", noChanges)
		return nil
	}

	approval, err := r.gate.Confirm(set, saveQuestion, set)
	if err != nil {
		r.console.Warning("%s", changesDropped)
		return err
	}
	if !approval.Covers(set) {
		return confirm.ErrDeclined
	}

	if err := set.apply(doc); err != nil {
		r.console.Error("%v", err)
		return err
	}
	if err := r.store.Save(doc); err != nil {
		r.console.Error("Failed to save configuration: %v", err)
		return err
	}

	log.Info("configuration saved", zap.String("path", r.store.Path()), zap.Int("changes", len(set.changes)))
	r.console.Success("Configuration saved to %s", r.store.Path())
	return nil
}

// fields collects edits for a fixed list of fields, offering each current
// value as the default.
func (r *Runner) fields(fields []editField) func(*config.Document, *changeSet) error {
	return func(doc *config.Document, set *changeSet) error {
		for _, f := range fields {
			before, err := doc.Text(f.path...)
			if err != nil && !errors.Is(err, config.ErrFieldMissing) {
				return fmt.Errorf("%s", ConfigProblem(r.store.Path(), err))
			}

			answer, err := r.prompter.Input(f.question(), before)
			if err != nil {
				return err
			}
			value, err := f.parse(answer)
			if err != nil {
				return err
			}

			after := fmt.Sprint(value)
			if after == before {
				continue
			}
			path := f.path
			set.add(change{
				label:  f.label,
				before: before,
				after:  after,
				apply: func(doc *config.Document) error {
					return doc.Set(value, path...)
				},
			})
		}
		return nil
	}
}

// hosts collects one host addition or removal.
func (r *Runner) hosts(doc *config.Document, set *changeSet) error {
	var records []config.Section
	if doc.Has(hostsListPath) {
		var err error
		if records, err = doc.Records(hostsListPath); err != nil {
			return fmt.Errorf("%s", ConfigProblem(r.store.Path(), err))
		}
	}

	r.console.Println("Current ESXi Hosts:")
	if len(records) == 0 {
		r.console.Bullet("(none)")
	}
	known := make(map[string]string, len(records))
	for _, rec := range records {
		name, _ := rec.Text(hostnameField)
		ip, _ := rec.Text("managementIp")
		known[strings.ToLower(name)] = name
		r.console.Bullet(fmt.Sprintf("%s (%s)", name, ip))
	}
	r.console.Println()

	action, err := r.prompter.Input("[A]dd or [R]emove a host", "")
	if err != nil {
		return err
	}

	switch strings.ToUpper(action) {
	case "":
		return nil
	case "A":
		return r.addHost(set, known)
	case "R":
		return r.removeHost(set, known)
	default:
		return &request.ValidationError{
			Field:   "action",
			Message: "Invalid option. Choose A or R.",
			Err:     request.ErrInvalidSelection,
		}
	}
}

func (r *Runner) addHost(set *changeSet, known map[string]string) error {
	hostname, err := r.prompter.Input("ESXi Hostname", "")
	if err != nil {
		return err
	}
	if err := request.ValidateName(hostnameField, "Hostname", hostname); err != nil {
		return err
	}
	if _, ok := known[strings.ToLower(hostname)]; ok {
		return &request.ValidationError{
			Field:   hostnameField,
			Message: fmt.Sprintf("Host %s is already in the configuration.", hostname),
			Err:     request.ErrInvalidSelection,
		}
	}

	record := map[string]any{hostnameField: hostname}
	for _, f := range []struct{ key, label string }{
		{"managementIp", "Management IP"},
		{"vmotionIp", "vMotion IP"},
		{"vsanIp", "vSAN IP"},
	} {
		ip, err := r.prompter.Input(f.label, "")
		if err != nil {
			return err
		}
		if err := request.ValidateIPv4(f.key, f.label, ip); err != nil {
			return err
		}
		record[f.key] = ip
	}

	set.add(change{
		label: "Add host",
		after: fmt.Sprintf("%s (%s)", hostname, record["managementIp"]),
		apply: func(doc *config.Document) error {
			if !doc.Has(hostsListPath) {
				if err := doc.Set([]any{}, hostsListPath); err != nil {
					return err
				}
			}
			return doc.AppendRecord(record, hostsListPath)
		},
	})
	return nil
}

func (r *Runner) removeHost(set *changeSet, known map[string]string) error {
	hostname, err := r.prompter.Input("ESXi Hostname to remove", "")
	if err != nil {
		return err
	}
	if err := request.ValidateName(hostnameField, "Hostname", hostname); err != nil {
		return err
	}
	stored, ok := known[strings.ToLower(hostname)]
	if !ok {
		return &request.ValidationError{
			Field:   hostnameField,
			Message: fmt.Sprintf("Host %s is not in the configuration.", hostname),
			Err:     request.ErrInvalidSelection,
		}
	}

	set.add(change{
		label:  "Remove host",
		before: stored,
		after:  "(removed)",
		apply: func(doc *config.Document) error {
			removed, err := doc.RemoveRecord(hostnameField, stored, hostsListPath)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("host %s not found", stored)
			}
			return nil
		},
	})
	return nil
}
