// Package config loads, validates and saves the infrastructure configuration
// document that drives every console operation.
//
// The document is a hierarchical JSON (or YAML) file describing the vSphere
// environment: vCenter and VCSA settings, datacenter, cluster, ESXi hosts,
// networking, vSAN, host services and security. It is deliberately held as a
// generic tree rather than a fixed struct so that fields this program does not
// know about survive a load/save round trip.
//
// No Caching:
//
// Store.Load re-reads the file on every call. Callers load the document at the
// start of each menu render and each operation, so edits made by other
// processes take effect immediately. No cross-field consistency is enforced;
// a document may contradict itself and the console will not notice.
//
// Field Access:
//
// Reading a field that does not exist is a hard failure. The typed accessors
// (String, Bool, Int, Strings, Records) return a *FieldError wrapping
// ErrFieldMissing or ErrFieldType together with the dotted path, for example
// "cluster.drs.automationLevel". There are no silent defaults.
//
// Example usage:
//
//	store := config.NewStore("/opt/ecst/config.json", logger)
//	doc, err := store.Load()
//	if err != nil {
//	    return err
//	}
//	name, err := doc.String("cluster", "name")
package config
