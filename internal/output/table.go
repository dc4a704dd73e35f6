package output

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jbweber/ecst/internal/config"
)

// TableFormatter formats data as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatDocument flattens the document into one row per leaf value.
// Lists of scalars are joined on one row; lists of records are indexed.
func (f *TableFormatter) FormatDocument(doc *config.Document) (string, error) {
	var rows [][2]string
	flatten("", doc.Data(), &rows)
	if len(rows) == 0 {
		return "Configuration is empty\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "KEY\tVALUE")
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}

	_ = w.Flush()
	return buf.String(), nil
}

// FormatCatalog formats templates, sizes and OS types as three tables.
func (f *TableFormatter) FormatCatalog(c Catalog) (string, error) {
	var buf bytes.Buffer

	f.section(&buf, "TEMPLATES", "CODE\tNAME\tTEMPLATE\tDESCRIPTION", func(w io.Writer) {
		for _, t := range c.Templates {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Code, t.Name, t.Template, t.Description)
		}
	})
	buf.WriteString("\n")
	f.section(&buf, "SIZES", "CODE\tNAME\tVCPUS\tMEMORY\tDISK", func(w io.Writer) {
		for _, s := range c.Sizes {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d GB\t%d GB\n", s.Code, s.Name, s.CPU, s.MemoryGB, s.DiskGB)
		}
	})
	buf.WriteString("\n")
	f.section(&buf, "OS TYPES", "CODE\tNAME\tGUEST ID\tDESCRIPTION", func(w io.Writer) {
		for _, o := range c.OSTypes {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Code, o.Name, o.GuestID, o.Description)
		}
	})

	return buf.String(), nil
}

func (f *TableFormatter) section(buf *bytes.Buffer, title, header string, rows func(w io.Writer)) {
	buf.WriteString(title + "\n")
	w := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, header)
	}
	rows(w)
	_ = w.Flush()
}

func flatten(prefix string, v any, rows *[][2]string) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(join(prefix, k), val[k], rows)
		}
	case []any:
		if scalars(val) {
			items := make([]string, 0, len(val))
			for _, item := range val {
				items = append(items, fmt.Sprint(item))
			}
			*rows = append(*rows, [2]string{prefix, strings.Join(items, ", ")})
			return
		}
		for i, item := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, rows)
		}
	case nil:
		*rows = append(*rows, [2]string{prefix, "-"})
	default:
		*rows = append(*rows, [2]string{prefix, fmt.Sprint(val)})
	}
}

func scalars(list []any) bool {
	for _, item := range list {
		switch item.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
