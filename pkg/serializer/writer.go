// Package serializer writes fully materialized values to files or standard
// output as JSON, YAML, CSV or a flattened two-column table.
package serializer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

var supportedFormats = []Format{FormatJSON, FormatYAML, FormatTable, FormatCSV}

// SupportedFormats returns the names of all supported formats.
func SupportedFormats() []string {
	out := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		out = append(out, string(f))
	}
	return out
}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	for _, s := range supportedFormats {
		if f == s {
			return false
		}
	}
	return true
}

// FormatFromPath derives the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	case ".txt", ".table":
		return FormatTable
	default:
		return FormatJSON
	}
}

// Serializer writes a value.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that own their destination.
type Closer interface {
	Close() error
}

// Tabular is implemented by values that render themselves as CSV records.
type Tabular interface {
	Header() []string
	Records() [][]string
}

// Writer encodes values to an io.Writer in a fixed format.
type Writer struct {
	format Format
	out    io.Writer
	closer io.Closer
	once   sync.Once
}

// NewWriter returns a Writer for format. Unknown formats fall back to JSON.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter returns a Writer on standard output.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Writer on the file at path, or on standard
// output when path is empty or "-". The caller must Close file writers.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Close closes the underlying file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	var err error
	w.once.Do(func() {
		if w.closer != nil {
			err = w.closer.Close()
		}
	})
	return err
}

// Serialize encodes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return w.writeTable(v)
	case FormatCSV:
		return w.writeCSV(v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		b = append(b, '\n')
		_, err = w.out.Write(b)
		return err
	}
}

func (w *Writer) writeTable(v any) error {
	flat := make(map[string]string)
	flatten("", reflect.ValueOf(v), flat)

	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	if len(flat) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
		return tw.Flush()
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, flat[k])
	}
	return tw.Flush()
}

func flatten(prefix string, v reflect.Value, out map[string]string) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			out[prefix] = "<nil>"
			return
		}
		v = v.Elem()
	}

	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			flatten(join(t.Field(i).Name), v.Field(i), out)
		}
	case reflect.Map:
		for _, k := range v.MapKeys() {
			flatten(join(fmt.Sprint(k.Interface())), v.MapIndex(k), out)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), out)
		}
	case reflect.Invalid:
		if prefix != "" {
			out[prefix] = "<nil>"
		}
	default:
		out[prefix] = fmt.Sprint(v.Interface())
	}
}

// writeCSV writes a Tabular value, or a slice of structs with one column per
// exported field. The `csv` struct tag renames a column; "-" skips it.
func (w *Writer) writeCSV(v any) error {
	cw := csv.NewWriter(w.out)

	var header []string
	var records [][]string
	if t, ok := v.(Tabular); ok {
		header, records = t.Header(), t.Records()
	} else {
		var err error
		header, records, err = structRecords(v)
		if err != nil {
			return err
		}
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv records: %w", err)
	}
	return nil
}

func structRecords(v any) ([]string, [][]string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, nil, fmt.Errorf("csv output requires a slice of structs, got %T", v)
	}

	et := rv.Type().Elem()
	if et.Kind() == reflect.Pointer {
		et = et.Elem()
	}
	if et.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("csv output requires a slice of structs, got %T", v)
	}

	var header []string
	var fields []int
	for i := 0; i < et.NumField(); i++ {
		f := et.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("csv"); tag != "" {
			if tag == "-" {
				continue
			}
			name = strings.Split(tag, ",")[0]
		}
		header = append(header, name)
		fields = append(fields, i)
	}

	records := make([][]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev := rv.Index(i)
		if ev.Kind() == reflect.Pointer {
			if ev.IsNil() {
				continue
			}
			ev = ev.Elem()
		}
		rec := make([]string, len(fields))
		for j, fi := range fields {
			rec[j] = fmt.Sprint(ev.Field(fi).Interface())
		}
		records = append(records, rec)
	}
	return header, records, nil
}
