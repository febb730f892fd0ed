// Package options handles extended options given as key=value pairs, such
// as "rechunk.min=4". Structs receive options through fields tagged with
// `option:"name"`, an additional `help:"..."` tag documents them.
package options

import (
	"cmp"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/observoid/chunks/internal/errors"
)

// Options holds options in the form key=value.
type Options map[string]string

// Setter is implemented by field types which parse their own values, for
// example all pflag.Value implementations.
type Setter interface {
	Set(string) error
}

var registered []Help

// Register allows registering options so that they can be listed with List.
func Register(ns string, cfg interface{}) {
	registered = appendAllOptions(registered, ns, cfg)
}

// List returns a list of all registered options (using Register()).
func List() []Help {
	return slices.Clone(registered)
}

// appendAllOptions appends all options in cfg to opts, sorted by namespace
// and name.
func appendAllOptions(opts []Help, ns string, cfg interface{}) []Help {
	for _, opt := range listOptions(cfg) {
		opt.Namespace = ns
		opts = append(opts, opt)
	}

	slices.SortFunc(opts, func(a, b Help) int {
		return cmp.Or(cmp.Compare(a.Namespace, b.Namespace), cmp.Compare(a.Name, b.Name))
	})
	return opts
}

// listOptions returns the options of cfg in field order.
func listOptions(cfg interface{}) (opts []Help) {
	v := reflect.Indirect(reflect.ValueOf(cfg))

	for i := 0; i < v.NumField(); i++ {
		f := v.Type().Field(i)

		h := Help{
			Name: f.Tag.Get("option"),
			Text: f.Tag.Get("help"),
		}
		if h.Name == "" {
			continue
		}

		opts = append(opts, h)
	}

	return opts
}

// Help contains information about an option.
type Help struct {
	Namespace string
	Name      string
	Text      string
}

// Parse takes a slice of key=value pairs and returns an Options type.
// The key may include namespaces, separated by dots. Keys are converted to
// lower-case. A key without "=" gets an empty value.
func Parse(in []string) (Options, error) {
	opts := make(Options, len(in))

	for _, opt := range in {
		key, value, _ := strings.Cut(opt, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if key == "" {
			return Options{}, errors.Fatalf("empty key is not a valid option")
		}

		if v, ok := opts[key]; ok && v != value {
			return Options{}, errors.Fatalf("key %q present more than once", key)
		}

		opts[key] = value
	}

	return opts, nil
}

// Extract returns the options in namespace ns, with the namespace stripped
// from the keys.
func (o Options) Extract(ns string) Options {
	if !strings.HasSuffix(ns, ".") {
		ns += "."
	}

	opts := make(Options)
	for k, v := range o {
		if rest, ok := strings.CutPrefix(k, ns); ok {
			opts[rest] = v
		}
	}

	return opts
}

// Apply sets the options on dst via reflection, using the struct tag
// `option`. Tags are matched case-insensitively, since Parse lower-cases
// all keys. The namespace argument (ns) is only used for error messages.
func (o Options) Apply(ns string, dst interface{}) error {
	v := reflect.ValueOf(dst).Elem()

	fields := make(map[string]int)
	for i := 0; i < v.NumField(); i++ {
		tag := strings.ToLower(v.Type().Field(i).Tag.Get("option"))
		if tag == "" {
			continue
		}

		if _, ok := fields[tag]; ok {
			panic("option tag " + tag + " is not unique in " + v.Type().Name())
		}

		fields[tag] = i
	}

	for key, value := range o {
		i, ok := fields[key]
		if !ok {
			if ns != "" {
				key = ns + "." + key
			}
			return errors.Fatalf("option %v is not known", key)
		}

		if err := set(v.Field(i), value); err != nil {
			if ns != "" {
				key = ns + "." + key
			}
			return errors.Wrapf(err, "option %v", key)
		}
	}

	return nil
}

func set(field reflect.Value, value string) error {
	if s, ok := field.Addr().Interface().(Setter); ok {
		return s.Set(value)
	}

	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		vi, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return err
		}
		field.SetInt(vi)

	case reflect.Uint, reflect.Uint64:
		vi, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return err
		}
		field.SetUint(vi)

	case reflect.Bool:
		vi, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(vi)

	default:
		panic("type " + field.Type().Name() + " not handled")
	}

	return nil
}
