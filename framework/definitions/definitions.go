// Package definitions loads container parameters and services from YAML.
//
//	parameters:
//	  database.host: my.server.tld
//	  database.port: 5432
//
//	services:
//	  db.connection:
//	    class: app.Connection
//	    arguments: ["%database.host%", "%database.port%"]
//	  app.repository:
//	    class: app.Repository
//	    arguments: ["@db.connection"]
//
// Strings starting with @ must be quoted: @ is reserved in YAML.
package definitions

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-injector/framework/container"
)

// File is the document layout.
type File struct {
	Parameters map[string]any     `yaml:"parameters,omitempty"`
	Services   map[string]Service `yaml:"services,omitempty"`
}

// Service is one entry of the services section.
type Service struct {
	Class     string `yaml:"class" json:"class"`
	Arguments []any  `yaml:"arguments,omitempty" json:"arguments,omitempty"`
}

// Decode parses a definition document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, err
	}
	return &f, nil
}

// Apply sets the parameters and registers the services of f on c. Parameters
// overwrite existing values; a service that already exists is an error.
// Services are registered in name order.
func Apply(c *container.Container, f *File) error {
	for _, name := range sortedKeys(f.Parameters) {
		if err := c.SetParameter(name, f.Parameters[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(f.Services) {
		svc := f.Services[name]
		if svc.Class == "" {
			return fmt.Errorf("service [%s]: %w", name, &container.InvalidTargetError{Reason: "class is required"})
		}
		if err := c.RegisterService(name, container.Class(svc.Class), svc.Arguments...); err != nil {
			return err
		}
	}
	return nil
}

// Load decodes r and applies it to c.
func Load(c *container.Container, r io.Reader) error {
	f, err := Decode(r)
	if err != nil {
		return err
	}
	return Apply(c, f)
}

// LoadFile reads a definition file from disk.
func LoadFile(c *container.Container, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("definitions: %w", err)
	}
	if err := Load(c, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("definitions: %s: %w", path, err)
	}
	return nil
}

// ── Export ───────────────────────────────────────────────────────────────────

// Export describes the current state of c in the document layout. Factory
// targets have no class name and are listed with their signature instead,
// so an exported file only loads back when every target is a Class.
func Export(c *container.Container) *File {
	f := &File{
		Parameters: c.Parameters(),
		Services:   make(map[string]Service),
	}
	for name, def := range c.RegisteredServices() {
		f.Services[name] = Describe(def)
	}
	return f
}

// Describe converts one definition into its document form.
func Describe(def container.Definition) Service {
	svc := Service{Class: targetString(def.Target)}
	for _, arg := range def.Arguments {
		svc.Arguments = append(svc.Arguments, raw(arg, true))
	}
	return svc
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

var markerPattern = regexp.MustCompile(`%%|%[^%\s]+%`)

// raw turns an Argument back into the value Arg would convert into it.
func raw(arg container.Argument, top bool) any {
	switch a := arg.(type) {
	case container.Ref:
		return "@" + string(a)
	case container.Template:
		return string(a)
	case container.Literal:
		s, ok := a.Value.(string)
		if !ok {
			return a.Value
		}
		if markerPattern.MatchString(s) {
			s = strings.ReplaceAll(s, "%", "%%")
		}
		if top && strings.HasPrefix(s, "@") {
			s = "@" + s
		}
		return s
	case container.Sequence:
		out := make([]any, len(a))
		for i, e := range a {
			out[i] = raw(e, false)
		}
		return out
	case container.Mapping:
		out := make(map[string]any, len(a))
		for k, e := range a {
			out[k] = raw(e, false)
		}
		return out
	default:
		return nil
	}
}

func targetString(t container.Target) string {
	if t == nil {
		return ""
	}
	if f, ok := t.(*container.Factory); ok && f == nil {
		return ""
	}
	return t.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
