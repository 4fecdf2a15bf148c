package plan

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Definition is the file form of a plan. Omitted fields keep their defaults.
type Definition struct {
	Executable string          `yaml:"executable,omitempty"`
	Constants  ConstantsPatch  `yaml:"constants,omitempty"`
	Axes       AxisDefinitions `yaml:"axes,omitempty"`
}

// ConstantsPatch overrides individual scalar parameters.
type ConstantsPatch struct {
	C            *float64  `yaml:"c,omitempty"`
	MuG          *float64  `yaml:"mu_g,omitempty"`
	SdMuG        *float64  `yaml:"sdmu_g,omitempty"`
	SdMuM        *float64  `yaml:"sdmu_m,omitempty"`
	M            []float64 `yaml:"m,omitempty,flow"`
	VarP         *float64  `yaml:"var_p,omitempty"`
	DiagonalOnly *int      `yaml:"diagonal_only,omitempty"`
}

// Apply returns base with the patched fields replaced.
func (p ConstantsPatch) Apply(base Constants) (Constants, error) {
	out := base
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat(&out.C, p.C)
	setFloat(&out.MuG, p.MuG)
	setFloat(&out.SdMuG, p.SdMuG)
	setFloat(&out.SdMuM, p.SdMuM)
	setFloat(&out.VarP, p.VarP)
	if p.DiagonalOnly != nil {
		out.DiagonalOnly = *p.DiagonalOnly
	}
	if p.M != nil {
		if len(p.M) != len(out.M) {
			return Constants{}, fmt.Errorf("constants.m: want %d values, got %d", len(out.M), len(p.M))
		}
		copy(out.M[:], p.M)
	}
	return out, nil
}

// AxisDefinitions maps axis names to specs. It encodes in nesting order.
type AxisDefinitions map[string]AxisSpec

// MarshalYAML writes the axes in nesting order instead of sorted key order.
func (a AxisDefinitions) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range a.names() {
		key := &yaml.Node{}
		key.SetString(name)

		value := &yaml.Node{}
		if err := value.Encode(a[name]); err != nil {
			return nil, fmt.Errorf("encoding axis %s: %w", name, err)
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// names returns known axes in nesting order followed by unknown ones sorted.
func (a AxisDefinitions) names() []string {
	names := make([]string, 0, len(a))
	for _, name := range AxisOrder {
		if _, ok := a[name]; ok {
			names = append(names, name)
		}
	}
	var unknown []string
	for name := range a {
		if !slices.Contains(AxisOrder, name) {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return append(names, unknown...)
}

// ParseDefinition decodes a YAML definition. Unknown keys are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return &def, nil
		}
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	return &def, nil
}

// LoadDefinition reads a YAML definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Options converts the definition into plan options.
func (d *Definition) Options() ([]Option, error) {
	var opts []Option
	if d.Executable != "" {
		opts = append(opts, WithExecutable(d.Executable))
	}

	constants, err := d.Constants.Apply(DefaultConstants())
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithConstants(constants))

	for _, name := range d.Axes.names() {
		opts = append(opts, WithAxisSpec(name, d.Axes[name]))
	}
	return opts, nil
}

// Plan builds a plan from the definition. Extra options are applied last so
// callers can override the file.
func (d *Definition) Plan(extra ...Option) (*Plan, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	return New(append(opts, extra...)...)
}

// Encode writes the definition as YAML.
func (d *Definition) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// DefaultDefinition returns the reference sweep with every field spelled out.
func DefaultDefinition() *Definition {
	return Default().Definition()
}

// Definition returns a fully populated definition that rebuilds the plan.
func (p *Plan) Definition() *Definition {
	c := p.constants
	diagonal := c.DiagonalOnly
	def := &Definition{
		Executable: p.executable,
		Constants: ConstantsPatch{
			C:            &c.C,
			MuG:          &c.MuG,
			SdMuG:        &c.SdMuG,
			SdMuM:        &c.SdMuM,
			M:            c.M[:],
			VarP:         &c.VarP,
			DiagonalOnly: &diagonal,
		},
		Axes: make(AxisDefinitions, len(p.specs)),
	}
	for name, spec := range p.specs {
		def.Axes[name] = spec.clone()
	}
	return def
}

// Fingerprint returns a stable SHA-256 of the plan's encoded definition.
func (p *Plan) Fingerprint() (string, error) {
	var buf bytes.Buffer
	if err := p.Definition().Encode(&buf); err != nil {
		return "", fmt.Errorf("encoding definition: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
