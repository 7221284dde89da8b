package document

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claimlens/claimlens/pkg/errors"
)

// FieldKind tags the closed set of field-constraint variants.  Each variant
// carries a typed payload; a single generic validator walks them, which
// keeps rule expressiveness without duck-typed dispatch.
type FieldKind string

const (
	FieldString     FieldKind = "string"
	FieldNumber     FieldKind = "number"
	FieldDate       FieldKind = "date"
	FieldEnum       FieldKind = "enum"
	FieldIdentifier FieldKind = "identifier"
	FieldGeoPoint   FieldKind = "geo_point"
	FieldArray      FieldKind = "array"
)

// NumberConstraint bounds a numeric field.  Violations are errors.
type NumberConstraint struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// EnumConstraint fixes the admissible values.  Mismatches are warnings, not
// errors.
type EnumConstraint struct {
	Allowed []string `yaml:"allowed"`
}

// IdentifierConstraint matches a fixed-format pattern.  Mismatches are
// errors.
type IdentifierConstraint struct {
	Pattern     string `yaml:"pattern"`
	Description string `yaml:"description"`

	re *regexp.Regexp
}

// Matches reports whether value satisfies the compiled pattern.
func (c *IdentifierConstraint) Matches(value string) bool {
	return c.re != nil && c.re.MatchString(value)
}

// DateConstraint parses a date and optionally warns when it falls after a
// statutory cutoff.
type DateConstraint struct {
	// Layouts lists accepted formats, tried in order.
	Layouts []string `yaml:"layouts"`
	// WarnAfter, when set, produces a warning for dates strictly after it.
	WarnAfter string `yaml:"warn_after"`

	warnAfter time.Time
}

// WarnAfterTime returns the parsed cutoff and whether one is configured.
func (c *DateConstraint) WarnAfterTime() (time.Time, bool) {
	return c.warnAfter, !c.warnAfter.IsZero()
}

// ParseDate tries each configured layout.
func (c *DateConstraint) ParseDate(value string) (time.Time, error) {
	layouts := c.Layouts
	if len(layouts) == 0 {
		layouts = []string{"2006-01-02", "02/01/2006"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// GeoConstraint bounds a coordinate pair field of the form
// {"lat": …, "lon": …}.  Out-of-bounds coordinates are errors.
type GeoConstraint struct{}

// ArrayConstraint requires a minimum element count.
type ArrayConstraint struct {
	MinItems int `yaml:"min_items"`
}

// FieldRule binds a field name to exactly one constraint variant.
type FieldRule struct {
	Name       string                `yaml:"name"`
	Kind       FieldKind             `yaml:"kind"`
	Number     *NumberConstraint     `yaml:"number,omitempty"`
	Enum       *EnumConstraint       `yaml:"enum,omitempty"`
	Identifier *IdentifierConstraint `yaml:"identifier,omitempty"`
	Date       *DateConstraint       `yaml:"date,omitempty"`
	Geo        *GeoConstraint        `yaml:"geo,omitempty"`
	Array      *ArrayConstraint      `yaml:"array,omitempty"`
}

// TypeSpec describes one supported document category.
type TypeSpec struct {
	Key            string      `yaml:"key"`
	Description    string      `yaml:"description"`
	MaxFileSize    int64       `yaml:"max_file_size"`
	AllowedKinds   []FileKind  `yaml:"allowed_kinds"`
	RequiredFields []string    `yaml:"required_fields"`
	Fields         []FieldRule `yaml:"fields"`
}

// AllowsKind reports whether the declared file kind is acceptable for this
// document type.
func (s *TypeSpec) AllowsKind(kind FileKind) bool {
	for _, k := range s.AllowedKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// RuleFor returns the constraint rule for a field name, if any.
func (s *TypeSpec) RuleFor(name string) (*FieldRule, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Registry is the immutable catalog of supported document types, loaded
// once at startup and safe for unlimited concurrent readers.
type Registry struct {
	specs map[string]*TypeSpec
	order []string
}

// NewRegistry builds a registry from specs, compiling identifier patterns
// and parsing date cutoffs.  Specs keep their given order for listing.
func NewRegistry(specs []TypeSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*TypeSpec, len(specs))}
	for i := range specs {
		spec := specs[i]
		if spec.Key == "" {
			return nil, errors.NewInvalidInputError("document type spec is missing its key")
		}
		if _, dup := r.specs[spec.Key]; dup {
			return nil, errors.Newf(errors.ErrCodeValidation, "duplicate document type %q", spec.Key)
		}
		if err := compileRules(&spec); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation,
				fmt.Sprintf("document type %q has an invalid rule", spec.Key))
		}
		r.specs[spec.Key] = &spec
		r.order = append(r.order, spec.Key)
	}
	return r, nil
}

func compileRules(spec *TypeSpec) error {
	for i := range spec.Fields {
		rule := &spec.Fields[i]
		if rule.Kind == FieldIdentifier {
			if rule.Identifier == nil || rule.Identifier.Pattern == "" {
				return fmt.Errorf("identifier rule %q has no pattern", rule.Name)
			}
			re, err := regexp.Compile(rule.Identifier.Pattern)
			if err != nil {
				return fmt.Errorf("identifier rule %q: %w", rule.Name, err)
			}
			rule.Identifier.re = re
		}
		if rule.Kind == FieldDate && rule.Date != nil && rule.Date.WarnAfter != "" {
			t, err := time.Parse("2006-01-02", rule.Date.WarnAfter)
			if err != nil {
				return fmt.Errorf("date rule %q: bad warn_after: %w", rule.Name, err)
			}
			rule.Date.warnAfter = t
		}
	}
	return nil
}

// Get returns the rule set for a type tag. An unknown tag is rejected
// outright, since no rule set exists to apply.
func (r *Registry) Get(typeTag string) (*TypeSpec, error) {
	spec, ok := r.specs[typeTag]
	if !ok {
		return nil, errors.NewUnknownDocumentTypeError(typeTag)
	}
	return spec, nil
}

// Keys lists the registered type tags in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.order) }

type registryFile struct {
	DocumentTypes []TypeSpec `yaml:"document_types"`
}

// LoadRegistry reads a YAML document-type file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document registry: read %q: %w", path, err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("document registry: parse %q: %w", path, err)
	}
	if len(file.DocumentTypes) == 0 {
		return nil, fmt.Errorf("document registry: %q defines no document types", path)
	}
	return NewRegistry(file.DocumentTypes)
}

// fraOccupationCutoff is the statutory recognition cutoff for forest-rights
// occupation dates; later dates draw a warning, not an error.
const fraOccupationCutoff = "2005-12-13"

func f(v float64) *float64 { return &v }

// DefaultRegistry returns the built-in document-type catalog used when no
// YAML override is supplied.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]TypeSpec{
		{
			Key:            "fra_claim_form",
			Description:    "Individual forest-rights claim form (Form A)",
			MaxFileSize:    10 << 20,
			AllowedKinds:   []FileKind{KindText, KindPDF, KindImage},
			RequiredFields: []string{"applicant_name", "village", "district", "land_area_hectares", "land_use_type", "occupation_date"},
			Fields: []FieldRule{
				{Name: "applicant_name", Kind: FieldString},
				{Name: "village", Kind: FieldString},
				{Name: "district", Kind: FieldString},
				{Name: "land_area_hectares", Kind: FieldNumber, Number: &NumberConstraint{Min: f(0.01), Max: f(4.0)}},
				{Name: "land_use_type", Kind: FieldEnum, Enum: &EnumConstraint{Allowed: []string{"agriculture", "habitation", "both"}}},
				{Name: "occupation_date", Kind: FieldDate, Date: &DateConstraint{WarnAfter: fraOccupationCutoff}},
			},
		},
		{
			Key:            "identity_proof",
			Description:    "Government identity document of the applicant",
			MaxFileSize:    5 << 20,
			AllowedKinds:   []FileKind{KindPDF, KindImage},
			RequiredFields: []string{"holder_name", "id_number"},
			Fields: []FieldRule{
				{Name: "holder_name", Kind: FieldString},
				{Name: "id_number", Kind: FieldIdentifier, Identifier: &IdentifierConstraint{
					Pattern:     `^[0-9]{12}$`,
					Description: "12-digit national identity number",
				}},
			},
		},
		{
			Key:            "land_record",
			Description:    "Revenue land record / record of rights extract",
			MaxFileSize:    10 << 20,
			AllowedKinds:   []FileKind{KindText, KindPDF, KindImage},
			RequiredFields: []string{"survey_number", "owner_name", "area_hectares"},
			Fields: []FieldRule{
				{Name: "survey_number", Kind: FieldString},
				{Name: "owner_name", Kind: FieldString},
				{Name: "area_hectares", Kind: FieldNumber, Number: &NumberConstraint{Min: f(0.01)}},
			},
		},
		{
			Key:            "tribal_certificate",
			Description:    "Scheduled-tribe or community certificate",
			MaxFileSize:    5 << 20,
			AllowedKinds:   []FileKind{KindPDF, KindImage},
			RequiredFields: []string{"holder_name", "community", "issuing_authority"},
			Fields: []FieldRule{
				{Name: "holder_name", Kind: FieldString},
				{Name: "community", Kind: FieldEnum, Enum: &EnumConstraint{
					Allowed: []string{"scheduled_tribe", "other_traditional_forest_dweller"},
				}},
				{Name: "issuing_authority", Kind: FieldString},
			},
		},
		{
			Key:            "gram_sabha_resolution",
			Description:    "Village-assembly resolution supporting the claim",
			MaxFileSize:    10 << 20,
			AllowedKinds:   []FileKind{KindText, KindPDF, KindImage},
			RequiredFields: []string{"village", "resolution_date", "signatories"},
			Fields: []FieldRule{
				{Name: "village", Kind: FieldString},
				{Name: "resolution_date", Kind: FieldDate, Date: &DateConstraint{}},
				{Name: "signatories", Kind: FieldArray, Array: &ArrayConstraint{MinItems: 1}},
			},
		},
		{
			Key:            "survey_map",
			Description:    "Plot sketch or GPS survey of the claimed land",
			MaxFileSize:    20 << 20,
			AllowedKinds:   []FileKind{KindPDF, KindImage},
			RequiredFields: []string{"survey_number", "centroid"},
			Fields: []FieldRule{
				{Name: "survey_number", Kind: FieldString},
				{Name: "centroid", Kind: FieldGeoPoint, Geo: &GeoConstraint{}},
			},
		},
	})
	if err != nil {
		// The built-in specs are compiled into the binary; failing to build
		// them is a programming error.
		panic(err)
	}
	return r
}
