package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// FieldMapping resolves company-specific column names to canonical field
// names. It is built once before ingestion starts and never mutated during a
// run; swapping the alias file is how a new export format is supported.
type FieldMapping struct {
	// aliases maps a normalized input key to exactly one canonical field.
	aliases map[string]string
}

// canonicalFields is the full set of fields an alias may target.
var canonicalFields = map[string]bool{
	models.FieldTicketID:            true,
	models.FieldCreatedDate:         true,
	models.FieldResolvedDate:        true,
	models.FieldCategory:            true,
	models.FieldPriority:            true,
	models.FieldAssignedTeam:        true,
	models.FieldAssignedTechnician:  true,
	models.FieldStatus:              true,
	models.FieldResolutionTimeHours: true,
}

// NewFieldMapping builds a mapping from canonical field -> accepted aliases.
// Every canonical field accepts its own name, so mapping an already-canonical
// record is the identity transform. One alias targeting two canonical fields
// is a configuration error.
func NewFieldMapping(aliases map[string][]string) (*FieldMapping, error) {
	m := &FieldMapping{aliases: make(map[string]string)}

	for field := range canonicalFields {
		m.aliases[normalizeKey(field)] = field
	}

	for field, names := range aliases {
		if !canonicalFields[field] {
			return nil, fmt.Errorf("field mapping: unknown canonical field %q", field)
		}
		for _, name := range names {
			key := normalizeKey(name)
			if key == "" {
				continue
			}
			if existing, ok := m.aliases[key]; ok && existing != field {
				return nil, fmt.Errorf("field mapping: alias %q maps to both %q and %q", name, existing, field)
			}
			m.aliases[key] = field
		}
	}
	return m, nil
}

// DefaultFieldMapping covers the column names commonly seen in helpdesk
// exports. Deployments with stranger headers ship their own YAML table.
func DefaultFieldMapping() *FieldMapping {
	m, err := NewFieldMapping(map[string][]string{
		models.FieldTicketID: {
			"id", "ticket no", "ticket no.", "ticket number", "ticket #",
			"dispatch no", "dispatch no.", "incident id", "case id",
			"request id", "reference",
		},
		models.FieldCreatedDate: {
			"date", "created", "created at", "create time", "creation date",
			"open date", "opened", "date opened", "reported date",
		},
		models.FieldResolvedDate: {
			"resolved", "resolved at", "resolution date", "close date",
			"closed date", "date closed", "completion date",
		},
		models.FieldCategory: {
			"problem code", "problemcode", "problem_code", "issue type",
			"classification", "subject area",
		},
		models.FieldPriority: {
			"urgency", "severity", "prio",
		},
		models.FieldAssignedTeam: {
			"team", "assignment group", "support group", "queue", "group",
		},
		models.FieldAssignedTechnician: {
			"technician", "assigned to", "assignee", "agent", "owner",
		},
		models.FieldStatus: {
			"state", "ticket status", "current status",
		},
		models.FieldResolutionTimeHours: {
			"resolution hours", "resolution time", "time to resolve",
			"hours to resolve", "resolution time (hours)",
		},
	})
	if err != nil {
		// The built-in table is validated by tests; a collision here is a
		// programming error.
		panic(err)
	}
	return m
}

// LoadFieldMapping reads a YAML alias table (canonical field -> list of
// aliases) and merges it over nothing: the file fully describes the mapping,
// canonical self-aliases aside.
func LoadFieldMapping(path string) (*FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field mapping %s: %w", path, err)
	}
	var aliases map[string][]string
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse field mapping %s: %w", path, err)
	}
	return NewFieldMapping(aliases)
}

// Resolve maps one input column name to its canonical field.
func (m *FieldMapping) Resolve(key string) (string, bool) {
	field, ok := m.aliases[normalizeKey(key)]
	return field, ok
}

// Apply translates a raw record's keys to canonical field names. Unmapped
// keys are left aside (returned for diagnostics, not carried into the
// record). The second result lists required canonical fields that had no
// alias present in the record at all.
func (m *FieldMapping) Apply(rec models.RawRecord) (models.RawRecord, []string) {
	mapped := make(models.RawRecord, len(rec))
	for key, value := range rec {
		field, ok := m.Resolve(key)
		if !ok {
			continue
		}
		// First alias present wins; exports with duplicate columns for the
		// same field keep the non-empty value.
		if existing, dup := mapped[field]; dup && strings.TrimSpace(existing) != "" {
			continue
		}
		mapped[field] = value
	}

	var missing []string
	for _, field := range models.RequiredFields {
		if _, ok := mapped[field]; !ok {
			missing = append(missing, field)
		}
	}
	return mapped, missing
}

// normalizeKey lowercases, trims, and collapses interior whitespace so that
// "Dispatch  No. " and "dispatch no." resolve identically.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
