// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Status is the rollout state of an activity.
type Status string

const (
	StatusImplemented Status = "implemented"
	StatusPlanned     Status = "planned"
	StatusDeprecated  Status = "deprecated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusImplemented, StatusPlanned, StatusDeprecated:
		return true
	}
	return false
}

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one job type: its BPMN task type, the JSON schema its
// variables are validated against and the error codes it may throw.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus Status                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	// Processes lists the BPMN process ids that call this task type.
	Processes []string `json:"processes"`
}

// Domain is the first segment of the activity id ("fit", "catalog").
func (a Activity) Domain() string {
	domain, _, _ := strings.Cut(a.ID, ".")
	return domain
}

//go:embed activities.json
var builtinJSON []byte

var activityIDPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Builtin returns the activities shipped with the workers.
func Builtin() *ActivityRegistry {
	reg, err := Parse(builtinJSON)
	if err != nil {
		panic(err)
	}
	return reg
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks activity IDs follow domain.subdomain.action, statuses are
// known, and IDs and task types are unique.
func (r *ActivityRegistry) Validate() []error {
	var errs []error
	ids := map[string]bool{}
	taskTypes := map[string]bool{}

	for _, a := range r.Activities {
		if !activityIDPattern.MatchString(a.ID) {
			errs = append(errs, fmt.Errorf("activity %q: id must follow domain.subdomain.action", a.ID))
		}
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %q: taskType is required", a.ID))
		}
		if a.ImplementationStatus != "" && !a.ImplementationStatus.Valid() {
			errs = append(errs, fmt.Errorf("activity %q: unknown implementationStatus %q", a.ID, a.ImplementationStatus))
		}
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("activity %q: duplicate id", a.ID))
		}
		if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %q: duplicate taskType %q", a.ID, a.TaskType))
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true
	}
	return errs
}
