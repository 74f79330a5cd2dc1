package schema

// Custom string types for type safety.
type (
	// Severity represents the severity level of a finding or risk item.
	Severity string

	// Dimension represents one of the audit dimensions.
	Dimension string

	// ScanStatus represents the lifecycle state of a scan or audit run.
	ScanStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// All severities supported, in descending order of impact.
const (
	CriticalSeverity Severity = "critical"
	HighSeverity     Severity = "high"
	MediumSeverity   Severity = "medium"
	LowSeverity      Severity = "low"
)

// All audit dimensions supported.
const (
	CodeQualityDim       Dimension = "code_quality"
	MaintainabilityDim   Dimension = "maintainability"
	TestingConfidenceDim Dimension = "testing_confidence"
	ArchitectureDim      Dimension = "architecture"
	PerformanceDim       Dimension = "performance"
	SecurityDim          Dimension = "security"
)

// All scan statuses supported.
const (
	PendingStatus   ScanStatus = "pending"
	RunningStatus   ScanStatus = "running"
	CompletedStatus ScanStatus = "completed"
	FailedStatus    ScanStatus = "failed"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Severity filters accepted for PR comment settings.
const (
	FilterAll          = "all"
	FilterCriticalHigh = "critical_high"
	FilterCritical     = "critical"
)

// AllDimensions returns every dimension in a stable order. The orchestrator
// fans out in this order and report writers render in this order.
var AllDimensions = []Dimension{
	CodeQualityDim,
	MaintainabilityDim,
	TestingConfidenceDim,
	ArchitectureDim,
	PerformanceDim,
	SecurityDim,
}

// ValidSeverities lists all valid severities.
var ValidSeverities = map[Severity]struct{}{
	CriticalSeverity: {},
	HighSeverity:     {},
	MediumSeverity:   {},
	LowSeverity:      {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid persistence backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeverityFilters lists all valid PR comment severity filters.
var ValidSeverityFilters = map[string]struct{}{
	FilterAll:          {},
	FilterCriticalHigh: {},
	FilterCritical:     {},
}
