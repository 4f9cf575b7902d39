package model

// GenericRecord is one spreadsheet row keyed by column name.
// Values are nil, int, float64, string or time.Time.
type GenericRecord map[string]interface{}

// RecordSet is the rectangular content of one sheet
type RecordSet struct {
	Sheet   string          `json:"sheet"`
	Columns []string        `json:"columns"` // header order
	Rows    []GenericRecord `json:"rows"`
}

// HasColumn reports whether the header contains name (exact, case-sensitive).
func (rs RecordSet) HasColumn(name string) bool {
	for _, c := range rs.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// OutputFiles names the documents a run writes and backs up
type OutputFiles struct {
	Snapshot  string `json:"snapshot" yaml:"snapshot"`
	Queue     string `json:"queue" yaml:"queue"`
	Metrics   string `json:"metrics" yaml:"metrics"`
	Dashboard string `json:"dashboard" yaml:"dashboard"`
}

// BackupSet lists the files copied aside before a run.
func (o OutputFiles) BackupSet() []string {
	return []string{o.Snapshot, o.Queue, o.Metrics, o.Dashboard}
}

// TATMode selects how a stage obtains its turnaround sample
type TATMode int

const (
	TATNone     TATMode = iota // stage carries no TAT
	TATDirect                  // a column already holds elapsed days
	TATComputed                // difference of two timestamp columns
)

// TATConfig describes where a stage's turnaround values come from
type TATConfig struct {
	Mode          TATMode  `json:"mode"`
	Column        string   `json:"column,omitempty"`        // direct mode
	StartColumn   string   `json:"startColumn,omitempty"`   // computed mode, "created"
	EndColumn     string   `json:"endColumn,omitempty"`     // computed mode, "completed"
	StartLayouts  []string `json:"startLayouts,omitempty"`  // accepted text layouts for StartColumn
	EndLayouts    []string `json:"endLayouts,omitempty"`    // accepted text layouts for EndColumn
	DerivedColumn string   `json:"derivedColumn,omitempty"` // appended to exports in computed mode
}

// Columns returns the source columns the TAT derivation reads.
func (t TATConfig) Columns() []string {
	switch t.Mode {
	case TATDirect:
		return []string{t.Column}
	case TATComputed:
		return []string{t.StartColumn, t.EndColumn}
	default:
		return nil
	}
}

// BreakdownConfig names one categorical breakdown of a stage
type BreakdownConfig struct {
	Key    string `json:"key"`    // output key, e.g. "by_type"
	Column string `json:"column"` // source column
	Limit  int    `json:"limit"`  // top-N; 0 keeps every label
}

// StageConfig is the fixed configuration of one process stage
type StageConfig struct {
	Key        string            `json:"key"`   // snapshot block, e.g. "release_31"
	Name       string            `json:"name"`  // display name
	Sheet      string            `json:"sheet"` // workbook sheet
	Breakdowns []BreakdownConfig `json:"breakdowns"`
	TAT        TATConfig         `json:"tat"`
	// DistributionLabels label the four TAT buckets in output order.
	DistributionLabels [4]string `json:"distributionLabels"`
	ExportFile         string    `json:"exportFile,omitempty"` // flat CSV export, empty for none
}

// HasTAT reports whether the stage carries turnaround statistics.
func (s StageConfig) HasTAT() bool {
	return s.TAT.Mode != TATNone
}

// RequiredColumns lists every column the aggregation rules reference.
func (s StageConfig) RequiredColumns() []string {
	var cols []string
	for _, b := range s.Breakdowns {
		cols = append(cols, b.Column)
	}
	return append(cols, s.TAT.Columns()...)
}

// StageTable holds the five stages in processing order
type StageTable struct {
	PRCreate  StageConfig `json:"prCreate"`
	POCreate  StageConfig `json:"poCreate"`
	POA       StageConfig `json:"poa"`
	Release31 StageConfig `json:"release31"`
	Release37 StageConfig `json:"release37"`

	ChannelBreakdown string  `json:"channelBreakdown"` // POA breakdown keyed by processing channel
	BotLabel         string  `json:"botLabel"`
	ManualLabel      string  `json:"manualLabel"`
	HighTATDays      float64 `json:"highTatDays"` // queue threshold
}

// All returns the stages in the order they must be processed.
func (t StageTable) All() []StageConfig {
	return []StageConfig{t.PRCreate, t.POCreate, t.POA, t.Release31, t.Release37}
}
