package doctor

// IssueCategory groups issues by area.
type IssueCategory string

const (
	// CategoryTools covers the external commands gantry drives (git,
	// container engine, forge CLIs).
	CategoryTools IssueCategory = "tools"
	// CategoryLayers covers the prompt layer files in the share dir.
	CategoryLayers IssueCategory = "layers"
	// CategoryConfig covers semantic problems in the resolved config.
	CategoryConfig IssueCategory = "config"
	// CategoryCredentials covers assistants that would fail the credential
	// gate at launch.
	CategoryCredentials IssueCategory = "credentials"
)

// Fix actions doctor --fix knows how to apply.
const (
	// FixScaffoldShare writes the default layer files into the share dir.
	FixScaffoldShare = "scaffold-share"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // tool, layer file, config key, or assistant name
	Description string        // human-readable description
	FixAction   string        // what --fix would do; empty if not fixable
	Category    IssueCategory // issue category
	Fatal       bool          // launches fail until this is resolved
}

// Stats tracks healthy counts per area for the summary.
type Stats struct {
	ToolsPresent    int // external commands found
	LayersPresent   int // protected layers present (0-2)
	AssistantsReady int // assistants passing the credential check
	ConfigValid     bool
}
