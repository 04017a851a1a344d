package app

type GenerateRequest struct {
	Dialects    []string
	XMLDir      string
	OutputDir   string
	Merge       bool
	Converter   bool
	SkipWIP     bool
	ArrayPolicy string
	Preset      string
	PresetsFile string
	Manifest    bool
	ToolVersion string
}

type GenerateResult struct {
	Dialects     []string
	Artifacts    []string
	RenderErrors []string
	EnumCount    int
	MessageCount int
}

type InspectRequest struct {
	Dialect string
	XMLDir  string
}

type InspectResult struct {
	Dialect            string
	Version            *int
	DialectNumber      *int
	Includes           []string
	IncludeClosure     []string
	EnumCount          int
	MessageCount       int
	MergedEnumCount    int
	MergedMessageCount int
}

type ValidateRequest struct {
	Dialects []string
	XMLDir   string
}

type ValidateResult struct {
	Dialects []string
}
