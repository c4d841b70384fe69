package usd

// Reference is a composition arc naming another layer and an optional
// prim-path within it (§GLOSSARY). Used for both "references" and
// "payload" metadata fields, which share shape.
type Reference struct {
	AssetPath string
	PrimPath  Path // zero value means "defaultPrim of the target layer"
}

// EditList pairs a list-valued metadata field with the qualifier that
// says how it composes with weaker opinions.
type EditList[T any] struct {
	Qualifier ListEditQualifier
	Values    []T
}

// APISchema is one entry of the "apiSchemas" metadata field: an applied
// API schema name plus an optional multi-apply instance name.
type APISchema struct {
	Name         string
	InstanceName string // empty for single-apply schemas
}

// PrimMeta is the structured, validated form of a Prim's metadata block
// (§3). Fields absent from the source are left at their zero value;
// HasX booleans distinguish "absent" from "explicitly false/empty" where
// that distinction matters for round-tripping.
type PrimMeta struct {
	Active      bool
	HasActive   bool
	Hidden      bool
	HasHidden   bool
	Kind        Kind
	SceneName   string
	DisplayName string
	CustomData  map[string]any
	AssetInfo   map[string]any
	// Variants records the selected variant name per variant set, as
	// written in the "variants = { ... }" metadata dictionary. This is
	// the *selection*, independent of the variantSets this Prim declares
	// children for (those live on the Prim itself, not in PrimMeta).
	Variants map[string]string

	Inherits    EditList[Path]
	Specializes EditList[Path]
	VariantSets EditList[string]
	APISchemas  struct {
		Qualifier ListEditQualifier
		Schemas   []APISchema
	}
	References EditList[Reference]
	Payload    EditList[Reference]

	Comment string

	// Unknown holds keys the decoder did not recognize, preserved for
	// lossless reporting/round-trip; each produces a warning, not an error.
	Unknown map[string]any
}

// StageMetas holds the top-level (layer) metadata block (§3, §4.6).
type StageMetas struct {
	Doc                 string
	UpAxis              string
	HasUpAxis           bool
	Comment             string
	SubLayers           []string
	DefaultPrim         string
	MetersPerUnit       float64
	HasMetersPerUnit    bool
	TimeCodesPerSecond  float64
	HasTimeCodesPerSec  bool
	StartTimeCode       float64
	HasStartTimeCode    bool
	EndTimeCode         float64
	HasEndTimeCode      bool
	FramesPerSecond     float64
	HasFramesPerSecond  bool
	AutoPlay            bool
	HasAutoPlay         bool
	PlaybackMode        PlaybackMode
	HasPlaybackMode     bool
	CustomLayerData     map[string]any
}
