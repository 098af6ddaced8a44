// Package models contains the shared data model for maiscore: songs, charts,
// player scores and the error taxonomy exchanged between layers.
package models

// SourceKind selects which upstream score service to query.
type SourceKind int

const (
	// SourceDivingFish is the public-username based prober.
	SourceDivingFish SourceKind = iota
	// SourceLxns is the linked-account based prober.
	SourceLxns
)

// String returns the wire/CLI name of the source.
func (k SourceKind) String() string {
	switch k {
	case SourceDivingFish:
		return "divingfish"
	case SourceLxns:
		return "lxns"
	default:
		return "unknown"
	}
}

// ParseSourceKind maps a selector string to a SourceKind.
func ParseSourceKind(s string) (SourceKind, bool) {
	switch s {
	case "divingfish", "fish", "df":
		return SourceDivingFish, true
	case "lxns", "luoxue", "lx":
		return SourceLxns, true
	default:
		return SourceDivingFish, false
	}
}

// SongCategory is the chart category. The values match the keys used by the
// catalog document's difficulties object.
type SongCategory string

const (
	CategoryStandard SongCategory = "standard"
	CategoryDeluxe   SongCategory = "dx"
	CategoryUtage    SongCategory = "utage"
)

// ParseSongCategory translates an upstream chart-type string. DivingFish
// reports "SD"/"DX"; Lxns reports "standard"/"dx"/"utage".
func ParseSongCategory(s string) SongCategory {
	switch s {
	case "SD", "sd", "standard":
		return CategoryStandard
	case "DX", "dx":
		return CategoryDeluxe
	case "utage", "UTAGE":
		return CategoryUtage
	default:
		return CategoryStandard
	}
}

// Difficulty is a chart difficulty tier index (0 Basic .. 4 Re:Master).
type Difficulty int

const (
	DifficultyBasic Difficulty = iota
	DifficultyAdvanced
	DifficultyExpert
	DifficultyMaster
	DifficultyReMaster
)

var difficultyLabels = [...]string{"BASIC", "ADVANCED", "EXPERT", "MASTER", "Re:MASTER"}

// Label returns the display name of the difficulty tier.
func (d Difficulty) Label() string {
	if d < DifficultyBasic || d > DifficultyReMaster {
		return "UNKNOWN"
	}
	return difficultyLabels[d]
}

// Valid reports whether d is one of the five known tiers.
func (d Difficulty) Valid() bool {
	return d >= DifficultyBasic && d <= DifficultyReMaster
}

// RateType is the grade label earned on a chart, using the short codes both
// upstream services report ("sssp" .. "d").
type RateType string

const (
	RateSSSPlus RateType = "sssp"
	RateSSS     RateType = "sss"
	RateSSPlus  RateType = "ssp"
	RateSS      RateType = "ss"
	RateSPlus   RateType = "sp"
	RateS       RateType = "s"
	RateAAA     RateType = "aaa"
	RateAA      RateType = "aa"
	RateA       RateType = "a"
	RateBBB     RateType = "bbb"
	RateBB      RateType = "bb"
	RateB       RateType = "b"
	RateC       RateType = "c"
	RateD       RateType = "d"
)

var rateTypes = map[string]RateType{
	"sssp": RateSSSPlus, "sss": RateSSS, "ssp": RateSSPlus, "ss": RateSS,
	"sp": RateSPlus, "s": RateS, "aaa": RateAAA, "aa": RateAA, "a": RateA,
	"bbb": RateBBB, "bb": RateBB, "b": RateB, "c": RateC, "d": RateD,
}

// ParseRate maps an upstream grade code to a RateType, defaulting to D for
// anything unrecognized.
func ParseRate(s string) RateType {
	if r, ok := rateTypes[s]; ok {
		return r
	}
	return RateD
}

// FCType is the full-combo qualifier for a chart attempt. The empty value
// means no full combo was achieved.
type FCType string

const (
	FCNone           FCType = ""
	FCFullCombo      FCType = "fc"
	FCFullComboPlus  FCType = "fcp"
	FCAllPerfect     FCType = "ap"
	FCAllPerfectPlus FCType = "app"
)

// ParseFC maps an upstream fc code to an FCType.
func ParseFC(s string) FCType {
	switch s {
	case "fc":
		return FCFullCombo
	case "fcp":
		return FCFullComboPlus
	case "ap":
		return FCAllPerfect
	case "app":
		return FCAllPerfectPlus
	default:
		return FCNone
	}
}

// FSType is the sync qualifier for a chart attempt in multiplayer.
type FSType string

const (
	FSNone           FSType = ""
	FSSync           FSType = "sync"
	FSFullSync       FSType = "fs"
	FSFullSyncPlus   FSType = "fsp"
	FSFullSyncDX     FSType = "fsd"
	FSFullSyncDXPlus FSType = "fsdp"
)

// ParseFS maps an upstream fs code to an FSType.
func ParseFS(s string) FSType {
	switch s {
	case "sync":
		return FSSync
	case "fs":
		return FSFullSync
	case "fsp":
		return FSFullSyncPlus
	case "fsd":
		return FSFullSyncDX
	case "fsdp":
		return FSFullSyncDXPlus
	default:
		return FSNone
	}
}
