// Package ops is the entry point of every texture tool. Each tool is one
// Operation variant carrying its directories and typed options; Run validates
// the directories and dispatches the variant's per-file task.
package ops

import (
	"textools/internal/texture"
)

// Tool identifies one of the ten tools.
type Tool int

const (
	ToolFlip Tool = iota
	ToolSolidify
	ToolDesolidify
	ToolFill
	ToolPrefixSweep
	ToolAlphaMove
	ToolVariableAlphaMove
	ToolFindAndSync
	ToolCompareAndReplace
	ToolDuplicateRemoval
)

var toolNames = [...]string{
	ToolFlip:              "flip",
	ToolSolidify:          "solidify",
	ToolDesolidify:        "desolidify",
	ToolFill:              "fill",
	ToolPrefixSweep:       "sweep",
	ToolAlphaMove:         "move-alpha",
	ToolVariableAlphaMove: "detect-ps2",
	ToolFindAndSync:       "sync",
	ToolCompareAndReplace: "replace",
	ToolDuplicateRemoval:  "dedupe",
}

// Tools lists every tool in menu order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range toolNames {
		out[i] = Tool(i)
	}
	return out
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// Dirs is how many directories the tool takes: 1 or 2.
func (t Tool) Dirs() int {
	if t >= ToolAlphaMove {
		return 2
	}
	return 1
}

// Operation is one configured tool invocation. The set of implementations is
// closed: only the variants in this package satisfy it.
type Operation interface {
	Tool() Tool
	operation()
}

// Direction selects which way AlphaRemap moves alpha values.
type Direction int

const (
	// Solidify turns alpha 128 into 255.
	Solidify Direction = iota
	// Desolidify turns alpha 255 into 128.
	Desolidify
)

// FillMode selects between painting transparent pixels and undoing it.
type FillMode int

const (
	Fill FillMode = iota
	Restore
)

// Flip mirrors every texture in Dir top to bottom.
type Flip struct {
	Dir string
}

// AlphaRemap rewrites half-transparent or solid pixels in Dir.
type AlphaRemap struct {
	Dir       string
	Direction Direction
}

// FillTransparency paints fully transparent pixels with Color, or with
// Restore resets pixels of exactly that colour to transparent black.
type FillTransparency struct {
	Dir   string
	Color texture.FillColor
	Mode  FillMode
}

// PrefixSweep deletes the BKP_ backups in Dir.
type PrefixSweep struct {
	Dir string
}

// AlphaMove moves textures with any transparency from SourceDir to DestDir.
type AlphaMove struct {
	SourceDir string
	DestDir   string
}

// VariableAlphaMove moves textures whose alpha strays from the PS2 reference
// value of 128 from SourceDir to DestDir.
type VariableAlphaMove struct {
	SourceDir string
	DestDir   string
}

// FindAndSync copies textures missing from DestDir out of SourceDir.
type FindAndSync struct {
	SourceDir string
	DestDir   string
}

// CompareAndReplace overwrites DestDir textures with their SourceDir namesakes.
type CompareAndReplace struct {
	SourceDir string
	DestDir   string
}

// DuplicateRemoval deletes DestDir textures that also exist in SourceDir,
// after Env.Confirmer agrees.
type DuplicateRemoval struct {
	SourceDir string
	DestDir   string
}

func (Flip) Tool() Tool { return ToolFlip }

func (o AlphaRemap) Tool() Tool {
	if o.Direction == Desolidify {
		return ToolDesolidify
	}
	return ToolSolidify
}

func (FillTransparency) Tool() Tool  { return ToolFill }
func (PrefixSweep) Tool() Tool       { return ToolPrefixSweep }
func (AlphaMove) Tool() Tool         { return ToolAlphaMove }
func (VariableAlphaMove) Tool() Tool { return ToolVariableAlphaMove }
func (FindAndSync) Tool() Tool       { return ToolFindAndSync }
func (CompareAndReplace) Tool() Tool { return ToolCompareAndReplace }
func (DuplicateRemoval) Tool() Tool  { return ToolDuplicateRemoval }

func (Flip) operation()              {}
func (AlphaRemap) operation()        {}
func (FillTransparency) operation()  {}
func (PrefixSweep) operation()       {}
func (AlphaMove) operation()         {}
func (VariableAlphaMove) operation() {}
func (FindAndSync) operation()       {}
func (CompareAndReplace) operation() {}
func (DuplicateRemoval) operation()  {}
