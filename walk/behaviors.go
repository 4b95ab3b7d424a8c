// behaviors.go - closed-table parsing of the OVAL behaviors record
//
// Licensing Terms: GPLv2

package walk

import (
	"strconv"

	"github.com/litios/openscap-go"
)

// RecurseDirection is the behaviors' recurse_direction value.
type RecurseDirection int

const (
	DirectionNone RecurseDirection = iota
	DirectionDown
	DirectionUp
)

var directionTable = map[string]RecurseDirection{
	"none": DirectionNone,
	"down": DirectionDown,
	"up":   DirectionUp,
}

// RecurseType is a bitmask describing which entry kinds the walker
// descends into. It is not a bitmask from the caller's point of view - the
// behaviors record spells out four named combinations - but the walker's
// steering logic (walker.go) tests it bit by bit, exactly as the original
// oval_fts_read does against OVAL_RECURSE_DIRS / OVAL_RECURSE_SYMLINKS.
type RecurseType uint

const (
	RecurseDirsFlag RecurseType = 1 << iota
	RecurseSymlinksFlag
)

const (
	RecurseSymlinksAndDirs = RecurseDirsFlag | RecurseSymlinksFlag
	RecurseFilesAndDirs    = RecurseDirsFlag
	RecurseSymlinksOnly    = RecurseSymlinksFlag
	RecurseDirsOnly        = RecurseDirsFlag
)

var recurseTable = map[string]RecurseType{
	"symlinks_and_dirs": RecurseSymlinksAndDirs,
	"files_and_dirs":    RecurseFilesAndDirs,
	"symlinks":          RecurseSymlinksOnly,
	"dirs":              RecurseDirsOnly,
}

// RecurseFS is the behaviors' recurse_file_system value.
type RecurseFS int

const (
	FSAll RecurseFS = iota
	FSLocal
	FSDefined
)

var fsTable = map[string]RecurseFS{
	"all":     FSAll,
	"local":   FSLocal,
	"defined": FSDefined,
}

// behaviors is the parsed form of an oval.BehaviorSource, with defaults
// applied exactly as oval_fts_open does.
type behaviors struct {
	maxDepth  int
	direction RecurseDirection
	recurse   RecurseType
	fs        RecurseFS
}

func parseBehaviors(src oval.BehaviorSource) (behaviors, error) {
	var b behaviors

	raw, ok := src.Behavior("max_depth")
	if !ok {
		return b, &oval.ConfigError{Op: "open", Key: "max_depth"}
	}
	depth, err := strconv.Atoi(raw)
	if err != nil {
		return b, &oval.ConfigError{Op: "open", Key: "max_depth", Val: raw}
	}
	b.maxDepth = depth

	raw, ok = src.Behavior("recurse_direction")
	if !ok {
		return b, &oval.ConfigError{Op: "open", Key: "recurse_direction"}
	}
	dir, ok := directionTable[raw]
	if !ok {
		return b, &oval.ConfigError{Op: "open", Key: "recurse_direction", Val: raw}
	}
	b.direction = dir

	if raw, ok = src.Behavior("recurse"); ok {
		rec, ok := recurseTable[raw]
		if !ok {
			return b, &oval.ConfigError{Op: "open", Key: "recurse", Val: raw}
		}
		b.recurse = rec
	} else {
		b.recurse = RecurseSymlinksAndDirs
	}

	if raw, ok = src.Behavior("recurse_file_system"); ok {
		fs, ok := fsTable[raw]
		if !ok {
			return b, &oval.ConfigError{Op: "open", Key: "recurse_file_system", Val: raw}
		}
		b.fs = fs
	} else {
		b.fs = FSAll
	}

	return b, nil
}
