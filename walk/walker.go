// walker.go - the open/read/close facade that turns OVAL behaviors into
// driver policy
//
// Licensing Terms: GPLv2

package walk

import (
	"io"

	oval "github.com/litios/openscap-go"
	"github.com/opencoff/go-logger"
	"golang.org/x/sys/unix"
)

// OpenParams configures a Walker. Exactly one of Path or FilePath must be
// set; Filename may be set only alongside Path. Behaviors is required.
// Logger is optional; when nil, Open installs a discarding logger.
type OpenParams struct {
	Path      oval.Entity
	Filename  oval.Entity
	FilePath  oval.Entity
	Behaviors oval.BehaviorSource
	Logger    logger.Logger
}

// Walker is a single-threaded, cooperative iterator over a directory
// tree, filtering entries against an OVAL path/filename or filepath
// entity and a behaviors record. See the package doc comment for the
// concurrency contract.
type Walker struct {
	log logger.Logger

	d       *driver
	devices *DeviceSet

	regex *PathRegex

	pathOp       oval.Operation
	filepathMode bool

	spath       oval.Entity
	sfilename   oval.Entity
	hasFilename bool
	sfilepath   oval.Entity

	maxDepth  int
	direction RecurseDirection
	recurse   RecurseType
	fsScope   RecurseFS

	rootDev      uint64
	rootDevKnown bool

	closed bool
}

// Open constructs a Walker per p. On any failure, every resource already
// acquired is released before the error is returned.
func Open(p OpenParams) (*Walker, error) {
	hasPath := p.Path != nil
	hasFilePath := p.FilePath != nil
	if hasPath == hasFilePath {
		return nil, &oval.ConfigError{Op: "open", Key: "path/filepath", Val: "exactly one of path or filepath is required"}
	}
	if p.Filename != nil && !hasPath {
		return nil, &oval.ConfigError{Op: "open", Key: "filename", Val: "filename requires path"}
	}
	if p.Behaviors == nil {
		return nil, &oval.ConfigError{Op: "open", Key: "behaviors"}
	}

	b, err := parseBehaviors(p.Behaviors)
	if err != nil {
		return nil, err
	}

	log := p.Logger
	if log == nil {
		log = defaultLogger()
	}

	var target oval.Entity
	if hasPath {
		target = p.Path
	} else {
		target = p.FilePath
	}
	op, hasOp := target.Operation()
	if !hasOp {
		op = oval.OpEquals
	}

	var roots []string
	if op == oval.OpEquals {
		roots = []string{target.Value()}
	} else {
		roots = []string{"/"}
	}

	var devices *DeviceSet
	if b.fs == FSLocal {
		devices, err = NewDeviceSet()
		if err != nil {
			return nil, &oval.ResourceError{Op: "open", Name: "devices", Err: err}
		}
	}

	var regex *PathRegex
	if op == oval.OpPatternMatch {
		regex, err = CompilePattern(target.Value())
		if err != nil {
			if devices != nil {
				devices.Close()
			}
			return nil, &oval.PatternError{Pattern: target.Value(), Err: err}
		}
	}

	w := &Walker{
		log:          log,
		d:            newDriver(roots, true),
		devices:      devices,
		regex:        regex,
		pathOp:       op,
		filepathMode: hasFilePath,
		maxDepth:     b.maxDepth,
		direction:    b.direction,
		recurse:      b.recurse,
		fsScope:      b.fs,
	}
	if hasFilePath {
		w.sfilepath = p.FilePath
	} else {
		w.spath = p.Path
		if p.Filename != nil {
			w.sfilename = p.Filename
			w.hasFilename = true
		}
	}

	var st unix.Stat_t
	if err := unix.Stat(roots[0], &st); err == nil {
		w.rootDev = uint64(st.Dev)
		w.rootDevKnown = true
	}

	return w, nil
}

// Read returns the next matching entry, or io.EOF once the walk is
// exhausted. Read is idempotent after io.EOF.
func (w *Walker) Read() (*Entry, error) {
	if w.closed {
		return nil, io.EOF
	}

	for {
		de, err := w.d.Next()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			w.log.Warn("walk: driver error: %v", err)
			return nil, &oval.ResourceError{Op: "read", Name: "driver", Err: err}
		}

		if de.Tag == tagDP {
			continue
		}
		if de.Tag == tagDC {
			w.log.Warn("walk: cycle detected at %s", de.FullPath)
			continue
		}

		if w.prune(de) {
			continue
		}

		if de.Tag == tagSL || de.Tag == tagSLNONE {
			w.steer(de)
			continue
		}

		reject := w.steer(de)
		if reject {
			continue
		}

		entry, matched := w.evaluate(de)
		if matched {
			return entry, nil
		}
	}
}

// Close releases the Walker's resources. Idempotent.
func (w *Walker) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.devices != nil {
		w.devices.Close()
	}
	return nil
}

// prune implements the partial-match pruning step. It returns true when
// it fully disposed of de (issued Skip or Follow where needed, and no
// further processing of this entry is needed).
func (w *Walker) prune(de *driverEntry) bool {
	if w.regex == nil || !w.regex.prunable {
		return false
	}
	if de.Tag != tagD && de.Tag != tagSL {
		return false
	}

	text := de.FullPath
	if !w.filepathMode && w.hasFilename {
		text = dirPortion(de.FullPath, de.NameLen)
	}

	switch w.regex.Match(text, true) {
	case NoMatch:
		w.d.Skip(de)
		return true
	case Partial:
		if de.Tag == tagSL {
			w.d.Follow(de)
		}
		return true
	case MatchErr:
		w.log.Warn("walk: pattern match error evaluating %q", text)
		w.d.Skip(de)
		return true
	default: // Full
		return false
	}
}

// evaluate implements candidate evaluation (step D). It returns the
// resulting Entry and whether de qualifies as a match.
func (w *Walker) evaluate(de *driverEntry) (*Entry, bool) {
	isDir := de.Tag == tagD

	if w.filepathMode {
		if isDir {
			return nil, false
		}
		if w.compare(w.sfilepath, de.FullPath) != oval.ResultTrue {
			return nil, false
		}
		return &Entry{Path: de.FullPath}, true
	}

	if w.hasFilename {
		if isDir {
			return nil, false
		}
		dir := dirPortion(de.FullPath, de.NameLen)
		dirOK := w.pathOp == oval.OpEquals || w.compare(w.spath, dir) == oval.ResultTrue
		if !dirOK {
			return nil, false
		}
		if w.compare(w.sfilename, de.Name) != oval.ResultTrue {
			return nil, false
		}
		return &Entry{Path: dir, File: de.Name, HasFile: true}, true
	}

	if !isDir {
		return nil, false
	}
	if w.compare(w.spath, de.FullPath) != oval.ResultTrue {
		return nil, false
	}
	return &Entry{Path: de.FullPath}, true
}

func (w *Walker) compare(e oval.Entity, candidate string) oval.CompareResult {
	r := e.Compare(candidate)
	if r == oval.ResultError {
		w.log.Warn("walk: match error comparing %q", candidate)
	}
	return r
}

// steer implements recursion steering (step E). It returns true when de
// itself must not be evaluated as a candidate, which only arises when a
// depth limit excludes de even though the driver has no way to "skip" an
// already-produced leaf entry.
func (w *Walker) steer(de *driverEntry) (reject bool) {
	hasTarget := w.hasFilename || w.filepathMode

	switch w.direction {
	case DirectionNone:
		if w.pathOp != oval.OpEquals {
			return false
		}
		if !hasTarget {
			w.d.Skip(de)
			return false
		}
		if de.Depth > 0 {
			w.d.Skip(de)
		}
		return false

	case DirectionDown:
		relDepth := de.Depth - 1
		if !(de.Depth == 0 && hasTarget) {
			if w.maxDepth != -1 && relDepth > w.maxDepth {
				w.d.Skip(de)
				return true
			}
		}

		switch de.Tag {
		case tagD:
			if w.recurse&RecurseDirsFlag == 0 {
				w.d.Skip(de)
				return false
			}
		case tagSL:
			if w.recurse&RecurseSymlinksFlag == 0 {
				w.d.Skip(de)
				return false
			}
			w.d.Follow(de)
		default:
			return false
		}

		if w.fsScope == FSLocal && w.devices != nil && !w.devices.ContainsID(de.Dev) {
			w.d.Skip(de)
		}
		if w.fsScope == FSDefined && w.rootDevKnown && de.Dev != w.rootDev {
			w.d.Skip(de)
		}
		return false

	case DirectionUp:
		w.d.Skip(de)
		return false
	}
	return false
}

// pathLenFromFTSE implements the directory/name split arithmetic used to
// recover the path portion of a path+filename match: strip the trailing
// separator between directory and basename, without producing an empty
// path for a root-level match.
func pathLenFromFTSE(pathLen, nameLen int) int {
	switch {
	case pathLen > nameLen+1:
		return pathLen - nameLen - 1
	case pathLen > nameLen:
		return pathLen - nameLen
	default:
		return pathLen
	}
}

func dirPortion(fullPath string, nameLen int) string {
	n := pathLenFromFTSE(len(fullPath), nameLen)
	return fullPath[:n]
}
