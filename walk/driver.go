// driver.go - the fts(3)-style depth-first traversal engine
//
// Licensing Terms: GPLv2
//
// driver walks a directory tree exactly the way BSD fts(3) does: entries
// are delivered one at a time, a directory is delivered once before its
// children (tagD) and again after (tagDP), and the caller steers the walk
// mid-stream via Skip/Follow. Because Next is a pull-based call rather
// than fts_read's pointer-passing API, the caller's steering decision on
// the entry just returned is applied lazily, at the top of the next call
// to Next, before the walk advances any further - the same ordering
// fts_set/fts_read give you, expressed as a two-phase protocol instead of
// a side effect on a shared cursor.
package walk

import (
	"io"
	"os"
	"path/filepath"
	"syscall"
)

type ftsTag int

const (
	tagD      ftsTag = iota // directory, visited in pre-order
	tagDP                   // directory, visited in post-order
	tagDC                   // directory that would close a symlink/hardlink cycle
	tagF                    // file, or any other non-directory, non-symlink object
	tagSL                   // symlink, not followed
	tagSLNONE               // symlink whose target could not be resolved
)

type driverEntry struct {
	FullPath string
	Name     string
	PathLen  int
	NameLen  int
	Depth    int
	Dev      uint64
	Ino      uint64
	Tag      ftsTag
}

type devIno struct {
	dev, ino uint64
}

type dirFrame struct {
	path        string
	depth       int
	entries     []os.DirEntry
	idx         int
	postEmitted bool
	dev, ino    uint64
}

type directive int

const (
	directiveNone directive = iota
	directiveSkip
	directiveFollow
)

// driver performs the raw, unfiltered depth-first walk. It knows nothing
// about OVAL entities, behaviors, or depth limits - that policy lives in
// Walker. driver only knows how to enumerate, detect cycles, and honor
// Skip/Follow.
type driver struct {
	roots     []string
	rootIdx   int
	comFollow bool

	stack     []*dirFrame
	ancestors []devIno

	lastEntry *driverEntry
	directive directive
}

func newDriver(roots []string, comFollow bool) *driver {
	return &driver{roots: roots, comFollow: comFollow}
}

// Next returns the next entry in the walk, or io.EOF once every root has
// been fully consumed.
func (d *driver) Next() (*driverEntry, error) {
	d.resolvePending()

	for {
		if len(d.stack) == 0 {
			if d.rootIdx >= len(d.roots) {
				return nil, io.EOF
			}
			root := d.roots[d.rootIdx]
			d.rootIdx++
			e, err := d.openRoot(root)
			if err != nil {
				continue
			}
			return d.deliver(e), nil
		}

		top := d.stack[len(d.stack)-1]
		if top.idx >= len(top.entries) {
			if !top.postEmitted {
				top.postEmitted = true
				if len(d.ancestors) > 0 {
					d.ancestors = d.ancestors[:len(d.ancestors)-1]
				}
				e := &driverEntry{
					FullPath: top.path,
					Name:     filepath.Base(top.path),
					PathLen:  len(top.path),
					NameLen:  len(filepath.Base(top.path)),
					Depth:    top.depth,
					Dev:      top.dev,
					Ino:      top.ino,
					Tag:      tagDP,
				}
				return d.deliver(e), nil
			}
			d.stack = d.stack[:len(d.stack)-1]
			continue
		}

		child := top.entries[top.idx]
		top.idx++
		e, err := d.classify(top, child)
		if err != nil {
			continue
		}
		return d.deliver(e), nil
	}
}

func (d *driver) deliver(e *driverEntry) *driverEntry {
	d.lastEntry = e
	d.directive = directiveNone
	return e
}

// Skip marks e's subtree (for a directory) or target (for a symlink) as
// not to be descended into. It takes effect at the start of the next
// call to Next.
func (d *driver) Skip(e *driverEntry) {
	if e == d.lastEntry {
		d.directive = directiveSkip
	}
}

// Follow marks e, a symlink entry, to be resolved and descended into as
// if it were a directory. It takes effect at the start of the next call
// to Next.
func (d *driver) Follow(e *driverEntry) {
	if e == d.lastEntry {
		d.directive = directiveFollow
	}
}

func (d *driver) resolvePending() {
	defer func() { d.directive = directiveNone }()

	if d.lastEntry == nil || d.directive == directiveNone {
		return
	}

	switch {
	case d.lastEntry.Tag == tagD && d.directive == directiveSkip:
		if len(d.stack) > 0 {
			top := d.stack[len(d.stack)-1]
			if top.path == d.lastEntry.FullPath && top.idx == 0 && !top.postEmitted {
				d.stack = d.stack[:len(d.stack)-1]
				if len(d.ancestors) > 0 {
					d.ancestors = d.ancestors[:len(d.ancestors)-1]
				}
			}
		}
	case d.lastEntry.Tag == tagSL && d.directive == directiveFollow:
		frame, err := d.openDir(d.lastEntry.FullPath, d.lastEntry.Depth)
		if err == nil {
			d.stack = append(d.stack, frame)
			d.ancestors = append(d.ancestors, devIno{frame.dev, frame.ino})
		}
	}
}

func (d *driver) openRoot(path string) (*driverEntry, error) {
	lst, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}

	clean := filepath.Clean(path)
	isSymlink := lst.Mode()&os.ModeSymlink != 0

	fi := lst
	if isSymlink && d.comFollow {
		resolved, err := os.Stat(path)
		if err != nil {
			return d.leafEntry(clean, lst, 0, tagSLNONE), nil
		}
		fi = resolved
	}

	if fi.IsDir() {
		frame, err := d.openDir(clean, 0)
		if err != nil {
			return nil, err
		}
		d.stack = append(d.stack, frame)
		d.ancestors = append(d.ancestors, devIno{frame.dev, frame.ino})
		return &driverEntry{
			FullPath: clean, Name: filepath.Base(clean),
			PathLen: len(clean), NameLen: len(filepath.Base(clean)),
			Depth: 0, Dev: frame.dev, Ino: frame.ino, Tag: tagD,
		}, nil
	}

	if isSymlink {
		return d.leafEntry(clean, lst, 0, tagSL), nil
	}
	return d.leafEntry(clean, fi, 0, tagF), nil
}

func (d *driver) openDir(path string, depth int) (*dirFrame, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	dev, ino := statDevIno(st)
	return &dirFrame{path: path, depth: depth, entries: entries, dev: dev, ino: ino}, nil
}

func (d *driver) classify(top *dirFrame, child os.DirEntry) (*driverEntry, error) {
	full := filepath.Join(top.path, child.Name())
	depth := top.depth + 1

	lst, err := os.Lstat(full)
	if err != nil {
		return nil, err
	}

	if lst.Mode()&os.ModeSymlink != 0 {
		if _, err := os.Stat(full); err != nil {
			return d.leafEntry(full, lst, depth, tagSLNONE), nil
		}
		return d.leafEntry(full, lst, depth, tagSL), nil
	}

	if !lst.IsDir() {
		return d.leafEntry(full, lst, depth, tagF), nil
	}

	dev, ino := statDevIno(lst)
	for _, a := range d.ancestors {
		if a.dev == dev && a.ino == ino {
			return &driverEntry{
				FullPath: full, Name: child.Name(),
				PathLen: len(full), NameLen: len(child.Name()),
				Depth: depth, Dev: dev, Ino: ino, Tag: tagDC,
			}, nil
		}
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		// Unreadable directory: deliver it as a childless directory
		// entry rather than failing the whole walk.
		return &driverEntry{
			FullPath: full, Name: child.Name(),
			PathLen: len(full), NameLen: len(child.Name()),
			Depth: depth, Dev: dev, Ino: ino, Tag: tagD,
		}, nil
	}

	frame := &dirFrame{path: full, depth: depth, entries: entries, dev: dev, ino: ino}
	d.stack = append(d.stack, frame)
	d.ancestors = append(d.ancestors, devIno{dev, ino})
	return &driverEntry{
		FullPath: full, Name: child.Name(),
		PathLen: len(full), NameLen: len(child.Name()),
		Depth: depth, Dev: dev, Ino: ino, Tag: tagD,
	}, nil
}

func (d *driver) leafEntry(path string, fi os.FileInfo, depth int, tag ftsTag) *driverEntry {
	dev, ino := statDevIno(fi)
	name := filepath.Base(path)
	return &driverEntry{
		FullPath: path, Name: name,
		PathLen: len(path), NameLen: len(name),
		Depth: depth, Dev: dev, Ino: ino, Tag: tag,
	}
}

func statDevIno(fi os.FileInfo) (uint64, uint64) {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Dev), uint64(st.Ino)
	}
	return 0, 0
}
