// Package install implements the Installation aggregate: a rooted directory tree holding an active build's
// '.build.info', its archive+index data, and the residency/hardlink/ecache/indices collaborator state.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ngdp-go/casc/blte"
	"github.com/ngdp-go/casc/bpsv"
	"github.com/ngdp-go/casc/casc/container"
	"github.com/ngdp-go/casc/casc/index"
	"github.com/ngdp-go/casc/casc/kmt"
	"github.com/ngdp-go/casc/casc/loose"
	"github.com/ngdp-go/casc/cryptoutil"
	"github.com/ngdp-go/casc/fsutil"
	"github.com/ngdp-go/casc/key"
)

// State is the lifecycle state of an Installation.
type State int

const (
	// StateClosed is the zero state: no containers are open.
	StateClosed State = iota
	// StateOpen is the normal operating state.
	StateOpen
	// StateNeedsRepair is entered when corruption is detected and never silently recovered.
	StateNeedsRepair
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpen:
		return "Open"
	case StateNeedsRepair:
		return "NeedsRepair"
	default:
		return "Unknown"
	}
}

// Installation is the top-level handle over a '<root>/Data' tree: its active build descriptor, its dynamic
// container, and the supporting residency/hardlink/ecache collaborators.
type Installation struct {
	Root  string
	state State

	BuildInfo *bpsv.Document

	Dynamic   *container.Dynamic
	Residency *container.Residency
	HardLink  *container.HardLink
	Loose     *loose.Store
	ECache    *ECache

	metrics *Metrics
	shmem   *ShmemControlBlock
}

// layout returns the fixed subdirectory paths under root's Data tree.
type layout struct {
	data      string
	config    string
	indices   string
	residency string
	ecache    string
	hardlink  string
}

func newLayout(root string) layout {
	data := filepath.Join(root, "Data")

	return layout{
		data:      filepath.Join(data, "data"),
		config:    filepath.Join(data, "config"),
		indices:   filepath.Join(data, "indices"),
		residency: filepath.Join(data, "residency"),
		ecache:    filepath.Join(data, "ecache"),
		hardlink:  filepath.Join(data, "hardlink"),
	}
}

// Open opens (creating if absent) the installation rooted at root, bringing up every collaborator directory and
// container. A missing '.build.info' is not an error: a freshly initialised installation has none until its first
// build is installed.
func Open(root string, widths index.FieldWidths) (*Installation, error) {
	l := newLayout(root)

	for _, dir := range []string{l.data, l.indices, l.residency, l.ecache, l.hardlink} {
		if err := fsutil.Mkdir(dir, 0, true, true); err != nil {
			return nil, fmt.Errorf("install: create %s: %w", dir, err)
		}
	}

	buildInfo, err := readBuildInfo(root)
	if err != nil {
		return nil, err
	}

	dyn, err := container.OpenDynamic(l.data, l.data, 0, widths, container.ReadWrite)
	if err != nil {
		return nil, fmt.Errorf("install: open dynamic container: %w", err)
	}

	// New locations land in a key-mapping-table overlay as well as the bucket update pages, so a hot write path
	// never waits on a bucket rewrite.
	dyn.AttachKMT(kmt.New())

	looseStore, err := loose.Open(l.config)
	if err != nil {
		return nil, fmt.Errorf("install: open loose-file store: %w", err)
	}

	residency, err := container.OpenResidency(l.residency, container.ReadWrite)
	if err != nil {
		return nil, fmt.Errorf("install: open residency container: %w", err)
	}

	hardlink, err := container.OpenHardLink(l.hardlink, residency, container.ReadWrite)
	if err != nil {
		return nil, fmt.Errorf("install: open hardlink container: %w", err)
	}

	ecache, err := openECache(l.ecache)
	if err != nil {
		return nil, fmt.Errorf("install: open ecache: %w", err)
	}

	shmem, err := openShmem(l.data)
	if err != nil {
		return nil, fmt.Errorf("install: open shmem control block: %w", err)
	}

	inst := &Installation{
		Root:      root,
		state:     StateOpen,
		BuildInfo: buildInfo,
		Dynamic:   dyn,
		Residency: residency,
		HardLink:  hardlink,
		Loose:     looseStore,
		ECache:    ecache,
		metrics:   NewMetrics(),
		shmem:     shmem,
	}

	inst.metrics.Opens.Inc()

	return inst, nil
}

// readBuildInfo loads and parses '<root>/.build.info', returning (nil, nil) if it does not yet exist.
func readBuildInfo(root string) (*bpsv.Document, error) {
	path := filepath.Join(root, ".build.info")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("install: read .build.info: %w", err)
	}

	doc, err := bpsv.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("install: parse .build.info: %w", err)
	}

	return doc, nil
}

// WriteBuildInfo atomically replaces '.build.info' with doc's encoded form and adopts it as the installation's
// active build descriptor.
func (i *Installation) WriteBuildInfo(doc *bpsv.Document) error {
	path := filepath.Join(i.Root, ".build.info")

	if err := fsutil.Atomic(path, func(temp string) error {
		return fsutil.WriteFile(temp, []byte(bpsv.Encode(doc)), 0o644)
	}); err != nil {
		return fmt.Errorf("install: write .build.info: %w", err)
	}

	i.BuildInfo = doc

	return nil
}

// State returns the installation's current lifecycle state.
func (i *Installation) State() State {
	return i.state
}

// MarkNeedsRepair transitions the installation to StateNeedsRepair; corruption is never silently recovered from
//.
func (i *Installation) MarkNeedsRepair(reason string) {
	i.state = StateNeedsRepair
	i.metrics.Repairs.Inc()
	_ = reason // surfaced to callers via logging at the call site, not stored
}

// EncodingSpec selects how Write assembles its BLTE stream before deriving the resulting EKey. It mirrors
// blte.EncodeSingle's mode byte rather than inventing a parallel vocabulary.
type EncodingSpec struct {
	// Mode is the BLTE chunk mode: blte.ModeNone or blte.ModeLZ4. The installation's Dynamic container only stores
	// mode-none chunks today (see container.Dynamic.Write), so any other mode is rejected.
	Mode byte
}

// NoEncoding is the default EncodingSpec: a single uncompressed BLTE chunk.
var NoEncoding = EncodingSpec{Mode: blte.ModeNone}

// Read returns the decompressed bytes stored for ekey, consulting the dynamic container first, then the hardlink
// container, then the loose-file store, for content the dynamic container never held locally.
func (i *Installation) Read(ctx context.Context, ekey key.EKey) ([]byte, error) {
	i.metrics.Reads.Inc()

	data, err := i.Dynamic.Read(ctx, ekey)
	if err == nil {
		return data, nil
	}

	if _, ok := err.(*container.NotFoundError); !ok {
		return nil, fmt.Errorf("install: read %s: %w", ekey, err)
	}

	if data, hlErr := i.HardLink.Read(ctx, ekey); hlErr == nil {
		return data, nil
	}

	if ok, _ := i.Loose.Has(ekey); ok {
		return i.Loose.Decode(ekey, nil)
	}

	return nil, fmt.Errorf("install: read %s: %w", ekey, err)
}

// Write assembles data into a BLTE stream per spec, derives its EKey as the MD5 of the assembled stream (key.EKey is
// "the MD5 of an assembled BLTE stream"), and stores it in the dynamic container under that key.
func (i *Installation) Write(ctx context.Context, data []byte, spec EncodingSpec) (key.EKey, error) {
	encoded, err := blte.EncodeSingle(data, spec.Mode)
	if err != nil {
		return key.EKey{}, fmt.Errorf("install: encode: %w", err)
	}

	ekey := key.EKey(cryptoutil.Sum(encoded))

	if spec.Mode != blte.ModeNone {
		return key.EKey{}, fmt.Errorf("install: write %s: dynamic container only supports ModeNone, got %q", ekey, spec.Mode)
	}

	if _, err := i.Dynamic.Write(ctx, ekey, data); err != nil {
		return key.EKey{}, fmt.Errorf("install: write %s: %w", ekey, err)
	}

	i.metrics.Writes.Inc()

	return ekey, nil
}

// Contains reports whether ekey is present in the dynamic container, the hardlink container, or the loose-file
// store, without reading its bytes.
func (i *Installation) Contains(ctx context.Context, ekey key.EKey) (bool, error) {
	if qr, err := i.Dynamic.Query(ctx, ekey); err != nil {
		return false, fmt.Errorf("install: query %s: %w", ekey, err)
	} else if qr.HasData {
		return true, nil
	}

	qr, err := i.HardLink.Query(ctx, ekey)
	if err != nil {
		return false, fmt.Errorf("install: query %s: %w", ekey, err)
	}

	if qr.HasData {
		return true, nil
	}

	ok, err := i.Loose.Has(ekey)
	if err != nil {
		return false, fmt.Errorf("install: query %s: %w", ekey, err)
	}

	return ok, nil
}

// Keys returns every truncated encoding key currently held by the dynamic container, across all 16 index buckets'
// sorted sections and any still-pending update pages.
func (i *Installation) Keys() []key.Truncated {
	seen := make(map[key.Truncated]struct{})

	var out []key.Truncated

	add := func(k key.Truncated) {
		if _, ok := seen[k]; ok {
			return
		}

		seen[k] = struct{}{}

		out = append(out, k)
	}

	for id := uint8(0); id < key.NumBuckets; id++ {
		b := i.Dynamic.IndexBucket(id)
		if b == nil {
			continue
		}

		for _, e := range b.Sorted() {
			add(e.Key)
		}

		for _, e := range b.Pending() {
			add(e.Key)
		}
	}

	return out
}

// Metrics returns the installation's counters, for registration against a caller-owned prometheus.Registerer.
func (i *Installation) Metrics() *Metrics {
	return i.metrics
}

// SessionID returns the installation's process-coordination session identifier from its '.shmem' control block.
func (i *Installation) SessionID() uuid.UUID {
	return i.shmem.SessionID
}

// Close flushes pending index state and releases every open container/database handle.
func (i *Installation) Close() error {
	i.metrics.Closes.Inc()
	i.state = StateClosed

	var firstErr error

	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(i.Dynamic.Flush())
	record(i.Dynamic.Close())
	record(i.Residency.Close())
	record(i.ECache.Close())
	record(i.shmem.Close())

	return firstErr
}
