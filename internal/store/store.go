package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"outline-cli/internal/model"
)

const (
	storeDirName     = ".outline"
	eventsFileName   = "events.jsonl"
	sqliteFileName   = "index.sqlite"
	tuiStateFileName = "tui_state.json"
)

// DB is the in-memory workspace state: documents plus their blocks.
// Blocks are held in document order (Seq); Save renumbers Seq from the
// slice order per document.
type DB struct {
	Version   int              `json:"version"`
	Documents []model.Document `json:"documents"`
	Blocks    []model.Block    `json:"blocks"`
}

// Store reads and writes one workspace directory (the .outline dir).
type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .outline directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace dir for the CWD, creating nothing.
func DefaultDir() (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return DiscoverDir(wd)
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	normalizeSeqs(db)
	return s.SaveSQLite(context.Background(), db)
}

func normalizeSeqs(db *DB) {
	byDoc := map[string][]int{}
	for i := range db.Blocks {
		byDoc[db.Blocks[i].DocumentID] = append(byDoc[db.Blocks[i].DocumentID], i)
	}
	for _, idxs := range byDoc {
		sort.SliceStable(idxs, func(a, b int) bool {
			return db.Blocks[idxs[a]].Seq < db.Blocks[idxs[b]].Seq
		})
		for seq, i := range idxs {
			db.Blocks[i].Seq = seq
		}
	}
}

func (db *DB) FindDocument(id string) (*model.Document, bool) {
	for i := range db.Documents {
		if db.Documents[i].ID == id {
			return &db.Documents[i], true
		}
	}
	return nil, false
}

func (db *DB) FindBlock(id string) (*model.Block, bool) {
	for i := range db.Blocks {
		if db.Blocks[i].ID == id {
			return &db.Blocks[i], true
		}
	}
	return nil, false
}

// DocumentBlocks returns the blocks of one document in document order.
func (db *DB) DocumentBlocks(docID string) []model.Block {
	var out []model.Block
	for _, b := range db.Blocks {
		if b.DocumentID == docID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// ReplaceDocumentBlocks swaps one document's blocks for the given rows
// (typically the flat sequence of a mutated tree), leaving other documents
// untouched.
func (db *DB) ReplaceDocumentBlocks(docID string, rows []model.Block) {
	kept := db.Blocks[:0]
	for _, b := range db.Blocks {
		if b.DocumentID != docID {
			kept = append(kept, b)
		}
	}
	for i, b := range rows {
		b.DocumentID = docID
		b.Seq = i
		kept = append(kept, b)
	}
	db.Blocks = kept
}

// RemoveDocument deletes the document and cascades to its blocks.
func (db *DB) RemoveDocument(docID string) {
	keptDocs := db.Documents[:0]
	for _, d := range db.Documents {
		if d.ID != docID {
			keptDocs = append(keptDocs, d)
		}
	}
	db.Documents = keptDocs
	keptBlocks := db.Blocks[:0]
	for _, b := range db.Blocks {
		if b.DocumentID != docID {
			keptBlocks = append(keptBlocks, b)
		}
	}
	db.Blocks = keptBlocks
}

// NextID returns a fresh prefixed id that does not collide with any
// existing document or block id. Ids are never reused.
func (s Store) NextID(db *DB, prefix string) string {
	for i := 0; i < 50; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failure fallback; keep ids unique by counting up.
	for n := len(db.Documents) + len(db.Blocks) + 1; ; n++ {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !idExists(db, id) {
			return id
		}
	}
}

func idExists(db *DB, id string) bool {
	id = strings.TrimSpace(id)
	for _, d := range db.Documents {
		if d.ID == id {
			return true
		}
	}
	for _, b := range db.Blocks {
		if b.ID == id {
			return true
		}
	}
	return false
}
