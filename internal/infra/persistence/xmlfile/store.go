// Package xmlfile persists the full snapshot to a single XML document,
// rewritten atomically on every committed change.
package xmlfile

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"rostercore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.SnapshotStore = (*Store)(nil)

// Store writes snapshots to path via a temp file plus rename.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore builds an XML file store at path, creating parent directories.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "rostercore.xml"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Path returns the configured file path.
func (s *Store) Path() string { return s.path }

type xmlDocument struct {
	XMLName  xml.Name     `xml:"rosterbook"`
	Contacts []xmlContact `xml:"contact"`
	Groups   []xmlGroup   `xml:"group"`
}

type xmlContact struct {
	Name   string   `xml:"name,attr"`
	Room   string   `xml:"room,attr,omitempty"`
	Phone  string   `xml:"phone,attr,omitempty"`
	Email  string   `xml:"email,attr,omitempty"`
	School string   `xml:"school,attr,omitempty"`
	Tags   []string `xml:"tag"`
}

type xmlGroup struct {
	Name        string     `xml:"name,attr"`
	Head        string     `xml:"head,attr,omitempty"`
	ViceHead    string     `xml:"viceHead,attr,omitempty"`
	Budget      string     `xml:"budget,attr"`
	Spent       string     `xml:"spent,attr"`
	Outstanding string     `xml:"outstanding,attr"`
	Entries     []xmlEntry `xml:"entry"`
}

type xmlEntry struct {
	Num     int    `xml:"num,attr"`
	Date    string `xml:"date,attr"`
	Amount  string `xml:"amount,attr"`
	Remarks string `xml:"remarks,attr,omitempty"`
}

func adaptSnapshot(snapshot domain.Snapshot) xmlDocument {
	doc := xmlDocument{}
	for _, c := range snapshot.Contacts {
		doc.Contacts = append(doc.Contacts, xmlContact{
			Name: c.Name, Room: c.Room, Phone: c.Phone, Email: c.Email, School: c.School,
			Tags: append([]string(nil), c.Tags...),
		})
	}
	for _, g := range snapshot.Groups {
		xg := xmlGroup{
			Name: g.Name, Head: g.Head, ViceHead: g.ViceHead,
			Budget:      g.Budget.String(),
			Spent:       g.Spent.String(),
			Outstanding: g.Outstanding.String(),
		}
		for _, e := range g.Entries {
			xg.Entries = append(xg.Entries, xmlEntry{
				Num: e.Num, Date: e.Date, Amount: e.Amount.String(), Remarks: e.Remarks,
			})
		}
		doc.Groups = append(doc.Groups, xg)
	}
	return doc
}

func (d xmlDocument) toSnapshot() (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	for _, c := range d.Contacts {
		snapshot.Contacts = append(snapshot.Contacts, domain.Contact{
			Name: c.Name, Room: c.Room, Phone: c.Phone, Email: c.Email, School: c.School,
			Tags: append([]string(nil), c.Tags...),
		})
	}
	for _, g := range d.Groups {
		budget, err := decimal.NewFromString(g.Budget)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode budget for %s: %w", g.Name, err)
		}
		spent, err := decimal.NewFromString(g.Spent)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode spent for %s: %w", g.Name, err)
		}
		outstanding, err := decimal.NewFromString(g.Outstanding)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode outstanding for %s: %w", g.Name, err)
		}
		dg := domain.Group{
			Name: g.Name, Head: g.Head, ViceHead: g.ViceHead,
			Budget: budget, Spent: spent, Outstanding: outstanding,
		}
		for _, e := range g.Entries {
			amount, err := decimal.NewFromString(e.Amount)
			if err != nil {
				return domain.Snapshot{}, fmt.Errorf("decode entry amount for %s: %w", g.Name, err)
			}
			dg.Entries = append(dg.Entries, domain.Entry{
				Num: e.Num, Date: e.Date, Amount: amount, Remarks: e.Remarks,
			})
		}
		snapshot.Groups = append(snapshot.Groups, dg)
	}
	return snapshot, nil
}

// Save implements domain.SnapshotStore. The document is written to a sibling
// temp file and renamed into place so readers never observe a torn write.
func (s *Store) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := xml.MarshalIndent(adaptSnapshot(snapshot), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".rosterbook-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(append([]byte(xml.Header), data...)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Load implements domain.SnapshotStore. A missing file means no snapshot has
// been saved yet.
func (s *Store) Load(context.Context) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("read snapshot file: %w", err)
	}
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("decode snapshot file: %w", err)
	}
	snapshot, err := doc.toSnapshot()
	if err != nil {
		return domain.Snapshot{}, false, err
	}
	return snapshot, true, nil
}
