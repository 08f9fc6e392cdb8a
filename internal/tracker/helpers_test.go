package tracker_test

import (
	"strings"
	"testing"

	"ticktock/internal/journal"
	"ticktock/internal/testutil"
	"ticktock/internal/tracker"
	"ticktock/internal/vault"
)

// fixture is a Store wired to in-memory collaborators.
type fixture struct {
	store    *tracker.Store
	settings *testutil.StubSettings
	files    *testutil.MockFilesystem
	vault    *vault.MemoryVault
	journal  *journal.SQLiteJournal
	clock    *testutil.StubClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		settings: testutil.NewStubSettings("/data"),
		files:    testutil.NewMockFilesystem(),
		vault:    testutil.NewTestVault(),
		journal:  testutil.NewTestJournal(t),
		clock:    testutil.FixedClock(),
	}
	f.store = f.newStore()
	return f
}

// newStore builds a second store over the same collaborators, as a
// restarted process would.
func (f *fixture) newStore() *tracker.Store {
	return tracker.NewStore(f.settings, f.files, f.vault, f.journal, tracker.NewNopLogger(), f.clock, testutil.NewStubIDGenerator())
}

func (f *fixture) dataFile() string {
	return f.settings.DataFile(f.settings.Environment())
}

// runningRecords counts running records in the project graph, split into
// project records and sub-activity records.
func runningRecords(s *tracker.Store) (projects, subs []string) {
	for _, p := range s.Projects() {
		for _, d := range p.Dates() {
			if p.Record(d).IsRunning() {
				projects = append(projects, p.Alias)
			}
		}
		for _, sub := range p.SubActivities() {
			for _, d := range sub.Dates() {
				if sub.Record(d).IsRunning() {
					subs = append(subs, p.Alias+"/"+sub.Alias)
				}
			}
		}
	}
	return projects, subs
}

// assertSingleRunning checks that at most one project timer runs and that
// a running sub-activity belongs to it.
func assertSingleRunning(t *testing.T, s *tracker.Store) {
	t.Helper()
	projects, subs := runningRecords(s)
	if len(projects) > 1 {
		t.Fatalf("running project records = %v, want at most one", projects)
	}
	if len(subs) > 1 {
		t.Fatalf("running sub-activity records = %v, want at most one", subs)
	}
	if len(subs) == 1 && (len(projects) == 0 || !strings.HasPrefix(subs[0], projects[0]+"/")) {
		t.Fatalf("running sub-activity %v does not belong to running project %v", subs, projects)
	}
}

func mustAdd(t *testing.T, s *tracker.Store, name, alias string) *tracker.Project {
	t.Helper()
	p, err := s.AddProject(name, "", alias, false)
	if err != nil {
		t.Fatalf("AddProject(%s) error = %v", alias, err)
	}
	return p
}
