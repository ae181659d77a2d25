package model

import (
	"testing"
	"time"
)

func TestDefaultSafetyClassFixedByKind(t *testing.T) {
	cases := map[ArtifactKind]SafetyClass{
		ArtifactDependencies: SafetyWithLockfile,
		ArtifactBuildOutput:  SafetyIfGitClean,
		ArtifactCache:        SafetyAlwaysSafe,
		ArtifactLockFile:     SafetyRequiresConfirmation,
		ArtifactDocker:       SafetyRequiresConfirmation,
	}
	for kind, want := range cases {
		if got := DefaultSafetyClass(kind); got != want {
			t.Errorf("DefaultSafetyClass(%v) = %v, want %v", kind, got, want)
		}
	}
}

func TestArtifactEffectiveSafetyAdvisoryDowngrades(t *testing.T) {
	a := Artifact{Safety: SafetyAlwaysSafe, Advisory: true}
	if got := a.EffectiveSafety(); got != SafetyNeverAuto {
		t.Errorf("advisory artifact EffectiveSafety() = %v, want SafetyNeverAuto", got)
	}

	b := Artifact{Safety: SafetyAlwaysSafe}
	if got := b.EffectiveSafety(); got != SafetyAlwaysSafe {
		t.Errorf("non-advisory artifact EffectiveSafety() = %v, want SafetyAlwaysSafe", got)
	}
}

func TestProjectTotalCleanableBytesSkipsNeverAuto(t *testing.T) {
	p := Project{
		Artifacts: []Artifact{
			{Bytes: 100, Safety: SafetyAlwaysSafe},
			{Bytes: 200, Safety: SafetyNeverAuto},
			{Bytes: 50, Safety: SafetyAlwaysSafe, Advisory: true}, // downgraded to NeverAuto
		},
	}
	if got := p.TotalCleanableBytes(); got != 100 {
		t.Errorf("TotalCleanableBytes() = %d, want 100", got)
	}
	if got := p.TotalBytes(); got != 350 {
		t.Errorf("TotalBytes() = %d, want 350 (includes never-auto and advisory artifacts)", got)
	}
}

func TestProjectDisplayNameIsBasename(t *testing.T) {
	p := Project{Path: "/home/dev/code/my-app"}
	if got := p.DisplayName(); got != "my-app" {
		t.Errorf("DisplayName() = %q, want %q", got, "my-app")
	}
}

func TestProjectWinningMarkerHighestPriority(t *testing.T) {
	p := Project{
		Markers: []ProjectMarker{
			{Indicator: "package.json", Priority: 5, Kind: KindNPM},
			{Indicator: "package-lock.json", Priority: 10, Kind: KindNPM},
		},
	}
	if got := p.WinningMarker(); got.Priority != 10 {
		t.Errorf("WinningMarker().Priority = %d, want 10", got.Priority)
	}
}

func TestProjectWinningMarkerEmpty(t *testing.T) {
	p := Project{}
	if got := p.WinningMarker(); got.Priority != 0 || got.Indicator != "" {
		t.Errorf("WinningMarker() on empty project = %+v, want zero value", got)
	}
}

func TestProjectMarkerMatchesExactName(t *testing.T) {
	m := ProjectMarker{Indicator: "Cargo.toml", IndicatorKind: IndicatorExactName}
	if !m.Matches([]string{"src", "Cargo.toml"}) {
		t.Error("expected exact-name marker to match")
	}
	if m.Matches([]string{"src"}) {
		t.Error("expected exact-name marker not to match when absent")
	}
}

func TestProjectMarkerMatchesExtension(t *testing.T) {
	m := ProjectMarker{Indicator: ".csproj", IndicatorKind: IndicatorExtension}
	if !m.Matches([]string{"App.csproj"}) {
		t.Error("expected extension marker to match App.csproj")
	}
	if m.Matches([]string{"App.sln"}) {
		t.Error("expected extension marker not to match .sln")
	}
}

func TestProjectMarkerMatchesGlob(t *testing.T) {
	m := ProjectMarker{Indicator: "*.egg-info", IndicatorKind: IndicatorGlob}
	if !m.Matches([]string{"mypkg.egg-info"}) {
		t.Error("expected glob marker to match mypkg.egg-info")
	}
	if m.Matches([]string{"mypkg"}) {
		t.Error("expected glob marker not to match plain dir")
	}
}

func TestProjectMarkerMatchesAnyOf(t *testing.T) {
	m := ProjectMarker{IndicatorKind: IndicatorAnyOf, AnyOf: []string{"Pipfile", "poetry.lock"}}
	if !m.Matches([]string{"poetry.lock"}) {
		t.Error("expected anyOf marker to match poetry.lock")
	}
	if m.Matches([]string{"requirements.txt"}) {
		t.Error("expected anyOf marker not to match unrelated file")
	}
}

func TestGitStatusProtectsNoneAlwaysAllows(t *testing.T) {
	g := GitStatus{IsRepo: true, Dirty: true}
	block, warn := g.Protects(ProtectionNone, true)
	if block || warn {
		t.Errorf("ProtectionNone should never block or warn, got block=%v warn=%v", block, warn)
	}
}

func TestGitStatusProtectsWarnNonRepo(t *testing.T) {
	g := GitStatus{IsRepo: false}
	block, warn := g.Protects(ProtectionWarn, false)
	if block {
		t.Error("warn level must never block")
	}
	if !warn {
		t.Error("warn level must warn on a non-repo directory")
	}
}

func TestGitStatusProtectsBlockUncommittedBlocksArtifact(t *testing.T) {
	g := GitStatus{IsRepo: true, Dirty: true, DirtyPaths: []string{"src/gen.go"}}
	block, warn := g.Protects(ProtectionBlock, true)
	if !block {
		t.Error("block level must block an artifact intersecting dirty paths")
	}
	if warn {
		t.Error("a blocked decision should not also carry a warning per spec invariant")
	}
}

func TestGitStatusProtectsBlockNonRepoWarnsOnly(t *testing.T) {
	g := GitStatus{IsRepo: false}
	block, warn := g.Protects(ProtectionBlock, false)
	if block {
		t.Error("block level must only warn, not block, on a non-repo directory")
	}
	if !warn {
		t.Error("block level must warn on a non-repo directory")
	}
}

func TestGitStatusProtectsParanoidBlocksNonRepo(t *testing.T) {
	g := GitStatus{IsRepo: false}
	block, _ := g.Protects(ProtectionParanoid, false)
	if !block {
		t.Error("paranoid level must block a non-repo directory")
	}
}

func TestGitStatusProtectsParanoidBlocksStash(t *testing.T) {
	g := GitStatus{IsRepo: true, StashCount: 1}
	block, _ := g.Protects(ProtectionParanoid, false)
	if !block {
		t.Error("paranoid level must block a repo with a stash present")
	}
}

func TestGitStatusProtectsAllowedNeverAlsoBlocked(t *testing.T) {
	// spec.md §8: for all protection results, (allowed = false) => blocked_reason present.
	// Here we check the complementary invariant never observed in this model:
	// block and warn are never both true.
	levels := []ProtectionLevel{ProtectionNone, ProtectionWarn, ProtectionBlock, ProtectionParanoid}
	statuses := []GitStatus{
		{IsRepo: false},
		{IsRepo: true},
		{IsRepo: true, Dirty: true},
		{IsRepo: true, StashCount: 2},
	}
	for _, lvl := range levels {
		for _, st := range statuses {
			for _, dirty := range []bool{true, false} {
				block, warn := st.Protects(lvl, dirty)
				if block && warn {
					t.Errorf("level=%v status=%+v dirty=%v: block and warn both true", lvl, st, dirty)
				}
			}
		}
	}
}

func TestCleanableItemToArtifactDangerousAbsentPathIsAdvisory(t *testing.T) {
	item := CleanableItem{
		Path:   "/nonexistent/path/that/should/not/exist-reclaim-test",
		Safety: SafetyLevelDangerous,
	}
	a := item.ToArtifact()
	if !a.Advisory {
		t.Error("a dangerous item whose path doesn't exist must become an advisory artifact")
	}
	if a.EffectiveSafety() != SafetyNeverAuto {
		t.Errorf("advisory artifact EffectiveSafety() = %v, want SafetyNeverAuto", a.EffectiveSafety())
	}
}

func TestCleanableItemToArtifactSafetyMapping(t *testing.T) {
	cases := map[SafetyLevel]SafetyClass{
		SafetyLevelSafe:         SafetyAlwaysSafe,
		SafetyLevelSafeWithCost: SafetyIfGitClean,
		SafetyLevelCaution:      SafetyRequiresConfirmation,
	}
	for level, want := range cases {
		item := CleanableItem{Path: "/tmp", Safety: level}
		a := item.ToArtifact()
		if a.Safety != want {
			t.Errorf("level %v -> Safety = %v, want %v", level, a.Safety, want)
		}
	}
}

func TestCleanableItemToArtifactCarriesFileCountAndModTime(t *testing.T) {
	n := 7
	mt := time.Now().Add(-time.Hour)
	item := CleanableItem{Path: "/tmp", FileCount: &n, LastModified: &mt, Bytes: 42}
	a := item.ToArtifact()
	if a.Files != 7 {
		t.Errorf("Files = %d, want 7", a.Files)
	}
	if !a.ModTime.Equal(mt) {
		t.Errorf("ModTime = %v, want %v", a.ModTime, mt)
	}
	if a.Bytes != 42 {
		t.Errorf("Bytes = %d, want 42", a.Bytes)
	}
}

func TestProgressAtomicCountersAndErrorList(t *testing.T) {
	p := &Progress{}
	p.AddFile(100)
	p.AddFile(200)
	p.AddProject()
	p.AddFreed(50)
	p.AddError("/bad/path", errTest{})
	p.SetCurrentPath("/scanning/here")

	snap := p.Snapshot()
	if snap.BytesScanned != 300 {
		t.Errorf("BytesScanned = %d, want 300", snap.BytesScanned)
	}
	if snap.ProjectsFound != 1 {
		t.Errorf("ProjectsFound = %d, want 1", snap.ProjectsFound)
	}
	if snap.BytesFreed != 50 {
		t.Errorf("BytesFreed = %d, want 50", snap.BytesFreed)
	}
	if snap.CurrentPath != "/scanning/here" {
		t.Errorf("CurrentPath = %q, want /scanning/here", snap.CurrentPath)
	}
	if len(p.Errors()) != 1 {
		t.Errorf("len(Errors()) = %d, want 1", len(p.Errors()))
	}
}

func TestProgressCancelledHappensBeforeSemantics(t *testing.T) {
	p := &Progress{}
	if p.Cancelled() {
		t.Fatal("new Progress must not start cancelled")
	}
	p.AddFile(10)
	p.Cancel()
	if !p.Cancelled() {
		t.Fatal("Cancel() must make Cancelled() observe true")
	}
	// A reader observing Cancelled() == true must see the prior write.
	if p.Snapshot().BytesScanned != 10 {
		t.Fatal("reader observing cancellation must see happened-before writes")
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
