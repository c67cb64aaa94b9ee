package kalki

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag back to its default; rootCmd is shared across
// runs and cobra keeps parsed values.
func resetFlags(cmd *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(cmd.Flags())
	reset(cmd.PersistentFlags())
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	stdout := &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("kalki %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// newTestEnv isolates config lookup and returns a fresh database path.
func newTestEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KALKI_CONFIG", "")
	t.Setenv("OPENAI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "kalki.db")
	mustRun(t, "--db", path, "init")
	return path
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func TestRootHelp(t *testing.T) {
	out, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(out, "progress") || !strings.Contains(out, "food") {
		t.Fatalf("expected help output listing commands, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "kalki.db")
	for i := 0; i < 2; i++ {
		out, err := runCLI(t, "--db", path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if !strings.Contains(out, path) {
			t.Fatalf("expected db path in output, got %q", out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "kalki ") {
		t.Fatalf("unexpected version output %q", out)
	}
}

type listedFood struct {
	ID       string
	Name     string
	Calories float64
	Meal     string
}

func TestFoodAndProgressFlow(t *testing.T) {
	path := newTestEnv(t)
	date := today()

	mustRun(t, "--db", path, "goal", "set", "--calories", "1800", "--protein", "100")
	mustRun(t, "--db", path, "food", "add", "--name", "Oatmeal", "--calories", "350", "--protein", "12", "--meal", "breakfast", "--date", date, "--time", "08:00")
	mustRun(t, "--db", path, "food", "add", "--name", "Chicken bowl", "--calories", "650", "--protein", "55", "--meal", "lunch", "--date", date, "--time", "12:30")

	var foods []listedFood
	if err := json.Unmarshal([]byte(mustRun(t, "--db", path, "food", "list", "--date", date, "--json")), &foods); err != nil {
		t.Fatalf("decode food list: %v", err)
	}
	if len(foods) != 2 || foods[0].Name != "Chicken bowl" || foods[1].Meal != "breakfast" {
		t.Fatalf("unexpected foods: %+v", foods)
	}

	show := mustRun(t, "--db", path, "food", "show", foods[1].ID)
	if !strings.Contains(show, "Name: Oatmeal") || !strings.Contains(show, "Calories: 350") {
		t.Fatalf("unexpected show output: %s", show)
	}

	var day dayReport
	if err := json.Unmarshal([]byte(mustRun(t, "--db", path, "progress", "day", "--json")), &day); err != nil {
		t.Fatalf("decode day report: %v", err)
	}
	if !day.Tracked || day.Calories != 1000 || day.CalorieGoal != 1800 || !day.GoalMet {
		t.Fatalf("unexpected day report: %+v", day)
	}
	if day.Protein != 67 || day.ProteinGoalMet {
		t.Fatalf("unexpected protein in day report: %+v", day)
	}
	if day.CurrentStreak != 1 || !day.InStreak {
		t.Fatalf("expected a one day streak, got %+v", day)
	}

	mustRun(t, "--db", path, "food", "update", foods[0].ID, "--name", "Big chicken bowl", "--calories", "1500", "--protein", "80")
	if err := json.Unmarshal([]byte(mustRun(t, "--db", path, "progress", "day", "--json")), &day); err != nil {
		t.Fatalf("decode day report: %v", err)
	}
	if day.Calories != 1850 || day.GoalMet || day.CurrentStreak != 0 {
		t.Fatalf("expected over-goal day after update, got %+v", day)
	}

	calendar := mustRun(t, "--db", path, "progress", "calendar")
	if !strings.Contains(calendar, "Mo  Tu") || !strings.Contains(calendar, fmt.Sprintf("%2d!", time.Now().Day())) {
		t.Fatalf("expected an over-goal marker in calendar, got:\n%s", calendar)
	}

	mustRun(t, "--db", path, "food", "delete", foods[0].ID)
	streak := mustRun(t, "--db", path, "progress", "streak")
	if !strings.Contains(streak, "Current streak: 1 days") {
		t.Fatalf("expected streak restored after delete, got %q", streak)
	}
	if _, err := runCLI(t, "--db", path, "food", "delete", foods[0].ID); err == nil {
		t.Fatalf("expected deleting a missing food to fail")
	}
}

func TestFoodAddValidation(t *testing.T) {
	path := newTestEnv(t)

	_, err := runCLI(t, "--db", path, "food", "add", "--name", "x", "--calories", "-1")
	if err == nil || !strings.Contains(err.Error(), "calories must be >= 0") {
		t.Fatalf("expected negative calories to fail, got %v", err)
	}
	_, err = runCLI(t, "--db", path, "food", "add", "--name", "x", "--time", "09:00")
	if err == nil || !strings.Contains(err.Error(), "--date is required when --time is set") {
		t.Fatalf("expected time without date to fail, got %v", err)
	}
	_, err = runCLI(t, "--db", path, "food", "add", "--name", "x", "--meal", "brunch")
	if err == nil {
		t.Fatalf("expected invalid meal to fail")
	}
	if _, err := runCLI(t, "--db", path, "food", "show", "not-a-uuid"); err == nil {
		t.Fatalf("expected invalid id to fail")
	}
}

func TestFoodAnalyzeWithMockProvider(t *testing.T) {
	path := newTestEnv(t)

	out := mustRun(t, "--db", path, "food", "analyze", "--detailed", "--meal", "dinner", "bowl", "of", "chili")
	if !strings.Contains(out, "Name: bowl of chili") || !strings.Contains(out, "Calories: 250") || !strings.Contains(out, "Meal: dinner") {
		t.Fatalf("unexpected analyze output: %s", out)
	}

	if _, err := runCLI(t, "--db", path, "food", "analyze", "--provider", "openai", "soup"); err == nil ||
		!strings.Contains(err.Error(), "missing OpenAI API key") {
		t.Fatalf("expected openai without a key to fail, got %v", err)
	}
	if _, err := runCLI(t, "--db", path, "food", "analyze", "--provider", "oracle", "soup"); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}
}

func TestGoalSetAndShow(t *testing.T) {
	path := newTestEnv(t)

	if _, err := runCLI(t, "--db", path, "goal", "set"); err == nil {
		t.Fatalf("expected goal set without flags to fail")
	}
	mustRun(t, "--db", path, "goal", "set", "--calories", "2100", "--minutes", "soon")
	out := mustRun(t, "--db", path, "goal", "show")
	if !strings.Contains(out, "Calories: 2100 kcal") || !strings.Contains(out, "Active minutes: 30") {
		t.Fatalf("unexpected goals: %s", out)
	}
}

func TestWeightCommands(t *testing.T) {
	path := newTestEnv(t)

	mustRun(t, "--db", path, "weight", "add", "--weight", "176", "--unit", "lb", "--date", "2026-02-01")
	mustRun(t, "--db", path, "weight", "add", "--weight", "79", "--date", "2026-02-15", "--note", "after holiday")

	out := mustRun(t, "--db", path, "weight", "list", "--unit", "lb")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], "after holiday") || !strings.Contains(lines[2], "176.0") {
		t.Fatalf("unexpected weight list:\n%s", out)
	}
	if _, err := runCLI(t, "--db", path, "weight", "add", "--weight", "0"); err == nil {
		t.Fatalf("expected zero weight to fail")
	}
}

func TestCalcApplySavesGoals(t *testing.T) {
	path := newTestEnv(t)

	out := mustRun(t, "--db", path, "calc", "--weight", "60", "--height", "165", "--age", "25", "--sex", "female", "--activity", "light", "--apply")
	if !strings.Contains(out, "BMR: 1345 kcal") || !strings.Contains(out, "TDEE: 1849 kcal") || !strings.Contains(out, "Saved as goals") {
		t.Fatalf("unexpected calc output: %s", out)
	}
	goals := mustRun(t, "--db", path, "goal", "show")
	if !strings.Contains(goals, "Calories: 1849 kcal") || !strings.Contains(goals, "Protein: 108 g") {
		t.Fatalf("expected applied goals, got %s", goals)
	}
}

func TestConfigCommands(t *testing.T) {
	path := newTestEnv(t)

	mustRun(t, "--db", path, "config", "set", "OPENAI_API_KEY", "sk-secret-9876")
	out := mustRun(t, "--db", path, "config", "get", "openai_api_key")
	if strings.TrimSpace(out) != "**********9876" {
		t.Fatalf("expected masked key, got %q", out)
	}
	all := mustRun(t, "--db", path, "config", "get")
	if !strings.Contains(all, "openai_api_key=") {
		t.Fatalf("expected key in listing, got %q", all)
	}
	if _, err := runCLI(t, "--db", path, "config", "get", "missing"); err == nil {
		t.Fatalf("expected unset key to fail")
	}
}

func TestProgressSummaryAndMonth(t *testing.T) {
	path := newTestEnv(t)
	date := today()

	mustRun(t, "--db", path, "food", "add", "--name", "Soup", "--calories", "400", "--protein", "20", "--meal", "lunch", "--date", date)

	out := mustRun(t, "--db", path, "progress", "summary")
	if !strings.Contains(out, "Tracked days: 1") || !strings.Contains(out, "lunch\t1\t400") {
		t.Fatalf("unexpected week summary:\n%s", out)
	}
	if _, err := runCLI(t, "--db", path, "progress", "summary", "--week", date, "--month", "2026-01"); err == nil {
		t.Fatalf("expected conflicting ranges to fail")
	}
	if _, err := runCLI(t, "--db", path, "progress", "summary", "--from", date); err == nil {
		t.Fatalf("expected --from without --to to fail")
	}

	month := mustRun(t, "--db", path, "progress", "month")
	if !strings.Contains(month, "Successful days: 1") || !strings.Contains(month, "Tracked days: 1") {
		t.Fatalf("unexpected month stats:\n%s", month)
	}
}

func TestProgressWatchStopsAfterDuration(t *testing.T) {
	path := newTestEnv(t)
	mustRun(t, "--db", path, "food", "add", "--name", "Toast", "--calories", "200", "--date", today())

	out, err := runCLI(t, "--db", path, "progress", "watch", "--for", "300ms")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !strings.Contains(out, "200/2000 kcal") {
		t.Fatalf("expected today's totals in watch output, got %q", out)
	}
}

func TestAchievementsCommand(t *testing.T) {
	newTestEnv(t)

	out := mustRun(t, "achievements", "--type", "protein")
	if !strings.Contains(out, "Balanced Diet") || strings.Contains(out, "Iron Man") {
		t.Fatalf("unexpected achievements output:\n%s", out)
	}
}

func TestParseDateHelpers(t *testing.T) {
	got, err := parseDateOrToday("2026-02-10")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.February || got.Day() != 10 || got.Hour() != 0 {
		t.Fatalf("unexpected date %v", got)
	}
	if _, err := parseDateOrToday("10/02/2026"); err == nil {
		t.Fatalf("expected error for malformed date")
	}

	noon, err := parseOptionalDateTime("2026-02-10", "")
	if err != nil {
		t.Fatalf("parse date without time: %v", err)
	}
	if noon.Hour() != 12 {
		t.Fatalf("expected noon for a date without time, got %v", noon)
	}
}
