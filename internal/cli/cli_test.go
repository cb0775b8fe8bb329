package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tutu-network/reimburse/internal/domain"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run("./reimburse", args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func runCtl(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = RunCtl(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// ─── Calculate ──────────────────────────────────────────────────────────────

func TestCalculate_Output(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"3", "100", "50"}, "295.00\n"},
		{[]string{"3", "100", "50.49"}, "305.00\n"},
		{[]string{"5", "900", "0"}, "1426.32\n"},
		{[]string{"5", "1100", "0"}, "1689.55\n"},
		{[]string{"5", "500", "1000"}, "1351.17\n"},
		{[]string{"abc", "100", "50"}, "0.00\n"},
		{[]string{"0", "100", "50"}, "0.00\n"},
		{[]string{"-3", "100", "50"}, "0.00\n"},
		{[]string{"3", "-100", "50"}, "215.00\n"},
		{[]string{"3", "inf", "0"}, "inf\n"},
		{[]string{"3", "1e309", "0"}, "inf\n"},
		{[]string{"rates", "100", "50"}, "0.00\n"},
		{[]string{"eval", "100", "50"}, "0.00\n"},
		{[]string{"help", "100", "50"}, "0.00\n"},
		{[]string{"serve", "--port", "1"}, "0.00\n"},
		{[]string{"__complete", "100", "50"}, "0.00\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args...)
			if code != 0 {
				t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
			if stderr != "" {
				t.Errorf("stderr = %q, want empty", stderr)
			}
		})
	}
}

func TestCalculate_WrongArity(t *testing.T) {
	const usage = "Usage: ./reimburse <trip_duration_days> <miles_traveled> <total_receipts_amount>\n"

	for _, args := range [][]string{
		nil,
		{"3"},
		{"3", "100"},
		{"3", "100", "50", "extra"},
		{"--help"},
		{"version"},
		{"rates"},
		{"serve"},
		{"help"},
		{"eval", "cases.json"},
		{"__complete"},
	} {
		code, stdout, stderr := run(t, args...)
		if code != 1 {
			t.Errorf("%v: exit code = %d, want 1", args, code)
		}
		if stdout != "" {
			t.Errorf("%v: stdout = %q, want empty", args, stdout)
		}
		if stderr != usage {
			t.Errorf("%v: stderr = %q, want %q", args, stderr, usage)
		}
	}
}

// ─── reimbursectl ───────────────────────────────────────────────────────────

func TestVersion(t *testing.T) {
	code, stdout, _ := runCtl(t, "version")
	if code != 0 || !strings.HasPrefix(stdout, "reimbursectl ") {
		t.Errorf("version = %d %q", code, stdout)
	}
}

func TestRates_Table(t *testing.T) {
	code, stdout, _ := runCtl(t, "rates")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"mileage_rate_mega", "1.3348", "fww_receipt_rate", "0.8187", "lucky_cents_bonus"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("rates output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRates_JSONWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[rates]\nper_diem_std = 90\n"), 0600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runCtl(t, "rates", "--json", "--config", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	var rates domain.Rates
	if err := json.Unmarshal([]byte(stdout), &rates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rates.PerDiemStd != 90 {
		t.Errorf("PerDiemStd = %v, want 90", rates.PerDiemStd)
	}
}

func TestRates_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[nope]\nx = 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCtl(t, "rates", "--config", path)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "Error: invalid configuration") {
		t.Errorf("stderr = %q", stderr)
	}
}

func writeCases(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.json")
	body := `[
		{"input": {"trip_duration_days": 3, "miles_traveled": 100, "total_receipts_amount": 50}, "expected_output": 295.00},
		{"input": {"trip_duration_days": 5, "miles_traveled": 900, "total_receipts_amount": 0}, "expected_output": 1430.32}
	]`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiet.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEval_Text(t *testing.T) {
	code, stdout, stderr := runCtl(t, "eval", writeCases(t), "--config", quietConfig(t))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	for _, want := range []string{"Evaluated 2 cases", "Exact matches (±0.01): 1 (50.0%)", "Worst cases:", "mega_trip"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("eval output missing %q:\n%s", want, stdout)
		}
	}
}

func TestEval_JSON(t *testing.T) {
	code, stdout, stderr := runCtl(t, "eval", writeCases(t), "--json", "--worst", "1", "--config", quietConfig(t))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	var report struct {
		Summary domain.EvalSummary  `json:"summary"`
		Worst   []domain.CaseResult `json:"worst"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if report.Summary.Cases != 2 || report.Summary.ExactMatches != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if len(report.Worst) != 1 || report.Worst[0].Index != 1 {
		t.Errorf("worst = %+v, want case 1 only", report.Worst)
	}
}

func TestEval_MissingFile(t *testing.T) {
	code, _, stderr := runCtl(t, "eval", filepath.Join(t.TempDir(), "none.json"))
	if code != 1 || !strings.HasPrefix(stderr, "Error: load") {
		t.Errorf("eval missing file = %d %q", code, stderr)
	}
}

func TestServe_BadPortFlag(t *testing.T) {
	code, _, stderr := runCtl(t, "serve", "--port", "70000")
	if code != 1 || !strings.Contains(stderr, "api.port") {
		t.Errorf("serve --port 70000 = %d %q", code, stderr)
	}
}

func TestCtl_UnknownCommand(t *testing.T) {
	code, _, stderr := runCtl(t, "3", "100", "50")
	if code != 1 || !strings.HasPrefix(stderr, "Error: unknown command") {
		t.Errorf("reimbursectl 3 100 50 = %d %q", code, stderr)
	}
}
