package report_generator

import (
	"bytes"
	"github.com/meysamhadeli/sandkit/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const testSHA256 = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func testSample() Sample {
	return Sample{
		Name:         "invoice.exe",
		Arguments:    "/silent",
		SizeKB:       12,
		SHA256:       testSHA256,
		MD5:          "900150983cd24fb0d6963f7d28e17f72",
		Timeout:      90 * time.Second,
		NetworkState: "internet",
	}
}

func newTestGenerator(t *testing.T) (*ReportGenerator, string) {
	t.Helper()
	reportsDir := filepath.Join(t.TempDir(), "reports")
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	generator := NewReportGenerator(reportsDir, DefaultDirMode, logger.NewNop()).
		WithClock(func() time.Time { return fixed })
	return generator, reportsDir
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func readReport(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestAppend_CreatesDirectoryAndHeader(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)

	path, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, testSample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(reportsDir, testSHA256, "index.html"), path)

	report := readReport(t, path)
	assert.True(t, strings.HasPrefix(report, "<!DOCTYPE html>"))
	assert.Contains(t, report, "<title>Report: invoice.exe</title>")
	assert.Contains(t, report, "<td>/silent</td>")
	assert.Contains(t, report, "<td>12 Kb</td>")
	assert.Contains(t, report, `href="https://www.virustotal.com/gui/search/`+testSHA256+`"`)
	assert.Contains(t, report, "<td>900150983cd24fb0d6963f7d28e17f72</td>")
	assert.Contains(t, report, "<td>2024-03-09 14:05:07</td>")
	assert.Contains(t, report, "<td>90 seconds</td>")
	assert.Contains(t, report, "<td>internet</td>")
	assert.Contains(t, report, "<b>Task:</b> win10_clean<br>")
}

func TestAppend_TwiceKeepsOneHeaderAndTwoTaskBlocks(t *testing.T) {
	generator, _ := newTestGenerator(t)
	task := Task{VM: "win10", Snapshot: "clean"}

	_, err := generator.Append(task, testSample())
	require.NoError(t, err)
	path, err := generator.Append(task, testSample())
	require.NoError(t, err)

	report := readReport(t, path)
	assert.Equal(t, 1, strings.Count(report, "<!DOCTYPE html>"))
	assert.Equal(t, 1, strings.Count(report, "<caption><h4>File info:</h4></caption>"))
	assert.Equal(t, 2, strings.Count(report, "<b>Task:</b> win10_clean"))
}

func TestAppend_ListsPresentArtifactsOnly(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)
	sampleDir := filepath.Join(reportsDir, testSHA256)
	touch(t, sampleDir, "win10_clean.webm")
	touch(t, sampleDir, "win10_clean.dmp")
	touch(t, sampleDir, "win7_clean.pcap")

	path, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, testSample())
	require.NoError(t, err)

	report := readReport(t, path)
	assert.Contains(t, report, `<a href="./win10_clean.webm" target="_blank">Screen recording</a>`)
	assert.Contains(t, report, `<a href="./win10_clean.dmp" target="_blank">Memory dump</a>`)
	assert.NotContains(t, report, "Traffic dump")
	assert.NotContains(t, report, "win7_clean.pcap")
}

func TestAppend_ScreenshotsMatchTaskPattern(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)
	sampleDir := filepath.Join(reportsDir, testSHA256)
	touch(t, sampleDir, "win10_clean_10.png")
	touch(t, sampleDir, "win10_clean_2.png")
	touch(t, sampleDir, "win10_clean_1.png")
	touch(t, sampleDir, "win10_clean_x.png")
	touch(t, sampleDir, "win10_clean_3.jpg")
	touch(t, sampleDir, "xwin10_clean_4.png")
	touch(t, sampleDir, "win7_clean_1.png")

	path, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, testSample())
	require.NoError(t, err)

	report := readReport(t, path)
	assert.Equal(t, 3, strings.Count(report, "<img "))
	first := strings.Index(report, `src="./win10_clean_1.png"`)
	second := strings.Index(report, `src="./win10_clean_2.png"`)
	tenth := strings.Index(report, `src="./win10_clean_10.png"`)
	require.True(t, first > 0 && second > 0 && tenth > 0)
	assert.Less(t, first, second)
	assert.Less(t, second, tenth)
	assert.Contains(t, report, `<a href="./win10_clean_1.png" target="_blank"><img src="./win10_clean_1.png" width="120" height="100"></a>`)
}

func TestAppend_TaskNamesAreMatchedLiterally(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)
	sampleDir := filepath.Join(reportsDir, testSHA256)
	touch(t, sampleDir, "win10_a.b_1.png")
	touch(t, sampleDir, "win10_aXb_1.png")

	path, err := generator.Append(Task{VM: "win10", Snapshot: "a.b"}, testSample())
	require.NoError(t, err)

	report := readReport(t, path)
	assert.Contains(t, report, "win10_a.b_1.png")
	assert.NotContains(t, report, "win10_aXb_1.png")
}

func TestAppend_EscapesMarkup(t *testing.T) {
	generator, _ := newTestGenerator(t)
	sample := testSample()
	sample.Name = `<script>alert(1)</script>.exe`

	path, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, sample)
	require.NoError(t, err)

	report := readReport(t, path)
	assert.NotContains(t, report, "<script>")
	assert.Contains(t, report, "&lt;script&gt;")
}

func TestAppend_MissingHash(t *testing.T) {
	generator, _ := newTestGenerator(t)
	sample := testSample()
	sample.SHA256 = ""

	_, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, sample)
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestAppend_RejectsHashOutsideReportsDirectory(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)

	for _, hash := range []string{
		"../escaped",
		"../../escaped",
		strings.ToUpper(testSHA256),
		testSHA256[:63],
		testSHA256 + "0",
		"/" + testSHA256,
	} {
		sample := testSample()
		sample.SHA256 = hash

		_, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, sample)
		assert.ErrorIs(t, err, ErrInvalidHash, hash)
	}

	assert.NoDirExists(t, filepath.Join(filepath.Dir(reportsDir), "escaped"))
	assert.NoDirExists(t, reportsDir)
}

func TestIndexPath(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)

	path, err := generator.IndexPath(testSHA256)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(reportsDir, testSHA256, IndexFileName), path)

	_, err = generator.IndexPath("../x")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = generator.SampleDir("")
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestAppend_AppliesDirMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	reportsDir := filepath.Join(t.TempDir(), "reports")
	generator := NewReportGenerator(reportsDir, 0700, logger.NewNop())

	_, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, testSample())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(reportsDir, testSHA256))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestAppend_LinksSurviveColonInTaskName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("':' is not allowed in windows file names")
	}
	generator, reportsDir := newTestGenerator(t)
	sampleDir := filepath.Join(reportsDir, testSHA256)
	touch(t, sampleDir, "a:b_c.webm")
	touch(t, sampleDir, "a:b_c_1.png")

	path, err := generator.Append(Task{VM: "a:b", Snapshot: "c"}, testSample())
	require.NoError(t, err)

	report := readReport(t, path)
	assert.NotContains(t, report, "ZgotmplZ")
	assert.Contains(t, report, `<a href="./a:b_c.webm" target="_blank">Screen recording</a>`)
	assert.Contains(t, report, `<a href="./a:b_c_1.png" target="_blank"><img src="./a:b_c_1.png" width="120" height="100"></a>`)
}

func TestAppend_EscapesSpacesInLinks(t *testing.T) {
	generator, reportsDir := newTestGenerator(t)
	sampleDir := filepath.Join(reportsDir, testSHA256)
	touch(t, sampleDir, "win 10_clean.pcap")

	path, err := generator.Append(Task{VM: "win 10", Snapshot: "clean"}, testSample())
	require.NoError(t, err)

	report := readReport(t, path)
	assert.Contains(t, report, `<a href="./win%2010_clean.pcap" target="_blank">Traffic dump</a>`)
}

func TestAppend_LogsTaskName(t *testing.T) {
	recorder := logger.NewRecorder()
	generator := NewReportGenerator(t.TempDir(), DefaultDirMode, recorder)

	_, err := generator.Append(Task{VM: "vm", Snapshot: "snap"}, testSample())
	require.NoError(t, err)
	assert.Contains(t, recorder.Messages("debug"), "Creating report for task vm_snap")
}

func TestHighlight(t *testing.T) {
	generator, _ := newTestGenerator(t)
	path, err := generator.Append(Task{VM: "win10", Snapshot: "clean"}, testSample())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Highlight(&buf, path, "dracula"))
	assert.Contains(t, buf.String(), "invoice.exe")

	assert.Error(t, Highlight(&buf, filepath.Join(t.TempDir(), "missing.html"), "dracula"))
}
