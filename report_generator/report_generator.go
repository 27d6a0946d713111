package report_generator

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/meysamhadeli/sandkit/embed_data"
	"github.com/meysamhadeli/sandkit/logger/contracts"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

const (
	// IndexFileName is the report page inside each sample directory.
	IndexFileName = "index.html"

	// DefaultDirMode is applied to newly created sample directories.
	DefaultDirMode os.FileMode = 0755

	scanTimeLayout = "2006-01-02 15:04:05"
)

var (
	headerTemplate = template.Must(template.New("header").Parse(string(embed_data.ReportHeaderTemplate)))
	taskTemplate   = template.Must(template.New("task").Parse(string(embed_data.ReportTaskTemplate)))
)

var (
	// ErrMissingHash is returned when a sample has no SHA-256 to key its report directory.
	ErrMissingHash = errors.New("sample sha256 is required")

	// ErrInvalidHash is returned when a SHA-256 is not 64 lowercase hex characters.
	ErrInvalidHash = errors.New("sample sha256 must be 64 lowercase hex characters")

	sha256Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// ReportGenerator appends task blocks to per-sample HTML reports.
// Writes are not synchronized: concurrent Append calls for the same sample may interleave.
type ReportGenerator struct {
	reportsDir string
	dirMode    os.FileMode
	logger     contracts.ILogger
	now        func() time.Time
}

// NewReportGenerator creates a generator rooted at reportsDir.
func NewReportGenerator(reportsDir string, dirMode os.FileMode, logger contracts.ILogger) *ReportGenerator {
	if reportsDir == "" {
		reportsDir = "reports"
	}
	return &ReportGenerator{
		reportsDir: reportsDir,
		dirMode:    dirMode,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the "Scanned on" field.
func (g *ReportGenerator) WithClock(now func() time.Time) *ReportGenerator {
	g.now = now
	return g
}

// SampleDir returns the directory holding the report and artifacts of a sample.
func (g *ReportGenerator) SampleDir(sha256 string) (string, error) {
	if err := validateHash(sha256); err != nil {
		return "", err
	}
	return filepath.Join(g.reportsDir, sha256), nil
}

// IndexPath returns the report page of a sample.
func (g *ReportGenerator) IndexPath(sha256 string) (string, error) {
	dir, err := g.SampleDir(sha256)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, IndexFileName), nil
}

// validateHash keeps the report directory name a plain digest so it cannot leave the reports root.
func validateHash(sha256 string) error {
	if sha256 == "" {
		return ErrMissingHash
	}
	if !sha256Pattern.MatchString(sha256) {
		return fmt.Errorf("%q: %w", sha256, ErrInvalidHash)
	}
	return nil
}

// Append creates the sample directory if needed and appends a block for task to
// its index.html. The file header is written only when the file is empty.
func (g *ReportGenerator) Append(task Task, sample Sample) (string, error) {
	g.logger.Debug("Creating report for task " + task.Name())

	destinationDir, err := g.SampleDir(sample.SHA256)
	if err != nil {
		return "", err
	}
	destinationFile := filepath.Join(destinationDir, IndexFileName)

	if err := os.MkdirAll(destinationDir, g.dirMode); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	header, err := g.renderHeader(sample)
	if err != nil {
		return "", err
	}

	view, err := buildTaskView(destinationDir, task)
	if err != nil {
		return "", err
	}

	var block bytes.Buffer
	if err := taskTemplate.Execute(&block, view); err != nil {
		return "", fmt.Errorf("failed to render task block: %w", err)
	}

	file, err := os.OpenFile(destinationFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open report file: %w", err)
	}

	if err := writeBlocks(file, header, block.Bytes()); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}

	return destinationFile, nil
}

func writeBlocks(file *os.File, header []byte, block []byte) error {
	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat report file: %w", err)
	}

	if fileInfo.Size() == 0 {
		if _, err := file.Write(header); err != nil {
			return fmt.Errorf("failed to write report header: %w", err)
		}
	}

	if _, err := file.Write(block); err != nil {
		return fmt.Errorf("failed to write task block: %w", err)
	}
	return nil
}

func (g *ReportGenerator) renderHeader(sample Sample) ([]byte, error) {
	view := headerView{
		Name:            sample.Name,
		Arguments:       sample.Arguments,
		SizeKB:          sample.SizeKB,
		SHA256:          sample.SHA256,
		MD5:             sample.MD5,
		VirusTotalURL:   "https://www.virustotal.com/gui/search/" + sample.SHA256,
		ScannedOn:       g.now().Format(scanTimeLayout),
		DurationSeconds: int64(sample.Timeout / time.Second),
		NetworkState:    sample.NetworkState,
	}

	var buf bytes.Buffer
	if err := headerTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render report header: %w", err)
	}
	return buf.Bytes(), nil
}

// buildTaskView collects the artifacts and screenshots of task present in dir.
func buildTaskView(dir string, task Task) (taskView, error) {
	name := task.Name()
	view := taskView{Name: name}

	for _, kind := range artifactKinds {
		fileName := name + kind.Extension
		if isFile(filepath.Join(dir, fileName)) {
			view.Downloads = append(view.Downloads, downloadLink{Href: relativeHref(fileName), Label: kind.Label})
		}
	}

	screenshots, err := findScreenshots(dir, name)
	if err != nil {
		return taskView{}, err
	}
	for _, screenshot := range screenshots {
		view.Screenshots = append(view.Screenshots, relativeHref(screenshot))
	}

	return view, nil
}

// findScreenshots lists "<task>_<N>.png" files in dir ordered by N.
func findScreenshots(dir string, taskName string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list report directory: %w", err)
	}

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(taskName) + `_(\d+)\.png$`)

	type screenshot struct {
		name  string
		index int
	}
	var found []screenshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, screenshot{name: entry.Name(), index: index})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].index < found[j].index
	})

	names := make([]string, 0, len(found))
	for _, s := range found {
		names = append(names, s.name)
	}
	return names, nil
}

// relativeHref links a file next to index.html. The "./" prefix keeps names
// containing ':' from being read as a URL scheme.
func relativeHref(fileName string) string {
	return "./" + url.PathEscape(fileName)
}

func isFile(path string) bool {
	fileInfo, err := os.Stat(path)
	return err == nil && fileInfo.Mode().IsRegular()
}

// Highlight prints a report file with terminal syntax highlighting.
func Highlight(w io.Writer, path string, theme string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	if err := quick.Highlight(w, string(content), "html", "terminal256", theme); err != nil {
		return fmt.Errorf("failed to highlight report: %w", err)
	}
	return nil
}
