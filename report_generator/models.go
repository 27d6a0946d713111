package report_generator

import "time"

// Task identifies one sandbox execution.
type Task struct {
	VM       string
	Snapshot string
}

// Name is the prefix every artifact of the task shares.
func (t Task) Name() string {
	return t.VM + "_" + t.Snapshot
}

// Sample carries the file metadata shown in the report header.
type Sample struct {
	Name         string
	Arguments    string
	SizeKB       int64
	SHA256       string
	MD5          string
	Timeout      time.Duration
	NetworkState string
}

// Artifact kinds a task may leave next to the report.
var artifactKinds = []struct {
	Extension string
	Label     string
}{
	{".webm", "Screen recording"},
	{".pcap", "Traffic dump"},
	{".dmp", "Memory dump"},
}

type headerView struct {
	Name            string
	Arguments       string
	SizeKB          int64
	SHA256          string
	MD5             string
	VirusTotalURL   string
	ScannedOn       string
	DurationSeconds int64
	NetworkState    string
}

type downloadLink struct {
	Href  string
	Label string
}

type taskView struct {
	Name        string
	Downloads   []downloadLink
	Screenshots []string
}
