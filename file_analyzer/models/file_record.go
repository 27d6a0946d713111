package models

// Digests holds every digest computed in a single pass over a file.
type Digests struct {
	SHA256 string `json:"sha256" yaml:"sha256"`
	MD5    string `json:"md5" yaml:"md5"`
	XXH3   string `json:"xxh3" yaml:"xxh3"`
}

// FileRecord describes a sample on disk. It is computed on demand and never cached.
type FileRecord struct {
	Path   string `json:"path" yaml:"path"`
	SHA256 string `json:"sha256" yaml:"sha256"`
	MD5    string `json:"md5" yaml:"md5"`
	XXH3   string `json:"xxh3" yaml:"xxh3"`
	SizeKB int64  `json:"size_kb" yaml:"size_kb"`
}

// VirusTotalURL is the detection page for the sample.
func (r *FileRecord) VirusTotalURL() string {
	return "https://www.virustotal.com/gui/file/" + r.SHA256 + "/detection"
}

// GoogleSearchURL searches the web for the sample hash.
func (r *FileRecord) GoogleSearchURL() string {
	return "https://www.google.com/search?q=" + r.SHA256
}
