package contracts

import "github.com/meysamhadeli/sandkit/file_analyzer/models"

type IFileAnalyzer interface {
	FileHash(path string) (sha256 string, md5 string, err error)
	FileSize(path string) (int64, error)
	Digest(path string) (models.Digests, error)
	Inspect(path string) (*models.FileRecord, error)
}
