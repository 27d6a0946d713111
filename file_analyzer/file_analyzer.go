package file_analyzer

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/meysamhadeli/sandkit/file_analyzer/contracts"
	"github.com/meysamhadeli/sandkit/file_analyzer/models"
	loggerContracts "github.com/meysamhadeli/sandkit/logger/contracts"
	"github.com/zeebo/xxh3"
	"io"
	"math"
	"os"
)

// DefaultBlockSize is the read size used while hashing.
const DefaultBlockSize = 64 * 1024

// ErrFileNotFound is returned by Inspect when the path is not a regular file.
var ErrFileNotFound = errors.New("file does not exist")

// Status codes reported for an Inspect result.
const (
	StatusOK       = 0
	StatusNotFound = 1
	StatusFailed   = 2
)

// FileAnalyzer computes hashes and sizes of samples.
type FileAnalyzer struct {
	logger    loggerContracts.ILogger
	blockSize int

	// digest is swapped in tests to observe whether hashing happened.
	digest func(path string) (models.Digests, error)
}

// NewFileAnalyzer initializes a new FileAnalyzer. A non-positive blockSize falls back to DefaultBlockSize.
func NewFileAnalyzer(logger loggerContracts.ILogger, blockSize int) contracts.IFileAnalyzer {
	return newFileAnalyzer(logger, blockSize)
}

func newFileAnalyzer(logger loggerContracts.ILogger, blockSize int) *FileAnalyzer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	analyzer := &FileAnalyzer{
		logger:    logger,
		blockSize: blockSize,
	}
	analyzer.digest = analyzer.readDigests
	return analyzer
}

// FileHash returns the lowercase hex SHA-256 and MD5 digests of the file.
func (analyzer *FileAnalyzer) FileHash(path string) (string, string, error) {
	digests, err := analyzer.digest(path)
	if err != nil {
		return "", "", err
	}
	return digests.SHA256, digests.MD5, nil
}

// Digest reads the file once in fixed-size blocks and feeds every accumulator.
func (analyzer *FileAnalyzer) Digest(path string) (models.Digests, error) {
	return analyzer.digest(path)
}

func (analyzer *FileAnalyzer) readDigests(path string) (models.Digests, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Digests{}, fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer file.Close()

	sha256Hash := sha256.New()
	md5Hash := md5.New()
	xxh3Hash := xxh3.New()

	buffer := make([]byte, analyzer.blockSize)
	for {
		n, err := file.Read(buffer)
		if n > 0 {
			block := buffer[:n]
			sha256Hash.Write(block)
			md5Hash.Write(block)
			xxh3Hash.Write(block)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Digests{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return models.Digests{
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		XXH3:   fmt.Sprintf("%016x", xxh3Hash.Sum64()),
	}, nil
}

// FileSize returns the file size in kibibytes, rounded half to even.
func (analyzer *FileAnalyzer) FileSize(path string) (int64, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get file info: %w", err)
	}
	return SizeKB(fileInfo.Size()), nil
}

// SizeKB converts a byte count to kibibytes the way round(size / 1024) does.
func SizeKB(size int64) int64 {
	return int64(math.RoundToEven(float64(size) / 1024))
}

// Inspect checks that path is a regular file, then computes and logs its record
// along with lookup links. A missing file is logged and reported as ErrFileNotFound
// without any hashing.
func (analyzer *FileAnalyzer) Inspect(path string) (*models.FileRecord, error) {
	analyzer.logger.Info(fmt.Sprintf("File: \"%s\"", path))

	fileInfo, err := os.Stat(path)
	if err != nil || !fileInfo.Mode().IsRegular() {
		analyzer.logger.Error(fmt.Sprintf("File \"%s\" does not exist.", path))
		return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}

	digests, err := analyzer.digest(path)
	if err != nil {
		return nil, err
	}

	record := &models.FileRecord{
		Path:   path,
		SHA256: digests.SHA256,
		MD5:    digests.MD5,
		XXH3:   digests.XXH3,
		SizeKB: SizeKB(fileInfo.Size()),
	}

	analyzer.logger.Info("SHA256 hash: " + record.SHA256)
	analyzer.logger.Info("MD5 hash: " + record.MD5)
	analyzer.logger.Info(fmt.Sprintf("Size: %d Kb", record.SizeKB))
	analyzer.logger.Info("VirusTotal search: " + record.VirusTotalURL())
	analyzer.logger.Info("Google search: " + record.GoogleSearchURL())

	return record, nil
}

// StatusCode maps an Inspect error to the numeric status callers expect.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrFileNotFound):
		return StatusNotFound
	default:
		return StatusFailed
	}
}
