package utils

import (
	"github.com/meysamhadeli/sandkit/logger/contracts"
	"math/rand"
	"regexp"
	"strings"
)

const (
	minRandomNameLength = 4
	maxRandomNameLength = 20
	letters             = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// extensionPattern matches a trailing extension made of Unicode letters, digits or underscores.
var extensionPattern = regexp.MustCompile(`\.[\p{L}\p{N}_]+$`)

// FolderMap maps a logical destination folder (desktop, downloads, documents,
// temp) to a path template. "{login}" and "{folder}" are substituted with the
// guest user login and the folder name as given by the caller.
type FolderMap map[string]string

// DefaultFolderMap holds the Windows user folder layout.
var DefaultFolderMap = FolderMap{
	"desktop":   `C:\Users\{login}\{folder}\`,
	"downloads": `C:\Users\{login}\{folder}\`,
	"documents": `C:\Users\{login}\{folder}\`,
	"temp":      `C:\Users\{login}\AppData\Local\Temp\`,
}

// Resolve returns the destination for folder and whether it was a logical name.
func (m FolderMap) Resolve(login string, folder string) (string, bool) {
	template, ok := m[strings.ToLower(folder)]
	if !ok {
		return folder, false
	}
	replacer := strings.NewReplacer("{login}", login, "{folder}", folder)
	return replacer.Replace(template), true
}

// FilenameRandomizer builds random remote file names for sample delivery.
type FilenameRandomizer struct {
	rnd              *rand.Rand
	folders          FolderMap
	defaultExtension string
	logger           contracts.ILogger
}

// NewFilenameRandomizer creates a randomizer. Output is deterministic for a given rnd seed.
func NewFilenameRandomizer(rnd *rand.Rand, folders FolderMap, defaultExtension string, logger contracts.ILogger) *FilenameRandomizer {
	if folders == nil {
		folders = DefaultFolderMap
	}
	if defaultExtension == "" {
		defaultExtension = ".exe"
	}
	return &FilenameRandomizer{
		rnd:              rnd,
		folders:          folders,
		defaultExtension: defaultExtension,
		logger:           logger,
	}
}

// Randomize returns destinationFolder + random letters + the extension of file.
func (r *FilenameRandomizer) Randomize(login string, file string, destinationFolder string) string {
	length := minRandomNameLength + r.rnd.Intn(maxRandomNameLength-minRandomNameLength+1)
	name := make([]byte, length)
	for i := range name {
		name[i] = letters[r.rnd.Intn(len(letters))]
	}

	extension := extensionPattern.FindString(file)
	if extension == "" {
		r.logger.Debug("Unable to obtain file extension. Assuming " + r.defaultExtension)
		extension = r.defaultExtension
	}

	folder, logical := r.folders.Resolve(login, destinationFolder)
	if !logical {
		r.logger.Debug("Using custom remote folder")
	}

	remote := folder + string(name) + extension
	r.logger.Debug(`Remote file: "` + remote + `"`)
	return remote
}
